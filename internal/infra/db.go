// README: Postgres pool for settings and currency rate persistence.
package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied on startup; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS delivery_settings (
    id                   SMALLINT PRIMARY KEY CHECK (id = 1),
    store_lat            DOUBLE PRECISION NOT NULL,
    store_lng            DOUBLE PRECISION NOT NULL,
    fuel_price_per_liter DOUBLE PRECISION NOT NULL,
    margin_multiplier    DOUBLE PRECISION NOT NULL DEFAULT 1,
    earth_radius_km      DOUBLE PRECISION NOT NULL DEFAULT 6371,
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS currency_rates (
    code       TEXT PRIMARY KEY,
    rate       DOUBLE PRECISION NOT NULL CHECK (rate > 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

func NewDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
