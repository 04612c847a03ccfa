// README: Delivery settings store backed by PostgreSQL (single row).
package delivery

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// LoadSettings reports ok=false when no settings row exists yet.
func (s *Store) LoadSettings(ctx context.Context) (Settings, bool, error) {
	var st Settings
	err := s.db.QueryRow(ctx, `
        SELECT store_lat, store_lng, fuel_price_per_liter, margin_multiplier, earth_radius_km
        FROM delivery_settings
        WHERE id = 1`,
	).Scan(
		&st.StoreLocation.Lat, &st.StoreLocation.Lng,
		&st.FuelPricePerLiter, &st.MarginMultiplier, &st.EarthRadiusKm,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, false, nil
	}
	if err != nil {
		return Settings{}, false, err
	}
	return st, true, nil
}

func (s *Store) SaveSettings(ctx context.Context, st Settings) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO delivery_settings (
            id, store_lat, store_lng, fuel_price_per_liter, margin_multiplier, earth_radius_km, updated_at
        ) VALUES (1, $1, $2, $3, $4, $5, NOW())
        ON CONFLICT (id) DO UPDATE SET
            store_lat = EXCLUDED.store_lat,
            store_lng = EXCLUDED.store_lng,
            fuel_price_per_liter = EXCLUDED.fuel_price_per_liter,
            margin_multiplier = EXCLUDED.margin_multiplier,
            earth_radius_km = EXCLUDED.earth_radius_km,
            updated_at = NOW()`,
		st.StoreLocation.Lat, st.StoreLocation.Lng,
		st.FuelPricePerLiter, st.MarginMultiplier, st.EarthRadiusKm,
	)
	return err
}
