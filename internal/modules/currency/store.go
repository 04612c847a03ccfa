// README: Currency rate store backed by PostgreSQL.
package currency

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) LoadRates(ctx context.Context) (map[Code]float64, error) {
	rows, err := s.db.Query(ctx, `SELECT code, rate FROM currency_rates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := map[Code]float64{}
	for rows.Next() {
		var code string
		var rate float64
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, err
		}
		rates[Code(code)] = rate
	}
	return rates, rows.Err()
}

func (s *Store) SaveRate(ctx context.Context, code Code, rate float64) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO currency_rates (code, rate, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (code) DO UPDATE SET rate = EXCLUDED.rate, updated_at = NOW()`,
		string(code), rate,
	)
	return err
}
