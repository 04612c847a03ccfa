// README: Currency service keeps the converter in sync with persisted admin rates.
package currency

import (
	"context"
	"fmt"
	"sync"

	logx "amazonia/pkg/logger"
)

// RateStore persists rates. *Store is the PostgreSQL implementation.
type RateStore interface {
	LoadRates(ctx context.Context) (map[Code]float64, error)
	SaveRate(ctx context.Context, code Code, rate float64) error
}

// Service exposes read access to the converter; rates change only through
// UpdateRate so every change is persisted first.
type Service struct {
	conv  *Converter
	store RateStore
	// writeMu orders SaveRate and the converter swap across admin updates.
	writeMu sync.Mutex
}

// NewService wraps conv; store may be nil, in which case rates live only in memory.
func NewService(conv *Converter, store RateStore) *Service {
	return &Service{conv: conv, store: store}
}

func (s *Service) Rate(code Code) (float64, error) { return s.conv.Rate(code) }

func (s *Service) Rates() map[Code]float64 { return s.conv.Rates() }

func (s *Service) Convert(amountInBase float64, code Code) (float64, error) {
	return s.conv.Convert(amountInBase, code)
}

func (s *Service) Format(amountInBase float64, code Code) (string, error) {
	return s.conv.Format(amountInBase, code)
}

// Load applies persisted rates over the current table. Invalid or unknown
// rows are skipped with a warning.
func (s *Service) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	rates, err := s.store.LoadRates(ctx)
	if err != nil {
		return fmt.Errorf("load currency rates: %w", err)
	}
	for code, rate := range rates {
		if code == Base {
			continue
		}
		if err := s.conv.SetRate(code, rate); err != nil {
			logx.Warn().Err(err).Str("currency", string(code)).Float64("rate", rate).Msg("skipping persisted rate")
		}
	}
	return nil
}

// UpdateRate validates, persists and then publishes the new rate.
func (s *Service) UpdateRate(ctx context.Context, code Code, rate float64) error {
	if err := ValidateRate(code, rate); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.store != nil {
		if err := s.store.SaveRate(ctx, code, rate); err != nil {
			return fmt.Errorf("save currency rate: %w", err)
		}
	}
	if err := s.conv.SetRate(code, rate); err != nil {
		return err
	}
	logx.Info().Str("currency", string(code)).Float64("rate", rate).Msg("currency rate updated")
	return nil
}
