// README: Delivery service prices a cart for a customer location using the current settings.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"amazonia/internal/modules/cart"
	"amazonia/internal/modules/location"
	"amazonia/internal/types"
	logx "amazonia/pkg/logger"
)

var ErrInvalidSettings = errors.New("invalid delivery settings")

// SettingsStore persists Settings. *Store is the PostgreSQL implementation.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (Settings, bool, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// Recorder receives one call per computed quote.
type Recorder interface {
	RecordDeliveryQuote(vehicle string, manualQuote bool)
}

type EstimateRequest struct {
	Customer types.Point
	Lines    []cart.Line
}

type Service struct {
	store    SettingsStore
	recorder Recorder
	settings atomic.Pointer[Settings]
	// writeMu keeps the persisted row and the in-memory snapshot in step.
	writeMu sync.Mutex
}

// NewService starts from initial until Load or UpdateSettings replaces it.
// store and recorder may be nil.
func NewService(store SettingsStore, recorder Recorder, initial Settings) *Service {
	s := &Service{store: store, recorder: recorder}
	s.settings.Store(&initial)
	return s
}

// Load replaces the in-memory settings with the persisted ones, if any.
func (s *Service) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	st, ok, err := s.store.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load delivery settings: %w", err)
	}
	if !ok {
		logx.Info().Msg("no persisted delivery settings, using defaults")
		return nil
	}
	if err := ValidateSettings(st); err != nil {
		return fmt.Errorf("persisted delivery settings: %w", err)
	}
	s.settings.Store(&st)
	return nil
}

func (s *Service) Settings() Settings {
	return *s.settings.Load()
}

func (s *Service) UpdateSettings(ctx context.Context, st Settings) (Settings, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.replace(ctx, st)
}

// PatchSettings applies the fields set in p over the current settings.
func (s *Service) PatchSettings(ctx context.Context, p SettingsPatch) (Settings, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.replace(ctx, p.apply(s.Settings()))
}

// replace must be called with writeMu held.
func (s *Service) replace(ctx context.Context, st Settings) (Settings, error) {
	if err := ValidateSettings(st); err != nil {
		return Settings{}, err
	}
	if s.store != nil {
		if err := s.store.SaveSettings(ctx, st); err != nil {
			return Settings{}, fmt.Errorf("save delivery settings: %w", err)
		}
	}
	s.settings.Store(&st)
	logx.Info().
		Float64("fuel_price", st.FuelPricePerLiter).
		Float64("margin", st.MarginMultiplier).
		Float64("earth_radius_km", st.EarthRadiusKm).
		Msg("delivery settings updated")
	return st, nil
}

// Estimate measures the distance from the store to the customer, reduces the
// cart lines to points and prices the shipment.
func (s *Service) Estimate(ctx context.Context, req EstimateRequest) (Quote, error) {
	if err := location.ValidatePoint(req.Customer); err != nil {
		return Quote{}, err
	}
	for _, l := range req.Lines {
		if l.Quantity < 1 || l.UnitPrice < 0 {
			return Quote{}, cart.ErrBadRequest
		}
	}
	st := s.Settings()

	dist := location.Engine{RadiusKm: st.EarthRadiusKm}.DistanceKm(st.StoreLocation, req.Customer)
	points := cart.Points(req.Lines)
	if err := ValidateInputs(dist, points, st.FuelPricePerLiter); err != nil {
		return Quote{}, err
	}

	q := Pricer{MarginMultiplier: st.MarginMultiplier}.Quote(dist, points, st.FuelPricePerLiter)
	if s.recorder != nil {
		s.recorder.RecordDeliveryQuote(string(q.Vehicle), q.RequiresManualQuote)
	}
	logx.Debug().
		Float64("distance_km", q.DistanceKm).
		Float64("points", q.PointsUsed).
		Str("vehicle", string(q.Vehicle)).
		Int64("final_price", q.FinalPrice).
		Bool("manual_quote", q.RequiresManualQuote).
		Msg("delivery quote")
	return q, nil
}

func ValidateSettings(st Settings) error {
	if err := location.ValidatePoint(st.StoreLocation); err != nil {
		return fmt.Errorf("%w: store location: %v", ErrInvalidSettings, err)
	}
	if !finiteNonNegative(st.FuelPricePerLiter) {
		return fmt.Errorf("%w: fuel price", ErrInvalidSettings)
	}
	if !finitePositive(st.MarginMultiplier) {
		return fmt.Errorf("%w: margin multiplier", ErrInvalidSettings)
	}
	if !finitePositive(st.EarthRadiusKm) {
		return fmt.Errorf("%w: earth radius", ErrInvalidSettings)
	}
	return nil
}

func finitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
