package delivery

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amazonia/internal/modules/cart"
	"amazonia/internal/modules/location"
	"amazonia/internal/types"
)

type stubSettingsStore struct {
	mu       sync.Mutex
	settings Settings
	found    bool
	saved    []Settings
	err      error
}

func (s *stubSettingsStore) LoadSettings(context.Context) (Settings, bool, error) {
	return s.settings, s.found, s.err
}

func (s *stubSettingsStore) SaveSettings(_ context.Context, st Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, st)
	return nil
}

func (s *stubSettingsStore) last() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[len(s.saved)-1]
}

type countingRecorder struct {
	byVehicle map[string]int
	manual    int
}

func (r *countingRecorder) RecordDeliveryQuote(vehicle string, manual bool) {
	if r.byVehicle == nil {
		r.byVehicle = map[string]int{}
	}
	r.byVehicle[vehicle]++
	if manual {
		r.manual++
	}
}

func TestService_EstimateAtStoreDoor(t *testing.T) {
	rec := &countingRecorder{}
	svc := NewService(nil, rec, DefaultSettings())

	q, err := svc.Estimate(context.Background(), EstimateRequest{
		Customer: DefaultStoreLocation,
		Lines: []cart.Line{
			{ProductID: "rice", Quantity: 3, UnitPrice: 5},
			{ProductID: "oil", Quantity: 2, UnitPrice: 40, WholesaleUnit: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, q.DistanceKm)
	assert.Equal(t, 23.0, q.PointsUsed)
	assert.Equal(t, TierCarVan, q.Vehicle)
	assert.Equal(t, int64(20), q.FinalPrice)
	assert.Equal(t, 1, rec.byVehicle[string(TierCarVan)])
	assert.Zero(t, rec.manual)
}

func TestService_EstimateUsesConfiguredRadiusAndMargin(t *testing.T) {
	st := Settings{
		StoreLocation:     types.Point{Lat: 0, Lng: 0},
		FuelPricePerLiter: 7.8,
		MarginMultiplier:  1.3,
		EarthRadiusKm:     location.LegacyEarthRadiusKm,
	}
	svc := NewService(nil, nil, st)

	q, err := svc.Estimate(context.Background(), EstimateRequest{
		Customer: types.Point{Lat: 0, Lng: 1},
		Lines:    []cart.Line{{Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)

	// 23.93 km on the legacy sphere; 23.93 * 7.8 / 35 = 5.333; (5.333 + 5) * 1.3 = 13.43 -> 14
	assert.Equal(t, 23.93, q.DistanceKm)
	assert.Equal(t, TierMotorcycle, q.Vehicle)
	assert.Equal(t, int64(14), q.FinalPrice)
}

func TestService_EstimateRejectsBadInput(t *testing.T) {
	svc := NewService(nil, nil, DefaultSettings())
	ctx := context.Background()

	_, err := svc.Estimate(ctx, EstimateRequest{Customer: types.Point{Lat: 91, Lng: 0}})
	assert.ErrorIs(t, err, location.ErrInvalidCoordinates)

	_, err = svc.Estimate(ctx, EstimateRequest{Customer: types.Point{Lat: math.NaN()}})
	assert.ErrorIs(t, err, location.ErrInvalidCoordinates)

	_, err = svc.Estimate(ctx, EstimateRequest{
		Customer: DefaultStoreLocation,
		Lines:    []cart.Line{{Quantity: 0}},
	})
	assert.ErrorIs(t, err, cart.ErrBadRequest)
}

func TestService_ManualQuoteIsRecorded(t *testing.T) {
	rec := &countingRecorder{}
	svc := NewService(nil, rec, DefaultSettings())

	q, err := svc.Estimate(context.Background(), EstimateRequest{
		Customer: types.Point{Lat: 4.61, Lng: -61.12},
		Lines:    []cart.Line{{Quantity: 30, WholesaleUnit: true}},
	})
	require.NoError(t, err)
	assert.True(t, q.RequiresManualQuote)
	assert.Equal(t, 1, rec.manual)
}

func TestService_LoadAndUpdateSettings(t *testing.T) {
	persisted := Settings{
		StoreLocation:     types.Point{Lat: 10.48, Lng: -66.90},
		FuelPricePerLiter: 9.1,
		MarginMultiplier:  1.1,
		EarthRadiusKm:     location.DefaultEarthRadiusKm,
	}
	store := &stubSettingsStore{settings: persisted, found: true}
	svc := NewService(store, nil, DefaultSettings())

	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, persisted, svc.Settings())

	next := persisted
	next.FuelPricePerLiter = 10
	got, err := svc.UpdateSettings(context.Background(), next)
	require.NoError(t, err)
	assert.Equal(t, next, got)
	assert.Equal(t, next, svc.Settings())
	require.Len(t, store.saved, 1)
}

func TestService_LoadKeepsDefaultsWhenNothingPersisted(t *testing.T) {
	svc := NewService(&stubSettingsStore{}, nil, DefaultSettings())
	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, DefaultSettings(), svc.Settings())
}

func TestService_UpdateSettingsValidation(t *testing.T) {
	store := &stubSettingsStore{}
	svc := NewService(store, nil, DefaultSettings())

	bad := []Settings{
		{StoreLocation: types.Point{Lat: 100}, FuelPricePerLiter: 1, MarginMultiplier: 1, EarthRadiusKm: 6371},
		{StoreLocation: DefaultStoreLocation, FuelPricePerLiter: -1, MarginMultiplier: 1, EarthRadiusKm: 6371},
		{StoreLocation: DefaultStoreLocation, FuelPricePerLiter: 1, MarginMultiplier: 0, EarthRadiusKm: 6371},
		{StoreLocation: DefaultStoreLocation, FuelPricePerLiter: 1, MarginMultiplier: 1, EarthRadiusKm: 0},
	}
	for _, st := range bad {
		_, err := svc.UpdateSettings(context.Background(), st)
		assert.ErrorIs(t, err, ErrInvalidSettings)
	}
	assert.Empty(t, store.saved)
	assert.Equal(t, DefaultSettings(), svc.Settings())
}

func TestService_UpdateSettingsStoreFailureKeepsPrevious(t *testing.T) {
	store := &stubSettingsStore{err: errors.New("db down")}
	svc := NewService(store, nil, DefaultSettings())

	next := DefaultSettings()
	next.FuelPricePerLiter = 12
	_, err := svc.UpdateSettings(context.Background(), next)
	require.Error(t, err)
	assert.Equal(t, DefaultSettings(), svc.Settings())
}

func TestService_PatchSettingsKeepsOmittedFields(t *testing.T) {
	store := &stubSettingsStore{}
	svc := NewService(store, nil, DefaultSettings())

	fuel := 9.5
	got, err := svc.PatchSettings(context.Background(), SettingsPatch{FuelPricePerLiter: &fuel})
	require.NoError(t, err)

	want := DefaultSettings()
	want.FuelPricePerLiter = 9.5
	assert.Equal(t, want, got)
	assert.Equal(t, DefaultStoreLocation, svc.Settings().StoreLocation)

	bad := types.Point{Lat: -95, Lng: 0}
	_, err = svc.PatchSettings(context.Background(), SettingsPatch{StoreLocation: &bad})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Equal(t, want, svc.Settings())
}

func TestService_ConcurrentUpdatesLeaveStoreAndMemoryInStep(t *testing.T) {
	store := &stubSettingsStore{}
	svc := NewService(store, nil, DefaultSettings())

	var wg sync.WaitGroup
	for i := 1; i <= 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fuel := float64(i)
			_, err := svc.PatchSettings(context.Background(), SettingsPatch{FuelPricePerLiter: &fuel})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Len(t, store.saved, 30)
	assert.Equal(t, store.last(), svc.Settings())
}
