package currency

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRateStore struct {
	mu      sync.Mutex
	rates   map[Code]float64
	loadErr error
	saveErr error
}

func (m *memRateStore) LoadRates(context.Context) (map[Code]float64, error) {
	return m.rates, m.loadErr
}

func (m *memRateStore) SaveRate(_ context.Context, code Code, rate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.rates == nil {
		m.rates = map[Code]float64{}
	}
	m.rates[code] = rate
	return nil
}

func TestService_LoadAppliesPersistedRates(t *testing.T) {
	store := &memRateStore{rates: map[Code]float64{
		USD: 0.19,
		VES: -3,  // invalid, skipped
		BRL: 2,   // base, ignored
		"EUR": 1, // unknown, skipped
	}}
	svc := NewService(NewConverter(nil), store)

	require.NoError(t, svc.Load(context.Background()))

	rates := svc.Rates()
	assert.Equal(t, 0.19, rates[USD])
	assert.Equal(t, 7.30, rates[VES])
	assert.Equal(t, 1.0, rates[BRL])
	_, ok := rates["EUR"]
	assert.False(t, ok)
}

func TestService_LoadError(t *testing.T) {
	svc := NewService(NewConverter(nil), &memRateStore{loadErr: errors.New("db down")})
	assert.Error(t, svc.Load(context.Background()))
}

func TestService_UpdateRatePersistsThenPublishes(t *testing.T) {
	store := &memRateStore{}
	svc := NewService(NewConverter(nil), store)

	require.NoError(t, svc.UpdateRate(context.Background(), VES, 10))
	assert.Equal(t, 10.0, store.rates[VES])

	got, err := svc.Format(50, VES)
	require.NoError(t, err)
	assert.Equal(t, "Bs500.00", got)
}

func TestService_UpdateRateRejectedBeforePersisting(t *testing.T) {
	store := &memRateStore{}
	svc := NewService(NewConverter(nil), store)

	assert.ErrorIs(t, svc.UpdateRate(context.Background(), USD, 0), ErrInvalidRate)
	assert.ErrorIs(t, svc.UpdateRate(context.Background(), BRL, 2), ErrBaseRateFixed)
	assert.Empty(t, store.rates)
}

func TestService_UpdateRateStoreFailureKeepsOldRate(t *testing.T) {
	svc := NewService(NewConverter(nil), &memRateStore{saveErr: errors.New("db down")})

	require.Error(t, svc.UpdateRate(context.Background(), USD, 0.5))
	r, _ := svc.Rate(USD)
	assert.Equal(t, 0.20, r)
}

func TestService_ConcurrentUpdatesMatchStoredRate(t *testing.T) {
	store := &memRateStore{}
	svc := NewService(NewConverter(nil), store)

	var wg sync.WaitGroup
	for i := 1; i <= 40; i++ {
		wg.Add(1)
		go func(rate float64) {
			defer wg.Done()
			assert.NoError(t, svc.UpdateRate(context.Background(), VES, rate))
		}(float64(i))
	}
	wg.Wait()

	r, err := svc.Rate(VES)
	require.NoError(t, err)
	assert.Equal(t, store.rates[VES], r)
}

func TestService_ReadsFollowConverter(t *testing.T) {
	svc := NewService(NewConverter(map[Code]float64{USD: 0.25}), nil)

	got, err := svc.Convert(100, USD)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got, 1e-9)

	// rates change only through UpdateRate
	require.NoError(t, svc.UpdateRate(context.Background(), USD, 0.5))
	got, err = svc.Convert(100, USD)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got, 1e-9)
}
