package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"googlemaps.github.io/maps"

	"amazonia/internal/types"
	logx "amazonia/pkg/logger"
)

var (
	ErrNoResult    = errors.New("address not found")
	ErrUnavailable = errors.New("geocoding unavailable")
)

// geocoder is the subset of *maps.Client the service uses.
type geocoder interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GeocodeService resolves typed delivery addresses to coordinates.
type GeocodeService struct {
	client  geocoder
	breaker *gobreaker.CircuitBreaker
	region  string
}

// NewGeocodeService creates a GeocodeService with the given API Key.
// region biases results, e.g. "ve".
func NewGeocodeService(apiKey, region string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newGeocodeService(client, region), nil
}

func newGeocodeService(client geocoder, region string) *GeocodeService {
	settings := gobreaker.Settings{
		Name:        "maps-geocode",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// an unknown address is the caller's problem, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoResult)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logx.Warn().Str("name", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}
	return &GeocodeService{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		region:  region,
	}
}

// Geocode returns the coordinates of the best match for address.
func (s *GeocodeService) Geocode(ctx context.Context, address string) (types.Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return types.Point{}, ErrNoResult
	}
	res, err := s.breaker.Execute(func() (interface{}, error) {
		results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{
			Address: address,
			Region:  s.region,
		})
		if err != nil {
			return nil, fmt.Errorf("maps api error: %w", err)
		}
		if len(results) == 0 {
			return nil, ErrNoResult
		}
		loc := results[0].Geometry.Location
		return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
	})
	if errors.Is(err, ErrNoResult) {
		return types.Point{}, err
	}
	if err != nil {
		// breaker rejections and upstream failures are both outages
		return types.Point{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return res.(types.Point), nil
}
