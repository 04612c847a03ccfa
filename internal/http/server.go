// README: API gateway; wires module services into the gin router.
package http

import (
	"net/http"

	"amazonia/internal/http/handlers"
	"amazonia/internal/infra"
	"amazonia/internal/metrics"
)

type ServerDeps struct {
	Cart     handlers.CartService
	Delivery handlers.DeliveryService
	Currency handlers.CurrencyService
	Checkout handlers.CheckoutService
	// Geocoder may be nil when no Maps API key is configured.
	Geocoder handlers.Geocoder
	Metrics  *metrics.Metrics
	Verifier infra.TokenVerifier
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	return NewRouter(s.deps)
}
