// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"amazonia/internal/config"
	httptransport "amazonia/internal/http"
	"amazonia/internal/infra"
	"amazonia/internal/maps"
	"amazonia/internal/metrics"
	"amazonia/internal/modules/cart"
	"amazonia/internal/modules/checkout"
	"amazonia/internal/modules/currency"
	"amazonia/internal/modules/delivery"
	logx "amazonia/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logx.Warn().Err(err).Msg("could not load .env")
	}

	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("load config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Env()})
	if cfg.Env().IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		logx.Fatal().Msg("STOREFRONT_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		logx.Fatal().Err(err).Msg("firebase init")
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logx.Fatal().Err(err).Msg("postgres")
	}
	defer dbPool.Close()
	if err := infra.Migrate(ctx, dbPool); err != nil {
		logx.Fatal().Err(err).Msg("postgres schema")
	}

	redisClient, err := infra.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logx.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	m := metrics.New()

	cartSvc := cart.NewService(cart.NewStore(redisClient, cfg.Redis.CartTTL))

	deliverySvc := delivery.NewService(delivery.NewStore(dbPool), m, cfg.Delivery.Settings())
	if err := deliverySvc.Load(ctx); err != nil {
		logx.Fatal().Err(err).Msg("delivery settings")
	}

	currencySvc := currency.NewService(currency.NewConverter(currency.DefaultRates), currency.NewStore(dbPool))
	if err := currencySvc.Load(ctx); err != nil {
		logx.Fatal().Err(err).Msg("currency rates")
	}

	deps := httptransport.ServerDeps{
		Cart:     cartSvc,
		Delivery: deliverySvc,
		Currency: currencySvc,
		Metrics:  m,
		Verifier: verifier,
	}
	var geocoder checkout.Geocoder
	if cfg.Maps.APIKey != "" {
		geo, err := maps.NewGeocodeService(cfg.Maps.APIKey, cfg.Maps.Region)
		if err != nil {
			logx.Fatal().Err(err).Msg("maps client")
		}
		geocoder = geo
		deps.Geocoder = geo
	} else {
		logx.Warn().Msg("no maps api key; delivery quotes require coordinates")
	}
	deps.Checkout = checkout.NewService(cartSvc, deliverySvc, currencySvc, geocoder, checkout.Config{
		StoreName:     cfg.Checkout.StoreName,
		WhatsAppPhone: cfg.Checkout.WhatsAppPhone,
		ClearCart:     cfg.Checkout.ClearCart,
	})

	handler := httptransport.NewServer(deps)
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logx.Error().Err(err).Msg("http shutdown")
		}
	}()

	logx.Info().Str("addr", cfg.HTTP.Addr).Str("env", string(cfg.Env())).Msg("storefront api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logx.Fatal().Err(err).Msg("http server")
	}
	logx.Info().Msg("storefront api stopped")
}
