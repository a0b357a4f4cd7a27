package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "github.com/flexprice/ordertax/docs/swagger"
	"github.com/flexprice/ordertax/internal/api"
	v1 "github.com/flexprice/ordertax/internal/api/v1"
	"github.com/flexprice/ordertax/internal/cache"
	"github.com/flexprice/ordertax/internal/config"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/postgres"
	"github.com/flexprice/ordertax/internal/pubsub"
	"github.com/flexprice/ordertax/internal/pubsub/memory"
	"github.com/flexprice/ordertax/internal/pyroscope"
	"github.com/flexprice/ordertax/internal/repository"
	"github.com/flexprice/ordertax/internal/sentry"
	"github.com/flexprice/ordertax/internal/service"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/flexprice/ordertax/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Order Tax API
// @version 1.0
// @description Tax calculation for draft restaurant orders and management of tax configurations.
// @BasePath /v1
// @schemes http https

const shutdownTimeout = 10 * time.Second

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// Postgres
			postgres.NewDB,
			providePostgresClient,

			// Repositories
			repository.NewTaxConfigurationRepository,
			repository.NewConfigurationSource,

			// PubSub
			memory.NewPubSub,
		),
		fx.Invoke(validator.NewValidator),
		sentry.Module(),
		pyroscope.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewOrderTotalsTracker,
			service.NewServiceParams,

			service.NewTaxService,
			service.NewTaxConfigurationService,
			provideCacheInvalidator,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func providePostgresClient(db *postgres.DB, sentryService *sentry.Service, logger *logger.Logger) postgres.IClient {
	return postgres.NewSentryClient(db, sentryService, logger)
}

func provideCacheInvalidator(
	ps pubsub.PubSub,
	calculationCache *cache.CalculationCache,
	taxService service.TaxService,
	logger *logger.Logger,
) *service.CacheInvalidator {
	return service.NewCacheInvalidator(ps, calculationCache, taxService, logger)
}

func provideHandlers(
	logger *logger.Logger,
	db postgres.IClient,
	taxService service.TaxService,
	taxConfigurationService service.TaxConfigurationService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(db, logger),
		Tax:       v1.NewTaxHandler(taxService, logger),
		TaxConfig: v1.NewTaxConfigHandler(taxConfigurationService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	ps pubsub.PubSub,
	invalidator *service.CacheInvalidator,
	tracker *service.OrderTotalsTracker,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	// stop hooks run in reverse, so this one runs after the server and invalidator stop
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracker.Wait()
			if err := ps.Close(); err != nil {
				log.Errorw("failed to close pubsub", "error", err)
			}
			db.Close()
			return nil
		},
	})

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startInvalidator(lc, invalidator, log)
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startInvalidator(lc fx.Lifecycle, invalidator *service.CacheInvalidator, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return invalidator.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping cache invalidator")
			return invalidator.Stop(ctx)
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down API server")
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return server.Shutdown(ctx)
		},
	})
}
