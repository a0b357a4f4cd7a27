package service

import (
	"github.com/flexprice/ordertax/internal/cache"
	"github.com/flexprice/ordertax/internal/config"
	"github.com/flexprice/ordertax/internal/domain/ordertax"
	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/postgres"
	"github.com/flexprice/ordertax/internal/pubsub"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	TaxConfigRepo taxconfig.Repository

	// ConfigurationSource feeds the resolver; it is TaxConfigRepo unless a
	// remote configuration service is configured
	ConfigurationSource ordertax.ConfigurationSource

	CalculationCache *cache.CalculationCache
	Tracker          *OrderTotalsTracker

	// Events
	PubSub pubsub.PubSub
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	taxConfigRepo taxconfig.Repository,
	configurationSource ordertax.ConfigurationSource,
	calculationCache *cache.CalculationCache,
	tracker *OrderTotalsTracker,
	pubSub pubsub.PubSub,
) ServiceParams {
	return ServiceParams{
		Logger:              logger,
		Config:              config,
		DB:                  db,
		TaxConfigRepo:       taxConfigRepo,
		ConfigurationSource: configurationSource,
		CalculationCache:    calculationCache,
		Tracker:             tracker,
		PubSub:              pubSub,
	}
}
