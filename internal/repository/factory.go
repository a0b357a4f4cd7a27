package repository

import (
	"github.com/flexprice/ordertax/internal/config"
	"github.com/flexprice/ordertax/internal/domain/ordertax"
	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	"github.com/flexprice/ordertax/internal/httpclient"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/postgres"
	postgresRepo "github.com/flexprice/ordertax/internal/repository/postgres"
	"github.com/flexprice/ordertax/internal/repository/remote"
	"github.com/flexprice/ordertax/internal/types"
)

func NewTaxConfigurationRepository(db *postgres.DB, logger *logger.Logger) taxconfig.Repository {
	return postgresRepo.NewTaxConfigurationRepository(db, logger)
}

// NewConfigurationSource picks where the resolver reads candidates from.
// Writes always go to the repository.
func NewConfigurationSource(
	cfg *config.Configuration,
	repo taxconfig.Repository,
	logger *logger.Logger,
) ordertax.ConfigurationSource {
	if cfg.TaxEngine.Source == types.ConfigurationSourceRemote {
		client := httpclient.NewClient(httpclient.ClientConfig{
			Timeout:  cfg.ConfigService.Timeout,
			RetryMax: cfg.ConfigService.RetryMax,
		}, logger)

		logger.Infow("reading tax configurations from the configuration service",
			"base_url", cfg.ConfigService.BaseURL,
		)
		return remote.NewTaxConfigurationSource(cfg, client, logger)
	}

	return repo
}
