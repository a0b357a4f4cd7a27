package cache

import (
	"github.com/flexprice/ordertax/internal/config"
	"github.com/flexprice/ordertax/internal/logger"
)

// Initialize builds the calculation cache from configuration
func Initialize(cfg *config.Configuration, log *logger.Logger) *CalculationCache {
	engine := cfg.TaxEngine

	log.Infow("initializing calculation cache",
		"enabled", engine.CacheEnabled,
		"ttl", engine.CacheTTL.String(),
		"stale_ttl", engine.StaleTTL.String(),
	)

	store := NewInMemoryCache(engine.StaleTTL, DefaultCleanupInterval)

	return NewCalculationCache(store, CalculationCacheOptions{
		Enabled:  engine.CacheEnabled,
		TTL:      engine.CacheTTL,
		StaleTTL: engine.StaleTTL,
		Clock:    SystemClock,
	}, log)
}
