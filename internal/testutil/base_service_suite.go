package testutil

import (
	"context"
	"time"

	"github.com/flexprice/ordertax/internal/cache"
	"github.com/flexprice/ordertax/internal/config"
	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/flexprice/ordertax/internal/validator"
	"github.com/stretchr/testify/suite"
)

type Stores struct {
	TaxConfigRepo taxconfig.Repository
}

type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	stores   Stores
	db       *MockPostgresClient
	pubsub   *InMemoryPubSub
	clock    *FakeClock
	calcache *cache.CalculationCache
	logger   *logger.Logger
	config   *config.Configuration
	now      time.Time
}

func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
	_ = s.pubsub.Close()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		TaxConfigRepo: NewInMemoryTaxConfigurationStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	s.pubsub = NewInMemoryPubSub()
	s.clock = NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	engine := s.config.TaxEngine
	s.calcache = cache.NewCalculationCache(
		cache.NewInMemoryCache(engine.StaleTTL, cache.DefaultCleanupInterval),
		cache.CalculationCacheOptions{
			Enabled:  engine.CacheEnabled,
			TTL:      engine.CacheTTL,
			StaleTTL: engine.StaleTTL,
			Clock:    s.clock,
		},
		s.logger,
	)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.TaxConfigRepo.(*InMemoryTaxConfigurationStore).Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetPubSub() *InMemoryPubSub {
	return s.pubsub
}

func (s *BaseServiceTestSuite) GetClock() *FakeClock {
	return s.clock
}

func (s *BaseServiceTestSuite) GetCalculationCache() *cache.CalculationCache {
	return s.calcache
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}
