package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/flexprice/ordertax/internal/cache"
	"github.com/flexprice/ordertax/internal/domain/ordertax"
	"github.com/flexprice/ordertax/internal/pubsub/memory"
	"github.com/flexprice/ordertax/internal/testutil"
	"github.com/flexprice/ordertax/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// recordingRefresher remembers which organizations had their carts refreshed
type recordingRefresher struct {
	mu            sync.Mutex
	organizations []string
}

func (r *recordingRefresher) RefreshCarts(_ context.Context, organizationID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.organizations = append(r.organizations, organizationID)
	return 1
}

func (r *recordingRefresher) refreshed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.organizations...)
}

type CacheInvalidatorSuite struct {
	testutil.BaseServiceTestSuite
	invalidator *CacheInvalidator
	refresher   *recordingRefresher
}

func TestCacheInvalidator(t *testing.T) {
	suite.Run(t, new(CacheInvalidatorSuite))
}

func (s *CacheInvalidatorSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.refresher = &recordingRefresher{}
	s.invalidator = NewCacheInvalidator(s.GetPubSub(), s.GetCalculationCache(), s.refresher, s.GetLogger())
	s.Require().NoError(s.invalidator.Start(s.GetContext()))
}

func (s *CacheInvalidatorSuite) TearDownTest() {
	s.NoError(s.invalidator.Stop(context.Background()))
	s.BaseServiceTestSuite.TearDownTest()
}

func (s *CacheInvalidatorSuite) prime(organizationID string) cache.CalculationKey {
	items := []ordertax.OrderItemForTax{{MenuItemID: "chai", Quantity: 1, UnitPrice: decimal.NewFromInt(20)}}
	key := cache.NewCalculationKey(organizationID, types.ServiceTypeAll, items)

	_, err := s.GetCalculationCache().GetOrCompute(s.GetContext(), key, func(ctx context.Context) (ordertax.OrderTotals, error) {
		return ordertax.FallbackTotals(items)
	})
	s.Require().NoError(err)

	_, ok := s.GetCalculationCache().Get(s.GetContext(), key)
	s.Require().True(ok)
	return key
}

func (s *CacheInvalidatorSuite) publish(payload []byte) {
	msg := message.NewMessage(types.GenerateUUID(), payload)
	s.Require().NoError(s.GetPubSub().Publish(s.GetContext(), types.TopicTaxConfigurationChanged, msg))
}

func (s *CacheInvalidatorSuite) TestEventInvalidatesOnlyItsOrganization() {
	ours := s.prime("org_1")
	theirs := s.prime("org_10")

	event := types.NewTaxConfigurationEvent(types.TaxConfigurationEventUpdated, "org_1", "taxcfg_1", types.ServiceTypeAll)
	payload, err := jsoniter.Marshal(event)
	s.Require().NoError(err)
	s.publish(payload)

	s.Eventually(func() bool {
		_, ok := s.GetCalculationCache().Get(s.GetContext(), ours)
		return !ok
	}, time.Second, 5*time.Millisecond)

	_, ok := s.GetCalculationCache().Get(s.GetContext(), theirs)
	s.True(ok)

	s.Eventually(func() bool {
		return len(s.refresher.refreshed()) == 1
	}, time.Second, 5*time.Millisecond)
	s.Equal([]string{"org_1"}, s.refresher.refreshed())
}

func (s *CacheInvalidatorSuite) TestMalformedEventIsSkipped() {
	key := s.prime("org_1")

	s.publish([]byte("{not json"))
	s.publish([]byte(`{"event_name":"tax_configuration.updated"}`))

	// a valid event after the bad ones still gets through
	event := types.NewTaxConfigurationEvent(types.TaxConfigurationEventDeleted, "org_1", "taxcfg_1", types.ServiceTypeAll)
	payload, err := jsoniter.Marshal(event)
	s.Require().NoError(err)
	s.publish(payload)

	s.Eventually(func() bool {
		_, ok := s.GetCalculationCache().Get(s.GetContext(), key)
		return !ok
	}, time.Second, 5*time.Millisecond)

	// bad events refresh nothing
	s.Eventually(func() bool {
		return len(s.refresher.refreshed()) == 1
	}, time.Second, 5*time.Millisecond)
	s.Equal([]string{"org_1"}, s.refresher.refreshed())
}

func (s *CacheInvalidatorSuite) TestStartIsIdempotentAndStopWaits() {
	s.NoError(s.invalidator.Start(s.GetContext()))
	s.NoError(s.invalidator.Stop(context.Background()))
	s.NoError(s.invalidator.Stop(context.Background()))
	s.NoError(s.invalidator.Start(s.GetContext()))
}

func (s *CacheInvalidatorSuite) TestWithWatermillChannel() {
	ps := memory.NewPubSub(s.GetConfig(), s.GetLogger())
	defer ps.Close()

	invalidator := NewCacheInvalidator(ps, s.GetCalculationCache(), nil, s.GetLogger())
	s.Require().NoError(invalidator.Start(s.GetContext()))
	defer invalidator.Stop(context.Background())

	key := s.prime("org_1")

	event := types.NewTaxConfigurationEvent(types.TaxConfigurationEventCreated, "org_1", "taxcfg_2", types.ServiceTypeDineIn)
	payload, err := jsoniter.Marshal(event)
	s.Require().NoError(err)
	s.Require().NoError(ps.Publish(s.GetContext(), types.TopicTaxConfigurationChanged, message.NewMessage(event.ID, payload)))

	s.Eventually(func() bool {
		_, ok := s.GetCalculationCache().Get(s.GetContext(), key)
		return !ok
	}, time.Second, 5*time.Millisecond)
}
