package service

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/cenkalti/backoff/v4"
	"github.com/flexprice/ordertax/internal/cache"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/pubsub"
	"github.com/flexprice/ordertax/internal/types"
	jsoniter "github.com/json-iterator/go"
)

const subscribeRetries = 5

// CartRefresher recalculates the tracked carts of an organization and
// reports how many were scheduled
type CartRefresher interface {
	RefreshCarts(ctx context.Context, organizationID string) int
}

// CacheInvalidator drops memoized calculations of an organization whenever a
// tax configuration change is announced for it, then has its tracked carts
// recalculated against the new configuration
type CacheInvalidator struct {
	subscriber pubsub.Subscriber
	cache      *cache.CalculationCache
	refresher  CartRefresher
	logger     *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCacheInvalidator builds an invalidator. refresher may be nil.
func NewCacheInvalidator(subscriber pubsub.Subscriber, calculationCache *cache.CalculationCache, refresher CartRefresher, logger *logger.Logger) *CacheInvalidator {
	return &CacheInvalidator{
		subscriber: subscriber,
		cache:      calculationCache,
		refresher:  refresher,
		logger:     logger,
	}
}

// Start subscribes to configuration changes and consumes them until Stop is
// called. Calling Start on a running invalidator is a no-op.
func (i *CacheInvalidator) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cancel != nil {
		return nil
	}

	consumeCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	var messages <-chan *message.Message
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = 100 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(exponential, subscribeRetries), ctx)
	err := backoff.Retry(func() error {
		var err error
		messages, err = i.subscriber.Subscribe(consumeCtx, types.TopicTaxConfigurationChanged)
		if err != nil {
			i.logger.Warnw("failed to subscribe to tax configuration changes, retrying", "error", err)
		}
		return err
	}, policy)
	if err != nil {
		cancel()
		return ierr.WithError(err).
			WithHint("Could not subscribe to tax configuration changes").
			Mark(ierr.ErrUnavailable)
	}

	i.cancel = cancel
	i.done = make(chan struct{})
	go i.consume(consumeCtx, messages, i.done)

	i.logger.Infow("cache invalidator started", "topic", types.TopicTaxConfigurationChanged)
	return nil
}

// Stop ends consumption and waits for the consumer to exit
func (i *CacheInvalidator) Stop(ctx context.Context) error {
	i.mu.Lock()
	cancel, done := i.cancel, i.done
	i.cancel, i.done = nil, nil
	i.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (i *CacheInvalidator) consume(ctx context.Context, messages <-chan *message.Message, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			i.handle(ctx, msg)
			msg.Ack()
		}
	}
}

func (i *CacheInvalidator) handle(ctx context.Context, msg *message.Message) {
	var event types.TaxConfigurationEvent
	if err := jsoniter.Unmarshal(msg.Payload, &event); err != nil {
		i.logger.Errorw("dropping malformed tax configuration event",
			"message_uuid", msg.UUID,
			"error", err,
		)
		return
	}

	if event.OrganizationID == "" {
		i.logger.Errorw("dropping tax configuration event without organization",
			"message_uuid", msg.UUID,
			"event_name", event.EventName,
		)
		return
	}

	i.cache.InvalidateOrganization(ctx, event.OrganizationID)

	refreshed := 0
	if i.refresher != nil {
		refreshed = i.refresher.RefreshCarts(ctx, event.OrganizationID)
	}

	i.logger.Debugw("invalidated order calculations",
		"organization_id", event.OrganizationID,
		"event_name", event.EventName,
		"tax_configuration_id", event.TaxConfigurationID,
		"refreshed_carts", refreshed,
	)
}
