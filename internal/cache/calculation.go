package cache

import (
	"context"
	"sync"
	"time"

	"github.com/flexprice/ordertax/internal/domain/ordertax"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/types"
	"golang.org/x/sync/singleflight"
)

// CalculationKey identifies a memoized order calculation
type CalculationKey struct {
	OrganizationID string
	ServiceType    types.ServiceType
	Fingerprint    string
}

// NewCalculationKey fingerprints the items and builds the key
func NewCalculationKey(organizationID string, serviceType types.ServiceType, items []ordertax.OrderItemForTax) CalculationKey {
	return CalculationKey{
		OrganizationID: organizationID,
		ServiceType:    serviceType,
		Fingerprint:    ordertax.Fingerprint(items),
	}
}

func (k CalculationKey) String() string {
	return GenerateKey(PrefixOrderTotals, k.OrganizationID, k.ServiceType, k.Fingerprint)
}

func organizationPrefix(organizationID string) string {
	return GenerateKey(PrefixOrderTotals, organizationID) + ":"
}

// calculationEntry is never modified after it is stored; updates replace it
type calculationEntry struct {
	totals     ordertax.OrderTotals
	insertedAt time.Time
}

// ComputeFunc produces the totals for a cache miss
type ComputeFunc func(ctx context.Context) (ordertax.OrderTotals, error)

type CalculationCacheOptions struct {
	// Enabled false turns GetOrCompute into a direct call of the compute function
	Enabled bool
	// TTL is the fresh window, measured from insertion
	TTL time.Duration
	// StaleTTL is how long after insertion an entry may still back a fallback
	StaleTTL time.Duration
	// Clock defaults to the wall clock
	Clock Clock
}

// CalculationCache memoizes order totals for a fixed window after insertion.
// Expiry never slides on access. Concurrent misses for one key share a single
// compute call.
type CalculationCache struct {
	store    Cache
	enabled  bool
	ttl      time.Duration
	staleTTL time.Duration
	clock    Clock
	group    singleflight.Group
	logger   *logger.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

func NewCalculationCache(store Cache, opts CalculationCacheOptions, logger *logger.Logger) *CalculationCache {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}

	staleTTL := opts.StaleTTL
	if staleTTL < opts.TTL {
		staleTTL = opts.TTL
	}

	return &CalculationCache{
		store:       store,
		enabled:     opts.Enabled,
		ttl:         opts.TTL,
		staleTTL:    staleTTL,
		clock:       clock,
		logger:      logger,
		generations: make(map[string]uint64),
	}
}

// Get returns the cached totals while the entry is inside the fresh window
func (c *CalculationCache) Get(ctx context.Context, key CalculationKey) (ordertax.OrderTotals, bool) {
	return c.lookup(ctx, key, c.ttl)
}

// GetStale returns the cached totals while the entry is inside the stale
// window. It exists for falling back when a fresh calculation is impossible.
func (c *CalculationCache) GetStale(ctx context.Context, key CalculationKey) (ordertax.OrderTotals, bool) {
	return c.lookup(ctx, key, c.staleTTL)
}

func (c *CalculationCache) lookup(ctx context.Context, key CalculationKey, window time.Duration) (ordertax.OrderTotals, bool) {
	if !c.enabled {
		return ordertax.OrderTotals{}, false
	}

	value, ok := c.store.Get(ctx, key.String())
	if !ok {
		return ordertax.OrderTotals{}, false
	}

	entry, ok := value.(*calculationEntry)
	if !ok {
		return ordertax.OrderTotals{}, false
	}

	if c.clock.Now().Sub(entry.insertedAt) >= window {
		return ordertax.OrderTotals{}, false
	}

	return entry.totals, true
}

// GetOrCompute serves a fresh entry or runs compute and stores its result.
// A failed compute stores nothing. Concurrent callers for the same key share
// one compute call. The shared call does not inherit cancellation from the
// caller that started it, so compute must bound its own blocking work. A
// caller whose context ends stops waiting without affecting the others.
func (c *CalculationCache) GetOrCompute(ctx context.Context, key CalculationKey, compute ComputeFunc) (ordertax.OrderTotals, error) {
	if !c.enabled {
		return compute(ctx)
	}

	span := StartCacheSpan(ctx, "calculation", "get_or_compute", map[string]interface{}{
		"organization_id": key.OrganizationID,
		"service_type":    key.ServiceType,
	})
	defer FinishSpan(span)

	if totals, ok := c.Get(ctx, key); ok {
		SetSpanResult(span, true)
		return totals, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	results := c.group.DoChan(key.String(), func() (interface{}, error) {
		// another flight may have stored the entry between the miss and DoChan
		if totals, ok := c.Get(flightCtx, key); ok {
			return totals, nil
		}

		generation := c.generation(key.OrganizationID)
		totals, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}

		if c.generation(key.OrganizationID) == generation {
			c.store.Set(flightCtx, key.String(), &calculationEntry{
				totals:     totals,
				insertedAt: c.clock.Now(),
			}, c.staleTTL)
		} else {
			c.logger.Debugw("discarding calculation computed before invalidation",
				"organization_id", key.OrganizationID,
				"service_type", key.ServiceType,
			)
		}

		return totals, nil
	})

	var result singleflight.Result
	select {
	case result = <-results:
	case <-ctx.Done():
		err := ierr.WithError(ctx.Err()).
			WithHint("The calculation was abandoned before it finished").
			Mark(ierr.ErrUnavailable)
		SetSpanError(span, err)
		return ordertax.OrderTotals{}, err
	}

	if result.Err != nil {
		SetSpanError(span, result.Err)
		return ordertax.OrderTotals{}, result.Err
	}

	SetSpanResult(span, false)
	if result.Shared {
		c.logger.Debugw("calculation shared between concurrent callers",
			"organization_id", key.OrganizationID,
			"service_type", key.ServiceType,
		)
	}

	return result.Val.(ordertax.OrderTotals), nil
}

// InvalidateOrganization drops every entry of the organization. Results still
// being computed for it are returned to their callers but not stored.
func (c *CalculationCache) InvalidateOrganization(ctx context.Context, organizationID string) {
	c.mu.Lock()
	c.generations[organizationID]++
	c.mu.Unlock()

	c.store.DeleteByPrefix(ctx, organizationPrefix(organizationID))
}

// Flush drops every entry
func (c *CalculationCache) Flush(ctx context.Context) {
	c.mu.Lock()
	for org := range c.generations {
		c.generations[org]++
	}
	c.mu.Unlock()

	c.store.Flush(ctx)
}

// TTL returns the fresh window
func (c *CalculationCache) TTL() time.Duration {
	return c.ttl
}

func (c *CalculationCache) generation(organizationID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[organizationID]
}
