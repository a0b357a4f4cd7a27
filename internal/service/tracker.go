package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flexprice/ordertax/internal/cache"
	"github.com/flexprice/ordertax/internal/domain/ordertax"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/sourcegraph/conc"
)

// appliedTotalsTTL bounds how long the latest totals of an idle key are kept
const appliedTotalsTTL = 30 * time.Minute

type appliedTotals struct {
	sequence uint64
	totals   ordertax.OrderTotals
}

// OrderTotalsTracker orders recalculations of the same key, usually a cart.
// Every recalculation takes a sequence number when it starts and its result
// is applied only if no later recalculation has been applied before it.
type OrderTotalsTracker struct {
	sequence atomic.Uint64
	// mu makes the compare and replace in Commit atomic
	mu      sync.Mutex
	applied cache.Cache
	wg      conc.WaitGroup
	logger  *logger.Logger
}

func NewOrderTotalsTracker(logger *logger.Logger) *OrderTotalsTracker {
	return &OrderTotalsTracker{
		applied: cache.NewInMemoryCache(appliedTotalsTTL, cache.DefaultCleanupInterval),
		logger:  logger,
	}
}

// Next returns a sequence number greater than every one returned before
func (t *OrderTotalsTracker) Next() uint64 {
	return t.sequence.Add(1)
}

// Commit applies totals for key unless a later sequence was already applied.
// It reports whether the totals were applied.
func (t *OrderTotalsTracker) Commit(ctx context.Context, key string, sequence uint64, totals ordertax.OrderTotals) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if current, ok := t.latest(ctx, key); ok && current.sequence >= sequence {
		t.logger.Debugw("discarding superseded order totals",
			"key", key,
			"sequence", sequence,
			"applied_sequence", current.sequence,
		)
		return false
	}

	t.applied.Set(ctx, key, appliedTotals{sequence: sequence, totals: totals}, 0)
	return true
}

// Latest returns the applied totals for key and their sequence
func (t *OrderTotalsTracker) Latest(ctx context.Context, key string) (ordertax.OrderTotals, uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, ok := t.latest(ctx, key)
	if !ok {
		return ordertax.OrderTotals{}, 0, false
	}
	return current.totals, current.sequence, true
}

func (t *OrderTotalsTracker) latest(ctx context.Context, key string) (appliedTotals, bool) {
	value, ok := t.applied.Get(ctx, key)
	if !ok {
		return appliedTotals{}, false
	}
	current, ok := value.(appliedTotals)
	return current, ok
}

// RecalculateAsync runs calculate in the background. The sequence is taken
// before returning, so the call order decides which result survives no matter
// which calculation finishes first. Failed calculations apply nothing.
func (t *OrderTotalsTracker) RecalculateAsync(ctx context.Context, key string, calculate func(ctx context.Context) (ordertax.OrderTotals, error)) uint64 {
	sequence := t.Next()

	t.wg.Go(func() {
		totals, err := calculate(ctx)
		if err != nil {
			t.logger.Warnw("background recalculation failed",
				"key", key,
				"sequence", sequence,
				"error", err,
			)
			return
		}
		t.Commit(ctx, key, sequence, totals)
	})

	return sequence
}

// Forget drops the applied totals of key
func (t *OrderTotalsTracker) Forget(ctx context.Context, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.applied.Delete(ctx, key)
}

// Wait blocks until every background recalculation has finished
func (t *OrderTotalsTracker) Wait() {
	t.wg.Wait()
}
