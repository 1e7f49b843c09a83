// Package cache holds the single shared snapshot slot. It serves hits
// inside the TTL window and coordinates single-flight recomputation on miss:
// concurrent callers arriving during a miss share one in-flight rebuild.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/market"
	"github.com/lwilliams783/bitcoin-pro-backend/internal/metrics"
)

// Builder produces a fresh aggregation result.
type Builder interface {
	Aggregate(ctx context.Context) (*market.Result, error)
}

// Cache owns one entry: the last assembled result and its creation time.
// The entry is overwritten wholesale on every successful aggregation and is
// never partially updated.
type Cache struct {
	ttl     time.Duration
	builder Builder
	logger  zerolog.Logger
	metrics *metrics.Recorder

	mu      sync.RWMutex
	entry   *market.Result
	created time.Time

	sf singleflight.Group

	// now is swappable in tests.
	now func() time.Time
}

func New(ttl time.Duration, builder Builder, rec *metrics.Recorder, logger zerolog.Logger) *Cache {
	return &Cache{
		ttl:     ttl,
		builder: builder,
		logger:  logger.With().Str("component", "snapshot_cache").Logger(),
		metrics: rec,
		now:     time.Now,
	}
}

// Snapshot returns the cached result while it is fresh, otherwise triggers
// exactly one rebuild shared by all concurrent callers. A caller whose
// context ends while waiting gets its context error; the shared rebuild
// keeps running under the builder's own deadline so other waiters still
// benefit.
func (c *Cache) Snapshot(ctx context.Context) (*market.Result, error) {
	if res, ok := c.fresh(); ok {
		c.metrics.RecordCache("hit")
		return res, nil
	}

	ch := c.sf.DoChan("snapshot", func() (any, error) {
		// Re-check under the flight: another caller may have just written.
		if res, ok := c.fresh(); ok {
			return res, nil
		}
		c.metrics.RecordCache("miss")

		// Detached from any single caller so one canceled request cannot
		// kill the rebuild the rest are waiting on. The builder applies the
		// aggregation deadline itself.
		res, err := c.builder.Aggregate(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entry = res
		c.created = c.now()
		c.mu.Unlock()
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			c.metrics.RecordCache("shared")
		}
		return r.Val.(*market.Result), nil
	}
}

func (c *Cache) fresh() (*market.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil {
		return nil, false
	}
	if c.now().Sub(c.created) >= c.ttl {
		return nil, false
	}
	return c.entry, true
}
