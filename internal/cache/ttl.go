package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is a cached value together with the instant it stops being served.
type Entry[T any] struct {
	Value     T
	ExpiresAt time.Time
}

func (e Entry[T]) live(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// LoadFunc produces the value for a key on a cache miss.
type LoadFunc[T any] func(ctx context.Context) (T, error)

type options struct {
	now func() time.Time
}

// Option customises a TTLCache.
type Option func(*options)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// TTLCache is a concurrency-safe in-memory cache whose entries expire a fixed
// duration after they are stored. Concurrent misses for the same key share a
// single load.
type TTLCache[T any] struct {
	mu sync.RWMutex

	// key: caller-defined key, value: latest stored entry
	entries map[string]Entry[T]

	tier    string
	ttl     time.Duration
	now     func() time.Time
	metrics *Metrics
	flight  singleflight.Group
}

// New creates a TTLCache. tier labels the cache in metrics; metrics may be
// shared between caches and may be nil.
func New[T any](tier string, ttl time.Duration, metrics *Metrics, opts ...Option) *TTLCache[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTLCache[T]{
		entries: make(map[string]Entry[T]),
		tier:    tier,
		ttl:     ttl,
		now:     o.now,
		metrics: metrics,
	}
}

// Get returns the live value for key without touching metrics.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !e.live(c.now()) {
		var zero T
		return zero, false
	}
	return e.Value, true
}

// Set stores value under key with a fresh expiry, replacing any previous entry.
func (c *TTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry[T]{Value: value, ExpiresAt: c.now().Add(c.ttl)}
}

// GetOrLoad returns the live value for key, recording a hit. Otherwise it
// records a miss and runs load, storing the result on success. Failed loads
// are not cached.
//
// load runs on a context detached from ctx's cancellation, so a caller that
// gives up does not abort a load other callers may be sharing; the value is
// still stored when it arrives. load must bound its own duration.
func (c *TTLCache[T]) GetOrLoad(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	if v, ok := c.Get(key); ok {
		c.metrics.hit(c.tier)
		return v, nil
	}
	c.metrics.miss(c.tier)

	loadCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (any, error) {
		// A load that finished between our lookup and joining the flight
		// has already stored a fresh entry.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cache %s: unexpected value type %T", c.tier, res.Val)
		}
		return v, nil
	}
}

// Sweep drops expired entries and reports how many were removed.
func (c *TTLCache[T]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !e.live(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, live or expired.
func (c *TTLCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
