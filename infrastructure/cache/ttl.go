// Package cache provides the get-or-compute TTL cache injected wherever
// a derived lookup is expensive (hostname to account resolution). Tests
// substitute the no-op variant.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/chatkit-dev/sam/domain/ports"
)

// ttlConfig holds resolved cache options.
type ttlConfig struct {
	ttl time.Duration
	now func() time.Time
}

func defaultTTLConfig() ttlConfig {
	return ttlConfig{
		ttl: 5 * time.Minute,
		now: time.Now,
	}
}

// Option configures a TTLCache.
type Option func(*ttlConfig)

// WithTTL sets the entry lifetime. Entries expire no later than this.
func WithTTL(ttl time.Duration) Option {
	return func(c *ttlConfig) {
		c.ttl = ttl
	}
}

// WithClock substitutes the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ttlConfig) {
		c.now = now
	}
}

type entry struct {
	value   any
	expires time.Time
}

// TTLCache is a mutex-guarded get-or-compute cache. The compute function
// runs outside the lock, so a slow computation never blocks writers of
// other keys; concurrent misses of the same key may compute twice, with
// the last writer winning.
type TTLCache struct {
	config  ttlConfig
	mu      sync.RWMutex
	entries map[string]entry
}

// NewTTL creates a TTLCache.
func NewTTL(opts ...Option) *TTLCache {
	cfg := defaultTTLConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &TTLCache{config: cfg, entries: make(map[string]entry)}
}

var _ ports.Cache = (*TTLCache)(nil)

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss or after expiry.
func (c *TTLCache) GetOrCompute(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	now := c.config.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && now.Before(e.expires) {
		return e.value, nil
	}

	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: now.Add(c.config.ttl)}
	c.mu.Unlock()
	return value, nil
}

// Invalidate drops the entry for key.
func (c *TTLCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Nop is a pass-through cache: every lookup computes. Tests use it to
// decouple assertions from caching behavior.
type Nop struct{}

var _ ports.Cache = Nop{}

// GetOrCompute always computes.
func (Nop) GetOrCompute(ctx context.Context, _ string, fn func(ctx context.Context) (any, error)) (any, error) {
	return fn(ctx)
}

// Invalidate is a no-op.
func (Nop) Invalidate(string) {}
