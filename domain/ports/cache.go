package ports

import "context"

// Cache is a get-or-compute abstraction for expensive derived lookups
// (e.g. hostname to account resolution). Entries expire no later than the
// TTL the implementation was configured with; a cache miss computes the
// value through fn and stores it. Implementations must never block
// writers on in-flight reads.
type Cache interface {
	// GetOrCompute returns the cached value for key, computing and
	// storing it via fn on a miss or after expiry.
	GetOrCompute(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error)

	// Invalidate drops the entry for key, if present.
	Invalidate(key string)
}
