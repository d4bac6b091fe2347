package ports

import "context"

// Caller is the resolved identity a verb executes under. Both IDs are
// opaque to the broker core.
type Caller struct {
	AccountID string
	UserID    string
}

// IdentityResolver maps request context (a hostname, a token subject) to a
// caller. Resolution may be expensive; implementations are expected to go
// through a Cache.
type IdentityResolver interface {
	// ResolveHostname returns the account serving the given hostname.
	ResolveHostname(ctx context.Context, hostname string) (Caller, error)
}
