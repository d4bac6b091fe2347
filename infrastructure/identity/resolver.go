// Package identity resolves request context to an account. Hostname
// resolution walks deployed chatbot records, which makes it a scan — the
// injected cache keeps it off the hot path.
package identity

import (
	"context"
	"fmt"

	"github.com/chatkit-dev/sam/domain/entities"
	samerrors "github.com/chatkit-dev/sam/domain/errors"
	"github.com/chatkit-dev/sam/domain/ports"
)

// Resolver maps hostnames to the account serving them.
type Resolver struct {
	store ports.ResourceStore
	cache ports.Cache
}

// New creates a Resolver. The cache is required; pass cache.Nop to
// disable caching.
func New(store ports.ResourceStore, c ports.Cache) *Resolver {
	return &Resolver{store: store, cache: c}
}

var _ ports.IdentityResolver = (*Resolver)(nil)

// ResolveHostname returns the account owning the chatbot deployed at
// hostname. Unknown hostnames resolve to NotFound.
func (r *Resolver) ResolveHostname(ctx context.Context, hostname string) (ports.Caller, error) {
	value, err := r.cache.GetOrCompute(ctx, "hostname:"+hostname, func(ctx context.Context) (any, error) {
		return r.lookup(ctx, hostname)
	})
	if err != nil {
		return ports.Caller{}, err
	}
	caller, ok := value.(ports.Caller)
	if !ok {
		return ports.Caller{}, fmt.Errorf("identity: unexpected cache value %T", value)
	}
	return caller, nil
}

func (r *Resolver) lookup(ctx context.Context, hostname string) (ports.Caller, error) {
	records, err := r.store.FindByKind(ctx, entities.KindChatbot)
	if err != nil {
		return ports.Caller{}, err
	}
	for _, record := range records {
		if !record.Deployed {
			continue
		}
		spec, _ := record.Manifest["spec"].(map[string]any)
		if host, _ := spec["hostname"].(string); host == hostname {
			return ports.Caller{AccountID: record.Account}, nil
		}
	}
	return ports.Caller{}, &samerrors.NotFoundError{Kind: entities.KindChatbot, Name: hostname}
}
