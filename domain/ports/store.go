package ports

import (
	"context"

	"github.com/chatkit-dev/sam/domain/entities"
)

// ResourceStore provides transactional CRUD on resource records keyed by
// (account, kind, name), with uniqueness enforced on that triple.
//
// Each call is atomic: an upsert or cascading delete either commits in
// full or leaves prior state untouched. The store does not serialize
// concurrent upserts of the same key; the last writer wins. Callers
// needing stronger ordering must serialize externally.
type ResourceStore interface {
	// Get returns the record for (account, kind, name), or
	// (nil, nil) when no such record exists.
	Get(ctx context.Context, account string, kind entities.Kind, name string) (*entities.ResourceRecord, error)

	// GetAnyAccount returns the record for (kind, name) regardless of
	// owner, or (nil, nil). Brokers use it to distinguish Forbidden
	// (owned elsewhere) from NotFound.
	GetAnyAccount(ctx context.Context, kind entities.Kind, name string) (*entities.ResourceRecord, error)

	// Upsert creates or replaces the record keyed by its
	// (Account, Kind, Name). On update the ID, CreatedAt and Deployed
	// flag of the prior record are preserved and UpdatedAt refreshed.
	Upsert(ctx context.Context, record *entities.ResourceRecord) (*entities.ResourceRecord, error)

	// Delete removes the record and every dependent listed, atomically.
	// Returns the number of records removed (zero when absent).
	Delete(ctx context.Context, account string, kind entities.Kind, name string, dependents []entities.ResourceKey) (int, error)

	// List returns every record of the given kind owned by account.
	List(ctx context.Context, account string, kind entities.Kind) ([]*entities.ResourceRecord, error)

	// FindByKind returns every record of the given kind across all
	// accounts. Used by identity resolution; not exposed to brokers.
	FindByKind(ctx context.Context, kind entities.Kind) ([]*entities.ResourceRecord, error)

	// SetDeployed flips the deployment flag on an existing record.
	SetDeployed(ctx context.Context, account string, kind entities.Kind, name string, deployed bool) error
}
