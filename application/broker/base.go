// Package broker implements the uniform verb set over persisted resources
// and the closed kind-to-broker registry that dispatches to it.
package broker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chatkit-dev/sam/domain/entities"
	samerrors "github.com/chatkit-dev/sam/domain/errors"
	"github.com/chatkit-dev/sam/domain/ports"
)

// Deps carries the collaborators every broker shares. The registry wires
// one Deps value into each broker it constructs.
type Deps struct {
	Store   ports.ResourceStore
	Tasks   ports.TaskRunner
	Audit   ports.AuditSink
	Schemas SchemaRegistry
	Logger  *slog.Logger
}

// SchemaRegistry is the slice of the schema layer brokers need.
type SchemaRegistry interface {
	Bind(doc *entities.ManifestDocument) (entities.TypedManifest, error)
	Example(kind entities.Kind) (string, bool)
}

// baseBroker holds the state and verb implementations every kind shares.
// Kind-specific brokers embed it and override what differs (dependents,
// deploy support).
type baseBroker struct {
	deps       Deps
	account    string
	kind       entities.Kind
	name       string
	apiVersion string

	// Populated when the broker was constructed from a manifest; nil
	// for name-only construction (describe/delete/logs by name).
	doc      *entities.ManifestDocument
	manifest entities.TypedManifest

	// dependents lists the records a delete cascades to. Nil means no
	// dependents.
	dependents func(ctx context.Context) ([]entities.ResourceKey, error)

	// deployable gates deploy/undeploy; kinds without external
	// availability leave it false and get BrokerNotImplemented.
	deployable bool
}

// Kind returns the kind this broker serves.
func (b *baseBroker) Kind() entities.Kind {
	return b.kind
}

// Apply upserts the resource record keyed by (account, kind, name).
// Idempotent: re-applying an unchanged manifest updates in place, never
// duplicates.
func (b *baseBroker) Apply(ctx context.Context) *entities.Envelope {
	if b.manifest == nil {
		return b.fail(&samerrors.NotImplementedError{Kind: b.kind, Verb: "apply without manifest"})
	}

	now := time.Now().UTC()
	record := &entities.ResourceRecord{
		ID:        uuid.NewString(),
		Account:   b.account,
		Kind:      b.kind,
		Name:      b.name,
		Manifest:  b.doc.Flatten(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, err := b.deps.Store.Upsert(ctx, record)
	if err != nil {
		return b.fail(err)
	}

	b.audit(ctx, "apply", fmt.Sprintf("%s %s applied", b.kind, b.name))

	message := fmt.Sprintf("%s %s applied successfully", b.kind, b.name)
	return entities.OK(b.apiVersion, b.kind.Thing(), message, b.project(stored))
}

// Describe reads the record back in manifest shape. Every field the
// caller supplied under apply is present; the server-computed status
// block is additive only.
func (b *baseBroker) Describe(ctx context.Context) *entities.Envelope {
	record, err := b.owned(ctx)
	if err != nil {
		return b.fail(err)
	}
	return entities.OK(b.apiVersion, b.kind.Thing(), "", b.project(record))
}

// Delete removes the record and cascades to dependents. Deleting a
// nonexistent resource is NotFound, never a silent success.
func (b *baseBroker) Delete(ctx context.Context) *entities.Envelope {
	if _, err := b.owned(ctx); err != nil {
		return b.fail(err)
	}

	var deps []entities.ResourceKey
	if b.dependents != nil {
		var err error
		if deps, err = b.dependents(ctx); err != nil {
			return b.fail(err)
		}
	}

	removed, err := b.deps.Store.Delete(ctx, b.account, b.kind, b.name, deps)
	if err != nil {
		return b.fail(err)
	}
	if removed == 0 {
		return b.fail(&samerrors.NotFoundError{Kind: b.kind, Name: b.name})
	}

	b.audit(ctx, "delete", fmt.Sprintf("%s %s deleted (%d record(s) removed)", b.kind, b.name, removed))

	message := fmt.Sprintf("%s %s deleted successfully", b.kind, b.name)
	return entities.OK(b.apiVersion, b.kind.Thing(), message, map[string]any{"removed": removed})
}

// Deploy makes the resource externally available. The work is handed to
// the task runner; WithSync(true) runs it in the foreground.
func (b *baseBroker) Deploy(ctx context.Context, opts ...ports.DeployOption) *entities.Envelope {
	return b.setAvailability(ctx, true, opts...)
}

// Undeploy tears external availability down. Re-invoking on an already
// stopped resource is a no-op success.
func (b *baseBroker) Undeploy(ctx context.Context, opts ...ports.DeployOption) *entities.Envelope {
	return b.setAvailability(ctx, false, opts...)
}

func (b *baseBroker) setAvailability(ctx context.Context, up bool, opts ...ports.DeployOption) *entities.Envelope {
	verb := "deploy"
	if !up {
		verb = "undeploy"
	}
	if !b.deployable {
		return b.fail(&samerrors.NotImplementedError{Kind: b.kind, Verb: verb})
	}

	record, err := b.owned(ctx)
	if err != nil {
		return b.fail(err)
	}

	if record.Deployed == up {
		message := fmt.Sprintf("%s %s already %s", b.kind, b.name, stateWord(up))
		return entities.OK(b.apiVersion, b.kind.Thing(), message, map[string]any{"status": "completed"})
	}

	var cfg ports.DeployConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	task := func(taskCtx context.Context) error {
		return b.deps.Store.SetDeployed(taskCtx, b.account, b.kind, b.name, up)
	}

	b.audit(ctx, verb, fmt.Sprintf("%s %s %s requested", b.kind, b.name, verb))

	status := "submitted"
	if cfg.Sync {
		if err := b.deps.Tasks.Run(ctx, task); err != nil {
			return b.fail(err)
		}
		status = "completed"
	} else {
		b.deps.Tasks.Submit(ctx, task)
	}

	message := fmt.Sprintf("%s %s %s %s", b.kind, b.name, verb, status)
	return entities.OK(b.apiVersion, b.kind.Thing(), message, map[string]any{"status": status})
}

// Logs returns recent audit entries for the resource, newest first.
func (b *baseBroker) Logs(ctx context.Context, limit int) *entities.Envelope {
	if limit <= 0 {
		limit = 50
	}
	entries := b.deps.Audit.Recent(b.account, b.kind, b.name, limit)
	items := make([]any, len(entries))
	for i, e := range entries {
		items[i] = e
	}
	return entities.OK(b.apiVersion, b.kind.Thing(), "", map[string]any{"entries": items})
}

// owned fetches the caller's record, distinguishing Forbidden (exists
// under another account) from NotFound — always in that order, so probing
// cannot tell the two apart by varying the account.
func (b *baseBroker) owned(ctx context.Context) (*entities.ResourceRecord, error) {
	record, err := b.deps.Store.Get(ctx, b.account, b.kind, b.name)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}
	other, err := b.deps.Store.GetAnyAccount(ctx, b.kind, b.name)
	if err != nil {
		return nil, err
	}
	if other != nil {
		return nil, &samerrors.ForbiddenError{Kind: b.kind, Name: b.name}
	}
	return nil, &samerrors.NotFoundError{Kind: b.kind, Name: b.name}
}

// project returns the record in manifest shape with the status block
// populated server-side.
func (b *baseBroker) project(record *entities.ResourceRecord) map[string]any {
	out := record.Clone().Manifest
	if out == nil {
		out = map[string]any{}
	}
	status := record.Status()
	out["status"] = map[string]any{
		"state":     status.State,
		"deployed":  status.Deployed,
		"createdAt": status.CreatedAt,
		"updatedAt": status.UpdatedAt,
	}
	return out
}

func (b *baseBroker) audit(ctx context.Context, verb, message string) {
	entry := ports.AuditEntry{
		Time:    time.Now().UTC(),
		Account: b.account,
		Kind:    string(b.kind),
		Name:    b.name,
		Verb:    verb,
		Message: message,
	}
	b.deps.Audit.Record(entry)
	if b.deps.Logger != nil {
		b.deps.Logger.InfoContext(ctx, message,
			slog.String("account", b.account),
			slog.String("kind", string(b.kind)),
			slog.String("name", b.name),
			slog.String("verb", verb),
		)
	}
}

func (b *baseBroker) fail(err error) *entities.Envelope {
	if b.deps.Logger != nil {
		b.deps.Logger.Warn("verb failed",
			slog.String("kind", string(b.kind)),
			slog.String("name", b.name),
			slog.String("error", err.Error()),
		)
	}
	return samerrors.Envelope(b.apiVersion, b.kind.Thing(), err)
}

func stateWord(up bool) string {
	if up {
		return "deployed"
	}
	return "stopped"
}
