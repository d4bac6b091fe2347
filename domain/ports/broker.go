package ports

import (
	"context"

	"github.com/chatkit-dev/sam/domain/entities"
)

// DeployOption configures deploy/undeploy execution.
type DeployOption func(*DeployConfig)

// DeployConfig holds resolved deploy options.
type DeployConfig struct {
	// Sync runs the work in the foreground; the verb then reports
	// "completed" instead of "submitted".
	Sync bool
}

// WithSync requests foreground execution of deploy/undeploy work.
func WithSync(sync bool) DeployOption {
	return func(c *DeployConfig) {
		c.Sync = sync
	}
}

// Broker is the uniform verb surface bound to one Kind. A broker is
// constructed over an already loaded and bound manifest; construction
// fails before any verb runs when the manifest does not bind. Every verb
// returns an envelope, success or error — never a bare exception.
type Broker interface {
	// Kind returns the Kind this broker serves.
	Kind() entities.Kind

	// Apply upserts the resource record keyed by (account, kind, name).
	Apply(ctx context.Context) *entities.Envelope

	// Describe reads the record back in manifest shape with a
	// server-computed status block.
	Describe(ctx context.Context) *entities.Envelope

	// Delete removes the record and cascades to dependents.
	Delete(ctx context.Context) *entities.Envelope

	// Deploy makes the resource externally available.
	Deploy(ctx context.Context, opts ...DeployOption) *entities.Envelope

	// Undeploy tears external availability down. Idempotent: a second
	// undeploy is a no-op success.
	Undeploy(ctx context.Context, opts ...DeployOption) *entities.Envelope

	// Logs returns recent audit entries for the resource.
	Logs(ctx context.Context, limit int) *entities.Envelope
}
