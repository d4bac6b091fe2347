package broker

import (
	"context"
	"fmt"

	"github.com/chatkit-dev/sam/application/loader"
	"github.com/chatkit-dev/sam/domain/entities"
	samerrors "github.com/chatkit-dev/sam/domain/errors"
	"github.com/chatkit-dev/sam/domain/ports"
)

// constructor builds one kind's broker. doc and manifest are nil when the
// broker is addressed by name alone.
type constructor func(deps Deps, account, name, apiVersion string, doc *entities.ManifestDocument, manifest entities.TypedManifest) ports.Broker

// Registry maps canonical kinds to broker constructors. The table is
// explicit and closed; NewRegistry checks it against the canonical kind
// enumeration and fails construction on any mismatch, so an incomplete
// registration can never surface at request time. Immutable once built.
type Registry struct {
	deps         Deps
	constructors map[entities.Kind]constructor
}

// NewRegistry wires the broker registry. Every collaborator in deps is
// required.
func NewRegistry(deps Deps) (*Registry, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("broker registry: resource store is required")
	}
	if deps.Tasks == nil {
		return nil, fmt.Errorf("broker registry: task runner is required")
	}
	if deps.Audit == nil {
		return nil, fmt.Errorf("broker registry: audit sink is required")
	}
	if deps.Schemas == nil {
		return nil, fmt.Errorf("broker registry: schema registry is required")
	}

	constructors := map[entities.Kind]constructor{
		entities.KindAccount:       newAccountBroker,
		entities.KindUser:          newUserBroker,
		entities.KindPlugin:        newPluginBroker,
		entities.KindChatbot:       newChatbotBroker,
		entities.KindSQLConnection: newConnectionBroker(entities.KindSQLConnection),
		entities.KindAPIConnection: newConnectionBroker(entities.KindAPIConnection),
		entities.KindAPIKey:        newAPIKeyBroker,
		entities.KindChat:          newChatBroker,
	}

	// Startup self-check: the table and the canonical enumeration must
	// agree exactly.
	canonical := make(map[entities.Kind]struct{}, len(entities.Kinds()))
	for _, k := range entities.Kinds() {
		canonical[k] = struct{}{}
		if _, ok := constructors[k]; !ok {
			return nil, fmt.Errorf("broker registry: kind %s has no broker registered", k)
		}
	}
	for k := range constructors {
		if _, ok := canonical[k]; !ok {
			return nil, fmt.Errorf("broker registry: broker registered for unknown kind %s", k)
		}
	}

	return &Registry{deps: deps, constructors: constructors}, nil
}

// Kinds returns every kind the registry serves.
func (r *Registry) Kinds() []entities.Kind {
	return entities.Kinds()
}

// Broker loads and binds manifestText, then constructs the matching
// kind's broker for account. Loading and binding happen eagerly: a
// manifest that fails either never reaches verb dispatch, and an
// unregistered kind fails before any persistence access.
func (r *Registry) Broker(account string, manifestText []byte, opts ...loader.LoadOption) (ports.Broker, error) {
	doc, err := loader.Load(manifestText, opts...)
	if err != nil {
		return nil, err
	}

	manifest, err := r.deps.Schemas.Bind(doc)
	if err != nil {
		return nil, err
	}

	ctor, ok := r.constructors[doc.Kind]
	if !ok {
		return nil, &samerrors.UnsupportedKindError{Kind: string(doc.Kind)}
	}
	return ctor(r.deps, account, doc.Metadata.Name, doc.APIVersion, doc, manifest), nil
}

// BrokerForName constructs a broker addressed by kind and name alone, for
// the verbs that need no manifest (describe, delete, logs, deploy,
// undeploy).
func (r *Registry) BrokerForName(account, kind, name string) (ports.Broker, error) {
	resolved, ok := entities.ResolveKind(kind)
	if !ok {
		return nil, &samerrors.UnsupportedKindError{Kind: kind}
	}
	return r.constructors[resolved](r.deps, account, name, "", nil, nil), nil
}

// ExampleManifest returns a kind-conformant example in manifest shape.
// The schema registry guarantees at startup that the example passes the
// kind's own validation unmodified.
func (r *Registry) ExampleManifest(kind string) *entities.Envelope {
	resolved, ok := entities.ResolveKind(kind)
	if !ok {
		return samerrors.Envelope("", kind, &samerrors.UnsupportedKindError{Kind: kind})
	}

	text, ok := r.deps.Schemas.Example(resolved)
	if !ok {
		return samerrors.Envelope("", resolved.Thing(), &samerrors.NotImplementedError{Kind: resolved, Verb: "example manifest"})
	}

	doc, err := loader.Load([]byte(text), loader.WithExpectedKind(resolved))
	if err != nil {
		return samerrors.Envelope("", resolved.Thing(), err)
	}

	data := doc.Flatten()
	message := fmt.Sprintf("example manifest for %s", resolved)
	return entities.OK(doc.APIVersion, resolved.Thing(), message, data).
		WithMetadata(map[string]any{"raw": text, "format": string(entities.FormatYAML)})
}

// List returns every record of a kind owned by account, projected into
// manifest shape.
func (r *Registry) List(ctx context.Context, account, kind string) *entities.Envelope {
	resolved, ok := entities.ResolveKind(kind)
	if !ok {
		return samerrors.Envelope("", kind, &samerrors.UnsupportedKindError{Kind: kind})
	}

	records, err := r.deps.Store.List(ctx, account, resolved)
	if err != nil {
		return samerrors.Envelope("", resolved.Thing(), err)
	}

	base := newBase(r.deps, account, resolved, "", "", nil, nil)
	items := make([]any, len(records))
	for i, record := range records {
		items[i] = base.project(record)
	}
	return entities.OK("", resolved.Thing(), "", map[string]any{"items": items, "count": len(items)})
}
