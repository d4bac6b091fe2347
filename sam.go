// Package sam is the manifest-driven resource broker core: declarative
// YAML/JSON manifests applied, described, deployed and deleted through a
// uniform verb set over a closed registry of resource kinds.
//
// Registries are built by an explicit New call and immutable afterwards;
// nothing is populated at import time, so test suites never share process
// state.
package sam

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/chatkit-dev/sam/application/broker"
	"github.com/chatkit-dev/sam/application/controller"
	"github.com/chatkit-dev/sam/application/loader"
	"github.com/chatkit-dev/sam/application/schema"
	"github.com/chatkit-dev/sam/config"
	"github.com/chatkit-dev/sam/domain/entities"
	samerrors "github.com/chatkit-dev/sam/domain/errors"
	"github.com/chatkit-dev/sam/domain/ports"
	"github.com/chatkit-dev/sam/infrastructure/audit"
	"github.com/chatkit-dev/sam/infrastructure/cache"
	"github.com/chatkit-dev/sam/infrastructure/identity"
	"github.com/chatkit-dev/sam/infrastructure/memstore"
	"github.com/chatkit-dev/sam/infrastructure/sqlstore"
	"github.com/chatkit-dev/sam/infrastructure/tasks"
)

// serviceConfig holds resolved service options.
type serviceConfig struct {
	store  ports.ResourceStore
	runner ports.TaskRunner
	sink   ports.AuditSink
	cache  ports.Cache
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*serviceConfig)

// WithStore substitutes the resource store. Default is in-memory.
func WithStore(store ports.ResourceStore) Option {
	return func(c *serviceConfig) { c.store = store }
}

// WithTaskRunner substitutes the background runner.
func WithTaskRunner(runner ports.TaskRunner) Option {
	return func(c *serviceConfig) { c.runner = runner }
}

// WithAuditSink substitutes the audit sink.
func WithAuditSink(sink ports.AuditSink) Option {
	return func(c *serviceConfig) { c.sink = sink }
}

// WithCache substitutes the lookup cache. Tests pass cache.Nop{}.
func WithCache(cacheImpl ports.Cache) Option {
	return func(c *serviceConfig) { c.cache = cacheImpl }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

// Service is the assembled broker core: schema registry, broker registry
// and their collaborators, built once and immutable afterwards.
type Service struct {
	Schemas  *schema.Registry
	Brokers  *broker.Registry
	Identity *identity.Resolver

	store  ports.ResourceStore
	runner ports.TaskRunner
	logger *slog.Logger
}

// New builds a Service. Both registries self-check during construction:
// a missing broker or a non-self-valid example manifest fails here, at
// startup, never at request time.
func New(opts ...Option) (*Service, error) {
	cfg := serviceConfig{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.store == nil {
		cfg.store = memstore.New()
	}
	if cfg.runner == nil {
		cfg.runner = tasks.New(tasks.WithLogger(cfg.logger))
	}
	if cfg.sink == nil {
		cfg.sink = audit.New()
	}
	if cfg.cache == nil {
		cfg.cache = cache.NewTTL()
	}

	schemas, err := schema.NewRegistry()
	if err != nil {
		return nil, err
	}

	brokers, err := broker.NewRegistry(broker.Deps{
		Store:   cfg.store,
		Tasks:   cfg.runner,
		Audit:   cfg.sink,
		Schemas: schemas,
		Logger:  cfg.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		Schemas:  schemas,
		Brokers:  brokers,
		Identity: identity.New(cfg.store, cfg.cache),
		store:    cfg.store,
		runner:   cfg.runner,
		logger:   cfg.logger,
	}, nil
}

// NewFromConfig builds a Service from environment-driven configuration,
// wiring the SQLite store when a path is configured.
func NewFromConfig(cfg config.Config, opts ...Option) (*Service, error) {
	assembled := make([]Option, 0, len(opts)+3)

	if cfg.StorePath != "" {
		store, err := sqlstore.Open(sqlstore.WithPath(cfg.StorePath))
		if err != nil {
			return nil, err
		}
		assembled = append(assembled, WithStore(store))
	}
	assembled = append(assembled,
		WithCache(cache.NewTTL(cache.WithTTL(cfg.CacheTTL))),
		WithTaskRunner(tasks.New(tasks.WithTimeout(cfg.TaskTimeout))),
		WithAuditSink(audit.New(audit.WithCapacity(cfg.AuditCapacity))),
	)
	assembled = append(assembled, opts...)
	return New(assembled...)
}

// Apply upserts the resource described by manifestText under account.
func (s *Service) Apply(ctx context.Context, account string, manifestText []byte) *entities.Envelope {
	b, err := s.Brokers.Broker(account, manifestText)
	if err != nil {
		return samerrors.Envelope("", "manifest", err)
	}
	return b.Apply(ctx)
}

// Describe reads a named resource back in manifest shape.
func (s *Service) Describe(ctx context.Context, account, kind, name string) *entities.Envelope {
	return s.named(account, kind, name, func(b ports.Broker) *entities.Envelope {
		return b.Describe(ctx)
	})
}

// Delete removes a named resource and cascades to its dependents.
func (s *Service) Delete(ctx context.Context, account, kind, name string) *entities.Envelope {
	return s.named(account, kind, name, func(b ports.Broker) *entities.Envelope {
		return b.Delete(ctx)
	})
}

// Deploy makes a named resource externally available.
func (s *Service) Deploy(ctx context.Context, account, kind, name string, opts ...ports.DeployOption) *entities.Envelope {
	return s.named(account, kind, name, func(b ports.Broker) *entities.Envelope {
		return b.Deploy(ctx, opts...)
	})
}

// Undeploy tears a named resource's external availability down.
func (s *Service) Undeploy(ctx context.Context, account, kind, name string, opts ...ports.DeployOption) *entities.Envelope {
	return s.named(account, kind, name, func(b ports.Broker) *entities.Envelope {
		return b.Undeploy(ctx, opts...)
	})
}

// Logs returns recent audit entries for a named resource.
func (s *Service) Logs(ctx context.Context, account, kind, name string, limit int) *entities.Envelope {
	return s.named(account, kind, name, func(b ports.Broker) *entities.Envelope {
		return b.Logs(ctx, limit)
	})
}

// List returns every resource of a kind owned by account.
func (s *Service) List(ctx context.Context, account, kind string) *entities.Envelope {
	return s.Brokers.List(ctx, account, kind)
}

// ExampleManifest returns a kind-conformant example manifest.
func (s *Service) ExampleManifest(kind string) *entities.Envelope {
	return s.Brokers.ExampleManifest(kind)
}

// PluginController resolves a persisted plugin into its runtime strategy.
// The stored manifest is re-loaded and re-bound, so a controller is only
// ever built over a validated manifest.
func (s *Service) PluginController(ctx context.Context, account, name string, opts ...controller.Option) (*controller.PluginController, error) {
	record, err := s.store.Get(ctx, account, entities.KindPlugin, name)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &samerrors.NotFoundError{Kind: entities.KindPlugin, Name: name}
	}

	raw, err := json.Marshal(record.Manifest)
	if err != nil {
		return nil, fmt.Errorf("encode stored manifest: %w", err)
	}
	doc, err := loader.Load(raw, loader.WithExpectedKind(entities.KindPlugin))
	if err != nil {
		return nil, err
	}
	typed, err := s.Schemas.Bind(doc)
	if err != nil {
		return nil, err
	}
	manifest, ok := typed.(*entities.PluginManifest)
	if !ok {
		return nil, fmt.Errorf("stored manifest bound to unexpected type %T", typed)
	}

	assembled := append([]controller.Option{controller.WithStore(s.store)}, opts...)
	return controller.New(account, manifest, assembled...)
}

// Shutdown waits for background work and releases the store when it owns
// one that needs closing.
func (s *Service) Shutdown() error {
	s.runner.Wait()
	if closer, ok := s.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func (s *Service) named(account, kind, name string, verb func(ports.Broker) *entities.Envelope) *entities.Envelope {
	b, err := s.Brokers.BrokerForName(account, kind, name)
	if err != nil {
		return samerrors.Envelope("", kind, err)
	}
	return verb(b)
}
