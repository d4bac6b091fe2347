// Package controller resolves a validated plugin manifest into one of a
// closed set of runtime strategies (static, sql, api) and manages the
// strategy's lifecycle: Unbound on construction, Bound once the backing
// data source is linked, Error when construction or retrieval failed.
package controller

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/chatkit-dev/sam/domain/entities"
	"github.com/chatkit-dev/sam/domain/ports"
)

// State is the controller's lifecycle position.
type State string

const (
	// StateUnbound means the controller exists but no backing link has
	// been established yet.
	StateUnbound State = "unbound"

	// StateBound means the backing data source is linked and data is
	// retrievable.
	StateBound State = "bound"

	// StateError means construction or retrieval failed; the last error
	// is retained and Ready reports false.
	StateError State = "error"
)

// Strategy is the uniform capability surface every plugin class resolves
// to.
type Strategy interface {
	// Bind establishes the backing link (open a connection, prepare a
	// request template). Idempotent.
	Bind(ctx context.Context) error

	// Fetch retrieves plugin data for the given runtime parameters.
	Fetch(ctx context.Context, params map[string]any) (map[string]any, error)

	// Close releases backing resources.
	Close() error
}

// strategyConstructor builds one plugin class's strategy. The table below
// is the closed set: no dynamic or reflective lookup, every variant
// visible here.
type strategyConstructor func(c *PluginController) Strategy

func strategyTable() map[string]strategyConstructor {
	return map[string]strategyConstructor{
		entities.PluginClassStatic: newStaticStrategy,
		entities.PluginClassSQL:    newSQLStrategy,
		entities.PluginClassAPI:    newAPIStrategy,
	}
}

// controllerConfig holds resolved controller options.
type controllerConfig struct {
	store      ports.ResourceStore
	httpClient *http.Client
	openDB     func(engine, dsn string) (*sql.DB, error)
}

func defaultControllerConfig() controllerConfig {
	return controllerConfig{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		openDB:     openDatabase,
	}
}

// Option configures a PluginController.
type Option func(*controllerConfig)

// WithStore sets the resource store used to resolve named connections.
func WithStore(store ports.ResourceStore) Option {
	return func(c *controllerConfig) {
		c.store = store
	}
}

// WithHTTPClient sets the client the api strategy calls through.
func WithHTTPClient(client *http.Client) Option {
	return func(c *controllerConfig) {
		c.httpClient = client
	}
}

// WithDBOpener sets the opener the sql strategy uses. Tests substitute an
// in-memory database here.
func WithDBOpener(open func(engine, dsn string) (*sql.DB, error)) Option {
	return func(c *controllerConfig) {
		c.openDB = open
	}
}

// PluginController drives one plugin's runtime strategy.
type PluginController struct {
	config   controllerConfig
	account  string
	manifest *entities.PluginManifest
	strategy Strategy

	state   State
	lastErr error
}

// New resolves the manifest's plugin class into its strategy. The
// manifest is already validated, so an unknown class here means the
// schema layer was bypassed; it is reported as an error rather than a
// panic. The controller starts Unbound.
func New(account string, manifest *entities.PluginManifest, opts ...Option) (*PluginController, error) {
	cfg := defaultControllerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &PluginController{
		config:   cfg,
		account:  account,
		manifest: manifest,
		state:    StateUnbound,
	}

	ctor, ok := strategyTable()[manifest.Spec.PluginClass]
	if !ok {
		return nil, fmt.Errorf("plugin %s: unknown plugin class %q", manifest.Metadata.Name, manifest.Spec.PluginClass)
	}
	c.strategy = ctor(c)
	return c, nil
}

// Bind links the backing data source and moves the controller to Bound,
// or to Error with the failure retained.
func (c *PluginController) Bind(ctx context.Context) error {
	if err := c.strategy.Bind(ctx); err != nil {
		c.state = StateError
		c.lastErr = err
		return err
	}
	c.state = StateBound
	c.lastErr = nil
	return nil
}

// Ready reports whether data is retrievable.
func (c *PluginController) Ready() bool {
	return c.state == StateBound
}

// State returns the controller's lifecycle position.
func (c *PluginController) State() State {
	return c.state
}

// LastError returns the retained failure, nil outside Error state.
func (c *PluginController) LastError() error {
	return c.lastErr
}

// Data retrieves plugin data for the given runtime parameters. A
// retrieval failure moves the controller to Error and retains the cause.
func (c *PluginController) Data(ctx context.Context, params map[string]any) (map[string]any, error) {
	if c.state == StateUnbound {
		if err := c.Bind(ctx); err != nil {
			return nil, err
		}
	}
	if c.state != StateBound {
		return nil, fmt.Errorf("plugin %s is not ready: %w", c.manifest.Metadata.Name, c.lastErr)
	}

	data, err := c.strategy.Fetch(ctx, params)
	if err != nil {
		c.state = StateError
		c.lastErr = err
		return nil, err
	}
	return data, nil
}

// Refresh re-establishes the backing link, clearing a previous Error.
func (c *PluginController) Refresh(ctx context.Context) error {
	_ = c.strategy.Close()
	c.state = StateUnbound
	c.lastErr = nil
	return c.Bind(ctx)
}

// ToJSON returns a serializable snapshot of the controller.
func (c *PluginController) ToJSON() map[string]any {
	out := map[string]any{
		"account":     c.account,
		"name":        c.manifest.Metadata.Name,
		"pluginClass": c.manifest.Spec.PluginClass,
		"state":       string(c.state),
		"ready":       c.Ready(),
	}
	if c.lastErr != nil {
		out["lastError"] = c.lastErr.Error()
	}
	return out
}

// Close releases strategy resources.
func (c *PluginController) Close() error {
	return c.strategy.Close()
}
