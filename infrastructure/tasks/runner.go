// Package tasks provides the background runner deploy/undeploy work is
// handed to. Submitted tasks run on their own goroutine; the verb that
// submitted them returns immediately.
package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chatkit-dev/sam/domain/ports"
)

// runnerConfig holds resolved runner options.
type runnerConfig struct {
	logger  *slog.Logger
	timeout time.Duration
}

func defaultRunnerConfig() runnerConfig {
	return runnerConfig{
		logger:  slog.Default(),
		timeout: 2 * time.Minute,
	}
}

// Option configures a Runner.
type Option func(*runnerConfig)

// WithLogger sets the logger background failures are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runnerConfig) {
		c.logger = logger
	}
}

// WithTimeout bounds each background task's execution.
func WithTimeout(timeout time.Duration) Option {
	return func(c *runnerConfig) {
		c.timeout = timeout
	}
}

// Runner executes tasks on goroutines. There is no mid-flight
// cancellation of submitted work; idempotency of the task itself makes
// re-submission safe.
type Runner struct {
	config runnerConfig
	wg     sync.WaitGroup
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	cfg := defaultRunnerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Runner{config: cfg}
}

var _ ports.TaskRunner = (*Runner)(nil)

// Submit enqueues the task for background execution. The caller's context
// is not carried in: the task outlives the request that submitted it.
func (r *Runner) Submit(_ context.Context, task ports.Task) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.config.timeout)
		defer cancel()
		if err := task(ctx); err != nil && r.config.logger != nil {
			r.config.logger.Error("background task failed", slog.String("error", err.Error()))
		}
	}()
}

// Run executes the task synchronously.
func (r *Runner) Run(ctx context.Context, task ports.Task) error {
	return task(ctx)
}

// Wait blocks until every submitted task has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
