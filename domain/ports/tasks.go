package ports

import "context"

// Task is one unit of deploy/undeploy work handed to the runner. Tasks
// report completion by mutating record state, never by return value.
type Task func(ctx context.Context) error

// TaskRunner executes deploy/undeploy work. Submit hands the task off and
// returns immediately; Run executes it in the foreground. Re-submitting an
// already-completed task must be a no-op for idempotent tasks — the runner
// itself does no deduplication.
type TaskRunner interface {
	// Submit enqueues the task for background execution.
	Submit(ctx context.Context, task Task)

	// Run executes the task synchronously and returns its error.
	Run(ctx context.Context, task Task) error

	// Wait blocks until every submitted task has finished. Intended for
	// shutdown and tests.
	Wait()
}
