package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_RunsInBackground(t *testing.T) {
	r := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	var ran atomic.Int32
	for i := 0; i < 4; i++ {
		r.Submit(context.Background(), func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	r.Wait()
	assert.Equal(t, int32(4), ran.Load())
}

func TestSubmit_OutlivesCallerContext(t *testing.T) {
	r := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawLiveContext atomic.Bool
	r.Submit(ctx, func(taskCtx context.Context) error {
		sawLiveContext.Store(taskCtx.Err() == nil)
		return nil
	})
	r.Wait()

	assert.True(t, sawLiveContext.Load(), "submitted work is detached from the request context")
}

func TestRun_Synchronous(t *testing.T) {
	r := New()

	ran := false
	err := r.Run(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestRun_PropagatesError(t *testing.T) {
	r := New()
	want := errors.New("flip failed")
	err := r.Run(context.Background(), func(context.Context) error { return want })
	assert.ErrorIs(t, err, want)
}
