// Package testutil provides shared assertions for broker tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatkit-dev/sam/domain/entities"
)

// RequireSuccess asserts the envelope carries no error.
func RequireSuccess(t *testing.T, env *entities.Envelope) {
	t.Helper()
	require.NotNil(t, env)
	if env.Error != nil {
		require.Failf(t, "expected success envelope",
			"got %s (%d): %s", env.Error.Type, env.Error.StatusCode, env.Error.Message)
	}
}

// RequireErrorType asserts the envelope carries an error of the given
// machine-readable type and status class.
func RequireErrorType(t *testing.T, env *entities.Envelope, wantType string, wantStatus int) {
	t.Helper()
	require.NotNil(t, env)
	require.NotNil(t, env.Error, "expected error envelope, got success: %q", env.Message)
	assert.Equal(t, wantType, env.Error.Type)
	assert.Equal(t, wantStatus, env.Error.StatusCode)
	assert.NotEmpty(t, env.Error.Message)
}
