package sam

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatkit-dev/sam/domain/entities"
	samerrors "github.com/chatkit-dev/sam/domain/errors"
	"github.com/chatkit-dev/sam/domain/ports"
	"github.com/chatkit-dev/sam/infrastructure/cache"
	"github.com/chatkit-dev/sam/internal/testutil"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := New(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithCache(cache.Nop{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Shutdown()) })
	return s
}

// applyExample fetches the kind's example manifest and applies it
// verbatim.
func applyExample(t *testing.T, s *Service, account string, kind entities.Kind) string {
	t.Helper()
	example := s.ExampleManifest(string(kind))
	testutil.RequireSuccess(t, example)
	raw := example.Metadata["raw"].(string)

	env := s.Apply(context.Background(), account, []byte(raw))
	testutil.RequireSuccess(t, env)

	meta := env.Data["metadata"].(map[string]any)
	return meta["name"].(string)
}

func TestService_EveryExampleRoundTrips(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	for _, kind := range entities.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			name := applyExample(t, s, "acct-1", kind)

			described := s.Describe(ctx, "acct-1", string(kind), name)
			testutil.RequireSuccess(t, described)
			assert.Equal(t, kind.Thing(), described.Thing)
			assert.Contains(t, described.Data, "spec")
			assert.Contains(t, described.Data, "status")
		})
	}
}

func TestService_DeployAndResolveIdentity(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	name := applyExample(t, s, "acct-1", entities.KindChatbot)

	env := s.Deploy(ctx, "acct-1", "chatbot", name, ports.WithSync(true))
	testutil.RequireSuccess(t, env)

	described := s.Describe(ctx, "acct-1", "chatbot", name)
	testutil.RequireSuccess(t, described)
	status := described.Data["status"].(map[string]any)
	assert.Equal(t, "deployed", status["state"])

	// The example chatbot serves support.acme.example once deployed.
	caller, err := s.Identity.ResolveHostname(ctx, "support.acme.example")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", caller.AccountID)

	testutil.RequireSuccess(t, s.Undeploy(ctx, "acct-1", "chatbot", name, ports.WithSync(true)))
	_, err = s.Identity.ResolveHostname(ctx, "support.acme.example")
	var notFound *samerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestService_ApplyRejectsInvalidManifest(t *testing.T) {
	s := newService(t)
	env := s.Apply(context.Background(), "acct-1", []byte(`apiVersion: sam/v1
kind: User
metadata:
  name: broken
spec:
  role: emperor
`))
	testutil.RequireErrorType(t, env, samerrors.TypeValidation, http.StatusBadRequest)
}

func TestService_VerbsOnUnknownKind(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	testutil.RequireErrorType(t, s.Describe(ctx, "acct-1", "Frobnicator", "x"),
		samerrors.TypeUnsupportedKind, http.StatusBadRequest)
	testutil.RequireErrorType(t, s.List(ctx, "acct-1", "Frobnicator"),
		samerrors.TypeUnsupportedKind, http.StatusBadRequest)
}

func TestService_LogsAfterVerbs(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	name := applyExample(t, s, "acct-1", entities.KindChatbot)

	testutil.RequireSuccess(t, s.Deploy(ctx, "acct-1", "chatbot", name, ports.WithSync(true)))

	env := s.Logs(ctx, "acct-1", "chatbot", name, 10)
	testutil.RequireSuccess(t, env)
	entries := env.Data["entries"].([]any)
	assert.Len(t, entries, 2)
}

func TestService_PluginController(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	name := applyExample(t, s, "acct-1", entities.KindPlugin)

	c, err := s.PluginController(ctx, "acct-1", name)
	require.NoError(t, err)
	defer c.Close()

	data, err := c.Data(ctx, map[string]any{"location": "nyc"})
	require.NoError(t, err)
	assert.Equal(t, 1, data["count"])
	rows := data["rows"].([]map[string]any)
	assert.Equal(t, "09:00-18:00", rows[0]["hours"])
}

func TestService_PluginControllerUnknownPlugin(t *testing.T) {
	s := newService(t)
	_, err := s.PluginController(context.Background(), "acct-1", "ghost")
	var notFound *samerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestService_DeleteCascade(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	botName := applyExample(t, s, "acct-1", entities.KindChatbot)
	applyExample(t, s, "acct-1", entities.KindAPIKey) // targets the example chatbot
	applyExample(t, s, "acct-1", entities.KindChat)   // references the example chatbot

	env := s.Delete(ctx, "acct-1", "chatbot", botName)
	testutil.RequireSuccess(t, env)
	assert.Equal(t, 3, env.Data["removed"])

	testutil.RequireErrorType(t, s.Describe(ctx, "acct-1", "apikey", "support-bot-key"),
		samerrors.TypeNotFound, http.StatusNotFound)
}

func TestService_CrossAccountIsForbidden(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	name := applyExample(t, s, "acct-1", entities.KindChatbot)

	testutil.RequireErrorType(t, s.Describe(ctx, "acct-2", "chatbot", name),
		samerrors.TypeForbidden, http.StatusForbidden)
}
