package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatkit-dev/sam/domain/entities"
	samerrors "github.com/chatkit-dev/sam/domain/errors"
	"github.com/chatkit-dev/sam/infrastructure/cache"
	"github.com/chatkit-dev/sam/infrastructure/memstore"
)

func chatbotRecord(account, name, hostname string, deployed bool) *entities.ResourceRecord {
	return &entities.ResourceRecord{
		Account:  account,
		Kind:     entities.KindChatbot,
		Name:     name,
		Deployed: deployed,
		Manifest: map[string]any{
			"metadata": map[string]any{"name": name},
			"spec":     map[string]any{"hostname": hostname},
		},
	}
}

func TestResolveHostname_DeployedChatbot(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	_, err := store.Upsert(ctx, chatbotRecord("acct-1", "support-bot", "support.acme.example", true))
	require.NoError(t, err)

	r := New(store, cache.Nop{})
	caller, err := r.ResolveHostname(ctx, "support.acme.example")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", caller.AccountID)
}

func TestResolveHostname_UndeployedIsInvisible(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	_, err := store.Upsert(ctx, chatbotRecord("acct-1", "support-bot", "support.acme.example", false))
	require.NoError(t, err)

	r := New(store, cache.Nop{})
	_, err = r.ResolveHostname(ctx, "support.acme.example")
	var notFound *samerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestResolveHostname_UnknownHostname(t *testing.T) {
	r := New(memstore.New(), cache.Nop{})
	_, err := r.ResolveHostname(context.Background(), "nowhere.example")
	var notFound *samerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestResolveHostname_CachedLookupSkipsStore(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	_, err := store.Upsert(ctx, chatbotRecord("acct-1", "support-bot", "support.acme.example", true))
	require.NoError(t, err)

	r := New(store, cache.NewTTL())
	caller, err := r.ResolveHostname(ctx, "support.acme.example")
	require.NoError(t, err)
	require.Equal(t, "acct-1", caller.AccountID)

	// Record disappears; the cached resolution still answers.
	_, err = store.Delete(ctx, "acct-1", entities.KindChatbot, "support-bot", nil)
	require.NoError(t, err)

	caller, err = r.ResolveHostname(ctx, "support.acme.example")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", caller.AccountID)
}
