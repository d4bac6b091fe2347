package audit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatkit-dev/sam/domain/entities"
	"github.com/chatkit-dev/sam/domain/ports"
)

func entry(account, name, verb string) ports.AuditEntry {
	return ports.AuditEntry{
		Time:    time.Now().UTC(),
		Account: account,
		Kind:    string(entities.KindChatbot),
		Name:    name,
		Verb:    verb,
		Message: fmt.Sprintf("%s %s", name, verb),
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	s := New()
	s.Record(entry("acct-1", "bot", "apply"))
	s.Record(entry("acct-1", "bot", "deploy"))
	s.Record(entry("acct-1", "bot", "undeploy"))

	got := s.Recent("acct-1", entities.KindChatbot, "bot", 10)
	require.Len(t, got, 3)
	assert.Equal(t, "undeploy", got[0].Verb)
	assert.Equal(t, "deploy", got[1].Verb)
	assert.Equal(t, "apply", got[2].Verb)
}

func TestRecent_FiltersAccountAndName(t *testing.T) {
	s := New()
	s.Record(entry("acct-1", "bot-a", "apply"))
	s.Record(entry("acct-1", "bot-b", "apply"))
	s.Record(entry("acct-2", "bot-a", "apply"))

	got := s.Recent("acct-1", entities.KindChatbot, "bot-a", 10)
	require.Len(t, got, 1)
	assert.Equal(t, "acct-1", got[0].Account)

	// Empty name matches every resource of the kind within the account.
	all := s.Recent("acct-1", entities.KindChatbot, "", 10)
	assert.Len(t, all, 2)
}

func TestRecent_HonorsLimit(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		s.Record(entry("acct-1", "bot", fmt.Sprintf("verb-%d", i)))
	}

	got := s.Recent("acct-1", entities.KindChatbot, "bot", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "verb-4", got[0].Verb)
	assert.Equal(t, "verb-3", got[1].Verb)
}

func TestRecord_EvictsOldestPastCapacity(t *testing.T) {
	s := New(WithCapacity(3))
	for i := 0; i < 5; i++ {
		s.Record(entry("acct-1", "bot", fmt.Sprintf("verb-%d", i)))
	}

	got := s.Recent("acct-1", entities.KindChatbot, "bot", 10)
	require.Len(t, got, 3)
	assert.Equal(t, "verb-4", got[0].Verb)
	assert.Equal(t, "verb-2", got[2].Verb, "oldest entries fall off first")
}
