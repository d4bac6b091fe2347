package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKind_Normalization(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"Plugin", KindPlugin},
		{"plugin", KindPlugin},
		{"plugins", KindPlugin},
		{"PLUGINS", KindPlugin},
		{"  chatbot ", KindChatbot},
		{"sqlconnections", KindSQLConnection},
		{"ApiKey", KindAPIKey},
		{"apikeys", KindAPIKey},
		{"Account", KindAccount},
		{"accounts", KindAccount},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ResolveKind(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveKind_Unknown(t *testing.T) {
	for _, input := range []string{"Frobnicator", "", "pluginss", "chat bots"} {
		t.Run(input, func(t *testing.T) {
			_, ok := ResolveKind(input)
			assert.False(t, ok)
		})
	}
}

func TestKinds_Closed(t *testing.T) {
	seen := map[Kind]bool{}
	for _, k := range Kinds() {
		assert.False(t, seen[k], "duplicate kind %s", k)
		seen[k] = true

		resolved, ok := ResolveKind(string(k))
		require.True(t, ok)
		assert.Equal(t, k, resolved)
	}
	assert.Len(t, seen, 8)
}

func TestKind_Thing(t *testing.T) {
	assert.Equal(t, "sqlconnection", KindSQLConnection.Thing())
	assert.Equal(t, "plugin", KindPlugin.Thing())
}
