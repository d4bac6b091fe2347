package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatkit-dev/sam/domain/entities"
	samerrors "github.com/chatkit-dev/sam/domain/errors"
)

const validYAML = `apiVersion: sam/v1
kind: Chatbot
metadata:
  name: support-bot
  tags:
    - support
  annotations:
    team: cx
spec:
  greeting: hello
  selector:
    directive: allPages
`

const validJSON = `{
  "apiVersion": "sam/v1",
  "kind": "Chatbot",
  "metadata": {"name": "support-bot"},
  "spec": {"greeting": "hello"},
  "status": {"state": "deployed"}
}`

func TestLoad_YAMLAutoDetect(t *testing.T) {
	doc, err := Load([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, entities.FormatYAML, doc.Format)
	assert.Equal(t, "sam/v1", doc.APIVersion)
	assert.Equal(t, entities.KindChatbot, doc.Kind)
	assert.Equal(t, "support-bot", doc.Metadata.Name)
	assert.Equal(t, []string{"support"}, doc.Metadata.Tags)
	assert.Equal(t, map[string]string{"team": "cx"}, doc.Metadata.Annotations)
}

func TestLoad_JSONAutoDetect(t *testing.T) {
	doc, err := Load([]byte(validJSON))
	require.NoError(t, err)
	assert.Equal(t, entities.FormatJSON, doc.Format)
	assert.Equal(t, entities.KindChatbot, doc.Kind)
}

func TestLoad_FormatHint(t *testing.T) {
	// JSON is a YAML subset, so a YAML hint still parses it.
	doc, err := Load([]byte(validJSON), WithFormat(entities.FormatYAML))
	require.NoError(t, err)
	assert.Equal(t, entities.FormatYAML, doc.Format)
}

func TestLoad_TopLevelNotMapping(t *testing.T) {
	for name, text := range map[string]string{
		"sequence": "- a\n- b\n",
		"scalar":   "42\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(text))
			var formatErr *samerrors.InvalidDataFormatError
			require.ErrorAs(t, err, &formatErr)
		})
	}
}

func TestLoad_MissingRequiredKeys(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
	}{
		{"no apiVersion", "kind: Plugin\nmetadata:\n  name: x\nspec: {}\n", "apiVersion"},
		{"no kind", "apiVersion: sam/v1\nmetadata:\n  name: x\nspec: {}\n", "kind"},
		{"no metadata", "apiVersion: sam/v1\nkind: Plugin\nspec: {}\n", "metadata"},
		{"no spec", "apiVersion: sam/v1\nkind: Plugin\nmetadata:\n  name: x\n", "spec"},
		{"no name", "apiVersion: sam/v1\nkind: Plugin\nmetadata: {}\nspec: {}\n", "metadata.name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.text))
			var keyErr *samerrors.MissingRequiredKeyError
			require.ErrorAs(t, err, &keyErr)
			assert.Equal(t, tt.wantKey, keyErr.Key)
		})
	}
}

func TestLoad_KindMismatch(t *testing.T) {
	_, err := Load([]byte(validYAML), WithExpectedKind(entities.KindPlugin))
	var mismatch *samerrors.KindMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, entities.KindPlugin, mismatch.Expected)
	assert.Equal(t, "Chatbot", mismatch.Got)
}

func TestLoad_ExpectedKindToleratesNormalization(t *testing.T) {
	text := "apiVersion: sam/v1\nkind: chatbots\nmetadata:\n  name: x\nspec: {}\n"
	doc, err := Load([]byte(text), WithExpectedKind(entities.KindChatbot))
	require.NoError(t, err)
	assert.Equal(t, entities.KindChatbot, doc.Kind)
}

func TestLoad_UnsupportedKind(t *testing.T) {
	text := "apiVersion: sam/v1\nkind: Frobnicator\nmetadata:\n  name: x\nspec: {}\n"
	_, err := Load([]byte(text))
	var unsupported *samerrors.UnsupportedKindError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "Frobnicator", unsupported.Kind)
}

func TestLoad_Unparseable(t *testing.T) {
	_, err := Load([]byte("{not json"), WithFormat(entities.FormatJSON))
	var formatErr *samerrors.InvalidDataFormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestDocument_GetKey(t *testing.T) {
	doc, err := Load([]byte(validYAML))
	require.NoError(t, err)

	directive, ok := doc.GetKey("spec.selector.directive")
	require.True(t, ok)
	assert.Equal(t, "allPages", directive)

	_, ok = doc.GetKey("spec.selector.missing")
	assert.False(t, ok)

	_, ok = doc.GetKey("spec.greeting.nested")
	assert.False(t, ok, "traversing through a scalar must fail")
}

func TestDocument_StatusAccess(t *testing.T) {
	withStatus, err := Load([]byte(validJSON))
	require.NoError(t, err)
	require.NotNil(t, withStatus.Status())
	assert.Equal(t, "deployed", withStatus.Status()["state"])

	withoutStatus, err := Load([]byte(validYAML))
	require.NoError(t, err)
	assert.Nil(t, withoutStatus.Status())
}

func TestDocument_FlattenExcludesStatus(t *testing.T) {
	doc, err := Load([]byte(validJSON))
	require.NoError(t, err)

	flat := doc.Flatten()
	_, hasStatus := flat["status"]
	assert.False(t, hasStatus, "status is server-computed and never bound from input")
	assert.Contains(t, flat, "spec")
	assert.Contains(t, flat, "metadata")
}
