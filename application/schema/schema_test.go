package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatkit-dev/sam/application/loader"
	"github.com/chatkit-dev/sam/domain/entities"
	samerrors "github.com/chatkit-dev/sam/domain/errors"
)

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	require.NoError(t, err)
	return r
}

func mustDoc(t *testing.T, text string) *entities.ManifestDocument {
	t.Helper()
	doc, err := loader.Load([]byte(text))
	require.NoError(t, err)
	return doc
}

func bindErr(t *testing.T, r *Registry, text string) *samerrors.ValidationError {
	t.Helper()
	_, err := r.Bind(mustDoc(t, text))
	var vErr *samerrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr
}

func TestNewRegistry_EveryExampleSelfValid(t *testing.T) {
	r := mustRegistry(t)
	for _, kind := range r.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			example, ok := r.Example(kind)
			require.True(t, ok)

			doc, err := loader.Load([]byte(example), loader.WithExpectedKind(kind))
			require.NoError(t, err)

			manifest, err := r.Bind(doc)
			require.NoError(t, err)
			assert.Equal(t, kind, manifest.ManifestKind())
		})
	}
}

func TestNewRegistry_SchemaJSONPerKind(t *testing.T) {
	r := mustRegistry(t)
	for _, kind := range r.Kinds() {
		schemaJSON, ok := r.SchemaJSON(kind)
		require.True(t, ok, "kind %s has no schema", kind)
		assert.NotEmpty(t, schemaJSON)
	}
}

func TestBind_ValidationListsEveryMissingField(t *testing.T) {
	r := mustRegistry(t)
	// User requires spec.email and spec.role; both omitted.
	vErr := bindErr(t, r, `apiVersion: sam/v1
kind: User
metadata:
  name: jamie
spec:
  displayName: Jamie
`)
	fields := violationFields(vErr)
	assert.Contains(t, fields, "spec.email")
	assert.Contains(t, fields, "spec.role")
	assert.GreaterOrEqual(t, len(vErr.Violations), 2, "all omissions reported in one pass, not fail-fast")
}

func TestBind_ValidationListsEveryTypeMismatch(t *testing.T) {
	r := mustRegistry(t)
	// Chat expects a string visitor and an integer retentionDays; both
	// carry the wrong type.
	vErr := bindErr(t, r, `apiVersion: sam/v1
kind: Chat
metadata:
  name: chat-1
spec:
  chatbot: support-bot
  visitor: 12345
  retentionDays: ninety
`)
	fields := violationFields(vErr)
	assert.Contains(t, fields, "spec.visitor")
	assert.Contains(t, fields, "spec.retentionDays")
	assert.GreaterOrEqual(t, len(vErr.Violations), 2, "all type mismatches reported in one pass, not first-error-wins")
}

func TestBind_DiscriminatorConsistency(t *testing.T) {
	r := mustRegistry(t)

	t.Run("declared block missing", func(t *testing.T) {
		vErr := bindErr(t, r, `apiVersion: sam/v1
kind: Plugin
metadata:
  name: p
spec:
  pluginClass: static
`)
		assert.Contains(t, violationFields(vErr), "spec.staticData")
	})

	t.Run("only matching block present", func(t *testing.T) {
		_, err := r.Bind(mustDoc(t, `apiVersion: sam/v1
kind: Plugin
metadata:
  name: p
spec:
  pluginClass: static
  staticData:
    items:
      - k: v
`))
		require.NoError(t, err)
	})

	t.Run("foreign block present", func(t *testing.T) {
		vErr := bindErr(t, r, `apiVersion: sam/v1
kind: Plugin
metadata:
  name: p
spec:
  pluginClass: static
  staticData:
    items:
      - k: v
  sqlData:
    connection: db
    query: select 1
`)
		assert.Contains(t, violationFields(vErr), "spec.sqlData")
	})

	t.Run("invalid class rejected by field validation", func(t *testing.T) {
		vErr := bindErr(t, r, `apiVersion: sam/v1
kind: Plugin
metadata:
  name: p
spec:
  pluginClass: webhook
`)
		assert.Contains(t, violationFields(vErr), "spec.pluginClass")
	})
}

func TestBind_ChatbotSelectorRules(t *testing.T) {
	r := mustRegistry(t)

	t.Run("searchTerms directive needs terms", func(t *testing.T) {
		vErr := bindErr(t, r, `apiVersion: sam/v1
kind: Chatbot
metadata:
  name: b
spec:
  selector:
    directive: searchTerms
`)
		assert.Contains(t, violationFields(vErr), "spec.selector.searchTerms")
	})

	t.Run("other directive forbids terms", func(t *testing.T) {
		vErr := bindErr(t, r, `apiVersion: sam/v1
kind: Chatbot
metadata:
  name: b
spec:
  selector:
    directive: allPages
    searchTerms:
      - returns
`)
		assert.Contains(t, violationFields(vErr), "spec.selector.searchTerms")
	})

	t.Run("no selector is fine", func(t *testing.T) {
		_, err := r.Bind(mustDoc(t, `apiVersion: sam/v1
kind: Chatbot
metadata:
  name: b
spec:
  greeting: hi
`))
		require.NoError(t, err)
	})
}

func TestBind_AccountReferenceTables(t *testing.T) {
	r := mustRegistry(t)

	vErr := bindErr(t, r, `apiVersion: sam/v1
kind: Account
metadata:
  name: acme
spec:
  company: Acme
  email: ops@acme.example
  currency: DOUBLOONS
  country: ZZ
  language: tlh
  timezone: Mars/Olympus_Mons
`)
	fields := violationFields(vErr)
	assert.Contains(t, fields, "spec.currency")
	assert.Contains(t, fields, "spec.country")
	assert.Contains(t, fields, "spec.language")
	assert.Contains(t, fields, "spec.timezone")

	for _, v := range vErr.Violations {
		if v.Field == "spec.currency" {
			assert.Equal(t, "DOUBLOONS", v.Value)
			assert.Contains(t, v.Accepted, "USD", "violation reports the accepted set")
		}
	}
}

func TestBind_BusinessRulesRunOnlyAfterFieldValidation(t *testing.T) {
	r := mustRegistry(t)
	// Missing required company/email AND a bad currency: field errors
	// surface first, the reference-table rule does not run.
	vErr := bindErr(t, r, `apiVersion: sam/v1
kind: Account
metadata:
  name: acme
spec:
  currency: DOUBLOONS
`)
	fields := violationFields(vErr)
	assert.Contains(t, fields, "spec.company")
	assert.Contains(t, fields, "spec.email")
	assert.NotContains(t, fields, "spec.currency")
}

func TestBind_APIConnectionCredentialRules(t *testing.T) {
	r := mustRegistry(t)

	t.Run("bearer requires credential", func(t *testing.T) {
		vErr := bindErr(t, r, `apiVersion: sam/v1
kind: ApiConnection
metadata:
  name: wx
spec:
  baseUrl: https://api.example
  authScheme: bearer
`)
		assert.Contains(t, violationFields(vErr), "spec.credential")
	})

	t.Run("none forbids credential", func(t *testing.T) {
		vErr := bindErr(t, r, `apiVersion: sam/v1
kind: ApiConnection
metadata:
  name: wx
spec:
  baseUrl: https://api.example
  authScheme: none
  credential: leftover
`)
		assert.Contains(t, violationFields(vErr), "spec.credential")
	})

	t.Run("header requires header name", func(t *testing.T) {
		vErr := bindErr(t, r, `apiVersion: sam/v1
kind: ApiConnection
metadata:
  name: wx
spec:
  baseUrl: https://api.example
  authScheme: header
  credential: tok
`)
		assert.Contains(t, violationFields(vErr), "spec.headerName")
	})
}

func TestBind_UnknownFieldsIgnoredUniformly(t *testing.T) {
	r := mustRegistry(t)
	_, err := r.Bind(mustDoc(t, `apiVersion: sam/v1
kind: User
metadata:
  name: jamie
spec:
  email: jamie@acme.example
  role: viewer
  favoriteColor: teal
`))
	require.NoError(t, err)
}

func TestBind_StatusNeverBound(t *testing.T) {
	r := mustRegistry(t)
	// A caller-supplied status block is stripped before binding and
	// cannot affect the bound model.
	manifest, err := r.Bind(mustDoc(t, `apiVersion: sam/v1
kind: User
metadata:
  name: jamie
spec:
  email: jamie@acme.example
  role: viewer
status:
  state: deployed
  deployed: true
`))
	require.NoError(t, err)
	assert.Equal(t, entities.KindUser, manifest.ManifestKind())
}

func TestBind_APIKeyExpiryFormat(t *testing.T) {
	r := mustRegistry(t)
	vErr := bindErr(t, r, `apiVersion: sam/v1
kind: ApiKey
metadata:
  name: k
spec:
  targetKind: Chatbot
  target: support-bot
  expiresAt: next tuesday
`)
	assert.Contains(t, violationFields(vErr), "spec.expiresAt")
}

func violationFields(err *samerrors.ValidationError) []string {
	fields := make([]string, len(err.Violations))
	for i, v := range err.Violations {
		fields[i] = v.Field
	}
	return fields
}
