// Package schema binds generic manifest documents to per-kind typed
// schemas. Field validation aggregates every violation from one
// submission; cross-field business rules run only after field validation
// passes and are pure functions of the bound model.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	structural "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/chatkit-dev/sam/domain/entities"
)

// RuleFunc is a kind's cross-field business-rule validator. Pure: no I/O,
// no mutation of the model; every violation is aggregated into the result.
type RuleFunc func(m entities.TypedManifest) *entities.ValidationResult

// entry is one kind's registration: a typed-model factory, the generated
// JSON Schema, its compiled structural form, the business rule and the
// example manifest.
type entry struct {
	newModel   func() entities.TypedManifest
	rule       RuleFunc
	schemaJSON []byte
	compiled   *structural.Schema
	example    string
}

// Registry is the closed kind-to-schema mapping. Built once by
// NewRegistry and immutable afterwards; concurrent reads need no
// synchronization.
type Registry struct {
	entries  map[entities.Kind]*entry
	validate *validator.Validate
}

// NewRegistry builds the schema registry for every canonical kind and
// self-checks it: each kind's example manifest must pass its own
// structural schema and full binding unmodified. Any failure is a startup
// error, never deferred to request time.
func NewRegistry() (*Registry, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	r := &Registry{
		entries:  make(map[entities.Kind]*entry, len(entities.Kinds())),
		validate: v,
	}

	registrations := []struct {
		kind     entities.Kind
		newModel func() entities.TypedManifest
		rule     RuleFunc
		example  string
	}{
		{entities.KindAccount, func() entities.TypedManifest { return &entities.AccountManifest{} }, accountRules, exampleAccount},
		{entities.KindUser, func() entities.TypedManifest { return &entities.UserManifest{} }, noRules, exampleUser},
		{entities.KindPlugin, func() entities.TypedManifest { return &entities.PluginManifest{} }, pluginRules, examplePlugin},
		{entities.KindChatbot, func() entities.TypedManifest { return &entities.ChatbotManifest{} }, chatbotRules, exampleChatbot},
		{entities.KindSQLConnection, func() entities.TypedManifest { return &entities.SQLConnectionManifest{} }, noRules, exampleSQLConnection},
		{entities.KindAPIConnection, func() entities.TypedManifest { return &entities.APIConnectionManifest{} }, apiConnectionRules, exampleAPIConnection},
		{entities.KindAPIKey, func() entities.TypedManifest { return &entities.APIKeyManifest{} }, apiKeyRules, exampleAPIKey},
		{entities.KindChat, func() entities.TypedManifest { return &entities.ChatManifest{} }, noRules, exampleChat},
	}

	for _, reg := range registrations {
		e, err := buildEntry(reg.newModel, reg.rule, reg.example)
		if err != nil {
			return nil, fmt.Errorf("schema registry: %s: %w", reg.kind, err)
		}
		r.entries[reg.kind] = e
	}

	// Closed-set check: exactly one entry per canonical kind.
	for _, k := range entities.Kinds() {
		if _, ok := r.entries[k]; !ok {
			return nil, fmt.Errorf("schema registry: kind %s has no registration", k)
		}
	}

	for _, k := range entities.Kinds() {
		if err := r.selfCheck(k); err != nil {
			return nil, fmt.Errorf("schema registry: example for %s is not self-valid: %w", k, err)
		}
	}

	return r, nil
}

func buildEntry(newModel func() entities.TypedManifest, rule RuleFunc, example string) (*entry, error) {
	model := newModel()

	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: true, // unknown extra fields are ignored, uniformly
		// Required-ness belongs to the field validator, which reports
		// each missing field under its own path. The structural schema
		// carries the type shape only.
		RequiredFromJSONSchemaTags: true,
	}
	generated := reflector.Reflect(model)
	schemaJSON, err := json.Marshal(generated)
	if err != nil {
		return nil, fmt.Errorf("marshal generated schema: %w", err)
	}

	id := "sam://" + strings.ToLower(string(model.ManifestKind())) + ".schema.json"
	compiler := structural.NewCompiler()
	if err := compiler.AddResource(id, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(id)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &entry{
		newModel:   newModel,
		rule:       rule,
		schemaJSON: schemaJSON,
		compiled:   compiled,
		example:    example,
	}, nil
}

// Kinds returns every registered kind, in canonical order.
func (r *Registry) Kinds() []entities.Kind {
	return entities.Kinds()
}

// SchemaJSON returns the generated JSON Schema for the kind.
func (r *Registry) SchemaJSON(kind entities.Kind) ([]byte, bool) {
	e, ok := r.entries[kind]
	if !ok {
		return nil, false
	}
	return e.schemaJSON, true
}

// Example returns the kind's example manifest as YAML text. The registry
// guarantees at construction that it binds unmodified.
func (r *Registry) Example(kind entities.Kind) (string, bool) {
	e, ok := r.entries[kind]
	if !ok {
		return "", false
	}
	return e.example, true
}
