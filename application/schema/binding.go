package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	structural "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/chatkit-dev/sam/application/loader"
	"github.com/chatkit-dev/sam/domain/entities"
	samerrors "github.com/chatkit-dev/sam/domain/errors"
)

// Bind decodes a structurally-checked document into the kind's typed
// manifest and validates it. The compiled structural schema runs first
// and reports every type mismatch in one pass; per-field validation then
// collects every missing or invalid field; the kind's business rule runs
// only when both pass. The document's status block never reaches the
// model.
func (r *Registry) Bind(doc *entities.ManifestDocument) (entities.TypedManifest, error) {
	e, ok := r.entries[doc.Kind]
	if !ok {
		return nil, &samerrors.UnsupportedKindError{Kind: string(doc.Kind)}
	}

	flat, err := json.Marshal(doc.Flatten())
	if err != nil {
		return nil, fmt.Errorf("flatten manifest: %w", err)
	}

	var generic any
	if err := json.Unmarshal(flat, &generic); err != nil {
		return nil, decodeViolation(doc.Kind, err)
	}
	if err := e.compiled.Validate(generic); err != nil {
		var sErr *structural.ValidationError
		if !errors.As(err, &sErr) {
			return nil, fmt.Errorf("validate manifest: %w", err)
		}
		return nil, &samerrors.ValidationError{Kind: doc.Kind, Violations: structuralViolations(sErr)}
	}

	model := e.newModel()
	if err := json.Unmarshal(flat, model); err != nil {
		return nil, decodeViolation(doc.Kind, err)
	}

	if err := r.validate.Struct(model); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("validate manifest: %w", err)
		}
		violations := make([]entities.Violation, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			violations = append(violations, entities.Violation{
				Field:   fieldPath(fe.Namespace()),
				Message: messageForTag(fe),
				Value:   fmt.Sprintf("%v", fe.Value()),
			})
		}
		return nil, &samerrors.ValidationError{Kind: doc.Kind, Violations: violations}
	}

	if result := e.rule(model); !result.Valid() {
		return nil, &samerrors.ValidationError{Kind: doc.Kind, Violations: result.Violations}
	}

	return model, nil
}

// selfCheck asserts a kind's example manifest passes its own structural
// schema and full binding unmodified. Bind runs the compiled schema
// itself, so one call covers both.
func (r *Registry) selfCheck(kind entities.Kind) error {
	e := r.entries[kind]

	doc, err := loader.Load([]byte(e.example), loader.WithExpectedKind(kind))
	if err != nil {
		return err
	}

	_, err = r.Bind(doc)
	return err
}

// structuralViolations flattens the schema error tree into one violation
// per failing leaf, so a single submission reports every type mismatch.
func structuralViolations(err *structural.ValidationError) []entities.Violation {
	if len(err.Causes) == 0 {
		return []entities.Violation{{
			Field:   pointerPath(err.InstanceLocation),
			Message: err.Message,
		}}
	}
	var out []entities.Violation
	for _, cause := range err.Causes {
		out = append(out, structuralViolations(cause)...)
	}
	return out
}

// pointerPath converts a JSON pointer ("/spec/retentionDays") into the
// manifest path callers recognize ("spec.retentionDays").
func pointerPath(pointer string) string {
	path := strings.ReplaceAll(strings.Trim(pointer, "/"), "/", ".")
	if path == "" {
		return "manifest"
	}
	return path
}

// decodeViolation turns a json decode failure into a single-field
// validation error when the offending field is known.
func decodeViolation(kind entities.Kind, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &samerrors.ValidationError{
			Kind: kind,
			Violations: []entities.Violation{{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			}},
		}
	}
	return &samerrors.ValidationError{
		Kind:       kind,
		Violations: []entities.Violation{{Field: "spec", Message: err.Error()}},
	}
}

// fieldPath converts a validator namespace ("PluginManifest.spec.pluginClass")
// into the manifest path callers recognize ("spec.pluginClass").
func fieldPath(namespace string) string {
	path := namespace
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	// The embedded header is flattened in the wire shape.
	path = strings.TrimPrefix(path, "ManifestHeader.")
	return path
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "hostname_rfc1123":
		return "must be a valid hostname"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}
