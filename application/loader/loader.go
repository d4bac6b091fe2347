// Package loader parses raw YAML or JSON text into a generic,
// structurally-checked manifest document. Errors raised here are purely
// structural; schema and business-rule validation belong to the schema
// layer.
package loader

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/chatkit-dev/sam/domain/entities"
	samerrors "github.com/chatkit-dev/sam/domain/errors"
)

// Top-level keys every manifest must carry.
var requiredKeys = []string{"apiVersion", "kind", "metadata", "spec"}

// loadConfig holds resolved load options.
type loadConfig struct {
	format       entities.DocumentFormat // empty means auto-detect
	expectedKind entities.Kind           // empty means any kind
}

// LoadOption configures a Load call.
type LoadOption func(*loadConfig)

// WithFormat forces the wire format instead of auto-detecting.
func WithFormat(format entities.DocumentFormat) LoadOption {
	return func(c *loadConfig) {
		c.format = format
	}
}

// WithExpectedKind rejects documents whose kind does not normalize to k.
func WithExpectedKind(k entities.Kind) LoadOption {
	return func(c *loadConfig) {
		c.expectedKind = k
	}
}

// Load parses manifest text into a ManifestDocument. The format is
// auto-detected unless forced: text whose first non-space byte is '{'
// is treated as JSON, everything else as YAML.
func Load(data []byte, opts ...LoadOption) (*entities.ManifestDocument, error) {
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	format := cfg.format
	if format == "" {
		format = detectFormat(data)
	}

	raw, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return nil, &samerrors.MissingRequiredKeyError{Key: key}
		}
	}

	apiVersion, _ := raw["apiVersion"].(string)
	kindValue, _ := raw["kind"].(string)
	kind, ok := entities.ResolveKind(kindValue)
	if !ok {
		return nil, &samerrors.UnsupportedKindError{Kind: kindValue}
	}
	if cfg.expectedKind != "" && kind != cfg.expectedKind {
		return nil, &samerrors.KindMismatchError{Expected: cfg.expectedKind, Got: kindValue}
	}

	metaRaw, ok := raw["metadata"].(map[string]any)
	if !ok {
		return nil, &samerrors.InvalidDataFormatError{Expected: "mapping for metadata", Got: typeName(raw["metadata"])}
	}
	meta := decodeMetadata(metaRaw)
	if meta.Name == "" {
		return nil, &samerrors.MissingRequiredKeyError{Key: "metadata.name"}
	}

	if _, ok := raw["spec"].(map[string]any); !ok {
		return nil, &samerrors.InvalidDataFormatError{Expected: "mapping for spec", Got: typeName(raw["spec"])}
	}

	return entities.NewManifestDocument(raw, format, apiVersion, kind, meta), nil
}

func detectFormat(data []byte) entities.DocumentFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return entities.FormatJSON
	}
	return entities.FormatYAML
}

func decode(data []byte, format entities.DocumentFormat) (map[string]any, error) {
	var top any
	switch format {
	case entities.FormatJSON:
		if err := json.Unmarshal(data, &top); err != nil {
			return nil, &samerrors.InvalidDataFormatError{Expected: "valid json", Got: "unparseable text"}
		}
	default:
		if err := yaml.Unmarshal(data, &top); err != nil {
			return nil, &samerrors.InvalidDataFormatError{Expected: "valid yaml", Got: "unparseable text"}
		}
	}

	mapping, ok := normalize(top).(map[string]any)
	if !ok {
		return nil, &samerrors.InvalidDataFormatError{Expected: "mapping", Got: typeName(top)}
	}
	return mapping, nil
}

// normalize rewrites yaml.v3's occasional map[any]any mappings into
// map[string]any so the document is JSON-serializable throughout.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			key, ok := k.(string)
			if !ok {
				continue
			}
			out[key] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

func decodeMetadata(raw map[string]any) entities.ManifestMetadata {
	meta := entities.ManifestMetadata{}
	meta.Name, _ = raw["name"].(string)
	meta.Description, _ = raw["description"].(string)
	meta.Version, _ = raw["version"].(string)
	if tags, ok := raw["tags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				meta.Tags = append(meta.Tags, s)
			}
		}
	}
	if ann, ok := raw["annotations"].(map[string]any); ok {
		meta.Annotations = make(map[string]string, len(ann))
		for k, v := range ann {
			if s, ok := v.(string); ok {
				meta.Annotations[k] = s
			}
		}
	}
	return meta
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any, map[any]any:
		return "mapping"
	case []any:
		return "sequence"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, float64:
		return "number"
	default:
		return "scalar"
	}
}
