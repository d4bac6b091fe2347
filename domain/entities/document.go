package entities

import "strings"

// DocumentFormat is the wire format a manifest arrived in.
type DocumentFormat string

const (
	FormatYAML DocumentFormat = "yaml"
	FormatJSON DocumentFormat = "json"
)

// ManifestMetadata is the metadata block shared by every manifest kind.
// Name is the only required field; it keys the resource within its
// account together with the kind.
type ManifestMetadata struct {
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Name        string            `json:"name" yaml:"name" validate:"required"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string            `json:"version,omitempty" yaml:"version,omitempty"`
	Tags        []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestDocument is a structurally-checked but not yet schema-bound
// manifest. The loader guarantees the top-level shape (apiVersion, kind,
// metadata with a name, spec as a mapping); everything below spec stays
// generic until the schema registry binds it.
type ManifestDocument struct {
	raw map[string]any

	Format     DocumentFormat
	APIVersion string
	Kind       Kind
	Metadata   ManifestMetadata
}

// NewManifestDocument wraps an already-decoded manifest mapping. raw must
// use string-keyed mappings throughout; the loader normalizes this.
func NewManifestDocument(raw map[string]any, format DocumentFormat, apiVersion string, kind Kind, meta ManifestMetadata) *ManifestDocument {
	return &ManifestDocument{
		raw:        raw,
		Format:     format,
		APIVersion: apiVersion,
		Kind:       kind,
		Metadata:   meta,
	}
}

// GetKey walks a dotted path through the document's mappings. The second
// return is false when any segment is absent or a non-mapping is reached
// before the last segment.
func (d *ManifestDocument) GetKey(path string) (any, bool) {
	var current any = d.raw
	for _, segment := range strings.Split(path, ".") {
		mapping, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = mapping[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Spec returns the spec block. Never nil for a loader-produced document.
func (d *ManifestDocument) Spec() map[string]any {
	spec, _ := d.raw["spec"].(map[string]any)
	return spec
}

// Status returns the caller-supplied status block, or nil when absent.
// The block is informational only; Flatten strips it before binding.
func (d *ManifestDocument) Status() map[string]any {
	status, _ := d.raw["status"].(map[string]any)
	return status
}

// Flatten returns a deep copy of the document in manifest shape with the
// status block removed. Status is server-computed and never bound or
// persisted from caller input.
func (d *ManifestDocument) Flatten() map[string]any {
	out := cloneMap(d.raw)
	delete(out, "status")
	return out
}
