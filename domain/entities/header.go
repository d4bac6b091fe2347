package entities

// ManifestHeader is the top-level block shared by every typed manifest.
// Embedded so encoding/json flattens it into the manifest shape.
type ManifestHeader struct {
	APIVersion string           `json:"apiVersion" yaml:"apiVersion" validate:"required"`
	Kind       string           `json:"kind" yaml:"kind" validate:"required"`
	Metadata   ManifestMetadata `json:"metadata" yaml:"metadata"`
}

// Meta returns the shared metadata block.
func (h *ManifestHeader) Meta() *ManifestMetadata {
	return &h.Metadata
}
