// Package entities provides the core domain types of the resource broker:
// the kind enumeration, generic and typed manifests, persisted records and
// the response envelope. Types here carry no I/O; parsing, validation and
// persistence live in the application and infrastructure layers.
package entities

// TypedManifest is the schema-bound form of a manifest, specific to one
// Kind. Implementations are plain structs carrying validation tags; the
// schema registry binds a ManifestDocument into one of them.
type TypedManifest interface {
	// ManifestKind returns the Kind this manifest binds to.
	ManifestKind() Kind

	// Meta returns the shared metadata block.
	Meta() *ManifestMetadata
}

// ResourceStatus is the server-computed status block projected into
// describe() output. It is never accepted from caller input.
type ResourceStatus struct {
	State     string `json:"state" yaml:"state"`
	Deployed  bool   `json:"deployed" yaml:"deployed"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string `json:"updatedAt" yaml:"updatedAt"`
}

// Resource states reported in status.
const (
	StateApplied  = "applied"
	StateDeployed = "deployed"
	StateStopped  = "stopped"
)
