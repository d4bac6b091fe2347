package entities

// SQLConnectionManifest describes a named database connection plugins can
// query through.
type SQLConnectionManifest struct {
	ManifestHeader `yaml:",inline"`
	Spec           SQLConnectionSpec `json:"spec" yaml:"spec"`
}

// SQLConnectionSpec carries the driver and DSN for a SQL backend.
type SQLConnectionSpec struct {
	Engine       string `json:"engine" yaml:"engine" validate:"required,oneof=postgres mysql sqlite"`
	DSN          string `json:"dsn" yaml:"dsn" validate:"required"`
	MaxOpenConns int    `json:"maxOpenConns,omitempty" yaml:"maxOpenConns,omitempty" validate:"omitempty,min=1,max=128"`
}

// ManifestKind returns KindSQLConnection.
func (m *SQLConnectionManifest) ManifestKind() Kind { return KindSQLConnection }

// Auth schemes accepted by ApiConnection.
const (
	AuthSchemeNone   = "none"
	AuthSchemeBasic  = "basic"
	AuthSchemeBearer = "bearer"
	AuthSchemeHeader = "header"
)

// APIConnectionManifest describes a named outbound API endpoint plugins can
// call through.
type APIConnectionManifest struct {
	ManifestHeader `yaml:",inline"`
	Spec           APIConnectionSpec `json:"spec" yaml:"spec"`
}

// APIConnectionSpec carries the base URL and authentication scheme. A
// scheme other than "none" requires a credential; "none" forbids one
// (checked as a business rule).
type APIConnectionSpec struct {
	BaseURL    string `json:"baseUrl" yaml:"baseUrl" validate:"required,url"`
	AuthScheme string `json:"authScheme" yaml:"authScheme" validate:"required,oneof=none basic bearer header"`
	Credential string `json:"credential,omitempty" yaml:"credential,omitempty"`
	HeaderName string `json:"headerName,omitempty" yaml:"headerName,omitempty"`
}

// ManifestKind returns KindAPIConnection.
func (m *APIConnectionManifest) ManifestKind() Kind { return KindAPIConnection }

// APIKeyManifest describes an access key scoped to another resource.
// Deleting the target resource cascades to its keys.
type APIKeyManifest struct {
	ManifestHeader `yaml:",inline"`
	Spec           APIKeySpec `json:"spec" yaml:"spec"`
}

// APIKeySpec names the resource the key grants access to.
type APIKeySpec struct {
	TargetKind string   `json:"targetKind" yaml:"targetKind" validate:"required,oneof=Chatbot SqlConnection ApiConnection"`
	Target     string   `json:"target" yaml:"target" validate:"required"`
	Scopes     []string `json:"scopes,omitempty" yaml:"scopes,omitempty" validate:"omitempty,dive,oneof=read write deploy"`
	ExpiresAt  string   `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

// ManifestKind returns KindAPIKey.
func (m *APIKeyManifest) ManifestKind() Kind { return KindAPIKey }
