package entities

// AccountManifest describes a tenant account.
type AccountManifest struct {
	ManifestHeader `yaml:",inline"`
	Spec           AccountSpec `json:"spec" yaml:"spec"`
}

// AccountSpec carries tenant-level settings. The locale fields are checked
// against the canonical reference tables as a business rule, not a field
// tag, so a single invalid submission reports every bad value at once.
type AccountSpec struct {
	Company  string `json:"company" yaml:"company" validate:"required"`
	Email    string `json:"email" yaml:"email" validate:"required,email"`
	Currency string `json:"currency,omitempty" yaml:"currency,omitempty"`
	Country  string `json:"country,omitempty" yaml:"country,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Plan     string `json:"plan,omitempty" yaml:"plan,omitempty" validate:"omitempty,oneof=free starter business enterprise"`
}

// ManifestKind returns KindAccount.
func (m *AccountManifest) ManifestKind() Kind { return KindAccount }

// UserManifest describes a dashboard user within an account.
type UserManifest struct {
	ManifestHeader `yaml:",inline"`
	Spec           UserSpec `json:"spec" yaml:"spec"`
}

// UserSpec carries per-user settings.
type UserSpec struct {
	Email       string `json:"email" yaml:"email" validate:"required,email"`
	Role        string `json:"role" yaml:"role" validate:"required,oneof=owner admin editor viewer"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	Timezone    string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// ManifestKind returns KindUser.
func (m *UserManifest) ManifestKind() Kind { return KindUser }
