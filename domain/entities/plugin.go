package entities

// Plugin classes. The set is closed; the controller's factory table maps
// each class to exactly one runtime strategy.
const (
	PluginClassStatic = "static"
	PluginClassSQL    = "sql"
	PluginClassAPI    = "api"
)

// PluginManifest describes a data plugin a chatbot can call at runtime.
type PluginManifest struct {
	ManifestHeader `yaml:",inline"`
	Spec           PluginSpec `json:"spec" yaml:"spec"`
}

// PluginSpec selects a plugin class and carries the class-specific data
// block. Exactly the block matching PluginClass must be present; the
// mutual-exclusion check is a business rule so all violations from one
// submission are reported together.
type PluginSpec struct {
	PluginClass string           `json:"pluginClass" yaml:"pluginClass" validate:"required,oneof=static sql api"`
	Summary     string           `json:"summary,omitempty" yaml:"summary,omitempty"`
	Parameters  []PluginParam    `json:"parameters,omitempty" yaml:"parameters,omitempty" validate:"dive"`
	StaticData  *StaticDataSpec  `json:"staticData,omitempty" yaml:"staticData,omitempty"`
	SQLData     *SQLDataSpec     `json:"sqlData,omitempty" yaml:"sqlData,omitempty"`
	APIData     *APIDataSpec     `json:"apiData,omitempty" yaml:"apiData,omitempty"`
}

// PluginParam declares a runtime parameter the plugin accepts.
type PluginParam struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Type        string `json:"type" yaml:"type" validate:"required,oneof=string number boolean"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// StaticDataSpec backs a plugin with inline rows.
type StaticDataSpec struct {
	Items []map[string]any `json:"items" yaml:"items" validate:"required,min=1"`
}

// SQLDataSpec backs a plugin with a query over a named SqlConnection.
type SQLDataSpec struct {
	Connection string `json:"connection" yaml:"connection" validate:"required"`
	Query      string `json:"query" yaml:"query" validate:"required"`
}

// APIDataSpec backs a plugin with an outbound HTTP call.
type APIDataSpec struct {
	Endpoint string            `json:"endpoint" yaml:"endpoint" validate:"required,url"`
	Method   string            `json:"method,omitempty" yaml:"method,omitempty" validate:"omitempty,oneof=GET POST"`
	Headers  map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Query    map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
}

// ManifestKind returns KindPlugin.
func (m *PluginManifest) ManifestKind() Kind { return KindPlugin }

// DataSpecFor returns the class-specific block matching the declared
// plugin class, or nil when it is absent.
func (s *PluginSpec) DataSpecFor(class string) any {
	switch class {
	case PluginClassStatic:
		if s.StaticData != nil {
			return s.StaticData
		}
	case PluginClassSQL:
		if s.SQLData != nil {
			return s.SQLData
		}
	case PluginClassAPI:
		if s.APIData != nil {
			return s.APIData
		}
	}
	return nil
}
