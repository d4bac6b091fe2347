package entities

// Selector directives. "searchTerms" scopes the chatbot to pages matching
// its search terms; the other directives take no terms.
const (
	DirectiveSearchTerms = "searchTerms"
	DirectiveAllPages    = "allPages"
	DirectiveNone        = "none"
)

// ChatbotManifest describes a hosted chat assistant.
type ChatbotManifest struct {
	ManifestHeader `yaml:",inline"`
	Spec           ChatbotSpec `json:"spec" yaml:"spec"`
}

// ChatbotSpec carries the assistant configuration and the names of the
// plugins it may invoke.
type ChatbotSpec struct {
	Model    string        `json:"model,omitempty" yaml:"model,omitempty"`
	Greeting string        `json:"greeting,omitempty" yaml:"greeting,omitempty"`
	Hostname string        `json:"hostname,omitempty" yaml:"hostname,omitempty" validate:"omitempty,hostname_rfc1123"`
	Selector *SelectorSpec `json:"selector,omitempty" yaml:"selector,omitempty"`
	Plugins  []string      `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

// SelectorSpec scopes which content the chatbot answers over. A
// "searchTerms" directive requires non-empty terms; any other directive
// forbids them (checked as a business rule).
type SelectorSpec struct {
	Directive   string   `json:"directive" yaml:"directive" validate:"required,oneof=searchTerms allPages none"`
	SearchTerms []string `json:"searchTerms,omitempty" yaml:"searchTerms,omitempty"`
}

// ManifestKind returns KindChatbot.
func (m *ChatbotManifest) ManifestKind() Kind { return KindChatbot }

// ChatManifest describes a retained conversation transcript.
type ChatManifest struct {
	ManifestHeader `yaml:",inline"`
	Spec           ChatSpec `json:"spec" yaml:"spec"`
}

// ChatSpec ties a transcript to its chatbot.
type ChatSpec struct {
	Chatbot       string        `json:"chatbot" yaml:"chatbot" validate:"required"`
	Visitor       string        `json:"visitor,omitempty" yaml:"visitor,omitempty"`
	RetentionDays int           `json:"retentionDays,omitempty" yaml:"retentionDays,omitempty" validate:"omitempty,min=1,max=3650"`
	Messages      []ChatMessage `json:"messages,omitempty" yaml:"messages,omitempty" validate:"dive"`
}

// ChatMessage is a single turn in a transcript.
type ChatMessage struct {
	Role    string `json:"role" yaml:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" yaml:"content" validate:"required"`
	SentAt  string `json:"sentAt,omitempty" yaml:"sentAt,omitempty"`
}

// ManifestKind returns KindChat.
func (m *ChatManifest) ManifestKind() Kind { return KindChat }
