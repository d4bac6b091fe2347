package entities

// DefaultAPIVersion is reported in envelopes when the manifest did not
// declare one (e.g. errors raised before loading).
const DefaultAPIVersion = "sam/v1"

// Envelope is the uniform response wrapper returned by every broker verb.
// Exactly one of Data/Message (success) or Error is populated.
type Envelope struct {
	Data       map[string]any `json:"data,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Error      *EnvelopeError `json:"error,omitempty"`
	APIVersion string         `json:"api_version"`
	Thing      string         `json:"thing"`
	Message    string         `json:"message,omitempty"`
}

// EnvelopeError is the error half of the envelope: a transport status
// class, a stable machine-readable type and a human-readable message.
// Raw stack traces are never carried here.
type EnvelopeError struct {
	StatusCode int    `json:"status_code"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

// OK builds a success envelope.
func OK(apiVersion, thing, message string, data map[string]any) *Envelope {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &Envelope{
		APIVersion: apiVersion,
		Thing:      thing,
		Message:    message,
		Data:       data,
	}
}

// Fail builds an error envelope.
func Fail(apiVersion, thing string, statusCode int, errType, message string) *Envelope {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &Envelope{
		APIVersion: apiVersion,
		Thing:      thing,
		Error: &EnvelopeError{
			StatusCode: statusCode,
			Type:       errType,
			Message:    message,
		},
	}
}

// WithMetadata attaches execution metadata and returns the envelope for
// chaining.
func (e *Envelope) WithMetadata(meta map[string]any) *Envelope {
	e.Metadata = meta
	return e
}

// IsSuccess reports whether the envelope carries no error.
func (e *Envelope) IsSuccess() bool {
	return e.Error == nil
}
