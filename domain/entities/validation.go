package entities

import (
	"fmt"
	"strings"
)

// Violation is one invalid field from a manifest submission. When the
// field is constrained to a closed value set, Accepted carries it so the
// caller sees both the bad value and the alternatives.
type Violation struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Value    string   `json:"value,omitempty"`
	Accepted []string `json:"accepted,omitempty"`
}

func (v Violation) String() string {
	msg := fmt.Sprintf("%s: %s", v.Field, v.Message)
	if len(v.Accepted) > 0 {
		msg = fmt.Sprintf("%s (accepted: %s)", msg, strings.Join(v.Accepted, ", "))
	}
	return msg
}

// ValidationResult aggregates every violation found in a single
// submission, so one round-trip surfaces all problems at once.
type ValidationResult struct {
	Violations []Violation
}

// Valid reports whether no violations were recorded.
func (r *ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// Add records a violation.
func (r *ValidationResult) Add(v Violation) {
	r.Violations = append(r.Violations, v)
}

// Addf records a violation with a formatted message.
func (r *ValidationResult) Addf(field, format string, args ...any) {
	r.Add(Violation{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Merge appends another result's violations.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}
