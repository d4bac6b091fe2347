// Package errors provides the broker's error taxonomy. Every category is a
// concrete type carrying a stable machine-readable type string and a
// transport status class; converting any error to an envelope goes through
// Detail so a raw stack trace is never surfaced to callers.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/chatkit-dev/sam/domain/entities"
)

// Stable machine-readable error types.
const (
	TypeInvalidDataFormat  = "InvalidDataFormat"
	TypeMissingRequiredKey = "MissingRequiredKey"
	TypeKindMismatch       = "KindMismatch"
	TypeValidation         = "ValidationError"
	TypeUnsupportedKind    = "UnsupportedKind"
	TypeNotImplemented     = "BrokerNotImplemented"
	TypeNotFound           = "NotFound"
	TypeForbidden          = "Forbidden"
	TypeInternal           = "InternalError"
)

// Detailed is implemented by every taxonomy error; it converts the error
// into the envelope's structured form. New categories only need to
// implement this interface.
type Detailed interface {
	error
	Detail() *entities.EnvelopeError
}

// InvalidDataFormatError reports a manifest whose top level is not a
// mapping, or text in neither YAML nor JSON.
type InvalidDataFormatError struct {
	Expected string
	Got      string
}

func (e *InvalidDataFormatError) Error() string {
	return fmt.Sprintf("invalid manifest format: expected %s, got %s", e.Expected, e.Got)
}

// Detail implements Detailed.
func (e *InvalidDataFormatError) Detail() *entities.EnvelopeError {
	return &entities.EnvelopeError{StatusCode: http.StatusBadRequest, Type: TypeInvalidDataFormat, Message: e.Error()}
}

// MissingRequiredKeyError reports an absent top-level manifest key.
type MissingRequiredKeyError struct {
	Key string
}

func (e *MissingRequiredKeyError) Error() string {
	return fmt.Sprintf("manifest is missing required key %q", e.Key)
}

// Detail implements Detailed.
func (e *MissingRequiredKeyError) Detail() *entities.EnvelopeError {
	return &entities.EnvelopeError{StatusCode: http.StatusBadRequest, Type: TypeMissingRequiredKey, Message: e.Error()}
}

// KindMismatchError reports a document whose kind disagrees with the kind
// the caller addressed.
type KindMismatchError struct {
	Expected entities.Kind
	Got      string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("manifest kind %q does not match expected kind %q", e.Got, e.Expected)
}

// Detail implements Detailed.
func (e *KindMismatchError) Detail() *entities.EnvelopeError {
	return &entities.EnvelopeError{StatusCode: http.StatusBadRequest, Type: TypeKindMismatch, Message: e.Error()}
}

// ValidationError aggregates every schema or business-rule violation found
// in one submission.
type ValidationError struct {
	Kind       entities.Kind
	Violations []entities.Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("%s manifest failed validation: %s", e.Kind, strings.Join(msgs, "; "))
}

// Detail implements Detailed.
func (e *ValidationError) Detail() *entities.EnvelopeError {
	return &entities.EnvelopeError{StatusCode: http.StatusBadRequest, Type: TypeValidation, Message: e.Error()}
}

// UnsupportedKindError reports a kind outside the canonical set. Raised
// before any persistence access.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported resource kind %q", e.Kind)
}

// Detail implements Detailed.
func (e *UnsupportedKindError) Detail() *entities.EnvelopeError {
	return &entities.EnvelopeError{StatusCode: http.StatusBadRequest, Type: TypeUnsupportedKind, Message: e.Error()}
}

// NotImplementedError reports a verb a kind's broker does not support.
type NotImplementedError struct {
	Kind entities.Kind
	Verb string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s broker does not implement %s", e.Kind, e.Verb)
}

// Detail implements Detailed.
func (e *NotImplementedError) Detail() *entities.EnvelopeError {
	return &entities.EnvelopeError{StatusCode: http.StatusBadRequest, Type: TypeNotImplemented, Message: e.Error()}
}

// NotFoundError reports a named resource absent from the caller's account.
type NotFoundError struct {
	Kind entities.Kind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Detail implements Detailed.
func (e *NotFoundError) Detail() *entities.EnvelopeError {
	return &entities.EnvelopeError{StatusCode: http.StatusNotFound, Type: TypeNotFound, Message: e.Error()}
}

// ForbiddenError reports cross-account access to a named resource. The
// broker returns this uniformly, never NotFound, so probing cannot
// distinguish "absent" from "owned by someone else".
type ForbiddenError struct {
	Kind entities.Kind
	Name string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("access to %s %q is forbidden", e.Kind, e.Name)
}

// Detail implements Detailed.
func (e *ForbiddenError) Detail() *entities.EnvelopeError {
	return &entities.EnvelopeError{StatusCode: http.StatusForbidden, Type: TypeForbidden, Message: e.Error()}
}

// Detail converts any error into the envelope's structured form. Taxonomy
// errors map to their own status and type; everything else becomes an
// InternalError with the message preserved and no stack attached.
func Detail(err error) *entities.EnvelopeError {
	if err == nil {
		return nil
	}
	var d Detailed
	if stdErrors.As(err, &d) {
		return d.Detail()
	}
	return &entities.EnvelopeError{
		StatusCode: http.StatusInternalServerError,
		Type:       TypeInternal,
		Message:    err.Error(),
	}
}

// StatusCode returns the transport status class for err.
func StatusCode(err error) int {
	return Detail(err).StatusCode
}

// Envelope wraps err into an error envelope for the given resource noun.
func Envelope(apiVersion, thing string, err error) *entities.Envelope {
	d := Detail(err)
	return entities.Fail(apiVersion, thing, d.StatusCode, d.Type, d.Message)
}
