package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatkit-dev/sam/domain/entities"
)

func TestDetail_TaxonomyMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantType   string
		wantStatus int
	}{
		{"invalid format", &InvalidDataFormatError{Expected: "mapping", Got: "sequence"}, TypeInvalidDataFormat, http.StatusBadRequest},
		{"missing key", &MissingRequiredKeyError{Key: "spec"}, TypeMissingRequiredKey, http.StatusBadRequest},
		{"kind mismatch", &KindMismatchError{Expected: entities.KindPlugin, Got: "Chatbot"}, TypeKindMismatch, http.StatusBadRequest},
		{"validation", &ValidationError{Kind: entities.KindPlugin}, TypeValidation, http.StatusBadRequest},
		{"unsupported kind", &UnsupportedKindError{Kind: "Frobnicator"}, TypeUnsupportedKind, http.StatusBadRequest},
		{"not implemented", &NotImplementedError{Kind: entities.KindUser, Verb: "deploy"}, TypeNotImplemented, http.StatusBadRequest},
		{"not found", &NotFoundError{Kind: entities.KindChatbot, Name: "support-bot"}, TypeNotFound, http.StatusNotFound},
		{"forbidden", &ForbiddenError{Kind: entities.KindChatbot, Name: "support-bot"}, TypeForbidden, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := Detail(tt.err)
			require.NotNil(t, detail)
			assert.Equal(t, tt.wantType, detail.Type)
			assert.Equal(t, tt.wantStatus, detail.StatusCode)
			assert.NotEmpty(t, detail.Message)
		})
	}
}

func TestDetail_WrappedTaxonomyError(t *testing.T) {
	wrapped := fmt.Errorf("loading manifest: %w", &MissingRequiredKeyError{Key: "metadata"})
	detail := Detail(wrapped)
	assert.Equal(t, TypeMissingRequiredKey, detail.Type)
	assert.Equal(t, http.StatusBadRequest, detail.StatusCode)
}

func TestDetail_GenericErrorIsInternal(t *testing.T) {
	detail := Detail(fmt.Errorf("disk on fire"))
	assert.Equal(t, TypeInternal, detail.Type)
	assert.Equal(t, http.StatusInternalServerError, detail.StatusCode)
	assert.Equal(t, "disk on fire", detail.Message)
}

func TestDetail_Nil(t *testing.T) {
	assert.Nil(t, Detail(nil))
}

func TestValidationError_ListsEveryViolation(t *testing.T) {
	err := &ValidationError{
		Kind: entities.KindAccount,
		Violations: []entities.Violation{
			{Field: "spec.email", Message: "is required"},
			{Field: "spec.currency", Message: "is not a supported currency", Value: "XXX"},
		},
	}
	assert.Contains(t, err.Error(), "spec.email")
	assert.Contains(t, err.Error(), "spec.currency")
}

func TestEnvelope_ErrorShape(t *testing.T) {
	env := Envelope("sam/v1", "chatbot", &NotFoundError{Kind: entities.KindChatbot, Name: "x"})
	require.NotNil(t, env.Error)
	assert.Equal(t, "sam/v1", env.APIVersion)
	assert.Equal(t, "chatbot", env.Thing)
	assert.Equal(t, http.StatusNotFound, env.Error.StatusCode)
	assert.Empty(t, env.Data)
}
