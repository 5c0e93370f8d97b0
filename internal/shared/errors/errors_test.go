package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_TypeAndCode(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad input"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("already active"), ErrorTypeConflict, http.StatusConflict},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"bad request", NewBadRequestError("nope"), ErrorTypeBadRequest, http.StatusBadRequest},
		{"unavailable", NewUnavailableError("backend down"), ErrorTypeUnavailable, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError("x")))
	assert.True(t, IsNotFoundError(NewNotFoundError("x")))
	assert.True(t, IsConflictError(NewConflictError("x")))
	assert.True(t, IsUnavailableError(NewUnavailableError("x")))

	assert.False(t, IsUnavailableError(NewNotFoundError("x")))
	assert.False(t, IsNotFoundError(NewUnavailableError("x")))
	assert.False(t, IsUnavailableError(nil))
	assert.False(t, IsUnavailableError(fmt.Errorf("plain error")))
}

func TestGetAppError_Wrapped(t *testing.T) {
	inner := NewUnavailableError("backend down", "connection refused")
	wrapped := fmt.Errorf("fetch status: %w", inner)

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeUnavailable, appErr.Type)
	assert.Equal(t, "connection refused", appErr.Details)
	assert.True(t, IsUnavailableError(wrapped))

	assert.Nil(t, GetAppError(fmt.Errorf("plain error")))
}

func TestAppError_ErrorString(t *testing.T) {
	assert.Equal(t, "upstream_unavailable: backend down", NewUnavailableError("backend down").Error())
	assert.Equal(t, "validation_error: bad input (name)", NewValidationError("bad input", "name").Error())
}
