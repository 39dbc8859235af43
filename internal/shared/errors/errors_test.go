package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewNotFoundError("subscription not found", "id=42")
	assert.Equal(t, "not_found: subscription not found (id=42)", err.Error())
	assert.Equal(t, http.StatusNotFound, err.Code)

	assert.Equal(t, "internal_error: boom", NewInternalError("boom").Error())
}

func TestGetAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewValidationError("bad window"))

	assert.True(t, IsValidationError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.Equal(t, http.StatusBadRequest, GetAppError(wrapped).Code)
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}
