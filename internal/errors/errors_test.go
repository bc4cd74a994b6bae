package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"email taken", ErrEmailAlreadyExists, http.StatusConflict, "EMAIL_ALREADY_EXISTS"},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"missing recipe", ErrRecipeNotFound, http.StatusNotFound, "RECIPE_NOT_FOUND"},
		{"wrapped access denied", fmt.Errorf("%w: not the author", ErrAccessDenied), http.StatusForbidden, "ACCESS_DENIED"},
		{"missing user", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"wrapped validation", fmt.Errorf("%w: ingredients must not be empty", ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad token", ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_DoesNotLeakInternalErrors(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Error)
}

func TestMapErrorToHTTP_ValidationKeepsDetail(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("%w: directions must not be empty", ErrValidation))
	assert.Equal(t, "validation failed: directions must not be empty", httpErr.Message)
}
