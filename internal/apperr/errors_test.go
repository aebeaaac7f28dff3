package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrDuplicateUser, http.StatusBadRequest},
		{ErrNoContent, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrRateLimited, http.StatusTooManyRequests},
		{fmt.Errorf("%w: %w", ErrGenerationFailed, errors.New("upstream 500")), http.StatusBadGateway},
		{ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), "%v", tt.err)
	}
}

func TestFromStatus(t *testing.T) {
	for _, err := range []error{ErrUnauthorized, ErrNotFound, ErrRateLimited, ErrGenerationFailed, ErrUnavailable} {
		assert.ErrorIs(t, FromStatus(Status(err)), err)
	}
	assert.ErrorIs(t, FromStatus(http.StatusBadRequest), ErrInvalidInput)
	assert.EqualError(t, FromStatus(http.StatusInternalServerError), "Internal Server Error")
}

func TestFromResponse(t *testing.T) {
	assert.ErrorIs(t, FromResponse(http.StatusBadRequest, "user already exists"), ErrDuplicateUser)
	assert.ErrorIs(t, FromResponse(http.StatusUnauthorized, "invalid credentials"), ErrInvalidCredentials)
	assert.ErrorIs(t, FromResponse(http.StatusBadRequest, "nothing to summarize"), ErrNoContent)
	assert.ErrorIs(t, FromResponse(http.StatusBadRequest, "invalid input: id is required"), ErrInvalidInput)
	assert.ErrorIs(t, FromResponse(http.StatusUnauthorized, "unauthorized"), ErrUnauthorized)
	// a matching message under another status is not trusted
	assert.ErrorIs(t, FromResponse(http.StatusNotFound, "user already exists"), ErrNotFound)
}
