// Package apperr holds the error taxonomy shared by the server and the
// client, and its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")

	// generation errors
	ErrGenerationFailed = errors.New("generation failed")
	ErrNoContent        = errors.New("nothing to summarize")
	ErrRateLimited      = errors.New("rate limited")

	// ErrUnavailable is returned when an optional backend is not configured.
	ErrUnavailable = errors.New("service unavailable")
)

// Status maps err onto the HTTP status the API answers with.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrDuplicateUser), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoContent):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrGenerationFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus is the inverse of Status, used by the API client to turn an
// error response back into a sentinel.
func FromStatus(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadGateway:
		return ErrGenerationFailed
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return errors.New(http.StatusText(code))
	}
}

// FromResponse refines FromStatus with the message of an error body, so
// sentinels sharing a status code survive the round trip.
func FromResponse(code int, msg string) error {
	for _, err := range []error{ErrDuplicateUser, ErrInvalidCredentials, ErrNoContent} {
		if Status(err) == code && strings.Contains(msg, err.Error()) {
			return err
		}
	}
	return FromStatus(code)
}
