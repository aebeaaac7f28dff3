package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/auth"
)

type fakeGate struct {
	tokens map[string]string
	err    error
}

func (g fakeGate) Authenticate(_ context.Context, token string) (*auth.Identity, error) {
	if g.err != nil {
		return nil, g.err
	}
	userID, ok := g.tokens[token]
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	return &auth.Identity{UserID: userID}, nil
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(auth.UserID(r.Context())))
	})
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(fakeGate{tokens: map[string]string{"good": "u1"}})(echoUser())

	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/items", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("good token binds user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
		req.Header.Set("Authorization", "Bearer good")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "u1", rr.Body.String())
	})
}

func TestRequireAuth_BackendFailureIs500(t *testing.T) {
	h := RequireAuth(fakeGate{err: errors.New("redis down")})(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Authorization", "Bearer any")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
