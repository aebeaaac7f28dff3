package journal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/worklog/internal/auth"
	"github.com/ayush/worklog/internal/logging"
	"github.com/ayush/worklog/internal/models"
	"github.com/ayush/worklog/internal/store"
)

// asUser stands in for RequireAuth.
func asUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithIdentity(r.Context(), &auth.Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(t *testing.T, mem *store.MemoryStore, userID string) http.Handler {
	t.Helper()
	h := NewHandler(mem, mem, logging.Discard())
	h.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Use(asUser(userID))
	h.Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestItems_UpsertListDelete(t *testing.T) {
	mem := store.NewMemoryStore()
	h := newRouter(t, mem, "u1")

	rr := do(t, h, http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, h, http.MethodPost, "/items",
		`{"id":"a","content":"wrote tests","category":"Work","date":"2025-03-09T10:00:00Z","durationMinutes":40}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var saved models.WorkItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.Equal(t, "a", saved.ID)
	assert.Equal(t, 40, saved.DurationMinutes)

	rr = do(t, h, http.MethodPost, "/items",
		`{"id":"a","content":"wrote more tests","category":"Work","date":"2025-03-09T10:00:00Z","durationMinutes":50}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/items", "")
	var items []models.WorkItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "wrote more tests", items[0].Content)
	assert.Equal(t, 50, items[0].DurationMinutes)

	rr = do(t, h, http.MethodDelete, "/items/a", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"deleted"}`, rr.Body.String())

	rr = do(t, h, http.MethodDelete, "/items/a", "")
	assert.Equal(t, http.StatusOK, rr.Code, "deleting a missing item still succeeds")
}

func TestItems_Validation(t *testing.T) {
	h := newRouter(t, store.NewMemoryStore(), "u1")

	cases := map[string]string{
		"missing id":        `{"content":"x","category":"Note"}`,
		"blank id":          `{"id":"  ","content":"x"}`,
		"negative duration": `{"id":"a","content":"x","durationMinutes":-5}`,
		"malformed json":    `{"id":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/items", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "error")
		})
	}
}

func TestItems_DefaultsDate(t *testing.T) {
	h := newRouter(t, store.NewMemoryStore(), "u1")

	rr := do(t, h, http.MethodPost, "/items", `{"id":"a","content":"x","category":"Idea"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var saved models.WorkItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.True(t, saved.Date.Equal(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)))
}

func TestItems_OwnershipIsolation(t *testing.T) {
	mem := store.NewMemoryStore()
	alice := newRouter(t, mem, "alice")
	bob := newRouter(t, mem, "bob")

	require.Equal(t, http.StatusOK, do(t, alice, http.MethodPost, "/items", `{"id":"same","content":"alice's"}`).Code)
	require.Equal(t, http.StatusOK, do(t, bob, http.MethodPost, "/items", `{"id":"same","content":"bob's"}`).Code)

	require.Equal(t, http.StatusOK, do(t, bob, http.MethodDelete, "/items/same", "").Code)

	var items []models.WorkItem
	require.NoError(t, json.Unmarshal(do(t, alice, http.MethodGet, "/items", "").Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "alice's", items[0].Content)

	require.NoError(t, json.Unmarshal(do(t, bob, http.MethodGet, "/items", "").Body.Bytes(), &items))
	assert.Empty(t, items)
}

func TestSeries_Lifecycle(t *testing.T) {
	mem := store.NewMemoryStore()
	h := newRouter(t, mem, "u1")

	rr := do(t, h, http.MethodPost, "/series", `{"id":"s1","title":"Go","description":"learn go"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var s models.Series
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	assert.Equal(t, models.SeriesActive, s.Status)
	assert.False(t, s.CreatedAt.IsZero())

	rr = do(t, h, http.MethodPost, "/series",
		`{"id":"s1","title":"Go","status":"completed","createdAt":"2025-03-01T00:00:00Z","completedAt":"2025-03-10T00:00:00Z"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodPost, "/series", `{"id":"s1","title":"Go","status":"active","createdAt":"2025-03-01T00:00:00Z"}`)
	assert.Equal(t, http.StatusOK, rr.Code, "reopening a completed series is allowed")

	rr = do(t, h, http.MethodPost, "/series", `{"id":"s1","status":"paused"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/series", `{"title":"no id"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/items", `{"id":"i1","content":"x","seriesId":"s1"}`).Code)
	rr = do(t, h, http.MethodDelete, "/series/s1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"deleted"}`, rr.Body.String())

	var series []models.Series
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/series", "").Body.Bytes(), &series))
	assert.Empty(t, series)

	var items []models.WorkItem
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/items", "").Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "s1", items[0].SeriesID, "items keep their dangling series id")
}
