package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/auth"
	"github.com/ayush/worklog/internal/client"
	"github.com/ayush/worklog/internal/journal"
	"github.com/ayush/worklog/internal/logging"
	"github.com/ayush/worklog/internal/middleware"
	"github.com/ayush/worklog/internal/models"
	"github.com/ayush/worklog/internal/store"
	"github.com/ayush/worklog/internal/summary"
)

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	return model + ": " + prompt, nil
}

func newTestServer(t *testing.T, generateRPM int) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	mem := store.NewMemoryStore()
	logger := logging.Discard()
	authSvc := auth.NewService(mem, auth.NewSessionStore(rdb), "test-secret", time.Hour, time.Minute, logger)

	srv := httptest.NewServer(newRouter(routes{
		authSvc:        authSvc,
		authHandler:    auth.NewHandler(authSvc, logger),
		journalHandler: journal.NewHandler(mem, mem, logger),
		summaryHandler: summary.NewHandler(echoGenerator{}, nil, "", logger),
		limiter:        middleware.NewUserRateLimiter(generateRPM),
		allowedOrigins: []string{"*"},
		logger:         logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 0)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEndToEnd(t *testing.T) {
	srv := newTestServer(t, 0)
	ctx := t.Context()

	sess, err := client.Register(ctx, nil, srv.URL, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Username)
	require.True(t, sess.Valid())

	_, err = client.Register(ctx, nil, srv.URL, "alice", "other")
	assert.ErrorIs(t, err, apperr.ErrDuplicateUser)

	_, err = client.Login(ctx, nil, srv.URL, "alice", "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = client.Login(ctx, nil, srv.URL, "nobody", "hunter2")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	remote := client.NewRemote(sess, nil)
	me, err := remote.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	cache := client.NewCache(remote)
	require.NoError(t, cache.Refresh(ctx))
	assert.Empty(t, cache.Items())

	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	require.NoError(t, cache.SaveSeries(ctx, models.Series{ID: "s1", Title: "Go", CreatedAt: now}))
	require.NoError(t, cache.SaveItem(ctx, models.WorkItem{
		ID: "i1", Content: "channels", Category: "learning", Date: now, DurationMinutes: 40, SeriesID: "s1",
	}))
	require.NoError(t, cache.SaveItem(ctx, models.WorkItem{
		ID: "i2", Content: "walk", Category: models.CategoryLife, Date: now.Add(time.Hour), DurationMinutes: -3,
	}))

	items := cache.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "i2", items[0].ID)
	assert.Equal(t, 0, items[0].DurationMinutes)
	assert.Equal(t, models.CategoryLearning, items[1].Category)

	done, err := cache.CompleteSeries(ctx, "s1", now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.SeriesCompleted, done.Status)
	require.Len(t, cache.Series(), 1)
	assert.Equal(t, models.SeriesCompleted, cache.Series()[0].Status)

	st := cache.Stats(now, time.UTC)
	assert.Equal(t, 40, st.TotalMinutes)

	text, err := remote.Generate(ctx, "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash: hello", text)

	_, err = remote.ListReports(ctx)
	assert.ErrorIs(t, err, apperr.ErrUnavailable)

	require.NoError(t, cache.DeleteSeries(ctx, "s1"))
	require.NoError(t, cache.DeleteItem(ctx, "i2"))
	require.NoError(t, cache.DeleteItem(ctx, "i2"))
	assert.Empty(t, cache.Series())
	require.Len(t, cache.Items(), 1)
	assert.Equal(t, "s1", cache.Items()[0].SeriesID)

	require.NoError(t, remote.Logout(ctx))
	_, err = remote.ListItems(ctx)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized, "revoked token fails the gate")
}

func TestUnauthenticated(t *testing.T) {
	srv := newTestServer(t, 0)
	remote := client.NewRemote(client.Session{Server: srv.URL}, nil)

	_, err := remote.ListItems(t.Context())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	remote = client.NewRemote(client.Session{Server: srv.URL, Token: "garbage"}, nil)
	_, err = remote.ListSeries(t.Context())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestGenerateRateLimited(t *testing.T) {
	srv := newTestServer(t, 1)
	ctx := t.Context()

	sess, err := client.Register(ctx, nil, srv.URL, "bob", "pw")
	require.NoError(t, err)
	remote := client.NewRemote(sess, nil)

	_, err = remote.Generate(ctx, "m", "one")
	require.NoError(t, err)
	_, err = remote.Generate(ctx, "m", "two")
	assert.ErrorIs(t, err, apperr.ErrRateLimited)
}
