package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/worklog/internal/models"
)

func openTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := OpenLocalStore(t.Context(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 9, 0, 0, 0, time.UTC)
}

func TestLocalStore_ItemsUpsertAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := t.Context()

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, s.UpsertItem(ctx, models.WorkItem{ID: "a", Content: "old", Date: day(1)}))
	require.NoError(t, s.UpsertItem(ctx, models.WorkItem{ID: "b", Content: "newer", Date: day(5)}))
	require.NoError(t, s.UpsertItem(ctx, models.WorkItem{ID: "a", Content: "edited", Date: day(1)}))

	items, err = s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "edited", items[1].Content)

	require.NoError(t, s.DeleteItem(ctx, "a"))
	require.NoError(t, s.DeleteItem(ctx, "a"))
	require.NoError(t, s.DeleteItem(ctx, "never-existed"))

	items, err = s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestLocalStore_Series(t *testing.T) {
	s := openTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.UpsertSeries(ctx, models.Series{ID: "s1", Title: "first", CreatedAt: day(1), Status: models.SeriesActive}))
	require.NoError(t, s.UpsertSeries(ctx, models.Series{ID: "s2", Title: "second", CreatedAt: day(2), Status: models.SeriesActive}))

	done := day(3)
	require.NoError(t, s.UpsertSeries(ctx, models.Series{
		ID: "s1", Title: "first", CreatedAt: day(1), Status: models.SeriesCompleted, CompletedAt: &done,
	}))

	series, err := s.ListSeries(ctx)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "s2", series[0].ID)
	assert.Equal(t, models.SeriesCompleted, series[1].Status)
	require.NotNil(t, series[1].CompletedAt)
	assert.True(t, series[1].CompletedAt.Equal(done))

	require.NoError(t, s.DeleteSeries(ctx, "s2"))
	series, err = s.ListSeries(ctx)
	require.NoError(t, err)
	assert.Len(t, series, 1)
}

func TestLocalStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worklog.db")

	s, err := OpenLocalStore(t.Context(), path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertItem(t.Context(), models.WorkItem{ID: "a", Content: "kept", Date: day(1)}))
	require.NoError(t, s.Close())

	s, err = OpenLocalStore(t.Context(), path)
	require.NoError(t, err)
	defer s.Close()

	items, err := s.ListItems(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].Content)
}

func TestLocalStore_Clear(t *testing.T) {
	s := openTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.UpsertItem(ctx, models.WorkItem{ID: "a", Content: "note", Date: day(1)}))
	require.NoError(t, s.UpsertSeries(ctx, models.Series{ID: "s1", Title: "Go", CreatedAt: day(1)}))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	series, err := s.ListSeries(ctx)
	require.NoError(t, err)
	assert.Empty(t, series)

	require.NoError(t, s.UpsertItem(ctx, models.WorkItem{ID: "b", Content: "after", Date: day(2)}))
	items, err = s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
