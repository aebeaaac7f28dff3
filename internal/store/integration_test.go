package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/models"
)

// These tests run against real services and are skipped unless
// TEST_MONGO_URI, TEST_POSTGRES_DSN or TEST_MINIO_ENDPOINT are set.

func testMongoStore(t *testing.T) *MongoStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	db := client.Database("worklog_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		db.Drop(context.Background())
		client.Disconnect(context.Background())
	})
	s := NewMongoStore(db)
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestMongoStore_UpsertListDelete(t *testing.T) {
	s := testMongoStore(t)
	ctx := context.Background()
	date := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	item := models.WorkItem{ID: "i1", Content: "notes", Category: models.CategoryLearning, Date: date, DurationMinutes: 30, SeriesID: "s1"}

	_, err := s.UpsertItem(ctx, "alice", item)
	require.NoError(t, err)
	stored, err := s.UpsertItem(ctx, "alice", item)
	require.NoError(t, err)
	assert.Equal(t, "i1", stored.ID)
	assert.Equal(t, "s1", stored.SeriesID)

	_, err = s.UpsertItem(ctx, "bob", models.WorkItem{ID: "i1", Content: "bob", Date: date})
	require.NoError(t, err)

	items, err := s.ListItems(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "notes", items[0].Content)

	require.NoError(t, s.DeleteItem(ctx, "alice", "i1"))
	require.NoError(t, s.DeleteItem(ctx, "alice", "i1"))
	items, err = s.ListItems(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMongoStore_Series(t *testing.T) {
	s := testMongoStore(t)
	ctx := context.Background()
	created := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	sr := models.Series{ID: "s1", Title: "Go", Description: "learn", Status: models.SeriesActive, CreatedAt: created}

	_, err := s.UpsertSeries(ctx, "alice", sr)
	require.NoError(t, err)
	sr.Complete(created.Add(48 * time.Hour))
	stored, err := s.UpsertSeries(ctx, "alice", sr)
	require.NoError(t, err)
	assert.Equal(t, models.SeriesCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	require.NoError(t, s.DeleteSeries(ctx, "alice", "s1"))
	series, err := s.ListSeries(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestPostgresStore_Users(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := NewPostgresStore(pool)
	require.NoError(t, s.Migrate(ctx))

	name := "user_" + uuid.NewString()[:8]
	u, err := s.CreateUser(ctx, name, "hash")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, name, "hash")
	assert.ErrorIs(t, err, apperr.ErrDuplicateUser)

	got, err := s.GetUserByUsername(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, name, byID.Username)

	_, err = s.GetUserByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMinioStore_Reports(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	endpoint := os.Getenv("TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_MINIO_ENDPOINT not set")
	}
	ctx := context.Background()
	s, err := NewMinioStore(ctx, MinioConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("TEST_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("TEST_MINIO_SECRET_KEY"),
		Bucket:    "worklog-test",
	})
	require.NoError(t, err)

	prefix := uuid.NewString() + "/"
	key := prefix + "week.md"
	require.NoError(t, s.Upload(ctx, key, []byte("# Week"), "text/markdown"))
	t.Cleanup(func() { s.Remove(context.Background(), key) })

	data, contentType, err := s.Download(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "# Week", string(data))
	assert.Equal(t, "text/markdown", contentType)

	objects, err := s.List(ctx, prefix)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, key, objects[0].Key)

	require.NoError(t, s.Remove(ctx, key))
	_, _, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
