// Package client is the command-line side of worklog: an HTTP client for
// the backend, a local SQLite fallback, and the sync cache in front of both.
package client

import (
	"context"

	"github.com/ayush/worklog/internal/models"
)

// Backend is the collection API the cache syncs against.
type Backend interface {
	ListItems(ctx context.Context) ([]models.WorkItem, error)
	UpsertItem(ctx context.Context, item models.WorkItem) error
	DeleteItem(ctx context.Context, id string) error

	ListSeries(ctx context.Context) ([]models.Series, error)
	UpsertSeries(ctx context.Context, series models.Series) error
	DeleteSeries(ctx context.Context, id string) error
}
