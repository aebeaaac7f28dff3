package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/models"
	"github.com/ayush/worklog/internal/stats"
)

// Cache holds the last fetched collections. Every mutation goes to the
// backend first and is followed by a full re-fetch, so the cache never
// diverges from what the backend returned.
type Cache struct {
	backend Backend

	mu     sync.RWMutex
	items  []models.WorkItem
	series []models.Series
}

func NewCache(backend Backend) *Cache {
	return &Cache{backend: backend}
}

// Refresh re-fetches both collections.
func (c *Cache) Refresh(ctx context.Context) error {
	if err := c.refreshItems(ctx); err != nil {
		return err
	}
	return c.refreshSeries(ctx)
}

// Items returns a copy of the cached items, newest first.
func (c *Cache) Items() []models.WorkItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.WorkItem, len(c.items))
	copy(out, c.items)
	return out
}

// Series returns a copy of the cached series.
func (c *Cache) Series() []models.Series {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Series, len(c.series))
	copy(out, c.series)
	return out
}

// FindSeries looks up a cached series by id.
func (c *Cache) FindSeries(id string) (models.Series, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.series {
		if s.ID == id {
			return s, true
		}
	}
	return models.Series{}, false
}

// SaveItem normalizes item, upserts it and re-fetches the items.
// Negative durations become 0 and unknown categories become Other.
func (c *Cache) SaveItem(ctx context.Context, item models.WorkItem) error {
	if item.ID == "" {
		return fmt.Errorf("%w: item id is required", apperr.ErrInvalidInput)
	}
	item.DurationMinutes = max(0, item.DurationMinutes)
	item.Category = item.Category.OrOther()

	if err := c.backend.UpsertItem(ctx, item); err != nil {
		return fmt.Errorf("save item %s: %w", item.ID, err)
	}
	return c.refreshItems(ctx)
}

// DeleteItem deletes an item and re-fetches the items.
func (c *Cache) DeleteItem(ctx context.Context, id string) error {
	if err := c.backend.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return c.refreshItems(ctx)
}

// SaveSeries upserts a series and re-fetches the series.
func (c *Cache) SaveSeries(ctx context.Context, series models.Series) error {
	if series.ID == "" {
		return fmt.Errorf("%w: series id is required", apperr.ErrInvalidInput)
	}
	if series.Status == "" {
		series.Status = models.SeriesActive
	}
	if err := c.backend.UpsertSeries(ctx, series); err != nil {
		return fmt.Errorf("save series %s: %w", series.ID, err)
	}
	return c.refreshSeries(ctx)
}

// DeleteSeries deletes a series and re-fetches the series. Items linked to
// it keep their series id.
func (c *Cache) DeleteSeries(ctx context.Context, id string) error {
	if err := c.backend.DeleteSeries(ctx, id); err != nil {
		return fmt.Errorf("delete series %s: %w", id, err)
	}
	return c.refreshSeries(ctx)
}

// CompleteSeries marks a cached series completed at now and saves it.
func (c *Cache) CompleteSeries(ctx context.Context, id string, now time.Time) (models.Series, error) {
	series, ok := c.FindSeries(id)
	if !ok {
		return models.Series{}, fmt.Errorf("series %s: %w", id, apperr.ErrNotFound)
	}
	series.Complete(now)
	if err := c.SaveSeries(ctx, series); err != nil {
		return models.Series{}, err
	}
	return series, nil
}

// Stats recomputes the dashboard statistics from the cached items.
func (c *Cache) Stats(now time.Time, loc *time.Location) stats.Stats {
	return stats.Compute(c.Items(), now, loc)
}

func (c *Cache) refreshItems(ctx context.Context) error {
	items, err := c.backend.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("fetch items: %w", err)
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

func (c *Cache) refreshSeries(ctx context.Context) error {
	series, err := c.backend.ListSeries(ctx)
	if err != nil {
		return fmt.Errorf("fetch series: %w", err)
	}
	c.mu.Lock()
	c.series = series
	c.mu.Unlock()
	return nil
}
