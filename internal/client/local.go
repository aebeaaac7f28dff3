package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ayush/worklog/internal/models"
)

// Keys of the local key/value table.
const (
	ItemsKey  = "worklog_items"
	SeriesKey = "worklog_series"
)

// LocalStore is the offline Backend: a single implicit user whose items and
// series live as JSON arrays in a SQLite key/value table.
type LocalStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenLocalStore opens or creates the database at path. The path can be
// ":memory:" for a throwaway store.
func OpenLocalStore(ctx context.Context, path string) (*LocalStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection so ":memory:" is shared and writes serialize
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &LocalStore{db: db}, nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}

func (s *LocalStore) ListItems(ctx context.Context) ([]models.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.WorkItem
	if err := s.get(ctx, ItemsKey, &items); err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return items, nil
}

func (s *LocalStore) UpsertItem(ctx context.Context, item models.WorkItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.WorkItem
	if err := s.get(ctx, ItemsKey, &items); err != nil {
		return err
	}
	replaced := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	return s.put(ctx, ItemsKey, items)
}

func (s *LocalStore) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.WorkItem
	if err := s.get(ctx, ItemsKey, &items); err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return s.put(ctx, ItemsKey, kept)
}

func (s *LocalStore) ListSeries(ctx context.Context) ([]models.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var series []models.Series
	if err := s.get(ctx, SeriesKey, &series); err != nil {
		return nil, err
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].CreatedAt.After(series[j].CreatedAt) })
	return series, nil
}

func (s *LocalStore) UpsertSeries(ctx context.Context, series models.Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.Series
	if err := s.get(ctx, SeriesKey, &all); err != nil {
		return err
	}
	replaced := false
	for i := range all {
		if all[i].ID == series.ID {
			all[i] = series
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, series)
	}
	return s.put(ctx, SeriesKey, all)
}

func (s *LocalStore) DeleteSeries(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.Series
	if err := s.get(ctx, SeriesKey, &all); err != nil {
		return err
	}
	kept := all[:0]
	for _, sr := range all {
		if sr.ID != id {
			kept = append(kept, sr)
		}
	}
	return s.put(ctx, SeriesKey, kept)
}

// Clear deletes every local item and series.
func (s *LocalStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, ItemsKey, SeriesKey); err != nil {
		return fmt.Errorf("clear local data: %w", err)
	}
	return nil
}

// get decodes the JSON stored under key into v. A missing key leaves v untouched.
func (s *LocalStore) get(ctx context.Context, key string, v any) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(data))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
