package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/models"
)

// MemoryStore keeps users, items and series in process memory. It backs
// the server when no database is configured and is used throughout the
// tests. Semantics match PostgresStore and MongoStore.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]models.User
	nextID int
	items  map[string]map[string]models.WorkItem
	series map[string]map[string]models.Series
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]models.User),
		items:  make(map[string]map[string]models.WorkItem),
		series: make(map[string]map[string]models.Series),
		now:    time.Now,
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, username, hashedPassword string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, apperr.ErrDuplicateUser
		}
	}
	s.nextID++
	u := models.User{
		ID:        "u" + strconv.Itoa(s.nextID),
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: s.now().UTC(),
	}
	s.users[u.ID] = u

	u.Password = ""
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	u.Password = ""
	return &u, nil
}

func (s *MemoryStore) ListItems(ctx context.Context, userID string) ([]models.WorkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.WorkItem, 0, len(s.items[userID]))
	for _, it := range s.items[userID] {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Date.Equal(items[j].Date) {
			return items[i].ID < items[j].ID
		}
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

func (s *MemoryStore) UpsertItem(ctx context.Context, userID string, item models.WorkItem) (*models.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.items[userID]
	if !ok {
		owned = make(map[string]models.WorkItem)
		s.items[userID] = owned
	}
	now := s.now().UTC()
	item.UserID = userID
	item.CreatedAt = now
	if existing, ok := owned[item.ID]; ok {
		item.CreatedAt = existing.CreatedAt
	}
	item.UpdatedAt = now
	owned[item.ID] = item
	return &item, nil
}

func (s *MemoryStore) DeleteItem(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items[userID], id)
	return nil
}

func (s *MemoryStore) ListSeries(ctx context.Context, userID string) ([]models.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := make([]models.Series, 0, len(s.series[userID]))
	for _, sr := range s.series[userID] {
		series = append(series, sr)
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].CreatedAt.Equal(series[j].CreatedAt) {
			return series[i].ID < series[j].ID
		}
		return series[i].CreatedAt.After(series[j].CreatedAt)
	})
	return series, nil
}

func (s *MemoryStore) UpsertSeries(ctx context.Context, userID string, series models.Series) (*models.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.series[userID]
	if !ok {
		owned = make(map[string]models.Series)
		s.series[userID] = owned
	}
	series.UserID = userID
	series.UpdatedAt = s.now().UTC()
	if series.CompletedAt != nil {
		done := *series.CompletedAt
		series.CompletedAt = &done
	}
	owned[series.ID] = series
	return &series, nil
}

func (s *MemoryStore) DeleteSeries(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.series[userID], id)
	return nil
}
