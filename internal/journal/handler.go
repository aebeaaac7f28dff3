// Package journal serves the work item and series collections.
package journal

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/auth"
	"github.com/ayush/worklog/internal/httpx"
	"github.com/ayush/worklog/internal/models"
)

// ItemStore defines the interface for work item persistence.
type ItemStore interface {
	ListItems(ctx context.Context, userID string) ([]models.WorkItem, error)
	UpsertItem(ctx context.Context, userID string, item models.WorkItem) (*models.WorkItem, error)
	DeleteItem(ctx context.Context, userID, id string) error
}

// SeriesStore defines the interface for series persistence.
type SeriesStore interface {
	ListSeries(ctx context.Context, userID string) ([]models.Series, error)
	UpsertSeries(ctx context.Context, userID string, series models.Series) (*models.Series, error)
	DeleteSeries(ctx context.Context, userID, id string) error
}

// Handler holds item and series HTTP handlers.
type Handler struct {
	items  ItemStore
	series SeriesStore
	logger *log.Logger
	now    func() time.Time
}

func NewHandler(items ItemStore, series SeriesStore, logger *log.Logger) *Handler {
	return &Handler{items: items, series: series, logger: logger, now: time.Now}
}

// Routes mounts the collections on r. The caller applies RequireAuth.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/items", h.ListItems)
	r.Post("/items", h.UpsertItem)
	r.Delete("/items/{id}", h.DeleteItem)

	r.Get("/series", h.ListSeries)
	r.Post("/series", h.UpsertSeries)
	r.Delete("/series/{id}", h.DeleteSeries)
}

// ListItems returns all items for the current user, newest first.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	items, err := h.items.ListItems(r.Context(), userID)
	if err != nil {
		h.logger.Error("list items", "user", userID, "err", err)
		httpx.Fail(w, err)
		return
	}
	if items == nil {
		items = []models.WorkItem{}
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

// UpsertItem stores the item under its client-assigned id.
func (h *Handler) UpsertItem(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var item models.WorkItem
	if err := httpx.Decode(r, &item); err != nil {
		httpx.Fail(w, err)
		return
	}
	if err := validateItem(&item); err != nil {
		httpx.Fail(w, err)
		return
	}
	if item.Date.IsZero() {
		item.Date = h.now().UTC()
	}

	saved, err := h.items.UpsertItem(r.Context(), userID, item)
	if err != nil {
		h.logger.Error("upsert item", "user", userID, "id", item.ID, "err", err)
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

// DeleteItem removes an item. Deleting an unknown id succeeds.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.items.DeleteItem(r.Context(), userID, id); err != nil {
		h.logger.Error("delete item", "user", userID, "id", id, "err", err)
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ListSeries returns all series for the current user, newest first.
func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	series, err := h.series.ListSeries(r.Context(), userID)
	if err != nil {
		h.logger.Error("list series", "user", userID, "err", err)
		httpx.Fail(w, err)
		return
	}
	if series == nil {
		series = []models.Series{}
	}
	httpx.WriteJSON(w, http.StatusOK, series)
}

// UpsertSeries stores the series under its client-assigned id.
func (h *Handler) UpsertSeries(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var s models.Series
	if err := httpx.Decode(r, &s); err != nil {
		httpx.Fail(w, err)
		return
	}
	if err := validateSeries(&s); err != nil {
		httpx.Fail(w, err)
		return
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = h.now().UTC()
	}

	saved, err := h.series.UpsertSeries(r.Context(), userID, s)
	if err != nil {
		h.logger.Error("upsert series", "user", userID, "id", s.ID, "err", err)
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

// DeleteSeries removes a series. Items pointing at it are left alone.
func (h *Handler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.series.DeleteSeries(r.Context(), userID, id); err != nil {
		h.logger.Error("delete series", "user", userID, "id", id, "err", err)
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func validateItem(item *models.WorkItem) error {
	item.ID = strings.TrimSpace(item.ID)
	if item.ID == "" {
		return fmt.Errorf("%w: id is required", apperr.ErrInvalidInput)
	}
	if item.DurationMinutes < 0 {
		return fmt.Errorf("%w: durationMinutes must not be negative", apperr.ErrInvalidInput)
	}
	return nil
}

func validateSeries(s *models.Series) error {
	s.ID = strings.TrimSpace(s.ID)
	if s.ID == "" {
		return fmt.Errorf("%w: id is required", apperr.ErrInvalidInput)
	}
	switch s.Status {
	case "":
		s.Status = models.SeriesActive
	case models.SeriesActive, models.SeriesCompleted:
	default:
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, s.Status)
	}
	return nil
}
