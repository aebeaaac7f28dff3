package summary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/auth"
	"github.com/ayush/worklog/internal/httpx"
	"github.com/ayush/worklog/internal/models"
)

// FileStore defines the interface for the report archive.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	List(ctx context.Context, prefix string) ([]models.ReportObject, error)
	Remove(ctx context.Context, key string) error
}

const markdownType = "text/markdown; charset=utf-8"

var unsafeName = regexp.MustCompile(`[^a-z0-9_-]+`)

// Handler holds the generation proxy and report archive HTTP handlers.
type Handler struct {
	gen          Generator
	files        FileStore
	defaultModel string
	logger       *log.Logger
}

// NewHandler builds the handler. files may be nil, in which case the
// archive endpoints answer 503.
func NewHandler(gen Generator, files FileStore, defaultModel string, logger *log.Logger) *Handler {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	return &Handler{gen: gen, files: files, defaultModel: defaultModel, logger: logger}
}

// Generate proxies a prompt to the language model.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if req.Model == "" {
		req.Model = h.defaultModel
	}

	text, err := h.gen.Generate(r.Context(), req.Model, req.Prompt)
	if err != nil {
		h.logger.Error("generate", "model", req.Model, "user", auth.UserID(r.Context()), "err", err)
		if !errors.Is(err, apperr.ErrUnavailable) && !errors.Is(err, apperr.ErrRateLimited) {
			err = fmt.Errorf("%w: %w", apperr.ErrGenerationFailed, err)
		}
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, models.GenerateResponse{Text: text})
}

// ReportRoutes mounts the archive under r.
func (h *Handler) ReportRoutes(r chi.Router) {
	r.Post("/", h.Archive)
	r.Get("/", h.ListReports)
	r.Get("/{name}", h.DownloadReport)
	r.Delete("/{name}", h.DeleteReport)
}

// Archive stores a generated Markdown report for the current user.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		httpx.Fail(w, apperr.ErrUnavailable)
		return
	}
	userID := auth.UserID(r.Context())

	var req models.ArchiveRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, err)
		return
	}
	name := reportName(req.Name)
	if name == "" || strings.TrimSpace(req.Text) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "name and text are required")
		return
	}

	key := reportKey(userID, name)
	if err := h.files.Upload(r.Context(), key, []byte(req.Text), markdownType); err != nil {
		h.logger.Error("archive upload", "user", userID, "key", key, "err", err)
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"key": key, "name": name})
}

// ListReports returns the archived reports of the current user.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		httpx.Fail(w, apperr.ErrUnavailable)
		return
	}
	userID := auth.UserID(r.Context())

	prefix := userID + "/"
	objects, err := h.files.List(r.Context(), prefix)
	if err != nil {
		h.logger.Error("archive list", "user", userID, "err", err)
		httpx.Fail(w, err)
		return
	}
	for i := range objects {
		objects[i].Name = strings.TrimSuffix(strings.TrimPrefix(objects[i].Key, prefix), ".md")
	}
	if objects == nil {
		objects = []models.ReportObject{}
	}
	httpx.WriteJSON(w, http.StatusOK, objects)
}

// DownloadReport streams one archived report as Markdown.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		httpx.Fail(w, apperr.ErrUnavailable)
		return
	}
	userID := auth.UserID(r.Context())
	name := reportName(chi.URLParam(r, "name"))
	if name == "" {
		httpx.Fail(w, apperr.ErrNotFound)
		return
	}

	data, _, err := h.files.Download(r.Context(), reportKey(userID, name))
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			h.logger.Error("archive download", "user", userID, "name", name, "err", err)
		}
		httpx.Fail(w, err)
		return
	}
	w.Header().Set("Content-Type", markdownType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.md", name))
	w.Write(data)
}

// DeleteReport removes an archived report. Deleting a missing one succeeds.
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		httpx.Fail(w, apperr.ErrUnavailable)
		return
	}
	userID := auth.UserID(r.Context())
	name := reportName(chi.URLParam(r, "name"))
	if name != "" {
		if err := h.files.Remove(r.Context(), reportKey(userID, name)); err != nil {
			h.logger.Error("archive remove", "user", userID, "name", name, "err", err)
			httpx.Fail(w, err)
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// reportName reduces a user-supplied name to a safe object name.
func reportName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.TrimSuffix(name, ".md")
	name = unsafeName.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if len(name) > 80 {
		name = strings.TrimRight(name[:80], "-")
	}
	return name
}

func reportKey(userID, name string) string {
	return userID + "/" + name + ".md"
}
