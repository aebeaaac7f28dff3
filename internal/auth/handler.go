package auth

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/httpx"
	"github.com/ayush/worklog/internal/models"
)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	svc    *Service
	logger *log.Logger
}

func NewHandler(svc *Service, logger *log.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register creates a new user and returns its first token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, err)
		return
	}

	issued, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if apperr.Status(err) == http.StatusInternalServerError {
			h.logger.Error("register failed", "username", req.Username, "err", err)
		}
		httpx.Fail(w, err)
		return
	}

	h.logger.Info("user registered", "user_id", issued.User.ID, "username", issued.User.Username)
	httpx.WriteJSON(w, http.StatusCreated, models.AuthResponse{Token: issued.Token, Username: issued.User.Username})
}

// Login authenticates a user and returns a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, err)
		return
	}

	issued, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if apperr.Status(err) == http.StatusInternalServerError {
			h.logger.Error("login failed", "username", req.Username, "err", err)
		}
		httpx.Fail(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, models.AuthResponse{Token: issued.Token, Username: issued.User.Username})
}

// Logout revokes the bearer token of the current request.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := h.svc.Logout(r.Context(), id); err != nil {
		h.logger.Error("logout failed", "err", err)
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		httpx.Fail(w, apperr.ErrUnauthorized)
		return
	}

	user, err := h.svc.User(r.Context(), id.UserID)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}
