package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/models"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, hashedPw string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Sessions is the optional revocation list and user cache. SessionStore
// implements it on Redis.
type Sessions interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	CacheUser(ctx context.Context, userID, username string, ttl time.Duration) error
	CachedUser(ctx context.Context, userID string) (string, bool, error)
}

// Identity is what the session gate binds to an authenticated request.
type Identity struct {
	UserID    string
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// Issued is the result of a successful register or login.
type Issued struct {
	Token string
	User  models.User
}

// Service is the credential store and session gate.
type Service struct {
	users    UserStore
	sessions Sessions
	secret   []byte
	ttl      time.Duration
	cacheTTL time.Duration
	cost     int
	now      func() time.Time
	logger   *log.Logger
}

// NewService creates the auth service. sessions may be nil, in which case
// logout is a no-op and every request resolves the user from the store.
func NewService(users UserStore, sessions Sessions, secret string, ttl, cacheTTL time.Duration, logger *log.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		cacheTTL: cacheTTL,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		logger:   logger,
	}
}

// Register creates a user and returns a token bound to the new id.
func (s *Service) Register(ctx context.Context, username, password string) (*Issued, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", apperr.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, string(hashed))
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login checks the password and returns a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (*Issued, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *Service) issue(user *models.User) (*Issued, error) {
	token, _, err := IssueToken(s.secret, user.ID, s.ttl, s.now())
	if err != nil {
		return nil, err
	}
	u := *user
	u.Password = ""
	return &Issued{Token: token, User: u}, nil
}

// Authenticate verifies token and resolves it to a live user.
func (s *Service) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, err
	}
	id := &Identity{
		UserID:    claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	if s.sessions != nil {
		revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", apperr.ErrUnauthorized)
		}
		name, ok, err := s.sessions.CachedUser(ctx, claims.Subject)
		if err != nil {
			s.logger.Warn("user cache lookup failed", "user_id", claims.Subject, "err", err)
		} else if ok {
			id.Username = name
			return id, nil
		}
	}

	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", apperr.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	id.Username = user.Username

	if s.sessions != nil {
		if err := s.sessions.CacheUser(ctx, user.ID, user.Username, s.cacheTTL); err != nil {
			s.logger.Warn("user cache store failed", "user_id", user.ID, "err", err)
		}
	}
	return id, nil
}

// Logout revokes the token. Revoking twice is harmless.
func (s *Service) Logout(ctx context.Context, id *Identity) error {
	if s.sessions == nil || id == nil {
		return nil
	}
	return s.sessions.Revoke(ctx, id.TokenID, id.ExpiresAt)
}

// User returns the stored user for id.
func (s *Service) User(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}
