package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedPrefix = "revoked:"
	userPrefix    = "user:"
)

// SessionStore wraps Redis for token revocation and the user lookup cache
// consulted by the session gate.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Revoke marks the token id as revoked until the token would have expired.
func (s *SessionStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether the token id has been revoked.
func (s *SessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CacheUser remembers that userID resolves to username for ttl.
func (s *SessionStore) CacheUser(ctx context.Context, userID, username string, ttl time.Duration) error {
	return s.rdb.Set(ctx, userPrefix+userID, username, ttl).Err()
}

// CachedUser returns the cached username for userID, or ok=false on a miss.
func (s *SessionStore) CachedUser(ctx context.Context, userID string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, userPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
