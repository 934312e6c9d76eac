package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// Sessions live in Redis under an opaque token with a TTL matching their
// ExpiresAt, so expiry needs no sweeper: Redis evicts the key itself.
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore implements identity.SessionStore on Redis.
type SessionStore struct {
	cache *Cache
}

// NewSessionStore creates a session store backed by the given cache client.
func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{cache: cache}
}

// Save stores the session until its ExpiresAt.
func (s *SessionStore) Save(ctx context.Context, sess identity.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session for account %s already expired", sess.AccountID)
	}

	if err := s.cache.Set(ctx, sessionKey(sess.Token), sess, ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get returns the session for a token. Returns shared.ErrSessionNotFound
// when the token is unknown or the key has expired.
func (s *SessionStore) Get(ctx context.Context, token string) (identity.Session, error) {
	var sess identity.Session

	err := s.cache.Get(ctx, sessionKey(token), &sess)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return identity.Session{}, shared.ErrSessionNotFound
		}
		return identity.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	return sess, nil
}

// Delete removes the session for a token. Deleting an unknown token is not
// an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.cache.Delete(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return PrefixSession + token
}
