// Package session keeps the logged in user between runs and guards the
// routes that only make sense without one.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/irsalhamdi/playstation-store/core/user"
	"github.com/irsalhamdi/playstation-store/storage"
)

// Key is the storage key of the persisted session.
const Key = "user"

// Session is the account information returned by login, persisted as is.
type Session struct {
	user.Information
}

// Expired reports whether the access token carries an exp claim at or before
// now. The signature is not checked; tokens that are not JWTs never expire.
func (s Session) Expired(now time.Time) bool {
	var c jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token.Access, &c); err != nil {
		return false
	}
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

type Store struct {
	storage storage.Storage
}

func NewStore(s storage.Storage) *Store {
	return &Store{storage: s}
}

func (s *Store) Save(ctx context.Context, info user.Information) error {
	b, err := json.Marshal(Session{Information: info})
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.storage.Set(ctx, Key, b); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the persisted session. ok is false when none is stored.
func (s *Store) Load(ctx context.Context) (sess Session, ok bool, err error) {
	b, err := s.storage.Get(ctx, Key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return Session{}, false, nil
	case err != nil:
		return Session{}, false, fmt.Errorf("loading session: %w", err)
	}

	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, false, fmt.Errorf("decoding session: %w", err)
	}
	return sess, true, nil
}

// Clear logs out. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Remove(ctx, Key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
