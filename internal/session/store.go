package session

import (
	"sync"

	"github.com/flowdeck/flowdeck/internal/errors"
)

// Store is the single source of truth for "who is logged in and as what
// workspace". State changes go through exactly two operations: SetAuth and
// ClearAuth. There is no partial-field update.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	current Session
}

// NewStore constructs a Store over the given storage and restores any
// previously persisted snapshot. A missing or malformed snapshot yields
// the empty unauthenticated state, never an error.
func NewStore(storage Storage) *Store {
	s := &Store{
		storage: storage,
		current: empty(),
	}

	snap, ok, err := storage.Load()
	if err == nil && ok && snap.Token != "" {
		s.current = snap
	}
	return s
}

// SetAuth replaces the whole session atomically and persists it. The token
// must be non-empty; everything else is trusted input, validated upstream
// by a successful auth response.
func (s *Store) SetAuth(token string, user User, tenant *Tenant, isMaster bool) error {
	if token == "" {
		return errors.NewSessionEmptyTokenError()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := authenticated(token, user, tenant, isMaster)
	if err := s.storage.Save(next); err != nil {
		return errors.NewSessionPersistError(storagePath(s.storage), err)
	}
	s.current = next
	return nil
}

// ClearAuth resets the session to the empty state and removes the
// persisted snapshot. It is idempotent; clearing an already-clear session
// does nothing and never errors for that reason.
func (s *Store) ClearAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = empty()
	if err := s.storage.Clear(); err != nil {
		return errors.NewSessionPersistError(storagePath(s.storage), err)
	}
	return nil
}

// Current returns the in-memory session snapshot.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsAuthenticated reports whether a non-empty token has been set and not
// since cleared.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAuthenticated && s.current.Token != ""
}

// Token reads the bearer token from durable storage. The gateway client
// calls this at send time so a snapshot written or cleared by a concurrent
// invocation is picked up per request, not captured at call construction.
func (s *Store) Token() string {
	snap, ok, err := s.storage.Load()
	if err != nil || !ok {
		return ""
	}
	return snap.Token
}

func storagePath(storage Storage) string {
	if fs, ok := storage.(*FileStorage); ok {
		return fs.Path()
	}
	return "(memory)"
}
