package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Storage is the durable persistence port for session snapshots.
type Storage interface {
	// Load returns the persisted snapshot. ok is false when no snapshot
	// exists; a malformed snapshot is an error.
	Load() (snap Session, ok bool, err error)

	// Save persists the snapshot, replacing any previous one.
	Save(snap Session) error

	// Clear removes the persisted snapshot. Clearing absent state is not
	// an error.
	Clear() error
}

// FileStorage persists the session snapshot as a JSON file, by default at
// ~/.flowdeck/session.json. The file is written 0600 since it carries the
// bearer token.
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage at the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultSessionPath returns the default session snapshot location under
// the user's home directory.
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".flowdeck", "session.json"), nil
}

// Path returns the snapshot file location.
func (f *FileStorage) Path() string {
	return f.path
}

// Load implements Storage.
func (f *FileStorage) Load() (Session, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}

	var snap Session
	if err := json.Unmarshal(data, &snap); err != nil {
		return Session{}, false, err
	}
	return snap, true, nil
}

// Save implements Storage.
func (f *FileStorage) Save(snap Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(f.path, data, 0o600)
}

// Clear implements Storage.
func (f *FileStorage) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStorage keeps the snapshot in process memory. It backs tests and
// environments without a writable home directory, where durable
// persistence degrades to a harmless no-op across processes.
type MemoryStorage struct {
	mu   sync.RWMutex
	snap Session
	set  bool
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load implements Storage.
func (m *MemoryStorage) Load() (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap, m.set, nil
}

// Save implements Storage.
func (m *MemoryStorage) Save(snap Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	m.set = true
	return nil
}

// Clear implements Storage.
func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = Session{}
	m.set = false
	return nil
}
