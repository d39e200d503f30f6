// ABOUTME: Session context holding the bearer token used by the API client
// ABOUTME: File-backed store in the XDG config directory plus an in-memory store

package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Store holds the bearer token for authenticated calls.
// Token is read at call time so a token rotated elsewhere is honored.
type Store interface {
	Token() string
	Set(token string) error
	Clear() error
}

type fileData struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// FileStore persists the token as JSON in a single file
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the given file path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file backing the store
func (s *FileStore) Path() string {
	return s.path
}

// Token reads the token from disk. A missing or unreadable file means no session.
func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return ""
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}

	var saved fileData
	if err := json.Unmarshal(data, &saved); err != nil {
		return ""
	}
	return strings.TrimSpace(saved.Token)
}

// Set writes the token, creating the config directory if needed
func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("cannot store an empty session token")
	}
	if s.path == "" {
		return errors.New("no session file configured")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fileData{Token: token, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename so readers never see a partial file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStore keeps the token in memory only
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an in-memory store seeded with token (may be empty)
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("cannot store an empty session token")
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Authenticated reports whether the store currently holds a token
func Authenticated(s Store) bool {
	return s != nil && s.Token() != ""
}
