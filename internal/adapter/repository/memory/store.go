// Package memory provides an in-memory key/value backend.
// It backs the mock-audio mode and tests, and can simulate an unavailable store.
package memory

import (
	"sync"

	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/ports"
)

// Store implements ports.KeyValueStore with a map.
//
// Thread-safe: All operations protected by sync.RWMutex.
type Store struct {
	values map[string]string
	writes int

	// Behavior configuration (for testing error scenarios)
	failReads  bool
	failWrites bool

	mu sync.RWMutex
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

// SetFailReads configures the store to fail every Get (for testing).
func (s *Store) SetFailReads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = fail
}

// SetFailWrites configures the store to fail every Set and Remove (for testing).
func (s *Store) SetFailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// Get retrieves the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failReads {
		return "", false, domain.NewRepositoryError("get", "memory", "simulated read failure", domain.ErrStorageUnavailable)
	}

	value, ok := s.values[key]
	return value, ok, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return domain.NewRepositoryError("set", "memory", "simulated quota exceeded", domain.ErrStorageUnavailable)
	}

	s.values[key] = value
	s.writes++
	return nil
}

// Remove deletes key.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return domain.NewRepositoryError("remove", "memory", "simulated write failure", domain.ErrStorageUnavailable)
	}

	delete(s.values, key)
	return nil
}

// Writes returns how many successful Set calls happened (for testing).
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Raw returns the stored value without decoding (for testing).
func (s *Store) Raw(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Verify interface implementation
var _ ports.KeyValueStore = (*Store)(nil)
