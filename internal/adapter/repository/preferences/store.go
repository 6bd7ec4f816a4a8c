// Package preferences provides a key/value backend on top of Fyne preferences.
package preferences

import (
	"sync"

	"fyne.io/fyne/v2"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/ports"
)

// Store implements ports.KeyValueStore using Fyne preferences.
// Fyne does not distinguish a missing key from an empty string, so an empty
// value is reported as missing.
//
// Thread-safe: All operations protected by sync.RWMutex.
type Store struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewStore creates a preferences-backed store.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewStore(prefs fyne.Preferences) *Store {
	return &Store{
		prefs: prefs,
	}
}

// Get retrieves the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	if s.prefs == nil {
		return "", false, domain.NewRepositoryError("get", "preferences", "no preferences available", domain.ErrStorageUnavailable)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value := s.prefs.String(key)
	return value, value != "", nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	if s.prefs == nil {
		return domain.NewRepositoryError("set", "preferences", "no preferences available", domain.ErrStorageUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.SetString(key, value)
	return nil
}

// Remove deletes key.
func (s *Store) Remove(key string) error {
	if s.prefs == nil {
		return domain.NewRepositoryError("remove", "preferences", "no preferences available", domain.ErrStorageUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.RemoveValue(key)
	return nil
}

// Verify interface implementation
var _ ports.KeyValueStore = (*Store)(nil)
