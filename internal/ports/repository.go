// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"github.com/tejashwikalptaru/yorum/internal/domain"
)

// KeyValueStore is the raw persistent key/value backend.
// Values are opaque strings; JSON encoding is done by the storage adapter.
//
// Thread-safety: Implementations must be thread-safe.
type KeyValueStore interface {
	// Get retrieves the value stored under key.
	// A missing key returns ("", false, nil).
	//
	// Returns an error if the backend cannot be read.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	//
	// Returns an error if writing fails (quota, unavailable backend).
	Set(key, value string) error

	// Remove deletes key. Removing a missing key is a no-op.
	//
	// Returns an error if deletion fails.
	Remove(key string) error
}

// CatalogSource produces the ordered list of playable tracks.
// It never fails: I/O problems yield a deterministic fallback list.
type CatalogSource interface {
	Tracks() []domain.Track
}
