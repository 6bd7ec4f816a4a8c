// Package storage provides best-effort JSON persistence on top of a key/value backend.
//
// Persistence is never fatal: read failures (missing backend, corrupt JSON)
// yield the caller's fallback, write failures (quota, unavailable backend) are
// logged and dropped.
package storage

import (
	"encoding/json"
	"log/slog"

	"github.com/tejashwikalptaru/yorum/internal/ports"
)

// Persisted keys. The names and value shapes are shared with existing player
// installations and must not change.
const (
	// KeyVolume holds the volume as a bare number.
	KeyVolume = "music-player:volume"

	// KeyPositions holds a map of track id to resume offset in seconds.
	KeyPositions = "music-player:positions"

	// KeyLastSong holds a LastSong object.
	KeyLastSong = "music-player:last-song"

	// KeyFavorites holds the favorited track ids, most recent first.
	KeyFavorites = "music-player:favorites"
)

// LastSong is the persisted shape of the last selected track.
type LastSong struct {
	SongID string `json:"songId"`
}

// Store is the storage adapter shared by the controller and the favorites service.
// A nil backend behaves like unavailable storage.
type Store struct {
	logger  *slog.Logger
	backend ports.KeyValueStore
}

// NewStore creates a storage adapter over backend.
func NewStore(logger *slog.Logger, backend ports.KeyValueStore) *Store {
	return &Store{
		logger:  logger,
		backend: backend,
	}
}

// Load decodes the JSON value stored under key, or returns fallback when the
// key is missing, the backend fails, or the stored JSON does not decode into T.
func Load[T any](s *Store, key string, fallback T) T {
	if s == nil || s.backend == nil {
		return fallback
	}

	raw, ok, err := s.backend.Get(key)
	if err != nil {
		s.logger.Warn("failed to read from storage", slog.String("key", key), slog.Any("error", err))
		return fallback
	}
	if !ok || raw == "" {
		return fallback
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.logger.Warn("failed to decode stored value", slog.String("key", key), slog.Any("error", err))
		return fallback
	}
	return value
}

// Save encodes value as JSON and writes it under key.
// Failures are logged and swallowed.
func (s *Store) Save(key string, value any) {
	if s == nil || s.backend == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode value for storage", slog.String("key", key), slog.Any("error", err))
		return
	}

	if err := s.backend.Set(key, string(data)); err != nil {
		s.logger.Warn("failed to write to storage", slog.String("key", key), slog.Any("error", err))
	}
}

// Remove deletes key. Failures are logged and swallowed.
func (s *Store) Remove(key string) {
	if s == nil || s.backend == nil {
		return
	}

	if err := s.backend.Remove(key); err != nil {
		s.logger.Warn("failed to remove from storage", slog.String("key", key), slog.Any("error", err))
	}
}
