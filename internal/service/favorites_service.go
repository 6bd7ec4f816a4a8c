// Package service provides business logic for the Yorum player.
package service

import (
	"log/slog"
	"sync"

	"github.com/samber/lo"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/ports"
	"github.com/tejashwikalptaru/yorum/internal/storage"
)

// TrackLookup resolves track ids against the current catalog.
// Unknown ids yield an error matching domain.ErrTrackNotFound.
type TrackLookup interface {
	Track(id string) (domain.Track, error)
}

// FavoritesService manages the persisted set of favorite track ids.
// The list is ordered most recently favorited first. Ids are weak references:
// a favorite may outlive its track when the catalog changes.
//
// Every call reads through to storage, so several services over the same
// store stay consistent.
type FavoritesService struct {
	// Dependencies (injected)
	logger *slog.Logger
	store  *storage.Store
	bus    ports.EventBus

	// Optional; nil accepts every id
	catalog TrackLookup

	// Concurrency control
	mu sync.Mutex
}

// NewFavoritesService creates a new favorites service.
func NewFavoritesService(
	logger *slog.Logger,
	store *storage.Store,
	bus ports.EventBus,
) *FavoritesService {
	logger.Debug("favorites service initialized")

	return &FavoritesService{
		logger: logger,
		store:  store,
		bus:    bus,
	}
}

// SetCatalog restricts new favorites to ids the catalog knows.
// Stored ids that left the catalog can still be removed.
func (s *FavoritesService) SetCatalog(catalog TrackLookup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
}

// IsFavorite reports whether id is a favorite. An empty id never is.
func (s *FavoritesService) IsFavorite(id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Contains(s.load(), id)
}

// Toggle flips the membership of id and returns the new state.
// A newly added favorite goes to the front of the list. An empty id, or an id
// the catalog does not know and that is not stored, is a no-op returning false.
func (s *FavoritesService) Toggle(id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	favorites := s.load()
	favorite := !lo.Contains(favorites, id)
	if favorite && s.catalog != nil {
		if _, err := s.catalog.Track(id); err != nil {
			s.mu.Unlock()
			s.logger.Debug("ignoring favorite of unknown track",
				slog.String("track_id", id),
				slog.Any("error", err))
			return false
		}
	}
	if favorite {
		favorites = append([]string{id}, favorites...)
	} else {
		favorites = lo.Without(favorites, id)
	}
	s.store.Save(storage.KeyFavorites, favorites)
	s.mu.Unlock()

	s.logger.Debug("favorite toggled", slog.String("track_id", id), slog.Bool("favorite", favorite))
	s.bus.Publish(domain.NewFavoritesChangedEvent(id, favorite, favorites))

	return favorite
}

// List returns the favorite ids, most recently favorited first.
func (s *FavoritesService) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Set returns the favorites as a lookup set.
func (s *FavoritesService) Set() map[string]bool {
	return lo.SliceToMap(s.List(), func(id string) (string, bool) {
		return id, true
	})
}

func (s *FavoritesService) load() []string {
	favorites := storage.Load(s.store, storage.KeyFavorites, []string{})
	return lo.Uniq(lo.Compact(favorites))
}
