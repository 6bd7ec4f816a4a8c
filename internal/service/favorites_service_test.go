package service

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/yorum/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/yorum/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/logger"
	"github.com/tejashwikalptaru/yorum/internal/storage"
)

// Helper to create a favorites service over in-memory storage
func newTestFavoritesService(t *testing.T) (*FavoritesService, *memory.Store, *eventRecorder) {
	t.Helper()
	log := logger.NewTestLogger()
	backend := memory.NewStore()
	bus := eventbus.NewSyncEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	events := &eventRecorder{}
	bus.SubscribeAll(events.record)

	return NewFavoritesService(log, storage.NewStore(log, backend), bus), backend, events
}

func TestFavoritesService_Toggle(t *testing.T) {
	service, backend, events := newTestFavoritesService(t)

	assert.False(t, service.IsFavorite("sevda-turkusu"))

	assert.True(t, service.Toggle("sevda-turkusu"))
	assert.True(t, service.IsFavorite("sevda-turkusu"))
	assert.JSONEq(t, `["sevda-turkusu"]`, backend.Raw(storage.KeyFavorites))

	changed, ok := events.last(domain.EventFavoritesChanged).(domain.FavoritesChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "sevda-turkusu", changed.TrackID)
	assert.True(t, changed.Favorite)

	assert.False(t, service.Toggle("sevda-turkusu"))
	assert.False(t, service.IsFavorite("sevda-turkusu"))
	assert.Empty(t, service.List())
	assert.Equal(t, 2, events.count(domain.EventFavoritesChanged))
}

func TestFavoritesService_MostRecentFirst(t *testing.T) {
	service, _, _ := newTestFavoritesService(t)

	service.Toggle("a")
	service.Toggle("b")
	service.Toggle("c")
	service.Toggle("b") // remove
	service.Toggle("b") // re-add at the front

	assert.Equal(t, []string{"b", "c", "a"}, service.List())
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, service.Set())
}

func TestFavoritesService_EmptyID(t *testing.T) {
	service, backend, events := newTestFavoritesService(t)

	assert.False(t, service.Toggle(""))
	assert.False(t, service.Toggle(""))
	assert.False(t, service.IsFavorite(""))
	assert.Equal(t, 0, backend.Writes())
	assert.Equal(t, 0, events.count(domain.EventFavoritesChanged))
}

// staticCatalog resolves ids from a fixed track list
type staticCatalog []domain.Track

func (c staticCatalog) Track(id string) (domain.Track, error) {
	for _, track := range c {
		if track.ID == id {
			return track, nil
		}
	}
	return domain.Track{}, errors.Wrapf(domain.ErrTrackNotFound, "track %q", id)
}

func TestFavoritesService_UnknownIDToggledTwice(t *testing.T) {
	service, backend, events := newTestFavoritesService(t)
	service.SetCatalog(staticCatalog(testTracks()))
	writes := backend.Writes()

	assert.False(t, service.Toggle("not-in-catalog"))
	assert.False(t, service.IsFavorite("not-in-catalog"))
	assert.False(t, service.Toggle("not-in-catalog"))
	assert.False(t, service.IsFavorite("not-in-catalog"))

	assert.Equal(t, writes, backend.Writes())
	assert.Zero(t, events.count(domain.EventFavoritesChanged))
	assert.Empty(t, service.List())
}

func TestFavoritesService_StaleStoredIDCanBeRemoved(t *testing.T) {
	service, backend, _ := newTestFavoritesService(t)
	require.NoError(t, backend.Set(storage.KeyFavorites, `["removed-from-disk","a"]`))
	service.SetCatalog(staticCatalog(testTracks()))

	assert.False(t, service.Toggle("removed-from-disk"))
	assert.Equal(t, []string{"a"}, service.List())
}

func TestFavoritesService_ControllerCatalog(t *testing.T) {
	f := newTestController(t, testTracks(), nil)
	service, _, _ := newTestFavoritesService(t)
	service.SetCatalog(f.ctrl)

	assert.True(t, service.Toggle("b"))
	assert.False(t, service.Toggle("zzz"))
	assert.Equal(t, []string{"b"}, service.List())
}

func TestFavoritesService_CorruptStorage(t *testing.T) {
	service, backend, _ := newTestFavoritesService(t)
	require.NoError(t, backend.Set(storage.KeyFavorites, `{"oops":true}`))

	assert.Empty(t, service.List())
	assert.True(t, service.Toggle("a"))
	assert.Equal(t, []string{"a"}, service.List())
}

func TestFavoritesService_DeduplicatesStoredList(t *testing.T) {
	service, backend, _ := newTestFavoritesService(t)
	require.NoError(t, backend.Set(storage.KeyFavorites, `["a","","b","a"]`))

	assert.Equal(t, []string{"a", "b"}, service.List())
}

func TestFavoritesService_StorageUnavailable(t *testing.T) {
	service, backend, _ := newTestFavoritesService(t)
	backend.SetFailWrites(true)
	backend.SetFailReads(true)

	assert.True(t, service.Toggle("a"), "membership is reported even when it cannot be saved")
	assert.False(t, service.IsFavorite("a"))
}
