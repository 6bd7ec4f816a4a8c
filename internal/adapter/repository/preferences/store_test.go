package preferences

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/yorum/internal/domain"
)

// Helper to create a test preferences store
func newTestStore() *Store {
	app := test.NewApp()
	return NewStore(app.Preferences())
}

func TestStore_SetAndGet(t *testing.T) {
	store := newTestStore()

	require.NoError(t, store.Set("music-player:volume", "0.55"))

	value, ok, err := store.Get("music-player:volume")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0.55", value)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore()

	value, ok, err := store.Get("music-player:unknown")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore()

	require.NoError(t, store.Set("music-player:last-song", `{"songId":"sevda-turkusu"}`))
	require.NoError(t, store.Remove("music-player:last-song"))

	_, ok, err := store.Get("music-player:last-song")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_NilPreferences(t *testing.T) {
	store := NewStore(nil)

	_, _, err := store.Get("k")
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
	assert.True(t, errors.Is(store.Set("k", "v"), domain.ErrStorageUnavailable))
	assert.True(t, errors.Is(store.Remove("k"), domain.ErrStorageUnavailable))
}
