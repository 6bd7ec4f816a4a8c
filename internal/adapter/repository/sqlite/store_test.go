package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/testutil"
)

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidFilePath))
}

func TestStore_RoundTrip(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get("music-player:volume")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("music-player:volume", "0.4"))
	require.NoError(t, store.Set("music-player:volume", "0.6"))

	value, ok, err := store.Get("music-player:volume")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0.6", value)

	require.NoError(t, store.Remove("music-player:volume"))
	_, ok, err = store.Get("music-player:volume")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "yorum.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("music-player:favorites", `["soluk-soluga"]`))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("music-player:favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["soluk-soluga"]`, value)
}

func TestStore_ClosedDatabaseIsUnavailable(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, _, err = store.Get("k")
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
	assert.True(t, errors.Is(store.Set("k", "v"), domain.ErrStorageUnavailable))
}

func TestStore_CloseReleasesConnections(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreSQLiteGoroutines()...)

	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	require.NoError(t, store.Set("music-player:favorites", `["cemo"]`))
	value, ok, err := store.Get("music-player:favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["cemo"]`, value)

	require.NoError(t, store.Close())
}
