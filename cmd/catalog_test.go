package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/yorum/internal/adapter/repository/sqlite"
	"github.com/tejashwikalptaru/yorum/internal/config"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/logger"
	"github.com/tejashwikalptaru/yorum/internal/storage"
)

func catalogSettings(t *testing.T, files ...string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	return &config.Config{
		Library: config.LibraryConfig{AudioDir: dir, FallbackArtist: "Grup Yorum"},
		Storage: config.StorageConfig{
			Backend:    config.BackendSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "state.db"),
		},
		Player: config.PlayerConfig{DefaultVolume: 0.7, PositionFlushInterval: time.Second, VolumeStep: 0.05},
		Log:    config.LogConfig{Level: "error", Format: "text"},
	}
}

func seedState(t *testing.T, path string, favorites []string, positions map[string]float64) {
	t.Helper()

	db, err := sqlite.Open(path)
	require.NoError(t, err)
	defer db.Close()

	store := storage.NewStore(logger.NewTestLogger(), db)
	store.Save(storage.KeyFavorites, favorites)
	store.Save(storage.KeyPositions, positions)
}

func TestListCatalog(t *testing.T) {
	settings := catalogSettings(t, "sevda-turkusu.mp3", "cemo.mp3", "ruhi-su--uc-kiz.mp3")
	seedState(t, settings.Storage.SQLitePath, []string{"cemo"}, map[string]float64{"sevda-turkusu": 75})

	var out bytes.Buffer
	require.NoError(t, listCatalog(&out, settings, catalogOptions{}))

	table := out.String()
	assert.Contains(t, table, "Sevda Turkusu")
	assert.Contains(t, table, "Cemo")
	assert.Contains(t, table, "★")
	assert.Contains(t, table, "1:15")
	assert.Contains(t, table, "TOTAL")
}

func TestListCatalog_Filters(t *testing.T) {
	settings := catalogSettings(t, "sevda-turkusu.mp3", "cemo.mp3")
	seedState(t, settings.Storage.SQLitePath, []string{"cemo"}, nil)

	var out bytes.Buffer
	require.NoError(t, listCatalog(&out, settings, catalogOptions{FavoritesOnly: true}))
	assert.Contains(t, out.String(), "Cemo")
	assert.NotContains(t, out.String(), "Sevda Turkusu")

	out.Reset()
	require.NoError(t, listCatalog(&out, settings, catalogOptions{Query: "sevda"}))
	assert.Contains(t, out.String(), "Sevda Turkusu")
	assert.NotContains(t, out.String(), "Cemo")
}

func TestListCatalog_MemoryBackendHasNoSavedState(t *testing.T) {
	settings := catalogSettings(t, "cemo.mp3")
	settings.Storage.Backend = config.BackendMemory

	var out bytes.Buffer
	require.NoError(t, listCatalog(&out, settings, catalogOptions{}))
	assert.Contains(t, out.String(), "Cemo")
	assert.NotContains(t, out.String(), "★")
}

func TestRenderCatalog_Order(t *testing.T) {
	tracks := []domain.Track{
		{ID: "b", Title: "Bir", Artist: "Grup Yorum"},
		{ID: "a", Title: "Aa", Artist: "Grup Yorum"},
	}

	var out bytes.Buffer
	renderCatalog(&out, tracks, map[string]bool{}, nil)

	table := out.String()
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Bir")), bytes.Index(out.Bytes(), []byte("Aa")))
	assert.Contains(t, table, "2")
}
