package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/logger"
	"github.com/tejashwikalptaru/yorum/internal/testutil"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("not really audio"), 0o644))
	}
}

func TestFormatTitle(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"sevda-turkusu.mp3", "Sevda Turkusu"},
		{"sisli_meydaninda--uc_kiz.MP3", "Sisli Meydaninda Uc Kiz"},
		{"şişli-meydanında.mp3", "Şişli Meydanında"},
		{"grup-yorum__cemo.mp3", "Grup Yorum Cemo"},
		{"-leading-dash-.mp3", "Leading Dash"},
		{"already Spaced.mp3", "Already Spaced"},
		{"noext", "Noext"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTitle(tt.filename))
		})
	}
}

func TestArtistFromFilename(t *testing.T) {
	assert.Equal(t, "Grup Yorum", ArtistFromFilename("sevda-turkusu.mp3", DefaultArtist))
	assert.Equal(t, "Ezginin Gunlugu", ArtistFromFilename("ezginin-gunlugu__sevdan-olmasa.mp3", DefaultArtist))
	assert.Equal(t, "Other", ArtistFromFilename("a__b__c.mp3", "Other"))
}

func TestCatalogService_Tracks(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "soluk-soluga.mp3", "cover.jpg", "ezginin-gunlugu__sevdan-olmasa.MP3", "b-side.mp3")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.mp3"), 0o755))

	service := NewCatalogService(logger.NewTestLogger(), dir, "")
	tracks := service.Tracks()

	require.Len(t, tracks, 3)
	assert.Equal(t, []string{"b-side", "ezginin-gunlugu__sevdan-olmasa", "soluk-soluga"},
		[]string{tracks[0].ID, tracks[1].ID, tracks[2].ID})

	assert.Equal(t, domain.Track{
		ID:           "ezginin-gunlugu__sevdan-olmasa",
		Title:        "Ezginin Gunlugu Sevdan Olmasa",
		Artist:       "Ezginin Gunlugu",
		MediaLocator: filepath.Join(dir, "ezginin-gunlugu__sevdan-olmasa.MP3"),
	}, tracks[1])
	assert.Equal(t, "Grup Yorum", tracks[2].Artist)

	// identical input yields identical output
	assert.Equal(t, tracks, service.Tracks())
}

func TestCatalogService_Fallback(t *testing.T) {
	log := logger.NewTestLogger()

	missing := NewCatalogService(log, filepath.Join(t.TempDir(), "missing"), "")
	empty := NewCatalogService(log, t.TempDir(), "Yorum")

	for _, tracks := range [][]domain.Track{missing.Tracks(), empty.Tracks()} {
		require.Len(t, tracks, 5)
		assert.Equal(t, "sevda-turkusu", tracks[0].ID)
		assert.Equal(t, "siirilip-gelen", tracks[3].ID)
		assert.Equal(t, "Siyrilip Gelen", tracks[3].Title)
		assert.Equal(t, "siyrilip-gelen.mp3", filepath.Base(tracks[3].MediaLocator))
	}
	assert.Equal(t, "Grup Yorum", missing.Tracks()[0].Artist)
	assert.Equal(t, "Yorum", empty.Tracks()[0].Artist)
}

func TestCatalogService_ArtworkMissing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "plain.mp3")
	service := NewCatalogService(logger.NewTestLogger(), dir, "")

	assert.Nil(t, service.Artwork(filepath.Join(dir, "plain.mp3")))
	assert.Nil(t, service.Artwork(filepath.Join(dir, "absent.mp3")))
}

func TestCatalogService_Watch(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	dir := t.TempDir()
	writeFiles(t, dir, "a.mp3")
	service := NewCatalogService(logger.NewTestLogger(), dir, "")
	service.SetWatchDebounce(20 * time.Millisecond)

	var (
		mu      sync.Mutex
		updates [][]domain.Track
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- service.Watch(ctx, func(tracks []domain.Track) {
			mu.Lock()
			defer mu.Unlock()
			updates = append(updates, tracks)
		})
	}()

	// give the watcher time to register before touching the directory
	time.Sleep(50 * time.Millisecond)
	writeFiles(t, dir, "b.mp3", "c.mp3", "notes.txt")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(updates) > 0 && len(updates[len(updates)-1]) == 3
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestCatalogService_WatchMissingDirectory(t *testing.T) {
	service := NewCatalogService(logger.NewTestLogger(), filepath.Join(t.TempDir(), "missing"), "")

	err := service.Watch(context.Background(), func([]domain.Track) {})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidFilePath))
}
