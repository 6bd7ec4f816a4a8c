// Package service provides business logic for the Yorum player.
package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/ports"
)

// DefaultArtist is used when a filename does not encode an artist.
const DefaultArtist = "Grup Yorum"

const (
	audioExtension = ".mp3"
	artistSep      = "__"

	// DefaultWatchDebounce coalesces bursts of directory events.
	DefaultWatchDebounce = 500 * time.Millisecond
)

// fallbackFiles is served when the audio directory is missing, empty or unreadable.
// The id of siyrilip-gelen intentionally differs from its filename.
var fallbackFiles = []struct {
	id, title, file string
}{
	{"sevda-turkusu", "Sevda Turkusu", "sevda-turkusu.mp3"},
	{"sibel-yalcin-destani", "Sibel Yalcin Destani", "sibel-yalcin-destani.mp3"},
	{"sisli-meydaninda-uc-kiz", "Sisli Meydaninda Uc Kiz", "sisli-meydaninda-uc-kiz.mp3"},
	{"siirilip-gelen", "Siyrilip Gelen", "siyrilip-gelen.mp3"},
	{"soluk-soluga", "Soluk Soluga", "soluk-soluga.mp3"},
}

// CatalogService builds the track list from a directory of MP3 files.
// It never fails: I/O problems yield the fallback catalog.
type CatalogService struct {
	// Dependencies (injected)
	logger *slog.Logger

	// Configuration
	dir           string
	defaultArtist string
	debounce      time.Duration
}

// NewCatalogService creates a catalog over dir. An empty defaultArtist uses DefaultArtist.
func NewCatalogService(logger *slog.Logger, dir, defaultArtist string) *CatalogService {
	if defaultArtist == "" {
		defaultArtist = DefaultArtist
	}
	return &CatalogService{
		logger:        logger,
		dir:           dir,
		defaultArtist: defaultArtist,
		debounce:      DefaultWatchDebounce,
	}
}

// SetWatchDebounce changes how long Watch waits for the directory to settle.
func (s *CatalogService) SetWatchDebounce(d time.Duration) {
	s.debounce = d
}

// Dir returns the audio directory.
func (s *CatalogService) Dir() string {
	return s.dir
}

// Tracks lists the MP3 files of the directory sorted by filename.
func (s *CatalogService) Tracks() []domain.Track {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to read audio directory", slog.String("dir", s.dir), slog.Any("error", err))
		}
		return s.fallback()
	}

	// os.ReadDir returns entries sorted by filename
	files := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return entry.Name(), !entry.IsDir() && isAudioFile(entry.Name())
	})
	if len(files) == 0 {
		return s.fallback()
	}

	return lo.Map(files, func(name string, _ int) domain.Track {
		return domain.Track{
			ID:           trackID(name),
			Title:        FormatTitle(name),
			Artist:       ArtistFromFilename(name, s.defaultArtist),
			MediaLocator: filepath.Join(s.dir, name),
		}
	})
}

func (s *CatalogService) fallback() []domain.Track {
	return lo.Map(fallbackFiles, func(f struct{ id, title, file string }, _ int) domain.Track {
		return domain.Track{
			ID:           f.id,
			Title:        f.title,
			Artist:       s.defaultArtist,
			MediaLocator: filepath.Join(s.dir, f.file),
		}
	})
}

// Artwork returns the picture embedded in the file at locator, or nil.
func (s *CatalogService) Artwork(locator string) []byte {
	f, err := os.Open(locator)
	if err != nil {
		return nil
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		s.logger.Debug("no readable tags", slog.String("locator", locator), slog.Any("error", err))
		return nil
	}
	if picture := meta.Picture(); picture != nil {
		return picture.Data
	}
	return nil
}

// Watch reports catalog changes until ctx is done. Bursts of directory events
// are coalesced; onChange receives the re-read track list.
//
// Returns an error if the directory cannot be watched.
func (s *CatalogService) Watch(ctx context.Context, onChange func([]domain.Track)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create directory watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return errors.Mark(errors.Wrapf(err, "watch %s", s.dir), domain.ErrInvalidFilePath)
	}

	s.logger.Debug("watching audio directory", slog.String("dir", s.dir))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isAudioFile(event.Name) || !changesListing(event.Op) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			tracks := s.Tracks()
			s.logger.Debug("audio directory changed", slog.Int("tracks", len(tracks)))
			onChange(tracks)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("directory watcher error", slog.Any("error", err))
		}
	}
}

// FormatTitle derives a display title from a filename: the extension is
// dropped, runs of '-' and '_' become spaces and every word is capitalized.
func FormatTitle(filename string) string {
	return formatWords(trackID(filename))
}

// ArtistFromFilename returns the artist encoded as "{artist}__{title}", or
// fallback when the filename does not follow that pattern.
func ArtistFromFilename(filename, fallback string) string {
	parts := strings.Split(trackID(filename), artistSep)
	if len(parts) == 2 {
		return formatWords(parts[0])
	}
	return fallback
}

func formatWords(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	return strings.Join(lo.Map(words, func(word string, _ int) string {
		r, size := utf8.DecodeRuneInString(word)
		return string(unicode.ToUpper(r)) + word[size:]
	}), " ")
}

func trackID(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// changesListing reports whether op adds or removes a directory entry.
func changesListing(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}

func isAudioFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), audioExtension)
}

// Verify interface implementation
var _ ports.CatalogSource = (*CatalogService)(nil)
