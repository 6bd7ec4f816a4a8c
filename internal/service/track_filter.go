// Package service provides business logic for the Yorum player.
package service

import (
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/samber/lo"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// turkishFold maps the Turkish letters that do not decompose under NFD (ı) and
// guards the ones that do.
var turkishFold = strings.NewReplacer(
	"ç", "c",
	"ğ", "g",
	"ı", "i",
	"ö", "o",
	"ş", "s",
	"ü", "u",
)

// Normalize folds text for searching and sorting: lowercase, diacritics
// stripped, Turkish letters mapped to their base Latin letter, everything
// outside [a-z0-9] turned into single spaces.
func Normalize(text string) string {
	lower := strings.ToLower(text)

	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), lower)
	if err != nil {
		stripped = lower
	}

	folded := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, turkishFold.Replace(stripped))

	return strings.Join(strings.Fields(folded), " ")
}

// FilterOptions selects and orders the visible track list.
type FilterOptions struct {
	Query         string
	Descending    bool
	FavoritesOnly bool
	Favorites     []string
}

// TrackFilter applies search, the favorites filter and Turkish-aware sorting.
// The collator is not safe for concurrent use, so Apply is serialized.
type TrackFilter struct {
	collator *collate.Collator
	mu       sync.Mutex
}

// NewTrackFilter creates a filter sorting with Turkish collation rules.
func NewTrackFilter() *TrackFilter {
	return &TrackFilter{
		collator: collate.New(language.Turkish),
	}
}

type filterEntry struct {
	track  domain.Track
	title  string
	artist string
}

// Apply returns the tracks matching opts, sorted by normalized title then artist.
// The input slice is not modified.
func (f *TrackFilter) Apply(tracks []domain.Track, opts FilterOptions) []domain.Track {
	query := Normalize(strings.TrimSpace(opts.Query))
	favorites := lo.SliceToMap(opts.Favorites, func(id string) (string, bool) {
		return id, true
	})

	entries := lo.FilterMap(tracks, func(track domain.Track, _ int) (filterEntry, bool) {
		entry := filterEntry{
			track:  track,
			title:  Normalize(track.Title),
			artist: Normalize(track.Artist),
		}
		if query != "" && !strings.Contains(entry.title, query) && !strings.Contains(entry.artist, query) {
			return entry, false
		}
		if opts.FavoritesOnly && !favorites[track.ID] {
			return entry, false
		}
		return entry, true
	})

	f.mu.Lock()
	slices.SortStableFunc(entries, func(a, b filterEntry) int {
		cmp := f.collator.CompareString(a.title, b.title)
		if cmp == 0 {
			cmp = f.collator.CompareString(a.artist, b.artist)
		}
		if opts.Descending {
			return -cmp
		}
		return cmp
	})
	f.mu.Unlock()

	return lo.Map(entries, func(entry filterEntry, _ int) domain.Track {
		return entry.track
	})
}
