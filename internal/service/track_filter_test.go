package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tejashwikalptaru/yorum/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Şişli Meydanında Üç Kız", "sisli meydaninda uc kiz"},
		{"Çığ Gibi Öfke", "cig gibi ofke"},
		{"İSTANBUL", "istanbul"},
		{"  Grup   Yorum  ", "grup yorum"},
		{"Hey!  Dostlar... (Canlı)", "hey dostlar canli"},
		{"Café Müller", "cafe muller"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func filterTracks() []domain.Track {
	return []domain.Track{
		{ID: "soluk-soluga", Title: "Soluk Soluğa", Artist: "Grup Yorum"},
		{ID: "sisli", Title: "Şişli Meydanında Üç Kız", Artist: "Grup Yorum"},
		{ID: "sevda", Title: "Sevda Türküsü", Artist: "Grup Yorum"},
		{ID: "cemo-2", Title: "Cemo", Artist: "Ruhi Su"},
		{ID: "cemo-1", Title: "Cemo", Artist: "Grup Yorum"},
	}
}

func ids(tracks []domain.Track) []string {
	out := make([]string, len(tracks))
	for i, track := range tracks {
		out[i] = track.ID
	}
	return out
}

func TestTrackFilter_Search(t *testing.T) {
	filter := NewTrackFilter()

	assert.Equal(t, []string{"sisli"}, ids(filter.Apply(filterTracks(), FilterOptions{Query: "sis"})))
	assert.Equal(t, []string{"sisli"}, ids(filter.Apply(filterTracks(), FilterOptions{Query: "kız"})))
	assert.Equal(t, []string{"sevda"}, ids(filter.Apply(filterTracks(), FilterOptions{Query: "TURKU"})))
	assert.Equal(t, []string{"cemo-2"}, ids(filter.Apply(filterTracks(), FilterOptions{Query: "ruhi"})))
	assert.Empty(t, filter.Apply(filterTracks(), FilterOptions{Query: "bella ciao"}))
}

func TestTrackFilter_Sort(t *testing.T) {
	filter := NewTrackFilter()
	tracks := filterTracks()

	asc := filter.Apply(tracks, FilterOptions{})
	assert.Equal(t, []string{"cemo-1", "cemo-2", "sevda", "sisli", "soluk-soluga"}, ids(asc))

	desc := filter.Apply(tracks, FilterOptions{Descending: true})
	assert.Equal(t, []string{"soluk-soluga", "sisli", "sevda", "cemo-2", "cemo-1"}, ids(desc))

	assert.Equal(t, "soluk-soluga", tracks[0].ID, "input is not reordered")
}

func TestTrackFilter_FavoritesOnly(t *testing.T) {
	filter := NewTrackFilter()

	got := filter.Apply(filterTracks(), FilterOptions{
		FavoritesOnly: true,
		Favorites:     []string{"soluk-soluga", "cemo-2", "gone"},
	})
	assert.Equal(t, []string{"cemo-2", "soluk-soluga"}, ids(got))

	none := filter.Apply(filterTracks(), FilterOptions{FavoritesOnly: true})
	assert.Empty(t, none)

	ignored := filter.Apply(filterTracks(), FilterOptions{Favorites: []string{"sevda"}})
	assert.Len(t, ignored, 5)
}
