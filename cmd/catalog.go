package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tejashwikalptaru/yorum/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/yorum/internal/adapter/repository/sqlite"
	"github.com/tejashwikalptaru/yorum/internal/config"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/logger"
	"github.com/tejashwikalptaru/yorum/internal/ports"
	"github.com/tejashwikalptaru/yorum/internal/service"
	"github.com/tejashwikalptaru/yorum/internal/storage"
)

type catalogOptions struct {
	Query         string
	Descending    bool
	FavoritesOnly bool
}

// listCatalog prints the filtered catalog with the persisted favorites and
// resume positions. Only the sqlite backend can be read outside the player
// window; other backends list the catalog without saved state.
func listCatalog(w io.Writer, settings *config.Config, opts catalogOptions) error {
	log := logger.NewLogger(logger.Config{
		Level:  logger.ParseLevel(settings.Log.Level, slog.LevelWarn),
		Format: settings.Log.Format,
		Output: os.Stderr,
	})

	var backend ports.KeyValueStore = memory.NewStore()
	if settings.Storage.Backend == config.BackendSQLite {
		db, err := sqlite.Open(settings.Storage.SQLitePath)
		if err != nil {
			return errors.Wrap(err, "failed to open state database")
		}
		defer db.Close()
		backend = db
	} else {
		log.Info("saved state is only readable with the sqlite backend",
			slog.String("backend", settings.Storage.Backend))
	}

	store := storage.NewStore(log, backend)
	favorites := service.NewFavoritesService(log, store, nil)
	positions := storage.Load(store, storage.KeyPositions, map[string]float64{})

	catalog := service.NewCatalogService(log, settings.Library.AudioDir, settings.Library.FallbackArtist)
	tracks := service.NewTrackFilter().Apply(catalog.Tracks(), service.FilterOptions{
		Query:         opts.Query,
		Descending:    opts.Descending,
		FavoritesOnly: opts.FavoritesOnly,
		Favorites:     favorites.List(),
	})

	renderCatalog(w, tracks, favorites.Set(), positions)
	return nil
}

func renderCatalog(w io.Writer, tracks []domain.Track, favorite map[string]bool, positions map[string]float64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "ID", "Title", "Artist", "Resume"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
	})

	for _, track := range tracks {
		star := ""
		if favorite[track.ID] {
			star = "★"
		}
		resume := ""
		if pos := positions[track.ID]; pos > 0 {
			resume = domain.FormatTime(pos)
		}
		t.AppendRow(table.Row{star, track.ID, track.Title, track.Artist, resume})
	}

	t.AppendFooter(table.Row{"", "", "", "Total", len(tracks)})
	t.Render()
}
