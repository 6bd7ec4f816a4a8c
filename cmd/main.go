// Package main is the entry point for the Yorum music player.
//
// Build:
//
//	go build -o build/yorum ./cmd
//
// Run:
//
//	./build/yorum                      # open the player
//	./build/yorum catalog --query sis  # list the catalog
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/tejashwikalptaru/yorum/internal/app"
	"github.com/tejashwikalptaru/yorum/internal/config"
)

var (
	cli        = kingpin.New("yorum", "Grup Yorum music player")
	configPath = cli.Flag("config", "Configuration file (TOML)").Short('c').Envar("YORUM_CONFIG").String()
	audioDir   = cli.Flag("audio-dir", "Directory with the audio files").String()
	storage    = cli.Flag("storage", "State backend: preferences, sqlite or memory").Enum(config.BackendPreferences, config.BackendSQLite, config.BackendMemory)
	verbose    = cli.Flag("verbose", "Enable debug logging").Short('v').Bool()

	// play command
	playCmd   = cli.Command("play", "Open the player window").Default()
	mockAudio = playCmd.Flag("mock-audio", "Simulate playback without an audio device").Bool()

	// catalog command
	catalogCmd       = cli.Command("catalog", "List the tracks in the audio directory").Alias("ls")
	catalogQuery     = catalogCmd.Flag("query", "Search in titles and artists").Short('q').String()
	catalogDesc      = catalogCmd.Flag("desc", "Sort Z-A").Bool()
	catalogFavorites = catalogCmd.Flag("favorites", "Only list favorites").Short('f').Bool()

	// version command
	versionCmd = cli.Command("version", "Print version information")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	cli.Version(app.GetVersionInfo().FullString())
	command := kingpin.MustParse(cli.Parse(os.Args[1:]))

	if command == versionCmd.FullCommand() {
		fmt.Println(app.GetVersionInfo().FullString())
		return
	}

	settings, err := loadSettings()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	switch command {
	case catalogCmd.FullCommand():
		opts := catalogOptions{
			Query:         *catalogQuery,
			Descending:    *catalogDesc,
			FavoritesOnly: *catalogFavorites,
		}
		if err := listCatalog(os.Stdout, settings, opts); err != nil {
			log.Fatalf("Failed to list catalog: %v", err)
		}
	case playCmd.FullCommand():
		if *mockAudio {
			settings.Audio.Mock = true
		}
		play(settings)
	}
}

// loadSettings reads the configuration and applies the command line overrides.
func loadSettings() (*config.Config, error) {
	settings, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	if *audioDir != "" {
		settings.Library.AudioDir = *audioDir
	}
	if *storage != "" {
		settings.Storage.Backend = *storage
	}
	if *verbose {
		settings.Log.Level = "debug"
	}

	return settings, settings.Validate()
}

func play(settings *config.Config) {
	cfg := app.DefaultConfig()
	cfg.Settings = settings

	// Create the application with dependency injection
	application, err := app.NewApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}
