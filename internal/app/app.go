// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/cockroachdb/errors"
	"github.com/tejashwikalptaru/yorum/internal/adapter/audio/beep"
	"github.com/tejashwikalptaru/yorum/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/yorum/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/yorum/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/yorum/internal/adapter/repository/preferences"
	"github.com/tejashwikalptaru/yorum/internal/adapter/repository/sqlite"
	fyneui "github.com/tejashwikalptaru/yorum/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/yorum/internal/config"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/logger"
	"github.com/tejashwikalptaru/yorum/internal/ports"
	"github.com/tejashwikalptaru/yorum/internal/service"
	"github.com/tejashwikalptaru/yorum/internal/storage"
)

// Simulated playback used by the mock audio element.
const (
	mockTick        = 250 * time.Millisecond
	mockTrackLength = 180.0
)

// Application is the root application structure that holds all dependencies.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Watching the audio directory for catalog changes
// - Managing the application lifecycle (startup, shutdown)
type Application struct {
	// Core dependencies
	logger   *slog.Logger
	fyneApp  fyne.App
	settings *config.Config

	// Infrastructure
	eventBus *eventbus.SyncEventBus
	element  ports.AudioElement
	backend  ports.KeyValueStore
	store    *storage.Store

	// Services
	catalog    *service.CatalogService
	controller *service.PlaybackController
	favorites  *service.FavoritesService
	filter     *service.TrackFilter

	// UI
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	// Catalog watcher
	cancelWatch context.CancelFunc
	watchDone   chan struct{}

	shutdownOnce sync.Once
	shutdownErr  error
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// Settings is the loaded configuration file. Nil means config.Default().
	Settings *config.Config

	// Logger overrides the logger built from Settings.Log (nil for production)
	Logger *slog.Logger

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	return Config{
		AppID:   "com.yorum.app",
		AppName: "Yorum",
	}
}

// NewApplication creates a new application with all dependencies wired.
func NewApplication(cfg Config) (*Application, error) {
	settings := cfg.Settings
	if settings == nil {
		var err error
		if settings, err = config.Default(); err != nil {
			return nil, errors.Wrap(err, "failed to load default configuration")
		}
	}

	app := &Application{settings: settings}

	// Step 1: Create Fyne application
	if cfg.TestFyneApp != nil {
		app.fyneApp = cfg.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(cfg.AppID)
	}

	// Step 2: Create logger
	app.logger = cfg.Logger
	if app.logger == nil {
		app.logger = logger.NewLogger(logger.Config{
			Level:  logger.ParseLevel(settings.Log.Level, logger.DefaultConfig().Level),
			Format: settings.Log.Format,
		})
	}
	app.logger.Info("initializing application",
		slog.String("app_id", cfg.AppID),
		slog.String("version", GetVersionInfo().Version),
		slog.String("audio_dir", settings.Library.AudioDir),
		slog.String("storage", settings.Storage.Backend))

	// Step 3: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus()
	app.eventBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))

	// Step 4: Create the key/value backend for persisted state
	backend, err := app.openBackend()
	if err != nil {
		_ = app.eventBus.Close()
		return nil, err
	}
	app.backend = backend
	app.store = storage.NewStore(app.logger.With(slog.String("component", "storage")), backend)

	// Step 5: Create the audio element
	app.element = app.newElement()

	// Step 6: Create services
	app.catalog = service.NewCatalogService(
		app.logger.With(slog.String("service", "catalog")),
		settings.Library.AudioDir,
		settings.Library.FallbackArtist,
	)

	controllerCfg := service.DefaultControllerConfig()
	controllerCfg.DefaultVolume = settings.Player.DefaultVolume
	controllerCfg.FlushInterval = settings.Player.PositionFlushInterval
	controllerCfg.RestartThreshold = settings.Player.RestartThreshold

	app.controller = service.NewPlaybackController(
		app.logger.With(slog.String("service", "playback")),
		app.element,
		app.store,
		app.eventBus,
		app.catalog.Tracks(),
		controllerCfg,
	)

	app.favorites = service.NewFavoritesService(
		app.logger.With(slog.String("service", "favorites")),
		app.store,
		app.eventBus,
	)
	app.favorites.SetCatalog(app.controller)

	app.filter = service.NewTrackFilter()

	// Step 7: Create UI
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, GetVersionInfo().Version)

	// Step 8: Create Presenter and wire with UI
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.controller,
		app.favorites,
		app.catalog,
		app.filter,
		app.eventBus,
		app.mainWindow,
	)
	app.presenter.SetVolumeStep(settings.Player.VolumeStep)
	app.mainWindow.SetPresenter(app.presenter)

	// Resume positions are flushed before the window goes away (Cmd+Q, close button)
	app.mainWindow.SetOnBeforeClose(func() {
		if err := app.Shutdown(); err != nil {
			app.logger.Warn("failed to shut down on close", slog.Any("error", err))
		}
	})

	// Step 9: Follow the audio directory
	if settings.Library.Watch {
		app.startWatcher()
	}

	return app, nil
}

func (a *Application) openBackend() (ports.KeyValueStore, error) {
	switch a.settings.Storage.Backend {
	case config.BackendSQLite:
		store, err := sqlite.Open(a.settings.Storage.SQLitePath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open state database")
		}
		return store, nil
	case config.BackendMemory:
		return memory.NewStore(), nil
	default:
		return preferences.NewStore(a.fyneApp.Preferences()), nil
	}
}

func (a *Application) newElement() ports.AudioElement {
	if a.settings.Audio.Mock {
		element := mock.NewElement()
		element.SetLogger(a.logger.With(slog.String("element", "mock")))
		element.StartSimulation(mockTick, mockTrackLength)
		return element
	}
	return beep.NewElement(a.logger.With(slog.String("element", "beep")))
}

func (a *Application) startWatcher() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelWatch = cancel
	a.watchDone = make(chan struct{})

	go func() {
		defer close(a.watchDone)
		err := a.catalog.Watch(ctx, a.controller.SetCatalogFromSource)
		if err != nil {
			a.logger.Warn("audio directory is not watched", slog.Any("error", err))
		}
	}()
}

// Run starts the application.
// Blocks until the main window is closed.
func (a *Application) Run() error {
	a.logger.Info("Yorum started", slog.Int("tracks", len(a.controller.State().Tracks)))

	a.mainWindow.ShowAndRun()
	return nil
}

// Shutdown gracefully shuts down the application. Safe to call more than once;
// later calls return the result of the first.
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.shutdownErr = a.shutdown()
	})
	return a.shutdownErr
}

func (a *Application) shutdown() error {
	a.logger.Info("shutting down application")

	if a.cancelWatch != nil {
		a.cancelWatch()
		<-a.watchDone
	}

	if a.presenter != nil {
		a.presenter.Shutdown()
	}
	if a.mainWindow != nil {
		a.mainWindow.Close()
	}

	var result error

	// Flushes resume positions
	if err := a.controller.Close(); err != nil && !errors.Is(err, domain.ErrClosed) {
		result = errors.CombineErrors(result, errors.Wrap(err, "failed to close playback controller"))
	}

	if err := a.element.Close(); err != nil && !errors.Is(err, domain.ErrClosed) {
		result = errors.CombineErrors(result, errors.Wrap(err, "failed to close audio element"))
	}

	if closer, ok := a.backend.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			result = errors.CombineErrors(result, errors.Wrap(err, "failed to close state storage"))
		}
	}

	if err := a.eventBus.Close(); err != nil {
		result = errors.CombineErrors(result, errors.Wrap(err, "failed to close event bus"))
	}

	a.logger.Info("application shutdown complete")
	return result
}

// GetController returns the playback controller.
func (a *Application) GetController() *service.PlaybackController {
	return a.controller
}

// GetFavorites returns the favorites service.
func (a *Application) GetFavorites() *service.FavoritesService {
	return a.favorites
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}
