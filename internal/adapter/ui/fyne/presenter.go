// Package fyne provides Fyne UI adapter implementations.
// This package implements the UI layer using the Fyne toolkit.
package fyne

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/input"
	"github.com/tejashwikalptaru/yorum/internal/ports"
	"github.com/tejashwikalptaru/yorum/internal/service"
)

// NoTrackTitle is shown when nothing is selected.
const NoTrackTitle = "Şarkı seçin"

// Library is the catalog as seen by the presenter.
type Library interface {
	ports.CatalogSource

	// Artwork returns the embedded picture of the track at locator, or nil.
	Artwork(locator string) []byte
}

// Presenter implements the Presenter pattern (MVP architecture).
// It coordinates between the playback controller and the view.
//
// Responsibilities:
// - Subscribe to events from the event bus
// - Map domain events to view updates
// - Translate user intents to controller calls
// - Own the list presentation state (search query, sort order, favorites filter)
//
// Thread-safety: All operations are thread-safe via sync.Mutex.
type Presenter struct {
	// Dependencies
	logger *slog.Logger

	// Services (injected)
	controller *service.PlaybackController
	favorites  *service.FavoritesService
	library    Library
	filter     *service.TrackFilter

	// Event bus for subscriptions
	bus           ports.EventBus
	subscriptions []domain.SubscriptionID

	// UI view
	view ports.View

	// Presentation state
	query         string
	descending    bool
	favoritesOnly bool
	volumeStep    float64

	// Concurrency control
	mu           sync.Mutex
	shutdownOnce sync.Once
}

// NewPresenter creates a new presenter and syncs the view with the current state.
func NewPresenter(
	logger *slog.Logger,
	controller *service.PlaybackController,
	favorites *service.FavoritesService,
	library Library,
	filter *service.TrackFilter,
	bus ports.EventBus,
	view ports.View,
) *Presenter {
	p := &Presenter{
		logger:     logger,
		controller: controller,
		favorites:  favorites,
		library:    library,
		filter:     filter,
		bus:        bus,
		view:       view,
		volumeStep: input.VolumeStep,
	}

	// Subscribe to events
	p.subscribeToEvents()

	// Sync UI with current state
	p.syncInitialState()

	return p
}

// SetVolumeStep changes the volume change of one up/down key press.
func (p *Presenter) SetVolumeStep(step float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if step > 0 {
		p.volumeStep = step
	}
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := []struct {
		eventType domain.EventType
		handler   domain.EventHandler
	}{
		// Playback events
		{domain.EventTrackSelected, p.onTrackSelected},
		{domain.EventPlaybackStarted, p.onPlaybackStarted},
		{domain.EventPlaybackPaused, p.onPlaybackHalted},
		{domain.EventPlaybackStopped, p.onPlaybackHalted},
		{domain.EventPlaybackFailed, p.onPlaybackFailed},
		{domain.EventTrackProgress, p.onTrackProgress},

		// Settings events
		{domain.EventVolumeChanged, p.onVolumeChanged},
		{domain.EventShuffleToggled, p.onShuffleToggled},
		{domain.EventRepeatChanged, p.onRepeatChanged},

		// List events
		{domain.EventCatalogUpdated, p.onCatalogUpdated},
		{domain.EventFavoritesChanged, p.onFavoritesChanged},
	}

	for _, s := range subscriptions {
		p.subscriptions = append(p.subscriptions, p.bus.Subscribe(s.eventType, s.handler))
	}
}

// syncInitialState synchronizes the view with the controller state.
func (p *Presenter) syncInitialState() {
	state := p.controller.State()

	p.view.SetVolume(state.Volume)
	p.view.SetShuffle(state.Shuffle)
	p.view.SetRepeat(state.Repeat)
	p.view.SetPlayState(state.IsPlaying)
	p.view.SetProgress(state.CurrentTime, state.Duration)
	p.view.SetFavoritesFilter(false)
	p.showTrack(state.CurrentTrack)
	p.refreshList()
}

// Event handlers

func (p *Presenter) onTrackSelected(event domain.Event) {
	e, ok := event.(domain.TrackSelectedEvent)
	if !ok {
		return
	}

	p.showTrack(&e.Track)
	p.refreshList()
}

func (p *Presenter) onPlaybackStarted(domain.Event) {
	p.view.SetPlayState(true)
}

func (p *Presenter) onPlaybackHalted(domain.Event) {
	p.view.SetPlayState(false)
}

func (p *Presenter) onPlaybackFailed(event domain.Event) {
	e, ok := event.(domain.PlaybackFailedEvent)
	if !ok {
		return
	}

	p.logger.Debug("playback failed", slog.String("track_id", e.Track.ID), slog.Any("error", e.Error))
	p.view.SetPlayState(p.controller.State().IsPlaying)
}

func (p *Presenter) onTrackProgress(event domain.Event) {
	e, ok := event.(domain.TrackProgressEvent)
	if !ok {
		return
	}

	p.view.SetProgress(e.Position, e.Duration)
}

func (p *Presenter) onVolumeChanged(event domain.Event) {
	e, ok := event.(domain.VolumeChangedEvent)
	if !ok {
		return
	}

	p.view.SetVolume(e.Volume)
}

func (p *Presenter) onShuffleToggled(event domain.Event) {
	e, ok := event.(domain.ShuffleToggledEvent)
	if !ok {
		return
	}

	p.view.SetShuffle(e.Enabled)
}

func (p *Presenter) onRepeatChanged(event domain.Event) {
	e, ok := event.(domain.RepeatChangedEvent)
	if !ok {
		return
	}

	p.view.SetRepeat(e.Mode)
}

func (p *Presenter) onCatalogUpdated(event domain.Event) {
	if _, ok := event.(domain.CatalogUpdatedEvent); !ok {
		return
	}

	state := p.controller.State()
	p.showTrack(state.CurrentTrack)
	p.view.SetPlayState(state.IsPlaying)
	p.refreshList()
}

func (p *Presenter) onFavoritesChanged(event domain.Event) {
	e, ok := event.(domain.FavoritesChangedEvent)
	if !ok {
		return
	}

	// The favorites filter switches itself off once nothing is left to show
	p.mu.Lock()
	autoOff := p.favoritesOnly && len(e.Favorites) == 0
	if autoOff {
		p.favoritesOnly = false
	}
	p.mu.Unlock()

	if autoOff {
		p.view.SetFavoritesFilter(false)
	}
	p.refreshList()
}

func (p *Presenter) showTrack(track *domain.Track) {
	if track == nil {
		p.view.SetTrackInfo(NoTrackTitle, "")
		p.view.SetAlbumArt(nil)
		return
	}

	p.view.SetTrackInfo(track.Title, track.Artist)
	p.view.SetAlbumArt(p.library.Artwork(track.MediaLocator))
}

// refreshList renders the filtered, sorted track list.
func (p *Presenter) refreshList() {
	p.mu.Lock()
	opts := service.FilterOptions{
		Query:         p.query,
		Descending:    p.descending,
		FavoritesOnly: p.favoritesOnly,
	}
	p.mu.Unlock()

	state := p.controller.State()
	opts.Favorites = p.favorites.List()

	activeID := ""
	if state.CurrentTrack != nil {
		activeID = state.CurrentTrack.ID
	}

	set := lo.SliceToMap(opts.Favorites, func(id string) (string, bool) {
		return id, true
	})

	p.view.SetTrackList(p.filter.Apply(state.Tracks, opts), activeID, set)
}

// UI command handlers (called by the view)

// OnTrackSelected handles a click on a list row.
func (p *Presenter) OnTrackSelected(id string) {
	if !p.controller.SelectTrack(id) {
		p.logger.Debug("ignoring selection of unknown track", slog.String("track_id", id))
	}
}

// OnPlayClicked handles the play/pause button.
func (p *Presenter) OnPlayClicked() {
	p.controller.TogglePlayPause()
}

// OnNextClicked handles the next button.
func (p *Presenter) OnNextClicked() {
	p.controller.Advance(false)
}

// OnPreviousClicked handles the previous button.
func (p *Presenter) OnPreviousClicked() {
	p.controller.Retreat()
}

// OnShuffleClicked handles the shuffle button.
func (p *Presenter) OnShuffleClicked() {
	p.controller.ToggleShuffle()
}

// OnRepeatClicked handles the repeat button.
func (p *Presenter) OnRepeatClicked() {
	p.controller.CycleRepeat()
}

// OnSeekRequested handles a seek from the progress region.
func (p *Presenter) OnSeekRequested(seconds float64) {
	p.controller.Seek(seconds)
}

// OnVolumeChanged handles volume slider changes (0.0 to 1.0).
func (p *Presenter) OnVolumeChanged(volume float64) {
	if volume == p.controller.State().Volume {
		return
	}
	p.controller.SetVolume(volume)
}

// OnFavoriteClicked toggles the favorite state of a track.
func (p *Presenter) OnFavoriteClicked(id string) {
	p.favorites.Toggle(id)
}

// OnSearchChanged filters the list by query.
func (p *Presenter) OnSearchChanged(query string) {
	p.mu.Lock()
	p.query = query
	p.mu.Unlock()

	p.refreshList()
}

// OnSortClicked flips the sort order and reports whether it is now descending.
func (p *Presenter) OnSortClicked() bool {
	p.mu.Lock()
	p.descending = !p.descending
	descending := p.descending
	p.mu.Unlock()

	p.refreshList()
	return descending
}

// OnFavoritesFilterClicked toggles the favorites-only filter.
// It stays off while there are no favorites.
func (p *Presenter) OnFavoritesFilterClicked() {
	hasFavorites := len(p.favorites.List()) > 0

	p.mu.Lock()
	p.favoritesOnly = !p.favoritesOnly && hasFavorites
	enabled := p.favoritesOnly
	p.mu.Unlock()

	p.view.SetFavoritesFilter(enabled)
	p.refreshList()
}

// OnRefreshClicked re-reads the catalog.
func (p *Presenter) OnRefreshClicked() {
	tracks := p.library.Tracks()
	p.controller.RefreshCatalog(tracks)
	p.view.ShowNotification("Liste yenilendi", fmt.Sprintf("%d şarkı", len(tracks)))
}

// OnInput dispatches a keyboard or gesture action.
func (p *Presenter) OnInput(action input.Action) {
	switch action {
	case input.ActionTogglePlay:
		p.controller.TogglePlayPause()
	case input.ActionNext:
		p.controller.Advance(false)
	case input.ActionPrevious:
		p.controller.Retreat()
	case input.ActionVolumeUp, input.ActionVolumeDown:
		p.mu.Lock()
		step := p.volumeStep
		p.mu.Unlock()
		p.controller.SetVolume(input.AdjustVolume(action, p.controller.State().Volume, step))
	}
}

// Shutdown unsubscribes from the event bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		for _, id := range p.subscriptions {
			p.bus.Unsubscribe(id)
		}
	})
}
