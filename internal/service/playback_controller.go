// Package service provides business logic for the Yorum player.
package service

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/ports"
	"github.com/tejashwikalptaru/yorum/internal/storage"
)

// ControllerConfig tunes the playback controller.
type ControllerConfig struct {
	// DefaultVolume is used when no volume was persisted.
	DefaultVolume float64

	// FlushInterval bounds how often resume positions are written during playback.
	FlushInterval time.Duration

	// RestartThreshold is the elapsed time after which "previous" restarts the
	// current track instead of moving back.
	RestartThreshold time.Duration

	// Now is the clock used for the flush debounce. Defaults to time.Now.
	Now func() time.Time

	// Random drives shuffle selection. Defaults to a time-seeded PCG source.
	Random domain.RandomSource
}

// DefaultControllerConfig returns the stock controller settings.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		DefaultVolume:    0.7,
		FlushInterval:    3 * time.Second,
		RestartThreshold: 3 * time.Second,
	}
}

// playKind tells the outcome handler which directive a play result belongs to.
type playKind int

const (
	playManual playKind = iota
	playAuto
	playAfterSeek
	playRepeatOne
)

func (k playKind) String() string {
	switch k {
	case playManual:
		return "manual"
	case playAuto:
		return "auto"
	case playAfterSeek:
		return "seek"
	case playRepeatOne:
		return "repeat-one"
	default:
		return "unknown"
	}
}

// playDirective captures what was current when a play directive was issued.
type playDirective struct {
	seq     uint64
	trackID string
	kind    playKind
}

// PlaybackController owns the track list, the current selection and the audio
// element. It is the only writer of PlaybackState.
//
// Operations and element notifications are serialized by a mutex. Events are
// published after the mutex is released, so handlers may call back into the
// controller.
type PlaybackController struct {
	// Dependencies (injected)
	logger  *slog.Logger
	element ports.AudioElement
	store   *storage.Store
	bus     ports.EventBus
	cfg     ControllerConfig

	// State
	tracks      []domain.Track
	index       int
	isPlaying   bool
	shuffle     bool
	repeat      domain.RepeatMode
	currentTime float64
	duration    float64
	volume      float64

	// Resume positions, flushed at most once per FlushInterval
	positions map[string]float64
	lastFlush time.Time

	// Directive bookkeeping
	pendingSeek    float64
	hasPendingSeek bool
	metadataLoaded bool
	autoPlay       bool
	seeking        bool
	seq            uint64

	// Lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	waiters sync.WaitGroup
	closed  bool

	// Events collected while locked
	outbox []domain.Event

	mu sync.Mutex
}

// NewPlaybackController creates the controller and restores persisted state:
// volume, resume positions and the last selected track. The restored (or first)
// track is loaded without playing.
func NewPlaybackController(
	logger *slog.Logger,
	element ports.AudioElement,
	store *storage.Store,
	bus ports.EventBus,
	tracks []domain.Track,
	cfg ControllerConfig,
) *PlaybackController {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Random == nil {
		seed := uint64(time.Now().UnixNano())
		cfg.Random = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &PlaybackController{
		logger:    logger,
		element:   element,
		store:     store,
		bus:       bus,
		cfg:       cfg,
		index:     domain.NoIndex,
		positions: make(map[string]float64),
		ctx:       ctx,
		cancel:    cancel,
	}

	c.mutate(func() {
		c.volume = domain.Clamp(sanitize(storage.Load(store, storage.KeyVolume, cfg.DefaultVolume)), 0, 1)
		for id, pos := range storage.Load(store, storage.KeyPositions, map[string]float64{}) {
			c.positions[id] = roundPosition(pos)
		}

		c.element.SetListener(c)
		c.element.SetVolume(c.volume)

		c.tracks = append([]domain.Track(nil), tracks...)
		if len(c.tracks) == 0 {
			return
		}

		c.index = 0
		last := storage.Load(store, storage.KeyLastSong, storage.LastSong{})
		if i := c.find(last.SongID); i >= 0 {
			c.index = i
		}
		c.loadCurrent(false)
	})

	logger.Debug("playback controller initialized",
		slog.Int("tracks", len(tracks)),
		slog.Float64("volume", c.volume))

	return c
}

// mutate runs fn under the lock, then publishes the events fn queued.
func (c *PlaybackController) mutate(fn func()) {
	c.mu.Lock()
	fn()
	events := c.outbox
	c.outbox = nil
	c.mu.Unlock()

	for _, event := range events {
		c.bus.Publish(event)
	}
}

func (c *PlaybackController) emit(event domain.Event) {
	c.outbox = append(c.outbox, event)
}

// State returns a snapshot of the playback state.
func (c *PlaybackController) State() domain.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := domain.PlaybackState{
		Tracks:       c.trackList(),
		CurrentIndex: c.index,
		IsPlaying:    c.isPlaying,
		Shuffle:      c.shuffle,
		Repeat:       c.repeat,
		CurrentTime:  c.currentTime,
		Duration:     c.duration,
		Volume:       c.volume,
	}
	if track, ok := c.current(); ok {
		state.CurrentTrack = &track
	}

	switch {
	case len(c.tracks) == 0:
		state.Status = domain.StatusEmpty
	case c.seeking:
		state.Status = domain.StatusSeeking
	case c.isPlaying:
		state.Status = domain.StatusPlaying
	default:
		state.Status = domain.StatusIdle
	}
	return state
}

// ResumePosition returns the in-memory resume position for id.
func (c *PlaybackController) ResumePosition(id string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, ok := c.positions[id]
	return pos, ok
}

// Track returns the catalog entry with the given id, or an error matching
// domain.ErrTrackNotFound.
func (c *PlaybackController) Track(id string) (domain.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.find(id); i >= 0 {
		return c.tracks[i], nil
	}
	return domain.Track{}, trackNotFound(id)
}

// SelectTrack switches to the track with the given id and plays it from its
// resume position. Unknown ids are ignored; the return value reports whether
// the selection happened.
func (c *PlaybackController) SelectTrack(id string) bool {
	selected := false
	c.mutate(func() {
		if c.closed {
			return
		}
		i := c.find(id)
		if i < 0 {
			c.logger.Debug("ignoring selection of unknown track",
				slog.String("track_id", id),
				slog.Any("error", trackNotFound(id)))
			return
		}
		c.switchTo(i)
		selected = true
	})
	return selected
}

// TogglePlayPause pauses when playing and plays otherwise. With nothing
// selected it starts the first track.
func (c *PlaybackController) TogglePlayPause() {
	c.mutate(func() {
		if c.closed || len(c.tracks) == 0 {
			return
		}

		if _, ok := c.current(); !ok {
			c.switchTo(0)
			return
		}

		if c.isPlaying {
			c.pause()
			return
		}

		c.autoPlay = false
		c.isPlaying = true
		c.play(playManual)
	})
}

// Advance moves to the next track. triggeredByEnd distinguishes a natural end
// from a manual skip; at the end of the list only the latter always wraps.
func (c *PlaybackController) Advance(triggeredByEnd bool) {
	c.mutate(func() {
		if c.closed {
			return
		}
		c.advance(triggeredByEnd)
	})
}

func (c *PlaybackController) advance(triggeredByEnd bool) {
	if len(c.tracks) == 0 {
		return
	}

	next, ok := domain.NextIndex(domain.NextRequest{
		Current:        c.index,
		Length:         len(c.tracks),
		Shuffle:        c.shuffle,
		Repeat:         c.repeat,
		TriggeredByEnd: triggeredByEnd,
	}, c.cfg.Random)
	if !ok {
		c.stop()
		return
	}

	c.switchTo(next)
}

// Retreat restarts the current track when it has played past the restart
// threshold, otherwise moves to the previous track.
func (c *PlaybackController) Retreat() {
	c.mutate(func() {
		if c.closed || len(c.tracks) == 0 {
			return
		}

		if track, ok := c.current(); ok && c.element.CurrentTime() > c.cfg.RestartThreshold.Seconds() {
			c.element.SetCurrentTime(0)
			c.currentTime = 0
			c.positions[track.ID] = 0
			c.emit(domain.NewTrackProgressEvent(0, c.duration))
			return
		}

		prev, ok := domain.PreviousIndex(c.index, len(c.tracks), c.shuffle, c.cfg.Random)
		if !ok {
			return
		}
		c.switchTo(prev)
	})
}

// Seek moves to target seconds, clamped into [0, duration]. While playing the
// element is paused for the jump and resumed afterward. The new position is
// persisted immediately. Before the metadata is known the target is staged
// unclamped and bounded once the duration arrives.
func (c *PlaybackController) Seek(target float64) {
	c.mutate(func() {
		if c.closed {
			return
		}
		track, ok := c.current()
		if !ok {
			return
		}

		upper := c.duration
		if !c.metadataLoaded {
			upper = math.Inf(1)
		}
		target = domain.Clamp(sanitize(target), 0, upper)
		wasPlaying := c.isPlaying && !c.element.Paused()

		if wasPlaying {
			c.element.Pause()
			c.seeking = true
		}
		if !c.metadataLoaded {
			// replaces the staged resume position
			c.pendingSeek = target
			c.hasPendingSeek = true
		}

		c.element.SetCurrentTime(target)
		c.currentTime = target
		c.positions[track.ID] = roundPosition(target)
		c.flushPositions()
		c.emit(domain.NewTrackProgressEvent(target, c.duration))

		if wasPlaying {
			c.play(playAfterSeek)
		}
	})
}

// SetVolume clamps volume into [0, 1], applies and persists it.
func (c *PlaybackController) SetVolume(volume float64) {
	c.mutate(func() {
		if c.closed || math.IsNaN(volume) {
			return
		}
		volume = domain.Clamp(volume, 0, 1)
		c.volume = volume
		c.element.SetVolume(volume)
		c.store.Save(storage.KeyVolume, volume)
		c.emit(domain.NewVolumeChangedEvent(volume))
	})
}

// ToggleShuffle flips shuffle mode.
func (c *PlaybackController) ToggleShuffle() {
	c.mutate(func() {
		if c.closed {
			return
		}
		c.shuffle = !c.shuffle
		c.emit(domain.NewShuffleToggledEvent(c.shuffle))
		c.preloadNext()
	})
}

// CycleRepeat advances the repeat mode off → all → one → off.
func (c *PlaybackController) CycleRepeat() {
	c.mutate(func() {
		if c.closed {
			return
		}
		c.repeat = c.repeat.Next()
		c.emit(domain.NewRepeatChangedEvent(c.repeat))
	})
}

// OnTimeUpdate records the element's position while playing or seeking.
// Updates that arrive while paused are ignored.
func (c *PlaybackController) OnTimeUpdate(seconds float64) {
	c.mutate(func() {
		if c.closed || !(c.isPlaying || c.seeking) {
			return
		}
		track, ok := c.current()
		if !ok {
			return
		}

		seconds = math.Max(0, sanitize(seconds))
		c.currentTime = seconds
		c.positions[track.ID] = roundPosition(seconds)
		c.emit(domain.NewTrackProgressEvent(seconds, c.duration))

		if now := c.cfg.Now(); now.Sub(c.lastFlush) > c.cfg.FlushInterval {
			c.flushPositions()
			c.lastFlush = now
		}
	})
}

// OnMetadataLoaded records the duration, applies a staged seek and honors a
// pending auto-play intent.
func (c *PlaybackController) OnMetadataLoaded(duration float64) {
	c.mutate(func() {
		if c.closed {
			return
		}
		if _, ok := c.current(); !ok {
			return
		}

		c.duration = math.Max(0, sanitize(duration))
		c.metadataLoaded = true

		if c.hasPendingSeek {
			target := domain.Clamp(c.pendingSeek, 0, c.duration)
			c.hasPendingSeek = false
			c.element.SetCurrentTime(target)
			c.currentTime = target
			if track, ok := c.current(); ok && target != c.pendingSeek {
				c.positions[track.ID] = roundPosition(target)
			}
		}
		c.emit(domain.NewTrackProgressEvent(c.currentTime, c.duration))

		if c.autoPlay {
			c.autoPlay = false
			c.play(playAuto)
		}
	})
}

// OnEnded restarts the track under repeat-one, otherwise advances as a natural end.
func (c *PlaybackController) OnEnded() {
	c.mutate(func() {
		if c.closed {
			return
		}
		track, ok := c.current()
		if !ok {
			return
		}

		c.emit(domain.NewTrackEndedEvent(track, c.repeat))
		c.positions[track.ID] = 0

		if c.repeat == domain.RepeatOne {
			c.element.SetCurrentTime(0)
			c.currentTime = 0
			c.isPlaying = true
			c.play(playRepeatOne)
			return
		}

		c.advance(true)
	})
}

// OnPlaybackError treats a load or decode failure like a natural end so one
// broken file does not stop the whole list.
func (c *PlaybackController) OnPlaybackError(err error) {
	c.mutate(func() {
		if c.closed {
			return
		}
		track, ok := c.current()
		if !ok {
			return
		}

		c.logger.Warn("track failed to load", slog.String("track_id", track.ID), slog.Any("error", err))
		c.emit(domain.NewPlaybackFailedEvent(track, err))
		c.advance(true)
	})
}

// RefreshCatalog replaces the track list, keeping the current track selected
// when it is still present.
func (c *PlaybackController) RefreshCatalog(tracks []domain.Track) {
	c.mutate(func() {
		if c.closed {
			return
		}
		c.logger.Debug("catalog refreshed", slog.Int("tracks", len(tracks)))
		c.replaceTracks(tracks)
	})
}

// SetCatalogFromSource installs a catalog pushed by the source (e.g. a watched
// directory changed). Selection follows the same rule as RefreshCatalog.
func (c *PlaybackController) SetCatalogFromSource(tracks []domain.Track) {
	c.mutate(func() {
		if c.closed {
			return
		}
		c.logger.Info("catalog changed at source", slog.Int("tracks", len(tracks)))
		c.replaceTracks(tracks)
	})
}

func (c *PlaybackController) replaceTracks(tracks []domain.Track) {
	previous, hadCurrent := c.current()
	c.tracks = append([]domain.Track(nil), tracks...)

	if len(c.tracks) == 0 {
		c.index = domain.NoIndex
		c.seq++
		c.element.Pause()
		c.isPlaying = false
		c.autoPlay = false
		c.seeking = false
		c.hasPendingSeek = false
		c.metadataLoaded = false
		c.currentTime = 0
		c.duration = 0
		c.emit(domain.NewCatalogUpdatedEvent(nil, c.index))
		return
	}

	if hadCurrent {
		if i := c.find(previous.ID); i >= 0 {
			c.index = i
			c.emit(domain.NewCatalogUpdatedEvent(c.trackList(), c.index))
			c.preloadNext()
			return
		}
	}

	c.index = min(max(c.index, 0), len(c.tracks)-1)
	c.emit(domain.NewCatalogUpdatedEvent(c.trackList(), c.index))

	if !hadCurrent || c.tracks[c.index].ID != previous.ID {
		c.loadCurrent(c.isPlaying)
	}
}

func (c *PlaybackController) trackList() []domain.Track {
	return append([]domain.Track(nil), c.tracks...)
}

// Close flushes resume positions regardless of the debounce window and stops
// processing notifications. The audio element is not closed.
func (c *PlaybackController) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	c.closed = true
	c.flushPositions()
	c.cancel()
	c.mu.Unlock()

	c.waiters.Wait()
	c.logger.Debug("playback controller closed")
	return nil
}

// switchTo selects index and plays it once its metadata is known.
func (c *PlaybackController) switchTo(index int) {
	c.index = index
	c.isPlaying = true
	c.loadCurrent(true)
}

// loadCurrent loads the track at the current index, staging its resume position.
func (c *PlaybackController) loadCurrent(autoPlay bool) {
	track, ok := c.current()
	if !ok {
		return
	}

	c.seq++
	c.seeking = false
	c.autoPlay = autoPlay
	c.duration = 0
	c.metadataLoaded = false
	c.element.Load(track.MediaLocator)

	if saved, found := c.positions[track.ID]; found {
		c.currentTime = saved
		c.pendingSeek = saved
		c.hasPendingSeek = true
	} else {
		c.currentTime = 0
		c.hasPendingSeek = false
	}

	c.store.Save(storage.KeyLastSong, storage.LastSong{SongID: track.ID})
	c.logger.Debug("track loaded",
		slog.String("track_id", track.ID),
		slog.Int("index", c.index),
		slog.Bool("auto_play", autoPlay))

	c.emit(domain.NewTrackSelectedEvent(track, c.index, autoPlay))
	c.emit(domain.NewTrackProgressEvent(c.currentTime, 0))
	c.preloadNext()
}

// preloadNext hints the element about the track a manual skip would load.
// Under shuffle the next track is unknown, so nothing is hinted.
func (c *PlaybackController) preloadNext() {
	if c.shuffle || len(c.tracks) == 0 || c.index < 0 {
		return
	}
	next, ok := domain.NextIndex(domain.NextRequest{
		Current: c.index,
		Length:  len(c.tracks),
		Repeat:  c.repeat,
	}, c.cfg.Random)
	if !ok || next == c.index {
		return
	}
	c.element.Preload(c.tracks[next].MediaLocator)
}

func (c *PlaybackController) pause() {
	c.seq++
	c.autoPlay = false
	c.seeking = false
	c.element.Pause()
	c.isPlaying = false

	if track, ok := c.current(); ok {
		c.emit(domain.NewPlaybackPausedEvent(track, c.currentTime))
	}
}

// stop halts playback at the end of the list and rewinds the display.
func (c *PlaybackController) stop() {
	c.seq++
	c.autoPlay = false
	c.seeking = false
	c.element.Pause()
	c.element.SetCurrentTime(0)
	c.isPlaying = false
	c.currentTime = 0

	if track, ok := c.current(); ok {
		c.emit(domain.NewPlaybackStoppedEvent(track))
	}
	c.emit(domain.NewTrackProgressEvent(0, c.duration))
}

// play issues a play directive and settles its outcome asynchronously.
func (c *PlaybackController) play(kind playKind) {
	track, ok := c.current()
	if !ok {
		return
	}

	c.seq++
	directive := playDirective{seq: c.seq, trackID: track.ID, kind: kind}
	result := c.element.Play()

	c.waiters.Add(1)
	go c.await(result, directive)
}

func (c *PlaybackController) await(result ports.PlayResult, directive playDirective) {
	defer c.waiters.Done()

	select {
	case err := <-result:
		c.settle(directive, err)
	case <-c.ctx.Done():
	}
}

// settle applies a play outcome unless a newer directive or selection superseded it.
func (c *PlaybackController) settle(directive playDirective, err error) {
	c.mutate(func() {
		if c.closed {
			return
		}
		track, ok := c.current()
		if !ok || directive.seq != c.seq || track.ID != directive.trackID {
			c.logger.Debug("discarding stale play outcome",
				slog.String("track_id", directive.trackID),
				slog.String("kind", directive.kind.String()))
			return
		}

		if directive.kind == playAfterSeek {
			c.seeking = false
		}

		if err != nil {
			c.logger.Warn("playback failed",
				slog.String("track_id", track.ID),
				slog.String("kind", directive.kind.String()),
				slog.Any("error", err))
			c.isPlaying = false
			c.emit(domain.NewPlaybackFailedEvent(track, err))
			return
		}

		c.isPlaying = true
		c.emit(domain.NewPlaybackStartedEvent(track))
	})
}

// flushPositions writes the whole resume table.
func (c *PlaybackController) flushPositions() {
	snapshot := make(map[string]float64, len(c.positions))
	for id, pos := range c.positions {
		snapshot[id] = pos
	}
	c.store.Save(storage.KeyPositions, snapshot)
}

func (c *PlaybackController) current() (domain.Track, bool) {
	if c.index < 0 || c.index >= len(c.tracks) {
		return domain.Track{}, false
	}
	return c.tracks[c.index], true
}

func (c *PlaybackController) find(id string) int {
	if id == "" {
		return -1
	}
	_, i, _ := lo.FindIndexOf(c.tracks, func(track domain.Track) bool {
		return track.ID == id
	})
	return i
}

func trackNotFound(id string) error {
	return errors.Wrapf(domain.ErrTrackNotFound, "track %q", id)
}

// roundPosition keeps millisecond precision and never goes negative.
func roundPosition(seconds float64) float64 {
	return math.Max(0, math.Round(sanitize(seconds)*1000)/1000)
}

// sanitize maps NaN and infinities to 0.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Verify interface implementation
var _ ports.MediaListener = (*PlaybackController)(nil)
