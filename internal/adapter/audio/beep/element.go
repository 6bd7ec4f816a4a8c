// Package beep provides an AudioElement that decodes MP3 files with gopxl/beep
// and plays them through the beep speaker.
package beep

import (
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/ports"
)

const (
	// SampleRate is the speaker output rate; sources are resampled to it.
	SampleRate beep.SampleRate = 44100

	// DefaultTickInterval is how often time updates are reported while playing.
	DefaultTickInterval = 250 * time.Millisecond

	resampleQuality = 4
	eventBuffer     = 64
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker opens the output device once per process.
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(time.Second/10))
	})
	return speakerErr
}

// notification is a listener call bound to the source generation it belongs to.
type notification struct {
	gen     uint64
	deliver func(ports.MediaListener)
}

// Element is the beep implementation of ports.AudioElement.
//
// Decoding happens off the caller's goroutine. Listener notifications are
// delivered by a single pump goroutine, in order, and never while the element
// or the speaker lock is held. Notifications of a source replaced by a later
// Load are dropped.
//
// Lock order: e.mu, then speaker.Lock. Speaker callbacks never take e.mu.
type Element struct {
	// Dependencies
	logger   *slog.Logger
	listener ports.MediaListener

	// Current source
	gen      uint64
	locator  string
	loading  bool
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	queued   bool // the source is attached to the speaker
	ended    bool
	seekTo   float64 // position requested before decoding finished
	loadErr  error

	// Output
	level float64

	// Play outcomes waiting for decoding to finish
	waiting []chan error

	// Lifecycle
	tick   time.Duration
	events chan notification
	done   chan struct{}
	closed bool
	wg     sync.WaitGroup

	mu sync.Mutex
}

// NewElement creates a beep audio element and starts its notification pump.
// The output device is opened lazily on the first Play.
func NewElement(logger *slog.Logger) *Element {
	e := &Element{
		logger: logger,
		level:  1.0,
		tick:   DefaultTickInterval,
		events: make(chan notification, eventBuffer),
		done:   make(chan struct{}),
	}

	e.wg.Add(2)
	go e.pump()
	go e.ticker()

	return e
}

// SetListener registers the receiver of lifecycle notifications.
func (e *Element) SetListener(listener ports.MediaListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = listener
}

// Load replaces the current source and decodes the new one in the background.
func (e *Element) Load(locator string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	e.detach()
	e.rejectWaiting(errors.Wrap(domain.ErrPlaybackFailed, "source replaced"))

	e.gen++
	e.locator = locator
	e.loading = true
	e.ended = false
	e.seekTo = 0
	e.loadErr = nil

	gen := e.gen
	e.wg.Add(1)
	go e.decode(gen, locator)
}

// Preload warms the file system cache for locator with a decoder probe.
func (e *Element) Preload(locator string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || locator == "" {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		streamer, _, err := open(locator)
		if err != nil {
			e.logger.Debug("preload failed", slog.String("locator", locator), slog.Any("error", err))
			return
		}
		_ = streamer.Close()
	}()
}

// Play starts or resumes playback. If the source is still decoding, the
// outcome resolves once decoding finishes.
func (e *Element) Play() ports.PlayResult {
	result := make(chan error, 1)

	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.closed:
		result <- domain.ErrClosed
	case e.loading:
		e.waiting = append(e.waiting, result)
	case e.loadErr != nil:
		result <- e.loadErr
	case e.streamer == nil:
		result <- domain.NewAudioEngineError("play", e.locator, "no source loaded", domain.ErrNoTrackLoaded)
	default:
		result <- e.start()
	}

	return result
}

// Pause suspends playback and keeps the position.
func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rejectWaiting(errors.Wrap(domain.ErrPlaybackFailed, "paused before playback started"))
	if e.ctrl == nil {
		return
	}

	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
}

// Paused reports whether the element is not producing audio.
func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl == nil || !e.queued {
		return true
	}

	speaker.Lock()
	defer speaker.Unlock()
	return e.ctrl.Paused
}

// CurrentTime returns the playback position in seconds.
func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return e.seekTo
	}
	return e.position()
}

// SetCurrentTime moves the playback position, clamped to the source length.
func (e *Element) SetCurrentTime(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}

	if e.streamer == nil {
		e.seekTo = seconds
		return
	}

	e.seek(seconds)
	e.ended = false
	position := e.position()
	e.notify(e.gen, func(l ports.MediaListener) { l.OnTimeUpdate(position) })
}

// SetVolume sets the output volume from 0.0 to 1.0.
func (e *Element) SetVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.level = min(max(volume, 0), 1)
	if e.volume == nil {
		return
	}

	speaker.Lock()
	applyLevel(e.volume, e.level)
	speaker.Unlock()
}

// Close detaches the source, rejects pending plays and stops the background goroutines.
// The speaker itself stays open for the rest of the process.
func (e *Element) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrClosed
	}
	e.closed = true
	e.gen++
	e.detach()
	e.rejectWaiting(domain.ErrClosed)
	close(e.done)
	e.mu.Unlock()

	e.wg.Wait()
	return nil
}

// decode opens locator and installs it as the current source if it is still wanted.
func (e *Element) decode(gen uint64, locator string) {
	defer e.wg.Done()

	streamer, format, err := open(locator)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen || e.closed {
		if streamer != nil {
			_ = streamer.Close()
		}
		return
	}
	e.loading = false

	if err != nil {
		e.logger.Warn("failed to decode source", slog.String("locator", locator), slog.Any("error", err))
		e.loadErr = err
		e.rejectWaiting(err)
		e.notify(gen, func(l ports.MediaListener) { l.OnPlaybackError(err) })
		return
	}

	e.streamer = streamer
	e.format = format

	var source beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		source = beep.Resample(resampleQuality, format.SampleRate, SampleRate, streamer)
	}
	e.ctrl = &beep.Ctrl{Streamer: source, Paused: true}
	e.volume = &effects.Volume{Streamer: e.ctrl, Base: 2}
	applyLevel(e.volume, e.level)

	if e.seekTo > 0 {
		e.seek(e.seekTo)
		e.seekTo = 0
	}

	duration := format.SampleRate.D(streamer.Len()).Seconds()
	e.logger.Debug("source decoded", slog.String("locator", locator), slog.Float64("duration", duration))
	e.notify(gen, func(l ports.MediaListener) { l.OnMetadataLoaded(duration) })

	if len(e.waiting) > 0 {
		err := e.start()
		for _, result := range e.waiting {
			result <- err
		}
		e.waiting = nil
	}
}

// start attaches the source to the speaker and unpauses it. Caller holds e.mu.
func (e *Element) start() error {
	if err := initSpeaker(); err != nil {
		return domain.NewAudioEngineError("play", e.locator, "audio device unavailable", errors.Mark(err, domain.ErrPlaybackFailed))
	}

	if e.ended && e.streamer.Position() >= e.streamer.Len() {
		e.seek(0)
	}
	e.ended = false

	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()

	if !e.queued {
		gen := e.gen
		e.queued = true
		speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
			// runs on the speaker goroutine with the speaker lock held
			go e.finish(gen)
		})))
	}
	return nil
}

// finish handles the natural end of the source of generation gen.
func (e *Element) finish(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen || e.closed {
		return
	}
	e.queued = false
	e.ended = true
	e.notify(gen, func(l ports.MediaListener) { l.OnEnded() })
}

// detach removes the current source from the speaker and releases it. Caller holds e.mu.
func (e *Element) detach() {
	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Streamer = nil
		speaker.Unlock()
	}
	if e.streamer != nil {
		speaker.Lock()
		err := e.streamer.Close()
		speaker.Unlock()
		if err != nil {
			e.logger.Debug("failed to close source", slog.String("locator", e.locator), slog.Any("error", err))
		}
	}

	e.streamer = nil
	e.ctrl = nil
	e.volume = nil
	e.queued = false
}

// seek moves the decoder position. Caller holds e.mu and a source is loaded.
func (e *Element) seek(seconds float64) {
	last := max(e.streamer.Len()-1, 0)
	target := e.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))

	speaker.Lock()
	err := e.streamer.Seek(min(max(target, 0), last))
	speaker.Unlock()

	if err != nil {
		e.logger.Warn("seek failed", slog.String("locator", e.locator), slog.Any("error", err))
	}
}

// position returns the decoder position in seconds. Caller holds e.mu and a source is loaded.
func (e *Element) position() float64 {
	speaker.Lock()
	defer speaker.Unlock()
	return e.format.SampleRate.D(e.streamer.Position()).Seconds()
}

func (e *Element) rejectWaiting(err error) {
	for _, result := range e.waiting {
		result <- err
	}
	e.waiting = nil
}

// notify queues a listener call. Caller holds e.mu.
func (e *Element) notify(gen uint64, deliver func(ports.MediaListener)) {
	select {
	case e.events <- notification{gen: gen, deliver: deliver}:
	case <-e.done:
	default:
		e.logger.Warn("notification queue full, dropping event")
	}
}

// pump delivers notifications to the listener outside of any lock.
func (e *Element) pump() {
	defer e.wg.Done()

	for {
		select {
		case <-e.done:
			return
		case n := <-e.events:
			e.mu.Lock()
			listener := e.listener
			current := n.gen == e.gen
			e.mu.Unlock()

			if listener != nil && current {
				n.deliver(listener)
			}
		}
	}
}

// ticker reports the playback position while the source is playing.
func (e *Element) ticker() {
	defer e.wg.Done()

	t := time.NewTicker(e.tick)
	defer t.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-t.C:
			e.mu.Lock()
			if e.ctrl != nil && e.queued && !e.ended {
				speaker.Lock()
				playing := !e.ctrl.Paused
				speaker.Unlock()
				if playing {
					position := e.position()
					e.notify(e.gen, func(l ports.MediaListener) { l.OnTimeUpdate(position) })
				}
			}
			e.mu.Unlock()
		}
	}
}

// open decodes the MP3 file at locator.
func open(locator string) (beep.StreamSeekCloser, beep.Format, error) {
	if locator == "" {
		return nil, beep.Format{}, domain.NewAudioEngineError("load", locator, "empty locator", domain.ErrInvalidFilePath)
	}

	f, err := os.Open(locator)
	if err != nil {
		return nil, beep.Format{}, domain.NewAudioEngineError("load", locator, "cannot open file", errors.Mark(err, domain.ErrInvalidFilePath))
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, domain.NewAudioEngineError("decode", locator, "cannot decode mp3", errors.Mark(err, domain.ErrUnsupportedFormat))
	}
	return streamer, format, nil
}

// applyLevel maps a linear 0..1 level onto the logarithmic volume effect.
func applyLevel(v *effects.Volume, level float64) {
	v.Silent = level <= 0
	if level <= 0 || level >= 1 {
		v.Volume = 0
		return
	}
	v.Volume = math.Log2(level)
}

// Verify interface implementation
var _ ports.AudioElement = (*Element)(nil)
