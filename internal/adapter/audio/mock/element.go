// Package mock provides an in-memory implementation of the AudioElement interface.
// It is used by service tests and by the --mock-audio mode, where no sound device is needed.
package mock

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/ports"
)

// Element is a mock implementation of the AudioElement interface.
// It records every directive. Notifications are only sent when a test calls
// one of the Emit helpers, or by the simulation loop started with StartSimulation.
//
// Thread-safety: This implementation is thread-safe.
type Element struct {
	// Dependencies
	logger   *slog.Logger
	listener ports.MediaListener

	// Media state
	source      string
	paused      bool
	currentTime float64
	volume      float64
	closed      bool

	// Recorded directives
	loads    []string
	preloads []string
	plays    int
	pauses   int
	seeks    []float64

	// Behavior configuration (for testing error scenarios)
	failPlay      bool
	manualResolve bool
	pending       []chan error

	// Simulation
	simDuration  float64
	simNeedsMeta bool
	simStop      chan struct{}
	simDone      chan struct{}

	mu sync.Mutex
}

// NewElement creates a new mock audio element. It starts paused with full volume.
func NewElement() *Element {
	return &Element{
		logger: slog.New(slog.DiscardHandler),
		paused: true,
		volume: 1.0,
	}
}

// SetLogger sets the logger for this element.
func (m *Element) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetFailPlay configures the mock to reject play directives (for testing).
func (m *Element) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// SetManualResolve keeps play outcomes pending until ResolvePlay is called (for testing).
func (m *Element) SetManualResolve(manual bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manualResolve = manual
}

// SetListener registers the receiver of lifecycle notifications.
func (m *Element) SetListener(listener ports.MediaListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = listener
}

// Load replaces the current source.
func (m *Element) Load(locator string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Debug("mock load", slog.String("locator", locator))
	m.source = locator
	m.loads = append(m.loads, locator)
	m.currentTime = 0
	m.paused = true
	m.simNeedsMeta = true
}

// Preload records the hint.
func (m *Element) Preload(locator string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preloads = append(m.preloads, locator)
}

// Play starts playback. The outcome resolves immediately unless manual resolution is on.
func (m *Element) Play() ports.PlayResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plays++
	result := make(chan error, 1)

	if m.closed {
		result <- domain.ErrClosed
		return result
	}

	m.paused = false
	if m.manualResolve {
		m.pending = append(m.pending, result)
		return result
	}

	m.resolveLocked(result, nil)
	return result
}

// ResolvePlay settles the oldest pending play outcome with err (nil means started).
// Returns false if no play is pending.
func (m *Element) ResolvePlay(err error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.pending) == 0 {
		return false
	}
	result := m.pending[0]
	m.pending = m.pending[1:]
	m.resolveLocked(result, err)
	return true
}

func (m *Element) resolveLocked(result chan error, err error) {
	if err == nil && m.failPlay {
		err = domain.NewAudioEngineError("play", m.source, "mock playback rejected", domain.ErrPlaybackFailed)
	}
	if err != nil {
		m.paused = true
	}
	result <- err
}

// PendingPlays returns the number of unresolved play outcomes (for testing).
func (m *Element) PendingPlays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Pause suspends playback.
func (m *Element) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	m.paused = true
}

// Paused reports whether the element is paused.
func (m *Element) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// CurrentTime returns the position in seconds.
func (m *Element) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// SetCurrentTime moves the position.
func (m *Element) SetCurrentTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = seconds
	m.seeks = append(m.seeks, seconds)
}

// SetVolume sets the output volume.
func (m *Element) SetVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
}

// Close stops the simulation loop, if any, and rejects later plays.
func (m *Element) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return domain.ErrClosed
	}
	m.closed = true
	stop, done := m.simStop, m.simDone
	m.simStop, m.simDone = nil, nil
	for _, result := range m.pending {
		result <- domain.ErrClosed
	}
	m.pending = nil
	m.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	return nil
}

// Emit helpers deliver notifications to the listener on the caller's goroutine.

// EmitTimeUpdate moves the position and reports it.
func (m *Element) EmitTimeUpdate(seconds float64) {
	m.mu.Lock()
	m.currentTime = seconds
	listener := m.listener
	m.mu.Unlock()

	if listener != nil {
		listener.OnTimeUpdate(seconds)
	}
}

// EmitMetadataLoaded reports the duration of the current source.
func (m *Element) EmitMetadataLoaded(duration float64) {
	if listener := m.currentListener(); listener != nil {
		listener.OnMetadataLoaded(duration)
	}
}

// EmitEnded reports the end of the current source.
func (m *Element) EmitEnded() {
	m.mu.Lock()
	m.paused = true
	listener := m.listener
	m.mu.Unlock()

	if listener != nil {
		listener.OnEnded()
	}
}

// EmitError reports a load or decode failure.
func (m *Element) EmitError(err error) {
	m.mu.Lock()
	m.paused = true
	listener := m.listener
	m.mu.Unlock()

	if listener != nil {
		listener.OnPlaybackError(err)
	}
}

func (m *Element) currentListener() ports.MediaListener {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listener
}

// StartSimulation runs a loop that plays every loaded source as a silent track
// of trackLength seconds: metadata after load, a time update per tick while
// playing, and ended at the end. Stopped by Close.
func (m *Element) StartSimulation(tick time.Duration, trackLength float64) {
	m.mu.Lock()
	if m.simStop != nil || m.closed {
		m.mu.Unlock()
		return
	}
	m.simDuration = trackLength
	m.simStop = make(chan struct{})
	m.simDone = make(chan struct{})
	stop, done := m.simStop, m.simDone
	m.mu.Unlock()

	go m.simulate(tick, stop, done)
}

func (m *Element) simulate(tick time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.step(tick.Seconds())
		}
	}
}

func (m *Element) step(elapsed float64) {
	m.mu.Lock()
	listener := m.listener
	if listener == nil || m.source == "" {
		m.mu.Unlock()
		return
	}

	if m.simNeedsMeta {
		m.simNeedsMeta = false
		duration := m.simDuration
		m.mu.Unlock()
		listener.OnMetadataLoaded(duration)
		return
	}

	if m.paused {
		m.mu.Unlock()
		return
	}

	m.currentTime += elapsed
	if m.currentTime >= m.simDuration {
		m.currentTime = m.simDuration
		m.paused = true
		m.mu.Unlock()
		listener.OnEnded()
		return
	}
	position := m.currentTime
	m.mu.Unlock()
	listener.OnTimeUpdate(position)
}

// Inspection helpers (for testing).

// Loads returns every locator passed to Load, in order.
func (m *Element) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loads...)
}

// Preloads returns every locator passed to Preload, in order.
func (m *Element) Preloads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.preloads...)
}

// Source returns the currently loaded locator.
func (m *Element) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

// Seeks returns every position passed to SetCurrentTime, in order.
func (m *Element) Seeks() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.seeks...)
}

// PlayCount returns the number of Play calls.
func (m *Element) PlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

// PauseCount returns the number of Pause calls.
func (m *Element) PauseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

// Volume returns the last volume set.
func (m *Element) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Verify interface implementation
var _ ports.AudioElement = (*Element)(nil)
