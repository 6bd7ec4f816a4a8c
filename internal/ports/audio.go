// Package ports define interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

// PlayResult resolves exactly once with nil when playback actually started,
// or with the rejection reason (autoplay policy, decode failure, missing device).
// Implementations must use a buffered channel so a late reader never blocks the sender.
type PlayResult <-chan error

// AudioElement is the single audio-playback primitive driven by the playback controller.
// It mirrors a media element: directives go in, lifecycle notifications come out
// through the MediaListener.
//
// Directives never invoke the listener synchronously. Notifications for one
// loaded source are delivered in emission order, and notifications belonging to
// a source replaced by a later Load are dropped by the implementation.
type AudioElement interface {
	// SetListener registers the receiver of lifecycle notifications.
	SetListener(listener MediaListener)

	// Load replaces the current source and starts loading it.
	// MetadataLoaded (or Error) follows asynchronously.
	Load(locator string)

	// Preload hints that locator is likely to be loaded next.
	// Best-effort; failures are ignored.
	Preload(locator string)

	// Play starts or resumes playback. The outcome arrives on the returned channel.
	Play() PlayResult

	// Pause suspends playback and keeps the position.
	Pause()

	// Paused reports whether the element is currently not producing audio.
	Paused() bool

	// CurrentTime returns the playback position in seconds.
	CurrentTime() float64

	// SetCurrentTime moves the playback position to seconds.
	SetCurrentTime(seconds float64)

	// SetVolume sets the output volume from 0.0 (silent) to 1.0 (full volume).
	SetVolume(volume float64)

	// Close releases the element's resources.
	Close() error
}

// MediaListener receives lifecycle notifications from an AudioElement.
// The playback controller implements it.
type MediaListener interface {
	// OnTimeUpdate reports the current playback position in seconds.
	OnTimeUpdate(currentSeconds float64)

	// OnMetadataLoaded reports the duration of the freshly loaded source.
	OnMetadataLoaded(durationSeconds float64)

	// OnEnded reports that playback reached the end of the source.
	OnEnded()

	// OnPlaybackError reports that the source could not be loaded or decoded.
	OnPlaybackError(err error)
}
