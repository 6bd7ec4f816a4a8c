// Package domain defines events for the event-driven architecture.
// Events replace the callback system and enable loose coupling between components.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback events
	EventTrackSelected   EventType = "track.selected"
	EventPlaybackStarted EventType = "playback.started"
	EventPlaybackPaused  EventType = "playback.paused"
	EventPlaybackStopped EventType = "playback.stopped"
	EventTrackEnded      EventType = "track.ended"
	EventTrackProgress   EventType = "track.progress"
	EventPlaybackFailed  EventType = "playback.failed"

	// Volume events
	EventVolumeChanged EventType = "volume.changed"

	// Playback mode events
	EventShuffleToggled EventType = "shuffle.toggled"
	EventRepeatChanged  EventType = "repeat.changed"

	// Catalog events
	EventCatalogUpdated EventType = "catalog.updated"

	// Favorites events
	EventFavoritesChanged EventType = "favorites.changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// TrackSelectedEvent is published when the current track changes.
type TrackSelectedEvent struct {
	baseEvent
	Track    Track
	Index    int
	AutoPlay bool
}

// Type returns the event type.
func (e TrackSelectedEvent) Type() EventType {
	return EventTrackSelected
}

// NewTrackSelectedEvent creates a new TrackSelectedEvent.
func NewTrackSelectedEvent(track Track, index int, autoPlay bool) TrackSelectedEvent {
	return TrackSelectedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Index:     index,
		AutoPlay:  autoPlay,
	}
}

// PlaybackStartedEvent is published when a play directive succeeds.
type PlaybackStartedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e PlaybackStartedEvent) Type() EventType {
	return EventPlaybackStarted
}

// NewPlaybackStartedEvent creates a new PlaybackStartedEvent.
func NewPlaybackStartedEvent(track Track) PlaybackStartedEvent {
	return PlaybackStartedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// PlaybackPausedEvent is published when playback is paused.
type PlaybackPausedEvent struct {
	baseEvent
	Track    Track
	Position float64
}

// Type returns the event type.
func (e PlaybackPausedEvent) Type() EventType {
	return EventPlaybackPaused
}

// NewPlaybackPausedEvent creates a new PlaybackPausedEvent.
func NewPlaybackPausedEvent(track Track, position float64) PlaybackPausedEvent {
	return PlaybackPausedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Position:  position,
	}
}

// PlaybackStoppedEvent is published when playback halts at the end of the list.
type PlaybackStoppedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e PlaybackStoppedEvent) Type() EventType {
	return EventPlaybackStopped
}

// NewPlaybackStoppedEvent creates a new PlaybackStoppedEvent.
func NewPlaybackStoppedEvent(track Track) PlaybackStoppedEvent {
	return PlaybackStoppedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackEndedEvent is published when a track finishes playing naturally.
type TrackEndedEvent struct {
	baseEvent
	Track  Track
	Repeat RepeatMode
}

// Type returns the event type.
func (e TrackEndedEvent) Type() EventType {
	return EventTrackEnded
}

// NewTrackEndedEvent creates a new TrackEndedEvent.
func NewTrackEndedEvent(track Track, repeat RepeatMode) TrackEndedEvent {
	return TrackEndedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Repeat:    repeat,
	}
}

// TrackProgressEvent is published when the displayed position or duration changes.
type TrackProgressEvent struct {
	baseEvent
	Position float64
	Duration float64
}

// Type returns the event type.
func (e TrackProgressEvent) Type() EventType {
	return EventTrackProgress
}

// NewTrackProgressEvent creates a new TrackProgressEvent.
func NewTrackProgressEvent(position, duration float64) TrackProgressEvent {
	return TrackProgressEvent{
		baseEvent: newBaseEvent(),
		Position:  position,
		Duration:  duration,
	}
}

// PlaybackFailedEvent is published when a play directive is rejected
// or the audio element reports an error.
type PlaybackFailedEvent struct {
	baseEvent
	Track Track
	Error error
}

// Type returns the event type.
func (e PlaybackFailedEvent) Type() EventType {
	return EventPlaybackFailed
}

// NewPlaybackFailedEvent creates a new PlaybackFailedEvent.
func NewPlaybackFailedEvent(track Track, err error) PlaybackFailedEvent {
	return PlaybackFailedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Error:     err,
	}
}

// VolumeChangedEvent is published when the volume changes.
type VolumeChangedEvent struct {
	baseEvent
	Volume float64 // 0.0 to 1.0
}

// Type returns the event type.
func (e VolumeChangedEvent) Type() EventType {
	return EventVolumeChanged
}

// NewVolumeChangedEvent creates a new VolumeChangedEvent.
func NewVolumeChangedEvent(volume float64) VolumeChangedEvent {
	return VolumeChangedEvent{
		baseEvent: newBaseEvent(),
		Volume:    volume,
	}
}

// ShuffleToggledEvent is published when shuffle is toggled.
type ShuffleToggledEvent struct {
	baseEvent
	Enabled bool
}

// Type returns the event type.
func (e ShuffleToggledEvent) Type() EventType {
	return EventShuffleToggled
}

// NewShuffleToggledEvent creates a new ShuffleToggledEvent.
func NewShuffleToggledEvent(enabled bool) ShuffleToggledEvent {
	return ShuffleToggledEvent{
		baseEvent: newBaseEvent(),
		Enabled:   enabled,
	}
}

// RepeatChangedEvent is published when the repeat mode changes.
type RepeatChangedEvent struct {
	baseEvent
	Mode RepeatMode
}

// Type returns the event type.
func (e RepeatChangedEvent) Type() EventType {
	return EventRepeatChanged
}

// NewRepeatChangedEvent creates a new RepeatChangedEvent.
func NewRepeatChangedEvent(mode RepeatMode) RepeatChangedEvent {
	return RepeatChangedEvent{
		baseEvent: newBaseEvent(),
		Mode:      mode,
	}
}

// CatalogUpdatedEvent is published when the track list is replaced.
type CatalogUpdatedEvent struct {
	baseEvent
	Tracks       []Track
	CurrentIndex int
}

// Type returns the event type.
func (e CatalogUpdatedEvent) Type() EventType {
	return EventCatalogUpdated
}

// NewCatalogUpdatedEvent creates a new CatalogUpdatedEvent.
func NewCatalogUpdatedEvent(tracks []Track, currentIndex int) CatalogUpdatedEvent {
	return CatalogUpdatedEvent{
		baseEvent:    newBaseEvent(),
		Tracks:       tracks,
		CurrentIndex: currentIndex,
	}
}

// FavoritesChangedEvent is published when a track is favorited or unfavorited.
type FavoritesChangedEvent struct {
	baseEvent
	TrackID   string
	Favorite  bool
	Favorites []string // most recent first
}

// Type returns the event type.
func (e FavoritesChangedEvent) Type() EventType {
	return EventFavoritesChanged
}

// NewFavoritesChangedEvent creates a new FavoritesChangedEvent.
func NewFavoritesChangedEvent(trackID string, favorite bool, favorites []string) FavoritesChangedEvent {
	return FavoritesChangedEvent{
		baseEvent: newBaseEvent(),
		TrackID:   trackID,
		Favorite:  favorite,
		Favorites: favorites,
	}
}
