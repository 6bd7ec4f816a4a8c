// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the Yorum music player.
package domain

import (
	"fmt"
	"math"
)

// Track represents a single playable audio item.
// Tracks are immutable once produced by the catalog.
type Track struct {
	// ID is the stable identifier of the track (source file name without extension).
	// It is the only key that survives catalog reloads and sessions.
	ID string

	// Title is the display title derived from the source file name
	Title string

	// Artist is the performing artist name
	Artist string

	// MediaLocator is what the audio element loads (a file path)
	MediaLocator string

	// Duration is an optional preformatted duration label
	Duration string
}

// RepeatMode controls what happens when a track finishes naturally.
type RepeatMode int

const (
	// RepeatOff stops playback at the end of the list
	RepeatOff RepeatMode = iota

	// RepeatAll wraps to the start of the list
	RepeatAll

	// RepeatOne restarts the same track
	RepeatOne
)

// String returns a human-readable representation of the repeat mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}

// Next returns the following mode in the off → all → one → off cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// PlaybackStatus represents the controller state machine state.
type PlaybackStatus int

const (
	// StatusEmpty indicates there are no tracks to play
	StatusEmpty PlaybackStatus = iota

	// StatusIdle indicates a track is selected but not playing
	StatusIdle

	// StatusPlaying indicates playback is active
	StatusPlaying

	// StatusSeeking indicates playback is suspended while a seek settles
	StatusSeeking

	// StatusEnded names the end of a track. OnEnded resolves it into the next
	// transition under the same lock, so State never reports it.
	StatusEnded
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusSeeking:
		return "seeking"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// NoIndex marks an unresolved current index (empty track list).
const NoIndex = -1

// PlaybackState is a snapshot of the controller state handed to consumers.
// The controller owns the live state; snapshots are copies.
type PlaybackState struct {
	// Tracks is the ordered track list
	Tracks []Track

	// CurrentIndex is the selected index, or NoIndex if the list is empty
	CurrentIndex int

	// CurrentTrack is the selected track (nil if none)
	CurrentTrack *Track

	// Status is the state machine state
	Status PlaybackStatus

	// IsPlaying mirrors the last issued play/pause directive
	IsPlaying bool

	// Shuffle is the shuffle flag
	Shuffle bool

	// Repeat is the repeat mode
	Repeat RepeatMode

	// CurrentTime is the displayed position in seconds
	CurrentTime float64

	// Duration is the track length in seconds (0 if unknown)
	Duration float64

	// Volume is the output volume (0.0 to 1.0)
	Volume float64
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// FormatTime renders seconds as m:ss. Invalid or negative values render as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	whole := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}
