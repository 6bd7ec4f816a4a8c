// Package input maps raw keyboard, pointer and touch input to player intents.
// It holds no playback state; the window feeds it events and dispatches the
// resulting Action to the playback controller.
package input

import (
	"time"

	"fyne.io/fyne/v2"
)

// Action is a player intent derived from user input.
type Action int

const (
	// ActionNone means the input is not a shortcut.
	ActionNone Action = iota
	ActionTogglePlay
	ActionNext
	ActionPrevious
	ActionVolumeUp
	ActionVolumeDown
)

const (
	// VolumeStep is the volume change of one up/down key press.
	VolumeStep = 0.05

	// SwipeThreshold is the horizontal travel a drag must exceed to count as a swipe.
	SwipeThreshold = 60

	// DoubleTapWindow bounds the gap between the taps of a double tap, exclusive.
	DoubleTapWindow = 300 * time.Millisecond
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionTogglePlay:
		return "toggle-play"
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionVolumeUp:
		return "volume-up"
	case ActionVolumeDown:
		return "volume-down"
	default:
		return "none"
	}
}

// KeyAction maps a key press to an action. Keys typed while an input control
// (search entry, slider) has focus are left to that control.
func KeyAction(key fyne.KeyName, focusOnControl bool) Action {
	if focusOnControl {
		return ActionNone
	}

	switch key {
	case fyne.KeySpace:
		return ActionTogglePlay
	case fyne.KeyRight:
		return ActionNext
	case fyne.KeyLeft:
		return ActionPrevious
	case fyne.KeyUp:
		return ActionVolumeUp
	case fyne.KeyDown:
		return ActionVolumeDown
	default:
		return ActionNone
	}
}

// AdjustVolume applies a volume action to current and clamps the result to [0, 1].
// A non-positive step uses VolumeStep. Other actions return current unchanged.
func AdjustVolume(action Action, current, step float64) float64 {
	if step <= 0 {
		step = VolumeStep
	}
	switch action {
	case ActionVolumeUp:
		current += step
	case ActionVolumeDown:
		current -= step
	}
	return min(max(current, 0), 1)
}

// ProgressPosition maps a pointer at x over a progress region of the given
// width linearly onto [0, duration].
func ProgressPosition(x, width, duration float64) float64 {
	if width <= 0 || duration <= 0 {
		return 0
	}
	return min(max(x/width, 0), 1) * duration
}
