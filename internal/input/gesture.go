package input

import (
	"sync"
	"time"
)

// SwipeDetector turns a horizontal drag into a previous/next action.
// A swipe to the right goes back, a swipe to the left goes forward.
type SwipeDetector struct {
	threshold float32
	travel    float32
	dragging  bool

	mu sync.Mutex
}

// NewSwipeDetector creates a detector; a non-positive threshold uses SwipeThreshold.
func NewSwipeDetector(threshold float32) *SwipeDetector {
	if threshold <= 0 {
		threshold = SwipeThreshold
	}
	return &SwipeDetector{threshold: threshold}
}

// Drag accumulates the horizontal movement of an ongoing drag.
func (d *SwipeDetector) Drag(dx float32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dragging = true
	d.travel += dx
}

// End finishes the drag and returns the swipe action, if any.
func (d *SwipeDetector) End() Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	travel := d.travel
	wasDragging := d.dragging
	d.travel = 0
	d.dragging = false

	switch {
	case !wasDragging:
		return ActionNone
	case travel > d.threshold:
		return ActionPrevious
	case travel < -d.threshold:
		return ActionNext
	default:
		return ActionNone
	}
}

// TapDetector recognizes two taps within DoubleTapWindow as a play/pause toggle.
type TapDetector struct {
	window  time.Duration
	lastTap time.Time

	mu sync.Mutex
}

// NewTapDetector creates a detector; a non-positive window uses DoubleTapWindow.
func NewTapDetector(window time.Duration) *TapDetector {
	if window <= 0 {
		window = DoubleTapWindow
	}
	return &TapDetector{window: window}
}

// Tap registers a tap at now. It returns ActionTogglePlay when the tap
// completes a double tap; the pair is then consumed.
func (d *TapDetector) Tap(now time.Time) Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.lastTap.IsZero() && now.Sub(d.lastTap) < d.window {
		d.lastTap = time.Time{}
		return ActionTogglePlay
	}
	d.lastTap = now
	return ActionNone
}
