package widgets

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/tejashwikalptaru/yorum/internal/input"
)

// SeekBar is a progress bar that seeks when tapped or dragged.
// The pointer position maps linearly onto [0, duration].
type SeekBar struct {
	widget.BaseWidget

	bar      *widget.ProgressBar
	duration float64
	onSeek   func(seconds float64)

	mu sync.Mutex
}

// NewSeekBar creates a seek bar reporting seek targets to onSeek.
func NewSeekBar(onSeek func(seconds float64)) *SeekBar {
	bar := widget.NewProgressBar()
	bar.TextFormatter = func() string { return "" }

	s := &SeekBar{
		bar:    bar,
		onSeek: onSeek,
	}
	s.ExtendBaseWidget(s)
	return s
}

// CreateRenderer implements fyne.Widget.
func (s *SeekBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.bar)
}

// SetProgress shows current out of duration seconds.
func (s *SeekBar) SetProgress(current, duration float64) {
	s.mu.Lock()
	s.duration = duration
	s.mu.Unlock()

	if duration <= 0 {
		s.bar.Max = 1
		s.bar.SetValue(0)
		return
	}
	s.bar.Max = duration
	s.bar.SetValue(min(max(current, 0), duration))
}

// Tapped implements fyne.Tappable.
func (s *SeekBar) Tapped(e *fyne.PointEvent) {
	s.seek(e.Position.X)
}

// Dragged implements fyne.Draggable.
func (s *SeekBar) Dragged(e *fyne.DragEvent) {
	s.seek(e.Position.X)
}

// DragEnd implements fyne.Draggable.
func (s *SeekBar) DragEnd() {}

func (s *SeekBar) seek(x float32) {
	s.mu.Lock()
	duration := s.duration
	s.mu.Unlock()

	if duration <= 0 || s.onSeek == nil {
		return
	}
	s.onSeek(input.ProgressPosition(float64(x), float64(s.Size().Width), duration))
}

// Ensure SeekBar implements the required interfaces
var _ fyne.Tappable = (*SeekBar)(nil)
var _ fyne.Draggable = (*SeekBar)(nil)
