// Package widgets provides custom Fyne widgets for the Yorum player.
package widgets

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/tejashwikalptaru/yorum/internal/input"
)

// GestureArea wraps content and turns taps and horizontal swipes into player actions.
// It's used around the album art: double tap toggles playback, swiping skips tracks.
type GestureArea struct {
	widget.BaseWidget

	content  fyne.CanvasObject
	taps     *input.TapDetector
	swipes   *input.SwipeDetector
	now      func() time.Time
	onAction func(input.Action)
}

// NewGestureArea creates a gesture area around content.
func NewGestureArea(content fyne.CanvasObject, onAction func(input.Action)) *GestureArea {
	g := &GestureArea{
		content:  content,
		taps:     input.NewTapDetector(input.DoubleTapWindow),
		swipes:   input.NewSwipeDetector(input.SwipeThreshold),
		now:      time.Now,
		onAction: onAction,
	}
	g.ExtendBaseWidget(g)
	return g
}

// CreateRenderer implements fyne.Widget.
func (g *GestureArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.content)
}

// Tapped implements fyne.Tappable.
func (g *GestureArea) Tapped(*fyne.PointEvent) {
	g.dispatch(g.taps.Tap(g.now()))
}

// Dragged implements fyne.Draggable.
func (g *GestureArea) Dragged(e *fyne.DragEvent) {
	g.swipes.Drag(e.Dragged.DX)
}

// DragEnd implements fyne.Draggable.
func (g *GestureArea) DragEnd() {
	g.dispatch(g.swipes.End())
}

// SetContent updates the wrapped content.
func (g *GestureArea) SetContent(content fyne.CanvasObject) {
	g.content = content
	g.Refresh()
}

func (g *GestureArea) dispatch(action input.Action) {
	if action != input.ActionNone && g.onAction != nil {
		g.onAction(action)
	}
}

// Ensure GestureArea implements the required interfaces
var _ fyne.Tappable = (*GestureArea)(nil)
var _ fyne.Draggable = (*GestureArea)(nil)
