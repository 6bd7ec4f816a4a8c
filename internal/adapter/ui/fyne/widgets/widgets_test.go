package widgets

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/tejashwikalptaru/yorum/internal/input"
)

func TestMarquee(t *testing.T) {
	short := NewMarquee("Cemo", 10)
	assert.False(t, short.Scrolls())
	assert.Equal(t, "Cemo", short.Next())
	assert.Equal(t, "Cemo", short.Next())

	long := NewMarquee("Şişli", 3)
	assert.True(t, long.Scrolls())
	assert.Equal(t, "Şiş", long.Next())
	assert.Equal(t, "işl", long.Next())
	assert.Equal(t, "şli", long.Next())
	assert.Equal(t, "li ", long.Next())

	long.SetText("Yorum")
	assert.Equal(t, "Yor", long.Next())
}

func TestGestureArea(t *testing.T) {
	test.NewTempApp(t)

	var actions []input.Action
	area := NewGestureArea(widget.NewLabel("art"), func(a input.Action) {
		actions = append(actions, a)
	})

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	area.now = func() time.Time { return clock }

	area.Tapped(&fyne.PointEvent{})
	clock = clock.Add(200 * time.Millisecond)
	area.Tapped(&fyne.PointEvent{})

	area.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: -70}})
	area.DragEnd()

	area.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: 20}})
	area.DragEnd()

	assert.Equal(t, []input.Action{input.ActionTogglePlay, input.ActionNext}, actions)
}

func TestSeekBar(t *testing.T) {
	test.NewTempApp(t)

	var targets []float64
	bar := NewSeekBar(func(seconds float64) { targets = append(targets, seconds) })
	bar.Resize(fyne.NewSize(200, 20))

	// nothing to seek in before the duration is known
	bar.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 5)})

	bar.SetProgress(10, 180)
	bar.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 5)})
	bar.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(400, 5)}})

	assert.Equal(t, []float64{90, 180}, targets)
	assert.Equal(t, 10.0, bar.bar.Value)
	assert.Equal(t, 180.0, bar.bar.Max)
}
