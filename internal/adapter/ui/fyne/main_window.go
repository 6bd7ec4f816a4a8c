package fyne

import (
	"bytes"
	"image"
	_ "image/jpeg" // embedded artwork decoders
	_ "image/png"
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tejashwikalptaru/yorum/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/input"
	"github.com/tejashwikalptaru/yorum/internal/ports"
)

// Window properties.
const (
	APPNAME = "Yorum"
	WIDTH   = 900
	HEIGHT  = 600

	titleWidth     = 40
	scrollInterval = 300 * time.Millisecond

	favoriteMark   = "★"
	unfavoriteMark = "☆"
)

// MainWindow is the main UI window implementing the ports.View interface.
// It handles all UI rendering and user interactions.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
type MainWindow struct {
	app     fyneapp.App
	window  fyneapp.Window
	version string

	// UI components
	prevButton     *widget.Button
	playButton     *widget.Button
	nextButton     *widget.Button
	shuffleButton  *widget.Button
	repeatButton   *widget.Button
	sortButton     *widget.Button
	favoriteFilter *widget.Button
	refreshButton  *widget.Button
	searchEntry    *widget.Entry
	trackList      *widget.List
	titleLabel     *widget.Label
	artistLabel    *widget.Label
	currentTime    *widget.Label
	endTime        *widget.Label
	seekBar        *widgets.SeekBar
	volumeSlider   *widget.Slider
	albumArt       *canvas.Image

	// Rendered list (UI thread only)
	tracks    []domain.Track
	activeID  string
	favorites map[string]bool

	// State
	marquee    *widgets.Marquee
	stopScroll chan struct{}

	// Lifecycle management
	closeOnce     sync.Once
	onBeforeClose func()

	// Presenter (set after construction)
	presenter *Presenter
}

// NewMainWindow creates a new main window. version is shown in the about box.
func NewMainWindow(app fyneapp.App, version string) *MainWindow {
	w := &MainWindow{
		app:        app,
		version:    version,
		favorites:  map[string]bool{},
		marquee:    widgets.NewMarquee(NoTrackTitle, titleWidth),
		stopScroll: make(chan struct{}),
	}

	// Create a window
	w.window = app.NewWindow(APPNAME)

	// Build UI
	w.buildUI()

	// Set window properties
	w.window.Resize(fyneapp.NewSize(WIDTH, HEIGHT))
	w.window.SetCloseIntercept(func() {
		if w.onBeforeClose != nil {
			w.onBeforeClose()
		}
		w.Close()
	})

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wirePresenterHandlers()
	w.addShortcuts()
}

// SetOnBeforeClose registers a callback run before the window closes.
func (w *MainWindow) SetOnBeforeClose(callback func()) {
	w.onBeforeClose = callback
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	// Album art display, double tap and swipe aware
	w.albumArt = canvas.NewImageFromResource(theme.MediaMusicIcon())
	w.albumArt.FillMode = canvas.ImageFillContain
	w.albumArt.SetMinSize(fyneapp.NewSize(260, 260))
	artArea := widgets.NewGestureArea(w.albumArt, func(action input.Action) {
		if w.presenter != nil {
			w.presenter.OnInput(action)
		}
	})

	// Track info
	w.titleLabel = widget.NewLabel(NoTrackTitle)
	w.titleLabel.Alignment = fyneapp.TextAlignCenter
	w.titleLabel.TextStyle = fyneapp.TextStyle{Bold: true}
	w.artistLabel = widget.NewLabel("")
	w.artistLabel.Alignment = fyneapp.TextAlignCenter
	w.artistLabel.TextStyle = fyneapp.TextStyle{Italic: true}

	// List toolbar
	w.searchEntry = widget.NewEntry()
	w.searchEntry.SetPlaceHolder("Ara...")
	w.sortButton = widget.NewButtonWithIcon("A-Z", theme.MenuDropDownIcon(), nil)
	w.favoriteFilter = widget.NewButton(unfavoriteMark, nil)
	w.refreshButton = widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), nil)
	toolbar := container.NewBorder(nil, nil, nil,
		container.NewHBox(w.sortButton, w.favoriteFilter, w.refreshButton),
		w.searchEntry)

	// Track list
	w.trackList = widget.NewList(
		func() int { return len(w.tracks) },
		w.createRow,
		w.updateRow,
	)

	// Transport
	w.prevButton = widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), nil)
	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	w.nextButton = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), nil)
	w.shuffleButton = widget.NewButtonWithIcon("", theme.MediaFastForwardIcon(), nil)
	w.repeatButton = widget.NewButtonWithIcon("", theme.MediaReplayIcon(), nil)
	buttons := container.NewHBox(
		w.shuffleButton, w.prevButton, w.playButton, w.nextButton, w.repeatButton,
	)

	// Volume slider
	w.volumeSlider = widget.NewSlider(0, 1)
	w.volumeSlider.Step = 0.01
	volIcon := canvas.NewImageFromResource(theme.VolumeUpIcon())
	volIcon.SetMinSize(fyneapp.NewSize(20, 20))
	volumeHolder := container.NewBorder(nil, nil, volIcon, nil, w.volumeSlider)

	// Progress region
	w.seekBar = widgets.NewSeekBar(func(seconds float64) {
		if w.presenter != nil {
			w.presenter.OnSeekRequested(seconds)
		}
	})
	w.currentTime = widget.NewLabel(domain.FormatTime(0))
	w.endTime = widget.NewLabel(domain.FormatTime(0))
	sliderHolder := container.NewBorder(nil, nil, w.currentTime, w.endTime, w.seekBar)

	// Main layout
	nowPlaying := container.NewVBox(
		artArea,
		w.titleLabel,
		w.artistLabel,
		sliderHolder,
		container.NewHBox(layout.NewSpacer(), buttons, layout.NewSpacer()),
		volumeHolder,
	)
	library := container.NewBorder(toolbar, nil, nil, nil, w.trackList)
	split := container.NewHSplit(library, container.NewPadded(nowPlaying))
	split.Offset = 0.45
	w.window.SetContent(split)

	// Menu
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
}

// createRow builds a list row template: favorite toggle and track label.
func (w *MainWindow) createRow() fyneapp.CanvasObject {
	favorite := widget.NewButton(unfavoriteMark, nil)
	favorite.Importance = widget.LowImportance
	label := widget.NewLabel("")
	label.Truncation = fyneapp.TextTruncateEllipsis
	return container.NewBorder(nil, nil, favorite, nil, label)
}

// updateRow binds a row to the track at id.
func (w *MainWindow) updateRow(id widget.ListItemID, item fyneapp.CanvasObject) {
	if id < 0 || id >= len(w.tracks) {
		return
	}
	track := w.tracks[id]

	row := item.(*fyneapp.Container)
	label := row.Objects[0].(*widget.Label)
	favorite := row.Objects[1].(*widget.Button)

	label.SetText(track.Title + " · " + track.Artist)
	label.TextStyle = fyneapp.TextStyle{Bold: track.ID == w.activeID}
	label.Refresh()

	if w.favorites[track.ID] {
		favorite.SetText(favoriteMark)
	} else {
		favorite.SetText(unfavoriteMark)
	}
	favorite.OnTapped = func() {
		if w.presenter != nil {
			w.presenter.OnFavoriteClicked(track.ID)
		}
	}
}

// wirePresenterHandlers connects UI events to presenter handlers.
func (w *MainWindow) wirePresenterHandlers() {
	if w.presenter == nil {
		return
	}

	// Button handlers
	w.playButton.OnTapped = w.presenter.OnPlayClicked
	w.nextButton.OnTapped = w.presenter.OnNextClicked
	w.prevButton.OnTapped = w.presenter.OnPreviousClicked
	w.shuffleButton.OnTapped = w.presenter.OnShuffleClicked
	w.repeatButton.OnTapped = w.presenter.OnRepeatClicked
	w.refreshButton.OnTapped = w.presenter.OnRefreshClicked
	w.favoriteFilter.OnTapped = w.presenter.OnFavoritesFilterClicked

	w.sortButton.OnTapped = func() {
		if w.presenter.OnSortClicked() {
			w.sortButton.SetText("Z-A")
		} else {
			w.sortButton.SetText("A-Z")
		}
	}

	// Search
	w.searchEntry.OnChanged = w.presenter.OnSearchChanged

	// Track list
	w.trackList.OnSelected = func(id widget.ListItemID) {
		if id >= 0 && id < len(w.tracks) {
			w.presenter.OnTrackSelected(w.tracks[id].ID)
		}
		w.trackList.UnselectAll()
	}

	// Volume slider
	w.volumeSlider.OnChanged = w.presenter.OnVolumeChanged
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	refresh := fyneapp.NewMenuItem("Listeyi yenile", func() {
		if w.presenter != nil {
			w.presenter.OnRefreshClicked()
		}
	})

	about := fyneapp.NewMenuItem("Hakkında", func() {
		ShowAboutDialog(w.window, w.version)
	})

	fileMenu := fyneapp.NewMenu("Yorum", refresh, fyneapp.NewMenuItemSeparator(), about)
	return []*fyneapp.Menu{fileMenu}
}

// addShortcuts routes unhandled key presses to the presenter.
// Keys typed into a focused control (the search entry) never reach this handler.
func (w *MainWindow) addShortcuts() {
	w.window.Canvas().SetOnTypedKey(func(event *fyneapp.KeyEvent) {
		focused := w.window.Canvas().Focused() != nil
		if action := input.KeyAction(event.Name, focused); action != input.ActionNone {
			w.presenter.OnInput(action)
		}
	})
}

// startScrollInfoRoutine scrolls titles that do not fit the label.
func (w *MainWindow) startScrollInfoRoutine() {
	go func() {
		ticker := time.NewTicker(scrollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stopScroll:
				return
			case <-ticker.C:
				if !w.marquee.Scrolls() {
					continue
				}
				text := w.marquee.Next()
				fyneapp.Do(func() {
					w.titleLabel.SetText(text)
				})
			}
		}
	}()
}

// ShowAndRun shows the window and runs the application.
// This also starts the title scrolling.
func (w *MainWindow) ShowAndRun() {
	w.startScrollInfoRoutine()
	w.window.ShowAndRun()
}

// Close closes the window and stops the title scrolling.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		close(w.stopScroll)
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// ports.View implementation. Calls may come from any goroutine.

// SetTrackInfo shows the title and artist.
func (w *MainWindow) SetTrackInfo(title, artist string) {
	w.marquee.SetText(title)
	text := w.marquee.Next()
	fyneapp.Do(func() {
		w.titleLabel.SetText(text)
		w.artistLabel.SetText(artist)
	})
}

// SetAlbumArt updates the album artwork. Undecodable or missing data shows the default icon.
func (w *MainWindow) SetAlbumArt(imageData []byte) {
	var img image.Image
	if len(imageData) > 0 {
		if decoded, _, err := image.Decode(bytes.NewReader(imageData)); err == nil {
			img = decoded
		}
	}

	fyneapp.Do(func() {
		w.albumArt.Image = img
		if img == nil {
			w.albumArt.Resource = theme.MediaMusicIcon()
		} else {
			w.albumArt.Resource = nil
		}
		w.albumArt.Refresh()
	})
}

// SetPlayState updates the play/pause button state.
func (w *MainWindow) SetPlayState(playing bool) {
	fyneapp.Do(func() {
		if playing {
			w.playButton.SetIcon(theme.MediaPauseIcon())
		} else {
			w.playButton.SetIcon(theme.MediaPlayIcon())
		}
	})
}

// SetProgress updates the progress region and the time labels.
func (w *MainWindow) SetProgress(current, total float64) {
	fyneapp.Do(func() {
		w.seekBar.SetProgress(current, total)
		w.currentTime.SetText(domain.FormatTime(current))
		w.endTime.SetText(domain.FormatTime(total))
	})
}

// SetVolume updates the volume slider without triggering its change handler.
func (w *MainWindow) SetVolume(volume float64) {
	fyneapp.Do(func() {
		w.volumeSlider.Value = volume
		w.volumeSlider.Refresh()
	})
}

// SetShuffle highlights the shuffle button.
func (w *MainWindow) SetShuffle(enabled bool) {
	fyneapp.Do(func() {
		w.shuffleButton.Importance = highlight(enabled)
		w.shuffleButton.Refresh()
	})
}

// SetRepeat shows the repeat mode.
func (w *MainWindow) SetRepeat(mode domain.RepeatMode) {
	fyneapp.Do(func() {
		w.repeatButton.Importance = highlight(mode != domain.RepeatOff)
		if mode == domain.RepeatOne {
			w.repeatButton.SetText("1")
		} else {
			w.repeatButton.SetText("")
		}
		w.repeatButton.Refresh()
	})
}

// SetTrackList renders the list, highlighting activeID.
func (w *MainWindow) SetTrackList(tracks []domain.Track, activeID string, favorites map[string]bool) {
	fyneapp.Do(func() {
		w.tracks = tracks
		w.activeID = activeID
		w.favorites = favorites
		w.trackList.Refresh()
	})
}

// SetFavoritesFilter reflects whether only favorites are listed.
func (w *MainWindow) SetFavoritesFilter(enabled bool) {
	fyneapp.Do(func() {
		if enabled {
			w.favoriteFilter.SetText(favoriteMark)
		} else {
			w.favoriteFilter.SetText(unfavoriteMark)
		}
		w.favoriteFilter.Importance = highlight(enabled)
		w.favoriteFilter.Refresh()
	})
}

// ShowNotification displays a system notification.
func (w *MainWindow) ShowNotification(title, message string) {
	w.app.SendNotification(fyneapp.NewNotification(title, message))
}

func highlight(on bool) widget.Importance {
	if on {
		return widget.HighImportance
	}
	return widget.MediumImportance
}

// Verify View implementation
var _ ports.View = (*MainWindow)(nil)
