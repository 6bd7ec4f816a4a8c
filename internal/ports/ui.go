// Package ports define the UI interface for view abstraction.
// This interface allows the presenter to update the UI without depending on Fyne directly.
package ports

import (
	"github.com/tejashwikalptaru/yorum/internal/domain"
)

// View is the rendering surface driven by the presenter.
// It holds no playback state of its own.
//
// Thread-safety: The presenter may call these methods from any goroutine;
// implementations hop onto their UI thread themselves.
type View interface {
	// SetTrackInfo shows the title and artist of the selected track.
	SetTrackInfo(title, artist string)

	// SetAlbumArt shows embedded artwork; nil clears it.
	SetAlbumArt(imageData []byte)

	// SetPlayState switches the play/pause button.
	SetPlayState(playing bool)

	// SetProgress updates the progress region and the time labels.
	SetProgress(current, total float64)

	// SetVolume updates the volume slider (0.0 to 1.0).
	SetVolume(volume float64)

	// SetShuffle highlights the shuffle button.
	SetShuffle(enabled bool)

	// SetRepeat shows the repeat mode.
	SetRepeat(mode domain.RepeatMode)

	// SetTrackList renders the filtered and sorted list, highlighting activeID.
	SetTrackList(tracks []domain.Track, activeID string, favorites map[string]bool)

	// SetFavoritesFilter reflects whether only favorites are listed.
	SetFavoritesFilter(enabled bool)

	// ShowNotification displays a transient message.
	ShowNotification(title, message string)
}
