package beep

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/logger"
	"github.com/tejashwikalptaru/yorum/internal/testutil"
)

// These tests stay away from the speaker: they only exercise paths that fail
// before an audio device would be opened.

type recordingListener struct {
	mu     sync.Mutex
	errors []error
	metas  []float64
	ended  int
}

func (l *recordingListener) OnTimeUpdate(float64) {}

func (l *recordingListener) OnMetadataLoaded(duration float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.metas = append(l.metas, duration)
}

func (l *recordingListener) OnEnded() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ended++
}

func (l *recordingListener) OnPlaybackError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, err)
}

func (l *recordingListener) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

func newTestElement(t *testing.T) (*Element, *recordingListener) {
	t.Helper()
	element := NewElement(logger.NewTestLogger())
	listener := &recordingListener{}
	element.SetListener(listener)
	return element, listener
}

func TestElement_LoadMissingFile(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	element, listener := newTestElement(t)
	element.Load(filepath.Join(t.TempDir(), "absent.mp3"))

	require.Eventually(t, func() bool { return listener.errorCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, errors.Is(listener.errors[0], domain.ErrInvalidFilePath))
	assert.Empty(t, listener.metas)

	require.NoError(t, element.Close())
}

func TestElement_LoadUndecodableFile(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	path := filepath.Join(t.TempDir(), "noise.mp3")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an mp3 stream"), 0o644))

	element, listener := newTestElement(t)
	element.Load(path)
	result := element.Play()

	select {
	case err := <-result:
		assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
	case <-time.After(time.Second):
		t.Fatal("play outcome not resolved")
	}
	require.Eventually(t, func() bool { return listener.errorCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, element.Paused())

	require.NoError(t, element.Close())
}

func TestElement_PlayWithoutSource(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	element, _ := newTestElement(t)

	err := <-element.Play()
	assert.True(t, errors.Is(err, domain.ErrNoTrackLoaded))
	assert.True(t, element.Paused())

	require.NoError(t, element.Close())
}

func TestElement_SeekBeforeLoadIsStaged(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	element, _ := newTestElement(t)

	element.SetCurrentTime(12.5)
	assert.Equal(t, 12.5, element.CurrentTime())

	element.SetCurrentTime(-3)
	assert.Equal(t, 0.0, element.CurrentTime())

	require.NoError(t, element.Close())
}

func TestElement_Close(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	element, listener := newTestElement(t)
	require.NoError(t, element.Close())
	assert.True(t, errors.Is(element.Close(), domain.ErrClosed))

	assert.True(t, errors.Is(<-element.Play(), domain.ErrClosed))

	// directives after close are ignored
	element.Load("/nowhere.mp3")
	element.Preload("/nowhere.mp3")
	element.SetVolume(0.3)
	element.Pause()
	assert.Equal(t, 0, listener.errorCount())
}

func TestElement_CloseRejectsWaitingPlay(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	path := filepath.Join(t.TempDir(), "absent.mp3")
	element, _ := newTestElement(t)
	element.Load(path)
	result := element.Play()
	require.NoError(t, element.Close())

	select {
	case err := <-result:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("play outcome not resolved")
	}
}

func TestElement_SetVolumeClamps(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	element := NewElement(logger.NewTestLogger())

	element.SetVolume(2)
	assert.Equal(t, 1.0, element.level)
	element.SetVolume(-1)
	assert.Equal(t, 0.0, element.level)

	require.NoError(t, element.Close())
}

func TestApplyLevel(t *testing.T) {
	v := &effects.Volume{Base: 2}

	applyLevel(v, 1)
	assert.False(t, v.Silent)
	assert.Equal(t, 0.0, v.Volume)

	applyLevel(v, 0.5)
	assert.False(t, v.Silent)
	assert.InDelta(t, -1.0, v.Volume, 1e-9)

	applyLevel(v, 0.25)
	assert.InDelta(t, -2.0, v.Volume, 1e-9)

	applyLevel(v, 0)
	assert.True(t, v.Silent)
}
