package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// NewTestLogger returns a text logger on stdout at WARN, or DEBUG when
// TEST_DEBUG is set.
func NewTestLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("TEST_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// Entry is a log record kept by a Recorder.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// Recorder is a slog.Handler that keeps every record in memory, for tests
// asserting on what was logged. Attributes added with With are merged into
// each entry; groups are flattened.
type Recorder struct {
	state *recorderState
	attrs []slog.Attr
}

type recorderState struct {
	entries []Entry
	mu      sync.Mutex
}

// NewRecorder returns a logger writing into a new Recorder.
func NewRecorder() (*slog.Logger, *Recorder) {
	rec := &Recorder{state: &recorderState{}}
	return slog.New(rec), rec
}

// Enabled implements slog.Handler. Every level is recorded.
func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (r *Recorder) Handle(_ context.Context, record slog.Record) error {
	entry := Entry{
		Level:   record.Level,
		Message: record.Message,
		Attrs:   make(map[string]any, len(r.attrs)+record.NumAttrs()),
	}
	for _, attr := range r.attrs {
		entry.Attrs[attr.Key] = attr.Value.Any()
	}
	record.Attrs(func(attr slog.Attr) bool {
		entry.Attrs[attr.Key] = attr.Value.Any()
		return true
	})

	r.state.mu.Lock()
	r.state.entries = append(r.state.entries, entry)
	r.state.mu.Unlock()
	return nil
}

// WithAttrs implements slog.Handler.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), r.attrs...), attrs...)
	return &Recorder{state: r.state, attrs: merged}
}

// WithGroup implements slog.Handler.
func (r *Recorder) WithGroup(string) slog.Handler { return r }

// Entries returns the records at or above level, oldest first.
func (r *Recorder) Entries(level slog.Level) []Entry {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	var out []Entry
	for _, entry := range r.state.entries {
		if entry.Level >= level {
			out = append(out, entry)
		}
	}
	return out
}
