package scratchcard

import (
	"io"
	"log/slog"
	"os"
)

// Toggle is the persistence switch shared by every component of a session.
// When off, no snapshot is read or written; stored data is left alone.
type Toggle struct {
	enabled bool
}

// NewToggle returns a toggle in the given state.
func NewToggle(enabled bool) *Toggle {
	return &Toggle{enabled: enabled}
}

// Enabled reports whether persistence is on. A nil toggle is off.
func (t *Toggle) Enabled() bool {
	return t != nil && t.enabled
}

// Set switches persistence on or off.
func (t *Toggle) Set(enabled bool) {
	t.enabled = enabled
}

// Session carries the collaborators shared by every card and the modal.
// It replaces what would otherwise be page-wide globals.
type Session struct {
	Store   *Store
	Persist *Toggle
	Log     *slog.Logger

	// Radius overrides EraseRadius when positive.
	Radius float64
	// Overlay overrides ColorOverlay when its alpha is non-zero.
	Overlay Color
}

// NewSession returns a session over store with persistence initially set to
// persist. A nil logger discards output.
func NewSession(store *Store, persist bool, log *slog.Logger) *Session {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if store != nil && store.log == nil {
		store.log = log
	}
	toggle := NewToggle(persist)
	if store != nil {
		store.toggle = toggle
	}
	return &Session{Store: store, Persist: toggle, Log: log}
}

func (s *Session) logger() *slog.Logger {
	if s.Log == nil {
		s.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Log
}

func (s *Session) eraseRadius() float64 {
	if s.Radius > 0 {
		return s.Radius
	}
	return EraseRadius
}

func (s *Session) overlayColor() Color {
	if s.Overlay.A > 0 {
		return s.Overlay
	}
	return ColorOverlay
}

// newSurface creates a surface configured with the session's overlay color.
func (s *Session) newSurface(w, h int) *Surface {
	surf := NewSurface(w, h)
	surf.SetOverlayColor(s.overlayColor())
	return surf
}

// NewLogger returns the structured logger used by the app. Debug output is
// enabled when debug is true.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", "scratchcard")
}
