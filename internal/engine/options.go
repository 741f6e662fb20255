package engine

import (
	"log/slog"

	"github.com/dshills/rewind/internal/engine/history"
	"github.com/dshills/rewind/internal/metrics"
)

// Default configuration values.
const (
	DefaultMaxHistory = 10
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithMaxHistory sets how many history entries are retained.
// Zero disables retention; reset still works. Negative values make New fail.
func WithMaxHistory(max int) Option {
	return func(e *Engine) {
		e.maxHistory = max
	}
}

// WithInitialPosition sets the starting position within the initial patches.
// Out-of-range values are clamped.
func WithInitialPosition(pos int) Option {
	return func(e *Engine) {
		e.initPosition = pos
	}
}

// WithInitialPatches rehydrates the engine with a previously saved log.
func WithInitialPatches(p history.Patches) Option {
	return func(e *Engine) {
		e.initPatches = p
	}
}

// WithAutoArchive controls whether every edit becomes its own history entry.
// When disabled, edits accumulate until Archive is called.
func WithAutoArchive(auto bool) Option {
	return func(e *Engine) {
		e.autoArchive = auto
	}
}

// WithMutable makes the engine update the live value in place instead of
// producing a new value on every change.
func WithMutable(mutable bool) Option {
	return func(e *Engine) {
		e.mutable = mutable
	}
}

// WithPatchEngine sets the diff/apply implementation.
func WithPatchEngine(pe PatchEngine) Option {
	return func(e *Engine) {
		if pe != nil {
			e.patcher = pe
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// WithID sets the engine identifier used in logs. A random UUID is used
// by default.
func WithID(id string) Option {
	return func(e *Engine) {
		e.id = id
	}
}
