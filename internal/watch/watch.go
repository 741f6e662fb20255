// Package watch follows a file on disk and reports its settled contents.
//
// The parent directory is watched rather than the file itself so that
// editors that save by writing a temporary file and renaming it over the
// original are still observed.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives the file contents after each settled change. Returning an
// error stops Follow.
type Handler func(data []byte) error

// Config controls a Follow call.
type Config struct {
	// Debounce is how long the file must be quiet before it is read.
	// Zero uses DefaultDebounce.
	Debounce time.Duration

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Follow calls fn with the contents of path every time it changes, until ctx
// is done or fn returns an error. fn runs on the calling goroutine.
//
// Bursts of events within the debounce window produce one call. A removed
// file produces no call; following resumes when it reappears.
func Follow(ctx context.Context, path string, cfg Config, fn Handler) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("follow %s: %w", path, err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(slog.String("component", "watch"), slog.String("path", abs))

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(cfg.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !relevant(ev.Op) {
				continue
			}
			logger.Debug("file event", "op", ev.Op.String())
			timer.Reset(cfg.Debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)

		case <-timer.C:
			data, err := os.ReadFile(abs)
			if errors.Is(err, os.ErrNotExist) {
				logger.Debug("file removed; waiting for it to return")
				continue
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			if err := fn(data); err != nil {
				return err
			}
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
