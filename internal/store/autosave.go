package store

import (
	"context"
	"fmt"

	"github.com/dshills/rewind/internal/engine"
)

// Saver persists snapshots by key. *Store implements it.
type Saver interface {
	Save(ctx context.Context, key string, snap engine.Snapshot) error
}

// Autosaver saves an engine's snapshot after every change notification.
type Autosaver struct {
	unsubscribe func()
	err         error
}

// Autosave starts saving e's snapshot under key after every change. Saving
// stops at the first failure, which Err and Stop report.
func Autosave(ctx context.Context, s Saver, e *engine.Engine, key string) *Autosaver {
	a := &Autosaver{}
	a.unsubscribe = e.Subscribe(func(state any, patches engine.Patches, position int) {
		if a.err != nil {
			return
		}
		snap := engine.Snapshot{Value: state, Patches: patches, Position: position}
		if err := s.Save(ctx, key, snap); err != nil {
			a.err = fmt.Errorf("autosave %s: %w", e.ID(), err)
		}
	})
	return a
}

// Err returns the first save failure, if any.
func (a *Autosaver) Err() error {
	return a.err
}

// Stop ends saving and returns the first save failure. It may be called more
// than once.
func (a *Autosaver) Stop() error {
	a.unsubscribe()
	return a.err
}
