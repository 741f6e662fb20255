package engine

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dshills/rewind/internal/engine/history"
	"github.com/dshills/rewind/internal/engine/patch"
	"github.com/dshills/rewind/internal/metrics"
)

// Re-export commonly used types for convenience.
type (
	// Edit describes a change to the state.
	Edit = patch.Edit

	// PatchSet is one transition in the history.
	PatchSet = patch.PatchSet

	// Patches is the visible history log.
	Patches = history.Patches
)

// Re-export edit constructors.
var (
	Replace = patch.Replace
	Compute = patch.Compute
	Mutate  = patch.Mutate
)

// PatchEngine computes and applies patches. patch.JSONEngine is the default.
type PatchEngine interface {
	// Diff evaluates edit against base without modifying base.
	Diff(base any, edit patch.Edit) (patch.Result, error)

	// Apply applies patches to base, in place when inPlace is true.
	Apply(base any, patches patch.PatchSet, inPlace bool) (any, error)
}

// Engine keeps a value together with a navigable history of its edits.
//
// An Engine is not safe for concurrent use. It assumes a single writer and
// runs every operation to completion before returning.
type Engine struct {
	id      string
	patcher PatchEngine
	logger  *slog.Logger
	metrics *metrics.Recorder

	// Configuration
	maxHistory  int
	autoArchive bool
	mutable     bool

	// Live state
	value    any
	log      *history.Log
	batch    history.Batch
	position int
	replayer history.Replayer

	// Reset target
	initial Snapshot

	hub       hub
	notifying bool
	queued    []queuedCall

	warnedFallback bool

	// Initialization
	initPosition int
	initPatches  history.Patches
}

// New creates an Engine holding initial.
//
// A negative max history is rejected. A malformed initial log (mismatched
// forward/inverse lengths) is logged and cut to the usable part. The initial
// log is trimmed to the max history, and the initial position is clamped and
// shifted to match.
func New(initial any, opts ...Option) (*Engine, error) {
	e := &Engine{
		patcher:     patch.NewJSONEngine(),
		maxHistory:  DefaultMaxHistory,
		autoArchive: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.maxHistory < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeMaxHistory, e.maxHistory)
	}
	if e.id == "" {
		e.id = uuid.NewString()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With(slog.String("component", "engine"), slog.String("engine_id", e.id))

	log, ok := history.NewLog(e.initPatches)
	if !ok {
		e.logger.Warn("initial log has mismatched lengths; using the common prefix",
			"forward", len(e.initPatches.Forward),
			"inverse", len(e.initPatches.Inverse))
	}

	pos := clamp(e.initPosition, 0, log.Len())
	if pos != e.initPosition {
		e.logger.Warn("initial position out of range; clamped",
			"position", e.initPosition, "clamped", pos)
	}
	if trimmed := log.Trim(e.maxHistory); trimmed > 0 {
		pos = max(0, pos-trimmed)
		e.logger.Debug("initial log trimmed to max history",
			"trimmed", trimmed, "max_history", e.maxHistory)
	}

	e.value = initial
	e.log = log
	e.position = pos

	snapValue := initial
	if e.mutable {
		snapValue = patch.Clone(initial)
	}
	e.initial = Snapshot{Value: snapValue, Patches: log.Patches(), Position: pos}
	e.initPatches = history.Patches{}

	return e, nil
}

// ID returns the engine identifier.
func (e *Engine) ID() string {
	return e.id
}

// MaxHistory returns the history capacity.
func (e *Engine) MaxHistory() int {
	return e.maxHistory
}

// IsMutable reports whether the live value is updated in place.
func (e *Engine) IsMutable() bool {
	return e.mutable
}

// IsAutoArchive reports whether every edit is committed immediately.
func (e *Engine) IsAutoArchive() bool {
	return e.autoArchive
}

// State returns the current value. In mutable mode this is the live value
// and must only be changed through SetState.
func (e *Engine) State() any {
	return e.value
}

// Position returns the index of the current state within the visible log.
func (e *Engine) Position() int {
	return e.position
}

// Patches returns the visible log: committed entries plus, in manual-archive
// mode, one consolidated entry for pending edits.
func (e *Engine) Patches() Patches {
	return history.Visible(e.log, &e.batch)
}

// visibleLen is the length of the visible log without building it.
func (e *Engine) visibleLen() int {
	if e.batch.Empty() {
		return e.log.Len()
	}
	return e.log.Len() + 1
}

// SetState records an edit. An edit that changes nothing is ignored: no
// history entry is added and listeners are not called.
func (e *Engine) SetState(edit Edit) error {
	if e.deferCall("set_state", func() error { return e.SetState(edit) }) {
		return nil
	}

	edit = edit.Resolve()
	res, err := e.patcher.Diff(e.value, edit)
	if err != nil {
		return fmt.Errorf("diff %s edit: %w", edit.Kind(), err)
	}
	if res.Empty() {
		e.metrics.Noop()
		return nil
	}

	next, err := e.write(edit, res)
	if err != nil {
		return fmt.Errorf("write %s edit: %w", edit.Kind(), err)
	}
	e.value = next

	if e.autoArchive {
		e.commit(res.Forward, res.Inverse)
	} else {
		e.stage(res.Forward, res.Inverse)
	}

	e.replayer.Invalidate()
	e.notify()
	return nil
}

// commit appends an entry in auto-archive mode, discarding any future branch.
func (e *Engine) commit(forward, inverse PatchSet) {
	if e.position < e.log.Len() {
		e.log.Truncate(e.position)
	}
	e.log.Append(forward, inverse)
	e.position++
	e.trim()
	e.metrics.Commit(metrics.ModeAuto)
}

// stage adds an entry to the pending batch in manual-archive mode. Only the
// first pending entry advances the position.
func (e *Engine) stage(forward, inverse PatchSet) {
	if e.position < e.visibleLen() {
		e.log.Truncate(e.position)
		e.batch.Clear()
	}
	if e.batch.Empty() {
		e.position++
	}
	e.batch.Add(forward, inverse)
	e.metrics.Commit(metrics.ModeManual)
}

// trim applies the capacity bound, shifts the position with the window and
// returns how many entries were dropped.
func (e *Engine) trim() int {
	n := e.log.Trim(e.maxHistory)
	if n > 0 {
		e.position = max(0, e.position-n)
		e.metrics.Trim(n)
	}
	return n
}

// Archive consolidates pending edits into one history entry.
// It does nothing when auto-archive is enabled or nothing is pending.
func (e *Engine) Archive() {
	if e.deferCall("archive", func() error { e.Archive(); return nil }) {
		return
	}
	if e.autoArchive {
		e.logger.Warn("archive has no effect while auto-archive is enabled")
		return
	}
	if ok, _ := e.archive(); !ok {
		return
	}
	e.replayer.Invalidate()
	e.notify()
}

// archive moves the pending batch into the log. It reports whether anything
// was pending and how many old entries the capacity bound dropped.
func (e *Engine) archive() (ok bool, trimmed int) {
	if e.batch.Empty() {
		return false, 0
	}
	forward, inverse := e.batch.Consolidate()
	e.log.Append(forward, inverse)
	e.batch.Clear()
	trimmed = e.trim()
	e.metrics.Archive()
	return true, trimmed
}

// CanArchive reports whether Archive would commit anything. It is always
// false in auto-archive mode.
func (e *Engine) CanArchive() bool {
	return !e.autoArchive && !e.batch.Empty()
}

// Go moves to the state at target, committing any pending edits first.
// target indexes the visible log as it was before the commit; if committing
// drops old entries, target shifts with the window. Targets outside the log
// are clamped.
func (e *Engine) Go(target int) error {
	if e.deferCall("go", func() error { return e.Go(target) }) {
		return nil
	}
	return e.goTo(target)
}

func (e *Engine) goTo(target int) error {
	archived, trimmed := e.archive()
	if archived {
		e.replayer.Invalidate()
	}

	n := e.log.Len()
	dest := clamp(target, 0, n+trimmed)
	if dest != target {
		e.logger.Warn("go target out of range; clamped",
			"target", target, "clamped", dest, "length", n+trimmed)
	}
	dest = max(0, dest-trimmed)
	if dest == e.position {
		if archived {
			e.notify()
		}
		return nil
	}

	var seq PatchSet
	direction := metrics.DirectionForward
	if dest < e.position {
		direction = metrics.DirectionBack
		for i := e.position - 1; i >= dest; i-- {
			seq = append(seq, e.log.Inverse(i)...)
		}
	} else {
		for i := e.position; i < dest; i++ {
			seq = append(seq, e.log.Forward(i)...)
		}
	}

	inPlace := e.mutable && patch.ShapeOf(e.value).Composite() && !seq.HasRootReplace()
	next, err := e.patcher.Apply(e.value, seq, inPlace)
	if err != nil {
		return fmt.Errorf("go from %d to %d: %w", e.position, dest, err)
	}

	e.value = next
	e.position = dest
	e.replayer.Invalidate()
	e.metrics.Navigate(direction)
	e.notify()
	return nil
}

// Back moves n steps toward older states. Steps are counted from the
// position the call runs at, so a queued Back stays relative.
func (e *Engine) Back(n int) error {
	if e.deferCall("back", func() error { return e.Back(n) }) {
		return nil
	}
	return e.goTo(e.position - n)
}

// Forward moves n steps toward newer states.
func (e *Engine) Forward(n int) error {
	if e.deferCall("forward", func() error { return e.Forward(n) }) {
		return nil
	}
	return e.goTo(e.position + n)
}

// Undo is Back(1).
func (e *Engine) Undo() error {
	return e.Back(1)
}

// Redo is Forward(1).
func (e *Engine) Redo() error {
	return e.Forward(1)
}

// CanBack reports whether an older state is reachable.
func (e *Engine) CanBack() bool {
	return e.position > 0
}

// CanForward reports whether a newer state is reachable.
func (e *Engine) CanForward() bool {
	return e.position < e.visibleLen()
}

// History returns every reachable state, oldest first: retained past states,
// the current state and any future states. The result is cached until the
// next change and must be treated as read-only.
func (e *Engine) History() ([]any, error) {
	return e.replayer.States(e.value, e.Patches(), e.position, e.maxHistory, e.patcher)
}

// Reset restores the value, log and position captured at construction.
// In mutable mode the live value keeps its identity and is rewritten from a
// fresh deep copy of the initial value.
func (e *Engine) Reset() {
	if e.deferCall("reset", func() error { e.Reset(); return nil }) {
		return
	}

	e.log.Reset(e.initial.Patches)
	e.batch.Clear()
	e.position = e.initial.Position

	if e.mutable {
		e.value = e.restore(e.value, e.initial.Value)
	} else {
		e.value = e.initial.Value
	}

	e.replayer.Invalidate()
	e.metrics.Reset()
	e.notify()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
