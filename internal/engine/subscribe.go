package engine

import (
	"fmt"
	"slices"
)

// Listener is called after every change with the current value, the visible
// log and the position.
//
// A listener may call back into the Engine. Such calls are queued and run
// once every listener has seen the current change.
type Listener func(state any, patches Patches, position int)

type subscriber struct {
	id uint64
	fn Listener
}

// hub holds listeners in registration order.
type hub struct {
	nextID uint64
	subs   []subscriber
}

func (h *hub) add(fn Listener) uint64 {
	h.nextID++
	h.subs = append(h.subs, subscriber{id: h.nextID, fn: fn})
	return h.nextID
}

func (h *hub) remove(id uint64) {
	h.subs = slices.DeleteFunc(h.subs, func(s subscriber) bool {
		return s.id == id
	})
}

func (h *hub) has(id uint64) bool {
	return slices.ContainsFunc(h.subs, func(s subscriber) bool {
		return s.id == id
	})
}

func (h *hub) snapshot() []subscriber {
	return slices.Clone(h.subs)
}

type queuedCall struct {
	name string
	fn   func() error
}

// Subscribe registers l and returns a function that removes it.
// The returned function may be called more than once. A listener removed
// during a notification round is not called for the rest of that round;
// one added during a round is first called on the next change.
func (e *Engine) Subscribe(l Listener) func() {
	if l == nil {
		return func() {}
	}
	id := e.hub.add(l)
	return func() {
		e.hub.remove(id)
	}
}

// deferCall queues fn when a notification round is in progress and reports
// whether it did.
func (e *Engine) deferCall(name string, fn func() error) bool {
	if !e.notifying {
		return false
	}
	e.queued = append(e.queued, queuedCall{name: name, fn: fn})
	e.logger.Debug("queued call made during notification", "call", name)
	return true
}

// notify runs every listener, then drains calls queued by listeners. Calls
// queued while draining start their own round once the current one ends.
func (e *Engine) notify() {
	e.notifying = true
	state, patches, pos := e.value, e.Patches(), e.position
	for _, s := range e.hub.snapshot() {
		// Skip listeners removed earlier in this round.
		if !e.hub.has(s.id) {
			continue
		}
		e.call(s, state, patches, pos)
	}
	e.notifying = false

	for len(e.queued) > 0 {
		next := e.queued[0]
		e.queued = e.queued[1:]
		if err := next.fn(); err != nil {
			e.logger.Warn("queued call failed", "call", next.name, "error", err)
		}
	}
}

// call runs one listener, recovering from a panic so the others still run.
func (e *Engine) call(s subscriber, state any, patches Patches, pos int) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("listener panicked",
				"subscriber", s.id,
				"panic", fmt.Sprint(r))
		}
	}()
	s.fn(state, patches, pos)
}
