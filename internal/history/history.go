// Package history keeps the ordered committed states of the canvas and the
// states available to reapply after an undo.
package history

import (
	"github.com/example/sketchpad/internal/surface"
)

// Stack holds whole-canvas snapshots: states is the committed history,
// oldest first and never empty after construction, and future holds the
// states a redo would reapply, most recently undone last. Any fresh push
// invalidates all pending redo state.
type Stack struct {
	states []*surface.Snapshot
	future []*surface.Snapshot
	limit  int
}

// Option configures a Stack.
type Option func(*Stack)

// WithLimit caps the number of committed states kept. When the cap is
// exceeded the oldest state is evicted; the floor entry a repeated undo
// stabilizes on is then the oldest surviving state. Zero means unbounded,
// which matches the historical behaviour at the cost of memory growing with
// every committed gesture.
func WithLimit(n int) Option {
	return func(h *Stack) {
		if n > 0 {
			h.limit = n
		}
	}
}

// New creates a Stack seeded with the initial canvas state. The seed is the
// floor: undo never removes the last remaining entry.
func New(seed *surface.Snapshot, opts ...Option) *Stack {
	h := &Stack{states: []*surface.Snapshot{seed}}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Reset discards everything and re-seeds the stack.
func (h *Stack) Reset(seed *surface.Snapshot) {
	h.states = []*surface.Snapshot{seed}
	h.future = nil
}

// Push appends a freshly committed state and clears the redo tail.
func (h *Stack) Push(snap *surface.Snapshot) {
	h.states = append(h.states, snap)
	if h.limit > 0 && len(h.states) > h.limit {
		h.states = h.states[len(h.states)-h.limit:]
	}
	h.future = nil
}

// Undo moves the current state onto the redo tail and returns the state to
// restore. It returns nil without modifying anything when only the floor
// entry remains.
func (h *Stack) Undo() *surface.Snapshot {
	if len(h.states) <= 1 {
		return nil
	}
	top := h.states[len(h.states)-1]
	h.states = h.states[:len(h.states)-1]
	h.future = append(h.future, top)
	return h.states[len(h.states)-1]
}

// Redo reapplies the most recently undone state, or returns nil when there
// is nothing to redo.
func (h *Stack) Redo() *surface.Snapshot {
	if len(h.future) == 0 {
		return nil
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.states = append(h.states, next)
	return next
}

// Current returns the most recently committed state.
func (h *Stack) Current() *surface.Snapshot {
	return h.states[len(h.states)-1]
}

// CanUndo reports whether an undo would change state.
func (h *Stack) CanUndo() bool { return len(h.states) > 1 }

// CanRedo reports whether a redo would change state.
func (h *Stack) CanRedo() bool { return len(h.future) > 0 }

// Len returns the number of committed states, including the floor entry.
func (h *Stack) Len() int { return len(h.states) }
