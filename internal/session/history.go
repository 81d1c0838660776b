package session

import "github.com/ironsheep/image-pager/internal/transform"

// History is the bounded undo/redo timeline over transform parameters.
//
// Entries before the cursor are applied; entries from the cursor on are the
// redo tail. Pushing a new entry truncates the tail and, past capacity,
// drops the oldest applied entry.
type History struct {
	capacity int
	entries  []transform.Request
	cursor   int
}

// NewHistory creates a timeline bounded to capacity entries. Capacities
// below 1 are clamped to 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{capacity: capacity}
}

// Push records a newly applied request, discarding any redo tail. When the
// push overflows capacity, the oldest applied entry falls off the timeline
// and is returned with dropped true: it can no longer be undone, so the
// caller must fold its effect into whatever baseline the timeline replays
// from.
func (h *History) Push(req transform.Request) (oldest transform.Request, dropped bool) {
	h.entries = append(h.entries[:h.cursor], req)
	if len(h.entries) > h.capacity {
		oldest, dropped = h.entries[0], true
		h.entries = h.entries[1:]
	}
	h.cursor = len(h.entries)
	return oldest, dropped
}

// CanUndo reports whether at least one applied entry remains.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether an undone entry can be re-applied.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)
}

// Undo moves the cursor back one entry. It reports false if there is
// nothing to undo.
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor forward one entry. It reports false if there is
// nothing to redo.
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.cursor++
	return true
}

// Applied returns the requests currently in effect, oldest first. The
// returned slice aliases the timeline and must not be mutated.
func (h *History) Applied() []transform.Request {
	return h.entries[:h.cursor]
}

// Reset clears the timeline.
func (h *History) Reset() {
	h.entries = h.entries[:0]
	h.cursor = 0
}
