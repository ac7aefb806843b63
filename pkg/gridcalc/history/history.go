// Package history keeps an undo/redo timeline of sheet snapshots.
package history

import "github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"

// History is a linear timeline of snapshots with a cursor. Snapshots are
// immutable, so entries are stored by reference.
//
// A History is not safe for concurrent use.
type History struct {
	entries []*models.Sheet
	cursor  int
	limit   int
}

// New creates an empty history holding at most limit snapshots.
// A limit of zero or less keeps every snapshot.
func New(limit int) *History {
	return &History{cursor: -1, limit: limit}
}

// Reset discards the timeline and starts a new one at s.
func (h *History) Reset(s *models.Sheet) {
	h.entries = []*models.Sheet{s}
	h.cursor = 0
}

// Push records s as the newest snapshot. Any redo entries are dropped and
// the oldest entries are evicted once the limit is exceeded.
func (h *History) Push(s *models.Sheet) {
	h.entries = append(h.entries[:h.cursor+1], s)
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append([]*models.Sheet(nil), h.entries[drop:]...)
	}
	h.cursor = len(h.entries) - 1
}

// Undo moves the cursor back and returns the snapshot it lands on.
func (h *History) Undo() (*models.Sheet, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo moves the cursor forward and returns the snapshot it lands on.
func (h *History) Redo() (*models.Sheet, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current returns the snapshot at the cursor, or nil for an empty history.
func (h *History) Current() *models.Sheet {
	if h.cursor < 0 {
		return nil
	}
	return h.entries[h.cursor]
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }
