// Package history implements a bounded snapshot stack over the editor
// document with undo/redo. Committing a new snapshot after an undo
// discards the redo branch; when full, the oldest snapshot is evicted.
package history

import (
	"time"

	"clipgenius/editor-service/models"
)

// Capacity is the maximum number of snapshots kept per editor.
const Capacity = 40

// Snapshot is one committed state of the editable document.
type Snapshot struct {
	Doc     models.EditorDocument
	TakenAt time.Time
}

// History is a bounded undo/redo stack. The cursor points at the
// snapshot matching the live document.
type History struct {
	snapshots []Snapshot
	cursor    int
}

// New returns an empty history.
func New() *History {
	return &History{cursor: -1}
}

// Push commits a new snapshot at a discrete edit boundary. Any redo
// branch beyond the cursor is dropped first; the oldest snapshot is
// evicted once the stack is full.
func (h *History) Push(doc models.EditorDocument) {
	h.snapshots = h.snapshots[:h.cursor+1]
	h.snapshots = append(h.snapshots, Snapshot{Doc: doc.Clone(), TakenAt: time.Now()})
	if len(h.snapshots) > Capacity {
		h.snapshots = h.snapshots[len(h.snapshots)-Capacity:]
	}
	h.cursor = len(h.snapshots) - 1
}

// Undo moves the cursor back one snapshot and returns a deep copy of
// it. Reports false at the earliest entry.
func (h *History) Undo() (models.EditorDocument, bool) {
	if h.cursor <= 0 {
		return models.EditorDocument{}, false
	}
	h.cursor--
	return h.snapshots[h.cursor].Doc.Clone(), true
}

// Redo moves the cursor forward one snapshot and returns a deep copy of
// it. Reports false at the latest entry.
func (h *History) Redo() (models.EditorDocument, bool) {
	if h.cursor >= len(h.snapshots)-1 {
		return models.EditorDocument{}, false
	}
	h.cursor++
	return h.snapshots[h.cursor].Doc.Clone(), true
}

// CanUndo reports whether an earlier snapshot exists.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a later snapshot exists.
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.snapshots) }
