package editor

import (
	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
)

// --- Queries (host ← editor) ---

// SetSelection replaces the selection. Unknown ids are ignored.
func (e *Editor) SetSelection(ids []string) {
	e.selection.Select(ids...)
}

// HitTest returns the id of the topmost node at (x, y), or "".
func (e *Editor) HitTest(x, y float64) string {
	return e.picker.HitTest(geometry.Pt(x, y))
}

// GetSelection returns the selected ids as JSON.
func (e *Editor) GetSelection() string {
	return toJSON(e.selection.IDs(), "[]")
}

// GetSelectionBounds returns the axis-aligned selection bounds as JSON,
// "null" when nothing is selected.
func (e *Editor) GetSelectionBounds() string {
	q, ok := e.selection.BoundingQuad()
	if !ok {
		return "null"
	}
	return toJSON(q.Bounds(), "null")
}

// GetNode returns the record of one subtree as JSON, "null" if id is
// unknown.
func (e *Editor) GetNode(id string) string {
	rec, ok := e.tree.Serialize(id)
	if !ok {
		return "null"
	}
	return toJSON(rec, "null")
}

// GetDocument returns the full document as JSON.
func (e *Editor) GetDocument() string {
	return toJSON(e.Document(), "{}")
}

// HistoryState reports the undo stack for toolbar state.
type HistoryState struct {
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
	Length  int  `json:"length"`
	Cursor  int  `json:"cursor"`
}

// GetHistoryState returns the undo stack state as JSON.
func (e *Editor) GetHistoryState() string {
	return toJSON(HistoryState{
		CanUndo: e.history.CanUndo(),
		CanRedo: e.history.CanRedo(),
		Length:  e.history.Len(),
		Cursor:  e.history.Cursor(),
	}, "{}")
}
