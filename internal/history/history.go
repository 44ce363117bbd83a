package history

import (
	"log/slog"
)

// DefaultLimit is the number of entries kept before the oldest is dropped.
const DefaultLimit = 100

// EventKind classifies history notifications.
type EventKind int

const (
	EventPush EventKind = iota
	EventUndo
	EventRedo
	EventClear
)

// Event reports a history change with the resulting cursor and length.
type Event struct {
	Kind   EventKind
	Cursor int
	Len    int
}

// History is a bounded undo/redo stack. Cursor points at the entry that
// the next Undo reverts, -1 when there is none.
type History struct {
	repo      Repository
	limit     int
	entries   []Command
	cursor    int
	listeners []func(Event)
}

// New creates an empty history over repo. A limit below 1 uses
// DefaultLimit.
func New(repo Repository, limit int) *History {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &History{repo: repo, limit: limit, cursor: -1}
}

// Subscribe registers fn for history events.
func (h *History) Subscribe(fn func(Event)) {
	h.listeners = append(h.listeners, fn)
}

func (h *History) emit(kind EventKind) {
	e := Event{Kind: kind, Cursor: h.cursor, Len: len(h.entries)}
	for _, fn := range h.listeners {
		fn(e)
	}
}

// Push records an already applied command. The redo tail past the cursor
// is discarded and the oldest entry is dropped beyond the limit.
func (h *History) Push(cmd Command) {
	if h.cursor < len(h.entries)-1 {
		clear(h.entries[h.cursor+1:])
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		clear(h.entries[:drop])
		h.entries = h.entries[drop:]
	}
	h.cursor = len(h.entries) - 1
	h.emit(EventPush)
}

// Do executes cmd and pushes it. The command is pushed even when some of
// it failed, so that the applied part can still be undone.
func (h *History) Do(cmd Command) error {
	err := cmd.Execute(h.repo)
	if err != nil {
		slog.Error("history: execute failed", "kind", cmd.Kind(), "error", err)
	}
	h.Push(cmd)
	return err
}

// Undo reverts the entry at the cursor. It reports false at the bottom of
// the stack.
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	cmd := h.entries[h.cursor]
	if err := cmd.Undo(h.repo); err != nil {
		slog.Error("history: undo failed", "kind", cmd.Kind(), "error", err)
	}
	h.cursor--
	h.emit(EventUndo)
	return true
}

// Redo re-applies the entry after the cursor. It reports false at the top
// of the stack.
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.cursor++
	cmd := h.entries[h.cursor]
	if err := cmd.Execute(h.repo); err != nil {
		slog.Error("history: redo failed", "kind", cmd.Kind(), "error", err)
	}
	h.emit(EventRedo)
	return true
}

func (h *History) CanUndo() bool { return h.cursor >= 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }
func (h *History) Len() int      { return len(h.entries) }
func (h *History) Cursor() int   { return h.cursor }
func (h *History) Limit() int    { return h.limit }

// Clear drops every entry.
func (h *History) Clear() {
	h.entries = nil
	h.cursor = -1
	h.emit(EventClear)
}
