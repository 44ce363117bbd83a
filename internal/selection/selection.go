package selection

import (
	"slices"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

// EventKind distinguishes selection notifications.
type EventKind int

const (
	EventSelect EventKind = iota
	EventUnselect
)

// Event reports a selection change. IDs are the ids that entered or left
// the selection.
type Event struct {
	Kind EventKind
	IDs  []string
}

// Selection is the ordered set of selected node ids. Every id resolves to
// a live node: ids are checked on insert and pruned when the tree removes
// them.
type Selection struct {
	tree      *scene.Tree
	ids       []string
	listeners map[int]func(Event)
	nextID    int
	stop      func()
}

// New creates an empty selection bound to tree.
func New(tree *scene.Tree) *Selection {
	s := &Selection{
		tree:      tree,
		listeners: make(map[int]func(Event)),
	}
	s.stop = tree.Subscribe(func(c scene.Change) {
		if c.Kind == scene.ChangeRemoved && s.Has(c.ID) {
			s.Remove(c.ID)
		}
	})
	return s
}

// Close detaches the selection from its tree.
func (s *Selection) Close() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// Subscribe registers fn for selection events and returns its unsubscribe.
func (s *Selection) Subscribe(fn func(Event)) func() {
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Selection) emit(kind EventKind, ids []string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]int, 0, len(s.listeners))
	for k := range s.listeners {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if fn, ok := s.listeners[k]; ok {
			fn(Event{Kind: kind, IDs: ids})
		}
	}
}

// Select replaces the selection. Unknown and duplicate ids are dropped.
// Nothing is emitted when the result equals the current set.
func (s *Selection) Select(ids ...string) {
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if s.tree.Find(id) != nil && !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	if sameSet(s.ids, next) {
		return
	}

	var left []string
	for _, id := range s.ids {
		if !slices.Contains(next, id) {
			left = append(left, id)
		}
	}
	s.ids = next
	s.emit(EventUnselect, left)
	s.emit(EventSelect, slices.Clone(next))
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, id := range a {
		if !slices.Contains(b, id) {
			return false
		}
	}
	return true
}

// Add appends id if it resolves and is not already selected.
func (s *Selection) Add(id string) bool {
	if s.Has(id) || s.tree.Find(id) == nil {
		return false
	}
	s.ids = append(s.ids, id)
	s.emit(EventSelect, []string{id})
	return true
}

// Remove drops id from the selection.
func (s *Selection) Remove(id string) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	s.emit(EventUnselect, []string{id})
	return true
}

// Toggle adds id when absent and removes it otherwise.
func (s *Selection) Toggle(id string) {
	if !s.Remove(id) {
		s.Add(id)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	if len(s.ids) == 0 {
		return
	}
	left := s.ids
	s.ids = nil
	s.emit(EventUnselect, left)
}

func (s *Selection) Has(id string) bool { return slices.Contains(s.ids, id) }
func (s *Selection) Len() int           { return len(s.ids) }
func (s *Selection) IDs() []string      { return slices.Clone(s.ids) }

// Nodes resolves the selected ids in order, skipping any that no longer
// resolve.
func (s *Selection) Nodes() []*scene.Node {
	out := make([]*scene.Node, 0, len(s.ids))
	for _, id := range s.ids {
		if n := s.tree.Find(id); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// BoundingQuad returns the selection bounds in canvas space. A single node
// gives its rotated quad; several nodes give the axis-aligned box of the
// union of their quads. It reports false when nothing is selected.
func (s *Selection) BoundingQuad() (geometry.Quad, bool) {
	nodes := s.Nodes()
	switch len(nodes) {
	case 0:
		return geometry.Quad{}, false
	case 1:
		return s.tree.AbsoluteQuad(nodes[0].ID()), true
	}
	var points []geometry.Point
	for _, n := range nodes {
		q := s.tree.AbsoluteQuad(n.ID())
		points = append(points, q[:]...)
	}
	return geometry.BoundsOf(points...).Quad(), true
}

// Rotation is the rotation of the bounding quad: the node's absolute
// rotation for a single selection, zero otherwise.
func (s *Selection) Rotation() float64 {
	nodes := s.Nodes()
	if len(nodes) != 1 {
		return 0
	}
	return s.tree.AbsoluteRotation(nodes[0].ID())
}
