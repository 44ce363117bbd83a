package scene

import (
	"errors"
	"fmt"

	"github.com/DivXPro/canvas-editor-sub000/internal/typeid"
)

var (
	ErrNotFound        = errors.New("node not found")
	ErrNotContainer    = errors.New("node cannot have children")
	ErrIndexOutOfRange = errors.New("child index out of range")
	ErrDuplicateID     = errors.New("duplicate node id")
	ErrAttached        = errors.New("node is already attached")
	ErrCycle           = errors.New("node cannot be moved into its own subtree")
)

// ChangeKind classifies a tree change notification.
type ChangeKind int

const (
	// ChangeAdded fires when a node is attached to the tree.
	ChangeAdded ChangeKind = iota
	// ChangeDetached fires when a node leaves its parent but stays in the arena.
	ChangeDetached
	// ChangeRemoved fires for every id dropped from the arena.
	ChangeRemoved
	// ChangeTransform fires on position, rotation or size writes.
	ChangeTransform
	// ChangeProps fires on name, visibility, lock, paint or text writes.
	ChangeProps
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeDetached:
		return "detached"
	case ChangeRemoved:
		return "removed"
	case ChangeTransform:
		return "transform"
	case ChangeProps:
		return "props"
	}
	return "unknown"
}

// Change is a tree mutation notification.
type Change struct {
	Kind ChangeKind
	ID   string
}

type listener struct {
	id int
	fn func(Change)
}

// Tree is the scene graph arena. Nodes are addressed by id; parent, root and
// child links are ids resolved through the arena.
type Tree struct {
	nodes     map[string]*Node
	roots     []string
	listeners []listener
	nextID    int
}

// NewTree creates an empty scene graph.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]*Node)}
}

// Subscribe registers fn for every change. The returned func unsubscribes.
func (t *Tree) Subscribe(fn func(Change)) func() {
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range t.listeners {
			if l.id == id {
				t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

func (t *Tree) emit(kind ChangeKind, id string) {
	// Listeners may unsubscribe while being notified.
	ls := append([]listener(nil), t.listeners...)
	for _, l := range ls {
		l.fn(Change{Kind: kind, ID: id})
	}
}

// Find resolves an id, returning nil if it is not in the arena.
func (t *Tree) Find(id string) *Node {
	return t.nodes[id]
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Roots returns the ordered top-level node ids.
func (t *Tree) Roots() []string {
	return append([]string(nil), t.roots...)
}

// IsAttached reports whether id is reachable from a top-level node.
func (t *Tree) IsAttached(id string) bool {
	for n := t.nodes[id]; n != nil; n = t.nodes[n.parent] {
		if n.parent == "" {
			return t.rootIndex(n.id) >= 0
		}
	}
	return false
}

func (t *Tree) rootIndex(id string) int {
	for i, r := range t.roots {
		if r == id {
			return i
		}
	}
	return -1
}

// IndexOf returns the parent id and the position of id among its siblings.
// Top-level nodes report an empty parent id. Detached or unknown nodes
// report index -1.
func (t *Tree) IndexOf(id string) (string, int) {
	n := t.nodes[id]
	if n == nil {
		return "", -1
	}
	if n.parent == "" {
		return "", t.rootIndex(id)
	}
	p := t.nodes[n.parent]
	if p == nil {
		return "", -1
	}
	return p.id, p.indexOf(id)
}

// ChildCount returns the number of children of parentID, or the number of
// top-level nodes when parentID is empty.
func (t *Tree) ChildCount(parentID string) int {
	if parentID == "" {
		return len(t.roots)
	}
	if p := t.nodes[parentID]; p != nil {
		return len(p.children)
	}
	return 0
}

// AddChild appends n to parentID's children. An empty parentID adds a
// top-level node.
func (t *Tree) AddChild(parentID string, n *Node) error {
	return t.AddChildAt(parentID, n, t.ChildCount(parentID))
}

// AddChildAt inserts n at index among parentID's children. The index must be
// within [0, child count]; anything else fails with ErrIndexOutOfRange.
// A node without an id is given a fresh one.
func (t *Tree) AddChildAt(parentID string, n *Node, index int) error {
	if n.parent != "" || (n.id != "" && t.rootIndex(n.id) >= 0) {
		return fmt.Errorf("add %s: %w", n.id, ErrAttached)
	}
	if n.id == "" {
		n.id = typeid.NewNodeID()
	}
	if existing, ok := t.nodes[n.id]; ok && existing != n {
		return fmt.Errorf("add %s: %w", n.id, ErrDuplicateID)
	}

	var siblings *[]string
	root := n.id
	if parentID == "" {
		siblings = &t.roots
	} else {
		p := t.nodes[parentID]
		if p == nil {
			return fmt.Errorf("parent %s: %w", parentID, ErrNotFound)
		}
		if !p.kind.IsContainer() {
			return fmt.Errorf("parent %s (%s): %w", parentID, p.kind, ErrNotContainer)
		}
		if t.isDescendant(parentID, n.id) {
			return fmt.Errorf("add %s under %s: %w", n.id, parentID, ErrCycle)
		}
		siblings = &p.children
		root = p.root
	}

	if index < 0 || index > len(*siblings) {
		return fmt.Errorf("insert %s at %d of %d: %w", n.id, index, len(*siblings), ErrIndexOutOfRange)
	}

	*siblings = append(*siblings, "")
	copy((*siblings)[index+1:], (*siblings)[index:])
	(*siblings)[index] = n.id

	n.parent = parentID
	t.nodes[n.id] = n
	t.setRoot(n, root)

	t.emit(ChangeAdded, n.id)
	return nil
}

// isDescendant reports whether id is ancestorID or lies below it.
func (t *Tree) isDescendant(id, ancestorID string) bool {
	for n := t.nodes[id]; n != nil; n = t.nodes[n.parent] {
		if n.id == ancestorID {
			return true
		}
	}
	return false
}

func (t *Tree) setRoot(n *Node, root string) {
	n.root = root
	for _, c := range n.children {
		if child := t.nodes[c]; child != nil {
			t.setRoot(child, root)
		}
	}
}

// RemoveChild detaches childID from parentID. The subtree stays in the arena
// and can be attached again.
func (t *Tree) RemoveChild(parentID, childID string) error {
	n := t.nodes[childID]
	if n == nil {
		return fmt.Errorf("remove %s: %w", childID, ErrNotFound)
	}
	if n.parent != parentID {
		return fmt.Errorf("remove %s: not a child of %q: %w", childID, parentID, ErrNotFound)
	}
	t.detach(n)
	t.emit(ChangeDetached, childID)
	return nil
}

// Detach removes id from wherever it is attached.
func (t *Tree) Detach(id string) error {
	n := t.nodes[id]
	if n == nil {
		return fmt.Errorf("detach %s: %w", id, ErrNotFound)
	}
	return t.RemoveChild(n.parent, id)
}

func (t *Tree) detach(n *Node) {
	if n.parent == "" {
		if i := t.rootIndex(n.id); i >= 0 {
			t.roots = append(t.roots[:i], t.roots[i+1:]...)
		}
	} else if p := t.nodes[n.parent]; p != nil {
		if i := p.indexOf(n.id); i >= 0 {
			p.children = append(p.children[:i], p.children[i+1:]...)
		}
	}
	n.parent = ""
	t.setRoot(n, "")
}

// Delete detaches id and drops its whole subtree from the arena. A
// ChangeRemoved notification fires for every dropped id, parents first.
func (t *Tree) Delete(id string) error {
	n := t.nodes[id]
	if n == nil {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	t.detach(n)

	var removed []string
	t.Walk(id, func(d *Node) bool {
		removed = append(removed, d.id)
		return true
	})
	for _, rid := range removed {
		delete(t.nodes, rid)
	}
	for _, rid := range removed {
		t.emit(ChangeRemoved, rid)
	}
	return nil
}

// Walk visits id and its descendants depth-first in paint order. Returning
// false from fn skips the children of that node.
func (t *Tree) Walk(id string, fn func(*Node) bool) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		t.Walk(c, fn)
	}
}

// WalkAll walks every top-level node in order.
func (t *Tree) WalkAll(fn func(*Node) bool) {
	for _, r := range t.Roots() {
		t.Walk(r, fn)
	}
}

// FindDepthFirst returns the first node under fromID (inclusive) that
// matches pred, or nil. An empty fromID searches every top-level node.
func (t *Tree) FindDepthFirst(fromID string, pred func(*Node) bool) *Node {
	var found *Node
	visit := func(n *Node) bool {
		if found != nil {
			return false
		}
		if pred(n) {
			found = n
			return false
		}
		return true
	}
	if fromID == "" {
		t.WalkAll(visit)
	} else {
		t.Walk(fromID, visit)
	}
	return found
}

// Ancestors returns the ids from id's parent up to its top-level node.
func (t *Tree) Ancestors(id string) []string {
	var out []string
	n := t.nodes[id]
	for n != nil && n.parent != "" {
		out = append(out, n.parent)
		n = t.nodes[n.parent]
	}
	return out
}
