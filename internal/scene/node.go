package scene

import (
	"encoding/json"
	"strings"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
)

// Kind is the closed set of node variants.
type Kind string

const (
	KindFrame     Kind = "FRAME"
	KindGroup     Kind = "GROUP"
	KindRectangle Kind = "RECTANGLE"
	KindEllipse   Kind = "ELLIPSE"
	KindText      Kind = "TEXT"
)

// ParseKind normalizes a kind discriminator. Unknown kinds report false.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case KindFrame, KindGroup, KindRectangle, KindEllipse, KindText:
		return k, true
	}
	return "", false
}

// IsContainer reports whether nodes of this kind may have children.
func (k Kind) IsContainer() bool {
	return k == KindFrame || k == KindGroup
}

// HasDerivedSize reports whether the size of this kind is computed from its
// descendants rather than stored.
func (k Kind) HasDerivedSize() bool {
	return k == KindGroup
}

// Paint holds fills, strokes and effects. The values are opaque to the
// scene graph and are handed to the render surface untouched.
type Paint struct {
	Fills   []json.RawMessage `json:"fills,omitempty"`
	Strokes []json.RawMessage `json:"strokes,omitempty"`
	Effects []json.RawMessage `json:"effects,omitempty"`
}

func (p Paint) clone() Paint {
	return Paint{
		Fills:   cloneRaw(p.Fills),
		Strokes: cloneRaw(p.Strokes),
		Effects: cloneRaw(p.Effects),
	}
}

func cloneRaw(in []json.RawMessage) []json.RawMessage {
	if in == nil {
		return nil
	}
	out := make([]json.RawMessage, len(in))
	for i, v := range in {
		out[i] = append(json.RawMessage(nil), v...)
	}
	return out
}

// TextData is the TEXT payload. Shaping and layout happen elsewhere.
type TextData struct {
	Characters string  `json:"characters"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
}

// Node is one element of the scene graph. Fields are read through accessors
// and written only through Tree methods, which emit change notifications.
//
// Position is the node's center (its local origin) in the parent's frame,
// rotation is about that center. Parent, root and children are ids resolved
// through the owning Tree.
type Node struct {
	id       string
	name     string
	kind     Kind
	position geometry.Point
	size     geometry.Size
	rotation float64
	locked   bool
	visible  bool
	paint    Paint
	text     *TextData

	children []string
	parent   string
	root     string
}

// NewNode creates a detached node. An empty id is filled in when the node
// is attached to a tree.
func NewNode(id string, kind Kind, name string) *Node {
	return &Node{
		id:      id,
		kind:    kind,
		name:    name,
		visible: true,
	}
}

func (n *Node) ID() string                { return n.id }
func (n *Node) Name() string              { return n.name }
func (n *Node) Kind() Kind                { return n.kind }
func (n *Node) Position() geometry.Point  { return n.position }
func (n *Node) Rotation() float64         { return n.rotation }
func (n *Node) Locked() bool              { return n.locked }
func (n *Node) Visible() bool             { return n.visible }
func (n *Node) Paint() Paint              { return n.paint.clone() }
func (n *Node) Parent() string            { return n.parent }
func (n *Node) Root() string              { return n.root }
func (n *Node) IsContainer() bool         { return n.kind.IsContainer() }
func (n *Node) StoredSize() geometry.Size { return n.size }

// Text returns a copy of the text payload, or nil for non-text nodes.
func (n *Node) Text() *TextData {
	if n.text == nil {
		return nil
	}
	t := *n.text
	return &t
}

// Children returns a copy of the ordered child ids (paint order).
func (n *Node) Children() []string {
	return append([]string(nil), n.children...)
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// LocalMatrix is the node's placement in its parent's frame.
func (n *Node) LocalMatrix() geometry.Matrix2D {
	return geometry.FromPlacement(n.position, n.rotation)
}

func (n *Node) indexOf(childID string) int {
	for i, c := range n.children {
		if c == childID {
			return i
		}
	}
	return -1
}
