package scene

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
)

// Record is the serialized form of a node subtree.
type Record struct {
	ID       string            `json:"id,omitempty"`
	Name     string            `json:"name"`
	Kind     string            `json:"type"`
	Position geometry.Point    `json:"position"`
	Size     geometry.Size     `json:"size"`
	Rotation float64           `json:"rotation"`
	Locked   bool              `json:"locked,omitempty"`
	Hidden   bool              `json:"hidden,omitempty"`
	Fills    []json.RawMessage `json:"fills,omitempty"`
	Strokes  []json.RawMessage `json:"strokes,omitempty"`
	Effects  []json.RawMessage `json:"effects,omitempty"`
	Text     *TextData         `json:"text,omitempty"`
	Children []Record          `json:"children,omitempty"`
}

// WithoutIDs returns a deep copy with every id cleared, so Build assigns
// fresh ones.
func (r Record) WithoutIDs() Record {
	out := r
	out.ID = ""
	if r.Text != nil {
		t := *r.Text
		out.Text = &t
	}
	out.Fills = cloneRaw(r.Fills)
	out.Strokes = cloneRaw(r.Strokes)
	out.Effects = cloneRaw(r.Effects)
	if r.Children != nil {
		out.Children = make([]Record, len(r.Children))
		for i, c := range r.Children {
			out.Children[i] = c.WithoutIDs()
		}
	}
	return out
}

// Serialize captures id and its subtree. Group sizes are the derived size.
func (t *Tree) Serialize(id string) (Record, bool) {
	n := t.nodes[id]
	if n == nil {
		return Record{}, false
	}
	rec := Record{
		ID:       n.id,
		Name:     n.name,
		Kind:     string(n.kind),
		Position: n.position,
		Size:     t.Size(id),
		Rotation: n.rotation,
		Locked:   n.locked,
		Hidden:   !n.visible,
		Fills:    cloneRaw(n.paint.Fills),
		Strokes:  cloneRaw(n.paint.Strokes),
		Effects:  cloneRaw(n.paint.Effects),
		Text:     n.Text(),
	}
	for _, c := range n.children {
		if cr, ok := t.Serialize(c); ok {
			rec.Children = append(rec.Children, cr)
		}
	}
	return rec, true
}

// SerializeAll captures every top-level subtree in order.
func (t *Tree) SerializeAll() []Record {
	out := make([]Record, 0, len(t.roots))
	for _, r := range t.roots {
		if rec, ok := t.Serialize(r); ok {
			out = append(out, rec)
		}
	}
	return out
}

// NewFromRecord is the node factory: it creates a detached node for rec
// without children. An unknown kind yields nil.
func NewFromRecord(rec Record) *Node {
	kind, ok := ParseKind(rec.Kind)
	if !ok {
		return nil
	}
	n := NewNode(rec.ID, kind, rec.Name)
	n.position = rec.Position
	n.rotation = rec.Rotation
	n.locked = rec.Locked
	n.visible = !rec.Hidden
	n.paint = Paint{Fills: rec.Fills, Strokes: rec.Strokes, Effects: rec.Effects}.clone()
	if !kind.HasDerivedSize() {
		n.size = rec.Size
	}
	if kind == KindText {
		text := TextData{}
		if rec.Text != nil {
			text = *rec.Text
		}
		n.text = &text
	}
	return n
}

// Build appends rec as the last child of parentID.
func (t *Tree) Build(parentID string, rec Record) (*Node, error) {
	return t.BuildAt(parentID, rec, t.ChildCount(parentID))
}

// BuildAt creates rec and its subtree and inserts it at index under
// parentID. An unknown kind returns nil without error; unknown kinds
// among the children are skipped.
func (t *Tree) BuildAt(parentID string, rec Record, index int) (*Node, error) {
	n := NewFromRecord(rec)
	if n == nil {
		return nil, nil
	}
	if err := t.AddChildAt(parentID, n, index); err != nil {
		return nil, fmt.Errorf("build %s: %w", rec.Kind, err)
	}
	if !n.kind.IsContainer() {
		return n, nil
	}
	for _, cr := range rec.Children {
		c, err := t.Build(n.id, cr)
		if err != nil {
			return n, err
		}
		if c == nil {
			slog.Warn("skipping node of unknown kind", "kind", cr.Kind, "parent", n.id)
		}
	}
	return n, nil
}
