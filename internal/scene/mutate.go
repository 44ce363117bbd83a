package scene

import (
	"fmt"
	"math"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
)

func (t *Tree) mustFind(op, id string) (*Node, error) {
	n := t.nodes[id]
	if n == nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return n, nil
}

// SetPosition sets id's local position (its center, in the parent frame).
func (t *Tree) SetPosition(id string, p geometry.Point) error {
	n, err := t.mustFind("set position", id)
	if err != nil {
		return err
	}
	n.position = p
	t.emit(ChangeTransform, id)
	return nil
}

// SetRotation sets id's rotation in radians, relative to its parent.
func (t *Tree) SetRotation(id string, radians float64) error {
	n, err := t.mustFind("set rotation", id)
	if err != nil {
		return err
	}
	n.rotation = radians
	t.emit(ChangeTransform, id)
	return nil
}

// SetSize sets id's size around its origin. For a group every descendant's
// position and size are first rescaled by new/old so the derived bounds
// reach the requested size. Negative dimensions are clamped to zero.
func (t *Tree) SetSize(id string, s geometry.Size) error {
	n, err := t.mustFind("set size", id)
	if err != nil {
		return err
	}
	s.Width = math.Max(0, s.Width)
	s.Height = math.Max(0, s.Height)

	if n.kind.HasDerivedSize() {
		old := t.Size(id)
		sx, sy := 1.0, 1.0
		if old.Width > 0 {
			sx = s.Width / old.Width
		}
		if old.Height > 0 {
			sy = s.Height / old.Height
		}
		for _, c := range n.children {
			t.rescale(c, sx, sy)
		}
	} else {
		n.size = s
	}
	t.emit(ChangeTransform, id)
	return nil
}

// rescale scales id's position and size, then recurses into its children.
func (t *Tree) rescale(id string, sx, sy float64) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	n.position = geometry.Scale(sx, sy).Apply(n.position)
	if !n.kind.HasDerivedSize() {
		n.size = geometry.Size{Width: n.size.Width * sx, Height: n.size.Height * sy}
	}
	for _, c := range n.children {
		t.rescale(c, sx, sy)
	}
}

// Extent is a node's local position and its own stored size.
type Extent struct {
	Position geometry.Point `json:"position"`
	Size     geometry.Size  `json:"size"`
}

// DescendantExtents records the extent of every descendant of id.
func (t *Tree) DescendantExtents(id string) map[string]Extent {
	out := make(map[string]Extent)
	n := t.nodes[id]
	if n == nil {
		return out
	}
	for _, c := range n.children {
		t.Walk(c, func(d *Node) bool {
			out[d.id] = Extent{Position: d.position, Size: d.size}
			return true
		})
	}
	return out
}

// RestoreExtents writes recorded extents back verbatim. Ids no longer in
// the tree are skipped.
func (t *Tree) RestoreExtents(extents map[string]Extent) {
	for id, e := range extents {
		n := t.nodes[id]
		if n == nil {
			continue
		}
		n.position = e.Position
		n.size = e.Size
		t.emit(ChangeTransform, id)
	}
}

// Resize changes id's size while keeping the anchor opposite handle fixed
// on screen. The movement of the anchor in the node's local frame is
// projected onto the rotated axes (cos/sin of the rotation) and applied to
// the position. Edge handles move along one local axis, corners along both.
func (t *Tree) Resize(id string, handle Handle, size geometry.Size) error {
	n, err := t.mustFind("resize", id)
	if err != nil {
		return err
	}

	sx, sy := handle.Signs()
	before := anchorOf(t.LocalBounds(id), sx, sy)

	if err := t.SetSize(id, size); err != nil {
		return err
	}

	after := anchorOf(t.LocalBounds(id), sx, sy)
	shift := before.Sub(after).Rotate(n.rotation)
	n.position = n.position.Add(shift)
	t.emit(ChangeTransform, id)
	return nil
}

// anchorOf returns the point of b opposite the handle with signs (sx, sy).
// A zero sign picks the middle of that axis.
func anchorOf(b geometry.Rect, sx, sy float64) geometry.Point {
	c := b.Center()
	return geometry.Point{
		X: c.X - sx*b.Width/2,
		Y: c.Y - sy*b.Height/2,
	}
}

// SetName renames id.
func (t *Tree) SetName(id, name string) error {
	n, err := t.mustFind("set name", id)
	if err != nil {
		return err
	}
	n.name = name
	t.emit(ChangeProps, id)
	return nil
}

// SetLocked locks or unlocks id. Locked nodes stay selectable.
func (t *Tree) SetLocked(id string, locked bool) error {
	n, err := t.mustFind("set locked", id)
	if err != nil {
		return err
	}
	n.locked = locked
	t.emit(ChangeProps, id)
	return nil
}

// SetVisible shows or hides id.
func (t *Tree) SetVisible(id string, visible bool) error {
	n, err := t.mustFind("set visible", id)
	if err != nil {
		return err
	}
	n.visible = visible
	t.emit(ChangeProps, id)
	return nil
}

// SetPaint replaces id's fills, strokes and effects.
func (t *Tree) SetPaint(id string, p Paint) error {
	n, err := t.mustFind("set paint", id)
	if err != nil {
		return err
	}
	n.paint = p.clone()
	t.emit(ChangeProps, id)
	return nil
}

// SetText replaces the text payload of a TEXT node.
func (t *Tree) SetText(id string, text TextData) error {
	n, err := t.mustFind("set text", id)
	if err != nil {
		return err
	}
	if n.kind != KindText {
		return fmt.Errorf("set text %s: kind %s has no text", id, n.kind)
	}
	n.text = &text
	t.emit(ChangeProps, id)
	return nil
}
