package scene

import (
	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
)

// LocalBounds returns id's extent in its own local frame. Leaves and frames
// are centered on their origin. A group's bounds are the axis-aligned union,
// in the group's frame, of every descendant's rotated quad; they are
// recomputed on each call.
func (t *Tree) LocalBounds(id string) geometry.Rect {
	n := t.nodes[id]
	if n == nil {
		return geometry.Rect{}
	}
	if !n.kind.HasDerivedSize() {
		return geometry.RectFromCenter(geometry.Point{}, n.size)
	}

	var points []geometry.Point
	for _, c := range n.children {
		points = t.collectQuads(c, geometry.Identity(), points)
	}
	return geometry.BoundsOf(points...)
}

// collectQuads appends the corners of every non-group node under id,
// expressed through rel (the transform from id's parent frame).
func (t *Tree) collectQuads(id string, rel geometry.Matrix2D, points []geometry.Point) []geometry.Point {
	n := t.nodes[id]
	if n == nil {
		return points
	}
	m := rel.Multiply(n.LocalMatrix())
	if n.kind.HasDerivedSize() {
		for _, c := range n.children {
			points = t.collectQuads(c, m, points)
		}
		return points
	}
	q := geometry.RectFromCenter(geometry.Point{}, n.size).Quad().Transform(m)
	return append(points, q[:]...)
}

// Size returns the node's size: stored for leaves and frames, derived for
// groups.
func (t *Tree) Size(id string) geometry.Size {
	return t.LocalBounds(id).Size()
}

// AbsoluteQuad returns id's rotated corners in canvas space, ordered
// top-left, top-right, bottom-right, bottom-left in the node's frame.
func (t *Tree) AbsoluteQuad(id string) geometry.Quad {
	return t.LocalBounds(id).Quad().Transform(t.AbsoluteTransform(id))
}

// AbsoluteBoundingBox returns the axis-aligned canvas-space box of id.
func (t *Tree) AbsoluteBoundingBox(id string) geometry.Rect {
	return t.AbsoluteTransform(id).TransformRect(t.LocalBounds(id))
}

// AbsoluteCenter returns the center of id's bounds in canvas space.
func (t *Tree) AbsoluteCenter(id string) geometry.Point {
	return t.AbsoluteQuad(id).Center()
}
