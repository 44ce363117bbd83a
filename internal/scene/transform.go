package scene

import (
	"fmt"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
)

// AbsoluteTransform composes every ancestor's placement, starting from the
// top-level node, with id's own. Unknown ids yield Identity.
func (t *Tree) AbsoluteTransform(id string) geometry.Matrix2D {
	n := t.nodes[id]
	if n == nil {
		return geometry.Identity()
	}
	return t.ParentTransform(id).Multiply(n.LocalMatrix())
}

// ParentTransform is the absolute transform of id's parent, which maps id's
// position into canvas space.
func (t *Tree) ParentTransform(id string) geometry.Matrix2D {
	m := geometry.Identity()
	ancestors := t.Ancestors(id)
	for i := len(ancestors) - 1; i >= 0; i-- {
		m = m.Multiply(t.nodes[ancestors[i]].LocalMatrix())
	}
	return m
}

// AbsoluteRotation sums the rotations of id and all of its ancestors.
func (t *Tree) AbsoluteRotation(id string) float64 {
	var r float64
	for n := t.nodes[id]; n != nil; n = t.nodes[n.parent] {
		r += n.rotation
	}
	return r
}

// AbsolutePosition returns id's origin in canvas space.
func (t *Tree) AbsolutePosition(id string) geometry.Point {
	return t.AbsoluteTransform(id).Translation()
}

// LocalToGlobal maps a point in id's local frame to canvas space.
func (t *Tree) LocalToGlobal(id string, p geometry.Point) geometry.Point {
	return t.AbsoluteTransform(id).Apply(p)
}

// GlobalToLocal maps a canvas point into the local frame of id (root to
// local). An empty id is the canvas itself.
func (t *Tree) GlobalToLocal(id string, p geometry.Point) geometry.Point {
	if id == "" {
		return p
	}
	return t.AbsoluteTransform(id).Invert().Apply(p)
}

// Reparent moves id under newParentID at index, keeping its apparent screen
// position and rotation.
func (t *Tree) Reparent(id, newParentID string, index int) error {
	n := t.nodes[id]
	if n == nil {
		return fmt.Errorf("reparent %s: %w", id, ErrNotFound)
	}
	if newParentID != "" {
		p := t.nodes[newParentID]
		if p == nil {
			return fmt.Errorf("reparent %s: parent %s: %w", id, newParentID, ErrNotFound)
		}
		if !p.kind.IsContainer() {
			return fmt.Errorf("reparent %s: parent %s: %w", id, newParentID, ErrNotContainer)
		}
		if t.isDescendant(newParentID, id) {
			return fmt.Errorf("reparent %s under %s: %w", id, newParentID, ErrCycle)
		}
	}

	absPos := t.AbsolutePosition(id)
	absRot := t.AbsoluteRotation(id)

	if n.parent != "" || t.rootIndex(id) >= 0 {
		t.detach(n)
		t.emit(ChangeDetached, id)
	}

	n.position = t.GlobalToLocal(newParentID, absPos)
	n.rotation = absRot - t.AbsoluteRotation(newParentID)
	return t.AddChildAt(newParentID, n, index)
}
