package editor

import (
	"slices"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/gesture"
	"github.com/DivXPro/canvas-editor-sub000/internal/overlay"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

// marquee is a rubber-band selection in progress.
type marquee struct {
	origin  geometry.Point
	current geometry.Point
	base    []string
}

func (m *marquee) rect() geometry.Rect {
	return geometry.BoundsOf(m.origin, m.current)
}

// PointerDown routes a pointer-down at canvas point p. The overlay gets the
// first say (resize handle, rotate zone, selection body); otherwise the
// topmost node under p is selected and a drag starts. Empty space and page
// frames start a marquee. With additive set (shift held) the hit node is
// toggled in the selection instead.
func (e *Editor) PointerDown(p geometry.Point, additive bool) {
	e.PointerCancel()

	if !additive {
		pick := e.overlay.Pick(p)
		switch pick.Target {
		case overlay.TargetResize:
			if e.resize.Start(p, pick.Handle) {
				e.active = gesture.KindResize
				return
			}
		case overlay.TargetRotate:
			if e.rotate.Start(p) {
				e.active = gesture.KindRotate
				return
			}
		case overlay.TargetDrag:
			if e.drag.Start(p) {
				e.active = gesture.KindDrag
				return
			}
		}
	}

	id := e.picker.HitTest(p)
	if id == "" || e.isPage(id) {
		m := &marquee{origin: p, current: p}
		if additive {
			m.base = e.selection.IDs()
		} else {
			e.selection.Clear()
		}
		e.marquee = m
		return
	}

	if additive {
		e.selection.Toggle(id)
		return
	}
	if !e.selection.Has(id) {
		e.selection.Select(id)
	}
	if e.drag.Start(p) {
		e.active = gesture.KindDrag
	}
}

// PointerMove feeds the running gesture or marquee.
func (e *Editor) PointerMove(p geometry.Point) {
	if e.marquee != nil {
		e.marquee.current = p
		e.frames.Request(e.updateMarquee)
		return
	}
	switch e.active {
	case gesture.KindDrag:
		e.drag.Move(p)
	case gesture.KindRotate:
		e.rotate.Move(p)
	case gesture.KindResize:
		e.resize.Move(p)
	}
}

func (e *Editor) updateMarquee() {
	if e.marquee == nil {
		return
	}
	hits := e.picker.NodesInRect(e.marquee.rect())
	ids := slices.Clone(e.marquee.base)
	for _, id := range hits {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	e.selection.Select(ids...)
}

// PointerUp ends the running gesture, pushing its command if it crossed
// the threshold.
func (e *Editor) PointerUp(p geometry.Point) {
	if e.marquee != nil {
		e.marquee.current = p
		e.frames.Cancel()
		e.updateMarquee()
		e.marquee = nil
		return
	}
	switch e.active {
	case gesture.KindDrag:
		e.drag.Move(p)
		e.drag.Stop()
	case gesture.KindRotate:
		e.rotate.Move(p)
		e.rotate.Stop()
	case gesture.KindResize:
		e.resize.Move(p)
		e.resize.Stop()
	}
	e.active = ""
}

// PointerCancel abandons the running gesture (pointer left the canvas,
// window blur) and restores the nodes it touched.
func (e *Editor) PointerCancel() {
	switch e.active {
	case gesture.KindDrag:
		e.drag.Cancel()
	case gesture.KindRotate:
		e.rotate.Cancel()
	case gesture.KindResize:
		e.resize.Cancel()
	}
	e.active = ""
	if e.marquee != nil {
		e.frames.Cancel()
		e.marquee = nil
	}
}

// Marquee returns the rubber-band rect while one is being drawn.
func (e *Editor) Marquee() (geometry.Rect, bool) {
	if e.marquee == nil {
		return geometry.Rect{}, false
	}
	return e.marquee.rect(), true
}

// Gesture returns the kind of the running gesture, empty when idle.
func (e *Editor) Gesture() gesture.Kind { return e.active }

func (e *Editor) isPage(id string) bool {
	n := e.tree.Find(id)
	return n != nil && n.Kind() == scene.KindFrame && n.Parent() == ""
}
