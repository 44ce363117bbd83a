package overlay

import (
	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/gesture"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
	"github.com/DivXPro/canvas-editor-sub000/internal/selection"
)

// Options size the interactive parts of the overlay, in canvas units.
type Options struct {
	HandleSize      float64
	BorderTolerance float64
	RotateZone      float64
}

// DefaultOptions returns the stock handle and tolerance sizes.
func DefaultOptions() Options {
	return Options{HandleSize: 8, BorderTolerance: 4, RotateZone: 16}
}

// Target is the gesture a pointer-down should start.
type Target int

const (
	TargetNone Target = iota
	TargetDrag
	TargetResize
	TargetRotate
)

func (t Target) String() string {
	switch t {
	case TargetDrag:
		return "drag"
	case TargetResize:
		return "resize"
	case TargetRotate:
		return "rotate"
	}
	return "none"
}

// Pick is the result of routing a pointer-down against the overlay.
type Pick struct {
	Target Target       `json:"target"`
	Handle scene.Handle `json:"handle"`
}

// HandlePoint is a resize handle and its canvas position.
type HandlePoint struct {
	Handle scene.Handle   `json:"handle"`
	Point  geometry.Point `json:"point"`
}

// Overlay tracks the selection outline and its handles. It recomputes on
// selection events, tree changes and gesture ends, and hides while a drag
// is running.
type Overlay struct {
	tree      *scene.Tree
	selection *selection.Selection
	opts      Options

	quad    geometry.Quad
	visible bool
	hidden  bool
	stops   []func()
}

// New creates an overlay bound to tree and sel.
func New(tree *scene.Tree, sel *selection.Selection, opts Options) *Overlay {
	o := &Overlay{tree: tree, selection: sel, opts: opts}
	o.stops = append(o.stops,
		sel.Subscribe(func(selection.Event) { o.Recompute() }),
		tree.Subscribe(func(c scene.Change) {
			if !o.hidden {
				o.Recompute()
			}
		}),
	)
	o.Recompute()
	return o
}

// Watch follows a gesture controller: drags hide the overlay until they
// end, and every gesture end triggers a recompute.
func (o *Overlay) Watch(subscribe func(func(gesture.TransformEvent)) func()) {
	o.stops = append(o.stops, subscribe(func(e gesture.TransformEvent) {
		switch e.Phase {
		case gesture.PhaseStart, gesture.PhaseUpdate:
			if e.Kind == gesture.KindDrag {
				o.hidden = true
			}
		case gesture.PhaseEnd:
			o.hidden = false
			o.Recompute()
		}
	}))
}

// Close drops every subscription.
func (o *Overlay) Close() {
	for _, stop := range o.stops {
		stop()
	}
	o.stops = nil
}

// Recompute refreshes the outline from the selection.
func (o *Overlay) Recompute() {
	o.quad, o.visible = o.selection.BoundingQuad()
}

// Visible reports whether there is an outline to draw.
func (o *Overlay) Visible() bool { return o.visible && !o.hidden }

// Quad returns the selection outline, TL, TR, BR, BL.
func (o *Overlay) Quad() (geometry.Quad, bool) { return o.quad, o.Visible() }

// Handles returns the eight resize handles clockwise from the top-left.
func (o *Overlay) Handles() []HandlePoint {
	if !o.Visible() {
		return nil
	}
	q := o.quad
	mid := func(a, b geometry.Point) geometry.Point { return a.Add(b).Scale(0.5) }
	points := [8]geometry.Point{
		q[0], mid(q[0], q[1]), q[1], mid(q[1], q[2]),
		q[2], mid(q[2], q[3]), q[3], mid(q[3], q[0]),
	}
	out := make([]HandlePoint, len(scene.Handles))
	for i, h := range scene.Handles {
		out[i] = HandlePoint{Handle: h, Point: points[i]}
	}
	return out
}

// HandleAt returns the handle under p. Corners win over edges when they
// overlap on small selections.
func (o *Overlay) HandleAt(p geometry.Point) (scene.Handle, bool) {
	handles := o.Handles()
	half := o.opts.HandleSize / 2
	for _, pass := range []bool{true, false} {
		for _, hp := range handles {
			if hp.Handle.IsCorner() == pass && p.Near(hp.Point, half) {
				return hp.Handle, true
			}
		}
	}
	return 0, false
}

// IsPointOnBorder reports whether p lies within the border tolerance of
// the outline.
func (o *Overlay) IsPointOnBorder(p geometry.Point) bool {
	if !o.Visible() {
		return false
	}
	for _, e := range o.quad.Edges() {
		if geometry.PointToSegmentDistance(p, e[0], e[1]) <= o.opts.BorderTolerance {
			return true
		}
	}
	return false
}

// IsOnTransformArea reports whether p is inside the outline or on its
// border.
func (o *Overlay) IsOnTransformArea(p geometry.Point) bool {
	if !o.Visible() {
		return false
	}
	return geometry.PointInPolygon(p, o.quad.Points()) || o.IsPointOnBorder(p)
}

// IsOnRotateZone reports whether p is just outside a corner, where a
// pointer-down starts a rotation.
func (o *Overlay) IsOnRotateZone(p geometry.Point) bool {
	if !o.Visible() || o.IsOnTransformArea(p) {
		return false
	}
	for _, c := range o.quad {
		if p.Distance(c) <= o.opts.RotateZone {
			return true
		}
	}
	return false
}

// Pick decides which gesture a pointer-down at p starts.
func (o *Overlay) Pick(p geometry.Point) Pick {
	if !o.Visible() {
		return Pick{Target: TargetNone}
	}
	if h, ok := o.HandleAt(p); ok {
		return Pick{Target: TargetResize, Handle: h}
	}
	if o.IsOnRotateZone(p) {
		return Pick{Target: TargetRotate}
	}
	if o.IsOnTransformArea(p) {
		return Pick{Target: TargetDrag}
	}
	return Pick{Target: TargetNone}
}
