package gesture

import (
	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/history"
)

// Rotate turns the selected nodes by the angle the pointer sweeps around
// the selection center.
type Rotate struct {
	base
	pivot    geometry.Point
	angle    float64
	snapshot map[string]float64
}

// NewRotate creates a rotate controller.
func NewRotate(d Deps) *Rotate {
	g := &Rotate{snapshot: make(map[string]float64)}
	g.base = newBase(KindRotate, d, func(id string) { delete(g.snapshot, id) })
	g.watch()
	return g
}

// Start records the pivot and each node's rotation.
func (g *Rotate) Start(p geometry.Point) bool {
	if g.state != StateIdle {
		g.Cancel()
	}
	ids := g.targets()
	quad, ok := g.selection.BoundingQuad()
	if len(ids) == 0 || !ok {
		return false
	}
	clear(g.snapshot)
	for _, id := range ids {
		g.snapshot[id] = g.tree.Find(id).Rotation()
	}
	g.pivot = quad.Center()
	g.angle = 0
	g.begin(p, ids)
	return true
}

// Pivot is the center the gesture rotates around.
func (g *Rotate) Pivot() geometry.Point { return g.pivot }

// Angle is the rotation applied so far, in [0, 2π).
func (g *Rotate) Angle() float64 { return g.angle }

// Move schedules a recompute for the next frame.
func (g *Rotate) Move(p geometry.Point) {
	if g.state == StateIdle {
		return
	}
	g.current = p
	g.frames.Request(g.update)
}

func (g *Rotate) update() {
	if !g.crossed() {
		return
	}
	g.angle = geometry.NormalizeAngle(geometry.AngleBetween(g.pivot, g.origin, g.current))
	for _, id := range g.IDs() {
		_ = g.tree.SetRotation(id, g.snapshot[id]+g.angle)
	}
	g.emit(PhaseUpdate, false)
}

// Stop records one Rotation per node if the gesture became Active.
func (g *Rotate) Stop() *history.Composite {
	if g.state == StateIdle {
		return nil
	}
	g.frames.Flush()

	var cmds []history.Command
	for _, id := range g.ids {
		n := g.tree.Find(id)
		if n == nil {
			continue
		}
		cmds = append(cmds, &history.Rotation{ID: id, Prev: g.snapshot[id], Next: n.Rotation()})
	}
	c := g.commit("rotate", cmds)
	if g.state == StateActive {
		g.emit(PhaseEnd, false)
	}
	g.reset()
	return c
}

// Cancel restores the snapshot and returns to Idle without recording.
func (g *Rotate) Cancel() {
	if g.state == StateIdle {
		return
	}
	g.frames.Cancel()
	if g.state == StateActive {
		for _, id := range g.IDs() {
			_ = g.tree.SetRotation(id, g.snapshot[id])
		}
		g.emit(PhaseEnd, true)
	}
	g.reset()
}
