package gesture

import (
	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/history"
)

// Drag moves the selected nodes by the pointer delta.
type Drag struct {
	base
	snapshot map[string]geometry.Point
}

// NewDrag creates a drag controller.
func NewDrag(d Deps) *Drag {
	g := &Drag{snapshot: make(map[string]geometry.Point)}
	g.base = newBase(KindDrag, d, func(id string) { delete(g.snapshot, id) })
	g.watch()
	return g
}

// Start records the pointer and the positions of the draggable selected
// nodes. It reports false, staying Idle, when there is nothing to drag.
func (g *Drag) Start(p geometry.Point) bool {
	if g.state != StateIdle {
		g.Cancel()
	}
	ids := g.targets()
	if len(ids) == 0 {
		return false
	}
	clear(g.snapshot)
	for _, id := range ids {
		g.snapshot[id] = g.tree.Find(id).Position()
	}
	g.begin(p, ids)
	return true
}

// Move schedules a recompute for the next frame.
func (g *Drag) Move(p geometry.Point) {
	if g.state == StateIdle {
		return
	}
	g.current = p
	g.frames.Request(g.update)
}

func (g *Drag) update() {
	if !g.crossed() {
		return
	}
	delta := g.delta()
	for _, id := range g.IDs() {
		// The delta is in canvas space; positions live in the parent frame.
		local := g.tree.ParentTransform(id).Invert().ApplyVector(delta)
		_ = g.tree.SetPosition(id, g.snapshot[id].Add(local))
	}
	g.emit(PhaseUpdate, false)
}

// Stop applies any pending frame, records one Move per node if the drag
// became Active, and returns to Idle. The recorded composite is returned,
// nil when nothing moved.
func (g *Drag) Stop() *history.Composite {
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
		cmds = append(cmds, &history.Move{ID: id, Prev: g.snapshot[id], Next: n.Position()})
	}
	c := g.commit("drag", cmds)
	if g.state == StateActive {
		g.emit(PhaseEnd, false)
	}
	g.reset()
	return c
}

// Cancel restores the snapshot and returns to Idle without recording.
func (g *Drag) Cancel() {
	if g.state == StateIdle {
		return
	}
	g.frames.Cancel()
	if g.state == StateActive {
		for _, id := range g.IDs() {
			_ = g.tree.SetPosition(id, g.snapshot[id])
		}
		g.emit(PhaseEnd, true)
	}
	g.reset()
}
