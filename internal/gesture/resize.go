package gesture

import (
	"math"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/history"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

// MinSize is the smallest width or height a resize produces.
const MinSize = 1

// Resize scales the selected nodes from one of the eight handles, keeping
// the opposite anchor of each node fixed.
type Resize struct {
	base
	handle   scene.Handle
	snapshot map[string]history.Placement
}

// NewResize creates a resize controller.
func NewResize(d Deps) *Resize {
	g := &Resize{snapshot: make(map[string]history.Placement)}
	g.base = newBase(KindResize, d, func(id string) { delete(g.snapshot, id) })
	g.watch()
	return g
}

// Start records the grabbed handle and each node's placement.
func (g *Resize) Start(p geometry.Point, h scene.Handle) bool {
	if g.state != StateIdle {
		g.Cancel()
	}
	ids := g.targets()
	if len(ids) == 0 {
		return false
	}
	clear(g.snapshot)
	for _, id := range ids {
		g.snapshot[id] = g.placement(id)
	}
	g.handle = h
	g.begin(p, ids)
	return true
}

// Handle is the handle grabbed at Start.
func (g *Resize) Handle() scene.Handle { return g.handle }

func (g *Resize) placement(id string) history.Placement {
	return history.CapturePlacement(g.tree, id)
}

// Move schedules a recompute for the next frame.
func (g *Resize) Move(p geometry.Point) {
	if g.state == StateIdle {
		return
	}
	g.current = p
	g.frames.Request(g.update)
}

func (g *Resize) update() {
	if !g.crossed() {
		return
	}
	delta := g.delta()
	sx, sy := g.handle.Signs()
	for _, id := range g.IDs() {
		snap := g.snapshot[id]
		local := delta.Rotate(-g.tree.AbsoluteRotation(id))
		size := geometry.Size{
			Width:  math.Max(MinSize, snap.Size.Width+sx*local.X),
			Height: math.Max(MinSize, snap.Size.Height+sy*local.Y),
		}
		g.restore(id, snap)
		_ = g.tree.Resize(id, g.handle, size)
	}
	g.emit(PhaseUpdate, false)
}

func (g *Resize) restore(id string, p history.Placement) {
	_ = history.ApplyPlacement(g.tree, id, p)
}

// Stop records one Resize per node if the gesture became Active.
func (g *Resize) Stop() *history.Composite {
	if g.state == StateIdle {
		return nil
	}
	g.frames.Flush()

	var cmds []history.Command
	for _, id := range g.ids {
		if g.tree.Find(id) == nil {
			continue
		}
		cmds = append(cmds, &history.Resize{ID: id, Prev: g.snapshot[id], Next: g.placement(id)})
	}
	c := g.commit("resize", cmds)
	if g.state == StateActive {
		g.emit(PhaseEnd, false)
	}
	g.reset()
	return c
}

// Cancel restores the snapshot and returns to Idle without recording.
func (g *Resize) Cancel() {
	if g.state == StateIdle {
		return
	}
	g.frames.Cancel()
	if g.state == StateActive {
		for _, id := range g.IDs() {
			g.restore(id, g.snapshot[id])
		}
		g.emit(PhaseEnd, true)
	}
	g.reset()
}
