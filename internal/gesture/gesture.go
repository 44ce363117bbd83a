package gesture

import (
	"math"
	"slices"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/history"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
	"github.com/DivXPro/canvas-editor-sub000/internal/selection"
)

// DefaultThreshold is the per-axis pointer travel, in canvas units, a
// gesture must exceed before it starts mutating nodes.
const DefaultThreshold = 5

// State is the lifecycle of a gesture controller.
type State int

const (
	StateIdle State = iota
	StatePending
	StateActive
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	}
	return "unknown"
}

// Kind names the gesture behind a TransformEvent.
type Kind string

const (
	KindDrag   Kind = "drag"
	KindRotate Kind = "rotate"
	KindResize Kind = "resize"
)

// Phase is the step of a gesture a TransformEvent reports.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseUpdate
	PhaseEnd
)

// TransformEvent is the lightweight per-frame notification emitted while a
// gesture mutates nodes.
type TransformEvent struct {
	Kind      Kind
	Phase     Phase
	IDs       []string
	Cancelled bool
}

// Deps are the collaborators shared by every controller.
type Deps struct {
	Tree      *scene.Tree
	Selection *selection.Selection
	History   *history.History
	Frames    *FrameQueue
	// Threshold overrides DefaultThreshold when positive.
	Threshold float64
}

// base holds the state machine and bookkeeping common to all controllers.
type base struct {
	kind      Kind
	tree      *scene.Tree
	selection *selection.Selection
	history   *history.History
	frames    *FrameQueue
	threshold float64

	state     State
	origin    geometry.Point
	current   geometry.Point
	ids       []string
	listeners map[int]func(TransformEvent)
	nextID    int
	stop      func()
	forget    func(id string)
}

func newBase(kind Kind, d Deps, forget func(string)) base {
	b := base{
		kind:      kind,
		tree:      d.Tree,
		selection: d.Selection,
		history:   d.History,
		frames:    d.Frames,
		threshold: d.Threshold,
		listeners: make(map[int]func(TransformEvent)),
		forget:    forget,
	}
	if b.threshold <= 0 {
		b.threshold = DefaultThreshold
	}
	if b.frames == nil {
		b.frames = &FrameQueue{}
	}
	return b
}

// watch prunes removed nodes from the snapshot. It is called once the
// controller has its final address.
func (b *base) watch() {
	b.stop = b.tree.Subscribe(func(c scene.Change) {
		if c.Kind != scene.ChangeRemoved {
			return
		}
		if i := slices.Index(b.ids, c.ID); i >= 0 {
			b.ids = slices.Delete(b.ids, i, i+1)
			b.forget(c.ID)
		}
	})
}

// Close detaches the controller from the tree.
func (b *base) Close() {
	if b.stop != nil {
		b.stop()
		b.stop = nil
	}
}

// State returns the current lifecycle state.
func (b *base) State() State { return b.state }

// IDs returns the ids the running gesture transforms.
func (b *base) IDs() []string { return slices.Clone(b.ids) }

// Subscribe registers fn for transform events and returns its unsubscribe.
func (b *base) Subscribe(fn func(TransformEvent)) func() {
	b.nextID++
	id := b.nextID
	b.listeners[id] = fn
	return func() { delete(b.listeners, id) }
}

func (b *base) emit(phase Phase, cancelled bool) {
	keys := make([]int, 0, len(b.listeners))
	for k := range b.listeners {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	e := TransformEvent{Kind: b.kind, Phase: phase, IDs: slices.Clone(b.ids), Cancelled: cancelled}
	for _, k := range keys {
		if fn, ok := b.listeners[k]; ok {
			fn(e)
		}
	}
}

// targets returns the selected nodes a gesture may transform: unlocked,
// live, and without a selected ancestor (the ancestor moves them already).
func (b *base) targets() []string {
	selected := b.selection.IDs()
	var out []string
	for _, id := range selected {
		n := b.tree.Find(id)
		if n == nil || n.Locked() {
			continue
		}
		nested := false
		for _, a := range b.tree.Ancestors(id) {
			if slices.Contains(selected, a) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, id)
		}
	}
	return out
}

func (b *base) begin(p geometry.Point, ids []string) {
	b.state = StatePending
	b.origin = p
	b.current = p
	b.ids = ids
}

// delta is the pointer travel since Start, in canvas space.
func (b *base) delta() geometry.Point { return b.current.Sub(b.origin) }

// crossed moves Pending to Active once the pointer leaves the dead zone.
// It reports whether the gesture may mutate nodes.
func (b *base) crossed() bool {
	switch b.state {
	case StateActive:
		return true
	case StatePending:
		d := b.delta()
		if math.Abs(d.X) <= b.threshold && math.Abs(d.Y) <= b.threshold {
			return false
		}
		b.state = StateActive
		b.emit(PhaseStart, false)
		return true
	}
	return false
}

func (b *base) reset() {
	b.frames.Cancel()
	b.state = StateIdle
	b.ids = nil
}

// commit pushes cmds as one history entry when the gesture became Active.
func (b *base) commit(label string, cmds []history.Command) *history.Composite {
	if b.state != StateActive || len(cmds) == 0 {
		return nil
	}
	c := history.NewComposite(label, cmds...)
	if b.history != nil {
		b.history.Push(c)
	}
	return c
}
