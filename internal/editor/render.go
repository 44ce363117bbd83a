package editor

import (
	"encoding/json"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/overlay"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

// PaintCommand is one operation for the render surface. The host receives
// the list in painter's order (back to front) and replays it on its own
// drawing context.
type PaintCommand struct {
	Op        string            `json:"op"`                  // "draw", "save", "clip", "restore"
	ID        string            `json:"id,omitempty"`        // For hit correlation
	Kind      scene.Kind        `json:"kind,omitempty"`      // Node kind of a "draw"
	Transform []float64         `json:"transform,omitempty"` // [a, b, c, d, e, f], origin at the node center
	Size      *geometry.Size    `json:"size,omitempty"`
	Fills     []json.RawMessage `json:"fills,omitempty"`
	Strokes   []json.RawMessage `json:"strokes,omitempty"`
	Effects   []json.RawMessage `json:"effects,omitempty"`
	Text      *scene.TextData   `json:"text,omitempty"`
}

const (
	OpDraw    = "draw"
	OpSave    = "save"
	OpClip    = "clip"
	OpRestore = "restore"
)

// CompilePaintCommands walks the tree in paint order. Frames draw their
// background and clip their children; groups only contribute their
// children. Hidden subtrees are skipped.
func CompilePaintCommands(tree *scene.Tree) []PaintCommand {
	var commands []PaintCommand
	for _, id := range tree.Roots() {
		compileNode(tree, id, &commands)
	}
	return commands
}

func compileNode(tree *scene.Tree, id string, commands *[]PaintCommand) {
	n := tree.Find(id)
	if n == nil || !n.Visible() {
		return
	}

	transform := tree.AbsoluteTransform(id).ToSlice()
	size := tree.Size(id)

	if n.Kind() != scene.KindGroup {
		paint := n.Paint()
		*commands = append(*commands, PaintCommand{
			Op:        OpDraw,
			ID:        id,
			Kind:      n.Kind(),
			Transform: transform,
			Size:      &size,
			Fills:     paint.Fills,
			Strokes:   paint.Strokes,
			Effects:   paint.Effects,
			Text:      n.Text(),
		})
	}

	clip := n.Kind() == scene.KindFrame && n.ChildCount() > 0
	if clip {
		*commands = append(*commands,
			PaintCommand{Op: OpSave},
			PaintCommand{Op: OpClip, ID: id, Transform: transform, Size: &size},
		)
	}

	for _, c := range n.Children() {
		compileNode(tree, c, commands)
	}

	if clip {
		*commands = append(*commands, PaintCommand{Op: OpRestore})
	}
}

// OverlayState is what the host needs to draw the selection chrome.
type OverlayState struct {
	Visible  bool                  `json:"visible"`
	Quad     *geometry.Quad        `json:"quad,omitempty"`
	Rotation float64               `json:"rotation"`
	Handles  []overlay.HandlePoint `json:"handles,omitempty"`
	Marquee  *geometry.Rect        `json:"marquee,omitempty"`
	Selected []string              `json:"selected"`
	Gesture  string                `json:"gesture,omitempty"`
}

// OverlayState snapshots the selection chrome.
func (e *Editor) OverlayState() OverlayState {
	s := OverlayState{
		Selected: e.selection.IDs(),
		Gesture:  string(e.active),
	}
	if q, ok := e.overlay.Quad(); ok {
		s.Visible = true
		s.Quad = &q
		s.Rotation = e.selection.Rotation()
		s.Handles = e.overlay.Handles()
	}
	if r, ok := e.Marquee(); ok {
		s.Marquee = &r
	}
	return s
}

// Frame is one rendered frame: paint commands plus overlay state.
type Frame struct {
	Commands []PaintCommand `json:"commands"`
	Overlay  OverlayState   `json:"overlay"`
}

// Snapshot compiles the current frame.
func (e *Editor) Snapshot() Frame {
	return Frame{Commands: CompilePaintCommands(e.tree), Overlay: e.OverlayState()}
}

// Render serializes the current frame to JSON.
func (e *Editor) Render() string {
	return toJSON(e.Snapshot(), "{}")
}

func toJSON(v any, fallback string) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(data)
}
