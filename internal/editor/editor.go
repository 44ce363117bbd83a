package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/DivXPro/canvas-editor-sub000/internal/config"
	"github.com/DivXPro/canvas-editor-sub000/internal/document"
	"github.com/DivXPro/canvas-editor-sub000/internal/gesture"
	"github.com/DivXPro/canvas-editor-sub000/internal/history"
	"github.com/DivXPro/canvas-editor-sub000/internal/keymap"
	"github.com/DivXPro/canvas-editor-sub000/internal/overlay"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
	"github.com/DivXPro/canvas-editor-sub000/internal/selection"
)

// Editor owns one canvas: the scene graph, selection, history, gesture
// controllers and overlay. It takes commands from a host (pointer, keys,
// structural ops) and answers queries, mostly as JSON for the wasm host.
//
// An Editor is not safe for concurrent use; hosts drive it from a single
// goroutine or event loop.
type Editor struct {
	cfg config.Editor

	// Document state
	project document.Project
	tree    *scene.Tree

	selection *selection.Selection
	history   *history.History
	frames    *gesture.FrameQueue
	drag      *gesture.Drag
	rotate    *gesture.Rotate
	resize    *gesture.Resize
	overlay   *overlay.Overlay
	picker    overlay.Picker
	keys      *keymap.Dispatcher

	// Pointer routing state
	active  gesture.Kind
	marquee *marquee

	clipboard []clip
	pastes    int
}

// New creates an editor with an empty canvas.
func New(cfg config.Editor) *Editor {
	e := &Editor{cfg: cfg}
	e.reset(scene.NewTree())
	return e
}

// reset wires a fresh set of collaborators around tree.
func (e *Editor) reset(tree *scene.Tree) {
	if e.overlay != nil {
		e.overlay.Close()
		e.drag.Close()
		e.rotate.Close()
		e.resize.Close()
		e.selection.Close()
	}

	e.tree = tree
	e.selection = selection.New(tree)
	e.history = history.New(tree, e.cfg.HistoryLimit)
	e.frames = &gesture.FrameQueue{}

	deps := gesture.Deps{
		Tree:      tree,
		Selection: e.selection,
		History:   e.history,
		Frames:    e.frames,
		Threshold: e.cfg.DragThreshold,
	}
	e.drag = gesture.NewDrag(deps)
	e.rotate = gesture.NewRotate(deps)
	e.resize = gesture.NewResize(deps)

	e.overlay = overlay.New(tree, e.selection, overlay.Options{
		HandleSize:      e.cfg.HandleSize,
		BorderTolerance: e.cfg.BorderTolerance,
		RotateZone:      e.cfg.RotateZone,
	})
	e.overlay.Watch(e.drag.Subscribe)
	e.overlay.Watch(e.rotate.Subscribe)
	e.overlay.Watch(e.resize.Subscribe)

	e.picker = overlay.Picker{Tree: tree, Segments: e.cfg.EllipseSegments}
	e.keys = keymap.NewDispatcher(keymap.Default())
	e.bindKeys()

	e.active = ""
	e.marquee = nil
}

func (e *Editor) bindKeys() {
	for _, a := range actions {
		e.keys.Handle(a, func() { logFailure(a, e.Perform(a)) })
	}
}

var actions = []keymap.Action{
	keymap.ActionDelete, keymap.ActionCopy, keymap.ActionCut, keymap.ActionPaste,
	keymap.ActionUndo, keymap.ActionRedo, keymap.ActionGroup, keymap.ActionUngroup,
	keymap.ActionSelectAll, keymap.ActionDeselect,
	keymap.ActionNudgeLeft, keymap.ActionNudgeRight, keymap.ActionNudgeUp, keymap.ActionNudgeDown,
	keymap.ActionNudgeLeftLarge, keymap.ActionNudgeRightLarge, keymap.ActionNudgeUpLarge, keymap.ActionNudgeDownLarge,
}

// ErrUnknownAction is returned by Perform for names outside the action set.
var ErrUnknownAction = errors.New("unknown action")

// Perform runs a named action, the same way its shortcut does.
func (e *Editor) Perform(a keymap.Action) error {
	small, large := e.cfg.NudgeStep, e.cfg.NudgeLargeStep
	switch a {
	case keymap.ActionDelete:
		return e.DeleteSelection()
	case keymap.ActionCopy:
		return e.Copy()
	case keymap.ActionCut:
		return e.Cut()
	case keymap.ActionPaste:
		return e.Paste()
	case keymap.ActionUndo:
		e.Undo()
	case keymap.ActionRedo:
		e.Redo()
	case keymap.ActionGroup:
		_, err := e.GroupSelection()
		return err
	case keymap.ActionUngroup:
		return e.UngroupSelection()
	case keymap.ActionSelectAll:
		e.SelectAll()
	case keymap.ActionDeselect:
		e.selection.Clear()
	case keymap.ActionNudgeLeft:
		return e.Nudge(-small, 0)
	case keymap.ActionNudgeRight:
		return e.Nudge(small, 0)
	case keymap.ActionNudgeUp:
		return e.Nudge(0, -small)
	case keymap.ActionNudgeDown:
		return e.Nudge(0, small)
	case keymap.ActionNudgeLeftLarge:
		return e.Nudge(-large, 0)
	case keymap.ActionNudgeRightLarge:
		return e.Nudge(large, 0)
	case keymap.ActionNudgeUpLarge:
		return e.Nudge(0, -large)
	case keymap.ActionNudgeDownLarge:
		return e.Nudge(0, large)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
	return nil
}

// logFailure reports shortcut errors, which have no caller to return to.
// An empty selection is not a failure.
func logFailure(action keymap.Action, err error) {
	if err == nil || errors.Is(err, ErrEmptySelection) {
		return
	}
	slog.Warn("shortcut failed", "action", action, "error", err)
}

// --- Commands (host → editor) ---

// LoadDocument replaces the canvas with doc. Selection and history start
// empty.
func (e *Editor) LoadDocument(doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	tree := scene.NewTree()
	if err := doc.Load(tree); err != nil {
		return fmt.Errorf("load document %s: %w", doc.Project.ID, err)
	}
	e.project = doc.Project
	e.reset(tree)
	return nil
}

// LoadDocumentJSON parses and loads a document.
func (e *Editor) LoadDocumentJSON(data string) error {
	doc, err := document.Parse([]byte(data))
	if err != nil {
		return err
	}
	return e.LoadDocument(doc)
}

// LoadSampleDocument loads the built-in sample document.
func (e *Editor) LoadSampleDocument(projectID string) error {
	return e.LoadDocument(document.NewSampleDocument(projectID))
}

// Document captures the current canvas.
func (e *Editor) Document() *document.Document {
	return &document.Document{Project: e.project, Pages: e.tree.SerializeAll()}
}

// Press feeds a key chord ("Control+Z") to the shortcut dispatcher.
func (e *Editor) Press(chord string) (keymap.Action, bool, error) {
	return e.keys.PressString(chord)
}

// Tick runs the pending frame, if any, and returns the paint commands.
// Hosts call it once per animation frame.
func (e *Editor) Tick() string {
	e.frames.Flush()
	return e.Render()
}

// Undo reverts the last history entry, cancelling any running gesture.
func (e *Editor) Undo() bool {
	e.PointerCancel()
	return e.history.Undo()
}

// Redo re-applies the next history entry.
func (e *Editor) Redo() bool {
	e.PointerCancel()
	return e.history.Redo()
}

func (e *Editor) Tree() *scene.Tree               { return e.tree }
func (e *Editor) Selection() *selection.Selection { return e.selection }
func (e *Editor) History() *history.History       { return e.history }
func (e *Editor) Overlay() *overlay.Overlay       { return e.overlay }
func (e *Editor) Frames() *gesture.FrameQueue     { return e.frames }
func (e *Editor) Project() document.Project       { return e.project }
