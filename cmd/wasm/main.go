//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/DivXPro/canvas-editor-sub000/internal/config"
	"github.com/DivXPro/canvas-editor-sub000/internal/editor"
	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/keymap"
)

var ed *editor.Editor

func main() {
	ed = editor.New(config.DefaultEditor())

	// Create the editor API object
	canvasEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	canvasEditor.Set("loadDocument", js.FuncOf(loadDocument))
	canvasEditor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	canvasEditor.Set("pointerDown", js.FuncOf(pointerDown))
	canvasEditor.Set("pointerMove", js.FuncOf(pointerMove))
	canvasEditor.Set("pointerUp", js.FuncOf(pointerUp))
	canvasEditor.Set("pointerCancel", js.FuncOf(pointerCancel))
	canvasEditor.Set("press", js.FuncOf(press))
	canvasEditor.Set("perform", js.FuncOf(perform))
	canvasEditor.Set("undo", js.FuncOf(undo))
	canvasEditor.Set("redo", js.FuncOf(redo))
	canvasEditor.Set("setSelection", js.FuncOf(setSelection))
	canvasEditor.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← editor) ---
	canvasEditor.Set("render", js.FuncOf(render))
	canvasEditor.Set("hitTest", js.FuncOf(hitTest))
	canvasEditor.Set("getSelection", js.FuncOf(getSelection))
	canvasEditor.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	canvasEditor.Set("getNode", js.FuncOf(getNode))
	canvasEditor.Set("getDocument", js.FuncOf(getDocument))
	canvasEditor.Set("getHistoryState", js.FuncOf(getHistoryState))

	js.Global().Set("canvasEditor", canvasEditor)
	js.Global().Set("canvasEditorReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func failMsg(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

// pointArgs reads (x, y) from the first two arguments.
func pointArgs(args []js.Value) (geometry.Point, bool) {
	if len(args) < 2 {
		return geometry.Point{}, false
	}
	return geometry.Pt(args[0].Float(), args[1].Float()), true
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return failMsg("missing document JSON")
	}
	if err := ed.LoadDocumentJSON(args[0].String()); err != nil {
		return fail(err)
	}
	return ok()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	projectID := "doc_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		projectID = args[0].String()
	}
	if err := ed.LoadSampleDocument(projectID); err != nil {
		return fail(err)
	}
	return ok()
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	p, valid := pointArgs(args)
	if !valid {
		return nil
	}
	shift := len(args) > 2 && args[2].Truthy()
	ed.PointerDown(p, shift)
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if p, valid := pointArgs(args); valid {
		ed.PointerMove(p)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if p, valid := pointArgs(args); valid {
		ed.PointerUp(p)
	}
	return nil
}

func pointerCancel(this js.Value, args []js.Value) interface{} {
	ed.PointerCancel()
	return nil
}

func press(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return failMsg("missing chord")
	}
	action, matched, err := ed.Press(args[0].String())
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"action": string(action), "matched": matched})
}

func perform(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return failMsg("missing action")
	}
	if err := ed.Perform(keymap.Action(args[0].String())); err != nil {
		return fail(err)
	}
	return ok()
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Redo())
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		ed.SetSelection(nil)
		return nil
	}

	arr := args[0]
	ids := make([]string, arr.Length())
	for i := range ids {
		ids[i] = arr.Index(i).String()
	}
	ed.SetSelection(ids)
	return nil
}

func tick(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Tick())
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(ed.HitTest(args[0].Float(), args[1].Float()))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetSelection())
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetSelectionBounds())
}

func getNode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("null")
	}
	return js.ValueOf(ed.GetNode(args[0].String()))
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetDocument())
}

func getHistoryState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetHistoryState())
}
