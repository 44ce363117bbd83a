package editor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivXPro/canvas-editor-sub000/internal/config"
	"github.com/DivXPro/canvas-editor-sub000/internal/document"
	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/gesture"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

func box(id string, x, y float64) scene.Record {
	return scene.Record{ID: id, Kind: "RECTANGLE", Position: geometry.Pt(x, y), Size: geometry.Size{Width: 100, Height: 100}}
}

// newEditor loads a 1000x1000 page with its top-left at the canvas origin,
// holding a at canvas (100,100) and b at canvas (300,100).
func newEditor(t *testing.T) *Editor {
	t.Helper()
	e := New(config.DefaultEditor())
	doc := &document.Document{
		Project: document.Project{ID: "doc_test", Name: "test", Version: 1},
		Pages: []scene.Record{{
			ID: "page", Kind: "FRAME", Position: geometry.Pt(500, 500), Size: geometry.Size{Width: 1000, Height: 1000},
			Children: []scene.Record{box("a", -400, -400), box("b", -200, -400)},
		}},
	}
	require.NoError(t, e.LoadDocument(doc))
	return e
}

func assertAt(t *testing.T, e *Editor, id string, x, y float64) {
	t.Helper()
	p := e.Tree().AbsolutePosition(id)
	assert.InDelta(t, x, p.X, 1e-9, "%s x", id)
	assert.InDelta(t, y, p.Y, 1e-9, "%s y", id)
}

func TestClickSelectsAndDragMoves(t *testing.T) {
	e := newEditor(t)

	e.PointerDown(geometry.Pt(100, 100), false)
	assert.Equal(t, []string{"a"}, e.Selection().IDs())
	assert.Equal(t, gesture.KindDrag, e.Gesture())

	e.PointerMove(geometry.Pt(110, 110))
	e.PointerMove(geometry.Pt(120, 130))
	e.Tick()
	assertAt(t, e, "a", 120, 130)
	assert.False(t, e.Overlay().Visible())

	e.PointerUp(geometry.Pt(120, 130))
	assert.Equal(t, gesture.Kind(""), e.Gesture())
	assert.Equal(t, 1, e.History().Len())
	assert.True(t, e.Overlay().Visible())

	require.True(t, e.Undo())
	assertAt(t, e, "a", 100, 100)
	require.True(t, e.Redo())
	assertAt(t, e, "a", 120, 130)
}

func TestClickWithoutMovingRecordsNothing(t *testing.T) {
	e := newEditor(t)
	e.PointerDown(geometry.Pt(100, 100), false)
	e.PointerMove(geometry.Pt(103, 102))
	e.PointerUp(geometry.Pt(103, 102))
	assertAt(t, e, "a", 100, 100)
	assert.Equal(t, 0, e.History().Len())
	assert.Equal(t, []string{"a"}, e.Selection().IDs())
}

func TestAdditiveClickToggles(t *testing.T) {
	e := newEditor(t)
	e.PointerDown(geometry.Pt(100, 100), false)
	e.PointerUp(geometry.Pt(100, 100))
	e.PointerDown(geometry.Pt(300, 100), true)
	e.PointerUp(geometry.Pt(300, 100))
	assert.Equal(t, []string{"a", "b"}, e.Selection().IDs())

	e.PointerDown(geometry.Pt(100, 100), true)
	e.PointerUp(geometry.Pt(100, 100))
	assert.Equal(t, []string{"b"}, e.Selection().IDs())
}

func TestMarqueeSelects(t *testing.T) {
	e := newEditor(t)
	e.SetSelection([]string{"a"})

	e.PointerDown(geometry.Pt(20, 20), false)
	assert.Empty(t, e.Selection().IDs())

	e.PointerMove(geometry.Pt(200, 160))
	e.Tick()
	assert.Equal(t, []string{"a"}, e.Selection().IDs())
	r, ok := e.Marquee()
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 20, Y: 20, Width: 180, Height: 140}, r)

	e.PointerUp(geometry.Pt(400, 160))
	assert.ElementsMatch(t, []string{"a", "b"}, e.Selection().IDs())
	_, ok = e.Marquee()
	assert.False(t, ok)
}

func TestHandleStartsResize(t *testing.T) {
	e := newEditor(t)
	e.SetSelection([]string{"a"})

	e.PointerDown(geometry.Pt(150, 150), false)
	require.Equal(t, gesture.KindResize, e.Gesture())
	e.PointerUp(geometry.Pt(170, 170))

	assert.Equal(t, geometry.Size{Width: 120, Height: 120}, e.Tree().Size("a"))
	assertAt(t, e, "a", 110, 110)
	require.True(t, e.Undo())
	assert.Equal(t, geometry.Size{Width: 100, Height: 100}, e.Tree().Size("a"))
	assertAt(t, e, "a", 100, 100)
}

func TestPointerCancelRestores(t *testing.T) {
	e := newEditor(t)
	e.PointerDown(geometry.Pt(100, 100), false)
	e.PointerMove(geometry.Pt(200, 200))
	e.Tick()
	assertAt(t, e, "a", 200, 200)

	e.PointerCancel()
	assertAt(t, e, "a", 100, 100)
	assert.Equal(t, 0, e.History().Len())
}

func TestDeleteSelectionUndo(t *testing.T) {
	e := newEditor(t)
	e.SetSelection([]string{"a", "b"})
	require.NoError(t, e.DeleteSelection())
	assert.Nil(t, e.Tree().Find("a"))
	assert.Nil(t, e.Tree().Find("b"))
	assert.Empty(t, e.Selection().IDs())
	assert.Equal(t, 1, e.History().Len())

	require.True(t, e.Undo())
	assert.Equal(t, []string{"a", "b"}, e.Tree().Find("page").Children())
	assertAt(t, e, "b", 300, 100)

	assert.ErrorIs(t, e.DeleteSelection(), ErrEmptySelection)
}

func TestCopyPasteCascades(t *testing.T) {
	e := newEditor(t)
	e.SetSelection([]string{"a"})
	require.NoError(t, e.Copy())

	require.NoError(t, e.Paste())
	first := e.Selection().IDs()
	require.Len(t, first, 1)
	assert.True(t, strings.HasPrefix(first[0], "node_"))
	assertAt(t, e, first[0], 110, 110)

	require.NoError(t, e.Paste())
	second := e.Selection().IDs()
	require.Len(t, second, 1)
	assertAt(t, e, second[0], 120, 120)
	assert.Equal(t, []string{"a", "b", first[0], second[0]}, e.Tree().Find("page").Children())

	require.True(t, e.Undo())
	assert.Nil(t, e.Tree().Find(second[0]))
	assert.NotNil(t, e.Tree().Find(first[0]))
}

func TestCutThenPaste(t *testing.T) {
	e := newEditor(t)
	e.SetSelection([]string{"b"})
	require.NoError(t, e.Cut())
	assert.Nil(t, e.Tree().Find("b"))

	require.NoError(t, e.Paste())
	ids := e.Selection().IDs()
	require.Len(t, ids, 1)
	assertAt(t, e, ids[0], 310, 110)
}

func TestGroupAndUngroup(t *testing.T) {
	e := newEditor(t)
	e.SetSelection([]string{"a", "b"})

	groupID, err := e.GroupSelection()
	require.NoError(t, err)
	assert.Equal(t, []string{groupID}, e.Tree().Find("page").Children())
	assert.Equal(t, []string{groupID}, e.Selection().IDs())
	assertAt(t, e, groupID, 200, 100)
	assertAt(t, e, "a", 100, 100)
	assertAt(t, e, "b", 300, 100)

	require.NoError(t, e.UngroupSelection())
	assert.Equal(t, []string{"a", "b"}, e.Tree().Find("page").Children())
	assert.Equal(t, []string{"a", "b"}, e.Selection().IDs())
	assertAt(t, e, "b", 300, 100)

	require.True(t, e.Undo())
	assert.Equal(t, []string{groupID}, e.Tree().Find("page").Children())
	require.True(t, e.Undo())
	assert.Equal(t, []string{"a", "b"}, e.Tree().Find("page").Children())
	assert.Nil(t, e.Tree().Find(groupID))
}

func TestShortcuts(t *testing.T) {
	e := newEditor(t)

	_, ok, err := e.Press("Control+A")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, e.Selection().IDs())

	_, _, err = e.Press("ArrowRight")
	require.NoError(t, err)
	_, _, err = e.Press("Shift+ArrowDown")
	require.NoError(t, err)
	assertAt(t, e, "a", 101, 110)
	assertAt(t, e, "b", 301, 110)

	_, _, err = e.Press("Delete")
	require.NoError(t, err)
	assert.Nil(t, e.Tree().Find("a"))

	_, _, err = e.Press("Meta+Z")
	require.NoError(t, err)
	assertAt(t, e, "a", 101, 110)

	_, _, err = e.Press("Escape")
	require.NoError(t, err)
	assert.Empty(t, e.Selection().IDs())
}

func TestNudgeSkipsLocked(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.Tree().SetLocked("a", true))
	e.SetSelection([]string{"a"})
	assert.ErrorIs(t, e.Nudge(5, 0), ErrEmptySelection)
	assertAt(t, e, "a", 100, 100)
}

func TestUndoCancelsRunningGesture(t *testing.T) {
	e := newEditor(t)
	e.SetSelection([]string{"b"})
	require.NoError(t, e.Nudge(0, 10))

	e.PointerDown(geometry.Pt(100, 100), false)
	e.PointerMove(geometry.Pt(150, 100))
	e.Tick()
	require.True(t, e.Undo())

	assert.Equal(t, gesture.Kind(""), e.Gesture())
	assertAt(t, e, "a", 100, 100)
	assertAt(t, e, "b", 300, 100)
}

func TestRenderPaintOrder(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.Tree().SetVisible("b", false))

	var frame Frame
	require.NoError(t, json.Unmarshal([]byte(e.Render()), &frame))

	var ops []string
	for _, c := range frame.Commands {
		ops = append(ops, c.Op+":"+c.ID)
	}
	assert.Equal(t, []string{"draw:page", "save:", "clip:page", "draw:a", "restore:"}, ops)

	a := frame.Commands[3]
	assert.Equal(t, scene.KindRectangle, a.Kind)
	assert.Equal(t, []float64{1, 0, 0, 1, 100, 100}, a.Transform)
	assert.Equal(t, &geometry.Size{Width: 100, Height: 100}, a.Size)
	assert.False(t, frame.Overlay.Visible)
}

func TestRenderSkipsGroups(t *testing.T) {
	e := newEditor(t)
	e.SetSelection([]string{"a", "b"})
	groupID, err := e.GroupSelection()
	require.NoError(t, err)

	frame := e.Snapshot()
	for _, c := range frame.Commands {
		assert.NotEqual(t, groupID, c.ID)
	}
	assert.True(t, frame.Overlay.Visible)
	assert.Len(t, frame.Overlay.Handles, 8)
	assert.Equal(t, []string{groupID}, frame.Overlay.Selected)
}

func TestDocumentRoundTrip(t *testing.T) {
	e := New(config.DefaultEditor())
	require.NoError(t, e.LoadSampleDocument("doc_sample"))
	data := e.GetDocument()

	other := New(config.DefaultEditor())
	require.NoError(t, other.LoadDocumentJSON(data))
	assert.Equal(t, e.Tree().Len(), other.Tree().Len())
	assert.JSONEq(t, data, other.GetDocument())

	assert.Error(t, other.LoadDocumentJSON(`{"pages":`))
}

func TestQueries(t *testing.T) {
	e := newEditor(t)
	assert.Equal(t, "a", e.HitTest(100, 100))
	assert.Equal(t, "null", e.GetSelectionBounds())
	assert.Equal(t, "null", e.GetNode("missing"))

	e.SetSelection([]string{"a", "missing"})
	assert.JSONEq(t, `["a"]`, e.GetSelection())
	assert.JSONEq(t, `{"x":50,"y":50,"width":100,"height":100}`, e.GetSelectionBounds())
	assert.JSONEq(t, `{"canUndo":false,"canRedo":false,"length":0,"cursor":-1}`, e.GetHistoryState())
}

func TestPerform(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.Perform("select-all"))
	require.NoError(t, e.Perform("nudge-down-large"))
	assertAt(t, e, "b", 300, 110)
	require.NoError(t, e.Perform("undo"))
	assertAt(t, e, "b", 300, 100)
	assert.ErrorIs(t, e.Perform("explode"), ErrUnknownAction)
}
