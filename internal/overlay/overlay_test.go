package overlay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/gesture"
	"github.com/DivXPro/canvas-editor-sub000/internal/history"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
	"github.com/DivXPro/canvas-editor-sub000/internal/selection"
)

func shape(id, kind string, x, y, w, h float64) scene.Record {
	return scene.Record{ID: id, Kind: kind, Position: geometry.Pt(x, y), Size: geometry.Size{Width: w, Height: h}}
}

func newScene(t *testing.T) *scene.Tree {
	t.Helper()
	diamond := shape("d", "RECTANGLE", 500, 100, 100, 100)
	diamond.Rotation = math.Pi / 4
	tree := scene.NewTree()
	_, err := tree.Build("", scene.Record{
		ID: "f", Kind: "FRAME", Position: geometry.Pt(500, 500), Size: geometry.Size{Width: 1000, Height: 1000},
		Children: []scene.Record{
			shape("r1", "RECTANGLE", 100, 100, 100, 100),
			shape("e", "ELLIPSE", 300, 100, 100, 100),
			diamond,
		},
	})
	require.NoError(t, err)
	// Child positions above are in frame space; shift them to canvas space.
	for _, id := range []string{"r1", "e", "d"} {
		p := tree.Find(id).Position()
		require.NoError(t, tree.SetPosition(id, p.Sub(geometry.Pt(500, 500))))
	}
	return tree
}

func TestHitTest(t *testing.T) {
	tree := newScene(t)
	assert.Equal(t, "r1", HitTest(tree, geometry.Pt(100, 100)))
	assert.Equal(t, "f", HitTest(tree, geometry.Pt(600, 600)))
	assert.Equal(t, "", HitTest(tree, geometry.Pt(2000, 2000)))

	// Inside the ellipse's box but outside the ellipse.
	assert.Equal(t, "f", HitTest(tree, geometry.Pt(255, 55)))
	assert.Equal(t, "e", HitTest(tree, geometry.Pt(300, 100)))

	_, err := tree.Build("f", shape("top", "RECTANGLE", 120-500, 120-500, 50, 50))
	require.NoError(t, err)
	assert.Equal(t, "top", HitTest(tree, geometry.Pt(120, 120)))
	require.NoError(t, tree.SetVisible("top", false))
	assert.Equal(t, "r1", HitTest(tree, geometry.Pt(120, 120)))
}

func TestHitTestGroupByDescendants(t *testing.T) {
	tree := scene.NewTree()
	_, err := tree.Build("", scene.Record{ID: "g", Kind: "GROUP", Children: []scene.Record{
		shape("a", "RECTANGLE", -50, 0, 20, 20),
		shape("b", "RECTANGLE", 50, 0, 20, 20),
	}})
	require.NoError(t, err)

	assert.Equal(t, "g", HitTest(tree, geometry.Pt(-50, 0)))
	assert.Equal(t, "", HitTest(tree, geometry.Pt(0, 0)), "gap between children")
}

func TestNodesInRect(t *testing.T) {
	tree := newScene(t)
	tests := []struct {
		name string
		rect geometry.Rect
		want []string
	}{
		{"covers rect", geometry.Rect{X: 0, Y: 0, Width: 160, Height: 160}, []string{"r1"}},
		{"touches rect edge", geometry.Rect{X: 150, Y: 50, Width: 10, Height: 10}, []string{"r1"}},
		{"ellipse box corner only", geometry.Rect{X: 240, Y: 40, Width: 22, Height: 22}, nil},
		{"diamond box corner only", geometry.Rect{X: 430, Y: 30, Width: 20, Height: 20}, nil},
		{"diamond tip", geometry.Rect{X: 490, Y: 20, Width: 20, Height: 20}, []string{"d"}},
		{"everything", geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 300}, []string{"r1", "e", "d"}},
		{"empty area", geometry.Rect{X: 700, Y: 700, Width: 50, Height: 50}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NodesInRect(tree, tt.rect))
		})
	}
}

func TestIndexSearch(t *testing.T) {
	tree := newScene(t)
	pk := Picker{Tree: tree}
	ix := NewIndex(tree, pk.Candidates())
	assert.Equal(t, 3, ix.Len())
	assert.ElementsMatch(t, []string{"r1", "e"}, ix.Search(geometry.Rect{X: 140, Y: 90, Width: 120, Height: 10}))
}

func TestIndexKeepsTouchingBoxesFarFromOrigin(t *testing.T) {
	tree := scene.NewTree()
	_, err := tree.Build("", shape("far", "RECTANGLE", 1e10+50, 0, 100, 100))
	require.NoError(t, err)
	ix := NewIndex(tree, []string{"far"})

	assert.Equal(t, []string{"far"}, ix.Search(geometry.Rect{X: 1e10 - 10, Y: -10, Width: 10, Height: 10}))
	assert.Empty(t, ix.Search(geometry.Rect{X: 1e10 - 1e3, Y: -10, Width: 10, Height: 10}))
}

func newOverlay(t *testing.T) (*scene.Tree, *selection.Selection, *Overlay) {
	t.Helper()
	tree := newScene(t)
	sel := selection.New(tree)
	return tree, sel, New(tree, sel, DefaultOptions())
}

func TestOverlayFollowsSelection(t *testing.T) {
	tree, sel, o := newOverlay(t)
	assert.False(t, o.Visible())
	assert.Nil(t, o.Handles())

	sel.Select("r1")
	q, ok := o.Quad()
	require.True(t, ok)
	assert.Equal(t, geometry.Quad{{X: 50, Y: 50}, {X: 150, Y: 50}, {X: 150, Y: 150}, {X: 50, Y: 150}}, q)

	handles := o.Handles()
	require.Len(t, handles, 8)
	assert.Equal(t, HandlePoint{Handle: scene.HandleTop, Point: geometry.Pt(100, 50)}, handles[1])
	assert.Equal(t, HandlePoint{Handle: scene.HandleRight, Point: geometry.Pt(150, 100)}, handles[3])

	require.NoError(t, tree.SetPosition("r1", geometry.Pt(-390, -400)))
	q, _ = o.Quad()
	assert.Equal(t, geometry.Pt(60, 50), q[0])
}

func TestOverlayPicking(t *testing.T) {
	_, sel, o := newOverlay(t)
	sel.Select("r1")

	h, ok := o.HandleAt(geometry.Pt(152, 148))
	require.True(t, ok)
	assert.Equal(t, scene.HandleBottomRight, h)
	_, ok = o.HandleAt(geometry.Pt(100, 100))
	assert.False(t, ok)

	assert.True(t, o.IsPointOnBorder(geometry.Pt(100, 53)))
	assert.False(t, o.IsPointOnBorder(geometry.Pt(100, 60)))
	assert.True(t, o.IsOnTransformArea(geometry.Pt(100, 100)))
	assert.False(t, o.IsOnTransformArea(geometry.Pt(160, 100)))
	assert.True(t, o.IsOnRotateZone(geometry.Pt(160, 160)))
	assert.False(t, o.IsOnRotateZone(geometry.Pt(100, 100)))

	assert.Equal(t, Pick{Target: TargetDrag}, o.Pick(geometry.Pt(100, 100)))
	assert.Equal(t, Pick{Target: TargetResize, Handle: scene.HandleBottomRight}, o.Pick(geometry.Pt(150, 150)))
	assert.Equal(t, Pick{Target: TargetResize, Handle: scene.HandleLeft}, o.Pick(geometry.Pt(50, 100)))
	assert.Equal(t, Pick{Target: TargetRotate}, o.Pick(geometry.Pt(160, 160)))
	assert.Equal(t, Pick{Target: TargetNone}, o.Pick(geometry.Pt(400, 400)))
}

func TestOverlayRotatedSelection(t *testing.T) {
	_, sel, o := newOverlay(t)
	sel.Select("d")
	h, ok := o.HandleAt(geometry.Pt(500, 100-50*math.Sqrt2))
	require.True(t, ok)
	assert.Equal(t, scene.HandleTopLeft, h)
	assert.True(t, o.IsOnTransformArea(geometry.Pt(500, 100)))
	assert.False(t, o.IsOnTransformArea(geometry.Pt(440, 40)))
}

func TestOverlayHiddenDuringDrag(t *testing.T) {
	tree, sel, o := newOverlay(t)
	sel.Select("r1")
	frames := &gesture.FrameQueue{}
	drag := gesture.NewDrag(gesture.Deps{Tree: tree, Selection: sel, History: history.New(tree, 0), Frames: frames})
	o.Watch(drag.Subscribe)

	drag.Start(geometry.Pt(100, 100))
	drag.Move(geometry.Pt(130, 100))
	frames.Flush()
	assert.False(t, o.Visible())
	assert.Equal(t, Pick{Target: TargetNone}, o.Pick(geometry.Pt(130, 100)))

	drag.Stop()
	q, ok := o.Quad()
	require.True(t, ok)
	assert.Equal(t, geometry.Pt(80, 50), q[0])
}
