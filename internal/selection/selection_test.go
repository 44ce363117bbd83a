package selection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

func newTree(t *testing.T) *scene.Tree {
	t.Helper()
	tree := scene.NewTree()
	_, err := tree.Build("", scene.Record{
		ID: "f", Kind: "FRAME", Size: geometry.Size{Width: 1000, Height: 1000},
		Children: []scene.Record{
			{ID: "a", Kind: "RECTANGLE", Position: geometry.Pt(10, 10), Size: geometry.Size{Width: 20, Height: 20}},
			{ID: "b", Kind: "RECTANGLE", Position: geometry.Pt(100, 50), Size: geometry.Size{Width: 40, Height: 20}},
			{ID: "c", Kind: "ELLIPSE", Position: geometry.Pt(-50, 0), Size: geometry.Size{Width: 10, Height: 10}},
		},
	})
	require.NoError(t, err)
	return tree
}

func TestSelectEmitsOnlyOnChange(t *testing.T) {
	s := New(newTree(t))
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	s.Select("a", "b")
	require.Len(t, events, 1)
	assert.Equal(t, Event{Kind: EventSelect, IDs: []string{"a", "b"}}, events[0])

	s.Select("b", "a")
	assert.Len(t, events, 1, "same set in another order")
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	s.Select("c")
	require.Len(t, events, 3)
	assert.Equal(t, Event{Kind: EventUnselect, IDs: []string{"a", "b"}}, events[1])
	assert.Equal(t, Event{Kind: EventSelect, IDs: []string{"c"}}, events[2])
}

func TestSelectDropsUnknownIDs(t *testing.T) {
	s := New(newTree(t))
	s.Select("a", "ghost", "a")
	assert.Equal(t, []string{"a"}, s.IDs())
	assert.False(t, s.Add("ghost"))
}

func TestIncrementalMutation(t *testing.T) {
	s := New(newTree(t))
	var kinds []EventKind
	s.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })

	assert.True(t, s.Add("a"))
	assert.True(t, s.Add("b"))
	assert.False(t, s.Add("a"))
	assert.True(t, s.Has("b"))
	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	s.Toggle("c")
	s.Clear()
	s.Clear()

	assert.Equal(t, []EventKind{EventSelect, EventSelect, EventUnselect, EventSelect, EventUnselect}, kinds)
	assert.Zero(t, s.Len())
}

func TestPrunedOnDelete(t *testing.T) {
	tree := newTree(t)
	s := New(tree)
	s.Select("a", "b")

	require.NoError(t, tree.Delete("a"))
	assert.Equal(t, []string{"b"}, s.IDs())

	require.NoError(t, tree.Delete("f"))
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Nodes())
}

func TestBoundingQuad(t *testing.T) {
	tree := newTree(t)
	s := New(tree)

	_, ok := s.BoundingQuad()
	assert.False(t, ok)

	require.NoError(t, tree.SetRotation("a", math.Pi/4))
	s.Select("a")
	q, ok := s.BoundingQuad()
	require.True(t, ok)
	assert.Equal(t, tree.AbsoluteQuad("a"), q)
	assert.InDelta(t, math.Pi/4, s.Rotation(), 1e-9)

	s.Select("b", "c")
	q, ok = s.BoundingQuad()
	require.True(t, ok)
	box := q.Bounds()
	assert.InDelta(t, -55, box.X, 1e-9)
	assert.InDelta(t, -5, box.Y, 1e-9)
	assert.InDelta(t, 175, box.Width, 1e-9)
	assert.InDelta(t, 65, box.Height, 1e-9)
	assert.Zero(t, s.Rotation())
}
