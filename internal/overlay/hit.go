package overlay

import (
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

// Picker resolves canvas points and marquees to nodes.
type Picker struct {
	Tree *scene.Tree
	// Segments is the ellipse discretization; values below 3 use
	// geometry.DefaultEllipseSegments.
	Segments int
}

// HitTest returns the topmost visible node under p, or "".
func HitTest(tree *scene.Tree, p geometry.Point) string {
	return Picker{Tree: tree}.HitTest(p)
}

// NodesInRect returns the nodes a marquee touches, in paint order.
func NodesInRect(tree *scene.Tree, r geometry.Rect) []string {
	return Picker{Tree: tree}.NodesInRect(r)
}

// Candidates lists the selectable nodes in paint order: the children of
// top-level frames, plus top-level nodes that are not frames.
func (pk Picker) Candidates() []string {
	var out []string
	for _, id := range pk.Tree.Roots() {
		n := pk.Tree.Find(id)
		if n == nil || !n.Visible() {
			continue
		}
		if n.Kind() != scene.KindFrame {
			out = append(out, id)
			continue
		}
		for _, c := range n.Children() {
			if cn := pk.Tree.Find(c); cn != nil && cn.Visible() {
				out = append(out, c)
			}
		}
	}
	return out
}

// HitTest returns the topmost visible node under p. A point inside a
// top-level frame but off its children hits the frame.
func (pk Picker) HitTest(p geometry.Point) string {
	roots := pk.Tree.Roots()
	for i := len(roots) - 1; i >= 0; i-- {
		n := pk.Tree.Find(roots[i])
		if n == nil || !n.Visible() {
			continue
		}
		if n.Kind() == scene.KindFrame {
			children := n.Children()
			for j := len(children) - 1; j >= 0; j-- {
				if pk.contains(children[j], p) {
					return children[j]
				}
			}
			if geometry.PointInPolygon(p, pk.Tree.AbsoluteQuad(n.ID()).Points()) {
				return n.ID()
			}
			continue
		}
		if pk.contains(n.ID(), p) {
			return n.ID()
		}
	}
	return ""
}

func (pk Picker) contains(id string, p geometry.Point) bool {
	for _, poly := range pk.shapes(id) {
		if geometry.PointInPolygon(p, poly) {
			return true
		}
	}
	return false
}

// NodesInRect returns the candidates whose shape intersects r. Axis-aligned
// boxes go through an R-tree first; survivors are checked with SAT.
func (pk Picker) NodesInRect(r geometry.Rect) []string {
	candidates := pk.Candidates()
	if len(candidates) == 0 {
		return nil
	}
	index := NewIndex(pk.Tree, candidates)
	hits := index.Search(r)

	var out []string
	for _, id := range candidates {
		if !slices.Contains(hits, id) {
			continue
		}
		for _, poly := range pk.shapes(id) {
			if geometry.RectanglePolygonIntersect(r, poly) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// shapes returns the canvas polygons of a visible node. Ellipses are
// discretized, groups contribute their descendants and frames their quad.
func (pk Picker) shapes(id string) [][]geometry.Point {
	n := pk.Tree.Find(id)
	if n == nil || !n.Visible() {
		return nil
	}
	switch n.Kind() {
	case scene.KindGroup:
		var out [][]geometry.Point
		for _, c := range n.Children() {
			out = append(out, pk.shapes(c)...)
		}
		return out
	case scene.KindEllipse:
		s := n.StoredSize()
		center := pk.Tree.AbsolutePosition(id)
		poly := geometry.EllipsePolygon(center, s.Width/2, s.Height/2, pk.Tree.AbsoluteRotation(id), pk.Segments)
		return [][]geometry.Point{poly}
	}
	return [][]geometry.Point{pk.Tree.AbsoluteQuad(id).Points()}
}

// Index boxes are widened so that touching shapes survive the prefilter;
// rtreego treats shared boundaries as disjoint. The widening grows with the
// coordinate so it is not lost to rounding far from the origin.
const (
	minPad      = 1e-6
	relativePad = 1e-12
)

func pad(v float64) float64 {
	return max(minPad, relativePad*math.Abs(v))
}

type entry struct {
	id     string
	bounds rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.bounds }

// Index is an R-tree of node bounding boxes.
type Index struct {
	rt *rtreego.Rtree
}

// NewIndex bulk-loads the canvas bounding boxes of ids.
func NewIndex(tree *scene.Tree, ids []string) *Index {
	objs := make([]rtreego.Spatial, 0, len(ids))
	for _, id := range ids {
		if tree.Find(id) == nil {
			continue
		}
		objs = append(objs, &entry{id: id, bounds: toRect(tree.AbsoluteBoundingBox(id))})
	}
	return &Index{rt: rtreego.NewTree(2, 25, 50, objs...)}
}

// Search returns the ids whose boxes intersect r, in no particular order.
func (ix *Index) Search(r geometry.Rect) []string {
	found := ix.rt.SearchIntersect(toRect(r))
	out := make([]string, 0, len(found))
	for _, s := range found {
		out = append(out, s.(*entry).id)
	}
	return out
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return ix.rt.Size() }

func toRect(r geometry.Rect) rtreego.Rect {
	hi := r.Max()
	rect, _ := rtreego.NewRectFromPoints(
		rtreego.Point{r.X - pad(r.X), r.Y - pad(r.Y)},
		rtreego.Point{hi.X + pad(hi.X), hi.Y + pad(hi.Y)},
	)
	return rect
}
