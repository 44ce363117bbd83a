package history

import (
	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

// Move changes a node's local position.
type Move struct {
	ID   string
	Prev geometry.Point
	Next geometry.Point
}

func (m *Move) Kind() Kind { return KindMove }

func (m *Move) Execute(repo Repository) error { return m.apply(repo, m.Next) }
func (m *Move) Undo(repo Repository) error    { return m.apply(repo, m.Prev) }

func (m *Move) apply(repo Repository, p geometry.Point) error {
	if err := lookup(repo, m.ID); err != nil {
		return err
	}
	return repo.SetPosition(m.ID, p)
}

// Rotation changes a node's rotation, in radians.
type Rotation struct {
	ID   string
	Prev float64
	Next float64
}

func (r *Rotation) Kind() Kind { return KindRotation }

func (r *Rotation) Execute(repo Repository) error { return r.apply(repo, r.Next) }
func (r *Rotation) Undo(repo Repository) error    { return r.apply(repo, r.Prev) }

func (r *Rotation) apply(repo Repository, radians float64) error {
	if err := lookup(repo, r.ID); err != nil {
		return err
	}
	return repo.SetRotation(r.ID, radians)
}

// Placement is the part of a node's geometry a resize changes. For groups
// it also holds every descendant's extent; those are restored verbatim
// rather than rescaled from the derived size.
type Placement struct {
	Position    geometry.Point          `json:"position"`
	Size        geometry.Size           `json:"size"`
	Descendants map[string]scene.Extent `json:"descendants,omitempty"`
}

// CapturePlacement records id's current placement.
func CapturePlacement(repo Repository, id string) Placement {
	n := repo.Find(id)
	if n == nil {
		return Placement{}
	}
	p := Placement{Position: n.Position(), Size: repo.Size(id)}
	if n.Kind().HasDerivedSize() {
		p.Descendants = repo.DescendantExtents(id)
	}
	return p
}

// ApplyPlacement puts id back at p. Recorded descendants are restored
// verbatim; otherwise the size is set directly.
func ApplyPlacement(repo Repository, id string, p Placement) error {
	if err := lookup(repo, id); err != nil {
		return err
	}
	if p.Descendants != nil {
		repo.RestoreExtents(p.Descendants)
	} else if err := repo.SetSize(id, p.Size); err != nil {
		return err
	}
	return repo.SetPosition(id, p.Position)
}

// Resize changes a node's size together with the position shift that kept
// its anchor in place.
type Resize struct {
	ID   string
	Prev Placement
	Next Placement
}

func (r *Resize) Kind() Kind { return KindResize }

func (r *Resize) Execute(repo Repository) error { return ApplyPlacement(repo, r.ID, r.Next) }
func (r *Resize) Undo(repo Repository) error    { return ApplyPlacement(repo, r.ID, r.Prev) }
