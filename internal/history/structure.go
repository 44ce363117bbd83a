package history

import (
	"errors"
	"fmt"
	"slices"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

// ErrMixedParents is returned when grouping nodes that do not share a
// parent.
var ErrMixedParents = errors.New("nodes do not share a parent")

// Slot records where a node sat among its siblings.
type Slot struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
	Index    int    `json:"index"`
}

func ascending(slots []Slot) []Slot {
	out := slices.Clone(slots)
	slices.SortStableFunc(out, func(a, b Slot) int { return a.Index - b.Index })
	return out
}

// Group wraps sibling nodes in a new group. Undo moves the children back to
// their recorded slots and removes the group; redo recreates it under the
// same id.
type Group struct {
	GroupID  string
	Name     string
	ParentID string
	// Index is the group's slot once its children have left the parent.
	Index    int
	Position geometry.Point
	Children []Slot
}

// NewGroup records the slots of ids, which must share a parent. The group
// takes the z-position of the topmost child and its origin sits at
// position, in the parent's frame.
func NewGroup(repo Repository, groupID, name string, position geometry.Point, ids []string) (*Group, error) {
	if len(ids) == 0 {
		return nil, errors.New("group: no nodes")
	}
	g := &Group{GroupID: groupID, Name: name, Position: position}
	top := -1
	for i, id := range ids {
		if err := lookup(repo, id); err != nil {
			return nil, fmt.Errorf("group: %w", err)
		}
		parentID, index := repo.IndexOf(id)
		if i == 0 {
			g.ParentID = parentID
		} else if parentID != g.ParentID {
			return nil, fmt.Errorf("group %s: %w", id, ErrMixedParents)
		}
		top = max(top, index)
		g.Children = append(g.Children, Slot{ID: id, ParentID: parentID, Index: index})
	}
	g.Index = top - (len(ids) - 1)
	return g, nil
}

func (g *Group) Kind() Kind { return KindGroup }

func (g *Group) Execute(repo Repository) error {
	if repo.Find(g.GroupID) != nil {
		return fmt.Errorf("group %s: %w", g.GroupID, scene.ErrDuplicateID)
	}
	rec := scene.Record{ID: g.GroupID, Name: g.Name, Kind: string(scene.KindGroup), Position: g.Position}
	if _, err := repo.BuildAt(g.ParentID, rec, repo.ChildCount(g.ParentID)); err != nil {
		return fmt.Errorf("group: %w", err)
	}
	for _, s := range ascending(g.Children) {
		if err := lookup(repo, s.ID); err != nil {
			return fmt.Errorf("group: %w", err)
		}
		if err := repo.Reparent(s.ID, g.GroupID, repo.ChildCount(g.GroupID)); err != nil {
			return fmt.Errorf("group: %w", err)
		}
	}
	index := min(max(g.Index, 0), repo.ChildCount(g.ParentID)-1)
	return repo.Reparent(g.GroupID, g.ParentID, index)
}

func (g *Group) Undo(repo Repository) error {
	if err := lookup(repo, g.GroupID); err != nil {
		return fmt.Errorf("ungroup: %w", err)
	}
	// Park the group last so it does not shift the recorded indices.
	if err := repo.Reparent(g.GroupID, g.ParentID, repo.ChildCount(g.ParentID)-1); err != nil {
		return fmt.Errorf("ungroup: %w", err)
	}
	for _, s := range ascending(g.Children) {
		if err := lookup(repo, s.ID); err != nil {
			return fmt.Errorf("ungroup: %w", err)
		}
		if err := repo.Reparent(s.ID, s.ParentID, clampIndex(repo, s.ParentID, s.Index)); err != nil {
			return fmt.Errorf("ungroup: %w", err)
		}
	}
	return repo.Delete(g.GroupID)
}

// Ungroup dissolves a group, moving its children into the group's parent
// at the group's slot. Undo rebuilds the group under its original id.
type Ungroup struct {
	GroupID  string
	ParentID string
	Index    int
	// Group is the group's own record, without children.
	Group    scene.Record
	Children []Slot
}

// NewUngroup records groupID and its children.
func NewUngroup(repo Repository, groupID string) (*Ungroup, error) {
	n := repo.Find(groupID)
	if n == nil {
		return nil, fmt.Errorf("ungroup: %s: %w", groupID, ErrTargetMissing)
	}
	if n.Kind() != scene.KindGroup {
		return nil, fmt.Errorf("ungroup %s: kind %s is not a group", groupID, n.Kind())
	}
	rec, _ := repo.Serialize(groupID)
	rec.Children = nil

	u := &Ungroup{GroupID: groupID, Group: rec}
	u.ParentID, u.Index = repo.IndexOf(groupID)
	for i, c := range n.Children() {
		u.Children = append(u.Children, Slot{ID: c, ParentID: groupID, Index: i})
	}
	return u, nil
}

func (u *Ungroup) Kind() Kind { return KindUngroup }

// ChildIDs returns the ids of the dissolved group's children in order.
func (u *Ungroup) ChildIDs() []string {
	ids := make([]string, 0, len(u.Children))
	for _, s := range ascending(u.Children) {
		ids = append(ids, s.ID)
	}
	return ids
}

func (u *Ungroup) Execute(repo Repository) error {
	if err := lookup(repo, u.GroupID); err != nil {
		return fmt.Errorf("ungroup: %w", err)
	}
	for i, s := range ascending(u.Children) {
		if err := lookup(repo, s.ID); err != nil {
			return fmt.Errorf("ungroup: %w", err)
		}
		_, at := repo.IndexOf(u.GroupID)
		if err := repo.Reparent(s.ID, u.ParentID, at+1+i); err != nil {
			return fmt.Errorf("ungroup: %w", err)
		}
	}
	return repo.Delete(u.GroupID)
}

func (u *Ungroup) Undo(repo Repository) error {
	if repo.Find(u.GroupID) != nil {
		return fmt.Errorf("regroup %s: %w", u.GroupID, scene.ErrDuplicateID)
	}
	if _, err := repo.BuildAt(u.ParentID, u.Group, clampIndex(repo, u.ParentID, u.Index)); err != nil {
		return fmt.Errorf("regroup: %w", err)
	}
	for _, s := range ascending(u.Children) {
		if err := lookup(repo, s.ID); err != nil {
			return fmt.Errorf("regroup: %w", err)
		}
		if err := repo.Reparent(s.ID, u.GroupID, clampIndex(repo, u.GroupID, s.Index)); err != nil {
			return fmt.Errorf("regroup: %w", err)
		}
	}
	return nil
}

// Delete removes a subtree. Undo rebuilds it from its record at the
// recorded slot.
type Delete struct {
	ParentID string
	Index    int
	Record   scene.Record
}

// NewDelete records id's subtree and slot.
func NewDelete(repo Repository, id string) (*Delete, error) {
	rec, ok := repo.Serialize(id)
	if !ok {
		return nil, fmt.Errorf("delete: %s: %w", id, ErrTargetMissing)
	}
	parentID, index := repo.IndexOf(id)
	return &Delete{ParentID: parentID, Index: index, Record: rec}, nil
}

func (d *Delete) Kind() Kind { return KindDelete }

func (d *Delete) Execute(repo Repository) error {
	if err := lookup(repo, d.Record.ID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return repo.Delete(d.Record.ID)
}

func (d *Delete) Undo(repo Repository) error {
	return restore(repo, d.ParentID, d.Index, d.Record)
}

// Create inserts a subtree built from a record, the inverse of Delete.
type Create struct {
	ParentID string
	Index    int
	Record   scene.Record
}

func (c *Create) Kind() Kind { return KindCreate }

func (c *Create) Execute(repo Repository) error {
	return restore(repo, c.ParentID, c.Index, c.Record)
}

func (c *Create) Undo(repo Repository) error {
	if err := lookup(repo, c.Record.ID); err != nil {
		return fmt.Errorf("uncreate: %w", err)
	}
	return repo.Delete(c.Record.ID)
}

func restore(repo Repository, parentID string, index int, rec scene.Record) error {
	if parentID != "" {
		if err := lookup(repo, parentID); err != nil {
			return fmt.Errorf("restore %s: %w", rec.ID, err)
		}
	}
	n, err := repo.BuildAt(parentID, rec, clampIndex(repo, parentID, index))
	if err != nil {
		return fmt.Errorf("restore %s: %w", rec.ID, err)
	}
	if n == nil {
		return fmt.Errorf("restore %s: unknown kind %q", rec.ID, rec.Kind)
	}
	return nil
}
