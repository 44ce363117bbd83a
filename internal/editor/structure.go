package editor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/history"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
	"github.com/DivXPro/canvas-editor-sub000/internal/typeid"
)

// ErrEmptySelection is returned by structural operations that need at
// least one selected node.
var ErrEmptySelection = errors.New("nothing selected")

// clip is one copied subtree and the parent it was copied from.
type clip struct {
	ParentID string
	Record   scene.Record
}

// topLevel drops ids that have a selected ancestor, preserving order.
func (e *Editor) topLevel(ids []string) []string {
	var out []string
	for _, id := range ids {
		if e.tree.Find(id) == nil {
			continue
		}
		nested := false
		for _, a := range e.tree.Ancestors(id) {
			if slices.Contains(ids, a) {
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

// DeleteSelection removes the selected subtrees as one history entry.
func (e *Editor) DeleteSelection() error {
	e.PointerCancel()
	ids := e.topLevel(e.selection.IDs())
	if len(ids) == 0 {
		return ErrEmptySelection
	}

	// Each delete is recorded against the tree as the previous ones left
	// it, so the composite undoes in reverse.
	var (
		cmds []history.Command
		errs []error
	)
	for _, id := range ids {
		cmd, err := history.NewDelete(e.tree, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := cmd.Execute(e.tree); err != nil {
			errs = append(errs, err)
			continue
		}
		cmds = append(cmds, cmd)
	}
	if len(cmds) > 0 {
		e.history.Push(history.NewComposite("delete", cmds...))
	}
	return errors.Join(errs...)
}

// Copy places the selected subtrees on the clipboard.
func (e *Editor) Copy() error {
	ids := e.topLevel(e.selection.IDs())
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	clips := make([]clip, 0, len(ids))
	for _, id := range ids {
		rec, ok := e.tree.Serialize(id)
		if !ok {
			continue
		}
		parentID, _ := e.tree.IndexOf(id)
		clips = append(clips, clip{ParentID: parentID, Record: rec.WithoutIDs()})
	}
	e.clipboard = clips
	e.pastes = 0
	return nil
}

// Cut copies the selection and deletes it.
func (e *Editor) Cut() error {
	if err := e.Copy(); err != nil {
		return err
	}
	return e.DeleteSelection()
}

// Paste inserts the clipboard on top of the original parents with fresh ids,
// offset by the paste offset for every paste since the last copy. The
// pasted nodes become the selection.
func (e *Editor) Paste() error {
	if len(e.clipboard) == 0 {
		return nil
	}
	e.PointerCancel()
	e.pastes++
	offset := geometry.Pt(e.cfg.PasteOffset, e.cfg.PasteOffset).Scale(float64(e.pastes))

	var (
		cmds []history.Command
		ids  []string
		next = make(map[string]int)
	)
	for _, c := range e.clipboard {
		parentID := c.ParentID
		if parentID != "" && e.tree.Find(parentID) == nil {
			parentID = ""
		}
		rec := withFreshIDs(c.Record)
		local := offset
		if parentID != "" {
			local = e.tree.AbsoluteTransform(parentID).Invert().ApplyVector(offset)
		}
		rec.Position = rec.Position.Add(local)

		index, ok := next[parentID]
		if !ok {
			index = e.tree.ChildCount(parentID)
		}
		next[parentID] = index + 1
		cmds = append(cmds, &history.Create{ParentID: parentID, Index: index, Record: rec})
		ids = append(ids, rec.ID)
	}
	err := e.history.Do(history.NewComposite("paste", cmds...))
	e.selection.Select(ids...)
	return err
}

func withFreshIDs(rec scene.Record) scene.Record {
	rec.ID = typeid.NewNodeID()
	if rec.Children != nil {
		children := make([]scene.Record, len(rec.Children))
		for i, c := range rec.Children {
			children[i] = withFreshIDs(c)
		}
		rec.Children = children
	}
	return rec
}

// GroupSelection wraps the selected siblings in a new group centered on
// their bounds and selects it.
func (e *Editor) GroupSelection() (string, error) {
	e.PointerCancel()
	ids := e.topLevel(e.selection.IDs())
	if len(ids) == 0 {
		return "", ErrEmptySelection
	}
	quad, _ := e.selection.BoundingQuad()
	parentID, _ := e.tree.IndexOf(ids[0])
	center := e.tree.GlobalToLocal(parentID, quad.Bounds().Center())

	groupID := typeid.NewNodeID()
	cmd, err := history.NewGroup(e.tree, groupID, "Group", center, ids)
	if err != nil {
		return "", err
	}
	if err := e.history.Do(cmd); err != nil {
		return "", err
	}
	e.selection.Select(groupID)
	return groupID, nil
}

// UngroupSelection dissolves every selected group and selects the former
// children. Selected nodes that are not groups are left alone.
func (e *Editor) UngroupSelection() error {
	e.PointerCancel()
	var (
		cmds     []history.Command
		children []string
	)
	for _, id := range e.topLevel(e.selection.IDs()) {
		if n := e.tree.Find(id); n == nil || n.Kind() != scene.KindGroup {
			continue
		}
		cmd, err := history.NewUngroup(e.tree, id)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
		children = append(children, cmd.ChildIDs()...)
	}
	if len(cmds) == 0 {
		return fmt.Errorf("ungroup: %w", ErrEmptySelection)
	}
	err := e.history.Do(history.NewComposite("ungroup", cmds...))
	e.selection.Select(children...)
	return err
}

// SelectAll selects every selectable node: the contents of the page
// frames and any loose top-level nodes.
func (e *Editor) SelectAll() {
	e.selection.Select(e.picker.Candidates()...)
}

// Nudge moves the unlocked selection by (dx, dy) canvas units as one
// history entry.
func (e *Editor) Nudge(dx, dy float64) error {
	e.PointerCancel()
	delta := geometry.Pt(dx, dy)
	var cmds []history.Command
	for _, id := range e.topLevel(e.selection.IDs()) {
		n := e.tree.Find(id)
		if n.Locked() {
			continue
		}
		local := e.tree.ParentTransform(id).Invert().ApplyVector(delta)
		cmds = append(cmds, &history.Move{ID: id, Prev: n.Position(), Next: n.Position().Add(local)})
	}
	if len(cmds) == 0 {
		return ErrEmptySelection
	}
	return e.history.Do(history.NewComposite("nudge", cmds...))
}
