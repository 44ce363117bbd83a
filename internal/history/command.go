package history

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

// Repository is the node store commands resolve their targets against.
// *scene.Tree implements it.
type Repository interface {
	Find(id string) *scene.Node
	IndexOf(id string) (string, int)
	ChildCount(parentID string) int
	SetPosition(id string, p geometry.Point) error
	SetRotation(id string, radians float64) error
	SetSize(id string, s geometry.Size) error
	Size(id string) geometry.Size
	DescendantExtents(id string) map[string]scene.Extent
	RestoreExtents(extents map[string]scene.Extent)
	Reparent(id, parentID string, index int) error
	Serialize(id string) (scene.Record, bool)
	BuildAt(parentID string, rec scene.Record, index int) (*scene.Node, error)
	Delete(id string) error
}

var _ Repository = (*scene.Tree)(nil)

// Kind names a command variant.
type Kind string

const (
	KindMove      Kind = "move"
	KindRotation  Kind = "rotation"
	KindResize    Kind = "resize"
	KindGroup     Kind = "group"
	KindUngroup   Kind = "ungroup"
	KindDelete    Kind = "delete"
	KindCreate    Kind = "create"
	KindComposite Kind = "composite"
)

// Command is a reversible mutation held as data. Targets are addressed by
// id and resolved on every Execute and Undo.
type Command interface {
	Kind() Kind
	Execute(repo Repository) error
	Undo(repo Repository) error
}

// ErrTargetMissing is returned when a command's target no longer exists.
var ErrTargetMissing = errors.New("command target missing")

func lookup(repo Repository, id string) error {
	if repo.Find(id) == nil {
		return fmt.Errorf("%s: %w", id, ErrTargetMissing)
	}
	return nil
}

// clampIndex limits index to the insert range of parentID's children.
func clampIndex(repo Repository, parentID string, index int) int {
	n := repo.ChildCount(parentID)
	if index < 0 {
		return 0
	}
	if index > n {
		return n
	}
	return index
}

// Composite applies its commands as one unit. Execute runs them in order
// and Undo in reverse, not in recorded order: structural commands hold
// sibling indices that later commands in the same unit may have shifted, so
// they must be unwound last-first. A failing command is logged and the rest
// still run; the failures are returned joined.
type Composite struct {
	Label    string
	Commands []Command
}

// NewComposite bundles cmds under label.
func NewComposite(label string, cmds ...Command) *Composite {
	return &Composite{Label: label, Commands: cmds}
}

func (c *Composite) Kind() Kind { return KindComposite }
func (c *Composite) Len() int   { return len(c.Commands) }

func (c *Composite) Execute(repo Repository) error {
	var errs []error
	for _, cmd := range c.Commands {
		if err := cmd.Execute(repo); err != nil {
			slog.Error("command execute failed", "composite", c.Label, "kind", cmd.Kind(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Composite) Undo(repo Repository) error {
	var errs []error
	for i := len(c.Commands) - 1; i >= 0; i-- {
		cmd := c.Commands[i]
		if err := cmd.Undo(repo); err != nil {
			slog.Error("command undo failed", "composite", c.Label, "kind", cmd.Kind(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
