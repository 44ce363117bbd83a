package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

// ErrInvalid is returned for documents that cannot be loaded.
var ErrInvalid = errors.New("invalid document")

// Document is the persisted form of a canvas: project metadata plus the
// record trees of its top-level nodes, in paint order.
type Document struct {
	Project Project        `json:"project"`
	Pages   []scene.Record `json:"pages"`
}

type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Version    int    `json:"version"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
	Background string `json:"background,omitempty"`
}

// NewEmptyDocument creates a document with one blank page frame.
func NewEmptyDocument(projectID, projectName, pageID string) *Document {
	return &Document{
		Project: Project{
			ID:         projectID,
			Name:       projectName,
			Version:    1,
			CreatedAt:  "", // Will be set by caller
			UpdatedAt:  "",
			Background: "#1e1e1e",
		},
		Pages: []scene.Record{
			{
				ID:       pageID,
				Name:     "Page 1",
				Kind:     string(scene.KindFrame),
				Position: geometry.Pt(640, 360),
				Size:     geometry.Size{Width: 1280, Height: 720},
				Fills:    []json.RawMessage{json.RawMessage(`{"type":"solid","color":"#ffffff"}`)},
			},
		},
	}
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that ids are unique and that only containers have
// children. Unknown kinds are allowed; they are skipped on load.
func (d *Document) Validate() error {
	seen := make(map[string]bool)
	var check func(rec scene.Record, path string) error
	check = func(rec scene.Record, path string) error {
		if rec.ID != "" {
			if seen[rec.ID] {
				return fmt.Errorf("%w: duplicate id %s at %s", ErrInvalid, rec.ID, path)
			}
			seen[rec.ID] = true
		}
		if kind, ok := scene.ParseKind(rec.Kind); ok && !kind.IsContainer() && len(rec.Children) > 0 {
			return fmt.Errorf("%w: %s node %s at %s has children", ErrInvalid, kind, rec.ID, path)
		}
		for i, c := range rec.Children {
			if err := check(c, fmt.Sprintf("%s/%d", path, i)); err != nil {
				return err
			}
		}
		return nil
	}
	for i, p := range d.Pages {
		if err := check(p, fmt.Sprintf("pages/%d", i)); err != nil {
			return err
		}
	}
	return nil
}

// Load builds the pages into tree, in order. Records of unknown kind are
// skipped.
func (d *Document) Load(tree *scene.Tree) error {
	for _, p := range d.Pages {
		if _, err := tree.Build("", p); err != nil {
			return fmt.Errorf("load page %s: %w", p.ID, err)
		}
	}
	return nil
}

// CountNodes returns the number of records across all pages.
func (d *Document) CountNodes() int {
	var count func(rec scene.Record) int
	count = func(rec scene.Record) int {
		n := 1
		for _, c := range rec.Children {
			n += count(c)
		}
		return n
	}
	total := 0
	for _, p := range d.Pages {
		total += count(p)
	}
	return total
}
