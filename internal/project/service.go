package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DivXPro/canvas-editor-sub000/internal/document"
	"github.com/DivXPro/canvas-editor-sub000/internal/store"
	"github.com/DivXPro/canvas-editor-sub000/internal/typeid"
)

var (
	ErrNotFound  = errors.New("project not found")
	ErrForbidden = errors.New("forbidden")
	ErrStale     = errors.New("document changed since base version")
)

const timeLayout = "2006-01-02T15:04:05Z"

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// SnapshotInfo describes one saved version without its document.
type SnapshotInfo struct {
	ID        string `json:"id"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
}

// Create stores a new project seeded with version 1 of its document: a
// blank page, or the sample scene when sample is set.
func (s *Service) Create(ctx context.Context, name string, sample bool) (*Project, error) {
	projectID := typeid.NewDocumentID()

	stored, err := s.store.CreateProject(ctx, store.Project{ID: projectID, Name: name})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	// Seed the first document snapshot
	var doc *document.Document
	if sample {
		doc = document.NewSampleDocument(projectID)
		doc.Project.Name = name
	} else {
		doc = document.NewEmptyDocument(projectID, name, typeid.NewNodeID())
	}
	doc.Project.CreatedAt = stored.CreatedAt.UTC().Format(timeLayout)
	doc.Project.UpdatedAt = doc.Project.CreatedAt

	if _, err := s.createSnapshot(ctx, projectID, 1, doc); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return storeProjectToProject(*stored), nil
}

func (s *Service) Get(ctx context.Context, projectID string) (*Project, error) {
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, mapStoreError("get project", err)
	}
	return storeProjectToProject(*p), nil
}

func (s *Service) List(ctx context.Context) ([]Project, error) {
	stored, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]Project, len(stored))
	for i, p := range stored {
		projects[i] = *storeProjectToProject(p)
	}
	return projects, nil
}

func (s *Service) Delete(ctx context.Context, projectID string) error {
	return mapStoreError("delete project", s.store.DeleteProject(ctx, projectID))
}

// GetLatestSnapshot returns the newest document as stored.
func (s *Service) GetLatestSnapshot(ctx context.Context, projectID string) (json.RawMessage, error) {
	snap, err := s.store.GetLatestSnapshot(ctx, projectID)
	if err != nil {
		return nil, mapStoreError("get snapshot", err)
	}
	return snap.Document, nil
}

// GetSnapshot returns one stored version of the document.
func (s *Service) GetSnapshot(ctx context.Context, projectID string, version int) (json.RawMessage, error) {
	snap, err := s.store.GetSnapshot(ctx, projectID, version)
	if err != nil {
		return nil, mapStoreError("get snapshot", err)
	}
	return snap.Document, nil
}

// LoadDocument decodes the newest document and reports its version.
func (s *Service) LoadDocument(ctx context.Context, projectID string) (*document.Document, int, error) {
	snap, err := s.store.GetLatestSnapshot(ctx, projectID)
	if err != nil {
		return nil, 0, mapStoreError("load document", err)
	}
	doc, err := document.Parse(snap.Document)
	if err != nil {
		return nil, 0, fmt.Errorf("load document %s v%d: %w", projectID, snap.Version, err)
	}
	return doc, snap.Version, nil
}

// Save stores doc as the next version. A positive baseVersion must match
// the newest stored version, otherwise ErrStale is returned.
func (s *Service) Save(ctx context.Context, projectID string, doc *document.Document, baseVersion int) (*SnapshotInfo, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	latest, err := s.store.GetLatestSnapshot(ctx, projectID)
	if err != nil {
		return nil, mapStoreError("save document", err)
	}
	if baseVersion > 0 && baseVersion != latest.Version {
		return nil, fmt.Errorf("save %s at v%d, latest v%d: %w", projectID, baseVersion, latest.Version, ErrStale)
	}

	snap, err := s.createSnapshot(ctx, projectID, latest.Version+1, doc)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("save %s: %w", projectID, ErrStale)
		}
		return nil, mapStoreError("save document", err)
	}
	return snapshotInfo(*snap), nil
}

func (s *Service) ListSnapshots(ctx context.Context, projectID string) ([]SnapshotInfo, error) {
	snaps, err := s.store.ListSnapshots(ctx, projectID)
	if err != nil {
		return nil, mapStoreError("list snapshots", err)
	}

	out := make([]SnapshotInfo, len(snaps))
	for i, snap := range snaps {
		out[i] = *snapshotInfo(snap)
	}
	return out, nil
}

func (s *Service) createSnapshot(ctx context.Context, projectID string, version int, doc *document.Document) (*store.Snapshot, error) {
	doc.Project.ID = projectID
	doc.Project.Version = version
	doc.Project.UpdatedAt = time.Now().UTC().Format(timeLayout)
	if doc.Project.CreatedAt == "" {
		doc.Project.CreatedAt = doc.Project.UpdatedAt
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	return s.store.CreateSnapshot(ctx, store.Snapshot{
		ID:        typeid.NewSnapshotID(),
		ProjectID: projectID,
		Version:   version,
		Document:  docJSON,
	})
}

func mapStoreError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func storeProjectToProject(p store.Project) *Project {
	return &Project{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: p.UpdatedAt.UTC().Format(timeLayout),
	}
}

func snapshotInfo(s store.Snapshot) *SnapshotInfo {
	return &SnapshotInfo{
		ID:        s.ID,
		Version:   s.Version,
		CreatedAt: s.CreatedAt.UTC().Format(timeLayout),
	}
}
