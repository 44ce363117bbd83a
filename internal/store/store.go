package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Project is the metadata row of a stored document.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot is one saved version of a project's document. Versions start at
// 1 and increase by one per save.
type Snapshot struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"projectId"`
	Version   int             `json:"version"`
	Document  json.RawMessage `json:"document,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Store persists projects and their document snapshots.
type Store interface {
	CreateProject(ctx context.Context, p Project) (*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	DeleteProject(ctx context.Context, id string) error

	// CreateSnapshot stores s. A version already taken for the project
	// yields ErrConflict.
	CreateSnapshot(ctx context.Context, s Snapshot) (*Snapshot, error)
	GetLatestSnapshot(ctx context.Context, projectID string) (*Snapshot, error)
	GetSnapshot(ctx context.Context, projectID string, version int) (*Snapshot, error)
	// ListSnapshots returns snapshot metadata, newest first, without
	// documents.
	ListSnapshots(ctx context.Context, projectID string) ([]Snapshot, error)
}
