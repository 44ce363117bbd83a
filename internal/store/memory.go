package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Memory is a Store kept in process memory, for development and tests.
type Memory struct {
	mu        sync.RWMutex
	projects  map[string]Project
	snapshots map[string][]Snapshot // by project, ascending version
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		projects:  make(map[string]Project),
		snapshots: make(map[string][]Snapshot),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) CreateProject(ctx context.Context, p Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[p.ID]; ok {
		return nil, fmt.Errorf("project %s: %w", p.ID, ErrConflict)
	}
	now := m.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.projects[p.ID] = p
	return &p, nil
}

func (m *Memory) GetProject(ctx context.Context, id string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) ListProjects(ctx context.Context) ([]Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := make([]Project, 0, len(m.projects))
	for _, p := range m.projects {
		projects = append(projects, p)
	}
	slices.SortFunc(projects, func(a, b Project) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return projects, nil
}

func (m *Memory) DeleteProject(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return ErrNotFound
	}
	delete(m.projects, id)
	delete(m.snapshots, id)
	return nil
}

func (m *Memory) CreateSnapshot(ctx context.Context, s Snapshot) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[s.ProjectID]
	if !ok {
		return nil, ErrNotFound
	}
	for _, existing := range m.snapshots[s.ProjectID] {
		if existing.Version == s.Version {
			return nil, fmt.Errorf("snapshot %s v%d: %w", s.ProjectID, s.Version, ErrConflict)
		}
	}

	s.CreatedAt = m.now()
	s.Document = append([]byte(nil), s.Document...)
	snaps := append(m.snapshots[s.ProjectID], s)
	slices.SortFunc(snaps, func(a, b Snapshot) int { return a.Version - b.Version })
	m.snapshots[s.ProjectID] = snaps

	p.UpdatedAt = s.CreatedAt
	m.projects[p.ID] = p
	return &s, nil
}

func (m *Memory) GetLatestSnapshot(ctx context.Context, projectID string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := m.snapshots[projectID]
	if len(snaps) == 0 {
		return nil, ErrNotFound
	}
	s := snaps[len(snaps)-1]
	return &s, nil
}

func (m *Memory) GetSnapshot(ctx context.Context, projectID string, version int) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.snapshots[projectID] {
		if s.Version == version {
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListSnapshots(ctx context.Context, projectID string) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.projects[projectID]; !ok {
		return nil, ErrNotFound
	}
	snaps := m.snapshots[projectID]
	out := make([]Snapshot, 0, len(snaps))
	for i := len(snaps) - 1; i >= 0; i-- {
		s := snaps[i]
		s.Document = nil
		out = append(out, s)
	}
	return out, nil
}
