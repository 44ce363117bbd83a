package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DivXPro/canvas-editor-sub000/internal/config"
	"github.com/DivXPro/canvas-editor-sub000/internal/document"
	"github.com/DivXPro/canvas-editor-sub000/internal/editor"
)

var ErrAlreadyOpen = errors.New("session already open")

// Loader returns the newest document of a project and its version.
type Loader func(ctx context.Context, projectID string) (*document.Document, int, error)

// Manager tracks the open sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // sessionID -> session
	load     Loader
	save     Saver
	cfg      config.Editor
}

func NewManager(load Loader, save Saver, cfg config.Editor) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		load:     load,
		save:     save,
		cfg:      cfg,
	}
}

// Open loads the project and registers a session for it. The caller starts
// Run and must call Close when the client goes away.
func (m *Manager) Open(ctx context.Context, sessionID, projectID, clientID string) (*Session, error) {
	m.mu.RLock()
	_, exists := m.sessions[sessionID]
	m.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("open %s: %w", sessionID, ErrAlreadyOpen)
	}

	doc, version, err := m.load(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", projectID, err)
	}
	ed := editor.New(m.cfg)
	if err := ed.LoadDocument(doc); err != nil {
		return nil, fmt.Errorf("load project %s: %w", projectID, err)
	}

	interval := time.Duration(m.cfg.FrameIntervalMS) * time.Millisecond
	s := newSession(sessionID, projectID, clientID, ed, version, m.save, interval)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; ok {
		return nil, fmt.Errorf("open %s: %w", sessionID, ErrAlreadyOpen)
	}
	m.sessions[sessionID] = s

	slog.Info("session opened", "session", sessionID, "project", projectID, "client", clientID, "version", version)
	return s, nil
}

// Close forgets s.
func (m *Manager) Close(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[s.ID] != s {
		return
	}
	delete(m.sessions, s.ID)

	slog.Info("session closed", "session", s.ID, "project", s.ProjectID, "client", s.ClientID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
