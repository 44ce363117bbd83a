package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DivXPro/canvas-editor-sub000/internal/document"
	"github.com/DivXPro/canvas-editor-sub000/internal/editor"
	"github.com/DivXPro/canvas-editor-sub000/internal/geometry"
	"github.com/DivXPro/canvas-editor-sub000/internal/keymap"
)

const sendBuffer = 256

// Saver stores doc as the version after baseVersion and returns the new
// version.
type Saver func(ctx context.Context, projectID string, doc *document.Document, baseVersion int) (int, error)

// Session is one client editing one project. The editor is owned by the
// Run goroutine; everything else reaches it through Deliver.
type Session struct {
	ID        string
	ProjectID string
	ClientID  string

	editor   *editor.Editor
	version  int
	save     Saver
	interval time.Duration

	inbox chan *Message
	send  chan []byte
	done  chan struct{}
	dirty bool
	seq   int64
}

func newSession(id, projectID, clientID string, ed *editor.Editor, version int, save Saver, interval time.Duration) *Session {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Session{
		ID:        id,
		ProjectID: projectID,
		ClientID:  clientID,
		editor:    ed,
		version:   version,
		save:      save,
		interval:  interval,
		inbox:     make(chan *Message, sendBuffer),
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
		dirty:     true,
	}
}

// Run processes messages and emits one frame per tick while anything
// changed. It closes the outbound channel when ctx ends.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		close(s.done)
		close(s.send)
	}()

	s.emit(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		ProjectID: s.ProjectID,
		ClientID:  s.ClientID,
		Version:   s.version,
	})

	for {
		select {
		case msg := <-s.inbox:
			s.handle(ctx, msg)
		case <-ticker.C:
			s.flush()
		case <-ctx.Done():
			return
		}
	}
}

// Deliver hands msg to the Run goroutine. It reports false once the
// session or ctx has ended.
func (s *Session) Deliver(ctx context.Context, msg *Message) bool {
	select {
	case s.inbox <- msg:
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Outbound is the stream of encoded messages for the client. It is closed
// when Run returns.
func (s *Session) Outbound() <-chan []byte { return s.send }

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) handle(ctx context.Context, msg *Message) {
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var p PointerPayload
		if !s.decode(msg, &p) {
			return
		}
		pt := geometry.Pt(p.X, p.Y)
		switch msg.Type {
		case TypePointerDown:
			s.editor.PointerDown(pt, p.Shift)
			s.dirty = true
		case TypePointerMove:
			// The move is applied by the next flush.
			s.editor.PointerMove(pt)
		case TypePointerUp:
			s.editor.PointerUp(pt)
			s.dirty = true
		}

	case TypePointerCancel:
		s.editor.PointerCancel()
		s.dirty = true

	case TypeKey:
		var p KeyPayload
		if !s.decode(msg, &p) {
			return
		}
		action, ok, err := s.editor.Press(p.Chord)
		if err != nil {
			s.fail(msg, err)
			return
		}
		if ok {
			s.emit(TypeAction, ActionPayload{Name: string(action)})
		}
		s.dirty = true

	case TypeCommand:
		var p CommandPayload
		if !s.decode(msg, &p) {
			return
		}
		if err := s.editor.Perform(keymap.Action(p.Name)); err != nil {
			s.fail(msg, err)
		}
		s.dirty = true

	case TypeSelect:
		var p SelectPayload
		if !s.decode(msg, &p) {
			return
		}
		s.editor.SetSelection(p.IDs)
		s.dirty = true

	case TypeSave:
		s.handleSave(ctx, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "session", s.ID)
		s.fail(msg, fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func (s *Session) handleSave(ctx context.Context, msg *Message) {
	if s.save == nil {
		s.fail(msg, errors.New("saving is not enabled"))
		return
	}
	version, err := s.save(ctx, s.ProjectID, s.editor.Document(), s.version)
	if err != nil {
		slog.Error("save failed", "error", err, "session", s.ID, "project", s.ProjectID)
		s.fail(msg, err)
		return
	}
	s.version = version
	s.emit(TypeSaved, SavedPayload{Version: version})
}

// flush runs the pending pointer frame and sends the rendered frame if
// anything may have changed since the last one.
func (s *Session) flush() {
	if !s.dirty && !s.editor.Frames().Pending() {
		return
	}
	s.dirty = false
	s.sendRaw(TypeFrame, json.RawMessage(s.editor.Tick()))
}

func (s *Session) decode(msg *Message, v any) bool {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		slog.Warn("invalid payload", "error", err, "type", msg.Type, "session", s.ID)
		s.fail(msg, fmt.Errorf("invalid %s payload", msg.Type))
		return false
	}
	return true
}

// fail reports err to the client, echoing the seq of the message that
// caused it.
func (s *Session) fail(msg *Message, err error) {
	s.emit(TypeError, ErrorPayload{Message: err.Error(), Seq: msg.Seq})
}

func (s *Session) emit(typ string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "error", err, "type", typ)
		return
	}
	s.sendMessage(&Message{Type: typ, Payload: data})
}

func (s *Session) sendRaw(typ string, payload json.RawMessage) {
	s.sendMessage(&Message{Type: typ, Payload: payload})
}

func (s *Session) sendMessage(msg *Message) {
	s.seq++
	msg.SessionID = s.ID
	msg.Seq = s.seq
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message", "session", s.ID, "type", msg.Type)
	}
}
