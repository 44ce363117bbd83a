package session

import "encoding/json"

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client → server
	TypePointerDown   = "pointer.down"
	TypePointerMove   = "pointer.move"
	TypePointerUp     = "pointer.up"
	TypePointerCancel = "pointer.cancel"
	TypeKey           = "key"
	TypeCommand       = "command"
	TypeSelect        = "select"
	TypeSave          = "save"

	// Server → client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeAction  = "action"
	TypeSaved   = "saved"
	TypeError   = "error"
)

// PointerPayload is a canvas-space pointer position.
type PointerPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Shift bool    `json:"shift,omitempty"`
}

type KeyPayload struct {
	Chord string `json:"chord"`
}

// CommandPayload names an editor action, using the shortcut action names
// ("undo", "group", "nudge-left", ...).
type CommandPayload struct {
	Name string `json:"name"`
}

type SelectPayload struct {
	IDs []string `json:"ids"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ProjectID string `json:"projectId"`
	ClientID  string `json:"clientId"`
	Version   int    `json:"version"`
}

type ActionPayload struct {
	Name string `json:"name"`
}

type SavedPayload struct {
	Version int `json:"version"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	// Seq is the seq of the client message that failed, if it had one.
	Seq int64 `json:"seq,omitempty"`
}
