package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/DivXPro/canvas-editor-sub000/internal/auth"
)

// Handler upgrades authenticated requests to editing sessions.
type Handler struct {
	manager        *Manager
	auth           *auth.Service
	originPatterns []string
}

func NewHandler(manager *Manager, authSvc *auth.Service, originPatterns []string) *Handler {
	return &Handler{manager: manager, auth: authSvc, originPatterns: originPatterns}
}

// ServeWS serves /ws/{projectId}?token=... The token must have been issued
// for the project in the path.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.ProjectID != projectID {
		http.Error(w, "token not valid for project", http.StatusForbidden)
		return
	}

	clientID := uuid.New().String()
	s, err := h.manager.Open(r.Context(), claims.SessionID, projectID, clientID)
	if err != nil {
		if errors.Is(err, ErrAlreadyOpen) {
			http.Error(w, "session already open", http.StatusConflict)
			return
		}
		slog.Error("open session", "error", err, "project", projectID)
		http.Error(w, "could not open project", http.StatusNotFound)
		return
	}
	defer h.manager.Close(s)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := NewClient(conn, s)
	go s.Run(ctx)
	go client.WritePump(ctx)
	client.ReadPump(ctx)
	cancel()
	<-s.Done()
}
