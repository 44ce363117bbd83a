package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// ProjectChecker reports whether a project exists. It returns a non-nil
// error for unknown projects.
type ProjectChecker func(ctx context.Context, projectID string) error

type Handler struct {
	service *Service
	check   ProjectChecker
}

func NewHandler(service *Service, check ProjectChecker) *Handler {
	return &Handler{service: service, check: check}
}

type sessionRequest struct {
	ProjectID string `json:"projectId"`
}

// CreateSession issues a session token for an existing project.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.ProjectID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "projectId is required"})
		return
	}

	if h.check != nil {
		if err := h.check(r.Context(), req.ProjectID); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
			return
		}
	}

	sess, err := h.service.IssueSessionToken(req.ProjectID)
	if err != nil {
		slog.Error("issue session failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
