package project

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/DivXPro/canvas-editor-sub000/internal/auth"
	"github.com/DivXPro/canvas-editor-sub000/internal/document"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name   string `json:"name"`
	Sample bool   `json:"sample"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	project, err := h.service.Create(r.Context(), req.Name, req.Sample)
	if err != nil {
		slog.Error("create project failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	project, err := h.service.Get(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("list projects failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	if err := h.authorize(r, projectID); err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), projectID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	doc, err := h.service.GetLatestSnapshot(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, doc)
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]
	version, err := strconv.Atoi(mux.Vars(r)["version"])
	if err != nil || version < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid version"})
		return
	}

	doc, err := h.service.GetSnapshot(r.Context(), projectID, version)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, doc)
}

func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	snaps, err := h.service.ListSnapshots(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snaps)
}

// Save stores the request body as the next document version. The optional
// baseVersion query parameter guards against overwriting a newer save.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	if err := h.authorize(r, projectID); err != nil {
		handleServiceError(w, err)
		return
	}

	baseVersion := 0
	if v := r.URL.Query().Get("baseVersion"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid baseVersion"})
			return
		}
		baseVersion = n
	}

	var doc document.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := h.service.Save(r.Context(), projectID, &doc, baseVersion)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

// authorize checks that the bearer token, if the route carries one, was
// issued for projectID.
func (h *Handler) authorize(r *http.Request, projectID string) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return nil
	}
	if claims.ProjectID != projectID {
		return ErrForbidden
	}
	return nil
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrStale):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "document changed since base version"})
	case errors.Is(err, document.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
