package project

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivXPro/canvas-editor-sub000/internal/auth"
	"github.com/DivXPro/canvas-editor-sub000/internal/document"
	"github.com/DivXPro/canvas-editor-sub000/internal/store"
)

func TestServiceCreateSeedsDocument(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	p, err := svc.Create(ctx, "Poster", false)
	require.NoError(t, err)
	doc, version, err := svc.LoadDocument(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, p.ID, doc.Project.ID)
	assert.Equal(t, "Poster", doc.Project.Name)
	assert.Len(t, doc.Pages, 1)

	sample, err := svc.Create(ctx, "Demo", true)
	require.NoError(t, err)
	doc, _, err = svc.LoadDocument(ctx, sample.ID)
	require.NoError(t, err)
	assert.Equal(t, "Demo", doc.Project.Name)
	assert.Greater(t, doc.CountNodes(), 1)
}

func TestServiceSaveVersions(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())
	p, err := svc.Create(ctx, "Poster", false)
	require.NoError(t, err)

	doc, _, err := svc.LoadDocument(ctx, p.ID)
	require.NoError(t, err)
	doc.Pages[0].Name = "Cover"

	info, err := svc.Save(ctx, p.ID, doc, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Version)

	_, err = svc.Save(ctx, p.ID, doc, 1)
	assert.ErrorIs(t, err, ErrStale)

	loaded, version, err := svc.LoadDocument(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.Equal(t, "Cover", loaded.Pages[0].Name)
	assert.Equal(t, 2, loaded.Project.Version)

	snaps, err := svc.ListSnapshots(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 2, snaps[0].Version)

	_, err = svc.Save(ctx, "doc_missing", doc, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func newRouter(t *testing.T) (*mux.Router, *Service, *auth.Service) {
	t.Helper()
	svc := NewService(store.NewMemory())
	authSvc := auth.NewService("secret")
	h := NewHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/api/projects", h.List).Methods("GET")
	r.HandleFunc("/api/projects", h.Create).Methods("POST")
	r.HandleFunc("/api/projects/{projectId}", h.Get).Methods("GET")
	r.Handle("/api/projects/{projectId}", authSvc.AuthMiddleware(http.HandlerFunc(h.Delete))).Methods("DELETE")
	r.HandleFunc("/api/projects/{projectId}/document", h.GetLatestSnapshot).Methods("GET")
	r.Handle("/api/projects/{projectId}/document", authSvc.AuthMiddleware(http.HandlerFunc(h.Save))).Methods("PUT")
	r.HandleFunc("/api/projects/{projectId}/snapshots", h.ListSnapshots).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}/snapshots/{version}", h.GetSnapshot).Methods("GET")
	return r, svc, authSvc
}

func do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlers(t *testing.T) {
	r, _, authSvc := newRouter(t)

	rec := do(r, "POST", "/api/projects", "", map[string]any{"name": "Poster", "sample": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	var p Project
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))

	assert.Equal(t, http.StatusBadRequest, do(r, "POST", "/api/projects", "", map[string]any{}).Code)
	assert.Equal(t, http.StatusOK, do(r, "GET", "/api/projects/"+p.ID, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, "GET", "/api/projects/doc_missing", "", nil).Code)

	rec = do(r, "GET", "/api/projects/"+p.ID+"/document", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := document.Parse(rec.Body.Bytes())
	require.NoError(t, err)

	sess, err := authSvc.IssueSessionToken(p.ID)
	require.NoError(t, err)
	other, err := authSvc.IssueSessionToken("doc_other")
	require.NoError(t, err)

	path := "/api/projects/" + p.ID + "/document?baseVersion=1"
	assert.Equal(t, http.StatusUnauthorized, do(r, "PUT", path, "", doc).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "PUT", path, other.Token, doc).Code)
	assert.Equal(t, http.StatusCreated, do(r, "PUT", path, sess.Token, doc).Code)
	assert.Equal(t, http.StatusConflict, do(r, "PUT", path, sess.Token, doc).Code)

	bad := map[string]any{"pages": []map[string]any{{"id": "x", "type": "RECTANGLE", "children": []map[string]any{{"id": "y", "type": "RECTANGLE"}}}}}
	assert.Equal(t, http.StatusBadRequest, do(r, "PUT", "/api/projects/"+p.ID+"/document", sess.Token, bad).Code)

	rec = do(r, "GET", "/api/projects/"+p.ID+"/snapshots", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snaps []SnapshotInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snaps))
	assert.Len(t, snaps, 2)

	assert.Equal(t, http.StatusOK, do(r, "GET", "/api/projects/"+p.ID+"/snapshots/1", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, "GET", "/api/projects/"+p.ID+"/snapshots/7", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, "GET", "/api/projects/"+p.ID+"/snapshots/zero", "", nil).Code)

	assert.Equal(t, http.StatusForbidden, do(r, "DELETE", "/api/projects/"+p.ID, other.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "DELETE", "/api/projects/"+p.ID, sess.Token, nil).Code)

	rec = do(r, "GET", "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
