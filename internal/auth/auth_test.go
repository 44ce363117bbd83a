package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	s := NewService("secret")
	sess, err := s.IssueSessionToken("doc_1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sess.SessionID, "sess_"))

	claims, err := s.ValidateToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, &Claims{SessionID: sess.SessionID, ProjectID: "doc_1"}, claims)

	_, err = s.IssueSessionToken("")
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	s := NewService("secret")
	sess, err := s.IssueSessionToken("doc_1")
	require.NoError(t, err)

	_, err = NewService("other").ValidateToken(sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(DefaultTTL + time.Minute) }
	_, err = s.ValidateToken(sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	s := NewService("secret")
	sess, err := s.IssueSessionToken("doc_1")
	require.NoError(t, err)

	var got *Claims
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"invalid", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + sess.Token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	require.NotNil(t, got)
	assert.Equal(t, "doc_1", got.ProjectID)

	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)
}

func TestCreateSession(t *testing.T) {
	s := NewService("secret")
	h := NewHandler(s, func(ctx context.Context, projectID string) error {
		if projectID != "doc_1" {
			return errors.New("missing")
		}
		return nil
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.CreateSession(rec, req)
		return rec
	}

	rec := post(`{"projectId":"doc_1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sess))
	claims, err := s.ValidateToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "doc_1", claims.ProjectID)

	assert.Equal(t, http.StatusNotFound, post(`{"projectId":"doc_2"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{`).Code)
}
