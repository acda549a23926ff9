package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sonicstream/apperr"
	"sonicstream/core/auth"
	"sonicstream/model"

	"github.com/gorilla/mux"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", apperr.New(apperr.NotFound, "song not found"), http.StatusNotFound},
		{"forbidden", apperr.New(apperr.Forbidden, "no credits"), http.StatusForbidden},
		{"invalid argument", apperr.New(apperr.InvalidArgument, "name required"), http.StatusBadRequest},
		{"already exists", apperr.New(apperr.AlreadyExists, "duplicate"), http.StatusConflict},
		{"internal", apperr.Wrap(apperr.Internal, "load failed", errors.New("db down")), http.StatusInternalServerError},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q, want application/json", ct)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	h := &APIHandler{tokens: issuer}

	token, err := issuer.GenerateToken(7, "listener", model.RoleStandard)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	var gotUserID int64
	var gotRole model.Role
	next := func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		gotRole, _ = GetRoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			h.AuthMiddleware(next)(w, r)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}

	if gotUserID != 7 {
		t.Errorf("userID from context = %d, want 7", gotUserID)
	}
	if gotRole != model.RoleStandard {
		t.Errorf("role from context = %s, want standard", gotRole)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	h := &APIHandler{tokens: issuer}

	var sawUser bool
	next := func(w http.ResponseWriter, r *http.Request) {
		_, err := GetUserIDFromContext(r.Context())
		sawUser = err == nil
		w.WriteHeader(http.StatusOK)
	}

	// Anonymous request passes through without claims.
	r := httptest.NewRequest(http.MethodGet, "/api/songs/1", nil)
	w := httptest.NewRecorder()
	h.OptionalAuthMiddleware(next)(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("anonymous status = %d, want 200", w.Code)
	}
	if sawUser {
		t.Error("anonymous request should carry no user")
	}

	// Authenticated request carries claims.
	token, err := issuer.GenerateToken(9, "listener", model.RoleStandard)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	r = httptest.NewRequest(http.MethodGet, "/api/songs/1", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	h.OptionalAuthMiddleware(next)(w, r)
	if !sawUser {
		t.Error("authenticated request should carry the user")
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr bool
		want    int64
	}{
		{"valid", map[string]string{"id": "42"}, false, 42},
		{"zero", map[string]string{"id": "0"}, true, 0},
		{"negative", map[string]string{"id": "-3"}, true, 0},
		{"garbage", map[string]string{"id": "abc"}, true, 0},
		{"missing", map[string]string{}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/songs/x", nil)
			r = mux.SetURLVars(r, tt.vars)

			id, err := pathID(r, "id")
			if tt.wantErr {
				if !apperr.Is(err, apperr.InvalidArgument) {
					t.Errorf("expected InvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("pathID returned error: %v", err)
			}
			if id != tt.want {
				t.Errorf("id = %d, want %d", id, tt.want)
			}
		})
	}
}
