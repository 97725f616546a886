package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSettingsHandler_Get(t *testing.T) {
	s := newTestStore(t)
	if err := s.Settings().Set("smoother", "kalman"); err != nil {
		t.Fatalf("failed to seed setting: %v", err)
	}
	handler := NewSettingsHandler(s, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response settingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Settings["smoother"] != "kalman" {
		t.Errorf("expected smoother kalman, got %v", response.Settings)
	}
	if len(response.Keys) != 4 || response.Keys[0] != "cooldown_ms" {
		t.Errorf("unexpected keys %v", response.Keys)
	}
}

func TestSettingsHandler_Update(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantStored map[string]string
	}{
		{
			name:       "valid update",
			body:       `{"cooldown_ms": "500", "prefer_straight": "false"}`,
			wantStatus: http.StatusOK,
			wantStored: map[string]string{"cooldown_ms": "500", "prefer_straight": "false"},
		},
		{
			name:       "unknown key",
			body:       `{"volume": "11"}`,
			wantStatus: http.StatusBadRequest,
			wantStored: map[string]string{},
		},
		{
			name:       "unparseable value",
			body:       `{"cooldown_ms": "soon"}`,
			wantStatus: http.StatusBadRequest,
			wantStored: map[string]string{},
		},
		{
			name:       "unknown smoother",
			body:       `{"smoother": "median"}`,
			wantStatus: http.StatusBadRequest,
			wantStored: map[string]string{},
		},
		{
			name:       "invalid JSON",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantStored: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			var applied map[string]string
			handler := NewSettingsHandler(s, func(m map[string]string) error {
				applied = m
				return nil
			})

			req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}

			stored, err := s.Settings().All()
			if err != nil {
				t.Fatalf("failed to load settings: %v", err)
			}
			if len(stored) != len(tt.wantStored) {
				t.Fatalf("stored %v, want %v", stored, tt.wantStored)
			}
			for k, v := range tt.wantStored {
				if stored[k] != v {
					t.Errorf("stored[%s] = %q, want %q", k, stored[k], v)
				}
			}

			if tt.wantStatus == http.StatusOK && applied["cooldown_ms"] != "500" {
				t.Errorf("onChange not called with merged settings: %v", applied)
			}
			if tt.wantStatus != http.StatusOK && applied != nil {
				t.Errorf("onChange called for a rejected update: %v", applied)
			}
		})
	}
}

func TestSettingsHandler_MergesWithStored(t *testing.T) {
	s := newTestStore(t)
	s.Settings().Set("smoother", "kalman")

	var applied map[string]string
	handler := NewSettingsHandler(s, func(m map[string]string) error {
		applied = m
		return nil
	})

	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"min_confidence": "0.4"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if applied["smoother"] != "kalman" || applied["min_confidence"] != "0.4" {
		t.Errorf("expected merged settings, got %v", applied)
	}
}

func TestSettingsHandler_ApplyFailure(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s, func(map[string]string) error {
		return errors.New("pipeline busy")
	})

	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"cooldown_ms": "800"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if v, err := s.Settings().Get("cooldown_ms"); err != nil || v != "800" {
		t.Errorf("setting should still be saved, got %q %v", v, err)
	}
}

func TestSettingsHandler_MethodNotAllowed(t *testing.T) {
	handler := NewSettingsHandler(newTestStore(t), nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/settings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
