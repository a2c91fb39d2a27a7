package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fitlog/fitlog/internal/handler/dto"
	"github.com/fitlog/fitlog/internal/service"
)

func TestHandler_Hello(t *testing.T) {
	h := New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Hello(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response dto.MessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Message != Banner {
		t.Errorf("unexpected message: %s", response.Message)
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := New()

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	var response dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Code != "NOT_FOUND" {
		t.Errorf("unexpected error code: %s", response.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	h.MethodNotAllowed(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}

	var response dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("unexpected error code: %s", response.Code)
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing fields", &service.ValidationError{Message: "All fields are required.", Missing: true}, http.StatusBadRequest, "MISSING_FIELDS"},
		{"validation", &service.ValidationError{Message: "Validation failed.", Fields: []service.FieldError{{Field: "meal", Message: "meal is required"}}}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"reset code", service.ErrInvalidResetCode, http.StatusForbidden, "INVALID_RESET_CODE"},
		{"user missing", service.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"entry missing", fmt.Errorf("wrapped: %w", service.ErrEntryNotFound), http.StatusNotFound, "ENTRY_NOT_FOUND"},
		{"email taken", service.ErrEmailExists, http.StatusConflict, "EMAIL_EXISTS"},
		{"unexpected", errors.New("dial tcp 10.0.0.5:5432: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			rec := httptest.NewRecorder()

			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/api/food", nil), logger, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var response dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", response.Code, tt.wantCode)
			}
			if tt.wantCode == "VALIDATION_FAILED" && (len(response.Details) != 1 || response.Details[0].Field != "meal") {
				t.Errorf("unexpected details: %+v", response.Details)
			}
			if tt.wantCode == "INTERNAL_ERROR" {
				if strings.Contains(response.Error, "10.0.0.5") {
					t.Error("internal details leaked to the client")
				}
				if !strings.Contains(buf.String(), "10.0.0.5") {
					t.Error("internal error should be logged")
				}
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
	}{
		{"valid", `{"email":"ann@x.com"}`, true, http.StatusOK},
		{"empty body", "", true, http.StatusOK},
		{"malformed", `{"email":`, false, http.StatusBadRequest},
		{"wrong type", `{"email":42}`, false, http.StatusBadRequest},
		{"trailing whitespace", "{\"email\":\"ann@x.com\"}\n\t ", true, http.StatusOK},
		{"trailing garbage", `{"email":"ann@x.com"} trailing-garbage`, false, http.StatusBadRequest},
		{"second object", `{"email":"ann@x.com"}{"email":"bob@x.com"}`, false, http.StatusBadRequest},
		{"stray brace", `{"email":"ann@x.com"}}`, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dst dto.LoginRequest
			ok := decodeJSON(rec, req, &dst)

			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/food", strings.NewReader(`{"meal":"`+strings.Repeat("a", 100)+`"}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	var dst dto.FoodLogRequest
	if decodeJSON(rec, req, &dst) {
		t.Fatal("expected oversized body to be rejected")
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}
