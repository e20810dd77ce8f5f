package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/services"
	"github.com/pesantren-digital/school-service/internal/utils"
)

func newTestBaseHandler() BaseHandler {
	return NewBaseHandler(utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation errors", services.NewValidationError("date", "is invalid", "x"), http.StatusBadRequest},
		{"permission denied", services.NewPermissionError(1, "pages", "edit", "not owner"), http.StatusForbidden},
		{"business rule", services.NewBusinessRuleError("attendance", "window closed"), http.StatusUnprocessableEntity},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"revoked token", services.ErrTokenRevoked, http.StatusUnauthorized},
		{"inactive student", services.ErrStudentInactive, http.StatusForbidden},
		{"student not found", services.ErrStudentNotFound, http.StatusNotFound},
		{"page not found", services.ErrPageNotFound, http.StatusNotFound},
		{"slug taken", services.ErrSlugTaken, http.StatusConflict},
		{"student taken", services.ErrStudentTaken, http.StatusConflict},
		{"protected role", services.ErrProtectedRole, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	h := newTestBaseHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.handleServiceError(c, tt.err)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"well formed", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"case insensitive scheme", "bearer abc", "abc"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}

			if got := extractBearerToken(c); got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
