package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      int
		msg       string
		challenge bool
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "could not validate credentials", true},
		{"invalid token", fmt.Errorf("%w: token is expired", domain.ErrInvalidToken), http.StatusUnauthorized, "could not validate credentials", true},
		{"missing subject", domain.ErrMissingSubject, http.StatusUnauthorized, "could not validate credentials", true},
		{"inactive", domain.ErrInactiveAccount, http.StatusBadRequest, "inactive user", false},
		{"duplicate", &domain.DuplicateFieldError{Field: "email"}, http.StatusBadRequest, "email already registered", false},
		{"not found", fmt.Errorf("find: %w", domain.ErrAccountNotFound), http.StatusNotFound, "user not found", false},
		{"invalid account", fmt.Errorf("%w: username is required", domain.ErrInvalidAccount), http.StatusUnprocessableEntity, "invalid account: username is required", false},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "not authenticated"), http.StatusUnauthorized, "not authenticated", true},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error", false},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["error"] != tt.msg {
				t.Fatalf("expected message %q, got %q", tt.msg, body["error"])
			}

			got := rec.Header().Get(echo.HeaderWWWAuthenticate)
			if tt.challenge && got != "Bearer" {
				t.Fatalf("expected Bearer challenge, got %q", got)
			}
			if !tt.challenge && got != "" {
				t.Fatalf("unexpected challenge header %q", got)
			}
		})
	}
}

func TestHTTPErrorHandler_Committed(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
