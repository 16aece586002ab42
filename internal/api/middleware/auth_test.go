package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

type stubAuthService struct {
	authenticateFn func(ctx context.Context, token string) (*domain.Account, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	return s.authenticateFn(ctx, token)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, token string) (*domain.Account, error) {
			if token != "good-token" {
				t.Fatalf("unexpected token %q", token)
			}
			return &domain.Account{ID: 1, Username: "alice", Active: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(stub)(func(c echo.Context) error {
		called = true
		account, ok := c.Get(AccountKey).(*domain.Account)
		if !ok || account.Username != "alice" {
			t.Fatalf("account not set: %+v", c.Get(AccountKey))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, token string) (*domain.Account, error) {
			return &domain.Account{ID: 1}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer tok")
	c := e.NewContext(req, httptest.NewRecorder())

	err := Auth(stub)(func(c echo.Context) error { return nil })(c)
	if err != nil {
		t.Fatalf("expected lowercase scheme to be accepted, got %v", err)
	}
}

func TestAuthMiddleware_BadHeader(t *testing.T) {
	headers := []string{"", "Bearer", "Bearer   ", "Basic dXNlcjpwYXNz", "tok"}

	for _, h := range headers {
		e := echo.New()
		stub := &stubAuthService{
			authenticateFn: func(ctx context.Context, token string) (*domain.Account, error) {
				t.Fatalf("gate must not be called for header %q", h)
				return nil, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		err := Auth(stub)(func(c echo.Context) error {
			t.Fatalf("next must not be called for header %q", h)
			return nil
		})(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401 HTTPError, got %v", h, err)
		}
		if he.Message != "not authenticated" {
			t.Fatalf("header %q: unexpected message %v", h, he.Message)
		}
	}
}

func TestAuthMiddleware_GateErrorPropagates(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrInactiveAccount} {
		e := echo.New()
		stub := &stubAuthService{
			authenticateFn: func(ctx context.Context, token string) (*domain.Account, error) {
				return nil, want
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer tok")
		c := e.NewContext(req, httptest.NewRecorder())

		err := Auth(stub)(func(c echo.Context) error {
			t.Fatal("next must not be called")
			return nil
		})(c)
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
		if c.Get(AccountKey) != nil {
			t.Fatal("account must not be set on failure")
		}
	}
}
