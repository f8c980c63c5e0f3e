package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/velocityrent/rental-portal/internal/core/domain"
)

func newGuardContext(t *testing.T, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(ctxSession, sess)
	}
	return c, rec
}

func TestGuard_NoSession_RedirectsToLogin(t *testing.T) {
	c, rec := newGuardContext(t, nil)

	handler := Guard("")(func(c echo.Context) error {
		t.Fatal("should not reach protected content")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestGuard_WrongRole_RedirectsToUnauthorized(t *testing.T) {
	c, rec := newGuardContext(t, &domain.Session{Role: domain.RoleCustomer})

	handler := Guard(domain.RoleEmployee)(func(c echo.Context) error {
		t.Fatal("customer must not reach employee content")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/unauthorized" {
		t.Errorf("expected redirect to /unauthorized, got %q", loc)
	}
}

func TestGuard_MatchingRole_PassesThrough(t *testing.T) {
	c, rec := newGuardContext(t, &domain.Session{Role: domain.RoleEmployee})

	called := false
	handler := Guard(domain.RoleEmployee)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGuard_EmptyRequirement_AnySessionPasses(t *testing.T) {
	c, rec := newGuardContext(t, &domain.Session{Role: domain.RoleCustomer})

	handler := Guard("")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// The login redirect is preferred over the unauthorized page even for
// employee routes: an anonymous visitor is asked to log in, not told off.
func TestGuard_NoSession_EmployeeRoute_StillLoginRedirect(t *testing.T) {
	c, rec := newGuardContext(t, nil)

	handler := Guard(domain.RoleEmployee)(func(c echo.Context) error {
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}
