package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func requestWithRole(e *echo.Echo, role string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		ctx := context.WithValue(req.Context(), UserRoleKey, role)
		req = req.WithContext(ctx)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireRoleAllows(t *testing.T) {
	e := echo.New()
	handler := RequireRole(RoleDoctor, RoleNurse)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, role := range []string{RoleDoctor, RoleNurse} {
		c := requestWithRole(e, role)
		if err := handler(c); err != nil {
			t.Errorf("role %q rejected: %v", role, err)
		}
	}
}

func TestRequireRoleForbids(t *testing.T) {
	e := echo.New()
	handler := RequireRole(RoleDoctor)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, role := range []string{RoleNurse, "admin", ""} {
		c := requestWithRole(e, role)
		err := handler(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusForbidden {
			t.Errorf("role %q: expected 403 HTTPError, got %v", role, err)
		}
	}
}
