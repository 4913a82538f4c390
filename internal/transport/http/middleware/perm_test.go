package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrdash/internal/domain/auth"
)

type fakePerms map[string]bool

func (f fakePerms) HasPermission(role, page, action string) bool {
	return f[role+"/"+page+"/"+action]
}

func authedRequest(t *testing.T, secret, role string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken(secret, auth.Claims{
		EmployeeID: "emp-1",
		RoleName:   role,
	}, time.Hour)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	r := httptest.NewRequest(http.MethodGet, "/employees", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestRequirePermission(t *testing.T) {
	const secret = "test-secret"
	perms := fakePerms{"Manager/employees/view": true}

	handler := Auth(secret)(RequirePermission("employees", "view", perms)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	t.Run("anonymous gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("role without grant gets 403", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(t, secret, "Employee"))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("granted role passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(t, secret, "Manager"))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("garbage token is anonymous", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/employees", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}
