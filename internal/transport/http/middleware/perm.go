package middleware

import (
	"net/http"

	"hrdash/internal/transport/http/api"
)

// PermissionSource answers matrix lookups. Backed by the in-memory
// permission service.
type PermissionSource interface {
	HasPermission(role, page, action string) bool
}

// RequirePermission guards a route with a page/action pair from the
// permission matrix. Unauthenticated requests get 401, authenticated
// ones without the grant get 403.
func RequirePermission(page, action string, perms PermissionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !perms.HasPermission(user.RoleName, page, action) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
