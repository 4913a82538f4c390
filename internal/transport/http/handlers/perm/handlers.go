package permhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/perm"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
)

type Handler struct {
	Service *perm.Service
}

func NewHandler(service *perm.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(action string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(perm.PageRoles, action, h.Service)
	}

	r.Get("/pages", h.handleListPages)

	r.Route("/roles", func(r chi.Router) {
		r.With(guard(perm.ActionView)).Get("/", h.handleListRoles)
		r.With(guard(perm.ActionView)).Get("/matrix", h.handleMatrix)
		r.With(guard(perm.ActionCreate)).Post("/", h.handleCreateRole)
		r.With(guard(perm.ActionEdit)).Put("/{roleID}", h.handleRenameRole)
		r.With(guard(perm.ActionEdit)).Post("/permissions", h.handleSetPermission)
		r.With(guard(perm.ActionDelete)).Delete("/{roleID}", h.handleDeleteRole)
	})
}

// handleListPages is unguarded beyond authentication so the frontend
// can build its navigation for any signed-in user.
func (h *Handler) handleListPages(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	api.Success(w, perm.Pages, requestID)
}

func (h *Handler) handleListRoles(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	roles, err := h.Service.ListRoles(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "roles_failed", "failed to list roles", requestID)
		return
	}
	api.Success(w, roles, requestID)
}

func (h *Handler) handleMatrix(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Snapshot(), middleware.GetRequestID(r.Context()))
}

type rolePayload struct {
	Name string `json:"name"`
}

func (h *Handler) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload rolePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	role, err := h.Service.CreateRole(r.Context(), payload.Name)
	if err != nil {
		h.failRole(w, err, requestID)
		return
	}
	api.Created(w, role, requestID)
}

func (h *Handler) handleRenameRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload rolePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if err := h.Service.RenameRole(r.Context(), chi.URLParam(r, "roleID"), payload.Name); err != nil {
		h.failRole(w, err, requestID)
		return
	}
	api.Success(w, map[string]bool{"renamed": true}, requestID)
}

func (h *Handler) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.DeleteRole(r.Context(), user.RoleName, chi.URLParam(r, "roleID")); err != nil {
		h.failRole(w, err, requestID)
		return
	}
	api.NoContent(w)
}

type permissionPayload struct {
	Role   string `json:"role"`
	Page   string `json:"page"`
	Action string `json:"action"`
	Value  bool   `json:"value"`
}

func (h *Handler) handleSetPermission(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload permissionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if err := h.Service.SetPermission(r.Context(), payload.Role, payload.Page, payload.Action, payload.Value); err != nil {
		switch {
		case errors.Is(err, perm.ErrUnknownPage):
			api.Fail(w, http.StatusBadRequest, "unknown_page", "unknown page "+url.QueryEscape(payload.Page), requestID)
		case errors.Is(err, perm.ErrUnknownAction):
			api.Fail(w, http.StatusBadRequest, "unknown_action", "unknown action", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "permissions_failed", "failed to save permission", requestID)
		}
		return
	}
	api.Success(w, h.Service.Snapshot(), requestID)
}

func (h *Handler) failRole(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, perm.ErrEmptyRoleName):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "role name is required", requestID)
	case errors.Is(err, perm.ErrRoleExists):
		api.Fail(w, http.StatusConflict, "role_exists", "a role with this name already exists", requestID)
	case errors.Is(err, perm.ErrRoleNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "role not found", requestID)
	case errors.Is(err, perm.ErrReservedRole):
		api.Fail(w, http.StatusForbidden, "reserved_role", "this role is reserved", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "roles_failed", "role operation failed", requestID)
	}
}
