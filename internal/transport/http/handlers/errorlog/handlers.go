package errorloghandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/errorlog"
	"hrdash/internal/domain/perm"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
)

type Handler struct {
	Store *errorlog.Store
	Perms middleware.PermissionSource
}

func NewHandler(store *errorlog.Store, perms middleware.PermissionSource) *Handler {
	return &Handler{Store: store, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(action string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(perm.PageErrors, action, h.Perms)
	}

	r.Route("/errors", func(r chi.Router) {
		// Any signed-in client may report an error it hit.
		r.Post("/", h.handleRecord)
		r.With(guard(perm.ActionView)).Get("/", h.handleList)
		r.With(guard(perm.ActionEdit)).Post("/{entryID}/status", h.handleSetStatus)
		r.With(guard(perm.ActionDelete)).Delete("/{entryID}", h.handleDelete)
	})
}

type recordPayload struct {
	Message string `json:"message"`
	Stack   string `json:"stack"`
	File    string `json:"file"`
	Level   string `json:"level"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	entry, err := h.Store.Record(r.Context(), payload.Message, payload.Stack, payload.File, payload.Level)
	if err != nil {
		if errors.Is(err, errorlog.ErrEmptyMessage) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "message is required", requestID)
			return
		}
		if errors.Is(err, errorlog.ErrUnknownLevel) {
			api.Fail(w, http.StatusBadRequest, "unknown_level", "unknown error log level", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "errors_failed", "failed to record error", requestID)
		return
	}
	api.Created(w, entry, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	entries, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "errors_failed", "failed to list errors", requestID)
		return
	}
	api.Success(w, entries, requestID)
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	err := h.Store.SetStatus(r.Context(), chi.URLParam(r, "entryID"), payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, errorlog.ErrUnknownStatus):
			api.Fail(w, http.StatusBadRequest, "unknown_status", "unknown error log status", requestID)
		case errors.Is(err, errorlog.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "error log entry not found", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "errors_failed", "failed to update error", requestID)
		}
		return
	}
	api.Success(w, map[string]string{"status": payload.Status}, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "entryID")); err != nil {
		if errors.Is(err, errorlog.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "error log entry not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "errors_failed", "failed to delete error", requestID)
		return
	}
	api.NoContent(w)
}
