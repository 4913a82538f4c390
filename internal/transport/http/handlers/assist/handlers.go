package assisthandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/assist"
	"hrdash/internal/domain/perm"
	"hrdash/internal/platform/ai"
	"hrdash/internal/platform/metrics"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
)

type Handler struct {
	Service *assist.Service
	Metrics *metrics.Collector
	Perms   middleware.PermissionSource
}

func NewHandler(service *assist.Service, collector *metrics.Collector, perms middleware.PermissionSource) *Handler {
	return &Handler{Service: service, Metrics: collector, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assist", func(r chi.Router) {
		r.With(middleware.RequirePermission(perm.PageJobGenerator, perm.ActionView, h.Perms)).
			Post("/job-description", h.handleJobDescription)
		r.With(middleware.RequirePermission(perm.PageAttendance, perm.ActionCreate, h.Perms)).
			Post("/import-holidays", h.handleImportHolidays)
	})
}

func (h *Handler) handleJobDescription(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload assist.JobDescriptionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	h.Metrics.RecordAICall()
	description, err := h.Service.GenerateJobDescription(r.Context(), payload)
	if err != nil {
		h.failDomain(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"jobDescription": description}, requestID)
}

type importPayload struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
}

func (h *Handler) handleImportHolidays(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload importPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	h.Metrics.RecordAICall()
	count, err := h.Service.ImportHolidays(r.Context(), payload.Country, payload.Year)
	if err != nil {
		h.failDomain(w, err, requestID)
		return
	}
	api.Success(w, map[string]int{"imported": count}, requestID)
}

func (h *Handler) failDomain(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, assist.ErrMissingInput):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "all fields are required", requestID)
	case errors.Is(err, assist.ErrInvalidYear):
		api.Fail(w, http.StatusBadRequest, "invalid_year", "year out of range", requestID)
	case errors.Is(err, ai.ErrNotConfigured):
		api.Fail(w, http.StatusServiceUnavailable, "ai_unavailable", "ai features are not configured", requestID)
	case errors.Is(err, assist.ErrEmptyResponse):
		api.Fail(w, http.StatusBadGateway, "ai_bad_output", "the model returned no usable content", requestID)
	default:
		api.Fail(w, http.StatusBadGateway, "ai_failed", "ai request failed", requestID)
	}
}
