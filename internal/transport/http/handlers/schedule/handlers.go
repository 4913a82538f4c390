package schedulehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/perm"
	"hrdash/internal/domain/schedule"
	"hrdash/internal/platform/jobs"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service *schedule.Service
	Jobs    *jobs.Service
	Perms   middleware.PermissionSource
}

func NewHandler(service *schedule.Service, jobsSvc *jobs.Service, perms middleware.PermissionSource) *Handler {
	return &Handler{Service: service, Jobs: jobsSvc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/schedules", func(r chi.Router) {
		r.With(middleware.RequirePermission(perm.PageWorkSchedules, perm.ActionView, h.Perms)).Get("/", h.handleNextWeek)
		r.With(middleware.RequirePermission(perm.PageWorkSchedules, perm.ActionView, h.Perms)).Get("/current", h.handleCurrentWeek)
		r.With(middleware.RequirePermission(perm.PageSchedule, perm.ActionView, h.Perms)).Get("/mine", h.handleMine)
		r.With(middleware.RequirePermission(perm.PageSchedule, perm.ActionCreate, h.Perms)).Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(perm.PageScheduleReminders, perm.ActionView, h.Perms)).Post("/reminders", h.handleSendReminders)
	})
}

func (h *Handler) handleNextWeek(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	schedules, err := h.Service.NextWeek(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "schedules_failed", "failed to list schedules", requestID)
		return
	}
	api.Success(w, schedules, requestID)
}

func (h *Handler) handleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	schedules, err := h.Service.CurrentWeek(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "schedules_failed", "failed to list schedules", requestID)
		return
	}
	api.Success(w, schedules, requestID)
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	schedules, err := h.Service.Mine(r.Context(), user.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "schedules_failed", "failed to list schedules", requestID)
		return
	}
	api.Success(w, schedules, requestID)
}

type submitPayload struct {
	Days []string `json:"days"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	days := make([]time.Time, 0, len(payload.Days))
	v := shared.NewValidator()
	for _, raw := range payload.Days {
		day, ok := v.Date("days", raw)
		if ok {
			days = append(days, day)
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	sc, err := h.Service.Submit(r.Context(), user.EmployeeID, days)
	if err != nil {
		h.failDomain(w, err, requestID)
		return
	}
	api.Created(w, sc, requestID)
}

// handleSendReminders runs the reminder sweep inline through the job
// runner so it lands in the run ledger.
func (h *Handler) handleSendReminders(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	details, err := h.Jobs.RunNow(r.Context(), jobs.JobScheduleReminders, func(ctx context.Context) (any, error) {
		return h.Service.SendReminders(ctx)
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminders_failed", "failed to send reminders", requestID)
		return
	}
	api.Success(w, details, requestID)
}

func (h *Handler) failDomain(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, schedule.ErrAlreadySubmitted):
		api.Fail(w, http.StatusConflict, "already_submitted", "a schedule for next week was already submitted", requestID)
	case errors.Is(err, schedule.ErrNoDays),
		errors.Is(err, schedule.ErrTooManyDays),
		errors.Is(err, schedule.ErrDayOutsideWeek),
		errors.Is(err, schedule.ErrDuplicateDay):
		api.Fail(w, http.StatusBadRequest, "invalid_days", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "schedules_failed", "failed to submit schedule", requestID)
	}
}
