package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/directory"
	"hrdash/internal/domain/leave"
	"hrdash/internal/domain/perm"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service   *leave.Service
	Directory *directory.Store
	Perms     middleware.PermissionSource
}

func NewHandler(service *leave.Service, dir *directory.Store, perms middleware.PermissionSource) *Handler {
	return &Handler{Service: service, Directory: dir, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(action string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(perm.PageLeaves, action, h.Perms)
	}

	r.Route("/leaves", func(r chi.Router) {
		r.With(guard(perm.ActionView)).Get("/", h.handleList)
		r.With(guard(perm.ActionView)).Get("/types", h.handleListTypes)
		r.With(guard(perm.ActionView)).Get("/{requestID}", h.handleGet)
		r.With(guard(perm.ActionCreate)).Post("/", h.handleSubmit)
		r.With(guard(perm.ActionEdit)).Post("/{requestID}/approve", h.handleApprove)
		r.With(guard(perm.ActionEdit)).Post("/{requestID}/reject", h.handleReject)
	})

	r.Route("/holidays", func(r chi.Router) {
		r.With(guard(perm.ActionView)).Get("/", h.handleListHolidays)
		r.With(guard(perm.ActionCreate)).Post("/", h.handleAddHoliday)
		r.With(guard(perm.ActionEdit)).Post("/{holidayID}/paid", h.handleSetHolidayPaid)
		r.With(guard(perm.ActionDelete)).Delete("/{holidayID}", h.handleDeleteHoliday)
	})
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (leave.Actor, bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return leave.Actor{}, false
	}
	actor, err := h.Service.ActorFor(r.Context(), user.EmployeeID, user.RoleName)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leaves_failed", "failed to resolve permissions", requestID)
		return leave.Actor{}, false
	}
	return actor, true
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	api.Success(w, leave.LeaveTypes, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	requests, err := h.Service.List(r.Context(), actor)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leaves_failed", "failed to list leave requests", requestID)
		return
	}
	api.Success(w, requests, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "requestID"))
	if err != nil {
		h.failDomain(w, err, requestID)
		return
	}
	api.Success(w, req, requestID)
}

type submitPayload struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Enum("leaveType", payload.LeaveType, leave.LeaveTypes, "unknown leave type")
	v.Required("leaveType", payload.LeaveType, "leave type is required")
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK && end.Before(start) {
		v.Add("endDate", "must not be before start date")
	}
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Directory.GetEmployee(r.Context(), actor.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leaves_failed", "failed to submit leave request", requestID)
		return
	}

	req, err := h.Service.Submit(r.Context(), actor, emp.DepartmentID, strings.TrimSpace(payload.LeaveType), start, end)
	if err != nil {
		h.failDomain(w, err, requestID)
		return
	}
	api.Created(w, req, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, actor leave.Actor, id string) (leave.Request, error)) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, err := action(r.Context(), actor, chi.URLParam(r, "requestID"))
	if err != nil {
		h.failDomain(w, err, requestID)
		return
	}
	api.Success(w, req, requestID)
}

func (h *Handler) failDomain(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "you may not act on this leave request", requestID)
	case errors.Is(err, leave.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "leave request is not in a state that allows this action", requestID)
	case errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "end date must not be before start date", requestID)
	case errors.Is(err, leave.ErrUnknownLeaveType):
		api.Fail(w, http.StatusBadRequest, "unknown_leave_type", "unknown leave type", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "leaves_failed", "leave operation failed", requestID)
	}
}

func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	year := shared.QueryInt(r, "year", 0)
	holidays, err := h.Service.ListHolidays(r.Context(), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "holidays_failed", "failed to list holidays", requestID)
		return
	}
	api.Success(w, holidays, requestID)
}

type holidayPayload struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Paid *bool  `json:"paid"`
}

func (h *Handler) handleAddHoliday(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload holidayPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	date, dateOK := v.Date("date", payload.Date)
	if v.Reject(w, requestID) || !dateOK {
		return
	}
	paid := true
	if payload.Paid != nil {
		paid = *payload.Paid
	}

	holiday, err := h.Service.AddHoliday(r.Context(), strings.TrimSpace(payload.Name), date, paid)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "holidays_failed", "failed to save holiday", requestID)
		return
	}
	api.Created(w, holiday, requestID)
}

type paidPayload struct {
	Paid bool `json:"paid"`
}

func (h *Handler) handleSetHolidayPaid(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload paidPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if err := h.Service.SetHolidayPaid(r.Context(), chi.URLParam(r, "holidayID"), payload.Paid); err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "holiday not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "holidays_failed", "failed to update holiday", requestID)
		return
	}
	api.Success(w, map[string]bool{"paid": payload.Paid}, requestID)
}

func (h *Handler) handleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Service.DeleteHoliday(r.Context(), chi.URLParam(r, "holidayID")); err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "holiday not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "holidays_failed", "failed to delete holiday", requestID)
		return
	}
	api.NoContent(w)
}
