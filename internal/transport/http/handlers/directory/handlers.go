package directoryhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/directory"
	"hrdash/internal/domain/perm"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Store *directory.Store
	Perms middleware.PermissionSource
}

func NewHandler(store *directory.Store, perms middleware.PermissionSource) *Handler {
	return &Handler{Store: store, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(page, action string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(page, action, h.Perms)
	}

	r.Route("/employees", func(r chi.Router) {
		r.With(guard(perm.PageEmployees, perm.ActionView)).Get("/", h.handleListEmployees)
		r.With(guard(perm.PageEmployees, perm.ActionView)).Get("/{employeeID}", h.handleGetEmployee)
		r.With(guard(perm.PageEmployees, perm.ActionCreate)).Post("/", h.handleCreateEmployee)
		r.With(guard(perm.PageEmployees, perm.ActionEdit)).Put("/{employeeID}", h.handleUpdateEmployee)
		r.With(guard(perm.PageEmployees, perm.ActionEdit)).Post("/{employeeID}/active", h.handleSetActive)
		r.With(guard(perm.PageEmployees, perm.ActionDelete)).Delete("/{employeeID}", h.handleDeleteEmployee)
	})

	r.Route("/departments", func(r chi.Router) {
		r.With(guard(perm.PageDepartments, perm.ActionView)).Get("/", h.handleListDepartments)
		r.With(guard(perm.PageDepartments, perm.ActionCreate)).Post("/", h.handleCreateDepartment)
		r.With(guard(perm.PageDepartments, perm.ActionEdit)).Put("/{departmentID}", h.handleUpdateDepartment)
		r.With(guard(perm.PageDepartments, perm.ActionDelete)).Delete("/{departmentID}", h.handleDeleteDepartment)
	})

	r.Route("/candidates", func(r chi.Router) {
		r.With(guard(perm.PageCandidates, perm.ActionView)).Get("/", h.handleListCandidates)
		r.With(guard(perm.PageCandidates, perm.ActionCreate)).Post("/", h.handleCreateCandidate)
		r.With(guard(perm.PageCandidates, perm.ActionEdit)).Put("/{candidateID}", h.handleUpdateCandidate)
		r.With(guard(perm.PageCandidates, perm.ActionDelete)).Delete("/{candidateID}", h.handleDeleteCandidate)
	})
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to list employees", requestID)
		return
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, emp, requestID)
}

type employeePayload struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	RoleID       string `json:"roleId"`
	DepartmentID string `json:"departmentId"`
	ManagerID    string `json:"managerId"`
	Avatar       string `json:"avatar"`
	HireDate     string `json:"hireDate"`
	BirthDate    string `json:"birthDate"`
}

func (p employeePayload) validate(requirePassword bool) *shared.Validator {
	v := shared.NewValidator()
	v.Required("name", p.Name, "name is required")
	v.Required("email", p.Email, "email is required")
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		v.Add("email", "must be a valid email address")
	}
	v.Required("roleId", p.RoleID, "role is required")
	if requirePassword {
		v.Required("password", p.Password, "password is required")
	}
	if p.Password != "" && len(p.Password) < 8 {
		v.Add("password", "must be at least 8 characters")
	}
	if p.HireDate != "" {
		v.Date("hireDate", p.HireDate)
	}
	if p.BirthDate != "" {
		v.Date("birthDate", p.BirthDate)
	}
	return v
}

func (p employeePayload) input() directory.EmployeeInput {
	return directory.EmployeeInput{
		Name:         strings.TrimSpace(p.Name),
		Email:        p.Email,
		Password:     p.Password,
		RoleID:       p.RoleID,
		DepartmentID: p.DepartmentID,
		ManagerID:    p.ManagerID,
		Avatar:       p.Avatar,
		HireDate:     p.HireDate,
		BirthDate:    p.BirthDate,
	}
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.validate(true).Reject(w, requestID) {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to create employee", requestID)
		return
	}
	id, err := h.Store.CreateEmployee(r.Context(), payload.input(), hash)
	if err != nil {
		api.Fail(w, http.StatusConflict, "employee_exists", "an employee with this email already exists", requestID)
		return
	}
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to load employee", requestID)
		return
	}
	api.Created(w, emp, requestID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "employeeID")

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.validate(false).Reject(w, requestID) {
		return
	}

	if err := h.Store.UpdateEmployee(r.Context(), id, payload.input()); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to update employee", requestID)
		return
	}
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, emp, requestID)
}

type activePayload struct {
	Active bool `json:"active"`
}

func (h *Handler) handleSetActive(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload activePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	err := h.Store.SetEmployeeActive(r.Context(), chi.URLParam(r, "employeeID"), payload.Active)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to update employee", requestID)
		return
	}
	api.Success(w, map[string]bool{"active": payload.Active}, requestID)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "employeeID")
	if id == user.EmployeeID {
		api.Fail(w, http.StatusBadRequest, "self_delete", "you cannot delete your own account", requestID)
		return
	}

	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to delete employee", requestID)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "departments_failed", "failed to list departments", requestID)
		return
	}
	api.Success(w, departments, requestID)
}

type departmentPayload struct {
	Name     string `json:"name"`
	LeaderID string `json:"leaderId"`
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Store.CreateDepartment(r.Context(), strings.TrimSpace(payload.Name), payload.LeaderID)
	if err != nil {
		api.Fail(w, http.StatusConflict, "department_exists", "a department with this name already exists", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestID) {
		return
	}

	err := h.Store.UpdateDepartment(r.Context(), chi.URLParam(r, "departmentID"),
		strings.TrimSpace(payload.Name), payload.LeaderID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "department not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "departments_failed", "failed to update department", requestID)
		return
	}
	api.Success(w, map[string]bool{"updated": true}, requestID)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Store.DeleteDepartment(r.Context(), chi.URLParam(r, "departmentID")); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "department not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "departments_failed", "failed to delete department", requestID)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	candidates, err := h.Store.ListCandidates(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "candidates_failed", "failed to list candidates", requestID)
		return
	}
	api.Success(w, candidates, requestID)
}

type candidatePayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	AppliedRole string `json:"appliedRole"`
	Avatar      string `json:"avatar"`
}

func (p candidatePayload) validate() *shared.Validator {
	v := shared.NewValidator()
	v.Required("name", p.Name, "name is required")
	v.Required("email", p.Email, "email is required")
	v.Required("appliedRole", p.AppliedRole, "applied role is required")
	if p.Status != "" && !directory.ValidCandidateStatus(p.Status) {
		v.Add("status", "unknown candidate status")
	}
	return v
}

func (h *Handler) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload candidatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.validate().Reject(w, requestID) {
		return
	}
	if payload.Status == "" {
		payload.Status = directory.CandidateApplied
	}

	id, err := h.Store.CreateCandidate(r.Context(), directory.Candidate{
		Name:        strings.TrimSpace(payload.Name),
		Email:       strings.TrimSpace(payload.Email),
		Status:      payload.Status,
		AppliedRole: strings.TrimSpace(payload.AppliedRole),
		Avatar:      payload.Avatar,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "candidates_failed", "failed to create candidate", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload candidatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.validate().Reject(w, requestID) {
		return
	}

	err := h.Store.UpdateCandidate(r.Context(), directory.Candidate{
		ID:          chi.URLParam(r, "candidateID"),
		Name:        strings.TrimSpace(payload.Name),
		Email:       strings.TrimSpace(payload.Email),
		Status:      payload.Status,
		AppliedRole: strings.TrimSpace(payload.AppliedRole),
		Avatar:      payload.Avatar,
	})
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "candidate not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "candidates_failed", "failed to update candidate", requestID)
		return
	}
	api.Success(w, map[string]bool{"updated": true}, requestID)
}

func (h *Handler) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Store.DeleteCandidate(r.Context(), chi.URLParam(r, "candidateID")); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "candidate not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "candidates_failed", "failed to delete candidate", requestID)
		return
	}
	api.NoContent(w)
}
