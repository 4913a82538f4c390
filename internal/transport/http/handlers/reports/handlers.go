package reportshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/perm"
	"hrdash/internal/domain/reports"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionSource
}

func NewHandler(service *reports.Service, perms middleware.PermissionSource) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(perm.PageOverview, perm.ActionView, h.Perms)).
		Get("/overview", h.handleOverview)
	r.With(middleware.RequirePermission(perm.PageLeaves, perm.ActionView, h.Perms)).
		Get("/reports/leaves.pdf", h.handleLeaveSummaryPDF)
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	overview, err := h.Service.Overview(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "overview_failed", "failed to load overview", requestID)
		return
	}
	api.Success(w, overview, requestID)
}

func (h *Handler) handleLeaveSummaryPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	year := shared.QueryInt(r, "year", time.Now().Year())

	pdf, err := h.Service.LeaveSummaryPDF(r.Context(), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", requestID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="leave-summary.pdf"`)
	_, _ = w.Write(pdf)
}
