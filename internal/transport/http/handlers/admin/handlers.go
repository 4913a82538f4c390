package adminhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrdash/internal/domain/perm"
	"hrdash/internal/platform/db"
	"hrdash/internal/platform/jobs"
	"hrdash/internal/platform/metrics"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Pool    *pgxpool.Pool
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Perms   middleware.PermissionSource
}

func NewHandler(pool *pgxpool.Pool, jobsSvc *jobs.Service, collector *metrics.Collector, perms middleware.PermissionSource) *Handler {
	return &Handler{Pool: pool, Jobs: jobsSvc, Metrics: collector, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.RequirePermission(perm.PageSeedDatabase, perm.ActionCreate, h.Perms)).
			Post("/seed-demo", h.handleSeedDemo)
		r.With(middleware.RequirePermission(perm.PageErrors, perm.ActionView, h.Perms)).
			Get("/metrics", h.handleMetrics)
		r.With(middleware.RequirePermission(perm.PageErrors, perm.ActionView, h.Perms)).
			Get("/jobs", h.handleListJobs)
	})
}

// handleSeedDemo resets the directory to the sample dataset. Roles and
// the permission matrix survive the reset.
func (h *Handler) handleSeedDemo(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := db.SeedDemo(r.Context(), h.Pool); err != nil {
		api.Fail(w, http.StatusInternalServerError, "seed_failed", "failed to seed demo data", requestID)
		return
	}
	api.Success(w, map[string]bool{"seeded": true}, requestID)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	limit := shared.QueryInt(r, "limit", 50)
	runs, err := h.Jobs.ListRuns(r.Context(), limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "jobs_failed", "failed to list job runs", requestID)
		return
	}
	api.Success(w, runs, requestID)
}
