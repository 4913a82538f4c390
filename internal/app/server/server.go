package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrdash/internal/domain/assist"
	"hrdash/internal/domain/directory"
	"hrdash/internal/domain/errorlog"
	"hrdash/internal/domain/leave"
	"hrdash/internal/domain/perm"
	"hrdash/internal/domain/reports"
	"hrdash/internal/domain/schedule"
	"hrdash/internal/platform/ai"
	"hrdash/internal/platform/config"
	"hrdash/internal/platform/db"
	"hrdash/internal/platform/jobs"
	"hrdash/internal/platform/metrics"
	"hrdash/internal/platform/push"
	adminhandler "hrdash/internal/transport/http/handlers/admin"
	assisthandler "hrdash/internal/transport/http/handlers/assist"
	authhandler "hrdash/internal/transport/http/handlers/auth"
	directoryhandler "hrdash/internal/transport/http/handlers/directory"
	errorloghandler "hrdash/internal/transport/http/handlers/errorlog"
	leavehandler "hrdash/internal/transport/http/handlers/leave"
	permhandler "hrdash/internal/transport/http/handlers/perm"
	reportshandler "hrdash/internal/transport/http/handlers/reports"
	schedulehandler "hrdash/internal/transport/http/handlers/schedule"
	"hrdash/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Router http.Handler
	Logger *slog.Logger
	Jobs   *jobs.Service
}

// New connects, migrates, seeds, and wires the router. The caller owns
// the listen loop and Close.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	perms := perm.NewService(perm.NewStore(pool))
	if err := perms.Load(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	collector := metrics.New()

	var notifier push.Notifier = push.Noop{}
	if cfg.PushEnabled {
		pushClient := push.NewClient(cfg.PushEndpoint, cfg.PushServerKey)
		pushClient.OnSent = collector.RecordPush
		notifier = pushClient
	}
	dirStore := directory.NewStore(pool)
	leaveSvc := leave.NewService(leave.NewStore(pool), perms, dirStore, notifier, logger)
	scheduleSvc := schedule.NewService(schedule.NewStore(pool), notifier, logger)
	errorStore := errorlog.NewStore(pool)
	reportsSvc := reports.NewService(reports.NewStore(pool))
	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)
	assistSvc := assist.NewService(aiClient, leaveSvc, logger)

	jobsSvc := jobs.New(pool, logger)
	jobsSvc.ScheduleReminders(cfg.ScheduleReminderInterval, func(ctx context.Context) (any, error) {
		return scheduleSvc.SendReminders(ctx)
	})
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(dirStore, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)
		directoryhandler.NewHandler(dirStore, perms).RegisterRoutes(r)
		permhandler.NewHandler(perms).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, dirStore, perms).RegisterRoutes(r)
		schedulehandler.NewHandler(scheduleSvc, jobsSvc, perms).RegisterRoutes(r)
		errorloghandler.NewHandler(errorStore, perms).RegisterRoutes(r)
		assisthandler.NewHandler(assistSvc, collector, perms).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc, perms).RegisterRoutes(r)
		adminhandler.NewHandler(pool, jobsSvc, collector, perms).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return &App{
		Config: cfg,
		Pool:   pool,
		Router: router,
		Logger: logger,
		Jobs:   jobsSvc,
	}, nil
}

func (a *App) Close() {
	a.Pool.Close()
}

// spaHandler serves the built frontend, falling back to index.html so
// client-side routes resolve on refresh.
type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
