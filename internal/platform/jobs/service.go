package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const JobScheduleReminders = "schedule_reminders"

// Runner is a background job body. Its return value is persisted as
// the run's details.
type Runner func(context.Context) (any, error)

type Service struct {
	DB     *pgxpool.Pool
	logger *slog.Logger
	queue  chan job

	reminderInterval time.Duration
	reminderRun      Runner
}

type job struct {
	Type string
	Run  Runner
}

func New(db *pgxpool.Pool, logger *slog.Logger) *Service {
	return &Service{
		DB:     db,
		logger: logger,
		queue:  make(chan job, 64),
	}
}

// ScheduleReminders registers the periodic reminder sweep. Interval
// zero disables the ticker; the job can still be run on demand.
func (s *Service) ScheduleReminders(interval time.Duration, run Runner) {
	s.reminderInterval = interval
	s.reminderRun = run
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.reminderInterval > 0 && s.reminderRun != nil {
		go s.tick(ctx, s.reminderInterval, JobScheduleReminders, s.reminderRun)
	}
}

func (s *Service) Enqueue(jobType string, run Runner) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		s.logger.Warn("job queue full", slog.String("jobType", jobType))
	}
}

// RunNow executes a job inline and records it in the run ledger.
func (s *Service) RunNow(ctx context.Context, jobType string, run Runner) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.logger.Warn("job run failed", slog.String("jobType", j.Type), slog.Any("error", err))
			}
		}
	}
}

func (s *Service) tick(ctx context.Context, interval time.Duration, jobType string, run Runner) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(jobType, run)
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, 'running')
    RETURNING id
  `, j.Type).Scan(&runID); err != nil {
		s.logger.Warn("job run insert failed", slog.Any("error", err))
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			s.logger.Warn("job run update failed", slog.Any("error", updErr))
		}
	}
	return details, err
}

// ListRuns returns recent job runs, newest first.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]map[string]any, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, job_type, status, COALESCE(details_json::text, '{}'), started_at, completed_at
    FROM job_runs
    ORDER BY started_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]any
	for rows.Next() {
		var (
			id, jobType, status, details string
			startedAt                    time.Time
			completedAt                  *time.Time
		)
		if err := rows.Scan(&id, &jobType, &status, &details, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]any{
			"id":          id,
			"jobType":     jobType,
			"status":      status,
			"details":     json.RawMessage(details),
			"startedAt":   startedAt,
			"completedAt": completedAt,
		})
	}
	return runs, rows.Err()
}
