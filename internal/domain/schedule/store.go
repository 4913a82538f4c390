package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, employeeID string, weekStart time.Time, days []time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO work_schedules (employee_id, week_start, days)
    VALUES ($1, $2, $3)
    RETURNING id
  `, employeeID, weekStart, days).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrAlreadySubmitted
		}
		return "", err
	}
	return id, nil
}

func (s *Store) listQuery(ctx context.Context, query string, args ...any) ([]Schedule, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		var sc Schedule
		if err := rows.Scan(&sc.ID, &sc.EmployeeID, &sc.EmployeeName, &sc.WeekStart, &sc.Days, &sc.CreatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, sc)
	}
	return schedules, rows.Err()
}

const scheduleColumns = `
    ws.id, ws.employee_id, COALESCE(e.name, 'Deleted employee'),
    ws.week_start, ws.days, ws.created_at`

func (s *Store) ListForWeek(ctx context.Context, weekStart time.Time) ([]Schedule, error) {
	return s.listQuery(ctx, `
    SELECT`+scheduleColumns+`
    FROM work_schedules ws
    LEFT JOIN employees e ON ws.employee_id = e.id
    WHERE ws.week_start = $1
    ORDER BY e.name
  `, weekStart)
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string) ([]Schedule, error) {
	return s.listQuery(ctx, `
    SELECT`+scheduleColumns+`
    FROM work_schedules ws
    LEFT JOIN employees e ON ws.employee_id = e.id
    WHERE ws.employee_id = $1
    ORDER BY ws.week_start DESC
  `, employeeID)
}

func (s *Store) Get(ctx context.Context, employeeID string, weekStart time.Time) (Schedule, error) {
	var sc Schedule
	err := s.DB.QueryRow(ctx, `
    SELECT`+scheduleColumns+`
    FROM work_schedules ws
    LEFT JOIN employees e ON ws.employee_id = e.id
    WHERE ws.employee_id = $1 AND ws.week_start = $2
  `, employeeID, weekStart).Scan(&sc.ID, &sc.EmployeeID, &sc.EmployeeName, &sc.WeekStart, &sc.Days, &sc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sc, ErrNotFound
	}
	return sc, err
}

// Missing is an active employee with no submission for a given week.
type Missing struct {
	EmployeeID  string
	Name        string
	DeviceToken string
}

// MissingForWeek lists active employees who have not submitted a
// schedule for the week. Used by the reminder sweep.
func (s *Store) MissingForWeek(ctx context.Context, weekStart time.Time) ([]Missing, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.name, e.device_token
    FROM employees e
    WHERE e.active
      AND NOT EXISTS (
        SELECT 1 FROM work_schedules ws
        WHERE ws.employee_id = e.id AND ws.week_start = $1
      )
    ORDER BY e.name
  `, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missing []Missing
	for rows.Next() {
		var m Missing
		if err := rows.Scan(&m.EmployeeID, &m.Name, &m.DeviceToken); err != nil {
			return nil, err
		}
		missing = append(missing, m)
	}
	return missing, rows.Err()
}
