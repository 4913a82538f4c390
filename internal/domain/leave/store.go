package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = `
    lr.id, lr.employee_id,
    COALESCE(e.name, 'Deleted employee'),
    COALESCE(e.department_id::text, ''),
    lr.leave_type, lr.start_date, lr.end_date, lr.status,
    COALESCE(lr.decided_by::text, ''), lr.decided_at, lr.created_at`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeName, &r.DepartmentID,
		&r.LeaveType, &r.StartDate, &r.EndDate, &r.Status,
		&r.DecidedBy, &r.DecidedAt, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return r, ErrNotFound
	}
	return r, err
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests lr
    LEFT JOIN employees e ON lr.employee_id = e.id
    WHERE lr.id = $1
  `, id))
}

func (s *Store) Insert(ctx context.Context, employeeID, leaveType string, start, end time.Time, status string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, status)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, employeeID, leaveType, start, end, status).Scan(&id)
	return id, err
}

// Transition moves a request from one status to another. The WHERE
// clause on the current status makes concurrent decisions race-safe:
// the loser matches zero rows and reports an invalid transition.
func (s *Store) Transition(ctx context.Context, id, from, to, decidedBy string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, decided_by = $2, decided_at = now()
    WHERE id = $3 AND status = $4
  `, to, decidedBy, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// ListVisible applies the visibility rule in SQL so a large directory
// never pages through requests it may not see.
func (s *Store) ListVisible(ctx context.Context, actor Actor) ([]Request, error) {
	var (
		rows pgx.Rows
		err  error
	)
	switch {
	case actor.FinalApprover:
		rows, err = s.DB.Query(ctx, `
      SELECT`+requestColumns+`
      FROM leave_requests lr
      LEFT JOIN employees e ON lr.employee_id = e.id
      ORDER BY lr.created_at DESC
    `)
	case len(actor.LeadsDepartments) > 0:
		rows, err = s.DB.Query(ctx, `
      SELECT`+requestColumns+`
      FROM leave_requests lr
      LEFT JOIN employees e ON lr.employee_id = e.id
      WHERE lr.employee_id = $1
         OR (lr.status = $2 AND e.department_id = ANY($3))
      ORDER BY lr.created_at DESC
    `, actor.EmployeeID, StatusPending, actor.LeadsDepartments)
	default:
		rows, err = s.DB.Query(ctx, `
      SELECT`+requestColumns+`
      FROM leave_requests lr
      LEFT JOIN employees e ON lr.employee_id = e.id
      WHERE lr.employee_id = $1
      ORDER BY lr.created_at DESC
    `, actor.EmployeeID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *Store) ListHolidays(ctx context.Context, year int) ([]Holiday, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if year > 0 {
		rows, err = s.DB.Query(ctx, `
      SELECT id, name, date, paid FROM holidays
      WHERE EXTRACT(YEAR FROM date) = $1
      ORDER BY date
    `, year)
	} else {
		rows, err = s.DB.Query(ctx, "SELECT id, name, date, paid FROM holidays ORDER BY date")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.Date, &h.Paid); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// UpsertHoliday inserts a holiday, treating the date as the natural
// key. Re-adding a known date updates its name in place instead of
// duplicating the row.
func (s *Store) UpsertHoliday(ctx context.Context, name string, date time.Time, paid bool) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO holidays (name, date, paid)
    VALUES ($1, $2, $3)
    ON CONFLICT (date) DO UPDATE SET name = EXCLUDED.name
    RETURNING id
  `, name, date, paid).Scan(&id)
	return id, err
}

// InsertHolidayIfNew inserts a holiday unless its date is already
// present, leaving the existing row untouched. Reports whether a row
// was written.
func (s *Store) InsertHolidayIfNew(ctx context.Context, name string, date time.Time, paid bool) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO holidays (name, date, paid)
    VALUES ($1, $2, $3)
    ON CONFLICT (date) DO NOTHING
  `, name, date, paid)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) SetHolidayPaid(ctx context.Context, id string, paid bool) error {
	tag, err := s.DB.Exec(ctx, "UPDATE holidays SET paid = $1 WHERE id = $2", paid, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM holidays WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
