package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Overview struct {
	Employees       int    `json:"employees"`
	ActiveEmployees int    `json:"activeEmployees"`
	Departments     int    `json:"departments"`
	Candidates      int    `json:"candidates"`
	PendingLeaves   int    `json:"pendingLeaves"`
	ApprovedLeaves  int    `json:"approvedLeaves"`
	OpenErrors      int    `json:"openErrors"`
	UpcomingHoliday string `json:"upcomingHoliday,omitempty"`
}

func (s *Store) Overview(ctx context.Context) (Overview, error) {
	var o Overview
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(*) FROM employees),
      (SELECT COUNT(*) FROM employees WHERE active),
      (SELECT COUNT(*) FROM departments),
      (SELECT COUNT(*) FROM candidates),
      (SELECT COUNT(*) FROM leave_requests WHERE status = 'Pending'),
      (SELECT COUNT(*) FROM leave_requests WHERE status = 'Approved'),
      (SELECT COUNT(*) FROM error_logs WHERE status = 'unresolved'),
      COALESCE((SELECT name FROM holidays WHERE date >= CURRENT_DATE ORDER BY date LIMIT 1), '')
  `).Scan(
		&o.Employees, &o.ActiveEmployees, &o.Departments, &o.Candidates,
		&o.PendingLeaves, &o.ApprovedLeaves, &o.OpenErrors, &o.UpcomingHoliday)
	return o, err
}

type LeaveSummaryRow struct {
	EmployeeName string
	Department   string
	LeaveType    string
	StartDate    string
	EndDate      string
	Status       string
}

func (s *Store) LeaveSummary(ctx context.Context, year int) ([]LeaveSummaryRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(e.name, 'Deleted employee'), COALESCE(d.name, ''),
           lr.leave_type,
           to_char(lr.start_date, 'YYYY-MM-DD'), to_char(lr.end_date, 'YYYY-MM-DD'),
           lr.status
    FROM leave_requests lr
    LEFT JOIN employees e ON lr.employee_id = e.id
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE EXTRACT(YEAR FROM lr.start_date) = $1
    ORDER BY lr.start_date
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary []LeaveSummaryRow
	for rows.Next() {
		var r LeaveSummaryRow
		if err := rows.Scan(&r.EmployeeName, &r.Department, &r.LeaveType, &r.StartDate, &r.EndDate, &r.Status); err != nil {
			return nil, err
		}
		summary = append(summary, r)
	}
	return summary, rows.Err()
}
