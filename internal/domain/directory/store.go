package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    e.id, e.name, e.email,
    e.role_id, r.name,
    COALESCE(e.department_id::text, ''), COALESCE(d.name, ''),
    COALESCE(e.manager_id::text, ''),
    e.active, e.device_token, e.avatar,
    e.hire_date, e.birth_date, e.created_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email,
		&emp.RoleID, &emp.RoleName,
		&emp.DepartmentID, &emp.DepartmentName,
		&emp.ManagerID,
		&emp.Active, &emp.DeviceToken, &emp.Avatar,
		&emp.HireDate, &emp.BirthDate, &emp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return emp, ErrNotFound
	}
	return emp, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+employeeColumns+`
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    LEFT JOIN departments d ON e.department_id = d.id
    ORDER BY e.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE e.id = $1
  `, id))
}

func (s *Store) GetEmployeeByEmail(ctx context.Context, email string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE lower(e.email) = lower($1)
  `, email))
}

// PasswordHash is kept off the Employee struct so it can never leak
// through a JSON response.
func (s *Store) PasswordHash(ctx context.Context, employeeID string) (string, error) {
	var hash string
	err := s.DB.QueryRow(ctx, "SELECT password_hash FROM employees WHERE id = $1", employeeID).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return hash, err
}

type EmployeeInput struct {
	Name         string
	Email        string
	Password     string
	RoleID       string
	DepartmentID string
	ManagerID    string
	Avatar       string
	HireDate     string
	BirthDate    string
}

func (s *Store) CreateEmployee(ctx context.Context, in EmployeeInput, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, password_hash, role_id, department_id, manager_id, avatar, hire_date, birth_date)
    VALUES ($1, $2, $3, $4, NULLIF($5,'')::uuid, NULLIF($6,'')::uuid, $7, NULLIF($8,'')::date, NULLIF($9,'')::date)
    RETURNING id
  `, in.Name, strings.ToLower(strings.TrimSpace(in.Email)), passwordHash,
		in.RoleID, in.DepartmentID, in.ManagerID, in.Avatar, in.HireDate, in.BirthDate).Scan(&id)
	return id, err
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, in EmployeeInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $1,
        email = $2,
        role_id = $3,
        department_id = NULLIF($4,'')::uuid,
        manager_id = NULLIF($5,'')::uuid,
        avatar = $6,
        hire_date = NULLIF($7,'')::date,
        birth_date = NULLIF($8,'')::date
    WHERE id = $9
  `, in.Name, strings.ToLower(strings.TrimSpace(in.Email)),
		in.RoleID, in.DepartmentID, in.ManagerID, in.Avatar, in.HireDate, in.BirthDate, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetEmployeeActive(ctx context.Context, id string, active bool) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET active = $1 WHERE id = $2", active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetDeviceToken(ctx context.Context, id, token string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET device_token = $1 WHERE id = $2", token, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEmployee removes only the employee row. Leave requests keep
// their employee_id and surface as orphaned reads.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LeadsDepartments returns ids of departments the employee leads.
func (s *Store) LeadsDepartments(ctx context.Context, employeeID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id FROM departments WHERE leader_id = $1", employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.name, COALESCE(d.leader_id::text, ''), COALESCE(e.name, ''), d.created_at
    FROM departments d
    LEFT JOIN employees e ON d.leader_id = e.id
    ORDER BY d.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.LeaderID, &dept.LeaderName, &dept.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}
	return departments, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, name, leaderID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, leader_id)
    VALUES ($1, NULLIF($2,'')::uuid)
    RETURNING id
  `, name, leaderID).Scan(&id)
	return id, err
}

func (s *Store) UpdateDepartment(ctx context.Context, id, name, leaderID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE departments SET name = $1, leader_id = NULLIF($2,'')::uuid WHERE id = $3
  `, name, leaderID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListCandidates(ctx context.Context) ([]Candidate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, email, status, applied_role, avatar, created_at
    FROM candidates
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Status, &c.AppliedRole, &c.Avatar, &c.CreatedAt); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (s *Store) CreateCandidate(ctx context.Context, c Candidate) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO candidates (name, email, status, applied_role, avatar)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, c.Name, c.Email, c.Status, c.AppliedRole, c.Avatar).Scan(&id)
	return id, err
}

func (s *Store) UpdateCandidate(ctx context.Context, c Candidate) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE candidates SET name = $1, email = $2, status = $3, applied_role = $4, avatar = $5
    WHERE id = $6
  `, c.Name, c.Email, c.Status, c.AppliedRole, c.Avatar, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCandidate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM candidates WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
