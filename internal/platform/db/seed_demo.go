package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/perm"
)

type demoEmployee struct {
	name       string
	email      string
	role       string
	department string
	leader     bool
}

var demoDepartments = []string{"Engineering", "Human Resources", "Sales", "Marketing"}

var demoEmployees = []demoEmployee{
	{"Alice Martin", "alice@example.com", perm.RoleManager, "Engineering", true},
	{"Bob Haddad", "bob@example.com", perm.RoleEmployee, "Engineering", false},
	{"Carla Jebali", "carla@example.com", perm.RoleHR, "Human Resources", true},
	{"David Trabelsi", "david@example.com", perm.RoleEmployee, "Sales", false},
	{"Emna Ben Salah", "emna@example.com", perm.RoleManager, "Sales", true},
	{"Farid Gharbi", "farid@example.com", perm.RoleEmployee, "Marketing", false},
}

type demoCandidate struct {
	name   string
	email  string
	status string
	role   string
}

var demoCandidates = []demoCandidate{
	{"Nadia Sfar", "nadia@example.com", "Applied", "Backend Engineer"},
	{"Omar Kallel", "omar@example.com", "Interviewing", "Sales Representative"},
	{"Rim Chaabane", "rim@example.com", "Offered", "HR Generalist"},
}

// SeedDemo replaces the directory and leave data with the sample
// dataset backing the seed-database page. Roles and the permission
// matrix are left untouched.
func SeedDemo(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, table := range []string{"leave_requests", "work_schedules", "candidates"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, "UPDATE departments SET leader_id = NULL"); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM employees WHERE email LIKE '%@example.com'"); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM departments"); err != nil {
		return err
	}

	deptIDs := map[string]string{}
	for _, name := range demoDepartments {
		var id string
		if err := tx.QueryRow(ctx, "INSERT INTO departments (name) VALUES ($1) RETURNING id", name).Scan(&id); err != nil {
			return err
		}
		deptIDs[name] = id
	}

	roleIDs := map[string]string{}
	rows, err := tx.Query(ctx, "SELECT id, name FROM roles")
	if err != nil {
		return err
	}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return err
		}
		roleIDs[name] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	hash, err := auth.HashPassword("ChangeMe123!")
	if err != nil {
		return err
	}

	empIDs := map[string]string{}
	for _, emp := range demoEmployees {
		var id string
		if err := tx.QueryRow(ctx, `
      INSERT INTO employees (name, email, password_hash, role_id, department_id, hire_date)
      VALUES ($1, $2, $3, $4, $5, $6)
      RETURNING id
    `, emp.name, emp.email, hash, roleIDs[emp.role], deptIDs[emp.department], time.Now().AddDate(-1, 0, 0)).Scan(&id); err != nil {
			return err
		}
		empIDs[emp.email] = id
		if emp.leader {
			if _, err := tx.Exec(ctx, "UPDATE departments SET leader_id = $1 WHERE id = $2", id, deptIDs[emp.department]); err != nil {
				return err
			}
		}
	}

	for _, c := range demoCandidates {
		if _, err := tx.Exec(ctx, `
      INSERT INTO candidates (name, email, status, applied_role)
      VALUES ($1, $2, $3, $4)
    `, c.name, c.email, c.status, c.role); err != nil {
			return err
		}
	}

	start := time.Now().AddDate(0, 0, 14)
	if _, err := tx.Exec(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, status)
    VALUES ($1, 'Vacation', $2, $3, 'Pending')
  `, empIDs["bob@example.com"], start, start.AddDate(0, 0, 5)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
