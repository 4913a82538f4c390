package perm

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsKey is the fixed settings row holding the whole matrix as
// one JSON blob, read at startup and written through on every change.
const SettingsKey = "role_permissions"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) LoadMatrix(ctx context.Context) (Matrix, bool, error) {
	var raw []byte
	err := s.DB.QueryRow(ctx, "SELECT value FROM settings WHERE key = $1", SettingsKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var matrix Matrix
	if err := json.Unmarshal(raw, &matrix); err != nil {
		return nil, false, err
	}
	return matrix, true, nil
}

func (s *Store) SaveMatrix(ctx context.Context, matrix Matrix) error {
	raw, err := json.Marshal(matrix)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO settings (key, value)
    VALUES ($1, $2)
    ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
  `, SettingsKey, raw)
	return err
}

func (s *Store) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM roles ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (s *Store) CreateRole(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO roles (name) VALUES ($1)
    ON CONFLICT (name) DO NOTHING
    RETURNING id
  `, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRoleExists
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) RoleName(ctx context.Context, id string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, "SELECT name FROM roles WHERE id = $1", id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRoleNotFound
	}
	return name, err
}

func (s *Store) RenameRole(ctx context.Context, id, name string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE roles SET name = $1 WHERE id = $2", name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (s *Store) DeleteRole(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM roles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}
