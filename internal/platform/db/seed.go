package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/perm"
	"hrdash/internal/platform/config"
)

// Seed is idempotent: roles, the default permission matrix settings
// row, and the owner account are created only when missing.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	roleIDs, err := ensureRoles(ctx, pool)
	if err != nil {
		return err
	}

	if err := ensureMatrix(ctx, pool); err != nil {
		return err
	}

	if cfg.SeedOwnerEmail != "" {
		if err := ensureOwner(ctx, pool, roleIDs[perm.RoleOwner], cfg); err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	roleIDs := map[string]string{}
	for _, name := range perm.DefaultRoles {
		var id string
		err := pool.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", name).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			err = pool.QueryRow(ctx, "INSERT INTO roles (name) VALUES ($1) RETURNING id", name).Scan(&id)
		}
		if err != nil {
			return nil, err
		}
		roleIDs[name] = id
	}
	return roleIDs, nil
}

func ensureMatrix(ctx context.Context, pool *pgxpool.Pool) error {
	store := perm.NewStore(pool)
	_, found, err := store.LoadMatrix(ctx)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	return store.SaveMatrix(ctx, perm.DefaultMatrix())
}

func ensureOwner(ctx context.Context, pool *pgxpool.Pool, roleID string, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedOwnerEmail))

	var existing string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", email).Scan(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.SeedOwnerPassword)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO employees (name, email, password_hash, role_id, hire_date)
    VALUES ($1, $2, $3, $4, now())
  `, cfg.SeedOwnerName, email, hash, roleID)
	return err
}
