package perm

import (
	"context"
	"strings"
	"sync"
)

// Service owns the in-memory permission matrix. It is loaded once at
// startup and every mutation is written through to the settings row
// before the in-memory copy is swapped, so a failed write never leaves
// the two out of sync.
type Service struct {
	store *Store

	mu     sync.RWMutex
	matrix Matrix
}

func NewService(store *Store) *Service {
	return &Service{store: store, matrix: Matrix{}}
}

func (s *Service) Load(ctx context.Context) error {
	matrix, found, err := s.store.LoadMatrix(ctx)
	if err != nil {
		return err
	}
	if !found {
		matrix = DefaultMatrix()
		if err := s.store.SaveMatrix(ctx, matrix); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.matrix = matrix
	s.mu.Unlock()
	return nil
}

// HasPermission is the single authorization read path. Fail-closed:
// unknown roles, pages, and actions all deny.
func (s *Service) HasPermission(role, page, action string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matrix.Has(role, page, action)
}

func (s *Service) SetPermission(ctx context.Context, role, page, action string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.matrix.Clone()
	if err := next.Set(role, page, action, value); err != nil {
		return err
	}
	if err := s.store.SaveMatrix(ctx, next); err != nil {
		return err
	}
	s.matrix = next
	return nil
}

func (s *Service) Snapshot() Matrix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matrix.Clone()
}

func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.store.ListRoles(ctx)
}

// CreateRole registers a role and gives it an empty matrix row, so it
// participates in the matrix immediately with no access.
func (s *Service) CreateRole(ctx context.Context, name string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, ErrEmptyRoleName
	}
	id, err := s.store.CreateRole(ctx, name)
	if err != nil {
		return Role{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.matrix.Clone()
	next.EnsureRole(name)
	if err := s.store.SaveMatrix(ctx, next); err != nil {
		return Role{}, err
	}
	s.matrix = next
	return Role{ID: id, Name: name}, nil
}

func (s *Service) RenameRole(ctx context.Context, id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyRoleName
	}
	oldName, err := s.store.RoleName(ctx, id)
	if err != nil {
		return err
	}
	if Reserved(oldName) {
		return ErrReservedRole
	}
	if err := s.store.RenameRole(ctx, id, newName); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.matrix.Clone()
	if row, ok := next[oldName]; ok {
		delete(next, oldName)
		next[newName] = row
	} else {
		next.EnsureRole(newName)
	}
	if err := s.store.SaveMatrix(ctx, next); err != nil {
		return err
	}
	s.matrix = next
	return nil
}

// DeleteRole removes the role and its matrix row. Owner and Dev are
// reserved: only a Dev actor may remove them.
func (s *Service) DeleteRole(ctx context.Context, actorRole, id string) error {
	name, err := s.store.RoleName(ctx, id)
	if err != nil {
		return err
	}
	if Reserved(name) && actorRole != RoleDev {
		return ErrReservedRole
	}
	if err := s.store.DeleteRole(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.matrix.Clone()
	next.RemoveRole(name)
	if err := s.store.SaveMatrix(ctx, next); err != nil {
		return err
	}
	s.matrix = next
	return nil
}
