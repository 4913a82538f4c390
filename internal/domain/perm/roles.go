package perm

import "errors"

const (
	RoleOwner    = "Owner"
	RoleHR       = "RH"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
	RoleDev      = "Dev"
)

// DefaultRoles are seeded on first start; further roles can be created
// at runtime and participate in the matrix immediately.
var DefaultRoles = []string{RoleOwner, RoleHR, RoleManager, RoleEmployee, RoleDev}

var (
	ErrReservedRole  = errors.New("role is reserved")
	ErrRoleExists    = errors.New("role already exists")
	ErrRoleNotFound  = errors.New("role not found")
	ErrEmptyRoleName = errors.New("role name required")
)

// Reserved returns true for roles only a Dev actor may delete.
func Reserved(name string) bool {
	return name == RoleOwner || name == RoleDev
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
