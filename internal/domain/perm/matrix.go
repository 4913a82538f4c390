package perm

import "errors"

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

var Actions = []string{ActionView, ActionCreate, ActionEdit, ActionDelete}

var (
	ErrUnknownAction = errors.New("unknown permission action")
	ErrUnknownPage   = errors.New("unknown page key")
)

type ActionSet struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// Matrix maps role name -> page key -> allowed actions. Absent role or
// page rows read as all-false.
type Matrix map[string]map[string]ActionSet

func (m Matrix) Has(role, page, action string) bool {
	pages, ok := m[role]
	if !ok {
		return false
	}
	set, ok := pages[page]
	if !ok {
		return false
	}
	switch action {
	case ActionView:
		return set.View
	case ActionCreate:
		return set.Create
	case ActionEdit:
		return set.Edit
	case ActionDelete:
		return set.Delete
	}
	return false
}

// Set mutates one action bit, keeping the view invariant: granting
// create/edit/delete forces view on, and revoking view clears
// create/edit/delete.
func (m Matrix) Set(role, page, action string, value bool) error {
	if !ValidPage(page) {
		return ErrUnknownPage
	}
	pages, ok := m[role]
	if !ok {
		pages = map[string]ActionSet{}
		m[role] = pages
	}
	set := pages[page]

	switch action {
	case ActionView:
		set.View = value
		if !value {
			set.Create = false
			set.Edit = false
			set.Delete = false
		}
	case ActionCreate:
		set.Create = value
		if value {
			set.View = true
		}
	case ActionEdit:
		set.Edit = value
		if value {
			set.View = true
		}
	case ActionDelete:
		set.Delete = value
		if value {
			set.View = true
		}
	default:
		return ErrUnknownAction
	}

	pages[page] = set
	return nil
}

// EnsureRole adds an empty row for the role: no access until configured.
func (m Matrix) EnsureRole(role string) {
	if _, ok := m[role]; !ok {
		m[role] = map[string]ActionSet{}
	}
}

func (m Matrix) RemoveRole(role string) {
	delete(m, role)
}

func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for role, pages := range m {
		row := make(map[string]ActionSet, len(pages))
		for page, set := range pages {
			row[page] = set
		}
		out[role] = row
	}
	return out
}

var allActions = ActionSet{View: true, Create: true, Edit: true, Delete: true}
var viewOnly = ActionSet{View: true}

// DefaultMatrix is the matrix the application ships with. New
// deployments persist it on first start; afterwards the stored copy is
// authoritative.
func DefaultMatrix() Matrix {
	return Matrix{
		RoleOwner: {
			PageOverview:          viewOnly,
			PageEmployees:         allActions,
			PageCandidates:        allActions,
			PageDepartments:       allActions,
			PageLeaves:            allActions,
			PageAttendance:        allActions,
			PageTickets:           allActions,
			PageSchedule:          allActions,
			PageWorkSchedules:     allActions,
			PageJobGenerator:      viewOnly,
			PageScheduleReminders: viewOnly,
			PageRoles:             allActions,
			PageSeedDatabase:      {View: true, Create: true},
			PageProfile:           viewOnly,
			PageErrors:            allActions,
		},
		RoleHR: {
			PageOverview:          viewOnly,
			PageEmployees:         {View: true, Create: true, Edit: true},
			PageCandidates:        allActions,
			PageDepartments:       {View: true, Create: true, Edit: true},
			PageLeaves:            allActions,
			PageAttendance:        allActions,
			PageTickets:           allActions,
			PageSchedule:          {View: true, Create: true},
			PageWorkSchedules:     viewOnly,
			PageJobGenerator:      viewOnly,
			PageScheduleReminders: viewOnly,
			PageProfile:           viewOnly,
		},
		RoleManager: {
			PageOverview:     viewOnly,
			PageEmployees:    viewOnly,
			PageCandidates:   {View: true, Create: true, Edit: true},
			PageDepartments:  viewOnly,
			PageLeaves:       {View: true, Create: true, Edit: true},
			PageAttendance:   viewOnly,
			PageTickets:      viewOnly,
			PageSchedule:     {View: true, Create: true},
			PageJobGenerator: viewOnly,
			PageProfile:      viewOnly,
		},
		RoleEmployee: {
			PageOverview:   viewOnly,
			PageEmployees:  viewOnly,
			PageLeaves:     {View: true, Create: true},
			PageAttendance: viewOnly,
			PageTickets:    viewOnly,
			PageSchedule:   {View: true, Create: true},
			PageProfile:    viewOnly,
		},
		RoleDev: {
			PageOverview:          viewOnly,
			PageEmployees:         allActions,
			PageCandidates:        allActions,
			PageDepartments:       allActions,
			PageLeaves:            allActions,
			PageAttendance:        allActions,
			PageTickets:           allActions,
			PageSchedule:          allActions,
			PageWorkSchedules:     allActions,
			PageJobGenerator:      allActions,
			PageScheduleReminders: allActions,
			PageRoles:             allActions,
			PageSeedDatabase:      allActions,
			PageProfile:           viewOnly,
			PageErrors:            allActions,
		},
	}
}
