package leave

// Actor captures everything the workflow needs to know about the
// employee acting on a request. It is assembled once per call from the
// directory and the permission matrix.
type Actor struct {
	EmployeeID string
	Role       string

	// LeadsDepartments holds ids of departments where this actor is the
	// configured leader.
	LeadsDepartments []string

	// CanEdit reflects the leaves page edit permission. No transition is
	// possible without it.
	CanEdit bool

	// FinalApprover reflects edit plus delete on the leaves page. Final
	// approvers move requests to their terminal states.
	FinalApprover bool
}

func (a Actor) Leads(departmentID string) bool {
	if departmentID == "" {
		return false
	}
	for _, id := range a.LeadsDepartments {
		if id == departmentID {
			return true
		}
	}
	return false
}

// SubmitStatus returns the initial status for a new request. A leader
// submitting for their own department skips their own approval step.
func SubmitStatus(requester Actor, departmentID string) string {
	if requester.Leads(departmentID) {
		return StatusApprovedByManager
	}
	return StatusPending
}

// NextOnApprove validates an approve action against the current status
// and the actor's relationship to the request. The returned status is
// only meaningful when err is nil.
func NextOnApprove(r Request, actor Actor) (string, error) {
	if !actor.CanEdit {
		return "", ErrForbidden
	}
	switch r.Status {
	case StatusPending:
		// Pre-approval belongs to the requester's department leader.
		// Final-approval rights do not shortcut the manager stage.
		if actor.Leads(r.DepartmentID) && actor.EmployeeID != r.EmployeeID {
			return StatusApprovedByManager, nil
		}
		return "", ErrForbidden
	case StatusApprovedByManager:
		if actor.FinalApprover {
			return StatusApproved, nil
		}
		return "", ErrForbidden
	case StatusApproved, StatusRejected:
		return "", ErrInvalidTransition
	}
	return "", ErrInvalidTransition
}

// NextOnReject mirrors NextOnApprove for the reject action. Rejection
// from either live state lands on the same terminal status.
func NextOnReject(r Request, actor Actor) (string, error) {
	if !actor.CanEdit {
		return "", ErrForbidden
	}
	switch r.Status {
	case StatusPending:
		if actor.FinalApprover {
			return StatusRejected, nil
		}
		if actor.Leads(r.DepartmentID) && actor.EmployeeID != r.EmployeeID {
			return StatusRejected, nil
		}
		return "", ErrForbidden
	case StatusApprovedByManager:
		if actor.FinalApprover {
			return StatusRejected, nil
		}
		return "", ErrForbidden
	case StatusApproved, StatusRejected:
		return "", ErrInvalidTransition
	}
	return "", ErrInvalidTransition
}

// CanView reports whether the actor may see the request at all. Final
// approvers see everything; department leaders additionally see pending
// requests from departments they lead; everyone sees their own.
func CanView(r Request, actor Actor) bool {
	if r.EmployeeID == actor.EmployeeID {
		return true
	}
	if actor.FinalApprover {
		return true
	}
	if actor.Leads(r.DepartmentID) && r.Status == StatusPending {
		return true
	}
	return false
}
