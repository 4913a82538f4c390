package leave

import (
	"errors"
	"time"
)

const (
	StatusPending           = "Pending"
	StatusApprovedByManager = "ApprovedByManager"
	StatusApproved          = "Approved"
	StatusRejected          = "Rejected"
)

const (
	TypeVacation = "Vacation"
	TypeSick     = "Sick Leave"
	TypePersonal = "Personal"
)

var LeaveTypes = []string{TypeVacation, TypeSick, TypePersonal}

func ValidLeaveType(t string) bool {
	for _, lt := range LeaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

var (
	ErrNotFound          = errors.New("leave request not found")
	ErrForbidden         = errors.New("actor not allowed to perform this action")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidRange      = errors.New("end date before start date")
	ErrUnknownLeaveType  = errors.New("unknown leave type")
)

type Request struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	DepartmentID string     `json:"departmentId,omitempty"`
	LeaveType    string     `json:"leaveType"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	Status       string     `json:"status"`
	DecidedBy    string     `json:"decidedBy,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type Holiday struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
	Paid bool      `json:"paid"`
}
