package directory

import "time"

type Employee struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	RoleID         string     `json:"roleId"`
	RoleName       string     `json:"roleName"`
	DepartmentID   string     `json:"departmentId,omitempty"`
	DepartmentName string     `json:"departmentName,omitempty"`
	ManagerID      string     `json:"managerId,omitempty"`
	Active         bool       `json:"active"`
	DeviceToken    string     `json:"-"`
	Avatar         string     `json:"avatar,omitempty"`
	HireDate       *time.Time `json:"hireDate,omitempty"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type Department struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	LeaderID   string    `json:"leaderId,omitempty"`
	LeaderName string    `json:"leaderName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

const (
	CandidateApplied      = "Applied"
	CandidateInterviewing = "Interviewing"
	CandidateOffered      = "Offered"
	CandidateHired        = "Hired"
	CandidateRejected     = "Rejected"
)

var CandidateStatuses = []string{
	CandidateApplied,
	CandidateInterviewing,
	CandidateOffered,
	CandidateHired,
	CandidateRejected,
}

func ValidCandidateStatus(status string) bool {
	for _, s := range CandidateStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Candidate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	AppliedRole string    `json:"appliedRole"`
	Avatar      string    `json:"avatar,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
