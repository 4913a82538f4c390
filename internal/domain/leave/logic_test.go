package leave

import (
	"errors"
	"testing"
)

var (
	requester = Actor{EmployeeID: "emp-1", Role: "Employee"}
	leader    = Actor{
		EmployeeID:       "emp-2",
		Role:             "Manager",
		LeadsDepartments: []string{"dept-1"},
		CanEdit:          true,
	}
	finalApprover = Actor{
		EmployeeID:    "emp-3",
		Role:          "RH",
		CanEdit:       true,
		FinalApprover: true,
	}
	otherLeader = Actor{
		EmployeeID:       "emp-4",
		Role:             "Manager",
		LeadsDepartments: []string{"dept-9"},
		CanEdit:          true,
	}
	viewer       = Actor{EmployeeID: "emp-5", Role: "Employee"}
	leadingFinal = Actor{
		EmployeeID:       "emp-6",
		Role:             "RH",
		LeadsDepartments: []string{"dept-1"},
		CanEdit:          true,
		FinalApprover:    true,
	}
)

func request(status string) Request {
	return Request{ID: "req-1", EmployeeID: "emp-1", DepartmentID: "dept-1", Status: status}
}

func TestApproveTransitions(t *testing.T) {
	cases := []struct {
		name    string
		status  string
		actor   Actor
		want    string
		wantErr error
	}{
		{"leader pre-approves pending", StatusPending, leader, StatusApprovedByManager, nil},
		{"final approver cannot skip the manager stage", StatusPending, finalApprover, "", ErrForbidden},
		{"final approver who leads the department pre-approves", StatusPending, leadingFinal, StatusApprovedByManager, nil},
		{"leader of another department denied", StatusPending, otherLeader, "", ErrForbidden},
		{"actor without edit denied", StatusPending, viewer, "", ErrForbidden},
		{"leader cannot finalize", StatusApprovedByManager, leader, "", ErrForbidden},
		{"final approver finalizes", StatusApprovedByManager, finalApprover, StatusApproved, nil},
		{"approved is terminal", StatusApproved, finalApprover, "", ErrInvalidTransition},
		{"rejected is terminal", StatusRejected, finalApprover, "", ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextOnApprove(request(tc.status), tc.actor)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("next = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRejectTransitions(t *testing.T) {
	cases := []struct {
		name    string
		status  string
		actor   Actor
		want    string
		wantErr error
	}{
		{"leader rejects pending", StatusPending, leader, StatusRejected, nil},
		{"final approver rejects pending", StatusPending, finalApprover, StatusRejected, nil},
		{"leader cannot reject after pre-approval", StatusApprovedByManager, leader, "", ErrForbidden},
		{"final approver rejects pre-approved", StatusApprovedByManager, finalApprover, StatusRejected, nil},
		{"approved is terminal", StatusApproved, finalApprover, "", ErrInvalidTransition},
		{"rejected is terminal", StatusRejected, leader, "", ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextOnReject(request(tc.status), tc.actor)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("next = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLeaderCannotDecideOwnRequest(t *testing.T) {
	own := Request{ID: "req-2", EmployeeID: leader.EmployeeID, DepartmentID: "dept-1", Status: StatusPending}
	if _, err := NextOnApprove(own, leader); !errors.Is(err, ErrForbidden) {
		t.Fatalf("approve own request: err = %v, want ErrForbidden", err)
	}
	if _, err := NextOnReject(own, leader); !errors.Is(err, ErrForbidden) {
		t.Fatalf("reject own request: err = %v, want ErrForbidden", err)
	}
}

func TestSubmitStatusSelfSkip(t *testing.T) {
	if got := SubmitStatus(leader, "dept-1"); got != StatusApprovedByManager {
		t.Fatalf("leader submitting in own department: got %q", got)
	}
	if got := SubmitStatus(leader, "dept-9"); got != StatusPending {
		t.Fatalf("leader submitting in another department: got %q", got)
	}
	if got := SubmitStatus(requester, "dept-1"); got != StatusPending {
		t.Fatalf("regular employee: got %q", got)
	}
	if got := SubmitStatus(requester, ""); got != StatusPending {
		t.Fatalf("no department: got %q", got)
	}
}

func TestVisibility(t *testing.T) {
	cases := []struct {
		name  string
		req   Request
		actor Actor
		want  bool
	}{
		{"own request", request(StatusApproved), requester, true},
		{"final approver sees everything", request(StatusRejected), finalApprover, true},
		{"leader sees pending in led department", request(StatusPending), leader, true},
		{"leader does not see decided requests of others", request(StatusApproved), leader, false},
		{"other leader sees nothing", request(StatusPending), otherLeader, false},
		{"unrelated employee sees nothing", request(StatusPending), viewer, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanView(tc.req, tc.actor); got != tc.want {
				t.Fatalf("CanView = %v, want %v", got, tc.want)
			}
		})
	}
}

// Full two-step journey: employee submits, department leader
// pre-approves, a final approver settles the request.
func TestTwoStepApprovalJourney(t *testing.T) {
	r := request(StatusPending)

	next, err := NextOnApprove(r, leader)
	if err != nil {
		t.Fatalf("leader pre-approval failed: %v", err)
	}
	r.Status = next
	if r.Status != StatusApprovedByManager {
		t.Fatalf("after pre-approval status = %q", r.Status)
	}

	next, err = NextOnApprove(r, finalApprover)
	if err != nil {
		t.Fatalf("final approval failed: %v", err)
	}
	r.Status = next
	if r.Status != StatusApproved {
		t.Fatalf("after final approval status = %q", r.Status)
	}

	if _, err := NextOnReject(r, finalApprover); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("terminal state should refuse further decisions, got %v", err)
	}
}
