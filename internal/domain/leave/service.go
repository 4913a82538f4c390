package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hrdash/internal/domain/perm"
)

// PermissionSource is the slice of the permission service the workflow
// needs. Declared here so the leave package does not depend on the
// perm service type directly.
type PermissionSource interface {
	HasPermission(role, page, action string) bool
}

// DepartmentSource resolves leadership and department membership from
// the directory.
type DepartmentSource interface {
	LeadsDepartments(ctx context.Context, employeeID string) ([]string, error)
}

// Notifier delivers a push message to a single device token. The noop
// implementation is used when push is disabled.
type Notifier interface {
	Send(ctx context.Context, token, title, body string) error
}

type Service struct {
	store    *Store
	perms    PermissionSource
	depts    DepartmentSource
	notifier Notifier
	logger   *slog.Logger
}

func NewService(store *Store, perms PermissionSource, depts DepartmentSource, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, perms: perms, depts: depts, notifier: notifier, logger: logger}
}

// ActorFor classifies an authenticated employee for workflow purposes.
// Edit on the leaves page allows transitions at all; edit plus delete
// marks the final approval tier.
func (s *Service) ActorFor(ctx context.Context, employeeID, role string) (Actor, error) {
	leads, err := s.depts.LeadsDepartments(ctx, employeeID)
	if err != nil {
		return Actor{}, err
	}
	canEdit := s.perms.HasPermission(role, perm.PageLeaves, perm.ActionEdit)
	canDelete := s.perms.HasPermission(role, perm.PageLeaves, perm.ActionDelete)
	return Actor{
		EmployeeID:       employeeID,
		Role:             role,
		LeadsDepartments: leads,
		CanEdit:          canEdit,
		FinalApprover:    canEdit && canDelete,
	}, nil
}

func (s *Service) Submit(ctx context.Context, actor Actor, departmentID, leaveType string, start, end time.Time) (Request, error) {
	if !ValidLeaveType(leaveType) {
		return Request{}, ErrUnknownLeaveType
	}
	if end.Before(start) {
		return Request{}, ErrInvalidRange
	}

	status := SubmitStatus(actor, departmentID)
	id, err := s.store.Insert(ctx, actor.EmployeeID, leaveType, start, end, status)
	if err != nil {
		return Request{}, err
	}
	s.logger.Info("leave request submitted",
		slog.String("requestId", id),
		slog.String("employeeId", actor.EmployeeID),
		slog.String("status", status))

	r, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if status == StatusPending {
		s.notifySubmitted(ctx, r, departmentID)
	}
	return r, nil
}

// notifySubmitted pushes to the requester's department leader so the
// pre-approval step does not sit unseen.
func (s *Service) notifySubmitted(ctx context.Context, r Request, departmentID string) {
	if departmentID == "" {
		return
	}
	var leaderID, token string
	err := s.store.DB.QueryRow(ctx, `
    SELECT e.id, e.device_token
    FROM departments d
    JOIN employees e ON e.id = d.leader_id
    WHERE d.id = $1
  `, departmentID).Scan(&leaderID, &token)
	if err != nil || token == "" || leaderID == r.EmployeeID {
		return
	}
	title := "New leave request"
	body := fmt.Sprintf("%s requested %s leave", r.EmployeeName, r.LeaveType)
	if err := s.notifier.Send(ctx, token, title, body); err != nil {
		s.logger.Warn("push notification failed", slog.String("requestId", r.ID), slog.Any("error", err))
	}
}

func (s *Service) Approve(ctx context.Context, actor Actor, id string) (Request, error) {
	return s.decide(ctx, actor, id, NextOnApprove, "approved")
}

func (s *Service) Reject(ctx context.Context, actor Actor, id string) (Request, error) {
	return s.decide(ctx, actor, id, NextOnReject, "rejected")
}

func (s *Service) decide(ctx context.Context, actor Actor, id string, next func(Request, Actor) (string, error), verb string) (Request, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	to, err := next(r, actor)
	if err != nil {
		return Request{}, err
	}
	if err := s.store.Transition(ctx, id, r.Status, to, actor.EmployeeID); err != nil {
		return Request{}, err
	}
	s.logger.Info("leave request "+verb,
		slog.String("requestId", id),
		slog.String("actorId", actor.EmployeeID),
		slog.String("from", r.Status),
		slog.String("to", to))
	s.notifyDecision(ctx, r, to)
	return s.store.Get(ctx, id)
}

func (s *Service) notifyDecision(ctx context.Context, r Request, to string) {
	var token string
	err := s.store.DB.QueryRow(ctx, "SELECT device_token FROM employees WHERE id = $1", r.EmployeeID).Scan(&token)
	if err != nil || token == "" {
		return
	}
	title := "Leave request update"
	body := fmt.Sprintf("Your %s request is now %s", r.LeaveType, to)
	if err := s.notifier.Send(ctx, token, title, body); err != nil {
		s.logger.Warn("push notification failed", slog.String("requestId", r.ID), slog.Any("error", err))
	}
}

func (s *Service) List(ctx context.Context, actor Actor) ([]Request, error) {
	return s.store.ListVisible(ctx, actor)
}

func (s *Service) Get(ctx context.Context, actor Actor, id string) (Request, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !CanView(r, actor) {
		return Request{}, ErrForbidden
	}
	return r, nil
}

func (s *Service) ListHolidays(ctx context.Context, year int) ([]Holiday, error) {
	return s.store.ListHolidays(ctx, year)
}

func (s *Service) AddHoliday(ctx context.Context, name string, date time.Time, paid bool) (Holiday, error) {
	id, err := s.store.UpsertHoliday(ctx, name, date, paid)
	if err != nil {
		return Holiday{}, err
	}
	return Holiday{ID: id, Name: name, Date: date, Paid: paid}, nil
}

func (s *Service) SetHolidayPaid(ctx context.Context, id string, paid bool) error {
	return s.store.SetHolidayPaid(ctx, id, paid)
}

func (s *Service) DeleteHoliday(ctx context.Context, id string) error {
	return s.store.DeleteHoliday(ctx, id)
}

// ImportHolidays persists a batch of imported holidays. Imported days
// are paid by default; dates already on file are skipped so a repeat
// import never renames existing holidays, and only fresh rows count.
func (s *Service) ImportHolidays(ctx context.Context, holidays []Holiday) (int, error) {
	imported := 0
	for _, h := range holidays {
		inserted, err := s.store.InsertHolidayIfNew(ctx, h.Name, h.Date, true)
		if err != nil {
			return imported, err
		}
		if inserted {
			imported++
		}
	}
	return imported, nil
}
