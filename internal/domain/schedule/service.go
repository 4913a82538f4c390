package schedule

import (
	"context"
	"log/slog"
	"time"
)

type Notifier interface {
	Send(ctx context.Context, token, title, body string) error
}

type Service struct {
	store    *Store
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(store *Store, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger, now: time.Now}
}

// Submit records the employee's days for next week. One submission per
// employee per week; the unique index backs that up.
func (s *Service) Submit(ctx context.Context, employeeID string, days []time.Time) (Schedule, error) {
	weekStart := NextWeekStart(s.now())
	normalized, err := ValidateDays(weekStart, days)
	if err != nil {
		return Schedule{}, err
	}
	if _, err := s.store.Insert(ctx, employeeID, weekStart, normalized); err != nil {
		return Schedule{}, err
	}
	s.logger.Info("work schedule submitted",
		slog.String("employeeId", employeeID),
		slog.String("weekStart", weekStart.Format("2006-01-02")),
		slog.Int("days", len(normalized)))
	return s.store.Get(ctx, employeeID, weekStart)
}

// NextWeek returns every submission for the upcoming week.
func (s *Service) NextWeek(ctx context.Context) ([]Schedule, error) {
	return s.store.ListForWeek(ctx, NextWeekStart(s.now()))
}

// CurrentWeek returns every submission for the running week.
func (s *Service) CurrentWeek(ctx context.Context) ([]Schedule, error) {
	return s.store.ListForWeek(ctx, WeekStart(s.now()))
}

func (s *Service) Mine(ctx context.Context, employeeID string) ([]Schedule, error) {
	return s.store.ListForEmployee(ctx, employeeID)
}

// ReminderResult summarizes one reminder sweep.
type ReminderResult struct {
	WeekStart time.Time `json:"weekStart"`
	Missing   int       `json:"missing"`
	Notified  int       `json:"notified"`
}

// SendReminders pushes a reminder to every active employee who has not
// submitted next week's schedule. Employees without a device token are
// counted as missing but not notified.
func (s *Service) SendReminders(ctx context.Context) (ReminderResult, error) {
	weekStart := NextWeekStart(s.now())
	missing, err := s.store.MissingForWeek(ctx, weekStart)
	if err != nil {
		return ReminderResult{}, err
	}

	result := ReminderResult{WeekStart: weekStart, Missing: len(missing)}
	for _, m := range missing {
		if m.DeviceToken == "" {
			continue
		}
		err := s.notifier.Send(ctx, m.DeviceToken,
			"Schedule reminder",
			"Please submit your work schedule for the week of "+weekStart.Format("Jan 2"))
		if err != nil {
			s.logger.Warn("schedule reminder failed",
				slog.String("employeeId", m.EmployeeID), slog.Any("error", err))
			continue
		}
		result.Notified++
	}
	s.logger.Info("schedule reminder sweep finished",
		slog.Int("missing", result.Missing), slog.Int("notified", result.Notified))
	return result, nil
}
