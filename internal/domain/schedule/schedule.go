package schedule

import (
	"errors"
	"time"
)

const MaxDaysPerWeek = 3

var (
	ErrNotFound         = errors.New("schedule not found")
	ErrNoDays           = errors.New("at least one day is required")
	ErrTooManyDays      = errors.New("too many days selected")
	ErrDayOutsideWeek   = errors.New("day falls outside the target week")
	ErrDuplicateDay     = errors.New("duplicate day in selection")
	ErrAlreadySubmitted = errors.New("schedule already submitted for this week")
)

type Schedule struct {
	ID           string      `json:"id"`
	EmployeeID   string      `json:"employeeId"`
	EmployeeName string      `json:"employeeName"`
	WeekStart    time.Time   `json:"weekStart"`
	Days         []time.Time `json:"days"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// WeekStart truncates t to the Monday of its week, at midnight UTC.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// NextWeekStart returns the Monday of the week after t's week.
// Submissions always target next week.
func NextWeekStart(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 7)
}

// ValidateDays checks a proposed selection against the target week:
// between one and three distinct days, all inside [weekStart, +7d).
func ValidateDays(weekStart time.Time, days []time.Time) ([]time.Time, error) {
	if len(days) == 0 {
		return nil, ErrNoDays
	}
	if len(days) > MaxDaysPerWeek {
		return nil, ErrTooManyDays
	}
	weekEnd := weekStart.AddDate(0, 0, 7)
	seen := map[string]bool{}
	normalized := make([]time.Time, 0, len(days))
	for _, d := range days {
		d = d.UTC()
		d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		if d.Before(weekStart) || !d.Before(weekEnd) {
			return nil, ErrDayOutsideWeek
		}
		key := d.Format("2006-01-02")
		if seen[key] {
			return nil, ErrDuplicateDay
		}
		seen[key] = true
		normalized = append(normalized, d)
	}
	return normalized, nil
}
