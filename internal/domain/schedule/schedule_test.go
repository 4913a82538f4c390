package schedule

import (
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-09-01", "2026-08-31"}, // Tuesday
		{"2026-08-31", "2026-08-31"}, // Monday maps to itself
		{"2026-09-06", "2026-08-31"}, // Sunday belongs to the preceding Monday
		{"2026-09-07", "2026-09-07"},
	}
	for _, tc := range cases {
		if got := WeekStart(day(tc.in)); got.Format("2006-01-02") != tc.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tc.in, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestNextWeekStart(t *testing.T) {
	if got := NextWeekStart(day("2026-09-01")); got.Format("2006-01-02") != "2026-09-07" {
		t.Fatalf("NextWeekStart = %s", got.Format("2006-01-02"))
	}
}

func TestValidateDays(t *testing.T) {
	weekStart := day("2026-09-07")

	cases := []struct {
		name    string
		days    []time.Time
		wantErr error
	}{
		{"single day", []time.Time{day("2026-09-08")}, nil},
		{"three days", []time.Time{day("2026-09-07"), day("2026-09-09"), day("2026-09-11")}, nil},
		{"sunday of target week", []time.Time{day("2026-09-13")}, nil},
		{"empty", nil, ErrNoDays},
		{"four days", []time.Time{day("2026-09-07"), day("2026-09-08"), day("2026-09-09"), day("2026-09-10")}, ErrTooManyDays},
		{"day before the week", []time.Time{day("2026-09-06")}, ErrDayOutsideWeek},
		{"day after the week", []time.Time{day("2026-09-14")}, ErrDayOutsideWeek},
		{"duplicate day", []time.Time{day("2026-09-08"), day("2026-09-08")}, ErrDuplicateDay},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateDays(weekStart, tc.days)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if err == nil && len(got) != len(tc.days) {
				t.Fatalf("normalized %d days, want %d", len(got), len(tc.days))
			}
		})
	}
}

func TestValidateDaysNormalizesToMidnightUTC(t *testing.T) {
	weekStart := day("2026-09-07")
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2026, 9, 8, 15, 30, 0, 0, loc)

	got, err := ValidateDays(weekStart, []time.Time{in})
	if err != nil {
		t.Fatalf("ValidateDays failed: %v", err)
	}
	want := day("2026-09-08")
	if !got[0].Equal(want) {
		t.Fatalf("normalized = %v, want %v", got[0], want)
	}
}
