package assist

import (
	"errors"
	"testing"
)

func TestParseHolidays(t *testing.T) {
	raw := "```json\n" + `{
    "holidays": [
      {"name": "New Year", "date": "2026-01-01"},
      {"name": "Independence Day", "date": "2026-03-20"},
      {"name": "", "date": "2026-05-01"},
      {"name": "Wrong Year", "date": "2025-12-25"},
      {"name": "Bad Date", "date": "sometime in June"}
    ]
  }` + "\n```"

	holidays, err := ParseHolidays(raw, 2026)
	if err != nil {
		t.Fatalf("ParseHolidays failed: %v", err)
	}
	if len(holidays) != 2 {
		t.Fatalf("kept %d holidays, want 2", len(holidays))
	}
	if holidays[0].Name != "New Year" || holidays[0].Date.Format("2006-01-02") != "2026-01-01" {
		t.Fatalf("unexpected first holiday: %+v", holidays[0])
	}
	for _, h := range holidays {
		if !h.Paid {
			t.Fatalf("imported holidays default to paid, got %+v", h)
		}
	}
}

func TestParseHolidaysRejectsEmptyOutput(t *testing.T) {
	cases := []string{
		"I could not find any holidays.",
		`{"holidays": []}`,
		`{"holidays": [{"name": "Off By A Year", "date": "2024-01-01"}]}`,
	}
	for _, raw := range cases {
		if _, err := ParseHolidays(raw, 2026); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("ParseHolidays(%q) err = %v, want ErrEmptyResponse", raw, err)
		}
	}
}
