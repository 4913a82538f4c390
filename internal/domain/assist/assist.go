// Package assist hosts the model-backed helpers: job description
// drafting and public holiday import. Both validate their inputs up
// front and treat the model's output as untrusted until parsed.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hrdash/internal/domain/leave"
	"hrdash/internal/platform/ai"
)

var (
	ErrMissingInput  = errors.New("all fields are required")
	ErrInvalidYear   = errors.New("year out of range")
	ErrEmptyResponse = errors.New("model returned no usable content")
)

type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Configured() bool
}

type HolidaySink interface {
	ImportHolidays(ctx context.Context, holidays []leave.Holiday) (int, error)
}

type Service struct {
	ai       Completer
	holidays HolidaySink
	logger   *slog.Logger
}

func NewService(completer Completer, holidays HolidaySink, logger *slog.Logger) *Service {
	return &Service{ai: completer, holidays: holidays, logger: logger}
}

func (s *Service) Configured() bool {
	return s.ai.Configured()
}

type JobDescriptionInput struct {
	Department       string `json:"department"`
	Role             string `json:"role"`
	Responsibilities string `json:"responsibilities"`
}

const jobDescriptionSystem = `You are an HR writing assistant. Draft a professional job description.
Respond with a JSON object of the form {"jobDescription": "..."} and nothing else.`

// GenerateJobDescription asks the model for a draft posting and pulls
// the jobDescription field out of its JSON reply.
func (s *Service) GenerateJobDescription(ctx context.Context, in JobDescriptionInput) (string, error) {
	if strings.TrimSpace(in.Department) == "" ||
		strings.TrimSpace(in.Role) == "" ||
		strings.TrimSpace(in.Responsibilities) == "" {
		return "", ErrMissingInput
	}

	user := fmt.Sprintf("Department: %s\nRole: %s\nKey responsibilities: %s",
		in.Department, in.Role, in.Responsibilities)
	raw, err := s.ai.Complete(ctx, jobDescriptionSystem, user)
	if err != nil {
		return "", err
	}

	obj, err := ai.ExtractJSON(raw)
	if err != nil {
		return "", ErrEmptyResponse
	}
	var parsed struct {
		JobDescription string `json:"jobDescription"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return "", fmt.Errorf("parse model output: %w", err)
	}
	if strings.TrimSpace(parsed.JobDescription) == "" {
		return "", ErrEmptyResponse
	}
	s.logger.Info("job description generated", slog.String("role", in.Role))
	return parsed.JobDescription, nil
}

const holidaysSystem = `You list official public holidays.
Respond with a JSON object of the form {"holidays":[{"name":"...","date":"YYYY-MM-DD"}]} and nothing else.`

// ImportHolidays fetches the public holidays of a country and year
// from the model, drops entries it cannot trust, and persists the
// rest. Returns how many holidays were stored.
func (s *Service) ImportHolidays(ctx context.Context, country string, year int) (int, error) {
	if strings.TrimSpace(country) == "" {
		return 0, ErrMissingInput
	}
	if year < 1900 || year > 2200 {
		return 0, ErrInvalidYear
	}

	user := fmt.Sprintf("Country: %s\nYear: %d", country, year)
	raw, err := s.ai.Complete(ctx, holidaysSystem, user)
	if err != nil {
		return 0, err
	}

	parsed, err := ParseHolidays(raw, year)
	if err != nil {
		return 0, err
	}
	count, err := s.holidays.ImportHolidays(ctx, parsed)
	if err != nil {
		return count, err
	}
	s.logger.Info("holidays imported",
		slog.String("country", country), slog.Int("year", year), slog.Int("count", count))
	return count, nil
}

// ParseHolidays decodes model output into holidays, keeping only
// entries with a name and a date inside the requested year.
func ParseHolidays(raw string, year int) ([]leave.Holiday, error) {
	obj, err := ai.ExtractJSON(raw)
	if err != nil {
		return nil, ErrEmptyResponse
	}
	var parsed struct {
		Holidays []struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"holidays"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}

	var holidays []leave.Holiday
	for _, h := range parsed.Holidays {
		name := strings.TrimSpace(h.Name)
		if name == "" {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(h.Date))
		if err != nil || date.Year() != year {
			continue
		}
		holidays = append(holidays, leave.Holiday{Name: name, Date: date, Paid: true})
	}
	if len(holidays) == 0 {
		return nil, ErrEmptyResponse
	}
	return holidays, nil
}
