package errorlog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	StatusUnresolved = "unresolved"
	StatusResolved   = "resolved"
	StatusIgnored    = "ignored"
)

const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

var (
	ErrNotFound      = errors.New("error log entry not found")
	ErrEmptyMessage  = errors.New("message is required")
	ErrUnknownStatus = errors.New("unknown error log status")
	ErrUnknownLevel  = errors.New("unknown error log level")
)

func ValidStatus(status string) bool {
	switch status {
	case StatusUnresolved, StatusResolved, StatusIgnored:
		return true
	}
	return false
}

func ValidLevel(level string) bool {
	switch level {
	case LevelError, LevelWarning, LevelInfo:
		return true
	}
	return false
}

type Entry struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	Stack    string    `json:"stack,omitempty"`
	File     string    `json:"file,omitempty"`
	Level    string    `json:"level"`
	Status   string    `json:"status"`
	Count    int       `json:"count"`
	FirstAt  time.Time `json:"firstAt"`
	LastSeen time.Time `json:"lastSeen"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Record upserts a report. Repeats of the same message and file bump
// the counter and refresh last_seen instead of creating new rows. An
// empty level defaults to error.
func (s *Store) Record(ctx context.Context, message, stack, file, level string) (Entry, error) {
	if message == "" {
		return Entry{}, ErrEmptyMessage
	}
	if level == "" {
		level = LevelError
	}
	if !ValidLevel(level) {
		return Entry{}, ErrUnknownLevel
	}
	var e Entry
	err := s.DB.QueryRow(ctx, `
    INSERT INTO error_logs (message, stack, file, level)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (message, file) DO UPDATE
      SET count = error_logs.count + 1,
          last_seen = now(),
          stack = EXCLUDED.stack,
          level = EXCLUDED.level
    RETURNING id, message, stack, file, level, status, count, first_at, last_seen
  `, message, stack, file, level).Scan(
		&e.ID, &e.Message, &e.Stack, &e.File, &e.Level, &e.Status, &e.Count, &e.FirstAt, &e.LastSeen)
	return e, err
}

func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, message, stack, file, level, status, count, first_at, last_seen
    FROM error_logs
    ORDER BY last_seen DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Message, &e.Stack, &e.File, &e.Level, &e.Status, &e.Count, &e.FirstAt, &e.LastSeen); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrUnknownStatus
	}
	tag, err := s.DB.Exec(ctx, "UPDATE error_logs SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM error_logs WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
