package leave

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrdash/internal/platform/db"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)
	if err := db.Migrate(ctx, pool, migrationsDir(t)); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func migrationsDir(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("module root not found")
		}
		dir = parent
	}
}

// A repeat import must leave existing holidays untouched and count only
// the dates it actually added.
func TestHolidayImportSkipsKnownDates(t *testing.T) {
	pool := testPool(t)
	store := NewStore(pool)
	ctx := context.Background()

	known := time.Date(2031, time.July, 14, 0, 0, 0, 0, time.UTC)
	fresh := time.Date(2031, time.July, 15, 0, 0, 0, 0, time.UTC)
	clear := func() {
		_, _ = pool.Exec(ctx, "DELETE FROM holidays WHERE date IN ($1, $2)", known, fresh)
	}
	clear()
	t.Cleanup(clear)

	if _, err := store.UpsertHoliday(ctx, "Fete Nationale", known, false); err != nil {
		t.Fatal(err)
	}

	svc := NewService(store, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	imported, err := svc.ImportHolidays(ctx, []Holiday{
		{Name: "Bastille Day", Date: known},
		{Name: "Day After", Date: fresh},
	})
	if err != nil {
		t.Fatal(err)
	}
	if imported != 1 {
		t.Fatalf("imported = %d, want 1", imported)
	}

	holidays, err := store.ListHolidays(ctx, 2031)
	if err != nil {
		t.Fatal(err)
	}
	byDate := map[string]Holiday{}
	for _, h := range holidays {
		byDate[h.Date.Format("2006-01-02")] = h
	}
	got, ok := byDate["2031-07-14"]
	if !ok {
		t.Fatal("known holiday missing after import")
	}
	if got.Name != "Fete Nationale" || got.Paid {
		t.Fatalf("known holiday changed by import: name=%q paid=%v", got.Name, got.Paid)
	}
	added, ok := byDate["2031-07-15"]
	if !ok {
		t.Fatal("fresh holiday not inserted")
	}
	if added.Name != "Day After" || !added.Paid {
		t.Fatalf("fresh holiday = %+v, want paid Day After", added)
	}
}
