package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hrdash/internal/app/server"
	"hrdash/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		FrontendDir:        "frontend/dist",
		MigrationsDir:      moduleFile(t, "migrations"),
		Environment:        "test",
		SeedOwnerName:      "Owner",
		SeedOwnerEmail:     "owner@test.local",
		SeedOwnerPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
}

// moduleFile resolves a path relative to the module root so tests work
// regardless of the package they run from.
func moduleFile(t *testing.T, rel string) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, rel)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("module root not found")
		}
		dir = parent
	}
}

func startApp(t *testing.T) (*httptest.Server, config.Config) {
	t.Helper()
	cfg := testConfig(t)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts, cfg
}

func call(t *testing.T, client *http.Client, method, url, token string, payload any) (int, envelope) {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, url, err)
		}
	}
	return resp.StatusCode, env
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	status, env := call(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "",
		map[string]string{"email": email, "password": password})
	if status != http.StatusOK {
		t.Fatalf("login as %s failed with status %d", email, status)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	return data.Token
}

func TestLeaveApprovalJourney(t *testing.T) {
	ts, cfg := startApp(t)
	client := ts.Client()
	ownerToken := login(t, client, ts.URL, cfg.SeedOwnerEmail, cfg.SeedOwnerPassword)

	// Reset to the demo dataset so department leadership is known.
	if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/admin/seed-demo", ownerToken, nil); status != http.StatusOK {
		t.Fatalf("seed-demo failed with status %d", status)
	}

	bobToken := login(t, client, ts.URL, "bob@example.com", "ChangeMe123!")
	aliceToken := login(t, client, ts.URL, "alice@example.com", "ChangeMe123!")

	start := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	end := time.Now().AddDate(0, 1, 3).Format("2006-01-02")
	status, env := call(t, client, http.MethodPost, ts.URL+"/api/v1/leaves/", bobToken,
		map[string]string{"leaveType": "Vacation", "startDate": start, "endDate": end})
	if status != http.StatusCreated {
		t.Fatalf("submit failed with status %d", status)
	}
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &req); err != nil {
		t.Fatal(err)
	}
	if req.Status != "Pending" {
		t.Fatalf("new request status = %q, want Pending", req.Status)
	}

	// Bob cannot decide his own request; he has no leaves edit grant.
	if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/leaves/"+req.ID+"/approve", bobToken, nil); status != http.StatusForbidden {
		t.Fatalf("self approval status = %d, want 403", status)
	}

	// Alice leads Bob's department: her approval is the first step.
	status, env = call(t, client, http.MethodPost, ts.URL+"/api/v1/leaves/"+req.ID+"/approve", aliceToken, nil)
	if status != http.StatusOK {
		t.Fatalf("manager approval failed with status %d", status)
	}
	if err := json.Unmarshal(env.Data, &req); err != nil {
		t.Fatal(err)
	}
	if req.Status != "ApprovedByManager" {
		t.Fatalf("status after manager approval = %q", req.Status)
	}

	// A second manager approval must not finalize.
	if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/leaves/"+req.ID+"/approve", aliceToken, nil); status != http.StatusForbidden {
		t.Fatalf("repeat manager approval status = %d, want 403", status)
	}

	// The owner is a final approver.
	status, env = call(t, client, http.MethodPost, ts.URL+"/api/v1/leaves/"+req.ID+"/approve", ownerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("final approval failed with status %d", status)
	}
	if err := json.Unmarshal(env.Data, &req); err != nil {
		t.Fatal(err)
	}
	if req.Status != "Approved" {
		t.Fatalf("status after final approval = %q", req.Status)
	}

	// Terminal state: any further decision conflicts.
	if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/leaves/"+req.ID+"/reject", ownerToken, nil); status != http.StatusConflict {
		t.Fatalf("decision on approved request status = %d, want 409", status)
	}
}

func TestEmployeeCannotSeeOthersRequests(t *testing.T) {
	ts, cfg := startApp(t)
	client := ts.Client()
	ownerToken := login(t, client, ts.URL, cfg.SeedOwnerEmail, cfg.SeedOwnerPassword)

	if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/admin/seed-demo", ownerToken, nil); status != http.StatusOK {
		t.Fatal("seed-demo failed")
	}

	// The demo dataset ships one pending request from Bob. Farid is in
	// another department and leads nothing, so he sees only his own
	// (empty) list.
	faridToken := login(t, client, ts.URL, "farid@example.com", "ChangeMe123!")
	status, env := call(t, client, http.MethodGet, ts.URL+"/api/v1/leaves/", faridToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list failed with status %d", status)
	}
	var requests []json.RawMessage
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &requests); err != nil && string(env.Data) != "null" {
			t.Fatal(err)
		}
	}
	if len(requests) != 0 {
		t.Fatalf("farid sees %d requests, want 0", len(requests))
	}
}

func TestScheduleSubmissionRules(t *testing.T) {
	ts, cfg := startApp(t)
	client := ts.Client()
	ownerToken := login(t, client, ts.URL, cfg.SeedOwnerEmail, cfg.SeedOwnerPassword)

	if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/admin/seed-demo", ownerToken, nil); status != http.StatusOK {
		t.Fatal("seed-demo failed")
	}
	bobToken := login(t, client, ts.URL, "bob@example.com", "ChangeMe123!")

	// Monday of next week, computed the same way the server does.
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monday := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7)).AddDate(0, 0, 7)

	days := []string{
		monday.Format("2006-01-02"),
		monday.AddDate(0, 0, 2).Format("2006-01-02"),
	}
	status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/schedules/", bobToken,
		map[string]any{"days": days})
	if status != http.StatusCreated {
		t.Fatalf("submit failed with status %d", status)
	}

	// Second submission for the same week conflicts.
	status, env := call(t, client, http.MethodPost, ts.URL+"/api/v1/schedules/", bobToken,
		map[string]any{"days": days[:1]})
	if status != http.StatusConflict {
		t.Fatalf("resubmission status = %d, want 409", status)
	}
	if env.Error == nil || env.Error.Code != "already_submitted" {
		t.Fatalf("unexpected error payload: %+v", env.Error)
	}

	// Four days is over the cap.
	carlaToken := login(t, client, ts.URL, "carla@example.com", "ChangeMe123!")
	four := []string{
		monday.Format("2006-01-02"),
		monday.AddDate(0, 0, 1).Format("2006-01-02"),
		monday.AddDate(0, 0, 2).Format("2006-01-02"),
		monday.AddDate(0, 0, 3).Format("2006-01-02"),
	}
	if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/schedules/", carlaToken,
		map[string]any{"days": four}); status != http.StatusBadRequest {
		t.Fatalf("four-day submission status = %d, want 400", status)
	}
}

func TestPermissionMatrixGovernsRoutes(t *testing.T) {
	ts, cfg := startApp(t)
	client := ts.Client()
	ownerToken := login(t, client, ts.URL, cfg.SeedOwnerEmail, cfg.SeedOwnerPassword)

	if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/admin/seed-demo", ownerToken, nil); status != http.StatusOK {
		t.Fatal("seed-demo failed")
	}
	bobToken := login(t, client, ts.URL, "bob@example.com", "ChangeMe123!")

	// Employees cannot open the roles page.
	if status, _ := call(t, client, http.MethodGet, ts.URL+"/api/v1/roles/matrix", bobToken, nil); status != http.StatusForbidden {
		t.Fatalf("matrix access status = %d, want 403", status)
	}

	// Revoke employee view on leaves; listing must start failing.
	if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/roles/permissions", ownerToken,
		map[string]any{"role": "Employee", "page": "leaves", "action": "view", "value": false}); status != http.StatusOK {
		t.Fatal("permission update failed")
	}
	if status, _ := call(t, client, http.MethodGet, ts.URL+"/api/v1/leaves/", bobToken, nil); status != http.StatusForbidden {
		t.Fatal("employee still sees leaves after view was revoked")
	}

	// Grant it back through the same endpoint.
	if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/roles/permissions", ownerToken,
		map[string]any{"role": "Employee", "page": "leaves", "action": "view", "value": true}); status != http.StatusOK {
		t.Fatal("permission restore failed")
	}
	if status, _ := call(t, client, http.MethodGet, ts.URL+"/api/v1/leaves/", bobToken, nil); status != http.StatusOK {
		t.Fatal("employee cannot see leaves after view was restored")
	}
}

func TestErrorLogDeduplicates(t *testing.T) {
	ts, cfg := startApp(t)
	client := ts.Client()
	ownerToken := login(t, client, ts.URL, cfg.SeedOwnerEmail, cfg.SeedOwnerPassword)

	message := fmt.Sprintf("TypeError: x is undefined %d", time.Now().UnixNano())
	payload := map[string]string{"message": message, "file": "dashboard.js"}

	for i := 0; i < 3; i++ {
		if status, _ := call(t, client, http.MethodPost, ts.URL+"/api/v1/errors/", ownerToken, payload); status != http.StatusCreated {
			t.Fatalf("record %d failed", i+1)
		}
	}

	status, env := call(t, client, http.MethodGet, ts.URL+"/api/v1/errors/", ownerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list failed with status %d", status)
	}
	var entries []struct {
		Message string `json:"message"`
		Count   int    `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Message == message {
			if e.Count != 3 {
				t.Fatalf("count = %d, want 3", e.Count)
			}
			return
		}
	}
	t.Fatal("recorded error not found in list")
}
