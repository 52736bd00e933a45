package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gymdesk/internal/adapters/storage"
	dietplanStore "gymdesk/internal/adapters/storage/dietplan"
	feeStore "gymdesk/internal/adapters/storage/fee"
	memberStore "gymdesk/internal/adapters/storage/member"
	sessionStore "gymdesk/internal/adapters/storage/session"
	userStore "gymdesk/internal/adapters/storage/user"
	"gymdesk/internal/application/orchestrators"
)

// openSQLiteStores builds the full store set over a shared database file
// so a second open simulates a process restart.
func openSQLiteStores(t *testing.T, path string) (*Stores, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &Stores{
		UserStore:     userStore.NewSQLiteStore(db),
		MemberStore:   memberStore.NewSQLiteStore(db),
		FeeStore:      feeStore.NewSQLiteStore(db),
		DietPlanStore: dietplanStore.NewSQLiteStore(db),
		SessionStore:  sessionStore.NewSQLiteStore(db),
	}, db
}

func jsonRequest(method, url, body string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestEndToEnd_OwnerWorkflowSurvivesRestart(t *testing.T) {
	RateLimitPerSecond = 1000
	dbPath := filepath.Join(t.TempDir(), "gymdesk.db")

	s, _ := openSQLiteStores(t, dbPath)
	if err := orchestrators.ExecuteSeedOwner(context.Background(), orchestrators.SeedOwnerDeps{
		UserStore: s.UserStore,
	}); err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	mux := NewMux(t.TempDir(), s, nil)

	// Login with the seeded owner account.
	cookie := loginCookie(t, mux, orchestrators.DefaultOwnerUsername, orchestrators.DefaultOwnerPassword)

	// Register a member.
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, jsonRequest("POST", "/members",
		`{"Name":"Ravi Kumar","Phone":"9876543210","Address":"12 Station Road","GymPlan":"PT"}`, cookie))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register member: status = %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		MemberID        string
		AdmissionNumber string
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode member: %v", err)
	}
	if len(created.AdmissionNumber) != 7 {
		t.Errorf("admission number %q should be year plus three digits", created.AdmissionNumber)
	}

	// Record a fee already past its due date.
	pastDue := time.Now().AddDate(0, 0, -5).UTC().Format(time.RFC3339)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, jsonRequest("POST", "/fees",
		`{"MemberID":"`+created.MemberID+`","AmountPaid":1500,"Status":"Due","DueDate":"`+pastDue+`"}`, cookie))
	if rec.Code != http.StatusCreated {
		t.Fatalf("record fee: status = %d: %s", rec.Code, rec.Body.String())
	}

	// Reopen the database as a fresh process would.
	s2, _ := openSQLiteStores(t, dbPath)
	mux2 := NewMux(t.TempDir(), s2, nil)

	// The session cookie from before the restart still works.
	rec = httptest.NewRecorder()
	mux2.ServeHTTP(rec, jsonRequest("GET", "/fees?filter=due", "", cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("fee list after restart: status = %d: %s", rec.Code, rec.Body.String())
	}

	var fees struct {
		Fees []struct {
			MemberName string
			Overdue    bool
		}
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &fees); err != nil {
		t.Fatalf("decode fees: %v", err)
	}
	if len(fees.Fees) != 1 {
		t.Fatalf("fees = %+v, want the one recorded fee", fees.Fees)
	}
	if fees.Fees[0].MemberName != "Ravi Kumar" || !fees.Fees[0].Overdue {
		t.Errorf("fee row = %+v, want Ravi Kumar marked overdue", fees.Fees[0])
	}

	// Logout invalidates the durable session.
	rec = httptest.NewRecorder()
	mux2.ServeHTTP(rec, jsonRequest("POST", "/logout", "", cookie))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	mux2.ServeHTTP(rec, jsonRequest("GET", "/members", "", cookie))
	if rec.Code != http.StatusSeeOther {
		t.Errorf("after logout: status = %d, want 303 redirect", rec.Code)
	}
}
