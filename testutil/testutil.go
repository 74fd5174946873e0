// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danielhkuo/pollgate/auth"
	"github.com/danielhkuo/pollgate/cliparse"
	"github.com/danielhkuo/pollgate/db"
	"github.com/danielhkuo/pollgate/engine"
	"github.com/danielhkuo/pollgate/models"
)

// TestSecret signs the identity tokens used in tests
const TestSecret = "test-jwt-secret"

// TestNow is the starting time of every test clock
var TestNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// Clock is a settable engine clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Repository is a store serving both engine ports.
type Repository interface {
	engine.PollRepository
	engine.PaymentRepository
}

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.TypeSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// NewTestStore wraps conn in a SQL store
func NewTestStore(conn *sql.DB) *db.Store {
	return db.NewStore(conn, db.TypeSQLite, nil)
}

// NewTestService builds an engine over repo with a fixed clock starting at TestNow
func NewTestService(repo Repository) (*engine.Service, *Clock) {
	clock := NewClock(TestNow)
	svc := engine.New(engine.Dependencies{
		Polls:    repo,
		Payments: repo,
		Clock:    clock,
	})
	return svc, clock
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: db.TypeSQLite,
		JWTSecret:    TestSecret,
	}
}

// Token signs an identity token for the given identity and role
func Token(t *testing.T, identityID, role string) string {
	t.Helper()

	tok, err := auth.SignToken(TestSecret, identityID, role, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return tok
}

// AuthHeader returns request headers carrying a bearer token for identityID
func AuthHeader(t *testing.T, identityID, role string) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + Token(t, identityID, role)}
}

// GrantEntitlement records a completed payment for identityID
func GrantEntitlement(t *testing.T, svc *engine.Service, identityID string) models.Payment {
	t.Helper()

	p, err := svc.RecordPayment(context.Background(), identityID, "pi_"+uuid.NewString(),
		decimal.RequireFromString("4.99"), "USD", models.StatusCompleted)
	if err != nil {
		t.Fatalf("Failed to record payment: %v", err)
	}
	return p
}

// CreateTestPoll creates an active poll that opened an hour ago and closes in
// a day. Options default to "Option A" and "Option B".
func CreateTestPoll(t *testing.T, svc *engine.Service, creatorID string, options ...string) models.Poll {
	t.Helper()

	if len(options) == 0 {
		options = []string{"Option A", "Option B"}
	}
	GrantEntitlement(t, svc, creatorID)

	now := svc.Now()
	poll, err := svc.CreatePoll(context.Background(), creatorID, models.PollDraft{
		Title:       "Test Poll",
		Description: "A test poll",
		Category:    string(models.CategoryOther),
		Options:     options,
		StartDate:   now.Add(-time.Hour),
		EndDate:     now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
