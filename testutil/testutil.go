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

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/event"
	"github.com/danielhkuo/quickly-vote/journal"
	"github.com/danielhkuo/quickly-vote/ledger"
)

// Admin is the administrator address used by GetTestConfig.
const Admin = "0xadmin"

// T0 is the reference time test clocks start at.
var T0 = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AdminAddress: Admin,
		CallerSalt:   "test-caller-salt",
	}
}

// Clock is a settable ledger clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock reading now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Env is a ledger wired to a journal and event bus, as the server runs it.
type Env struct {
	Cfg     cliparse.Config
	DB      *sql.DB
	Clock   *Clock
	Journal *journal.Store
	Bus     *event.EventBus
	Ledger  *ledger.Ledger
}

// SetupLedger builds an Env on a fresh database with the clock at T0.
func SetupLedger(t *testing.T) *Env {
	t.Helper()

	cfg := GetTestConfig()
	conn := SetupTestDB(t)
	clock := NewClock(T0)
	store := journal.New(conn)
	bus := event.NewEventBus(nil, nil)
	t.Cleanup(bus.Stop)

	l, err := ledger.New(ledger.Config{
		Admin:    ledger.Address(cfg.AdminAddress),
		Clock:    clock,
		Log:      store,
		EventBus: bus,
	})
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}

	return &Env{Cfg: cfg, DB: conn, Clock: clock, Journal: store, Bus: bus, Ledger: l}
}

// CreateTestSession creates a session over [T0, T0+1h] with the given
// candidates and returns its id. started starts it at the current clock.
func (e *Env) CreateTestSession(t *testing.T, started bool, candidates ...string) uint64 {
	t.Helper()

	if len(candidates) == 0 {
		candidates = []string{"Alice", "Bob"}
	}
	ctx := context.Background()
	admin := ledger.Address(e.Cfg.AdminAddress)
	id, err := e.Ledger.CreateSession(ctx, admin, "Test Session", T0, T0.Add(time.Hour), candidates)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	if started {
		if err := e.Ledger.StartSession(ctx, admin, id); err != nil {
			t.Fatalf("Failed to start test session: %v", err)
		}
	}
	return id
}

// RegisterTestVoter registers address through the admin.
func (e *Env) RegisterTestVoter(t *testing.T, address string) {
	t.Helper()

	err := e.Ledger.RegisterVoter(context.Background(), ledger.Address(e.Cfg.AdminAddress), ledger.Address(address))
	if err != nil {
		t.Fatalf("Failed to register test voter: %v", err)
	}
}

// CallerHeaders returns signed identity headers for address.
func CallerHeaders(cfg cliparse.Config, address string) map[string]string {
	return map[string]string{
		auth.HeaderCallerAddress:   address,
		auth.HeaderCallerSignature: auth.SignCaller(address, cfg.CallerSalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		if s, ok := body.(string); ok {
			jsonBody = []byte(s)
		} else {
			jsonBody, _ = json.Marshal(body)
		}
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
