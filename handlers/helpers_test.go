// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestWriteLedgerError(t *testing.T) {
	_, errAuth := testutil.SetupLedger(t).Ledger.CreateSession(
		t.Context(), "0xmallory", "x", testutil.T0, testutil.T0.Add(time.Hour), []string{"A"})
	if errAuth == nil {
		t.Fatal("expected an auth rejection")
	}

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedKind   string
		expectedMsg    string
	}{
		{"auth", errAuth, http.StatusForbidden, "auth", errAuth.Error()},
		{"validation", ledger.ErrValidation, http.StatusBadRequest, "validation", ledger.ErrValidation.Error()},
		{"state", ledger.ErrState, http.StatusConflict, "state", ledger.ErrState.Error()},
		{"wrapped state", fmt.Errorf("outer: %w", ledger.ErrState), http.StatusConflict, "state", "outer: state: invalid state"},
		{"infrastructure", errors.New("disk full"), http.StatusInternalServerError, "", "Failed to cast vote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/sessions/1/votes", nil)

			writeLedgerError(w, r, "cast vote", tt.err)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Kind != tt.expectedKind {
				t.Errorf("Expected kind %q, got %q", tt.expectedKind, resp.Kind)
			}
			if resp.Message != tt.expectedMsg {
				t.Errorf("Expected message %q, got %q", tt.expectedMsg, resp.Message)
			}
			if strings.Contains(resp.Message, "disk full") {
				t.Error("Internal error text leaked to the client")
			}
		})
	}
}

func TestRequireCaller(t *testing.T) {
	cfg := testutil.GetTestConfig()

	tests := []struct {
		name           string
		headers        map[string]string
		expectOK       bool
		expectedCaller ledger.Address
	}{
		{"signed caller", testutil.CallerHeaders(cfg, "0xalice"), true, "0xalice"},
		{"missing headers", nil, false, ""},
		{"bad signature", map[string]string{
			"X-Caller-Address":   "0xalice",
			"X-Caller-Signature": "forged",
		}, false, ""},
		{"signature for another address", map[string]string{
			"X-Caller-Address":   "0xalice",
			"X-Caller-Signature": testutil.CallerHeaders(cfg, "0xbob")["X-Caller-Signature"],
		}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := testutil.MakeRequest("POST", "/voters/self", nil, tt.headers)

			caller, ok := requireCaller(w, r, cfg.CallerSalt)

			if ok != tt.expectOK {
				t.Fatalf("Expected ok=%v, got %v", tt.expectOK, ok)
			}
			if !ok {
				testutil.AssertStatus(t, w, http.StatusUnauthorized)
				return
			}
			if caller != tt.expectedCaller {
				t.Errorf("Expected caller %q, got %q", tt.expectedCaller, caller)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		value    string
		expectOK bool
		expected uint64
	}{
		{"1", true, 1},
		{"42", true, 42},
		{"0", false, 0},
		{"-3", false, 0},
		{"abc", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		t.Run("id="+tt.value, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/sessions/x", nil)
			r.SetPathValue("id", tt.value)

			id, ok := pathID(w, r, "id")

			if ok != tt.expectOK || id != tt.expected {
				t.Errorf("Expected (%d, %v), got (%d, %v)", tt.expected, tt.expectOK, id, ok)
			}
			if !ok {
				testutil.AssertStatus(t, w, http.StatusBadRequest)
			}
		})
	}
}

func TestWindowText(t *testing.T) {
	start := testutil.T0
	end := start.Add(time.Hour)

	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{"before start", start.Add(-10 * time.Minute), "opens 10 minutes from now"},
		{"during window", start.Add(30 * time.Minute), "closes 30 minutes from now"},
		{"after end", end.Add(2 * time.Hour), "closed 2 hours ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := windowText(tt.now, start, end); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
