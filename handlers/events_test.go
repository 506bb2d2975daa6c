// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestListEvents(t *testing.T) {
	env := testutil.SetupLedger(t)
	handler := NewEventHandler(env.Journal, env.Bus)
	first := env.CreateTestSession(t, true, "Alice", "Bob")
	env.CreateTestSession(t, false, "Carol")
	env.RegisterTestVoter(t, "0xalice")
	if err := env.Ledger.Vote(t.Context(), "0xalice", first, 1); err != nil {
		t.Fatalf("Failed to vote: %v", err)
	}
	// Journal: created(1) started(2) created(3) registered(4) vote(5)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedSeqs   []uint64
		expectedNext   uint64
	}{
		{"all", "", http.StatusOK, []uint64{1, 2, 3, 4, 5}, 5},
		{"after cursor", "after=3", http.StatusOK, []uint64{4, 5}, 5},
		{"limit", "limit=2", http.StatusOK, []uint64{1, 2}, 2},
		{"by session", "session=1", http.StatusOK, []uint64{1, 2, 5}, 5},
		{"by other session", "session=2", http.StatusOK, []uint64{3}, 3},
		{"by type", "type=session.created", http.StatusOK, []uint64{1, 3}, 3},
		{"empty page keeps cursor", "after=5", http.StatusOK, nil, 5},
		{"unknown type", "type=poll.closed", http.StatusBadRequest, nil, 0},
		{"bad after", "after=x", http.StatusBadRequest, nil, 0},
		{"negative limit", "limit=-1", http.StatusBadRequest, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/events?"+tt.query, nil, nil)
			w := httptest.NewRecorder()

			handler.ListEvents(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var resp models.EventListResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp.Events) != len(tt.expectedSeqs) {
				t.Fatalf("Expected %d events, got %d", len(tt.expectedSeqs), len(resp.Events))
			}
			for i, evt := range resp.Events {
				if evt.Seq != tt.expectedSeqs[i] {
					t.Errorf("Event %d: expected seq %d, got %d", i, tt.expectedSeqs[i], evt.Seq)
				}
			}
			if resp.NextAfter != tt.expectedNext {
				t.Errorf("Expected next_after %d, got %d", tt.expectedNext, resp.NextAfter)
			}
		})
	}
}

func TestStreamRejectsUnknownType(t *testing.T) {
	env := testutil.SetupLedger(t)
	handler := NewEventHandler(env.Journal, env.Bus)

	w := httptest.NewRecorder()
	handler.Stream(w, testutil.MakeRequest("GET", "/events/stream?type=vote.cast,bogus", nil, nil))

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestStreamDeliversCommittedEvents(t *testing.T) {
	env := testutil.SetupLedger(t)
	handler := NewEventHandler(env.Journal, env.Bus)
	id := env.CreateTestSession(t, true, "Alice", "Bob")
	env.RegisterTestVoter(t, "0xalice")

	srv := httptest.NewServer(http.HandlerFunc(handler.Stream))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"?type=vote.cast", nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Expected text/event-stream, got %q", ct)
	}

	// The subscription exists once headers arrive. A registration is not
	// streamed; the vote is.
	env.RegisterTestVoter(t, "0xbob")
	if err := env.Ledger.Vote(ctx, "0xalice", id, 2); err != nil {
		t.Fatalf("Failed to vote: %v", err)
	}

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("Failed to read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		if line == "" && len(lines) > 0 {
			break
		}
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) != 3 {
		t.Fatalf("Expected id/event/data lines, got %q", lines)
	}
	if lines[0] != "id: 5" {
		t.Errorf("Expected id: 5, got %q", lines[0])
	}
	if lines[1] != "event: vote.cast" {
		t.Errorf("Expected event: vote.cast, got %q", lines[1])
	}
	var evt ledger.Event
	if err := json.Unmarshal([]byte(strings.TrimPrefix(lines[2], "data: ")), &evt); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if evt.Voter != "0xalice" || evt.CandidateID != 2 || evt.SessionID != id {
		t.Errorf("Unexpected event %+v", evt)
	}
}
