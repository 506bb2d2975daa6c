// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func getWinner(t *testing.T, handler *ResultsHandler, sessionID uint64) (*httptest.ResponseRecorder, models.WinnerResponse) {
	t.Helper()
	path := strconv.FormatUint(sessionID, 10)
	req := testutil.MakeRequest("GET", "/sessions/"+path+"/winner", nil, nil)
	req.SetPathValue("id", path)
	w := httptest.NewRecorder()
	handler.GetWinner(w, req)

	var resp models.WinnerResponse
	if w.Code == http.StatusOK {
		testutil.AssertJSON(t, w, &resp)
	}
	return w, resp
}

func TestGetWinner(t *testing.T) {
	tests := []struct {
		name     string
		votes    map[string]uint64
		expected ledger.Result
	}{
		{
			name:     "no votes",
			expected: ledger.Result{Name: ledger.NoVotesCast, NoVotes: true},
		},
		{
			name:     "clear winner",
			votes:    map[string]uint64{"0xv1": 2, "0xv2": 2, "0xv3": 1},
			expected: ledger.Result{Name: "Bob", VoteCount: 2},
		},
		{
			name:     "tie reports lowest id",
			votes:    map[string]uint64{"0xv1": 1, "0xv2": 2, "0xv3": 3, "0xv4": 3, "0xv5": 2},
			expected: ledger.Result{Name: "Bob", VoteCount: 2, IsTie: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.SetupLedger(t)
			handler := NewResultsHandler(env.Ledger)
			id := env.CreateTestSession(t, true, "Alice", "Bob", "Carol")

			for voter, candidate := range tt.votes {
				env.RegisterTestVoter(t, voter)
				if err := env.Ledger.Vote(t.Context(), ledger.Address(voter), id, candidate); err != nil {
					t.Fatalf("Failed to vote: %v", err)
				}
			}

			w, resp := getWinner(t, handler, id)

			testutil.AssertStatus(t, w, http.StatusOK)
			if resp.SessionID != id {
				t.Errorf("Expected session_id %d, got %d", id, resp.SessionID)
			}
			if resp.Result != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, resp.Result)
			}
		})
	}
}

func TestGetWinnerUnknownSession(t *testing.T) {
	env := testutil.SetupLedger(t)
	handler := NewResultsHandler(env.Ledger)

	w, _ := getWinner(t, handler, 3)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
