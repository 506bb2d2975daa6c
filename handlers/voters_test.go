// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestRegisterVoter(t *testing.T) {
	env := testutil.SetupLedger(t)
	handler := NewVoterHandler(env.Ledger, env.Cfg)
	admin := testutil.CallerHeaders(env.Cfg, testutil.Admin)

	tests := []struct {
		name           string
		body           interface{}
		headers        map[string]string
		expectedStatus int
	}{
		{"admin registers voter", models.RegisterVoterRequest{Address: "0xalice"}, admin, http.StatusCreated},
		{"already registered", models.RegisterVoterRequest{Address: "0xalice"}, admin, http.StatusConflict},
		{"empty address", models.RegisterVoterRequest{Address: ""}, admin, http.StatusBadRequest},
		{"non-admin", models.RegisterVoterRequest{Address: "0xbob"}, testutil.CallerHeaders(env.Cfg, "0xalice"), http.StatusForbidden},
		{"unsigned", models.RegisterVoterRequest{Address: "0xbob"}, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.RegisterVoter(w, testutil.MakeRequest("POST", "/voters", tt.body, tt.headers))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	if env.Ledger.IsRegistered("0xbob") {
		t.Error("Rejected registration took effect")
	}
}

func TestRegisterVotersBulk(t *testing.T) {
	env := testutil.SetupLedger(t)
	handler := NewVoterHandler(env.Ledger, env.Cfg)
	admin := testutil.CallerHeaders(env.Cfg, testutil.Admin)
	env.RegisterTestVoter(t, "0xalice")

	body := models.RegisterVotersRequest{Addresses: []string{"0xalice", "0xbob", "", "0xcarol", "0xbob"}}
	w := httptest.NewRecorder()
	handler.RegisterVoters(w, testutil.MakeRequest("POST", "/voters/bulk", body, admin))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.RegisterVotersResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Registered != 2 {
		t.Errorf("Expected 2 new registrations, got %d", resp.Registered)
	}
	for _, addr := range []ledger.Address{"0xalice", "0xbob", "0xcarol"} {
		if !env.Ledger.IsRegistered(addr) {
			t.Errorf("Expected %s to be registered", addr)
		}
	}

	w = httptest.NewRecorder()
	handler.RegisterVoters(w, testutil.MakeRequest("POST", "/voters/bulk", body, testutil.CallerHeaders(env.Cfg, "0xalice")))
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestRegisterSelfAndGetVoter(t *testing.T) {
	env := testutil.SetupLedger(t)
	handler := NewVoterHandler(env.Ledger, env.Cfg)
	dave := testutil.CallerHeaders(env.Cfg, "0xdave")

	w := httptest.NewRecorder()
	handler.RegisterSelf(w, testutil.MakeRequest("POST", "/voters/self", nil, dave))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.VoterStatusResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Address != "0xdave" || !resp.Registered {
		t.Errorf("Unexpected response %+v", resp)
	}

	w = httptest.NewRecorder()
	handler.RegisterSelf(w, testutil.MakeRequest("POST", "/voters/self", nil, dave))
	testutil.AssertStatus(t, w, http.StatusConflict)

	for _, tt := range []struct {
		address    string
		registered bool
	}{
		{"0xdave", true},
		{"0xerin", false},
	} {
		req := testutil.MakeRequest("GET", "/voters/"+tt.address, nil, nil)
		req.SetPathValue("address", tt.address)
		w := httptest.NewRecorder()
		handler.GetVoter(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var status models.VoterStatusResponse
		testutil.AssertJSON(t, w, &status)
		if status.Registered != tt.registered {
			t.Errorf("%s: expected registered=%v, got %v", tt.address, tt.registered, status.Registered)
		}
	}
}
