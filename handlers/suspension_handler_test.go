// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestSuspensionLifecycle(t *testing.T) {
	e := setupTestServer(t)
	registerTestUser(t, e, "alice", "alice@example.com", testPassword)
	createStaffUser(t, "admin", "admin@example.com", testPassword)
	staffAccess, _ := loginTestUser(t, e, "admin", testPassword)

	// Suspend for 48 hours.
	rec := doRequest(t, e, http.MethodPost, "/v1/users/suspensions",
		`{"username":"alice","duration":48}`, withBearer(staffAccess))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 creating suspension, got %d: %s", rec.Code, rec.Body.String())
	}

	// The suspended user can no longer log in and gets the remaining time.
	rec = doRequest(t, e, http.MethodPost, "/v1/auth/login",
		`{"username":"alice","password":"`+testPassword+`"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for suspended login, got %d: %s", rec.Code, rec.Body.String())
	}
	if reason, _ := decodeBody(t, rec)["error"].(string); !strings.Contains(reason, "Time remaining") {
		t.Errorf("Expected a remaining-time message, got %q", reason)
	}

	// A second POST conflicts.
	rec = doRequest(t, e, http.MethodPost, "/v1/users/suspensions",
		`{"username":"alice","duration":1}`, withBearer(staffAccess))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for second suspension POST, got %d", rec.Code)
	}

	// Lift and log back in.
	rec = doRequest(t, e, http.MethodPatch, "/v1/users/suspensions",
		`{"username":"alice","has_ended":true}`, withBearer(staffAccess))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 lifting suspension, got %d: %s", rec.Code, rec.Body.String())
	}
	loginTestUser(t, e, "alice", testPassword)
}

func TestSuspensionInvalidatesSessions(t *testing.T) {
	e := setupTestServer(t)
	registerTestUser(t, e, "alice", "alice@example.com", testPassword)
	createStaffUser(t, "admin", "admin@example.com", testPassword)

	_, refresh := loginTestUser(t, e, "alice", testPassword)
	staffAccess, _ := loginTestUser(t, e, "admin", testPassword)

	rec := doRequest(t, e, http.MethodPost, "/v1/users/suspensions",
		`{"username":"alice","is_permanent":true}`, withBearer(staffAccess))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 creating suspension, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, e, http.MethodPost, "/v1/token/refresh", "", withCookie(refresh))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 refreshing after suspension, got %d", rec.Code)
	}
}

func TestSuspensionPatchPaths(t *testing.T) {
	e := setupTestServer(t)
	registerTestUser(t, e, "alice", "alice@example.com", testPassword)
	createStaffUser(t, "admin", "admin@example.com", testPassword)
	staffAccess, _ := loginTestUser(t, e, "admin", testPassword)

	// PATCH before any POST.
	rec := doRequest(t, e, http.MethodPatch, "/v1/users/suspensions",
		`{"username":"alice","has_ended":true}`, withBearer(staffAccess))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 updating a never-suspended account, got %d", rec.Code)
	}

	rec = doRequest(t, e, http.MethodPost, "/v1/users/suspensions",
		`{"username":"alice","duration":1}`, withBearer(staffAccess))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 creating suspension, got %d", rec.Code)
	}

	// Lift plus a new window is ambiguous.
	rec = doRequest(t, e, http.MethodPatch, "/v1/users/suspensions",
		`{"username":"alice","has_ended":true,"duration":5}`, withBearer(staffAccess))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for ambiguous update, got %d", rec.Code)
	}

	// Re-suspension bumps the counter.
	rec = doRequest(t, e, http.MethodPatch, "/v1/users/suspensions",
		`{"username":"alice","is_permanent":true}`, withBearer(staffAccess))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 re-suspending, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/users/suspensions", "", withBearer(staffAccess))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 listing suspensions, got %d", rec.Code)
	}
	records := []SuspensionDetails{}
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("Failed to decode suspension list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 suspension record, got %d", len(records))
	}
	if records[0].NumberOfSuspensions != 2 {
		t.Errorf("Expected counter 2, got %d", records[0].NumberOfSuspensions)
	}
	if !records[0].IsPermanent {
		t.Error("Expected the record to be permanent after re-suspension")
	}
}

func TestSuspensionEndpointsStaffOnly(t *testing.T) {
	e := setupTestServer(t)
	registerTestUser(t, e, "alice", "alice@example.com", testPassword)
	registerTestUser(t, e, "bob", "bob@example.com", testPassword)
	access, _ := loginTestUser(t, e, "bob", testPassword)

	rec := doRequest(t, e, http.MethodPost, "/v1/users/suspensions",
		`{"username":"alice","duration":1}`, withBearer(access))
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for non-staff suspension, got %d", rec.Code)
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/users/suspensions", "", withBearer(access))
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for non-staff listing, got %d", rec.Code)
	}
}

func TestSuspensionUnknownTarget(t *testing.T) {
	e := setupTestServer(t)
	createStaffUser(t, "admin", "admin@example.com", testPassword)
	staffAccess, _ := loginTestUser(t, e, "admin", testPassword)

	rec := doRequest(t, e, http.MethodPost, "/v1/users/suspensions",
		`{"username":"nobody","duration":1}`, withBearer(staffAccess))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown target, got %d", rec.Code)
	}
}

func TestSuspensionRequiresWindow(t *testing.T) {
	e := setupTestServer(t)
	registerTestUser(t, e, "alice", "alice@example.com", testPassword)
	createStaffUser(t, "admin", "admin@example.com", testPassword)
	staffAccess, _ := loginTestUser(t, e, "admin", testPassword)

	rec := doRequest(t, e, http.MethodPost, "/v1/users/suspensions",
		`{"username":"alice"}`, withBearer(staffAccess))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a duration or permanence, got %d", rec.Code)
	}
}
