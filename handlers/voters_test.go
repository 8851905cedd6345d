// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusvote/server/models"
	"github.com/campusvote/server/testutil"
)

func TestRegister(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	handler := NewVoterHandler(conn, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/voters/register", models.RegisterVoterRequest{
		FullName:  "Ada Student",
		Email:     "Ada@Campus.Test",
		StudentID: "S-1001",
		Password:  "password123",
		Password2: "password123",
	}, nil)
	w := httptest.NewRecorder()
	handler.Register(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.RegisterVoterResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.VoterID == "" {
		t.Error("Expected a voter ID in the response")
	}

	// Email is stored lowercased; the account is not an admin.
	var email string
	var isAdmin bool
	if err := conn.QueryRow(`SELECT email, is_admin FROM voter WHERE id = $1`, resp.VoterID).
		Scan(&email, &isAdmin); err != nil {
		t.Fatalf("Failed to query voter: %v", err)
	}
	if email != "ada@campus.test" {
		t.Errorf("Expected lowercased email, got %q", email)
	}
	if isAdmin {
		t.Error("Expected a regular registration to not be admin")
	}
}

func TestRegister_AdminBootstrap(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	handler := NewVoterHandler(conn, cfg)

	req := testutil.MakeRequest("POST", "/api/voters/register", models.RegisterVoterRequest{
		FullName:  "Site Admin",
		Email:     cfg.AdminEmail,
		Password:  "password123",
		Password2: "password123",
	}, nil)
	w := httptest.NewRecorder()
	handler.Register(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.RegisterVoterResponse
	testutil.AssertJSON(t, w, &resp)

	var isAdmin bool
	if err := conn.QueryRow(`SELECT is_admin FROM voter WHERE id = $1`, resp.VoterID).Scan(&isAdmin); err != nil {
		t.Fatalf("Failed to query voter: %v", err)
	}
	if !isAdmin {
		t.Error("Expected the configured email to register as admin")
	}
}

func TestRegister_Validation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	handler := NewVoterHandler(conn, testutil.GetTestConfig())

	tests := []struct {
		name string
		req  models.RegisterVoterRequest
	}{
		{
			name: "missing full name",
			req: models.RegisterVoterRequest{
				Email: "a@b.c", Password: "password123", Password2: "password123",
			},
		},
		{
			name: "missing email",
			req: models.RegisterVoterRequest{
				FullName: "Ada", Password: "password123", Password2: "password123",
			},
		},
		{
			name: "short password",
			req: models.RegisterVoterRequest{
				FullName: "Ada", Email: "a@b.c", Password: "12345", Password2: "12345",
			},
		},
		{
			name: "password mismatch",
			req: models.RegisterVoterRequest{
				FullName: "Ada", Email: "a@b.c", Password: "password123", Password2: "password124",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/voters/register", tc.req, nil)
			w := httptest.NewRecorder()
			handler.Register(w, req)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	handler := NewVoterHandler(conn, testutil.GetTestConfig())

	testutil.CreateTestVoter(t, conn, "Ada Student", "ada@campus.test", false)

	req := testutil.MakeRequest("POST", "/api/voters/register", models.RegisterVoterRequest{
		FullName:  "Ada Again",
		Email:     "ada@campus.test",
		Password:  "password123",
		Password2: "password123",
	}, nil)
	w := httptest.NewRecorder()
	handler.Register(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)

	if n := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM voter`); n != 1 {
		t.Errorf("Expected 1 voter row, got %d", n)
	}
}

func TestLogin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	handler := NewVoterHandler(conn, testutil.GetTestConfig())

	voterID := testutil.CreateTestVoter(t, conn, "Ada Student", "ada@campus.test", false)

	req := testutil.MakeRequest("POST", "/api/voters/login", models.LoginRequest{
		Email:    "ada@campus.test",
		Password: "password123",
	}, nil)
	w := httptest.NewRecorder()
	handler.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LoginResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Token == "" {
		t.Error("Expected a token in the login response")
	}
	if resp.VoterID != voterID {
		t.Errorf("Expected voter ID %s, got %s", voterID, resp.VoterID)
	}
	if resp.IsAdmin {
		t.Error("Expected is_admin false")
	}
	if len(resp.VotedElections) != 0 {
		t.Errorf("Expected empty voted elections, got %v", resp.VotedElections)
	}
}

func TestLogin_VotedElections(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	handler := NewVoterHandler(conn, testutil.GetTestConfig())

	voterID := testutil.CreateTestVoter(t, conn, "Ada Student", "ada@campus.test", false)
	electionID := testutil.CreateTestElection(t, conn, models.StatusActive,
		time.Now().Add(-time.Hour), time.Now().Add(3*time.Hour))
	candidateID := testutil.AddTestCandidate(t, conn, electionID, "Candidate One")
	testutil.CastTestVote(t, conn, voterID, electionID, candidateID)

	req := testutil.MakeRequest("POST", "/api/voters/login", models.LoginRequest{
		Email:    "ada@campus.test",
		Password: "password123",
	}, nil)
	w := httptest.NewRecorder()
	handler.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LoginResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.VotedElections) != 1 || resp.VotedElections[0] != electionID {
		t.Errorf("Expected voted elections [%s], got %v", electionID, resp.VotedElections)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	handler := NewVoterHandler(conn, testutil.GetTestConfig())

	testutil.CreateTestVoter(t, conn, "Ada Student", "ada@campus.test", false)

	tests := []struct {
		name string
		req  models.LoginRequest
	}{
		{name: "wrong password", req: models.LoginRequest{Email: "ada@campus.test", Password: "wrong-pass"}},
		{name: "unknown email", req: models.LoginRequest{Email: "nobody@campus.test", Password: "password123"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/voters/login", tc.req, nil)
			w := httptest.NewRecorder()
			handler.Login(w, req)
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestGetVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	handler := NewVoterHandler(conn, testutil.GetTestConfig())

	voterID := testutil.CreateTestVoter(t, conn, "Ada Student", "ada@campus.test", false)

	req := testutil.MakeRequest("GET", "/api/voters/"+voterID, nil, nil)
	req.SetPathValue("id", voterID)
	w := httptest.NewRecorder()
	handler.GetVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var voter models.Voter
	testutil.AssertJSON(t, w, &voter)
	if voter.ID != voterID || voter.Email != "ada@campus.test" {
		t.Errorf("Unexpected voter payload: %+v", voter)
	}
	if voter.PasswordHash != "" {
		t.Error("Password hash must never be serialized")
	}
}

func TestGetVoter_NotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	handler := NewVoterHandler(conn, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/api/voters/nope", nil, nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()
	handler.GetVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestRemoveVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	handler := NewVoterHandler(conn, testutil.GetTestConfig())

	voterID := testutil.CreateTestVoter(t, conn, "Ada Student", "ada@campus.test", false)
	electionID := testutil.CreateTestElection(t, conn, models.StatusActive,
		time.Now().Add(-time.Hour), time.Now().Add(3*time.Hour))
	candidateID := testutil.AddTestCandidate(t, conn, electionID, "Candidate One")
	testutil.CastTestVote(t, conn, voterID, electionID, candidateID)

	req := testutil.MakeRequest("DELETE", "/api/voters/"+voterID, nil, nil)
	req.SetPathValue("id", voterID)
	w := httptest.NewRecorder()
	handler.RemoveVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	if n := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM voter WHERE id = $1`, voterID); n != 0 {
		t.Errorf("Expected voter gone, got %d rows", n)
	}
	// Cascades removed the ballot and membership; the tally was reversed.
	if n := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM vote WHERE voter_id = $1`, voterID); n != 0 {
		t.Errorf("Expected votes gone, got %d rows", n)
	}
	if n := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM election_voter WHERE voter_id = $1`, voterID); n != 0 {
		t.Errorf("Expected membership gone, got %d rows", n)
	}
	if n := testutil.CountRows(t, conn, `SELECT vote_count FROM candidate WHERE id = $1`, candidateID); n != 0 {
		t.Errorf("Expected tally reversed to 0, got %d", n)
	}
}

func TestRemoveVoter_AdminProtected(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	handler := NewVoterHandler(conn, testutil.GetTestConfig())

	adminID := testutil.CreateTestVoter(t, conn, "Site Admin", "admin@campusvote.test", true)

	req := testutil.MakeRequest("DELETE", "/api/voters/"+adminID, nil, nil)
	req.SetPathValue("id", adminID)
	w := httptest.NewRecorder()
	handler.RemoveVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusForbidden)

	if n := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM voter WHERE id = $1`, adminID); n != 1 {
		t.Error("Expected admin account to survive")
	}
}
