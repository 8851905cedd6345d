// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusvote/server/models"
	"github.com/campusvote/server/testutil"
)

// TestFullElectionWorkflow tests the complete end-to-end workflow:
// 1. Admin and voters register
// 2. Voters log in
// 3. Admin creates an election with candidates
// 4. Admin opens voting early
// 5. Voters cast ballots
// 6. A duplicate ballot is rejected
// 7. Results reflect the tallies
// 8. Admin resets the votes
func TestFullElectionWorkflow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	voterHandler := NewVoterHandler(conn, cfg)
	electionHandler := NewElectionHandler(conn, cfg)
	candidateHandler := NewCandidateHandler(conn, cfg)
	voteHandler := NewVoteHandler(conn, cfg)
	resultsHandler := NewResultsHandler(conn, cfg)

	// Step 1: Register the admin and two voters
	register := func(name, email string) string {
		req := testutil.MakeRequest("POST", "/api/voters/register", models.RegisterVoterRequest{
			FullName:  name,
			Email:     email,
			Password:  "password123",
			Password2: "password123",
		}, nil)
		w := httptest.NewRecorder()
		voterHandler.Register(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - Register %s failed: %d - %s", email, w.Code, w.Body.String())
		}
		var resp models.RegisterVoterResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.VoterID
	}

	adminID := register("Site Admin", cfg.AdminEmail)
	aliceID := register("Alice", "alice@campus.test")
	bobID := register("Bob", "bob@campus.test")
	t.Logf("Step 1 - Registered admin %s and voters %s, %s", adminID, aliceID, bobID)

	// Step 2: Alice logs in
	req := testutil.MakeRequest("POST", "/api/voters/login", models.LoginRequest{
		Email:    "alice@campus.test",
		Password: "password123",
	}, nil)
	w := httptest.NewRecorder()
	voterHandler.Login(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 2 - Login failed: %d - %s", w.Code, w.Body.String())
	}
	var login models.LoginResponse
	testutil.AssertJSON(t, w, &login)
	if login.Token == "" || login.VoterID != aliceID {
		t.Fatal("Step 2 - Missing token or wrong voter ID")
	}
	t.Log("Step 2 - Alice logged in")

	// Step 3: Admin creates an election with two candidates
	req = testutil.MakeRequest("POST", "/api/elections", models.CreateElectionRequest{
		Title:       "Student Council 2026",
		Description: "Annual council election",
		Thumbnail:   "thumb-ref",
	}, nil)
	w = httptest.NewRecorder()
	electionHandler.CreateElection(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 3 - Create election failed: %d - %s", w.Code, w.Body.String())
	}
	var e models.Election
	testutil.AssertJSON(t, w, &e)
	if e.Status != models.StatusScheduled {
		t.Fatalf("Step 3 - Expected scheduled election, got %s", e.Status)
	}

	addCandidate := func(name string) string {
		req := testutil.MakeRequest("POST", "/api/candidates", models.AddCandidateRequest{
			FullName:   name,
			Motto:      "Vote for " + name,
			Image:      "image-ref",
			ElectionID: e.ID,
		}, nil)
		w := httptest.NewRecorder()
		candidateHandler.AddCandidate(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 3 - Add candidate %s failed: %d - %s", name, w.Code, w.Body.String())
		}
		var c models.Candidate
		testutil.AssertJSON(t, w, &c)
		return c.ID
	}

	first := addCandidate("Candidate One")
	second := addCandidate("Candidate Two")
	t.Logf("Step 3 - Created election %s with candidates %s, %s", e.ID, first, second)

	// Step 4: Voting has not started; Alice's ballot is rejected
	castVote := func(voterID, candidateID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/api/candidates/"+candidateID+"/vote",
			models.CastVoteRequest{ElectionID: e.ID}, nil)
		req.SetPathValue("id", candidateID)
		req = testutil.AsPrincipal(req, voterID, false)
		w := httptest.NewRecorder()
		voteHandler.CastVote(w, req)
		return w
	}

	if w := castVote(aliceID, first); w.Code != http.StatusForbidden {
		t.Fatalf("Step 4 - Expected 403 before the window opens, got %d", w.Code)
	}

	// Admin opens voting early
	req = testutil.MakeRequest("PATCH", "/api/elections/"+e.ID+"/start", nil, nil)
	req.SetPathValue("id", e.ID)
	w = httptest.NewRecorder()
	electionHandler.StartVoting(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Start voting failed: %d - %s", w.Code, w.Body.String())
	}
	t.Log("Step 4 - Voting opened early")

	// Step 5: Both voters cast ballots
	if w := castVote(aliceID, first); w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Alice's ballot failed: %d - %s", w.Code, w.Body.String())
	}
	if w := castVote(bobID, second); w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Bob's ballot failed: %d - %s", w.Code, w.Body.String())
	}
	t.Log("Step 5 - Ballots cast")

	// Step 6: Alice tries to vote again
	if w := castVote(aliceID, second); w.Code != http.StatusConflict {
		t.Fatalf("Step 6 - Expected 409 for a second ballot, got %d", w.Code)
	}
	t.Log("Step 6 - Duplicate ballot rejected")

	// Step 7: Results show one vote each at 50%
	req = testutil.MakeRequest("GET", "/api/elections/"+e.ID+"/results", nil, nil)
	req.SetPathValue("id", e.ID)
	w = httptest.NewRecorder()
	resultsHandler.GetResults(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Results failed: %d - %s", w.Code, w.Body.String())
	}
	var results models.ElectionResultsResponse
	testutil.AssertJSON(t, w, &results)
	if results.TotalVotes != 2 {
		t.Fatalf("Step 7 - Expected 2 total votes, got %d", results.TotalVotes)
	}
	for _, tally := range results.Results {
		if tally.VoteCount != 1 || tally.Percentage != 50 {
			t.Fatalf("Step 7 - Expected each candidate at 1 vote / 50%%, got %+v", tally)
		}
	}
	t.Log("Step 7 - Results verified")

	// Step 8: Admin resets the votes; Alice can vote again
	req = testutil.MakeRequest("DELETE", "/api/elections/"+e.ID+"/votes", nil, nil)
	req.SetPathValue("id", e.ID)
	w = httptest.NewRecorder()
	electionHandler.ResetVotes(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 8 - Reset failed: %d - %s", w.Code, w.Body.String())
	}
	if w := castVote(aliceID, second); w.Code != http.StatusOK {
		t.Fatalf("Step 8 - Expected Alice to vote again after reset, got %d", w.Code)
	}
	t.Log("Step 8 - Votes reset and re-cast")
}
