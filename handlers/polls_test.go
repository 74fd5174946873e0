// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pollgate/auth"
	"github.com/danielhkuo/pollgate/engine"
	"github.com/danielhkuo/pollgate/middleware"
	"github.com/danielhkuo/pollgate/models"
	"github.com/danielhkuo/pollgate/testutil"
)

// setupService returns an engine over a fresh SQLite database.
func setupService(t *testing.T) (*engine.Service, *testutil.Clock) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })
	return testutil.NewTestService(testutil.NewTestStore(conn))
}

// as attaches a verified caller to req, as the auth middleware would.
func as(req *http.Request, id, role string) *http.Request {
	return req.WithContext(middleware.ContextWithCaller(req.Context(), auth.Caller{ID: id, Role: role}))
}

func validCreateRequest(now time.Time) models.CreatePollRequest {
	return models.CreatePollRequest{
		Title:       "Best language?",
		Description: "Pick one",
		Category:    "technology",
		Options:     []string{"Go", "Rust", "Zig"},
		StartDate:   now.Add(-time.Minute),
		EndDate:     now.Add(7 * 24 * time.Hour),
	}
}

func TestCreatePoll(t *testing.T) {
	svc, clock := setupService(t)
	handler := NewPollHandler(svc)
	testutil.GrantEntitlement(t, svc, "alice")

	req := as(testutil.MakeRequest("POST", "/api/polls", validCreateRequest(clock.Now()), nil), "alice", models.RoleUser)
	w := httptest.NewRecorder()
	handler.CreatePoll(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.PollResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.ID == "" {
		t.Error("Expected poll id")
	}
	if resp.Category != models.CategoryTechnology {
		t.Errorf("Expected canonical category, got %q", resp.Category)
	}
	if resp.CreatorID != "alice" {
		t.Errorf("Expected creator alice, got %q", resp.CreatorID)
	}
	if len(resp.Options) != 3 {
		t.Fatalf("Expected 3 options, got %d", len(resp.Options))
	}
	for _, o := range resp.Options {
		if o.ID == "" || o.Votes != 0 {
			t.Errorf("Unexpected option %+v", o)
		}
	}
	if !resp.IsActive || resp.TotalVotes != 0 {
		t.Errorf("Expected active poll with no votes, got active=%v total=%d", resp.IsActive, resp.TotalVotes)
	}
	if resp.Window != models.WindowOpen {
		t.Errorf("Expected open window, got %q", resp.Window)
	}
}

func TestCreatePoll_PaymentRequired(t *testing.T) {
	svc, clock := setupService(t)
	handler := NewPollHandler(svc)

	// Even an invalid draft reports the missing payment first
	body := validCreateRequest(clock.Now())
	body.Title = ""

	req := as(testutil.MakeRequest("POST", "/api/polls", body, nil), "bob", models.RoleUser)
	w := httptest.NewRecorder()
	handler.CreatePoll(w, req)

	testutil.AssertStatus(t, w, http.StatusPaymentRequired)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Code != "PAYMENT_REQUIRED" {
		t.Errorf("Expected PAYMENT_REQUIRED, got %q", resp.Code)
	}
}

func TestCreatePoll_ExpiredPayment(t *testing.T) {
	svc, clock := setupService(t)
	handler := NewPollHandler(svc)
	testutil.GrantEntitlement(t, svc, "alice")

	clock.Advance(models.EntitlementWindow + time.Second)

	req := as(testutil.MakeRequest("POST", "/api/polls", validCreateRequest(clock.Now()), nil), "alice", models.RoleUser)
	w := httptest.NewRecorder()
	handler.CreatePoll(w, req)

	testutil.AssertStatus(t, w, http.StatusPaymentRequired)
}

func TestCreatePoll_Validation(t *testing.T) {
	svc, clock := setupService(t)
	handler := NewPollHandler(svc)
	testutil.GrantEntitlement(t, svc, "alice")
	now := clock.Now()

	testCases := []struct {
		name   string
		mutate func(*models.CreatePollRequest)
		field  string
	}{
		{"missing title", func(r *models.CreatePollRequest) { r.Title = "  " }, "title"},
		{"unknown category", func(r *models.CreatePollRequest) { r.Category = "Cooking" }, "category"},
		{"one option", func(r *models.CreatePollRequest) { r.Options = []string{"Only"} }, "options"},
		{"blank option", func(r *models.CreatePollRequest) { r.Options = []string{"A", ""} }, "options"},
		{"end before start", func(r *models.CreatePollRequest) { r.EndDate = r.StartDate.Add(-time.Hour) }, "end_date"},
		{"missing start", func(r *models.CreatePollRequest) { r.StartDate = time.Time{} }, "start_date"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := validCreateRequest(now)
			tc.mutate(&body)

			req := as(testutil.MakeRequest("POST", "/api/polls", body, nil), "alice", models.RoleUser)
			w := httptest.NewRecorder()
			handler.CreatePoll(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if _, ok := resp.Fields[tc.field]; !ok {
				t.Errorf("Expected field %q in %v", tc.field, resp.Fields)
			}
		})
	}
}

func TestCreatePoll_InvalidJSON(t *testing.T) {
	svc, _ := setupService(t)
	handler := NewPollHandler(svc)

	req := httptest.NewRequest("POST", "/api/polls", nil)
	req = as(req, "alice", models.RoleUser)
	w := httptest.NewRecorder()
	handler.CreatePoll(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestListPolls_Visibility(t *testing.T) {
	svc, clock := setupService(t)
	handler := NewPollHandler(svc)

	visible := testutil.CreateTestPoll(t, svc, "alice")
	clock.Advance(time.Minute)
	hidden := testutil.CreateTestPoll(t, svc, "alice")

	deactivate := false
	if _, err := svc.UpdatePoll(context.Background(), hidden.ID, auth.Caller{ID: "alice", Role: models.RoleUser},
		models.PollPatch{IsActive: &deactivate}); err != nil {
		t.Fatalf("Failed to deactivate: %v", err)
	}

	testCases := []struct {
		name   string
		caller *auth.Caller
		want   []string
	}{
		{"anonymous sees active only", nil, []string{visible.ID}},
		{"user sees active only", &auth.Caller{ID: "carol", Role: models.RoleUser}, []string{visible.ID}},
		{"admin sees everything newest first", &auth.Caller{ID: "root", Role: models.RoleAdmin}, []string{hidden.ID, visible.ID}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/polls", nil)
			if tc.caller != nil {
				req = as(req, tc.caller.ID, tc.caller.Role)
			}
			w := httptest.NewRecorder()
			handler.ListPolls(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp []models.PollResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp) != len(tc.want) {
				t.Fatalf("Expected %d polls, got %d", len(tc.want), len(resp))
			}
			for i, id := range tc.want {
				if resp[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp[i].ID)
				}
			}
		})
	}
}

func TestGetPoll(t *testing.T) {
	svc, _ := setupService(t)
	handler := NewPollHandler(svc)
	poll := testutil.CreateTestPoll(t, svc, "alice")

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/polls/"+poll.ID, nil)
		req.SetPathValue("id", poll.ID)
		w := httptest.NewRecorder()
		handler.GetPoll(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.PollResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Title != "Test Poll" {
			t.Errorf("Expected title 'Test Poll', got %q", resp.Title)
		}
		if resp.HasVoted {
			t.Error("Anonymous caller cannot have voted")
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/polls/nope", nil)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()
		handler.GetPoll(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("deactivated poll hidden from others", func(t *testing.T) {
		off := false
		if _, err := svc.UpdatePoll(context.Background(), poll.ID, auth.Caller{ID: "alice"}, models.PollPatch{IsActive: &off}); err != nil {
			t.Fatal(err)
		}

		for _, c := range []struct {
			id, role string
			status   int
		}{
			{"carol", models.RoleUser, http.StatusNotFound},
			{"alice", models.RoleUser, http.StatusOK},
			{"root", models.RoleAdmin, http.StatusOK},
		} {
			req := as(httptest.NewRequest("GET", "/api/polls/"+poll.ID, nil), c.id, c.role)
			req.SetPathValue("id", poll.ID)
			w := httptest.NewRecorder()
			handler.GetPoll(w, req)
			if w.Code != c.status {
				t.Errorf("%s: expected %d, got %d", c.id, c.status, w.Code)
			}
		}
	})
}

func TestUpdatePoll(t *testing.T) {
	svc, _ := setupService(t)
	handler := NewPollHandler(svc)
	poll := testutil.CreateTestPoll(t, svc, "alice", "Red", "Green", "Blue")

	// Two votes for Red, one for Blue
	for voter, opt := range map[string]int{"v1": 0, "v2": 0, "v3": 2} {
		if _, err := svc.CastVote(context.Background(), poll.ID, voter, poll.Options[opt].ID); err != nil {
			t.Fatalf("Failed to vote: %v", err)
		}
	}

	t.Run("non-owner forbidden", func(t *testing.T) {
		title := "Hijacked"
		req := as(testutil.MakeRequest("PUT", "/api/polls/"+poll.ID, models.UpdatePollRequest{Title: &title}, nil), "mallory", models.RoleUser)
		req.SetPathValue("id", poll.ID)
		w := httptest.NewRecorder()
		handler.UpdatePoll(w, req)

		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("owner renames and reconciles options", func(t *testing.T) {
		title := "Favourite colour"
		patch := models.UpdatePollRequest{
			Title: &title,
			Options: []models.OptionPatch{
				{ID: poll.Options[0].ID, Text: "Crimson"},
				{Text: "Yellow"},
			},
		}
		req := as(testutil.MakeRequest("PUT", "/api/polls/"+poll.ID, patch, nil), "alice", models.RoleUser)
		req.SetPathValue("id", poll.ID)
		w := httptest.NewRecorder()
		handler.UpdatePoll(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.PollResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Title != title {
			t.Errorf("Expected title %q, got %q", title, resp.Title)
		}
		if len(resp.Options) != 2 {
			t.Fatalf("Expected 2 options, got %d", len(resp.Options))
		}
		if resp.Options[0].ID != poll.Options[0].ID || resp.Options[0].Votes != 2 || resp.Options[0].Text != "Crimson" {
			t.Errorf("Retained option lost its votes: %+v", resp.Options[0])
		}
		if resp.Options[1].Votes != 0 {
			t.Errorf("New option should start at zero: %+v", resp.Options[1])
		}
		if resp.TotalVotes != 2 {
			t.Errorf("Expected total 2 after dropping Blue, got %d", resp.TotalVotes)
		}

		// The stored poll matches the response
		stored, err := svc.GetPoll(context.Background(), poll.ID, auth.Caller{})
		if err != nil {
			t.Fatal(err)
		}
		if stored.TotalVotes != 2 || stored.SumVotes() != 2 || len(stored.Options) != 2 {
			t.Errorf("Stored poll out of sync: %+v", stored)
		}
	})

	t.Run("admin may deactivate", func(t *testing.T) {
		off := false
		req := as(testutil.MakeRequest("PUT", "/api/polls/"+poll.ID, models.UpdatePollRequest{IsActive: &off}, nil), "root", models.RoleAdmin)
		req.SetPathValue("id", poll.ID)
		w := httptest.NewRecorder()
		handler.UpdatePoll(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.PollResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.IsActive {
			t.Error("Expected poll to be deactivated")
		}
	})

	t.Run("invalid end date", func(t *testing.T) {
		end := poll.StartDate.Add(-time.Hour)
		req := as(testutil.MakeRequest("PUT", "/api/polls/"+poll.ID, models.UpdatePollRequest{EndDate: &end}, nil), "alice", models.RoleUser)
		req.SetPathValue("id", poll.ID)
		w := httptest.NewRecorder()
		handler.UpdatePoll(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("missing poll", func(t *testing.T) {
		title := "x"
		req := as(testutil.MakeRequest("PUT", "/api/polls/nope", models.UpdatePollRequest{Title: &title}, nil), "alice", models.RoleUser)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()
		handler.UpdatePoll(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestDeletePoll(t *testing.T) {
	svc, _ := setupService(t)
	handler := NewPollHandler(svc)
	poll := testutil.CreateTestPoll(t, svc, "alice")

	if _, err := svc.CastVote(context.Background(), poll.ID, "v1", poll.Options[0].ID); err != nil {
		t.Fatal(err)
	}

	del := func(id, caller, role string) *httptest.ResponseRecorder {
		req := as(httptest.NewRequest("DELETE", "/api/polls/"+id, nil), caller, role)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.DeletePoll(w, req)
		return w
	}

	testutil.AssertStatus(t, del(poll.ID, "mallory", models.RoleUser), http.StatusForbidden)
	testutil.AssertStatus(t, del(poll.ID, "alice", models.RoleUser), http.StatusOK)
	testutil.AssertStatus(t, del(poll.ID, "alice", models.RoleUser), http.StatusNotFound)

	if _, err := svc.GetPoll(context.Background(), poll.ID, auth.Caller{ID: "root", Role: models.RoleAdmin}); err != models.ErrNotFound {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
