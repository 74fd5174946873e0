// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testPoll() Poll {
	return Poll{
		ID:        "p",
		Options:   []Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
		StartDate: t0,
		EndDate:   t0.Add(time.Hour),
		IsActive:  true,
	}
}

func TestWindow(t *testing.T) {
	p := testPoll()
	tests := []struct {
		at   time.Time
		want Window
	}{
		{t0.Add(-time.Nanosecond), WindowUpcoming},
		{t0, WindowOpen},
		{t0.Add(30 * time.Minute), WindowOpen},
		{t0.Add(time.Hour), WindowOpen},
		{t0.Add(time.Hour + time.Nanosecond), WindowEnded},
	}
	for _, tt := range tests {
		if got := p.Window(tt.at); got != tt.want {
			t.Errorf("Window(%s) = %s, want %s", tt.at, got, tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		votes, total, want int
	}{
		{0, 0, 0},
		{3, 4, 75},
		{1, 4, 25},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds half away from zero
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := Percentage(tt.votes, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.votes, tt.total, got, tt.want)
		}
	}
}

func TestRecordVote(t *testing.T) {
	at := t0.Add(time.Minute)

	p := testPoll()
	if err := p.RecordVote("v1", "b", at); err != nil {
		t.Fatal(err)
	}
	if p.TotalVotes != 1 || p.Options[1].Votes != 1 || !p.HasVoted("v1") {
		t.Errorf("vote not applied: %+v", p)
	}

	tests := []struct {
		name  string
		setup func(*Poll)
		voter string
		opt   string
		at    time.Time
		want  error
	}{
		{"inactive wins over duplicate", func(p *Poll) { p.IsActive = false }, "v1", "zzz", at, ErrPollInactive},
		{"ended wins over duplicate", nil, "v1", "zzz", t0.Add(2 * time.Hour), ErrPollInactive},
		{"duplicate wins over bad option", nil, "v1", "zzz", at, ErrAlreadyVoted},
		{"bad option", nil, "v2", "zzz", at, ErrInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := p.Clone()
			if tt.setup != nil {
				tt.setup(&q)
			}
			before := q.Clone()
			if err := q.RecordVote(tt.voter, tt.opt, tt.at); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if q.TotalVotes != before.TotalVotes || len(q.Voters) != len(before.Voters) {
				t.Error("rejected vote changed the poll")
			}
		})
	}
}

func TestClone_Independent(t *testing.T) {
	p := testPoll()
	p.Voters = []string{"x"}
	c := p.Clone()
	c.Options[0].Votes = 9
	c.Voters[0] = "y"
	if p.Options[0].Votes != 0 || p.Voters[0] != "x" {
		t.Error("clone shares slices with the original")
	}
}

func TestTally(t *testing.T) {
	p := testPoll()
	p.Options[0].Votes, p.Options[1].Votes, p.TotalVotes = 3, 1, 4

	tally := p.Tally()
	if tally.PollID != "p" || tally.TotalVotes != 4 {
		t.Errorf("unexpected tally %+v", tally)
	}
	if tally.Options[0].Percentage != 75 || tally.Options[1].Percentage != 25 {
		t.Errorf("percentages = %d/%d", tally.Options[0].Percentage, tally.Options[1].Percentage)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, ok := ParseCategory(strings.ToUpper(string(c)))
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %q, %v", strings.ToUpper(string(c)), got, ok)
		}
	}
	if _, ok := ParseCategory("Cooking"); ok {
		t.Error("unknown category accepted")
	}
	if _, ok := ParseCategory(""); ok {
		t.Error("empty category accepted")
	}
}

func TestParsePaymentStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", StatusCompleted, true},
		{"Completed", StatusCompleted, true},
		{" refunded ", StatusRefunded, true},
		{"settled", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePaymentStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePaymentStatus(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

func TestPaymentGrants(t *testing.T) {
	p := Payment{Status: StatusCompleted, ExpiresAt: t0}
	if !p.Grants(t0.Add(-time.Second)) {
		t.Error("completed payment should grant before expiry")
	}
	if p.Grants(t0) {
		t.Error("grant must end at expiry")
	}
	p.Status = StatusRefunded
	if p.Grants(t0.Add(-time.Second)) {
		t.Error("refunded payment granted")
	}
}

func TestValidationError(t *testing.T) {
	var empty ValidationError
	if empty.OrNil() != nil {
		t.Error("empty ValidationError should be nil")
	}

	v := &ValidationError{}
	v.Add("title", "first")
	v.Add("title", "second")
	v.Add("category", "bad")

	err := v.OrNil()
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should match ErrValidation")
	}
	if v.Fields["title"] != "first" {
		t.Errorf("first message should win, got %q", v.Fields["title"])
	}
	if want := "validation failed: category: bad; title: first"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ValidationError{Fields: map[string]string{"x": "y"}}, "VALIDATION_ERROR"},
		{fmt.Errorf("wrapped: %w", ErrAlreadyVoted), "ALREADY_VOTED"},
		{ErrPaymentRequired, "PAYMENT_REQUIRED"},
		{ErrDuplicatePayment, "DUPLICATE_PAYMENT"},
		{errors.New("other"), "INTERNAL"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestPollJSON_HidesVoters(t *testing.T) {
	p := testPoll()
	p.Voters = []string{"secret-identity"}
	b, err := json.Marshal(PollResponse{Poll: p, Window: WindowOpen})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "secret-identity") {
		t.Errorf("voter identities leaked: %s", b)
	}
	if !strings.Contains(string(b), `"window":"open"`) {
		t.Errorf("window missing: %s", b)
	}
}
