// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Caller roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Payment status constants. Only StatusCompleted grants entitlement.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// EntitlementWindow is how long a completed payment permits poll creation.
const EntitlementWindow = 24 * time.Hour

// Category is one of the fixed poll categories.
type Category string

const (
	CategoryPolitics      Category = "Politics"
	CategoryTechnology    Category = "Technology"
	CategorySports        Category = "Sports"
	CategoryEntertainment Category = "Entertainment"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

var categories = []Category{
	CategoryPolitics,
	CategoryTechnology,
	CategorySports,
	CategoryEntertainment,
	CategoryEducation,
	CategoryOther,
}

// Categories returns the canonical category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory matches s case-insensitively against the canonical set.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// ParsePaymentStatus normalizes a collaborator-supplied status.
// An empty status means the payment completed.
func ParsePaymentStatus(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return StatusCompleted, true
	case StatusCompleted, StatusPending, StatusFailed, StatusRefunded:
		return s, true
	}
	return "", false
}

// Window is the computed time-window state of a poll.
type Window string

const (
	WindowUpcoming Window = "upcoming"
	WindowOpen     Window = "open"
	WindowEnded    Window = "ended"
)

// Domain types

type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type Poll struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	CreatorID   string    `json:"creator_id"`
	Options     []Option  `json:"options"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
	TotalVotes  int       `json:"total_votes"`
	Voters      []string  `json:"-"` // Never expose in JSON
	CreatedAt   time.Time `json:"created_at"`
}

// Payment is an entitlement record produced by the payment collaborator.
type Payment struct {
	ID         string          `json:"id"`
	IdentityID string          `json:"identity_id"`
	PaymentID  string          `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// Grants reports whether the record entitles its identity to create polls at now.
func (p Payment) Grants(now time.Time) bool {
	return p.Status == StatusCompleted && now.Before(p.ExpiresAt)
}

// PollDraft is the input of poll creation.
type PollDraft struct {
	Title       string
	Description string
	Category    string
	Options     []string
	StartDate   time.Time
	EndDate     time.Time
}

// OptionPatch is one entry of an options replacement. An ID that matches an
// existing option keeps its votes; anything else becomes a new option.
type OptionPatch struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// PollPatch carries only the fields to change; nil means untouched.
type PollPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	IsActive    *bool         `json:"is_active,omitempty"`
	Options     []OptionPatch `json:"options,omitempty"`
}

// Vote is the input of the atomic vote operation.
type Vote struct {
	PollID   string
	VoterID  string
	OptionID string
	At       time.Time
}

type OptionTally struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

type Tally struct {
	PollID     string        `json:"poll_id"`
	TotalVotes int           `json:"total_votes"`
	Options    []OptionTally `json:"options"`
}

// Request types

type CreatePollRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Options     []string  `json:"options"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type UpdatePollRequest = PollPatch

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
}

type RecordPaymentRequest struct {
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
}

// Response types

type PollResponse struct {
	Poll
	Window   Window `json:"window"`
	HasVoted bool   `json:"has_voted"`
}

type EntitlementResponse struct {
	HasValidPayment bool       `json:"has_valid_payment"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	ExpiresIn       string     `json:"expires_in,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
