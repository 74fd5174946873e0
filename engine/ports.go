// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollgate/models"
)

// PollRepository owns poll records. Implementations return models.ErrNotFound
// for unknown ids and wrap infrastructure failures with models.ErrStorage.
type PollRepository interface {
	InsertPoll(ctx context.Context, poll models.Poll) error
	GetPoll(ctx context.Context, pollID string) (models.Poll, error)
	// ListPolls returns polls newest first, inactive ones only when asked.
	ListPolls(ctx context.Context, includeInactive bool) ([]models.Poll, error)
	// UpdatePoll runs mutate on the current poll under the same per-poll
	// exclusion as CastVote and persists the result if mutate returns nil.
	UpdatePoll(ctx context.Context, pollID string, mutate func(*models.Poll) error) (models.Poll, error)
	DeletePoll(ctx context.Context, pollID string) error
	// CastVote applies models.Poll.RecordVote atomically.
	CastVote(ctx context.Context, vote models.Vote) (models.Poll, error)
}

// PaymentRepository owns entitlement records. InsertPayment returns
// models.ErrDuplicatePayment when the external payment id is already stored.
type PaymentRepository interface {
	InsertPayment(ctx context.Context, payment models.Payment) error
	ListPaymentsByIdentity(ctx context.Context, identityID string) ([]models.Payment, error)
	ListPayments(ctx context.Context) ([]models.Payment, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }
