// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine implements the poll lifecycle, visibility, vote, and
entitlement rules independently of any transport or database.

# Wiring

A Service is built from repositories and optional clock, id and logger:

	svc := engine.New(engine.Dependencies{
		Polls:    store,
		Payments: store,
		Logger:   slog.Default(),
	})

Nil Clock, IDs and Logger fall back to SystemClock, UUIDGenerator and
slog.Default().

# Operations

  - CreatePoll: entitlement check, validation, insert
  - UpdatePoll / DeletePoll: creator or administrator only
  - ListPolls / GetPoll / GetTally: deactivated polls hidden from
    non-moderators as if they did not exist
  - CastVote: one vote per identity per poll, atomic in the repository
  - RecordPayment / IsEntitled / CheckEntitlement / PaymentHistory

Every rejection is one of the sentinel errors in package models.
*/
package engine
