// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain, request, and response types for the API,
together with the error taxonomy shared by every layer.

# Domain Types

  - Poll: poll metadata, ordered options, moderation flag, vote total
  - Option: option text and its vote counter
  - Payment: entitlement record (24h window from a completed payment)
  - PollDraft / PollPatch / OptionPatch: creation and moderation inputs
  - Tally / OptionTally: aggregated counts with rounded percentages

# Vote Rule

Poll.RecordVote applies the per-poll vote rule in order (window and
moderation flag, prior vote, option match) and updates the option counter,
TotalVotes and Voters together. Callers hold the lock that makes the poll
exclusive; the SQL repository enforces the same rule with constraints
inside one transaction.

# Errors

Business rejections are sentinel errors matched with errors.Is:

	ErrValidation, ErrNotFound, ErrForbidden, ErrPaymentRequired,
	ErrAlreadyVoted, ErrPollInactive, ErrInvalidOption, ErrDuplicatePayment

*ValidationError carries per-field messages and matches ErrValidation.
ErrStorage wraps infrastructure failures.

# Constants

Categories:

	Politics, Technology, Sports, Entertainment, Education, Other

Payment status values:

	StatusCompleted = "completed"  // the only status granting entitlement
	StatusPending   = "pending"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
*/
package models
