// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pollgate API.

# Handler Types

Each handler is a thin struct over the engine service:

  - PollHandler: List, get, create, update and delete polls
  - VotingHandler: Cast a vote
  - ResultsHandler: Vote tallies
  - PaymentHandler: Record payments, check entitlement, payment history

	pollHandler := handlers.NewPollHandler(svc)

Handlers read the caller placed on the request context by
middleware.WithCaller or middleware.RequireCaller and turn engine errors
into responses with middleware.WriteError.

# Poll Responses

Poll endpoints return the poll with two caller-relative fields:

	window     upcoming, open or ended at the service clock
	has_voted  whether the caller already voted

Voter identities are never serialized.

# Payments

A completed payment entitles its identity to create polls for 24 hours.
GET /api/payment/check reports the latest expiry and a humanized
remaining time ("23 hours from now").
*/
package handlers
