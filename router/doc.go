// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the pollgate API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, cfg)

# Endpoints

Health:

	GET /health

Polls (token optional on reads, required on writes):

	GET    /api/polls       - Visible polls, newest first
	GET    /api/polls/{id}  - One poll
	POST   /api/polls       - Create poll (needs a valid payment)
	PUT    /api/polls/{id}  - Update poll (creator or admin)
	DELETE /api/polls/{id}  - Delete poll (creator or admin)

Voting:

	POST /api/polls/{id}/vote  - Cast the caller's single vote
	GET  /api/polls/{id}/tally - Counts and percentages

Payments:

	POST /api/payment/record  - Record a payment for the caller
	GET  /api/payment/check   - Caller's entitlement status
	GET  /api/payment/history - All payments (admin)

# Authentication

Identity tokens are HS256 JWTs signed with cfg.JWTSecret and sent as
"Authorization: Bearer <token>". The subject claim is the identity id and
the role claim is "admin" or "user".
*/
package router
