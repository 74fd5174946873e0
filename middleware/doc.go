// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Callers

Identity tokens arrive as "Authorization: Bearer <jwt>" and are verified
with the configured HS256 secret:

	mux.HandleFunc("GET /api/polls", middleware.WithCaller(secret, h.ListPolls))
	mux.HandleFunc("POST /api/polls", middleware.RequireCaller(secret, h.CreatePoll))

WithCaller lets anonymous requests through; RequireCaller answers 401.
Handlers read the caller with CallerFromContext.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type and Authorization.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
	middleware.WriteError(w, err)

WriteError maps engine errors to statuses:

	validation, invalid option   400
	payment required             402
	forbidden                    403
	not found                    404
	already voted, inactive,
	duplicate payment            409
	anything else                500
*/
package middleware
