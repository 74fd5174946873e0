// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/pollgate/cliparse"
	"github.com/danielhkuo/pollgate/engine"
	"github.com/danielhkuo/pollgate/handlers"
	"github.com/danielhkuo/pollgate/middleware"
)

func NewRouter(svc *engine.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc)
	resultsHandler := handlers.NewResultsHandler(svc)
	paymentHandler := handlers.NewPaymentHandler(svc)

	// optional resolves the caller when a token is present; required demands one
	optional := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithCaller(cfg.JWTSecret, h))
	}
	required := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireCaller(cfg.JWTSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll lifecycle
	mux.HandleFunc("GET /api/polls", optional(pollHandler.ListPolls))
	mux.HandleFunc("GET /api/polls/{id}", optional(pollHandler.GetPoll))
	mux.HandleFunc("POST /api/polls", required(pollHandler.CreatePoll))
	mux.HandleFunc("PUT /api/polls/{id}", required(pollHandler.UpdatePoll))
	mux.HandleFunc("DELETE /api/polls/{id}", required(pollHandler.DeletePoll))

	// Voting and tallies
	mux.HandleFunc("POST /api/polls/{id}/vote", required(votingHandler.CastVote))
	mux.HandleFunc("GET /api/polls/{id}/tally", optional(resultsHandler.GetTally))

	// Payment entitlement
	mux.HandleFunc("POST /api/payment/record", required(paymentHandler.RecordPayment))
	mux.HandleFunc("GET /api/payment/check", required(paymentHandler.CheckPayment))
	mux.HandleFunc("GET /api/payment/history", required(paymentHandler.PaymentHistory))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollgate API v1"))
	})

	return mux
}
