// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pollgate/engine"
	"github.com/danielhkuo/pollgate/middleware"
	"github.com/danielhkuo/pollgate/models"
)

type VotingHandler struct {
	svc *engine.Service
}

func NewVotingHandler(svc *engine.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// CastVote handles POST /api/polls/{id}/vote
// Records one vote per identity; the response carries the updated counts.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	caller := middleware.CallerFromContext(r.Context())

	poll, err := h.svc.CastVote(r.Context(), pollID, caller.ID, req.OptionID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, presentPoll(h.svc, poll, caller))
}
