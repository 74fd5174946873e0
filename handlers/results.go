// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pollgate/engine"
	"github.com/danielhkuo/pollgate/middleware"
)

type ResultsHandler struct {
	svc *engine.Service
}

func NewResultsHandler(svc *engine.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// GetTally handles GET /api/polls/{id}/tally
// Counts are public while the poll is visible to the caller.
func (h *ResultsHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	tally, err := h.svc.GetTally(r.Context(), pollID, middleware.CallerFromContext(r.Context()))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tally)
}
