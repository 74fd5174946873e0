// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pollgate/auth"
	"github.com/danielhkuo/pollgate/engine"
	"github.com/danielhkuo/pollgate/middleware"
	"github.com/danielhkuo/pollgate/models"
)

type PollHandler struct {
	svc *engine.Service
}

func NewPollHandler(svc *engine.Service) *PollHandler {
	return &PollHandler{svc: svc}
}

// presentPoll adds the caller-relative fields to a poll.
func presentPoll(svc *engine.Service, poll models.Poll, caller auth.Caller) models.PollResponse {
	return models.PollResponse{
		Poll:     poll,
		Window:   poll.Window(svc.Now()),
		HasVoted: poll.HasVoted(caller.ID),
	}
}

// ListPolls handles GET /api/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	polls, err := h.svc.ListPolls(r.Context(), caller)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	resp := make([]models.PollResponse, 0, len(polls))
	for _, p := range polls {
		resp = append(resp, presentPoll(h.svc, p, caller))
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetPoll handles GET /api/polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}
	caller := middleware.CallerFromContext(r.Context())

	poll, err := h.svc.GetPoll(r.Context(), pollID, caller)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, presentPoll(h.svc, poll, caller))
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	caller := middleware.CallerFromContext(r.Context())

	poll, err := h.svc.CreatePoll(r.Context(), caller.ID, models.PollDraft{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Options:     req.Options,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, presentPoll(h.svc, poll, caller))
}

// UpdatePoll handles PUT /api/polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	caller := middleware.CallerFromContext(r.Context())

	poll, err := h.svc.UpdatePoll(r.Context(), pollID, caller, req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, presentPoll(h.svc, poll, caller))
}

// DeletePoll handles DELETE /api/polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}
	caller := middleware.CallerFromContext(r.Context())

	if err := h.svc.DeletePoll(r.Context(), pollID, caller); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Poll deleted"})
}
