// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/pollgate/engine"
	"github.com/danielhkuo/pollgate/middleware"
	"github.com/danielhkuo/pollgate/models"
)

type PaymentHandler struct {
	svc *engine.Service
}

func NewPaymentHandler(svc *engine.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// RecordPayment handles POST /api/payment/record
// The payment collaborator reports a payment for the calling identity.
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req models.RecordPaymentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	caller := middleware.CallerFromContext(r.Context())

	payment, err := h.svc.RecordPayment(r.Context(), caller.ID, req.PaymentID, req.Amount, req.Currency, req.Status)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, payment)
}

// CheckPayment handles GET /api/payment/check
func (h *PaymentHandler) CheckPayment(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	payment, ok, err := h.svc.CheckEntitlement(r.Context(), caller.ID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	resp := models.EntitlementResponse{HasValidPayment: ok}
	if ok {
		expires := payment.ExpiresAt
		resp.ExpiresAt = &expires
		resp.ExpiresIn = humanize.RelTime(expires, h.svc.Now(), "ago", "from now")
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// PaymentHistory handles GET /api/payment/history (administrators only)
func (h *PaymentHandler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.PaymentHistory(r.Context(), middleware.CallerFromContext(r.Context()))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, payments)
}
