// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/pollgate/auth"
	"github.com/danielhkuo/pollgate/models"
)

// RecordPayment stores a payment reported by the payment collaborator. The
// record entitles identityID for models.EntitlementWindow if it completed.
func (s *Service) RecordPayment(ctx context.Context, identityID, paymentID string, amount decimal.Decimal, currency, status string) (models.Payment, error) {
	verr := &models.ValidationError{}
	if strings.TrimSpace(identityID) == "" {
		verr.Add("identity_id", "identity is required")
	}
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		verr.Add("payment_id", "payment_id is required")
	}
	if amount.IsNegative() {
		verr.Add("amount", "amount cannot be negative")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		verr.Add("currency", "currency is required")
	}
	status, ok := models.ParsePaymentStatus(status)
	if !ok {
		verr.Add("status", "status must be one of: completed, pending, failed, refunded")
	}
	if err := verr.OrNil(); err != nil {
		return models.Payment{}, err
	}

	now := s.clock.Now()
	payment := models.Payment{
		ID:         s.ids.NewID(),
		IdentityID: identityID,
		PaymentID:  paymentID,
		Amount:     amount,
		Currency:   currency,
		Status:     status,
		CreatedAt:  now,
		ExpiresAt:  now.Add(models.EntitlementWindow),
	}

	if err := s.payments.InsertPayment(ctx, payment); err != nil {
		if errors.Is(err, models.ErrDuplicatePayment) {
			s.logger.Warn("duplicate payment rejected", "payment_id", paymentID, "identity_id", identityID)
		}
		return models.Payment{}, err
	}

	s.logger.Info("payment recorded",
		"payment_id", paymentID,
		"identity_id", identityID,
		"status", status,
		"expires_at", payment.ExpiresAt,
	)
	return payment, nil
}

// IsEntitled reports whether identityID holds a completed, unexpired payment.
func (s *Service) IsEntitled(ctx context.Context, identityID string) (bool, error) {
	_, ok, err := s.CheckEntitlement(ctx, identityID)
	return ok, err
}

// CheckEntitlement returns the valid record with the latest expiry, if any.
func (s *Service) CheckEntitlement(ctx context.Context, identityID string) (models.Payment, bool, error) {
	if strings.TrimSpace(identityID) == "" {
		return models.Payment{}, false, nil
	}

	payments, err := s.payments.ListPaymentsByIdentity(ctx, identityID)
	if err != nil {
		return models.Payment{}, false, err
	}

	now := s.clock.Now()
	var best models.Payment
	found := false
	for _, p := range payments {
		if !p.Grants(now) {
			continue
		}
		if !found || p.ExpiresAt.After(best.ExpiresAt) {
			best = p
			found = true
		}
	}
	return best, found, nil
}

// PaymentHistory lists every recorded payment, newest first. Administrators only.
func (s *Service) PaymentHistory(ctx context.Context, caller auth.Caller) ([]models.Payment, error) {
	if !auth.IsAdmin(caller) {
		return nil, models.ErrForbidden
	}
	return s.payments.ListPayments(ctx)
}
