// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"sort"

	"github.com/danielhkuo/pollgate/models"
)

const paymentColumns = `id, identity_id, payment_id, amount, currency, status, created_at, expires_at`

// InsertPayment stores an entitlement record. A second record with the same
// external payment id is rejected with models.ErrDuplicatePayment.
func (s *Store) InsertPayment(ctx context.Context, p models.Payment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payment (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.IdentityID, p.PaymentID, p.Amount.StringFixed(2), p.Currency, p.Status,
		p.CreatedAt.UTC(), p.ExpiresAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicatePayment
		}
		return s.fail("insert payment", err, "payment_id", p.PaymentID)
	}
	return nil
}

// ListPaymentsByIdentity returns the identity's records, newest first.
func (s *Store) ListPaymentsByIdentity(ctx context.Context, identityID string) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payment
		WHERE identity_id = $1
	`, identityID)
	if err != nil {
		return nil, s.fail("list payments", err, "identity_id", identityID)
	}
	return s.collectPayments(rows)
}

// ListPayments returns every record, newest first.
func (s *Store) ListPayments(ctx context.Context) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payment`)
	if err != nil {
		return nil, s.fail("list payments", err)
	}
	return s.collectPayments(rows)
}

func (s *Store) collectPayments(rows *sql.Rows) ([]models.Payment, error) {
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(&p.ID, &p.IdentityID, &p.PaymentID, &p.Amount, &p.Currency,
			&p.Status, &p.CreatedAt, &p.ExpiresAt)
		if err != nil {
			return nil, s.fail("scan payment", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		p.ExpiresAt = p.ExpiresAt.UTC()
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list payments", err)
	}

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}
