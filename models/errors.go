// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("poll not found")
	ErrForbidden        = errors.New("not allowed to modify this poll")
	ErrPaymentRequired  = errors.New("payment required to create a poll")
	ErrAlreadyVoted     = errors.New("already voted on this poll")
	ErrPollInactive     = errors.New("poll is not accepting votes")
	ErrInvalidOption    = errors.New("invalid option selected")
	ErrDuplicatePayment = errors.New("payment already recorded")

	// ErrStorage marks infrastructure failures, as opposed to business rejections.
	ErrStorage = errors.New("storage failure")
)

// ValidationError reports every invalid field of a request at once.
type ValidationError struct {
	Fields map[string]string
}

// Add records a problem with field; the first message per field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns e when it holds at least one field, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Kind names the error category for API consumers.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrPaymentRequired):
		return "PAYMENT_REQUIRED"
	case errors.Is(err, ErrAlreadyVoted):
		return "ALREADY_VOTED"
	case errors.Is(err, ErrPollInactive):
		return "POLL_INACTIVE"
	case errors.Is(err, ErrInvalidOption):
		return "INVALID_OPTION"
	case errors.Is(err, ErrDuplicatePayment):
		return "DUPLICATE_PAYMENT"
	default:
		return "INTERNAL"
	}
}
