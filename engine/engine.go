// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"log/slog"
	"time"
)

type Dependencies struct {
	Polls    PollRepository
	Payments PaymentRepository
	Clock    Clock
	IDs      IDGenerator
	Logger   *slog.Logger
}

// Service exposes the poll lifecycle, visibility, vote and entitlement
// operations independently of any transport.
type Service struct {
	polls    PollRepository
	payments PaymentRepository
	clock    Clock
	ids      IDGenerator
	logger   *slog.Logger
}

func New(deps Dependencies) *Service {
	s := &Service{
		polls:    deps.Polls,
		payments: deps.Payments,
		clock:    deps.Clock,
		ids:      deps.IDs,
		logger:   deps.Logger,
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.ids == nil {
		s.ids = UUIDGenerator{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Now is the service clock, exposed so callers format times consistently.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
