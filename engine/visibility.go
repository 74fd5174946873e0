// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"

	"github.com/danielhkuo/pollgate/auth"
	"github.com/danielhkuo/pollgate/models"
)

// ListPolls returns every poll to administrators and only active polls to
// everyone else, newest first.
func (s *Service) ListPolls(ctx context.Context, caller auth.Caller) ([]models.Poll, error) {
	return s.polls.ListPolls(ctx, auth.IsAdmin(caller))
}

// GetPoll returns the poll if the caller may see it. A deactivated poll is
// reported as models.ErrNotFound to callers who cannot moderate it.
func (s *Service) GetPoll(ctx context.Context, pollID string, caller auth.Caller) (models.Poll, error) {
	poll, err := s.polls.GetPoll(ctx, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	if !poll.IsActive && !auth.CanSeeHidden(caller, poll.CreatorID) {
		return models.Poll{}, models.ErrNotFound
	}
	return poll, nil
}
