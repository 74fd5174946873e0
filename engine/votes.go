// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/danielhkuo/pollgate/auth"
	"github.com/danielhkuo/pollgate/models"
)

// CastVote records voterID's vote for optionID. The prior-vote check, option
// match and counter updates happen as one unit inside the repository.
func (s *Service) CastVote(ctx context.Context, pollID, voterID, optionID string) (models.Poll, error) {
	if strings.TrimSpace(voterID) == "" {
		return models.Poll{}, &models.ValidationError{Fields: map[string]string{"voter_id": "voter is required"}}
	}

	poll, err := s.polls.CastVote(ctx, models.Vote{
		PollID:   pollID,
		VoterID:  voterID,
		OptionID: strings.TrimSpace(optionID),
		At:       s.clock.Now(),
	})
	if err != nil {
		if !errors.Is(err, models.ErrStorage) {
			s.logger.Info("vote rejected", "poll_id", pollID, "voter_id", voterID, "reason", models.Kind(err))
		}
		return models.Poll{}, err
	}

	s.logger.Info("vote cast", "poll_id", pollID, "option_id", optionID, "total_votes", poll.TotalVotes)
	return poll, nil
}

// GetTally aggregates the counts of a poll the caller may see.
func (s *Service) GetTally(ctx context.Context, pollID string, caller auth.Caller) (models.Tally, error) {
	poll, err := s.GetPoll(ctx, pollID, caller)
	if err != nil {
		return models.Tally{}, err
	}
	return poll.Tally(), nil
}
