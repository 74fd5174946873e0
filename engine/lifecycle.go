// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"strings"

	"github.com/danielhkuo/pollgate/auth"
	"github.com/danielhkuo/pollgate/models"
)

const minOptions = 2

// CreatePoll publishes a new poll for creatorID. The creator must hold a
// valid entitlement; the draft is validated only after that check.
func (s *Service) CreatePoll(ctx context.Context, creatorID string, draft models.PollDraft) (models.Poll, error) {
	entitled, err := s.IsEntitled(ctx, creatorID)
	if err != nil {
		return models.Poll{}, err
	}
	if !entitled {
		s.logger.Info("poll creation refused without payment", "creator_id", creatorID)
		return models.Poll{}, models.ErrPaymentRequired
	}

	verr := &models.ValidationError{}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		verr.Add("title", "Title is required")
	}
	category, ok := models.ParseCategory(draft.Category)
	if !ok {
		verr.Add("category", "Category must be one of: Politics, Technology, Sports, Entertainment, Education, Other")
	}
	if draft.StartDate.IsZero() {
		verr.Add("start_date", "Start date is required")
	}
	if draft.EndDate.IsZero() {
		verr.Add("end_date", "End date is required")
	}
	if !draft.StartDate.IsZero() && !draft.EndDate.IsZero() && !draft.EndDate.After(draft.StartDate) {
		verr.Add("end_date", "End date must be after start date")
	}

	options := make([]models.Option, 0, len(draft.Options))
	for _, text := range draft.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			verr.Add("options", "Option text cannot be empty")
			continue
		}
		options = append(options, models.Option{ID: s.ids.NewID(), Text: text})
	}
	if len(draft.Options) < minOptions {
		verr.Add("options", "At least 2 options are required")
	}
	if err := verr.OrNil(); err != nil {
		return models.Poll{}, err
	}

	poll := models.Poll{
		ID:          s.ids.NewID(),
		Title:       title,
		Description: strings.TrimSpace(draft.Description),
		Category:    category,
		CreatorID:   creatorID,
		Options:     options,
		StartDate:   draft.StartDate.UTC(),
		EndDate:     draft.EndDate.UTC(),
		IsActive:    true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.polls.InsertPoll(ctx, poll); err != nil {
		return models.Poll{}, err
	}

	s.logger.Info("poll created", "poll_id", poll.ID, "creator_id", creatorID, "options", len(options))
	return poll, nil
}

// UpdatePoll applies a partial patch on behalf of the poll's creator or an
// administrator.
func (s *Service) UpdatePoll(ctx context.Context, pollID string, caller auth.Caller, patch models.PollPatch) (models.Poll, error) {
	poll, err := s.polls.UpdatePoll(ctx, pollID, func(p *models.Poll) error {
		if !auth.CanModerate(caller, p.CreatorID) {
			return models.ErrForbidden
		}
		return s.applyPatch(p, patch)
	})
	if err != nil {
		return models.Poll{}, err
	}

	s.logger.Info("poll updated", "poll_id", pollID, "caller_id", caller.ID, "is_active", poll.IsActive)
	return poll, nil
}

// applyPatch changes only the fields present in patch and re-checks the
// structural invariants on the result.
func (s *Service) applyPatch(p *models.Poll, patch models.PollPatch) error {
	verr := &models.ValidationError{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			verr.Add("title", "Title cannot be empty")
		}
		p.Title = title
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.EndDate != nil {
		end := patch.EndDate.UTC()
		if !end.After(p.StartDate) {
			verr.Add("end_date", "End date must be after start date")
		}
		p.EndDate = end
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.Options != nil {
		options, err := s.reconcileOptions(p.Options, patch.Options)
		if err != nil {
			verr.Add("options", err.Error())
		}
		p.Options = options
		p.TotalVotes = p.SumVotes()
	}

	return verr.OrNil()
}

type optionError string

func (e optionError) Error() string { return string(e) }

// reconcileOptions builds the new option list. Patch entries whose id matches
// an existing option keep that option's votes; the rest start at zero.
// Existing options left out of the patch are dropped along with their votes.
func (s *Service) reconcileOptions(existing []models.Option, patch []models.OptionPatch) ([]models.Option, error) {
	byID := make(map[string]models.Option, len(existing))
	for _, o := range existing {
		byID[o.ID] = o
	}

	seen := make(map[string]bool, len(patch))
	out := make([]models.Option, 0, len(patch))
	var err error
	for _, op := range patch {
		text := strings.TrimSpace(op.Text)
		if text == "" {
			err = optionError("Option text cannot be empty")
			continue
		}
		if prev, ok := byID[op.ID]; ok && !seen[op.ID] {
			seen[op.ID] = true
			prev.Text = text
			out = append(out, prev)
			continue
		}
		out = append(out, models.Option{ID: s.ids.NewID(), Text: text})
	}
	if err == nil && len(out) < minOptions {
		err = optionError("At least 2 options are required")
	}
	return out, err
}

// DeletePoll removes a poll and everything it owns.
func (s *Service) DeletePoll(ctx context.Context, pollID string, caller auth.Caller) error {
	poll, err := s.polls.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if !auth.CanModerate(caller, poll.CreatorID) {
		return models.ErrForbidden
	}
	if err := s.polls.DeletePoll(ctx, pollID); err != nil {
		return err
	}

	s.logger.Info("poll deleted", "poll_id", pollID, "caller_id", caller.ID)
	return nil
}
