// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"math"
	"slices"
	"time"
)

// Window places now relative to the poll's [StartDate, EndDate] range.
// Both bounds are inclusive.
func (p Poll) Window(now time.Time) Window {
	switch {
	case now.Before(p.StartDate):
		return WindowUpcoming
	case now.After(p.EndDate):
		return WindowEnded
	default:
		return WindowOpen
	}
}

// AcceptsVotes combines the moderation flag with the time window.
func (p Poll) AcceptsVotes(now time.Time) bool {
	return p.IsActive && p.Window(now) == WindowOpen
}

func (p Poll) HasVoted(identityID string) bool {
	return identityID != "" && slices.Contains(p.Voters, identityID)
}

// OptionIndex returns the position of optionID, or -1.
func (p Poll) OptionIndex(optionID string) int {
	return slices.IndexFunc(p.Options, func(o Option) bool { return o.ID == optionID })
}

// SumVotes recomputes the vote total from the options.
func (p Poll) SumVotes() int {
	sum := 0
	for _, o := range p.Options {
		sum += o.Votes
	}
	return sum
}

// RecordVote applies one vote in place, checking the rules in order:
// moderation flag and window, prior vote, option match.
// The caller must hold whatever lock makes this poll exclusive.
func (p *Poll) RecordVote(voterID, optionID string, at time.Time) error {
	if !p.AcceptsVotes(at) {
		return ErrPollInactive
	}
	if p.HasVoted(voterID) {
		return ErrAlreadyVoted
	}
	idx := p.OptionIndex(optionID)
	if idx < 0 {
		return ErrInvalidOption
	}

	p.Options[idx].Votes++
	p.TotalVotes++
	p.Voters = append(p.Voters, voterID)
	return nil
}

// Clone returns a copy that shares no slices with p.
func (p Poll) Clone() Poll {
	out := p
	out.Options = slices.Clone(p.Options)
	out.Voters = slices.Clone(p.Voters)
	return out
}

// Tally aggregates the poll's counts. Percentages are rounded per option
// and may not add up to exactly 100.
func (p Poll) Tally() Tally {
	t := Tally{
		PollID:     p.ID,
		TotalVotes: p.TotalVotes,
		Options:    make([]OptionTally, 0, len(p.Options)),
	}
	for _, o := range p.Options {
		t.Options = append(t.Options, OptionTally{
			ID:         o.ID,
			Text:       o.Text,
			Votes:      o.Votes,
			Percentage: Percentage(o.Votes, p.TotalVotes),
		})
	}
	return t
}

// Percentage is round(votes / total * 100), or 0 when total is 0.
func Percentage(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}
