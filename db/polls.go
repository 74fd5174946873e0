// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/danielhkuo/pollgate/models"
)

const pollColumns = `id, title, description, category, creator_id, start_date, end_date,
       is_active, total_votes, created_at`

func scanPoll(row interface{ Scan(...any) error }) (models.Poll, error) {
	var p models.Poll
	var category string
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &category, &p.CreatorID,
		&p.StartDate, &p.EndDate, &p.IsActive, &p.TotalVotes, &p.CreatedAt,
	)
	if err != nil {
		return models.Poll{}, err
	}
	p.Category = models.Category(category)
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.Options = []models.Option{}
	return p, nil
}

// InsertPoll stores a new poll with its options.
func (s *Store) InsertPoll(ctx context.Context, poll models.Poll) error {
	return s.withTx(ctx, "insert poll", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO poll (id, title, description, category, creator_id, start_date, end_date,
			                  is_active, total_votes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, poll.ID, poll.Title, poll.Description, string(poll.Category), poll.CreatorID,
			poll.StartDate.UTC(), poll.EndDate.UTC(), poll.IsActive, poll.TotalVotes, poll.CreatedAt.UTC())
		if err != nil {
			return s.fail("insert poll", err, "poll_id", poll.ID)
		}

		for i, opt := range poll.Options {
			if err := insertOption(ctx, tx, poll.ID, i, opt); err != nil {
				return s.fail("insert option", err, "poll_id", poll.ID)
			}
		}
		return nil
	})
}

func insertOption(ctx context.Context, q querier, pollID string, position int, opt models.Option) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO poll_option (id, poll_id, position, text, votes)
		VALUES ($1, $2, $3, $4, $5)
	`, opt.ID, pollID, position, opt.Text, opt.Votes)
	return err
}

// GetPoll loads a poll with its options and voters.
func (s *Store) GetPoll(ctx context.Context, pollID string) (models.Poll, error) {
	return s.loadPoll(ctx, s.db, pollID, false)
}

// loadPoll reads a full poll through q, optionally locking the poll row.
func (s *Store) loadPoll(ctx context.Context, q querier, pollID string, lock bool) (models.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM poll WHERE id = $1`
	if lock {
		query += s.lockClause()
	}

	poll, err := scanPoll(q.QueryRowContext(ctx, query, pollID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, models.ErrNotFound
	}
	if err != nil {
		return models.Poll{}, s.fail("query poll", err, "poll_id", pollID)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, text, votes
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return models.Poll{}, s.fail("query options", err, "poll_id", pollID)
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.Text, &opt.Votes); err != nil {
			return models.Poll{}, s.fail("scan option", err, "poll_id", pollID)
		}
		poll.Options = append(poll.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return models.Poll{}, s.fail("query options", err, "poll_id", pollID)
	}

	voterRows, err := q.QueryContext(ctx, `
		SELECT voter_id FROM poll_voter WHERE poll_id = $1 ORDER BY voted_at
	`, pollID)
	if err != nil {
		return models.Poll{}, s.fail("query voters", err, "poll_id", pollID)
	}
	defer voterRows.Close()

	for voterRows.Next() {
		var voterID string
		if err := voterRows.Scan(&voterID); err != nil {
			return models.Poll{}, s.fail("scan voter", err, "poll_id", pollID)
		}
		poll.Voters = append(poll.Voters, voterID)
	}
	if err := voterRows.Err(); err != nil {
		return models.Poll{}, s.fail("query voters", err, "poll_id", pollID)
	}

	return poll, nil
}

// ListPolls returns polls newest first with options and voters attached.
func (s *Store) ListPolls(ctx context.Context, includeInactive bool) ([]models.Poll, error) {
	filter := ""
	var args []any
	if !includeInactive {
		filter = " WHERE p.is_active = $1"
		args = append(args, true)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+pollColumns+` FROM poll p`+filter+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, s.fail("list polls", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, s.fail("scan poll", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list polls", err)
	}

	byID := make(map[string]int, len(polls))
	for i, p := range polls {
		byID[p.ID] = i
	}

	optRows, err := s.db.QueryContext(ctx, `
		SELECT o.poll_id, o.id, o.text, o.votes
		FROM poll_option o
		JOIN poll p ON p.id = o.poll_id`+filter+`
		ORDER BY o.poll_id, o.position
	`, args...)
	if err != nil {
		return nil, s.fail("list options", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var pollID string
		var opt models.Option
		if err := optRows.Scan(&pollID, &opt.ID, &opt.Text, &opt.Votes); err != nil {
			return nil, s.fail("scan option", err)
		}
		if i, ok := byID[pollID]; ok {
			polls[i].Options = append(polls[i].Options, opt)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, s.fail("list options", err)
	}

	voterRows, err := s.db.QueryContext(ctx, `
		SELECT v.poll_id, v.voter_id
		FROM poll_voter v
		JOIN poll p ON p.id = v.poll_id`+filter+`
		ORDER BY v.voted_at
	`, args...)
	if err != nil {
		return nil, s.fail("list voters", err)
	}
	defer voterRows.Close()

	for voterRows.Next() {
		var pollID, voterID string
		if err := voterRows.Scan(&pollID, &voterID); err != nil {
			return nil, s.fail("scan voter", err)
		}
		if i, ok := byID[pollID]; ok {
			polls[i].Voters = append(polls[i].Voters, voterID)
		}
	}
	if err := voterRows.Err(); err != nil {
		return nil, s.fail("list voters", err)
	}

	// SQLite compares timestamps as text; order on the parsed values.
	sort.SliceStable(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})
	return polls, nil
}

// UpdatePoll locks the poll, lets mutate change it, and writes the moderated
// fields and the reconciled options back.
func (s *Store) UpdatePoll(ctx context.Context, pollID string, mutate func(*models.Poll) error) (models.Poll, error) {
	var updated models.Poll
	err := s.withTx(ctx, "update poll", func(tx *sql.Tx) error {
		current, err := s.loadPoll(ctx, tx, pollID, true)
		if err != nil {
			return err
		}

		next := current.Clone()
		if err := mutate(&next); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE poll
			SET title = $1, description = $2, end_date = $3, is_active = $4, total_votes = $5
			WHERE id = $6
		`, next.Title, next.Description, next.EndDate.UTC(), next.IsActive, next.TotalVotes, pollID)
		if err != nil {
			return s.fail("update poll", err, "poll_id", pollID)
		}

		kept := make(map[string]bool, len(next.Options))
		for _, o := range next.Options {
			kept[o.ID] = true
		}
		for _, o := range current.Options {
			if kept[o.ID] {
				continue
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM poll_option WHERE id = $1`, o.ID); err != nil {
				return s.fail("delete option", err, "poll_id", pollID, "option_id", o.ID)
			}
		}

		existing := make(map[string]bool, len(current.Options))
		for _, o := range current.Options {
			existing[o.ID] = true
		}
		for i, o := range next.Options {
			if existing[o.ID] {
				_, err = tx.ExecContext(ctx, `
					UPDATE poll_option SET text = $1, position = $2 WHERE id = $3
				`, o.Text, i, o.ID)
			} else {
				err = insertOption(ctx, tx, pollID, i, o)
			}
			if err != nil {
				return s.fail("write option", err, "poll_id", pollID, "option_id", o.ID)
			}
		}

		updated = next
		return nil
	})
	if err != nil {
		return models.Poll{}, err
	}
	return updated, nil
}

// DeletePoll removes the poll, its options and its voter rows.
func (s *Store) DeletePoll(ctx context.Context, pollID string) error {
	return s.withTx(ctx, "delete poll", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM poll_voter WHERE poll_id = $1`, pollID); err != nil {
			return s.fail("delete voters", err, "poll_id", pollID)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM poll_option WHERE poll_id = $1`, pollID); err != nil {
			return s.fail("delete options", err, "poll_id", pollID)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, pollID)
		if err != nil {
			return s.fail("delete poll", err, "poll_id", pollID)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return s.fail("delete poll", err, "poll_id", pollID)
		}
		if n == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

// CastVote runs the vote rule as one transaction. The poll row is locked
// first so votes and moderation updates on a poll serialize; the voter row's
// primary key rejects a second vote even if two requests race.
func (s *Store) CastVote(ctx context.Context, vote models.Vote) (models.Poll, error) {
	var result models.Poll
	err := s.withTx(ctx, "cast vote", func(tx *sql.Tx) error {
		poll, err := scanPoll(tx.QueryRowContext(ctx,
			`SELECT `+pollColumns+` FROM poll WHERE id = $1`+s.lockClause(), vote.PollID))
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return s.fail("query poll", err, "poll_id", vote.PollID)
		}

		if !poll.AcceptsVotes(vote.At) {
			return models.ErrPollInactive
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_voter (poll_id, voter_id, option_id, voted_at)
			VALUES ($1, $2, $3, $4)
		`, vote.PollID, vote.VoterID, vote.OptionID, vote.At.UTC())
		if err != nil {
			if isUniqueViolation(err) {
				return models.ErrAlreadyVoted
			}
			return s.fail("insert voter", err, "poll_id", vote.PollID)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE poll_option SET votes = votes + 1
			WHERE poll_id = $1 AND id = $2
		`, vote.PollID, vote.OptionID)
		if err != nil {
			return s.fail("increment option", err, "poll_id", vote.PollID)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return s.fail("increment option", err, "poll_id", vote.PollID)
		}
		if n == 0 {
			return models.ErrInvalidOption
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE poll SET total_votes = total_votes + 1 WHERE id = $1
		`, vote.PollID)
		if err != nil {
			return s.fail("increment total", err, "poll_id", vote.PollID)
		}

		result, err = s.loadPoll(ctx, tx, vote.PollID, false)
		return err
	})
	if err != nil {
		return models.Poll{}, err
	}
	return result, nil
}
