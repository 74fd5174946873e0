// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"sort"
	"sync"

	"github.com/danielhkuo/pollgate/engine"
	"github.com/danielhkuo/pollgate/models"
)

// pollEntry guards one poll. Votes and updates on different polls never
// contend; the store-wide lock is held only to find or replace entries.
type pollEntry struct {
	mu      sync.Mutex
	poll    models.Poll
	deleted bool
}

// MemoryStore keeps polls and payments in process memory. Data is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	polls    map[string]*pollEntry
	payments map[string]models.Payment // keyed by external payment id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		polls:    make(map[string]*pollEntry),
		payments: make(map[string]models.Payment),
	}
}

var (
	_ engine.PollRepository    = (*MemoryStore)(nil)
	_ engine.PaymentRepository = (*MemoryStore)(nil)
)

func (m *MemoryStore) entry(pollID string) (*pollEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.polls[pollID]
	return e, ok
}

// withPoll runs fn while holding the poll's lock. Entries removed while
// waiting for the lock report models.ErrNotFound.
func (m *MemoryStore) withPoll(pollID string, fn func(*pollEntry) error) error {
	e, ok := m.entry(pollID)
	if !ok {
		return models.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return models.ErrNotFound
	}
	return fn(e)
}

func (m *MemoryStore) InsertPoll(_ context.Context, poll models.Poll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls[poll.ID] = &pollEntry{poll: poll.Clone()}
	return nil
}

func (m *MemoryStore) GetPoll(_ context.Context, pollID string) (models.Poll, error) {
	var out models.Poll
	err := m.withPoll(pollID, func(e *pollEntry) error {
		out = e.poll.Clone()
		return nil
	})
	return out, err
}

func (m *MemoryStore) ListPolls(_ context.Context, includeInactive bool) ([]models.Poll, error) {
	m.mu.RLock()
	entries := make([]*pollEntry, 0, len(m.polls))
	for _, e := range m.polls {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	polls := []models.Poll{}
	for _, e := range entries {
		e.mu.Lock()
		if !e.deleted && (includeInactive || e.poll.IsActive) {
			polls = append(polls, e.poll.Clone())
		}
		e.mu.Unlock()
	}

	sort.SliceStable(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})
	return polls, nil
}

func (m *MemoryStore) UpdatePoll(_ context.Context, pollID string, mutate func(*models.Poll) error) (models.Poll, error) {
	var out models.Poll
	err := m.withPoll(pollID, func(e *pollEntry) error {
		next := e.poll.Clone()
		if err := mutate(&next); err != nil {
			return err
		}
		e.poll = next
		out = next.Clone()
		return nil
	})
	return out, err
}

func (m *MemoryStore) DeletePoll(_ context.Context, pollID string) error {
	e, ok := m.entry(pollID)
	if !ok {
		return models.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return models.ErrNotFound
	}
	e.deleted = true

	m.mu.Lock()
	delete(m.polls, pollID)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) CastVote(_ context.Context, vote models.Vote) (models.Poll, error) {
	var out models.Poll
	err := m.withPoll(vote.PollID, func(e *pollEntry) error {
		if err := e.poll.RecordVote(vote.VoterID, vote.OptionID, vote.At); err != nil {
			return err
		}
		out = e.poll.Clone()
		return nil
	})
	return out, err
}

func (m *MemoryStore) InsertPayment(_ context.Context, p models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[p.PaymentID]; ok {
		return models.ErrDuplicatePayment
	}
	m.payments[p.PaymentID] = p
	return nil
}

func (m *MemoryStore) ListPaymentsByIdentity(_ context.Context, identityID string) ([]models.Payment, error) {
	return m.listPayments(func(p models.Payment) bool { return p.IdentityID == identityID }), nil
}

func (m *MemoryStore) ListPayments(_ context.Context) ([]models.Payment, error) {
	return m.listPayments(func(models.Payment) bool { return true }), nil
}

func (m *MemoryStore) listPayments(keep func(models.Payment) bool) []models.Payment {
	m.mu.RLock()
	out := []models.Payment{}
	for _, p := range m.payments {
		if keep(p) {
			out = append(out, p)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
