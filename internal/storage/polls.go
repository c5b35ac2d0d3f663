// Package storage holds in-memory state that lives only for the lifetime of
// the process: pending quiz polls and the active chat set. Both are lost on
// restart; callers treat references to dropped entries as silent no-ops.
package storage

import (
	"sync"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
)

// PollStorage tracks pending polls by the poll id issued by Telegram,
// together with the set of users whose answer was already counted.
type PollStorage struct {
	mu       sync.RWMutex
	polls    map[string]entities.PendingPoll
	answered map[string]map[int64]struct{}
}

// NewPollStorage creates an empty PollStorage.
func NewPollStorage() *PollStorage {
	return &PollStorage{
		polls:    make(map[string]entities.PendingPoll),
		answered: make(map[string]map[int64]struct{}),
	}
}

// Store registers a pending poll under its poll id.
func (s *PollStorage) Store(pollID string, poll entities.PendingPoll) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.polls[pollID] = poll
	s.answered[pollID] = make(map[int64]struct{})
}

// Get retrieves a pending poll by id.
func (s *PollStorage) Get(pollID string) (entities.PendingPoll, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	poll, ok := s.polls[pollID]
	return poll, ok
}

// MarkAnswered records that the user has answered the poll. It returns false
// if the poll is unknown or the user was already recorded, so only the first
// answer per user per poll counts.
func (s *PollStorage) MarkAnswered(pollID string, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, ok := s.answered[pollID]
	if !ok {
		return false
	}
	if _, seen := users[userID]; seen {
		return false
	}

	users[userID] = struct{}{}
	return true
}

// Delete removes a pending poll and its answer records.
func (s *PollStorage) Delete(pollID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.polls, pollID)
	delete(s.answered, pollID)
}
