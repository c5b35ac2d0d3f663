package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
)

// ScoreRepository is the persistence contract for the ledger. Load returns
// the full mapping (empty when the backing resource is absent) and Save
// replaces it whole, so the last writer wins.
type ScoreRepository interface {
	Load(ctx context.Context) (map[string]entities.UserScore, error)
	Save(ctx context.Context, scores map[string]entities.UserScore) error
}

// LedgerEntry pairs a user id with their score for leaderboard rendering.
type LedgerEntry struct {
	UserID string
	Score  entities.UserScore
}

// ScoreLedger maintains per-user point totals. Every mutation is a
// load-modify-save cycle against the repository; the mutex serializes those
// cycles so concurrent answer events cannot lose updates.
type ScoreLedger struct {
	mu     sync.Mutex
	repo   ScoreRepository
	logger *zap.Logger
}

// NewScoreLedger creates a ledger on top of the given repository.
func NewScoreLedger(repo ScoreRepository, logger *zap.Logger) *ScoreLedger {
	return &ScoreLedger{
		repo:   repo,
		logger: logger,
	}
}

// RecordCorrectAnswer credits the user with one point on both counters,
// creating the entry if the user has never scored before.
func (l *ScoreLedger) RecordCorrectAnswer(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	scores, err := l.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}

	score := scores[userID]
	score.Total++
	score.Weekly++
	scores[userID] = score

	if err := l.repo.Save(ctx, scores); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}

	l.logger.Info("correct answer recorded",
		zap.String("user_id", userID),
		zap.Int("total", score.Total),
		zap.Int("weekly", score.Weekly),
	)

	return nil
}

// Get returns the user's score. Users who never scored get zeros.
func (l *ScoreLedger) Get(ctx context.Context, userID string) (entities.UserScore, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	scores, err := l.repo.Load(ctx)
	if err != nil {
		return entities.UserScore{}, fmt.Errorf("load scores: %w", err)
	}

	return scores[userID], nil
}

// ResetWeekly zeroes every user's weekly counter, leaving totals untouched.
func (l *ScoreLedger) ResetWeekly(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	scores, err := l.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}

	for userID, score := range scores {
		score.Weekly = 0
		scores[userID] = score
	}

	if err := l.repo.Save(ctx, scores); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}

	l.logger.Info("weekly scores reset", zap.Int("users", len(scores)))

	return nil
}

// TopN returns up to n users with the highest weekly score, descending.
// Users with a zero weekly score are not listed; ties keep their relative
// order from the loaded mapping.
func (l *ScoreLedger) TopN(ctx context.Context, n int) ([]LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	scores, err := l.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}

	entries := make([]LedgerEntry, 0, len(scores))
	for userID, score := range scores {
		if score.Weekly == 0 {
			continue
		}
		entries = append(entries, LedgerEntry{UserID: userID, Score: score})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score.Weekly > entries[j].Score.Weekly
	})

	if len(entries) > n {
		entries = entries[:n]
	}

	return entries, nil
}
