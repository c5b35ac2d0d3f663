package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
)

// memScoreRepo is an in-memory ScoreRepository for tests.
type memScoreRepo struct {
	scores map[string]entities.UserScore
	saves  int
}

func newMemScoreRepo() *memScoreRepo {
	return &memScoreRepo{scores: map[string]entities.UserScore{}}
}

func (r *memScoreRepo) Load(_ context.Context) (map[string]entities.UserScore, error) {
	out := make(map[string]entities.UserScore, len(r.scores))
	for k, v := range r.scores {
		out[k] = v
	}
	return out, nil
}

func (r *memScoreRepo) Save(_ context.Context, scores map[string]entities.UserScore) error {
	out := make(map[string]entities.UserScore, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	r.scores = out
	r.saves++
	return nil
}

func TestScoreLedger_GetUnknownUser(t *testing.T) {
	ledger := NewScoreLedger(newMemScoreRepo(), zap.NewNop())

	score, err := ledger.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.Total != 0 || score.Weekly != 0 {
		t.Errorf("expected zero score, got %+v", score)
	}
}

func TestScoreLedger_RecordCorrectAnswer(t *testing.T) {
	ctx := context.Background()
	repo := newMemScoreRepo()
	ledger := NewScoreLedger(repo, zap.NewNop())

	// Interleave two users; each credit bumps both counters by one.
	for i := 0; i < 3; i++ {
		if err := ledger.RecordCorrectAnswer(ctx, "u1"); err != nil {
			t.Fatal(err)
		}
		if err := ledger.RecordCorrectAnswer(ctx, "u2"); err != nil {
			t.Fatal(err)
		}
	}
	if err := ledger.RecordCorrectAnswer(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	u1, _ := ledger.Get(ctx, "u1")
	u2, _ := ledger.Get(ctx, "u2")

	if u1.Total != 4 || u1.Weekly != 4 {
		t.Errorf("u1: expected 4/4, got %+v", u1)
	}
	if u2.Total != 3 || u2.Weekly != 3 {
		t.Errorf("u2: expected 3/3, got %+v", u2)
	}
	if u1.Weekly > u1.Total || u2.Weekly > u2.Total {
		t.Error("weekly must never exceed total")
	}
	if repo.saves != 7 {
		t.Errorf("expected a save per mutation, got %d", repo.saves)
	}
}

func TestScoreLedger_ResetWeekly(t *testing.T) {
	ctx := context.Background()
	repo := newMemScoreRepo()
	repo.scores = map[string]entities.UserScore{
		"u1": {Total: 3, Weekly: 3},
		"u2": {Total: 5, Weekly: 1},
	}
	ledger := NewScoreLedger(repo, zap.NewNop())

	if err := ledger.ResetWeekly(ctx); err != nil {
		t.Fatal(err)
	}

	u1, _ := ledger.Get(ctx, "u1")
	u2, _ := ledger.Get(ctx, "u2")

	if u1.Weekly != 0 || u2.Weekly != 0 {
		t.Errorf("expected weekly zeroed, got %+v %+v", u1, u2)
	}
	if u1.Total != 3 || u2.Total != 5 {
		t.Errorf("totals must be untouched, got %+v %+v", u1, u2)
	}
}

func TestScoreLedger_TopN(t *testing.T) {
	ctx := context.Background()
	repo := newMemScoreRepo()
	repo.scores = map[string]entities.UserScore{
		"u1": {Total: 3, Weekly: 3},
		"u2": {Total: 5, Weekly: 1},
		"u3": {Total: 9, Weekly: 7},
		"u4": {Total: 2, Weekly: 0},
	}
	ledger := NewScoreLedger(repo, zap.NewNop())

	entries, err := ledger.TopN(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}

	// u4 has no weekly points and is not listed.
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	for i := 1; i < len(entries); i++ {
		if entries[i-1].Score.Weekly < entries[i].Score.Weekly {
			t.Fatalf("entries not sorted descending: %+v", entries)
		}
	}
	if entries[0].UserID != "u3" || entries[1].UserID != "u1" || entries[2].UserID != "u2" {
		t.Errorf("unexpected order: %+v", entries)
	}

	top1, err := ledger.TopN(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(top1) != 1 || top1[0].UserID != "u3" {
		t.Errorf("expected only u3, got %+v", top1)
	}
}
