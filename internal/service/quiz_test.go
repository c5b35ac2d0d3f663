package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
	"github.com/aqylbek/islamquiz-bot/internal/storage"
)

// fakeNotifier records sent polls and reveals.
type fakeNotifier struct {
	nextPollID string
	polls      []int64 // chat ids that received a poll
	reveals    []revealCall
	sendErr    error
}

type revealCall struct {
	chatID   int64
	question entities.Question
}

func (n *fakeNotifier) SendQuizPoll(chatID int64, _ entities.Question) (string, int, error) {
	if n.sendErr != nil {
		return "", 0, n.sendErr
	}
	n.polls = append(n.polls, chatID)
	return n.nextPollID, len(n.polls), nil
}

func (n *fakeNotifier) SendReveal(chatID int64, question entities.Question) error {
	n.reveals = append(n.reveals, revealCall{chatID: chatID, question: question})
	return nil
}

var testQuestion = entities.Question{
	Text:            "Q",
	Options:         []string{"A", "B", "C"},
	CorrectOptionID: 1,
	Explanation:     "E",
	Motivation:      "M",
}

func newQuizFixture(t *testing.T) (*QuizService, *storage.PollStorage, *fakeNotifier, *memScoreRepo) {
	t.Helper()

	polls := storage.NewPollStorage()
	repo := newMemScoreRepo()
	ledger := NewScoreLedger(repo, zap.NewNop())

	svc := NewQuizService(polls, ledger, zap.NewNop(), time.Hour)
	notifier := &fakeNotifier{nextPollID: "poll-1"}
	svc.SetNotifier(notifier)

	return svc, polls, notifier, repo
}

func TestDispatch(t *testing.T) {
	svc, polls, notifier, _ := newQuizFixture(t)

	pollID, err := svc.Dispatch(context.Background(), 100, testQuestion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pollID != "poll-1" {
		t.Errorf("expected poll id poll-1, got %q", pollID)
	}
	if len(notifier.polls) != 1 || notifier.polls[0] != 100 {
		t.Errorf("expected one poll to chat 100, got %v", notifier.polls)
	}

	pending, ok := polls.Get("poll-1")
	if !ok {
		t.Fatal("expected pending poll to be registered")
	}
	if pending.ChatID != 100 {
		t.Errorf("expected chat 100, got %d", pending.ChatID)
	}
	if pending.Question.CorrectOption() != "B" {
		t.Errorf("unexpected question in pending poll: %+v", pending.Question)
	}
}

func TestDispatch_SendFails(t *testing.T) {
	svc, polls, notifier, _ := newQuizFixture(t)
	notifier.sendErr = fmt.Errorf("boom")

	if _, err := svc.Dispatch(context.Background(), 100, testQuestion); err == nil {
		t.Fatal("expected error when poll send fails")
	}
	if _, ok := polls.Get("poll-1"); ok {
		t.Error("failed dispatch must not register a pending poll")
	}
}

func TestReveal(t *testing.T) {
	svc, polls, notifier, _ := newQuizFixture(t)

	if _, err := svc.Dispatch(context.Background(), 100, testQuestion); err != nil {
		t.Fatal(err)
	}

	svc.Reveal("poll-1")

	if len(notifier.reveals) != 1 {
		t.Fatalf("expected one reveal, got %d", len(notifier.reveals))
	}
	reveal := notifier.reveals[0]
	if reveal.chatID != 100 {
		t.Errorf("expected reveal in chat 100, got %d", reveal.chatID)
	}
	if reveal.question.CorrectOption() != "B" || reveal.question.Explanation != "E" || reveal.question.Motivation != "M" {
		t.Errorf("reveal question lost content: %+v", reveal.question)
	}

	// Revealed polls are dropped; a second timer firing does nothing.
	if _, ok := polls.Get("poll-1"); ok {
		t.Error("expected pending poll to be removed after reveal")
	}
	svc.Reveal("poll-1")
	if len(notifier.reveals) != 1 {
		t.Error("repeat reveal must be a no-op")
	}
}

func TestReveal_UnknownPoll(t *testing.T) {
	svc, _, notifier, _ := newQuizFixture(t)

	svc.Reveal("never-dispatched")

	if len(notifier.reveals) != 0 {
		t.Error("unknown poll id must be a silent no-op")
	}
}

func TestProcessAnswer(t *testing.T) {
	ctx := context.Background()
	svc, _, _, repo := newQuizFixture(t)
	if _, err := svc.Dispatch(ctx, 100, testQuestion); err != nil {
		t.Fatal(err)
	}

	// Correct answer credits the user once.
	if err := svc.ProcessAnswer(ctx, "poll-1", 42, []int{1}); err != nil {
		t.Fatal(err)
	}
	if got := repo.scores["42"]; got.Total != 1 || got.Weekly != 1 {
		t.Errorf("expected 1/1 for user 42, got %+v", got)
	}

	// A changed vote does not credit again (first answer wins).
	if err := svc.ProcessAnswer(ctx, "poll-1", 42, []int{1}); err != nil {
		t.Fatal(err)
	}
	if got := repo.scores["42"]; got.Total != 1 {
		t.Errorf("repeat answer must not credit again, got %+v", got)
	}
}

func TestProcessAnswer_Wrong(t *testing.T) {
	ctx := context.Background()
	svc, _, _, repo := newQuizFixture(t)
	if _, err := svc.Dispatch(ctx, 100, testQuestion); err != nil {
		t.Fatal(err)
	}

	if err := svc.ProcessAnswer(ctx, "poll-1", 42, []int{0}); err != nil {
		t.Fatal(err)
	}
	if len(repo.scores) != 0 {
		t.Errorf("wrong answer must not mutate the ledger: %+v", repo.scores)
	}

	// The wrong answer consumed the user's attempt; switching to the
	// correct option later earns nothing.
	if err := svc.ProcessAnswer(ctx, "poll-1", 42, []int{1}); err != nil {
		t.Fatal(err)
	}
	if len(repo.scores) != 0 {
		t.Errorf("changed vote must not credit: %+v", repo.scores)
	}
}

func TestProcessAnswer_UnknownPollAndRetraction(t *testing.T) {
	ctx := context.Background()
	svc, _, _, repo := newQuizFixture(t)
	if _, err := svc.Dispatch(ctx, 100, testQuestion); err != nil {
		t.Fatal(err)
	}

	if err := svc.ProcessAnswer(ctx, "stale-poll", 42, []int{1}); err != nil {
		t.Fatalf("unknown poll must not error: %v", err)
	}

	// Retracted vote carries no options and is ignored entirely.
	if err := svc.ProcessAnswer(ctx, "poll-1", 42, nil); err != nil {
		t.Fatal(err)
	}
	if err := svc.ProcessAnswer(ctx, "poll-1", 42, []int{1}); err != nil {
		t.Fatal(err)
	}
	if got := repo.scores["42"]; got.Total != 1 {
		t.Errorf("retraction must not consume the attempt, got %+v", got)
	}
}
