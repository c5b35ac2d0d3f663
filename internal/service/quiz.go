package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
	"github.com/aqylbek/islamquiz-bot/internal/storage"
)

// QuizNotifier sends quiz polls and reveal messages. Implemented by the
// telegram delivery layer.
type QuizNotifier interface {
	SendQuizPoll(chatID int64, question entities.Question) (pollID string, messageID int, err error)
	SendReveal(chatID int64, question entities.Question) error
}

// QuizService dispatches quiz polls, schedules their delayed answer reveal
// and processes incoming poll answers.
type QuizService struct {
	polls       *storage.PollStorage
	ledger      *ScoreLedger
	notifier    QuizNotifier
	logger      *zap.Logger
	revealAfter time.Duration
}

// NewQuizService creates a QuizService. revealAfter is how long a poll stays
// open before the correct answer is revealed (matches the poll open period).
func NewQuizService(
	polls *storage.PollStorage,
	ledger *ScoreLedger,
	logger *zap.Logger,
	revealAfter time.Duration,
) *QuizService {
	return &QuizService{
		polls:       polls,
		ledger:      ledger,
		logger:      logger,
		revealAfter: revealAfter,
	}
}

// SetNotifier sets the notifier (called after the handler is created).
func (s *QuizService) SetNotifier(notifier QuizNotifier) {
	s.notifier = notifier
}

// Dispatch sends the question to the chat as a quiz poll, registers the
// pending poll, and schedules the reveal. The reveal timer is not cancelled
// on shutdown; after a restart it simply never fires, and the poll record is
// gone anyway.
func (s *QuizService) Dispatch(ctx context.Context, chatID int64, question entities.Question) (string, error) {
	if s.notifier == nil {
		return "", fmt.Errorf("notifier not initialized")
	}

	pollID, messageID, err := s.notifier.SendQuizPoll(chatID, question)
	if err != nil {
		return "", fmt.Errorf("send quiz poll: %w", err)
	}

	s.polls.Store(pollID, entities.PendingPoll{
		ChatID:    chatID,
		MessageID: messageID,
		Question:  question,
	})

	time.AfterFunc(s.revealAfter, func() {
		s.Reveal(pollID)
	})

	s.logger.Info("quiz dispatched",
		zap.Int64("chat_id", chatID),
		zap.String("poll_id", pollID),
		zap.Time("reveal_at", time.Now().Add(s.revealAfter)),
	)

	return pollID, nil
}

// Reveal sends the correct answer, explanation and motivation for the poll
// to its originating chat. An unknown poll id is a silent no-op: the timer
// may fire for a poll the process no longer tracks.
func (s *QuizService) Reveal(pollID string) {
	poll, ok := s.polls.Get(pollID)
	if !ok {
		return
	}

	if err := s.notifier.SendReveal(poll.ChatID, poll.Question); err != nil {
		s.logger.Error("failed to send reveal",
			zap.String("poll_id", pollID),
			zap.Int64("chat_id", poll.ChatID),
			zap.Error(err),
		)
		return
	}

	s.polls.Delete(pollID)
}

// ProcessAnswer handles one poll-answer event. Events for unknown polls and
// retracted votes (no option selected) are ignored. Only the first recorded
// answer per user per poll counts; a correct one credits the user.
func (s *QuizService) ProcessAnswer(ctx context.Context, pollID string, userID int64, optionIDs []int) error {
	poll, ok := s.polls.Get(pollID)
	if !ok {
		return nil
	}

	if len(optionIDs) == 0 {
		return nil
	}

	if !s.polls.MarkAnswered(pollID, userID) {
		s.logger.Debug("repeat answer ignored",
			zap.String("poll_id", pollID),
			zap.Int64("user_id", userID),
		)
		return nil
	}

	if optionIDs[0] != poll.Question.CorrectOptionID {
		return nil
	}

	if err := s.ledger.RecordCorrectAnswer(ctx, strconv.FormatInt(userID, 10)); err != nil {
		return fmt.Errorf("record correct answer: %w", err)
	}

	return nil
}
