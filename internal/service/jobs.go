package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
)

// ChatRegistry lists the chats registered for scheduled broadcasts.
type ChatRegistry interface {
	All() []int64
}

// QuestionSource supplies random questions from the catalog.
type QuestionSource interface {
	Random() entities.Question
}

// Broadcaster sends scheduled-job messages. Implemented by the telegram
// delivery layer, which owns the message texts.
type Broadcaster interface {
	SendDailyQuizIntro(chatID int64) error
	SendDailyReminder(chatID int64) error
	BroadcastWeeklyResults(chatIDs []int64, entries []LedgerEntry) error
	BroadcastNobodyScored(chatIDs []int64) error
}

// Schedule describes when the recurring jobs fire, in wall-clock time of the
// configured location.
type Schedule struct {
	Location          *time.Location
	DailyQuizTime     string // HH:MM
	DailyReminderTime string // HH:MM
	WeeklyDigestTime  string // HH:MM
	WeeklyDigestDay   string // cron day-of-week, e.g. "SUN"
}

// JobService runs the three recurring jobs: the daily quiz, the daily
// reminder and the weekly digest. All three are no-ops while no chat is
// registered.
type JobService struct {
	chats       ChatRegistry
	questions   QuestionSource
	quiz        *QuizService
	ledger      *ScoreLedger
	broadcaster Broadcaster
	logger      *zap.Logger
	schedule    Schedule
}

// NewJobService creates a JobService.
func NewJobService(
	chats ChatRegistry,
	questions QuestionSource,
	quiz *QuizService,
	ledger *ScoreLedger,
	logger *zap.Logger,
	schedule Schedule,
) *JobService {
	return &JobService{
		chats:     chats,
		questions: questions,
		quiz:      quiz,
		ledger:    ledger,
		logger:    logger,
		schedule:  schedule,
	}
}

// SetBroadcaster sets the broadcaster (called after the handler is created).
func (s *JobService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start registers the cron entries and blocks until the context is done.
func (s *JobService) Start(ctx context.Context) error {
	s.logger.Info("job service started")

	c := cron.New(cron.WithLocation(s.schedule.Location))

	jobs := []struct {
		name string
		spec string
		run  func(context.Context)
	}{
		{"daily quiz", dailySpec(s.schedule.DailyQuizTime, "*"), s.runDailyQuiz},
		{"daily reminder", dailySpec(s.schedule.DailyReminderTime, "*"), s.runDailyReminder},
		{"weekly digest", dailySpec(s.schedule.WeeklyDigestTime, s.schedule.WeeklyDigestDay), s.runWeeklyDigest},
	}

	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(job.spec, func() {
			s.logger.Info("cron triggered", zap.String("job", job.name))
			job.run(ctx)
		})
		if err != nil {
			return fmt.Errorf("add %s job: %w", job.name, err)
		}
	}

	c.Start()
	<-ctx.Done()
	c.Stop()

	s.logger.Info("job service stopped")
	return nil
}

// dailySpec builds a cron spec from an HH:MM time and a day-of-week field.
// A malformed time yields an invalid spec, which AddFunc rejects.
func dailySpec(hhmm, dayOfWeek string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "invalid " + hhmm
	}
	return fmt.Sprintf("%d %d * * %s", t.Minute(), t.Hour(), dayOfWeek)
}

// runDailyQuiz announces and dispatches one freshly drawn question to every
// registered chat. The same draw is reused for all chats in this firing.
func (s *JobService) runDailyQuiz(ctx context.Context) {
	chatIDs := s.chats.All()
	if len(chatIDs) == 0 {
		return
	}

	question := s.questions.Random()

	for _, chatID := range chatIDs {
		if err := s.broadcaster.SendDailyQuizIntro(chatID); err != nil {
			s.logger.Error("failed to send daily quiz intro",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			continue
		}

		if _, err := s.quiz.Dispatch(ctx, chatID, question); err != nil {
			s.logger.Error("failed to dispatch daily quiz",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}
}

// runDailyReminder broadcasts the static reminder to every registered chat.
func (s *JobService) runDailyReminder(ctx context.Context) {
	chatIDs := s.chats.All()
	if len(chatIDs) == 0 {
		return
	}

	for _, chatID := range chatIDs {
		if err := s.broadcaster.SendDailyReminder(chatID); err != nil {
			s.logger.Error("failed to send daily reminder",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}
}

// runWeeklyDigest broadcasts the weekly top five and then resets the weekly
// counters. The reset happens exactly once, after all broadcasts.
func (s *JobService) runWeeklyDigest(ctx context.Context) {
	chatIDs := s.chats.All()
	if len(chatIDs) == 0 {
		return
	}

	entries, err := s.ledger.TopN(ctx, 5)
	if err != nil {
		s.logger.Error("failed to load weekly top", zap.Error(err))
		return
	}

	if len(entries) == 0 {
		if err := s.broadcaster.BroadcastNobodyScored(chatIDs); err != nil {
			s.logger.Error("failed to broadcast empty weekly results", zap.Error(err))
		}
		return
	}

	if err := s.broadcaster.BroadcastWeeklyResults(chatIDs, entries); err != nil {
		s.logger.Error("failed to broadcast weekly results", zap.Error(err))
	}

	if err := s.ledger.ResetWeekly(ctx); err != nil {
		s.logger.Error("failed to reset weekly scores", zap.Error(err))
	}
}
