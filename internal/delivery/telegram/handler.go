package telegram

import (
	"context"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
	"github.com/aqylbek/islamquiz-bot/internal/service"
)

type QuestionSource interface {
	Random() entities.Question
}

type QuizService interface {
	Dispatch(ctx context.Context, chatID int64, question entities.Question) (string, error)
	ProcessAnswer(ctx context.Context, pollID string, userID int64, optionIDs []int) error
}

type ScoreLedger interface {
	Get(ctx context.Context, userID string) (entities.UserScore, error)
	TopN(ctx context.Context, n int) ([]service.LedgerEntry, error)
}

type ChatRegistry interface {
	Add(chatID int64) bool
}

type Handler struct {
	bot        *tgbotapi.BotAPI
	logger     *zap.Logger
	questions  QuestionSource
	quiz       QuizService
	ledger     ScoreLedger
	chats      ChatRegistry
	openPeriod time.Duration
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	questions QuestionSource,
	quiz QuizService,
	ledger ScoreLedger,
	chats ChatRegistry,
	openPeriod time.Duration,
) *Handler {
	return &Handler{
		bot:        bot,
		logger:     logger,
		questions:  questions,
		quiz:       quiz,
		ledger:     ledger,
		chats:      chats,
		openPeriod: openPeriod,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	// Poll answers and membership changes are not delivered unless asked for.
	u.AllowedUpdates = []string{"message", "poll_answer", "chat_member"}

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.PollAnswer != nil {
		h.handlePollAnswer(ctx, update.PollAnswer)
		return
	}

	if update.ChatMember != nil {
		h.handleChatMember(update.ChatMember)
		return
	}

	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	h.logger.Debug("command received",
		zap.Int64("chat_id", chatID),
		zap.String("command", update.Message.Command()),
	)

	switch update.Message.Command() {
	case "start":
		h.send(newMessage(chatID, buildWelcome(from.FirstName)))

	case "quiz":
		h.handleQuizCommand(ctx, chatID)

	case "score":
		h.handleScoreCommand(ctx, chatID, from.ID)

	case "leaderboard":
		h.handleLeaderboardCommand(ctx, chatID)

	case "register":
		h.handleRegisterCommand(chatID)
	}
}

// handleQuizCommand dispatches an ad-hoc question to the requesting chat.
func (h *Handler) handleQuizCommand(ctx context.Context, chatID int64) {
	question := h.questions.Random()

	if _, err := h.quiz.Dispatch(ctx, chatID, question); err != nil {
		h.logger.Error("failed to dispatch quiz",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.send(tgbotapi.NewMessage(chatID, msgQuizUnavailable))
		return
	}

	h.send(newMessage(chatID, msgQuizReady))
}

func (h *Handler) handleScoreCommand(ctx context.Context, chatID, userID int64) {
	score, err := h.ledger.Get(ctx, strconv.FormatInt(userID, 10))
	if err != nil {
		h.logger.Error("failed to get user score",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		h.send(tgbotapi.NewMessage(chatID, msgScoreUnavailable))
		return
	}

	h.send(newMessage(chatID, buildScore(score.Total, score.Weekly)))
}

func (h *Handler) handleLeaderboardCommand(ctx context.Context, chatID int64) {
	entries, err := h.ledger.TopN(ctx, 10)
	if err != nil {
		h.logger.Error("failed to load leaderboard", zap.Error(err))
		h.send(tgbotapi.NewMessage(chatID, msgScoreUnavailable))
		return
	}

	if len(entries) == 0 {
		h.send(newMessage(chatID, msgNobodyScoredYet))
		return
	}

	h.send(newMessage(chatID, buildLeaderboard(entries, h.resolveNames(entries))))
}

func (h *Handler) handleRegisterCommand(chatID int64) {
	if h.chats.Add(chatID) {
		h.logger.Info("chat registered", zap.Int64("chat_id", chatID))
		h.send(newMessage(chatID, msgChatRegistered))
		return
	}

	h.send(newMessage(chatID, msgChatAlreadyActive))
}

func (h *Handler) handlePollAnswer(ctx context.Context, answer *tgbotapi.PollAnswer) {
	err := h.quiz.ProcessAnswer(ctx, answer.PollID, answer.User.ID, answer.OptionIDs)
	if err != nil {
		h.logger.Error("failed to process poll answer",
			zap.String("poll_id", answer.PollID),
			zap.Int64("user_id", answer.User.ID),
			zap.Error(err),
		)
	}
}

// handleChatMember greets users whose status moved from non-member to member.
func (h *Handler) handleChatMember(update *tgbotapi.ChatMemberUpdated) {
	wasMember, isMember := extractStatusChange(update)
	if wasMember || !isMember {
		return
	}

	firstName := ""
	if update.NewChatMember.User != nil {
		firstName = update.NewChatMember.User.FirstName
	}

	h.send(newMessage(update.Chat.ID, buildGreeting(firstName)))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
