package telegram

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
	"github.com/aqylbek/islamquiz-bot/internal/service"
)

// quizPollParams assembles the sendPoll request for a single-answer quiz
// poll. The client's typed poll config predates the protect_content flag,
// so the request goes out as raw params instead.
func quizPollParams(chatID int64, question entities.Question, openPeriod time.Duration) (tgbotapi.Params, error) {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonEmpty("question", question.Text)
	if err := params.AddInterface("options", question.Options); err != nil {
		return nil, fmt.Errorf("encode poll options: %w", err)
	}
	params["type"] = "quiz"
	params["correct_option_id"] = strconv.Itoa(question.CorrectOptionID)
	params["is_anonymous"] = "false"
	params.AddNonZero("open_period", int(openPeriod.Seconds()))
	params.AddBool("protect_content", true)

	return params, nil
}

// SendQuizPoll sends the question as a single-answer quiz poll and returns
// the poll id Telegram assigned to it.
func (h *Handler) SendQuizPoll(chatID int64, question entities.Question) (string, int, error) {
	params, err := quizPollParams(chatID, question, h.openPeriod)
	if err != nil {
		return "", 0, err
	}

	resp, err := h.bot.MakeRequest("sendPoll", params)
	if err != nil {
		return "", 0, fmt.Errorf("send poll: %w", err)
	}

	var msg tgbotapi.Message
	if err := json.Unmarshal(resp.Result, &msg); err != nil {
		return "", 0, fmt.Errorf("decode sendPoll response: %w", err)
	}
	if msg.Poll == nil {
		return "", 0, fmt.Errorf("poll message without poll payload")
	}

	return msg.Poll.ID, msg.MessageID, nil
}

// SendReveal sends the correct answer with its explanation and motivation.
func (h *Handler) SendReveal(chatID int64, question entities.Question) error {
	text := buildReveal(question.CorrectOption(), question.Explanation, question.Motivation)

	if _, err := h.bot.Send(newMessage(chatID, text)); err != nil {
		return fmt.Errorf("send reveal: %w", err)
	}

	return nil
}

// SendDailyQuizIntro announces the daily question in the chat.
func (h *Handler) SendDailyQuizIntro(chatID int64) error {
	if _, err := h.bot.Send(newMessage(chatID, msgDailyQuizIntro)); err != nil {
		return fmt.Errorf("send daily quiz intro: %w", err)
	}
	return nil
}

// SendDailyReminder sends the static daily reminder to the chat.
func (h *Handler) SendDailyReminder(chatID int64) error {
	if _, err := h.bot.Send(newMessage(chatID, msgDailyReminder)); err != nil {
		return fmt.Errorf("send daily reminder: %w", err)
	}
	return nil
}

// BroadcastWeeklyResults renders the weekly top list once and sends it to
// every chat. Per-chat delivery failures are logged and skipped.
func (h *Handler) BroadcastWeeklyResults(chatIDs []int64, entries []service.LedgerEntry) error {
	text := buildWeeklyResults(entries, h.resolveNames(entries))

	for _, chatID := range chatIDs {
		if _, err := h.bot.Send(newMessage(chatID, text)); err != nil {
			h.logger.Error("failed to send weekly results",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// BroadcastNobodyScored sends the empty-week message to every chat.
func (h *Handler) BroadcastNobodyScored(chatIDs []int64) error {
	for _, chatID := range chatIDs {
		if _, err := h.bot.Send(newMessage(chatID, msgNobodyScoredWeek)); err != nil {
			h.logger.Error("failed to send empty weekly results",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// resolveNames maps ledger user ids to Telegram first names. A user whose
// chat cannot be fetched keeps the raw id as a fallback.
func (h *Handler) resolveNames(entries []service.LedgerEntry) map[string]string {
	names := make(map[string]string, len(entries))

	for _, entry := range entries {
		names[entry.UserID] = entry.UserID

		id, err := strconv.ParseInt(entry.UserID, 10, 64)
		if err != nil {
			continue
		}

		chat, err := h.bot.GetChat(tgbotapi.ChatInfoConfig{
			ChatConfig: tgbotapi.ChatConfig{ChatID: id},
		})
		if err != nil {
			h.logger.Warn("failed to fetch chat info",
				zap.String("user_id", entry.UserID),
				zap.Error(err),
			)
			continue
		}

		if chat.FirstName != "" {
			names[entry.UserID] = chat.FirstName
		} else if chat.Title != "" {
			names[entry.UserID] = chat.Title
		}
	}

	return names
}
