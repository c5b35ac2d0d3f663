package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// extractStatusChange reports whether the affected user counted as a chat
// member before and after the update. Telegram reports the chat owner with
// status "creator"; a "restricted" user is a member only while is_member is
// set.
func extractStatusChange(update *tgbotapi.ChatMemberUpdated) (wasMember, isMember bool) {
	return isEffectiveMember(update.OldChatMember), isEffectiveMember(update.NewChatMember)
}

func isEffectiveMember(m tgbotapi.ChatMember) bool {
	switch m.Status {
	case "member", "creator", "administrator":
		return true
	case "restricted":
		return m.IsMember
	default: // "left", "kicked"
		return false
	}
}
