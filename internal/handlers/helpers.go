package handlers

import (
	"context"

	"chatarchive-bot/internal/locales"
	telegoapi "chatarchive-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// sendReply answers a message in its chat. An empty parseMode sends plain text.
func (h *MessageHandler) sendReply(ctx context.Context, bot telegoapi.BotAPI, message telego.Message, text, parseMode string) error {
	params := tu.Message(tu.ID(message.Chat.ID), text).
		WithReplyParameters(&telego.ReplyParameters{MessageID: message.MessageID, AllowSendingWithoutReply: true})
	if parseMode != "" {
		params = params.WithParseMode(parseMode)
	}

	if _, err := bot.SendMessage(ctx, params); err != nil {
		h.log.Error().Err(err).
			Int64("chat_id", message.Chat.ID).
			Int("message_id", message.MessageID).
			Msg("Failed to send reply")
		return err
	}
	return nil
}

// getLocalizer picks a localizer for the user's language, falling back to
// the configured default.
func (h *MessageHandler) getLocalizer(user *telego.User) *i18n.Localizer {
	if user != nil && user.LanguageCode != "" {
		return locales.NewLocalizer(user.LanguageCode, h.defaultLang)
	}
	return locales.NewLocalizer(h.defaultLang)
}

// RecordUserActivity combines updating user info and logging the action.
// Journal failures are logged and never interrupt archiving.
func (h *MessageHandler) RecordUserActivity(ctx context.Context, user *telego.User, action string, details map[string]interface{}) {
	if user == nil {
		// Channel posts have no user.
		return
	}

	if err := h.journal.UpdateUser(ctx, user.ID, user.Username, user.FirstName, user.LastName, action); err != nil {
		h.log.Warn().Err(err).Int64("user_id", user.ID).Str("action", action).Msg("Failed to update user")
	}
	if err := h.journal.LogUserAction(ctx, user.ID, action, details); err != nil {
		h.log.Warn().Err(err).Int64("user_id", user.ID).Str("action", action).Msg("Failed to log user action")
	}
}
