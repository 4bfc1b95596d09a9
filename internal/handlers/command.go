package handlers

import (
	"context"

	"chatarchive-bot/internal/locales"
	telegoapi "chatarchive-bot/pkg/telegoapi"
	"chatarchive-bot/pkg/utils"

	"github.com/mymmrac/telego"
)

// HandleStart handles the /start command.
// It makes sure the chat's media directory exists and replies with where the
// transcript and media of this chat are kept. The command itself is not archived.
func (h *MessageHandler) HandleStart(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	chat := chatOf(message.Chat)
	sender := senderOf(message)
	localizer := h.getLocalizer(message.From)

	logPath := h.store.LogPath(chat, sender)
	mediaDir, err := h.store.EnsureMediaDir(chat.ID)
	if err != nil {
		h.log.Error().Err(err).Int64("chat_id", chat.ID).Str("dir", mediaDir).Msg("Failed to create media directory")
		warning := locales.GetMessage(localizer, "MsgMediaDirWarning", map[string]interface{}{
			"MediaDir": mediaDir,
		}, nil)
		if sendErr := h.sendReply(ctx, bot, message, warning, ""); sendErr != nil {
			return sendErr
		}
	} else {
		h.log.Info().Int64("chat_id", chat.ID).Str("dir", mediaDir).Msg("Media directory ready")
	}

	welcome := locales.GetMessage(localizer, "MsgStart", map[string]interface{}{
		"Name":     utils.EscapeMarkdownV2(sender.FirstName),
		"LogFile":  utils.EscapeMarkdownV2Code(logPath),
		"MediaDir": utils.EscapeMarkdownV2Code(mediaDir),
	}, nil)
	if err := h.sendReply(ctx, bot, message, welcome, telego.ModeMarkdownV2); err != nil {
		return err
	}

	h.log.Info().
		Int64("chat_id", chat.ID).
		Str("chat_type", string(chat.Kind)).
		Str("chat_title", chat.Title).
		Int64("user_id", sender.ID).
		Str("username", sender.Handle).
		Str("log_file", logPath).
		Msg("Bot started in chat")

	h.RecordUserActivity(ctx, message.From, ActionCommandStart, map[string]interface{}{
		"chat_id":  chat.ID,
		"log_file": logPath,
	})
	return nil
}
