package handlers

import (
	"context"
	"fmt"

	"chatarchive-bot/internal/archive"
	"chatarchive-bot/internal/media"

	"github.com/mymmrac/telego"
)

// HandleMessage archives a new message or channel post. Attachments are
// downloaded into the chat's media directory first; a failed download is
// recorded in the entry and archiving continues. Unsupported content kinds
// are ignored.
func (h *MessageHandler) HandleMessage(ctx context.Context, message telego.Message) error {
	entry, ok := BuildEntry(message)
	if !ok {
		h.log.Debug().
			Int64("chat_id", message.Chat.ID).
			Int("message_id", message.MessageID).
			Msg("Skipping unsupported message")
		return nil
	}

	dir, err := h.store.EnsureMediaDir(entry.Chat.ID)
	if err != nil {
		// Text still gets archived; attachments are kept as file references only.
		h.log.Error().Err(err).
			Int64("chat_id", entry.Chat.ID).
			Int("message_id", entry.MessageID).
			Msg("Media directory unavailable, archiving text only")
	} else if req, ok := mediaRequest(entry); ok {
		h.download(ctx, dir, req, &entry)
	}

	return h.appendEntry(ctx, message, entry, ActionArchiveMessage)
}

// HandleEditedMessage archives an edit as a new entry in the chat's
// transcript. Edits never download media.
func (h *MessageHandler) HandleEditedMessage(ctx context.Context, message telego.Message) error {
	if message.EditDate == 0 {
		h.log.Warn().
			Int64("chat_id", message.Chat.ID).
			Int("message_id", message.MessageID).
			Msg("Edited message has no edit date, using current time")
	}

	entry, ok := BuildEditedEntry(message, h.now())
	if !ok {
		h.log.Debug().
			Int64("chat_id", message.Chat.ID).
			Int("message_id", message.MessageID).
			Msg("Skipping unsupported edited message")
		return nil
	}

	return h.appendEntry(ctx, message, entry, ActionArchiveEditedMessage)
}

func (h *MessageHandler) download(ctx context.Context, dir string, req media.Request, entry *archive.LogEntry) {
	res, err := h.downloader.Download(ctx, dir, req)
	if err != nil {
		entry.DownloadError = media.DescribeError(err)
		h.log.Error().Err(err).
			Int64("chat_id", entry.Chat.ID).
			Int("message_id", entry.MessageID).
			Str("file_id", req.File.ID).
			Msg("Failed to download media")
		return
	}

	entry.LocalPath = res.LocalPath
	if res.FileName != "" {
		entry.File.Name = res.FileName
	}
}

func (h *MessageHandler) appendEntry(ctx context.Context, message telego.Message, entry archive.LogEntry, action string) error {
	path, err := h.store.Append(entry)
	if err != nil {
		return fmt.Errorf("failed to archive message %d in chat %d: %w", entry.MessageID, entry.Chat.ID, err)
	}

	h.log.Info().
		Int64("chat_id", entry.Chat.ID).
		Int("message_id", entry.MessageID).
		Str("type", string(entry.ContentKind)).
		Bool("edited", entry.Edited).
		Str("log_file", path).
		Msg("Message archived")

	details := map[string]interface{}{
		"chat_id":    entry.Chat.ID,
		"message_id": entry.MessageID,
		"type":       string(entry.ContentKind),
	}
	if entry.LocalPath != "" {
		details["local_path"] = entry.LocalPath
	}
	if entry.DownloadError != "" {
		details["download_error"] = entry.DownloadError
	}
	h.RecordUserActivity(ctx, message.From, action, details)
	return nil
}
