package handlers

import (
	"context"

	"chatarchive-bot/internal/archive"
	"chatarchive-bot/internal/media"
)

// ArchiveStore is the filesystem side of archiving, implemented by
// *archive.Store.
type ArchiveStore interface {
	LogPath(chat archive.Chat, sender archive.Sender) string
	EnsureMediaDir(chatID int64) (string, error)
	Append(entry archive.LogEntry) (string, error)
}

// MediaDownloader fetches an attachment into a directory, implemented by
// *media.Downloader.
type MediaDownloader interface {
	Download(ctx context.Context, dir string, req media.Request) (media.Result, error)
}

var (
	_ ArchiveStore    = (*archive.Store)(nil)
	_ MediaDownloader = (*media.Downloader)(nil)
)
