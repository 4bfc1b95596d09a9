// Package media downloads message attachments into the archive.
package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"chatarchive-bot/internal/archive"
	telegoapi "chatarchive-bot/pkg/telegoapi"

	"github.com/dustin/go-humanize"
	"github.com/mymmrac/telego"
	ta "github.com/mymmrac/telego/telegoapi"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/rs/zerolog"
)

// ErrMissingFileID is returned when a message lacks either file identifier.
var ErrMissingFileID = errors.New("missing file_id or file_unique_id")

// StorageError wraps a failure to write the payload to disk.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage error: " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// defaultExtensions is used when neither the original name nor the remote
// path carries an extension.
var defaultExtensions = map[archive.ContentKind]string{
	archive.KindSticker:   ".webp",
	archive.KindPhoto:     ".jpg",
	archive.KindVoice:     ".ogg",
	archive.KindVideoNote: ".mp4",
	archive.KindVideo:     ".mp4",
	archive.KindAudio:     ".mp3",
}

// FetchFunc retrieves the bytes behind a file download URL.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Writer persists a downloaded payload.
type Writer interface {
	WriteMedia(path string, data []byte) error
}

// Request describes one attachment to archive.
type Request struct {
	ChatID int64
	Kind   archive.ContentKind
	File   archive.FileRef
}

// Result is the outcome of a successful download.
type Result struct {
	LocalPath string
	// FileName is the name to show in the transcript: the original name when
	// known, otherwise the local file name.
	FileName string
	Size     int
}

// Downloader resolves, fetches and stores attachments.
type Downloader struct {
	bot   telegoapi.BotAPI
	store Writer
	fetch FetchFunc
	log   zerolog.Logger
}

// NewDownloader creates a Downloader. A nil fetch uses telegoutil.DownloadFile.
func NewDownloader(bot telegoapi.BotAPI, store Writer, fetch FetchFunc, log zerolog.Logger) *Downloader {
	if fetch == nil {
		fetch = func(_ context.Context, url string) ([]byte, error) {
			return tu.DownloadFile(url)
		}
	}
	return &Downloader{
		bot:   bot,
		store: store,
		fetch: fetch,
		log:   log.With().Str("component", "media").Logger(),
	}
}

// Download stores the attachment in dir as <unique_id><ext>.
func (d *Downloader) Download(ctx context.Context, dir string, req Request) (Result, error) {
	if req.File.ID == "" || req.File.UniqueID == "" {
		return Result{}, ErrMissingFileID
	}

	file, err := d.bot.GetFile(ctx, &telego.GetFileParams{FileID: req.File.ID})
	if err != nil {
		return Result{}, fmt.Errorf("get file %s: %w", req.File.ID, err)
	}

	ext := Extension(req.File.Name, file.FilePath, req.Kind)
	localName := req.File.UniqueID + ext
	savePath := filepath.Join(dir, localName)

	res := Result{LocalPath: savePath, FileName: req.File.Name}
	if res.FileName == "" && ext != "" {
		res.FileName = localName
	}

	d.log.Info().
		Int64("chat_id", req.ChatID).
		Str("file_id", req.File.ID).
		Str("file_unique_id", req.File.UniqueID).
		Str("path", savePath).
		Msg("Downloading file")

	data, err := d.fetch(ctx, d.bot.FileDownloadURL(file.FilePath))
	if err != nil {
		return Result{}, fmt.Errorf("fetch file %s: %w", req.File.ID, err)
	}

	if err := d.store.WriteMedia(savePath, data); err != nil {
		return Result{}, &StorageError{Err: err}
	}

	res.Size = len(data)
	d.log.Info().
		Int64("chat_id", req.ChatID).
		Str("path", savePath).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Msg("File saved")
	return res, nil
}

// Extension picks the local file extension: the original name's, then the
// remote path's, then a default for the content kind.
func Extension(originalName, remotePath string, kind archive.ContentKind) string {
	if ext := safeExt(originalName); ext != "" {
		return ext
	}
	if ext := safeExt(remotePath); ext != "" {
		return ext
	}
	return defaultExtensions[kind]
}

func safeExt(name string) string {
	if name == "" {
		return ""
	}
	base := path.Base(filepath.ToSlash(name))
	ext := path.Ext(base)
	if len(ext) < 2 || ext == base {
		return ""
	}
	if archive.Sanitize(ext[1:]) != ext[1:] {
		return ""
	}
	return ext
}

// DescribeError converts a download failure into the text recorded in the
// transcript.
func DescribeError(err error) string {
	var (
		apiErr     *ta.Error
		storageErr *StorageError
	)
	switch {
	case errors.Is(err, ErrMissingFileID):
		return "Missing file_id or file_unique_id"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Telegram API error (%d): %s", apiErr.ErrorCode, apiErr.Description)
	case errors.As(err, &storageErr):
		return fmt.Sprintf("OS error saving file: %v", storageErr.Err)
	default:
		return fmt.Sprintf("Unexpected error during download/save: %v", err)
	}
}
