package media_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"chatarchive-bot/internal/archive"
	"chatarchive-bot/internal/media"

	"github.com/mymmrac/telego"
	ta "github.com/mymmrac/telego/telegoapi"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockBot implements telegoapi.BotAPI.
type mockBot struct {
	mock.Mock
}

func (m *mockBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*telego.Message)
	return msg, args.Error(1)
}

func (m *mockBot) GetMe(ctx context.Context) (*telego.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*telego.User)
	return user, args.Error(1)
}

func (m *mockBot) SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *mockBot) GetFile(ctx context.Context, params *telego.GetFileParams) (*telego.File, error) {
	args := m.Called(ctx, params)
	file, _ := args.Get(0).(*telego.File)
	return file, args.Error(1)
}

func (m *mockBot) FileDownloadURL(filepath string) string {
	return "https://files.example/" + filepath
}

type fixture struct {
	fs         afero.Fs
	store      *archive.Store
	bot        *mockBot
	fetched    []string
	downloader *media.Downloader
}

func newFixture(t *testing.T, payload []byte, fetchErr error) *fixture {
	t.Helper()
	f := &fixture{fs: afero.NewMemMapFs(), bot: &mockBot{}}
	f.store = archive.NewStore(f.fs, ".", "media")
	require.NoError(t, f.store.Init())

	fetch := func(_ context.Context, url string) ([]byte, error) {
		f.fetched = append(f.fetched, url)
		return payload, fetchErr
	}
	f.downloader = media.NewDownloader(f.bot, f.store, fetch, zerolog.Nop())
	return f
}

func TestDownloadPhotoUsesDefaultExtension(t *testing.T) {
	f := newFixture(t, []byte("jpeg-bytes"), nil)
	f.bot.On("GetFile", mock.Anything, &telego.GetFileParams{FileID: "FID"}).
		Return(&telego.File{FileID: "FID", FilePath: "photos/file_0"}, nil)

	dir, err := f.store.EnsureMediaDir(42)
	require.NoError(t, err)

	res, err := f.downloader.Download(context.Background(), dir, media.Request{
		ChatID: 42,
		Kind:   archive.KindPhoto,
		File:   archive.FileRef{ID: "FID", UniqueID: "UID"},
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("media", "42", "UID.jpg"), res.LocalPath)
	assert.Equal(t, "UID.jpg", res.FileName)
	assert.Equal(t, len("jpeg-bytes"), res.Size)
	assert.Equal(t, []string{"https://files.example/photos/file_0"}, f.fetched)

	data, err := afero.ReadFile(f.fs, res.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
	f.bot.AssertExpectations(t)
}

func TestDownloadKeepsOriginalName(t *testing.T) {
	f := newFixture(t, []byte("%PDF"), nil)
	f.bot.On("GetFile", mock.Anything, mock.Anything).
		Return(&telego.File{FilePath: "documents/file_9.bin"}, nil)

	res, err := f.downloader.Download(context.Background(), "media/1", media.Request{
		ChatID: 1,
		Kind:   archive.KindDocument,
		File:   archive.FileRef{ID: "D", UniqueID: "DU", Name: "report.final.pdf"},
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("media", "1", "DU.pdf"), res.LocalPath)
	assert.Equal(t, "report.final.pdf", res.FileName)
}

func TestDownloadMissingIdentifiers(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.downloader.Download(context.Background(), "media/1", media.Request{
		Kind: archive.KindVoice,
		File: archive.FileRef{ID: "only-id"},
	})
	require.ErrorIs(t, err, media.ErrMissingFileID)
	assert.Equal(t, "Missing file_id or file_unique_id", media.DescribeError(err))
	f.bot.AssertNotCalled(t, "GetFile", mock.Anything, mock.Anything)
}

func TestDownloadAPIError(t *testing.T) {
	f := newFixture(t, nil, nil)
	apiErr := &ta.Error{ErrorCode: 400, Description: "Bad Request: file is too big"}
	f.bot.On("GetFile", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("telego: getFile: api: %w", apiErr))

	_, err := f.downloader.Download(context.Background(), "media/1", media.Request{
		Kind: archive.KindVideo,
		File: archive.FileRef{ID: "V", UniqueID: "VU"},
	})
	require.Error(t, err)
	assert.Equal(t, "Telegram API error (400): Bad Request: file is too big", media.DescribeError(err))
	assert.Empty(t, f.fetched)
}

func TestDownloadStorageError(t *testing.T) {
	bot := &mockBot{}
	bot.On("GetFile", mock.Anything, mock.Anything).
		Return(&telego.File{FilePath: "voice/file_1.oga"}, nil)

	ro := archive.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), ".", "media")
	fetch := func(context.Context, string) ([]byte, error) { return []byte("ogg"), nil }
	d := media.NewDownloader(bot, ro, fetch, zerolog.Nop())

	_, err := d.Download(context.Background(), "media/1", media.Request{
		Kind: archive.KindVoice,
		File: archive.FileRef{ID: "A", UniqueID: "AU"},
	})
	require.Error(t, err)

	var storageErr *media.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Contains(t, media.DescribeError(err), "OS error saving file: ")
}

func TestDownloadFetchError(t *testing.T) {
	f := newFixture(t, nil, errors.New("connection reset"))
	f.bot.On("GetFile", mock.Anything, mock.Anything).
		Return(&telego.File{FilePath: "stickers/file_2.webp"}, nil)

	_, err := f.downloader.Download(context.Background(), "media/1", media.Request{
		Kind: archive.KindSticker,
		File: archive.FileRef{ID: "S", UniqueID: "SU"},
	})
	require.Error(t, err)
	assert.Equal(t, "Unexpected error during download/save: fetch file S: connection reset", media.DescribeError(err))
}

func TestExtension(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		original   string
		remotePath string
		kind       archive.ContentKind
		expected   string
	}{
		{name: "original wins", original: "song.flac", remotePath: "music/file_1.mp3", kind: archive.KindAudio, expected: ".flac"},
		{name: "remote path", remotePath: "videos/file_3.MOV", kind: archive.KindVideo, expected: ".MOV"},
		{name: "sticker default", kind: archive.KindSticker, expected: ".webp"},
		{name: "photo default", remotePath: "photos/file_0", kind: archive.KindPhoto, expected: ".jpg"},
		{name: "voice default", kind: archive.KindVoice, expected: ".ogg"},
		{name: "video note default", kind: archive.KindVideoNote, expected: ".mp4"},
		{name: "video default", kind: archive.KindVideo, expected: ".mp4"},
		{name: "audio default", kind: archive.KindAudio, expected: ".mp3"},
		{name: "document has no default", kind: archive.KindDocument, expected: ""},
		{name: "dotfile is not an extension", original: ".bashrc", kind: archive.KindDocument, expected: ""},
		{name: "trailing dot", original: "archive.", remotePath: "documents/file_5.zip", kind: archive.KindDocument, expected: ".zip"},
		{name: "unsafe extension skipped", original: "notes.t?t", kind: archive.KindDocument, expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, media.Extension(tc.original, tc.remotePath, tc.kind))
		})
	}
}
