package telegoapi

import (
	"context"

	"github.com/mymmrac/telego"
)

// BotAPI defines the bot operations used by the archiver.
// This allows using both the real telego.Bot and mocks.
type BotAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	GetMe(ctx context.Context) (*telego.User, error)
	SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error

	// File access used by media archiving
	GetFile(ctx context.Context, params *telego.GetFileParams) (*telego.File, error)
	FileDownloadURL(filepath string) string
}

var _ BotAPI = (*telego.Bot)(nil)
