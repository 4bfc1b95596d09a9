package handlers

import (
	"context"
	"fmt"
	"time"

	"chatarchive-bot/internal/database"
	"chatarchive-bot/internal/locales"
	telegoapi "chatarchive-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	"github.com/rs/zerolog"
)

// Command represents a bot command, mapping the command string to its description and handler function.
type Command struct {
	Command     string                                                       // The command string (e.g., "start").
	Description string                                                       // Locale message ID of the description.
	Handler     func(context.Context, telegoapi.BotAPI, telego.Message) error // The function to execute when the command is received.
}

// Deps holds the dependencies of a MessageHandler.
type Deps struct {
	Store      ArchiveStore
	Downloader MediaDownloader
	Journal    database.Journal
	Logger     zerolog.Logger
	// Now is the clock used when an edit arrives without an edit time.
	Now             func() time.Time
	DefaultLanguage string
}

// MessageHandler archives incoming and edited messages and answers the
// /start command. It holds no per-chat state; every call opens and closes
// the files it needs.
type MessageHandler struct {
	store       ArchiveStore
	downloader  MediaDownloader
	journal     database.Journal
	log         zerolog.Logger
	now         func() time.Time
	defaultLang string

	commands []Command
}

// NewMessageHandler creates and initializes a new MessageHandler instance.
func NewMessageHandler(deps Deps) (*MessageHandler, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("archive store cannot be nil")
	}
	if deps.Downloader == nil {
		return nil, fmt.Errorf("media downloader cannot be nil")
	}
	if deps.Journal == nil {
		deps.Journal = database.NopJournal{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.DefaultLanguage == "" {
		deps.DefaultLanguage = locales.DefaultLanguage
	}

	h := &MessageHandler{
		store:       deps.Store,
		downloader:  deps.Downloader,
		journal:     deps.Journal,
		log:         deps.Logger.With().Str("component", "handlers").Logger(),
		now:         deps.Now,
		defaultLang: deps.DefaultLanguage,
	}
	h.commands = []Command{
		{Command: "start", Description: "CmdStartDesc", Handler: h.HandleStart},
	}
	return h, nil
}

// Commands returns the registered bot commands.
func (h *MessageHandler) Commands() []Command {
	return h.commands
}

// GetCommandHandler retrieves the handler function associated with a specific command string (e.g., "start").
// It returns nil if the command is not found.
func (h *MessageHandler) GetCommandHandler(command string) func(context.Context, telegoapi.BotAPI, telego.Message) error {
	for _, cmd := range h.commands {
		if cmd.Command == command {
			return cmd.Handler
		}
	}
	return nil
}
