// Package bot runs the update loop: it routes each update to the archive
// handlers one at a time, in arrival order.
package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"chatarchive-bot/internal/handlers"
	"chatarchive-bot/internal/locales"
	telegoapi "chatarchive-bot/pkg/telegoapi"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"
)

const (
	defaultUpdatesPerSecond = 20
	defaultUpdateTimeout    = 2 * time.Minute
)

// HandlerProvider is implemented by *handlers.MessageHandler.
type HandlerProvider interface {
	HandleMessage(ctx context.Context, message telego.Message) error
	HandleEditedMessage(ctx context.Context, message telego.Message) error
	GetCommandHandler(command string) func(context.Context, telegoapi.BotAPI, telego.Message) error
	Commands() []handlers.Command
}

var _ HandlerProvider = (*handlers.MessageHandler)(nil)

// Bot represents the main application logic for the Telegram bot.
// It consumes the update channel and dispatches every update to the handlers.
type Bot struct {
	bot           telegoapi.BotAPI
	updatesChan   <-chan telego.Update
	handler       HandlerProvider
	log           zerolog.Logger
	debug         bool
	updateTimeout time.Duration
	ratelimiter   ratelimit.Limiter
	username      string
}

// BotDeps holds the dependencies required by the Bot.
type BotDeps struct {
	Bot              telegoapi.BotAPI
	UpdatesChan      <-chan telego.Update
	Handler          HandlerProvider
	Logger           zerolog.Logger
	Debug            bool
	UpdatesPerSecond int
	UpdateTimeout    time.Duration
}

// New creates a new Bot instance from its dependencies.
// Returns the new Bot instance or an error if dependencies are missing.
func New(deps BotDeps) (*Bot, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("telego bot (BotAPI) instance cannot be nil")
	}
	if deps.Handler == nil {
		return nil, fmt.Errorf("handler provider cannot be nil")
	}
	if deps.UpdatesChan == nil {
		return nil, fmt.Errorf("updates channel cannot be nil")
	}
	if deps.UpdatesPerSecond <= 0 {
		deps.UpdatesPerSecond = defaultUpdatesPerSecond
	}
	if deps.UpdateTimeout <= 0 {
		deps.UpdateTimeout = defaultUpdateTimeout
	}

	return &Bot{
		bot:           deps.Bot,
		updatesChan:   deps.UpdatesChan,
		handler:       deps.Handler,
		log:           deps.Logger.With().Str("component", "bot").Logger(),
		debug:         deps.Debug,
		updateTimeout: deps.UpdateTimeout,
		ratelimiter:   ratelimit.New(deps.UpdatesPerSecond),
	}, nil
}

// Start begins the bot's update processing loop. Updates are handled one at
// a time; Start returns when ctx is done or the updates channel is closed.
func (b *Bot) Start(ctx context.Context) error {
	b.log.Info().Msg("Listening for updates...")

	for {
		select {
		case <-ctx.Done():
			b.log.Info().Msg("Context done, stopping update processing")
			return nil
		case update, ok := <-b.updatesChan:
			if !ok {
				b.log.Info().Msg("Updates channel closed")
				return nil
			}
			b.processUpdate(ctx, update)
		}
	}
}

// Stop is a no-op kept for symmetry with Start; the loop itself stops when
// its context is cancelled.
func (b *Bot) Stop() {
	b.log.Info().Msg("Bot stopped")
}

// processUpdate routes an incoming update to the appropriate handler.
// Errors and panics are logged and reported and never stop the loop.
func (b *Bot) processUpdate(ctx context.Context, update telego.Update) {
	b.ratelimiter.Take()

	message, kind := updateMessage(update)
	if message == nil {
		if b.debug {
			b.log.Debug().Int("update_id", update.UpdateID).Msg("Ignoring unhandled update type")
		}
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Interface("panic", r).
				Int64("chat_id", message.Chat.ID).
				Int("message_id", message.MessageID).
				Str("stack", string(debug.Stack())).
				Msg("Panic recovered while processing update")
			sentry.CurrentHub().Recover(r)
			sentry.Flush(2 * time.Second)
		}
	}()

	processingCtx, cancel := context.WithTimeout(ctx, b.updateTimeout)
	defer cancel()

	var err error
	switch kind {
	case kindEdited:
		err = b.handler.HandleEditedMessage(processingCtx, *message)
	default:
		if handlerFunc := b.commandHandler(*message); handlerFunc != nil {
			err = handlerFunc(processingCtx, b.bot, *message)
		} else {
			err = b.handler.HandleMessage(processingCtx, *message)
		}
	}

	if err != nil {
		b.log.Error().Err(err).
			Int64("chat_id", message.Chat.ID).
			Int("message_id", message.MessageID).
			Str("update", string(kind)).
			Msg("Failed to process update")
		sentry.CaptureException(fmt.Errorf("update %d (chat %d, message %d): %w",
			update.UpdateID, message.Chat.ID, message.MessageID, err))
	}
}

type updateKind string

const (
	kindNew    updateKind = "message"
	kindEdited updateKind = "edited_message"
)

// updateMessage extracts the message carried by an update. Channel posts
// are handled like messages.
func updateMessage(update telego.Update) (*telego.Message, updateKind) {
	switch {
	case update.Message != nil:
		return update.Message, kindNew
	case update.ChannelPost != nil:
		return update.ChannelPost, kindNew
	case update.EditedMessage != nil:
		return update.EditedMessage, kindEdited
	case update.EditedChannelPost != nil:
		return update.EditedChannelPost, kindEdited
	}
	return nil, ""
}

// commandHandler returns the handler for a registered command, or nil when
// the message is not one. Unknown commands are archived as text.
func (b *Bot) commandHandler(message telego.Message) func(context.Context, telegoapi.BotAPI, telego.Message) error {
	command, ok := ParseCommand(message.Text, b.username)
	if !ok {
		return nil
	}
	handlerFunc := b.handler.GetCommandHandler(command)
	if handlerFunc != nil && b.debug {
		b.log.Debug().Str("command", command).Int64("chat_id", message.Chat.ID).Msg("Executing command handler")
	}
	return handlerFunc
}

// ParseCommand extracts the command name from text such as "/start" or
// "/start@my_bot args". A command addressed to a different bot is ignored.
func ParseCommand(text, botUsername string) (string, bool) {
	if len(text) < 2 || !strings.HasPrefix(text, "/") {
		return "", false
	}
	command := strings.Fields(text)[0][1:]
	if name, target, found := strings.Cut(command, "@"); found {
		if botUsername != "" && !strings.EqualFold(target, botUsername) {
			return "", false
		}
		command = name
	}
	if command == "" {
		return "", false
	}
	return strings.ToLower(command), true
}

// SetupCommands registers the bot's commands with Telegram and remembers the
// bot's username for command addressing.
func (b *Bot) SetupCommands(ctx context.Context) error {
	me, err := b.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	b.username = me.Username

	localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())

	cmds := make([]telego.BotCommand, 0, len(b.handler.Commands()))
	for _, cmd := range b.handler.Commands() {
		cmds = append(cmds, telego.BotCommand{
			Command:     cmd.Command,
			Description: locales.GetMessage(localizer, cmd.Description, nil, nil),
		})
	}
	if len(cmds) == 0 {
		return errors.New("no commands to register")
	}

	if err := b.bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: cmds}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}

	b.log.Info().Str("username", me.Username).Int("commands", len(cmds)).Msg("Bot commands successfully set")
	return nil
}
