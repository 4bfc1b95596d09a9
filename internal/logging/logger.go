// Package logging builds the zerolog logger shared by all components.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/mymmrac/telego"
	"github.com/rs/zerolog"
)

// New creates a logger writing to out at the given level. The format is
// either "json" or "console"; an unknown level falls back to info.
func New(level, format string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// TelegoLogger adapts a zerolog logger to telego's logger interface and keeps
// the bot token out of the output.
type TelegoLogger struct {
	log   zerolog.Logger
	token string
	debug bool
}

var _ telego.Logger = (*TelegoLogger)(nil)

// NewTelegoLogger wraps log for telego. Debug output is only emitted when
// debug is set.
func NewTelegoLogger(log zerolog.Logger, token string, debug bool) *TelegoLogger {
	return &TelegoLogger{
		log:   log.With().Str("component", "telego").Logger(),
		token: token,
		debug: debug,
	}
}

// Debugf logs telego request details at debug level.
func (l *TelegoLogger) Debugf(format string, args ...any) {
	if !l.debug {
		return
	}
	l.log.Debug().Msg(l.redact(fmt.Sprintf(format, args...)))
}

// Errorf logs telego errors.
func (l *TelegoLogger) Errorf(format string, args ...any) {
	l.log.Error().Msg(l.redact(fmt.Sprintf(format, args...)))
}

func (l *TelegoLogger) redact(msg string) string {
	msg = strings.TrimSpace(msg)
	if l.token == "" {
		return msg
	}
	return strings.ReplaceAll(msg, l.token, "BOT_TOKEN")
}
