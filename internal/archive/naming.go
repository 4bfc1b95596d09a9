package archive

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	logFilePrefix    = "chatlog"
	logFileExtension = ".log"
)

// LogFilename returns the transcript file name shared by every message and
// edit of a chat.
func LogFilename(chat Chat, sender Sender) string {
	var base string
	switch {
	case chat.Kind == ChatPrivate:
		var user strings.Builder
		user.WriteString(sender.FirstName)
		if sender.LastName != "" {
			user.WriteString(" " + sender.LastName)
		}
		if sender.Handle != "" {
			user.WriteString(" (" + sender.Handle + ")")
		}
		base = "private_" + user.String() + "_" + strconv.FormatInt(chat.ID, 10)
	case chat.Title != "":
		base = chat.Title
	default:
		base = string(chat.Kind) + "_" + strconv.FormatInt(chat.ID, 10)
	}
	return logFilePrefix + "_" + Sanitize(base) + logFileExtension
}

// MediaDir returns the directory that holds a chat's downloaded media.
func MediaDir(root string, chatID int64) string {
	return filepath.Join(root, Sanitize(strconv.FormatInt(chatID, 10)))
}
