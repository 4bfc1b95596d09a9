package archive

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	separator = "---"
	// TimeLayout renders entry timestamps; entries are always shown in UTC.
	TimeLayout = "2006-01-02 15:04:05 MST"
)

// Format renders an entry as a delimited, human-readable text block ending
// with a newline. It has no side effects.
func Format(e LogEntry) string {
	lines := make([]string, 0, 16)
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	lines = append(lines, separator)

	ts := e.Timestamp.UTC().Format(TimeLayout)
	if e.Edited {
		add("Status: MESSAGE EDITED (ID: %d)", e.MessageID)
		add("Edited at: %s", ts)
	} else {
		add("Time: %s", ts)
		add("Message ID: %d", e.MessageID)
	}

	lines = append(lines, chatLine(e.Chat), senderLine(e.Sender))
	add("Type: %s", e.ContentKind)

	if e.Text != "" {
		add("Text: %s", e.Text)
	}
	if e.Caption != "" {
		add("Caption: %s", e.Caption)
	}

	if c := e.Contact; c != nil {
		add("Contact: %s", joinName(c.FirstName, c.LastName))
		add("Phone: %s", c.Phone)
		if c.UserID != 0 {
			add("Telegram ID: %d", c.UserID)
		}
	}

	if p := e.Poll; p != nil {
		add("Poll: %s", p.Question)
		if len(p.Options) > 0 {
			lines = append(lines, "Options:")
			for i, opt := range p.Options {
				add("  %d. %s", i+1, opt)
			}
		}
	}

	if !e.Edited && e.ContentKind.HasFile() {
		lines = append(lines, fileLines(e)...)
	}

	if e.ContentKind == KindSticker && e.StickerEmoji != "" {
		add("Sticker emoji: %s", e.StickerEmoji)
	}
	if e.ContentKind == KindLocation && e.Location != nil {
		add("Location: lat=%s, lon=%s", formatCoord(e.Location.Lat), formatCoord(e.Location.Lon))
	}

	lines = append(lines, separator, "")
	return strings.Join(lines, "\n")
}

func chatLine(c Chat) string {
	if c.Title != "" {
		return fmt.Sprintf("Chat: %s (ID: %d)", c.Title, c.ID)
	}
	line := fmt.Sprintf("Chat ID: %d (%s)", c.ID, c.Kind)
	if c.Handle != "" {
		line += " @" + c.Handle
	}
	return line
}

func senderLine(s Sender) string {
	var b strings.Builder
	b.WriteString("From: ")
	b.WriteString(joinName(s.FirstName, s.LastName))
	if s.Handle != "" {
		b.WriteString(" (@" + s.Handle + ")")
	}
	fmt.Fprintf(&b, " (ID: %d)", s.ID)
	if s.IsBot {
		b.WriteString(" [BOT]")
	}
	return b.String()
}

// fileLines shows where the payload went, falling back to the raw file id.
func fileLines(e LogEntry) []string {
	var out []string
	if e.File != nil && e.File.Name != "" {
		out = append(out, "File name: "+e.File.Name)
	}
	switch {
	case e.LocalPath != "":
		out = append(out, "Saved as: "+e.LocalPath)
	case e.DownloadError != "":
		out = append(out, "Download error: "+e.DownloadError)
	case e.File != nil && e.File.ID != "":
		out = append(out, "File ID: "+e.File.ID)
	}
	return out
}

func joinName(first, last string) string {
	if last == "" {
		return first
	}
	return first + " " + last
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
