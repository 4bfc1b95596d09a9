package archive_test

import (
	"strings"
	"testing"
	"time"

	"chatarchive-bot/internal/archive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sentAt = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

func textEntry() archive.LogEntry {
	return archive.LogEntry{
		MessageID:   17,
		Timestamp:   sentAt,
		Chat:        archive.Chat{ID: 42, Kind: archive.ChatPrivate},
		Sender:      archive.Sender{ID: 7, FirstName: "Ann"},
		ContentKind: archive.KindText,
		Text:        "hello there",
	}
}

// body returns the lines between the opening and closing separators.
func body(t *testing.T, rendered string) []string {
	t.Helper()
	require.True(t, strings.HasSuffix(rendered, "---\n"), "block must end with separator and newline")

	lines := strings.Split(strings.TrimSuffix(rendered, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	require.Equal(t, "---", lines[0])
	require.Equal(t, "---", lines[len(lines)-1])
	return lines[1 : len(lines)-1]
}

func TestFormatTextEntry(t *testing.T) {
	t.Parallel()

	lines := body(t, archive.Format(textEntry()))

	assert.Equal(t, []string{
		"Time: 2024-03-05 14:07:09 UTC",
		"Message ID: 17",
		"Chat ID: 42 (private)",
		"From: Ann (ID: 7)",
		"Type: text",
		"Text: hello there",
	}, lines)
	for _, l := range lines {
		assert.NotEmpty(t, l)
	}
}

func TestFormatConvertsToUTC(t *testing.T) {
	t.Parallel()

	e := textEntry()
	e.Timestamp = sentAt.In(time.FixedZone("MSK", 3*60*60))

	assert.Contains(t, archive.Format(e), "Time: 2024-03-05 14:07:09 UTC")
}

func TestFormatChatAndSenderLines(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		chat       archive.Chat
		sender     archive.Sender
		chatLine   string
		senderLine string
	}{
		{
			name:       "titled group ignores handle",
			chat:       archive.Chat{ID: -100, Kind: archive.ChatSupergroup, Title: "Devs", Handle: "devs"},
			sender:     archive.Sender{ID: 1, FirstName: "Bob", LastName: "Stone", Handle: "bobs"},
			chatLine:   "Chat: Devs (ID: -100)",
			senderLine: "From: Bob Stone (@bobs) (ID: 1)",
		},
		{
			name:       "untitled chat with handle",
			chat:       archive.Chat{ID: 5, Kind: archive.ChatPrivate, Handle: "ann"},
			sender:     archive.Sender{ID: 5, FirstName: "Ann"},
			chatLine:   "Chat ID: 5 (private) @ann",
			senderLine: "From: Ann (ID: 5)",
		},
		{
			name:       "bot sender",
			chat:       archive.Chat{ID: 9, Kind: archive.ChatGroup},
			sender:     archive.Sender{ID: 99, FirstName: "Helper", Handle: "helper_bot", IsBot: true},
			chatLine:   "Chat ID: 9 (group)",
			senderLine: "From: Helper (@helper_bot) (ID: 99) [BOT]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := textEntry()
			e.Chat = tc.chat
			e.Sender = tc.sender

			lines := body(t, archive.Format(e))
			assert.Equal(t, tc.chatLine, lines[2])
			assert.Equal(t, tc.senderLine, lines[3])
		})
	}
}

func TestFormatEditedEntry(t *testing.T) {
	t.Parallel()

	e := archive.LogEntry{
		MessageID:     17,
		Timestamp:     sentAt,
		Edited:        true,
		Chat:          archive.Chat{ID: 42, Kind: archive.ChatGroup, Title: "Team"},
		Sender:        archive.Sender{ID: 7, FirstName: "Ann"},
		ContentKind:   archive.KindPhoto,
		Caption:       "new caption",
		File:          &archive.FileRef{ID: "fid", UniqueID: "uid", Name: "x.jpg"},
		LocalPath:     "media_archive/42/uid.jpg",
		DownloadError: "boom",
	}

	out := archive.Format(e)
	lines := body(t, out)

	assert.Equal(t, "Status: MESSAGE EDITED (ID: 17)", lines[0])
	assert.Equal(t, "Edited at: 2024-03-05 14:07:09 UTC", lines[1])
	assert.NotContains(t, out, "Time:")
	assert.NotContains(t, out, "Saved as:")
	assert.NotContains(t, out, "Download error:")
	assert.NotContains(t, out, "File name:")
	assert.NotContains(t, out, "File ID:")
	assert.Contains(t, out, "Caption: new caption")
}

func TestFormatFileLines(t *testing.T) {
	t.Parallel()

	base := func() archive.LogEntry {
		return archive.LogEntry{
			MessageID:   3,
			Timestamp:   sentAt,
			Chat:        archive.Chat{ID: 1, Kind: archive.ChatGroup, Title: "G"},
			Sender:      archive.Sender{ID: 2, FirstName: "S"},
			ContentKind: archive.KindDocument,
			File:        &archive.FileRef{ID: "FILE", UniqueID: "UNIQ", Name: "report.pdf"},
		}
	}

	t.Run("saved path wins", func(t *testing.T) {
		t.Parallel()
		e := base()
		e.LocalPath = "media_archive/1/UNIQ.pdf"
		e.DownloadError = "ignored"

		lines := body(t, archive.Format(e))
		assert.Equal(t, []string{"File name: report.pdf", "Saved as: media_archive/1/UNIQ.pdf"}, lines[5:])
	})

	t.Run("download error", func(t *testing.T) {
		t.Parallel()
		e := base()
		e.DownloadError = "Telegram API error (400): Bad Request: file is too big"

		lines := body(t, archive.Format(e))
		assert.Equal(t, "Download error: Telegram API error (400): Bad Request: file is too big", lines[len(lines)-1])
	})

	t.Run("file id as last resort", func(t *testing.T) {
		t.Parallel()
		e := base()
		e.File.Name = ""

		lines := body(t, archive.Format(e))
		assert.Equal(t, "File ID: FILE", lines[len(lines)-1])
		assert.NotContains(t, strings.Join(lines, "\n"), "File name:")
	})

	t.Run("non file kind ignores file fields", func(t *testing.T) {
		t.Parallel()
		e := base()
		e.ContentKind = archive.KindText
		e.LocalPath = "somewhere"

		assert.NotContains(t, archive.Format(e), "Saved as:")
	})
}

func TestFormatContactPollStickerLocation(t *testing.T) {
	t.Parallel()

	t.Run("contact", func(t *testing.T) {
		t.Parallel()
		e := textEntry()
		e.ContentKind = archive.KindContact
		e.Text = ""
		e.Contact = &archive.Contact{FirstName: "Jo", LastName: "Doe", Phone: "+100200", UserID: 55}

		lines := body(t, archive.Format(e))
		assert.Equal(t, []string{"Contact: Jo Doe", "Phone: +100200", "Telegram ID: 55"}, lines[5:])
	})

	t.Run("contact without platform id", func(t *testing.T) {
		t.Parallel()
		e := textEntry()
		e.ContentKind = archive.KindContact
		e.Text = ""
		e.Contact = &archive.Contact{FirstName: "Jo", Phone: "+1"}

		lines := body(t, archive.Format(e))
		assert.Equal(t, []string{"Contact: Jo", "Phone: +1"}, lines[5:])
	})

	t.Run("poll", func(t *testing.T) {
		t.Parallel()
		e := textEntry()
		e.ContentKind = archive.KindPoll
		e.Text = ""
		e.Poll = &archive.Poll{Question: "Lunch?", Options: []string{"Pizza", "Sushi"}}

		lines := body(t, archive.Format(e))
		assert.Equal(t, []string{"Poll: Lunch?", "Options:", "  1. Pizza", "  2. Sushi"}, lines[5:])
	})

	t.Run("sticker", func(t *testing.T) {
		t.Parallel()
		e := textEntry()
		e.ContentKind = archive.KindSticker
		e.Text = ""
		e.StickerEmoji = "😀"
		e.File = &archive.FileRef{ID: "S1", UniqueID: "SU1", Name: "SU1.webp"}
		e.LocalPath = "media_archive/42/SU1.webp"

		lines := body(t, archive.Format(e))
		assert.Equal(t, []string{
			"File name: SU1.webp",
			"Saved as: media_archive/42/SU1.webp",
			"Sticker emoji: 😀",
		}, lines[5:])
	})

	t.Run("location", func(t *testing.T) {
		t.Parallel()
		e := textEntry()
		e.ContentKind = archive.KindLocation
		e.Text = ""
		e.Location = &archive.Location{Lat: 55.7558, Lon: 37.6173}

		lines := body(t, archive.Format(e))
		assert.Equal(t, "Location: lat=55.7558, lon=37.6173", lines[len(lines)-1])
	})

	t.Run("location ignored for other kinds", func(t *testing.T) {
		t.Parallel()
		e := textEntry()
		e.ContentKind = archive.KindVenue
		e.Location = &archive.Location{Lat: 1, Lon: 2}

		assert.NotContains(t, archive.Format(e), "Location:")
	})
}

func TestFormatIsDeterministic(t *testing.T) {
	t.Parallel()

	e := textEntry()
	e.Caption = "cap"
	assert.Equal(t, archive.Format(e), archive.Format(e))
}
