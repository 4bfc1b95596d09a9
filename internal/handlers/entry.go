package handlers

import (
	"time"

	"chatarchive-bot/internal/archive"
	"chatarchive-bot/internal/media"

	"github.com/mymmrac/telego"
)

const (
	unknownArtist = "UnknownArtist"
	unknownTitle  = "UnknownTitle"
)

// ContentKindOf classifies a message the way the Bot API does. It returns
// false for payloads that are not archived (animations, service messages).
func ContentKindOf(msg telego.Message) (archive.ContentKind, bool) {
	switch {
	case msg.Animation != nil:
		return "", false
	case msg.Text != "":
		return archive.KindText, true
	case msg.Audio != nil:
		return archive.KindAudio, true
	case msg.Document != nil:
		return archive.KindDocument, true
	case len(msg.Photo) > 0:
		return archive.KindPhoto, true
	case msg.Sticker != nil:
		return archive.KindSticker, true
	case msg.Video != nil:
		return archive.KindVideo, true
	case msg.VideoNote != nil:
		return archive.KindVideoNote, true
	case msg.Voice != nil:
		return archive.KindVoice, true
	case msg.Contact != nil:
		return archive.KindContact, true
	case msg.Venue != nil:
		// Venues carry a location too; the venue wins.
		return archive.KindVenue, true
	case msg.Location != nil:
		return archive.KindLocation, true
	case msg.Poll != nil:
		return archive.KindPoll, true
	case msg.Dice != nil:
		return archive.KindDice, true
	}
	return "", false
}

func chatOf(c telego.Chat) archive.Chat {
	return archive.Chat{
		ID:     c.ID,
		Kind:   archive.ChatKind(c.Type),
		Title:  c.Title,
		Handle: c.Username,
	}
}

// senderOf falls back to the sender chat for channel posts, which have no
// From user.
func senderOf(msg telego.Message) archive.Sender {
	if u := msg.From; u != nil {
		return archive.Sender{
			ID:        u.ID,
			IsBot:     u.IsBot,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Handle:    u.Username,
		}
	}
	c := msg.Chat
	if msg.SenderChat != nil {
		c = *msg.SenderChat
	}
	name := c.Title
	if name == "" {
		name = c.FirstName
	}
	return archive.Sender{ID: c.ID, FirstName: name, Handle: c.Username}
}

func baseEntry(msg telego.Message, kind archive.ContentKind) archive.LogEntry {
	return archive.LogEntry{
		MessageID:   msg.MessageID,
		Chat:        chatOf(msg.Chat),
		Sender:      senderOf(msg),
		ContentKind: kind,
		Text:        msg.Text,
		Caption:     msg.Caption,
	}
}

// BuildEntry maps a new message to a transcript entry. File-bearing kinds get
// a FileRef but no download outcome; that is filled in by the caller.
func BuildEntry(msg telego.Message) (archive.LogEntry, bool) {
	kind, ok := ContentKindOf(msg)
	if !ok {
		return archive.LogEntry{}, false
	}

	e := baseEntry(msg, kind)
	e.Timestamp = time.Unix(int64(msg.Date), 0).UTC()

	switch kind {
	case archive.KindPhoto:
		largest := msg.Photo[len(msg.Photo)-1]
		e.File = &archive.FileRef{ID: largest.FileID, UniqueID: largest.FileUniqueID}
	case archive.KindDocument:
		d := msg.Document
		e.File = &archive.FileRef{ID: d.FileID, UniqueID: d.FileUniqueID, Name: d.FileName}
	case archive.KindVideo:
		v := msg.Video
		e.File = &archive.FileRef{ID: v.FileID, UniqueID: v.FileUniqueID, Name: v.FileName}
	case archive.KindAudio:
		a := msg.Audio
		e.File = &archive.FileRef{ID: a.FileID, UniqueID: a.FileUniqueID, Name: audioName(a)}
	case archive.KindVoice:
		e.File = &archive.FileRef{ID: msg.Voice.FileID, UniqueID: msg.Voice.FileUniqueID}
	case archive.KindVideoNote:
		e.File = &archive.FileRef{ID: msg.VideoNote.FileID, UniqueID: msg.VideoNote.FileUniqueID}
	case archive.KindSticker:
		e.File = &archive.FileRef{ID: msg.Sticker.FileID, UniqueID: msg.Sticker.FileUniqueID}
		e.StickerEmoji = msg.Sticker.Emoji
	case archive.KindLocation:
		e.Location = &archive.Location{Lat: msg.Location.Latitude, Lon: msg.Location.Longitude}
	case archive.KindContact:
		c := msg.Contact
		e.Contact = &archive.Contact{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Phone:     c.PhoneNumber,
			UserID:    c.UserID,
		}
	case archive.KindPoll:
		e.Poll = pollOf(msg.Poll)
	}
	return e, true
}

// BuildEditedEntry maps an edited message to a transcript entry stamped with
// the edit time. When the platform omits the edit time, now is used.
// Edited entries never carry file data.
func BuildEditedEntry(msg telego.Message, now time.Time) (archive.LogEntry, bool) {
	kind, ok := ContentKindOf(msg)
	if !ok {
		return archive.LogEntry{}, false
	}

	e := baseEntry(msg, kind)
	e.Edited = true
	if msg.EditDate != 0 {
		e.Timestamp = time.Unix(int64(msg.EditDate), 0).UTC()
	} else {
		e.Timestamp = now.UTC()
	}

	switch kind {
	case archive.KindLocation:
		e.Location = &archive.Location{Lat: msg.Location.Latitude, Lon: msg.Location.Longitude}
	case archive.KindSticker:
		e.StickerEmoji = msg.Sticker.Emoji
	}
	return e, true
}

// mediaRequest returns the download to perform for an entry, if any.
func mediaRequest(e archive.LogEntry) (media.Request, bool) {
	if e.Edited || e.File == nil || !e.ContentKind.HasFile() {
		return media.Request{}, false
	}
	return media.Request{ChatID: e.Chat.ID, Kind: e.ContentKind, File: *e.File}, true
}

func audioName(a *telego.Audio) string {
	if a.FileName != "" {
		return a.FileName
	}
	performer, title := a.Performer, a.Title
	if performer == "" {
		performer = unknownArtist
	}
	if title == "" {
		title = unknownTitle
	}
	return archive.Sanitize(performer + "_" + title + ".mp3")
}

func pollOf(p *telego.Poll) *archive.Poll {
	options := make([]string, 0, len(p.Options))
	for _, o := range p.Options {
		options = append(options, o.Text)
	}
	return &archive.Poll{
		ID:          p.ID,
		Question:    p.Question,
		Options:     options,
		Anonymous:   p.IsAnonymous,
		Type:        p.Type,
		MultiAnswer: p.AllowsMultipleAnswers,
		Closed:      p.IsClosed,
	}
}
