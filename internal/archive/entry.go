// Package archive turns chat messages into transcript entries and stores them
// on disk together with downloaded media.
package archive

import "time"

// ChatKind is the platform's classification of a chat.
type ChatKind string

const (
	ChatPrivate    ChatKind = "private"
	ChatGroup      ChatKind = "group"
	ChatSupergroup ChatKind = "supergroup"
	ChatChannel    ChatKind = "channel"
)

// ContentKind is the platform's classification of a message payload.
type ContentKind string

const (
	KindText      ContentKind = "text"
	KindAudio     ContentKind = "audio"
	KindDocument  ContentKind = "document"
	KindPhoto     ContentKind = "photo"
	KindSticker   ContentKind = "sticker"
	KindVideo     ContentKind = "video"
	KindVideoNote ContentKind = "video_note"
	KindVoice     ContentKind = "voice"
	KindLocation  ContentKind = "location"
	KindContact   ContentKind = "contact"
	KindVenue     ContentKind = "venue"
	KindPoll      ContentKind = "poll"
	KindDice      ContentKind = "dice"
)

// HasFile reports whether messages of this kind carry a downloadable file.
func (k ContentKind) HasFile() bool {
	switch k {
	case KindAudio, KindDocument, KindPhoto, KindVideo, KindVideoNote, KindVoice, KindSticker:
		return true
	}
	return false
}

// Chat identifies the conversation an entry belongs to.
type Chat struct {
	ID     int64
	Kind   ChatKind
	Title  string
	Handle string
}

// Sender identifies the author of a message.
type Sender struct {
	ID        int64
	IsBot     bool
	FirstName string
	LastName  string
	Handle    string
}

// FileRef addresses an uploaded media object.
type FileRef struct {
	ID       string
	UniqueID string
	Name     string
}

type Location struct {
	Lat float64
	Lon float64
}

type Contact struct {
	FirstName string
	LastName  string
	Phone     string
	UserID    int64
}

type Poll struct {
	ID          string
	Question    string
	Options     []string
	Anonymous   bool
	Type        string
	MultiAnswer bool
	Closed      bool
}

// LogEntry is a single transcript record. It is built per event, rendered
// with Format and discarded; only the rendered text is stored.
//
// Empty strings and nil pointers mean the field is absent. Edited entries
// never carry File, LocalPath or DownloadError.
type LogEntry struct {
	MessageID int
	Timestamp time.Time
	Edited    bool

	Chat        Chat
	Sender      Sender
	ContentKind ContentKind

	Text          string
	Caption       string
	File          *FileRef
	LocalPath     string
	DownloadError string
	Location      *Location
	StickerEmoji  string
	Contact       *Contact
	Poll          *Poll
}
