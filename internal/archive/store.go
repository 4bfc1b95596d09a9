package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store owns every filesystem write of the archiver: transcript appends,
// per-chat media directories and media payloads.
type Store struct {
	fs        afero.Fs
	logDir    string
	mediaRoot string
}

// NewStore creates a Store rooted at logDir (transcripts) and mediaRoot
// (media). Pass afero.NewOsFs() in production.
func NewStore(fs afero.Fs, logDir, mediaRoot string) *Store {
	return &Store{fs: fs, logDir: logDir, mediaRoot: mediaRoot}
}

// MediaRoot returns the top-level media directory.
func (s *Store) MediaRoot() string {
	return s.mediaRoot
}

// Init creates the media root. A failure here is a startup error.
func (s *Store) Init() error {
	if err := s.fs.MkdirAll(s.mediaRoot, dirPerm); err != nil {
		return fmt.Errorf("failed to create media root %q: %w", s.mediaRoot, err)
	}
	if s.logDir != "" && s.logDir != "." {
		if err := s.fs.MkdirAll(s.logDir, dirPerm); err != nil {
			return fmt.Errorf("failed to create log dir %q: %w", s.logDir, err)
		}
	}
	return nil
}

// LogPath returns the transcript path for a chat.
func (s *Store) LogPath(chat Chat, sender Sender) string {
	return filepath.Join(s.logDir, LogFilename(chat, sender))
}

// MediaDir returns the media directory for a chat without creating it.
func (s *Store) MediaDir(chatID int64) string {
	return MediaDir(s.mediaRoot, chatID)
}

// EnsureMediaDir creates the chat's media directory if it is missing and
// returns its path. Existing directories and their files are left untouched.
func (s *Store) EnsureMediaDir(chatID int64) (string, error) {
	dir := s.MediaDir(chatID)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return dir, fmt.Errorf("failed to create media dir %q: %w", dir, err)
	}
	return dir, nil
}

// Append renders the entry and appends it to the chat's transcript. It
// returns the transcript path even on failure so callers can report it.
func (s *Store) Append(entry LogEntry) (string, error) {
	path := s.LogPath(entry.Chat, entry.Sender)

	f, err := s.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return path, fmt.Errorf("failed to open log file %q: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(Format(entry)); err != nil {
		return path, fmt.Errorf("failed to write log file %q: %w", path, err)
	}
	return path, nil
}

// WriteMedia stores a media payload, replacing any previous file of the same
// name.
func (s *Store) WriteMedia(path string, data []byte) error {
	if err := afero.WriteFile(s.fs, path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write media file %q: %w", path, err)
	}
	return nil
}
