package handlers

// Action types for logging and user updates
const (
	ActionCommandStart         = "command_start"
	ActionArchiveMessage       = "archive_message"
	ActionArchiveEditedMessage = "archive_edited_message"
)
