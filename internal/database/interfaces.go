package database

import (
	"context"
)

// UserActionLogger defines the interface for logging user actions.
type UserActionLogger interface {
	// LogUserAction records an action performed by a user, such as a message
	// being archived or a command being issued.
	LogUserAction(ctx context.Context, userID int64, action string, details map[string]interface{}) error
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// UpdateUser updates or creates a user record in the database.
	UpdateUser(ctx context.Context, userID int64, username, firstName, lastName string, action string) error
}

// Journal combines both concerns; MongoLogger and NopJournal implement it.
type Journal interface {
	UserActionLogger
	UserRepository
}
