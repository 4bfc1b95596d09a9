package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatarchive-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	userActionsCollection = "user_actions"
	usersCollection       = "users"

	writeTimeout = 5 * time.Second
)

// ErrUserNotFound is returned when no user record matches.
var ErrUserNotFound = errors.New("user not found")

// MongoLogger implements Journal using MongoDB.
type MongoLogger struct {
	db  *mongo.Database
	now func() time.Time
}

// NewMongoLogger creates and returns a new MongoLogger instance.
// It requires a connected MongoDB database instance.
func NewMongoLogger(db *mongo.Database) *MongoLogger {
	return &MongoLogger{db: db, now: time.Now}
}

// LogUserAction writes a user action record to the database.
func (m *MongoLogger) LogUserAction(ctx context.Context, userID int64, action string, details map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := m.db.Collection(userActionsCollection).InsertOne(ctx, models.UserAction{
		UserID:  userID,
		Action:  action,
		Details: details,
		Time:    m.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert user action log for user %d: %w", userID, err)
	}
	return nil
}

// UpdateUser updates or inserts user information in the database.
// It refreshes names, the last-seen time and the action counter, and uses
// upsert to create the user if they don't exist.
func (m *MongoLogger) UpdateUser(ctx context.Context, userID int64, username, firstName, lastName string, action string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := m.now()
	update := bson.M{
		"$set": bson.M{
			"username":    username,
			"first_name":  firstName,
			"last_name":   lastName,
			"last_seen":   now,
			"last_action": action,
		},
		"$inc": bson.M{
			"actions_count": 1,
		},
		"$setOnInsert": bson.M{
			"first_seen": now,
		},
	}

	_, err := m.db.Collection(usersCollection).UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return nil
}

// GetUser loads a user record.
func (m *MongoLogger) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := m.db.Collection(usersCollection).FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user %d: %w", userID, err)
	}
	return &user, nil
}

// NopJournal discards everything. It is used when no database is configured.
type NopJournal struct{}

func (NopJournal) LogUserAction(context.Context, int64, string, map[string]interface{}) error {
	return nil
}

func (NopJournal) UpdateUser(context.Context, int64, string, string, string, string) error {
	return nil
}

var (
	_ Journal = (*MongoLogger)(nil)
	_ Journal = NopJournal{}
)
