package models

import "time"

// UserAction is one journal record in the user_actions collection.
type UserAction struct {
	UserID  int64                  `bson:"user_id"`
	Action  string                 `bson:"action"`
	Details map[string]interface{} `bson:"details,omitempty"`
	Time    time.Time              `bson:"time"`
}
