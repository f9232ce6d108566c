package models

import "time"

// Profile is the unique (username, email) identity record backing a User.
// Immutable after creation.
type Profile struct {
	ID        string
	Username  string
	Email     string
	CreatedAt time.Time
}
