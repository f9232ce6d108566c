package models

import "time"

// Session is a server-stored refresh token issued alongside each access
// token. The access token itself is a stateless JWT and is not persisted.
type Session struct {
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
