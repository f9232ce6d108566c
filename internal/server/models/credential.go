package models

import "time"

// Credential associates a user with the bcrypt hash of their password.
// The plaintext secret never leaves the credentials service.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
