// Package models contains the server-side entities persisted by the
// repositories.
package models

import "time"

// User references exactly one Profile and, optionally, the project the user
// is currently working in. CurrentProjectID is empty until the user switches
// into a project.
type User struct {
	ID               string
	ProfileID        string
	CurrentProjectID string
	Profile          *Profile
	CreatedAt        time.Time
}
