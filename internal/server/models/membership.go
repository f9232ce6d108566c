package models

import "time"

// ProjectMembership is a non-owning join record; its existence means the user
// belongs to the project.
type ProjectMembership struct {
	UserID    string
	ProjectID string
	CreatedAt time.Time
}

// GroupMembership is the user-to-group join record. Group records themselves
// are owned by another service.
type GroupMembership struct {
	UserID    string
	GroupID   string
	CreatedAt time.Time
}
