// Package users provides the repository for user records.
package users

import (
	"context"

	"projecthub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error)
	SetCurrentProject(ctx context.Context, userID string, projectID string) error
}
