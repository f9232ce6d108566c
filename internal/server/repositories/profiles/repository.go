// Package profiles provides the repository for profile records, the unique
// (username, email) identity pairs backing users.
package profiles

import (
	"context"

	"projecthub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
}
