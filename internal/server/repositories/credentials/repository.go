// Package credentials provides the repository for password credentials.
// Only hashes are stored here.
package credentials

import (
	"context"

	"projecthub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, credential *models.Credential) error
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
}
