// Package sessions provides a PostgreSQL-backed repository for the refresh
// tokens issued by the session service.
package sessions

import (
	"context"
	"time"

	"projecthub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}
