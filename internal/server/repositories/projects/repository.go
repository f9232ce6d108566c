// Package projects provides the repository for project records.
package projects

import (
	"context"

	"projecthub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	Get(ctx context.Context, projectID string) (*models.Project, error)
}
