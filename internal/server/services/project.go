// Package services contains the server-side business logic: the account
// workflow (user creation, sign-up/sign-in) and its collaborators
// (credentials, sessions, projects).
package services

import (
	"context"
	"database/sql"

	"projecthub/internal/common"
	"projecthub/internal/server/models"
	"projecthub/internal/server/repositories/repomanager"
)

// ProjectService resolves and creates project records.
type ProjectService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager) *ProjectService {
	return &ProjectService{db: db, rm: m}
}

// Get returns the project with the given id, or common.ErrorNotFound.
func (s *ProjectService) Get(ctx context.Context, projectID string) (*models.Project, error) {
	return s.rm.Projects(s.db).Get(ctx, projectID)
}

// Create registers a new project. Used by ops tooling; the account workflow
// itself never creates projects.
func (s *ProjectService) Create(ctx context.Context, name string) (*models.Project, error) {
	if name == "" {
		return nil, common.ErrorValidation
	}
	return s.rm.Projects(s.db).Create(ctx, &models.Project{Name: name})
}
