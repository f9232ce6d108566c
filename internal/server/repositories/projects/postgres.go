package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"projecthub/internal/common"
	"projecthub/internal/dbx"
	"projecthub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {

	query :=
		`INSERT INTO projects (id, name)
		 VALUES ($1, $2)
		 RETURNING created_at
		 `

	project.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query, project.ID, project.Name).Scan(&project.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return project, nil
}

func (r *PostgresRepository) Get(ctx context.Context, projectID string) (*models.Project, error) {
	query :=
		`SELECT id, name, created_at FROM projects
		 WHERE id = $1
		 `

	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(
		&project.ID, &project.Name, &project.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return project, nil
}
