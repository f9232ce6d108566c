package memberships

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

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

// FindProjectMembership returns the join record for (userID, projectID),
// or common.ErrorNotFound when the user is not a member.
func (r *PostgresRepository) FindProjectMembership(ctx context.Context, userID string, projectID string) (*models.ProjectMembership, error) {
	query :=
		`SELECT user_id, project_id, created_at FROM user_projects
		 WHERE user_id = $1 AND project_id = $2
		 `

	m := &models.ProjectMembership{}
	err := r.db.QueryRowContext(ctx, query, userID, projectID).Scan(
		&m.UserID, &m.ProjectID, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) FindGroupMembership(ctx context.Context, userID string, groupID string) (*models.GroupMembership, error) {
	query :=
		`SELECT user_id, group_id, created_at FROM user_groups
		 WHERE user_id = $1 AND group_id = $2
		 `

	m := &models.GroupMembership{}
	err := r.db.QueryRowContext(ctx, query, userID, groupID).Scan(
		&m.UserID, &m.GroupID, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) AddToProject(ctx context.Context, userID string, projectID string) error {
	query :=
		`INSERT INTO user_projects (user_id, project_id)
		 VALUES ($1, $2)
		 `
	return r.add(ctx, query, userID, projectID)
}

func (r *PostgresRepository) AddToGroup(ctx context.Context, userID string, groupID string) error {
	query :=
		`INSERT INTO user_groups (user_id, group_id)
		 VALUES ($1, $2)
		 `
	return r.add(ctx, query, userID, groupID)
}

func (r *PostgresRepository) add(ctx context.Context, query string, userID, otherID string) error {
	if _, err := r.db.ExecContext(ctx, query, userID, otherID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
