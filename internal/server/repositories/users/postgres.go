package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, profile_id)
		 VALUES ($1, $2)
		 RETURNING created_at
		 `

	user.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query, user.ID, user.ProfileID).Scan(&user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Get returns the user with its profile joined in.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	query :=
		`SELECT u.id, u.profile_id, u.current_project_id, u.created_at,
		        p.username, p.email, p.created_at
		 FROM users u
		 JOIN profiles p ON p.id = u.profile_id
		 WHERE u.id = $1
		 `
	return r.getOne(ctx, query, userID)
}

// GetByUsernameOrEmail returns the single user whose profile matches the
// given value in either the username or the email column. Profile uniqueness
// guarantees at most one row.
func (r *PostgresRepository) GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	query :=
		`SELECT u.id, u.profile_id, u.current_project_id, u.created_at,
		        p.username, p.email, p.created_at
		 FROM users u
		 JOIN profiles p ON p.id = u.profile_id
		 WHERE p.username = $1 OR p.email = $1
		 `
	return r.getOne(ctx, query, usernameOrEmail)
}

func (r *PostgresRepository) SetCurrentProject(ctx context.Context, userID string, projectID string) error {
	query :=
		`UPDATE users SET current_project_id = $2
		 WHERE id = $1
		 `
	if _, err := r.db.ExecContext(ctx, query, userID, projectID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	user := &models.User{Profile: &models.Profile{}}
	var currentProject sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.ProfileID, &currentProject, &user.CreatedAt,
		&user.Profile.Username, &user.Profile.Email, &user.Profile.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.CurrentProjectID = currentProject.String
	user.Profile.ID = user.ProfileID
	return user, nil
}
