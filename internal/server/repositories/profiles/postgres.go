package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

// Create inserts a new profile with a generated id. The unique constraints on
// username and email are the backstop for the service-level availability
// checks: a violation maps to the corresponding taken-error, so a racing
// duplicate insert fails with the same kind the read-check would have raised.
func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {

	query :=
		`INSERT INTO profiles (id, username, email)
		 VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	profile.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query,
		profile.ID, profile.Username, profile.Email).Scan(&profile.CreatedAt)

	if err != nil {
		switch uniqueViolation(err) {
		case "profiles_username_key":
			return nil, common.ErrorUsernameTaken
		case "profiles_email_key":
			return nil, common.ErrorEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query :=
		`SELECT id, username, email, created_at FROM profiles
		 WHERE email = $1
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	query :=
		`SELECT id, username, email, created_at FROM profiles
		 WHERE username = $1
		 `
	return r.getOne(ctx, query, username)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&profile.ID, &profile.Username, &profile.Email, &profile.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

// uniqueViolation returns the violated constraint name for a postgres
// unique-violation error (SQLSTATE 23505), or "" for any other error.
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}
