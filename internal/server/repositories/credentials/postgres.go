package credentials

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

func (r *PostgresRepository) Create(ctx context.Context, credential *models.Credential) error {

	query :=
		`INSERT INTO credentials (user_id, email, password_hash)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		credential.UserID, credential.Email, credential.PasswordHash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query :=
		`SELECT user_id, email, password_hash, created_at FROM credentials
		 WHERE email = $1
		 `

	credential := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&credential.UserID, &credential.Email, &credential.PasswordHash, &credential.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return credential, nil
}
