package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"projecthub/internal/common"
	"projecthub/internal/server/models"
	"projecthub/internal/server/repositories/repomanager"
)

const bcryptCost = 12

// dummyHash is compared against when the email is unknown, so lookups take
// roughly the same time whether or not the account exists.
var dummyHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

// CredentialsService stores and verifies password credentials. Passwords are
// bcrypt-hashed on the way in and never read back out.
type CredentialsService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewCredentialsService(db *sql.DB, m repomanager.RepositoryManager) *CredentialsService {
	return &CredentialsService{db: db, rm: m}
}

// Create hashes the password and persists the credential for the user.
func (s *CredentialsService) Create(ctx context.Context, userID string, email string, password string) error {

	if password == "" {
		return common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	credential := &models.Credential{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.rm.Credentials(s.db).Create(ctx, credential); err != nil {
		return fmt.Errorf("error creating credential: %w", err)
	}

	return nil
}

// FindByEmailAndPassword verifies the (email, password) pair and returns the
// user id it resolves to. Unknown email and wrong password both yield
// common.ErrorInvalidCredentials.
func (s *CredentialsService) FindByEmailAndPassword(ctx context.Context, email string, password string) (string, error) {

	credential, err := s.rm.Credentials(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a comparison so the miss is not observable through timing
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", common.ErrorInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrorInvalidCredentials
	}

	return credential.UserID, nil
}
