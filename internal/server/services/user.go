package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"projecthub/internal/common"
	"projecthub/internal/dbx"
	"projecthub/internal/server/models"
	"projecthub/internal/server/repositories/repomanager"
)

// UserService implements the account workflow around user records:
// creation with uniqueness checks, lookups, membership queries, and
// current-project switching.
type UserService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	projects *ProjectService
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, projects *ProjectService) *UserService {
	return &UserService{db: db, rm: m, projects: projects}
}

// Create makes a new user backed by a fresh profile. Steps, in order:
// verify the email is free, verify the username is free, insert the profile,
// insert the user. The two inserts share one transaction; the unique
// constraints on profiles close the check-then-act gap between the
// availability checks and the insert.
func (s *UserService) Create(ctx context.Context, email string, username string) (*models.User, error) {

	if email == "" || username == "" {
		return nil, common.ErrorValidation
	}

	if err := s.checkEmailNotTaken(ctx, email); err != nil {
		return nil, err
	}

	if err := s.checkUsernameNotTaken(ctx, username); err != nil {
		return nil, err
	}

	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		profile, err := s.rm.Profiles(tx).Create(ctx, &models.Profile{Username: username, Email: email})
		if err != nil {
			return err
		}

		user, err = s.rm.Users(tx).Create(ctx, &models.User{ProfileID: profile.ID})
		if err != nil {
			return err
		}

		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Get returns the user with the profile joined in. common.ErrorNotFound
// propagates from the store when the user is absent.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.rm.Users(s.db).Get(ctx, userID)
}

// GetByUsernameOrEmail resolves a user by either profile field.
func (s *UserService) GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	return s.rm.Users(s.db).GetByUsernameOrEmail(ctx, usernameOrEmail)
}

// GetCurrentProjectOrFail returns the project the user is currently working
// in, or common.ErrorNoProjectSelected when the user has not switched into
// any project yet.
func (s *UserService) GetCurrentProjectOrFail(ctx context.Context, userID string) (*models.Project, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.CurrentProjectID == "" {
		return nil, common.ErrorNoProjectSelected
	}

	return s.projects.Get(ctx, user.CurrentProjectID)
}

// IsMemberOfProject reports whether a join record exists for the pair.
// Absence is a valid result, not an error.
func (s *UserService) IsMemberOfProject(ctx context.Context, projectID string, userID string) (bool, error) {
	_, err := s.rm.Memberships(s.db).FindProjectMembership(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsMemberOfGroup reports whether a join record exists for the pair.
func (s *UserService) IsMemberOfGroup(ctx context.Context, groupID string, userID string) (bool, error) {
	_, err := s.rm.Memberships(s.db).FindGroupMembership(ctx, userID, groupID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SwitchProject sets the user's current project after verifying membership.
// Non-members fail with common.ErrorNotMember and the current project is
// left unchanged.
func (s *UserService) SwitchProject(ctx context.Context, projectID string, userID string) error {
	isMember, err := s.IsMemberOfProject(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return common.ErrorNotMember
	}

	return s.rm.Users(s.db).SetCurrentProject(ctx, userID, projectID)
}

func (s *UserService) checkEmailNotTaken(ctx context.Context, email string) error {
	_, err := s.rm.Profiles(s.db).GetByEmail(ctx, email)
	if err == nil {
		return common.ErrorEmailTaken
	}
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return fmt.Errorf("error checking email: %w", err)
}

func (s *UserService) checkUsernameNotTaken(ctx context.Context, username string) error {
	_, err := s.rm.Profiles(s.db).GetByUsername(ctx, username)
	if err == nil {
		return common.ErrorUsernameTaken
	}
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return fmt.Errorf("error checking username: %w", err)
}
