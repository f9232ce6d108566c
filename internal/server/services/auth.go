package services

import (
	"context"

	"projecthub/internal/common"
)

// Credentials is an (email, password) pair supplied by a caller.
type Credentials struct {
	Email    string
	Password string
}

// SignUpArgs carries the input of the sign-up operation.
type SignUpArgs struct {
	Credentials Credentials
	Username    string
}

// SignInArgs carries the input of the sign-in operation.
type SignInArgs struct {
	Credentials Credentials
}

// SignUpResult echoes the email the account was created for.
type SignUpResult struct {
	Email string
}

// SignInResult carries the tokens of the freshly started session.
type SignInResult struct {
	AccessToken  string
	RefreshToken string
}

// AuthService composes the user, credentials, and session services into the
// sign-up and sign-in workflows.
type AuthService struct {
	users       *UserService
	credentials *CredentialsService
	sessions    *SessionService
}

func NewAuthService(users *UserService, credentials *CredentialsService, sessions *SessionService) *AuthService {
	return &AuthService{users: users, credentials: credentials, sessions: sessions}
}

// SignUp creates the user (profile included) and then the credential, in that
// order. A failed step aborts the rest; no compensating rollback spans the
// two collaborators.
func (s *AuthService) SignUp(ctx context.Context, args SignUpArgs) (*SignUpResult, error) {
	email, password := args.Credentials.Email, args.Credentials.Password

	// reject an empty password before any store is touched
	if password == "" {
		return nil, common.ErrorValidation
	}

	user, err := s.users.Create(ctx, email, args.Username)
	if err != nil {
		return nil, err
	}

	if err := s.credentials.Create(ctx, user.ID, email, password); err != nil {
		return nil, err
	}

	return &SignUpResult{Email: email}, nil
}

// SignIn resolves the credentials to a user id and starts a session for it.
func (s *AuthService) SignIn(ctx context.Context, args SignInArgs) (*SignInResult, error) {
	userID, err := s.credentials.FindByEmailAndPassword(ctx, args.Credentials.Email, args.Credentials.Password)
	if err != nil {
		return nil, err
	}

	pair, err := s.sessions.StartSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SignInResult{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}
