// Package common defines shared sentinel errors used across the projecthub
// services. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Account workflow errors, one per business-rule violation.
	ErrorEmailTaken         = errors.New("email already taken")
	ErrorUsernameTaken      = errors.New("username already taken")
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorNoProjectSelected  = errors.New("no project selected")
	ErrorNotMember          = errors.New("not a project member")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
