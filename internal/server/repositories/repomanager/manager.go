// Package repomanager hands out repositories bound to a DBTX, so services
// can run multi-step operations either on the pool or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"projecthub/internal/dbx"
	"projecthub/internal/server/repositories/credentials"
	"projecthub/internal/server/repositories/memberships"
	"projecthub/internal/server/repositories/profiles"
	"projecthub/internal/server/repositories/projects"
	"projecthub/internal/server/repositories/sessions"
	"projecthub/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Projects(db dbx.DBTX) projects.Repository
	Memberships(db dbx.DBTX) memberships.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
