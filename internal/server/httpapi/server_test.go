package httpapi

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"projecthub/internal/common"
	"projecthub/internal/dbx"
	"projecthub/internal/logging"
	"projecthub/internal/server/config"
	"projecthub/internal/server/models"
	"projecthub/internal/server/repositories/credentials"
	"projecthub/internal/server/repositories/memberships"
	"projecthub/internal/server/repositories/profiles"
	"projecthub/internal/server/repositories/projects"
	"projecthub/internal/server/repositories/repomanager"
	"projecthub/internal/server/repositories/sessions"
	"projecthub/internal/server/repositories/users"
	"projecthub/internal/server/services"
)

const testSecret = "test-secret"

// memStore backs the in-memory repositories the API tests run against.
// Handlers exercise the real services end to end; only PostgreSQL is faked.
type memStore struct {
	profiles    map[string]*models.Profile
	users       map[string]*models.User
	projects    map[string]*models.Project
	projectRefs map[string]bool // userID + "|" + projectID
	groupRefs   map[string]bool // userID + "|" + groupID
	credentials map[string]*models.Credential
	sessions    map[string]*models.Session
}

func newMemStore() *memStore {
	return &memStore{
		profiles:    map[string]*models.Profile{},
		users:       map[string]*models.User{},
		projects:    map[string]*models.Project{},
		projectRefs: map[string]bool{},
		groupRefs:   map[string]bool{},
		credentials: map[string]*models.Credential{},
		sessions:    map[string]*models.Session{},
	}
}

// addProject registers a project and makes the user a member, standing in for
// the ops tooling that normally does this outside the workflow.
func (s *memStore) addProject(name string, memberUserID string) *models.Project {
	project := &models.Project{ID: uuid.NewString(), Name: name, CreatedAt: time.Now()}
	s.projects[project.ID] = project
	if memberUserID != "" {
		s.projectRefs[memberUserID+"|"+project.ID] = true
	}
	return project
}

type memRepoManager struct{ s *memStore }

var _ repomanager.RepositoryManager = (*memRepoManager)(nil)

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(dbx.DBTX) users.Repository              { return &memUsers{s: m.s} }
func (m *memRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return &memProfiles{s: m.s} }
func (m *memRepoManager) Projects(dbx.DBTX) projects.Repository        { return &memProjects{s: m.s} }
func (m *memRepoManager) Memberships(dbx.DBTX) memberships.Repository {
	return &memMemberships{s: m.s}
}
func (m *memRepoManager) Credentials(dbx.DBTX) credentials.Repository {
	return &memCredentials{s: m.s}
}
func (m *memRepoManager) Sessions(dbx.DBTX) sessions.Repository { return &memSessions{s: m.s} }

type memProfiles struct{ s *memStore }

func (r *memProfiles) Create(_ context.Context, profile *models.Profile) (*models.Profile, error) {
	for _, p := range r.s.profiles {
		if p.Username == profile.Username {
			return nil, common.ErrorUsernameTaken
		}
		if p.Email == profile.Email {
			return nil, common.ErrorEmailTaken
		}
	}
	created := &models.Profile{ID: uuid.NewString(), Username: profile.Username, Email: profile.Email, CreatedAt: time.Now()}
	r.s.profiles[created.ID] = created
	return created, nil
}

func (r *memProfiles) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range r.s.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memProfiles) GetByUsername(_ context.Context, username string) (*models.Profile, error) {
	for _, p := range r.s.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memUsers struct{ s *memStore }

func (r *memUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	created := &models.User{ID: uuid.NewString(), ProfileID: user.ProfileID, CreatedAt: time.Now()}
	r.s.users[created.ID] = created
	return created, nil
}

func (r *memUsers) Get(_ context.Context, userID string) (*models.User, error) {
	user, ok := r.s.users[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *user
	copied.Profile = r.s.profiles[user.ProfileID]
	return &copied, nil
}

func (r *memUsers) GetByUsernameOrEmail(_ context.Context, usernameOrEmail string) (*models.User, error) {
	for _, user := range r.s.users {
		p := r.s.profiles[user.ProfileID]
		if p != nil && (p.Username == usernameOrEmail || p.Email == usernameOrEmail) {
			copied := *user
			copied.Profile = p
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) SetCurrentProject(_ context.Context, userID string, projectID string) error {
	user, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	user.CurrentProjectID = projectID
	return nil
}

type memProjects struct{ s *memStore }

func (r *memProjects) Create(_ context.Context, project *models.Project) (*models.Project, error) {
	created := &models.Project{ID: uuid.NewString(), Name: project.Name, CreatedAt: time.Now()}
	r.s.projects[created.ID] = created
	return created, nil
}

func (r *memProjects) Get(_ context.Context, projectID string) (*models.Project, error) {
	project, ok := r.s.projects[projectID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return project, nil
}

type memMemberships struct{ s *memStore }

func (r *memMemberships) FindProjectMembership(_ context.Context, userID string, projectID string) (*models.ProjectMembership, error) {
	if r.s.projectRefs[userID+"|"+projectID] {
		return &models.ProjectMembership{UserID: userID, ProjectID: projectID}, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memMemberships) FindGroupMembership(_ context.Context, userID string, groupID string) (*models.GroupMembership, error) {
	if r.s.groupRefs[userID+"|"+groupID] {
		return &models.GroupMembership{UserID: userID, GroupID: groupID}, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memMemberships) AddToProject(_ context.Context, userID string, projectID string) error {
	r.s.projectRefs[userID+"|"+projectID] = true
	return nil
}

func (r *memMemberships) AddToGroup(_ context.Context, userID string, groupID string) error {
	r.s.groupRefs[userID+"|"+groupID] = true
	return nil
}

type memCredentials struct{ s *memStore }

func (r *memCredentials) Create(_ context.Context, credential *models.Credential) error {
	if _, ok := r.s.credentials[credential.Email]; ok {
		return common.ErrorAlreadyExists
	}
	r.s.credentials[credential.Email] = credential
	return nil
}

func (r *memCredentials) GetByEmail(_ context.Context, email string) (*models.Credential, error) {
	credential, ok := r.s.credentials[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return credential, nil
}

type memSessions struct{ s *memStore }

func (r *memSessions) Create(_ context.Context, userID string, token string, validity time.Duration) error {
	r.s.sessions[token] = &models.Session{UserID: userID, Token: token, Expires: time.Now().Add(validity), CreatedAt: time.Now()}
	return nil
}

func (r *memSessions) Find(_ context.Context, token string) (*models.Session, error) {
	session, ok := r.s.sessions[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return session, nil
}

func (r *memSessions) Delete(_ context.Context, token string) error {
	delete(r.s.sessions, token)
	return nil
}

// newTestServer wires the real services over the in-memory repositories and
// returns the router ready for httptest.
func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()

	store := newMemStore()
	rm := &memRepoManager{s: store}

	db, err := sql.Open("sqlite", "file:httpapi_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	}

	userSvc := services.NewUserService(db, rm, services.NewProjectService(db, rm))
	authSvc := services.NewAuthService(userSvc, services.NewCredentialsService(db, rm), services.NewSessionService(db, rm, cfg))
	sessionSvc := services.NewSessionService(db, rm, cfg)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(":0", logger, authSvc, userSvc, sessionSvc, testSecret), store
}
