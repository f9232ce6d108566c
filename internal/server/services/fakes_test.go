package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"projecthub/internal/common"
	"projecthub/internal/dbx"
	"projecthub/internal/server/models"
	"projecthub/internal/server/repositories/credentials"
	"projecthub/internal/server/repositories/memberships"
	"projecthub/internal/server/repositories/profiles"
	"projecthub/internal/server/repositories/projects"
	"projecthub/internal/server/repositories/sessions"
	"projecthub/internal/server/repositories/users"
)

// fakeStore is a shared in-memory backing for the fake repositories, so
// service tests exercise the real orchestration logic without PostgreSQL.
type fakeStore struct {
	mu          sync.Mutex
	profiles    map[string]*models.Profile
	users       map[string]*models.User
	projects    map[string]*models.Project
	projectRefs map[string]map[string]bool // userID -> projectID set
	groupRefs   map[string]map[string]bool // userID -> groupID set
	credentials map[string]*models.Credential
	sessions    map[string]*models.Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:    map[string]*models.Profile{},
		users:       map[string]*models.User{},
		projects:    map[string]*models.Project{},
		projectRefs: map[string]map[string]bool{},
		groupRefs:   map[string]map[string]bool{},
		credentials: map[string]*models.Credential{},
		sessions:    map[string]*models.Session{},
	}
}

type fakeRepoManager struct {
	store *fakeStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository {
	return &fakeUsers{store: m.store}
}
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository {
	return &fakeProfiles{store: m.store}
}
func (m *fakeRepoManager) Projects(dbx.DBTX) projects.Repository {
	return &fakeProjects{store: m.store}
}
func (m *fakeRepoManager) Memberships(dbx.DBTX) memberships.Repository {
	return &fakeMemberships{store: m.store}
}
func (m *fakeRepoManager) Credentials(dbx.DBTX) credentials.Repository {
	return &fakeCredentials{store: m.store}
}
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository {
	return &fakeSessions{store: m.store}
}

type fakeProfiles struct{ store *fakeStore }

func (r *fakeProfiles) Create(_ context.Context, profile *models.Profile) (*models.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.profiles {
		if p.Username == profile.Username {
			return nil, common.ErrorUsernameTaken
		}
		if p.Email == profile.Email {
			return nil, common.ErrorEmailTaken
		}
	}
	created := &models.Profile{
		ID:        uuid.NewString(),
		Username:  profile.Username,
		Email:     profile.Email,
		CreatedAt: time.Now(),
	}
	r.store.profiles[created.ID] = created
	return created, nil
}

func (r *fakeProfiles) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeProfiles) GetByUsername(_ context.Context, username string) (*models.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeUsers struct{ store *fakeStore }

func (r *fakeUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	created := &models.User{
		ID:        uuid.NewString(),
		ProfileID: user.ProfileID,
		CreatedAt: time.Now(),
	}
	r.store.users[created.ID] = created
	return created, nil
}

func (r *fakeUsers) Get(_ context.Context, userID string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *user
	copied.Profile = r.store.profiles[user.ProfileID]
	return &copied, nil
}

func (r *fakeUsers) GetByUsernameOrEmail(_ context.Context, usernameOrEmail string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		p := r.store.profiles[user.ProfileID]
		if p != nil && (p.Username == usernameOrEmail || p.Email == usernameOrEmail) {
			copied := *user
			copied.Profile = p
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsers) SetCurrentProject(_ context.Context, userID string, projectID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	user.CurrentProjectID = projectID
	return nil
}

type fakeProjects struct{ store *fakeStore }

func (r *fakeProjects) Create(_ context.Context, project *models.Project) (*models.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	created := &models.Project{ID: uuid.NewString(), Name: project.Name, CreatedAt: time.Now()}
	r.store.projects[created.ID] = created
	return created, nil
}

func (r *fakeProjects) Get(_ context.Context, projectID string) (*models.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	project, ok := r.store.projects[projectID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return project, nil
}

type fakeMemberships struct{ store *fakeStore }

func (r *fakeMemberships) FindProjectMembership(_ context.Context, userID string, projectID string) (*models.ProjectMembership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.projectRefs[userID][projectID] {
		return &models.ProjectMembership{UserID: userID, ProjectID: projectID}, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeMemberships) FindGroupMembership(_ context.Context, userID string, groupID string) (*models.GroupMembership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.groupRefs[userID][groupID] {
		return &models.GroupMembership{UserID: userID, GroupID: groupID}, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeMemberships) AddToProject(_ context.Context, userID string, projectID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.projectRefs[userID][projectID] {
		return common.ErrorAlreadyExists
	}
	if r.store.projectRefs[userID] == nil {
		r.store.projectRefs[userID] = map[string]bool{}
	}
	r.store.projectRefs[userID][projectID] = true
	return nil
}

func (r *fakeMemberships) AddToGroup(_ context.Context, userID string, groupID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.groupRefs[userID][groupID] {
		return common.ErrorAlreadyExists
	}
	if r.store.groupRefs[userID] == nil {
		r.store.groupRefs[userID] = map[string]bool{}
	}
	r.store.groupRefs[userID][groupID] = true
	return nil
}

type fakeCredentials struct{ store *fakeStore }

func (r *fakeCredentials) Create(_ context.Context, credential *models.Credential) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.credentials[credential.Email]; ok {
		return common.ErrorAlreadyExists
	}
	r.store.credentials[credential.Email] = credential
	return nil
}

func (r *fakeCredentials) GetByEmail(_ context.Context, email string) (*models.Credential, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	credential, ok := r.store.credentials[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return credential, nil
}

type fakeSessions struct{ store *fakeStore }

func (r *fakeSessions) Create(_ context.Context, userID string, token string, validity time.Duration) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[token] = &models.Session{
		UserID:    userID,
		Token:     token,
		Expires:   time.Now().Add(validity),
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *fakeSessions) Find(_ context.Context, token string) (*models.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.sessions[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return session, nil
}

func (r *fakeSessions) Delete(_ context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, token)
	return nil
}

// setupDB opens an in-memory database so dbx.WithTx has something real to
// begin transactions on; the fake repositories never touch it.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:services_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
