package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"projecthub/internal/common"
	"projecthub/internal/server/models"
	"projecthub/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	credentialsRequest
	Username string `json:"username"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type switchProjectRequest struct {
	ProjectID string `json:"project_id"`
}

type userResponse struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	CurrentProjectID string `json:"current_project_id,omitempty"`
}

type projectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r, w, common.ErrorValidation)
		return
	}

	result, err := s.auth.SignUp(r.Context(), services.SignUpArgs{
		Credentials: services.Credentials{Email: req.Email, Password: req.Password},
		Username:    req.Username,
	})
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.logger.Info(r.Context(), "Signed up", "email", result.Email)
	s.writeJSON(w, http.StatusCreated, map[string]string{"email": result.Email})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r, w, common.ErrorValidation)
		return
	}

	result, err := s.auth.SignIn(r.Context(), services.SignInArgs{
		Credentials: services.Credentials{Email: req.Email, Password: req.Password},
	})
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r, w, common.ErrorValidation)
		return
	}

	pair, err := s.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeError(r, w, common.ErrorValidation)
		return
	}

	user, err := s.users.GetByUsernameOrEmail(r.Context(), q)
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleCurrentProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.users.GetCurrentProjectOrFail(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, projectResponse{ID: project.ID, Name: project.Name})
}

func (s *Server) handleSwitchProject(w http.ResponseWriter, r *http.Request) {
	var req switchProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProjectID == "" {
		s.writeError(r, w, common.ErrorValidation)
		return
	}

	if err := s.users.SwitchProject(r.Context(), req.ProjectID, userIDFromContext(r.Context())); err != nil {
		s.writeError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProjectMembership(w http.ResponseWriter, r *http.Request) {
	isMember, err := s.users.IsMemberOfProject(r.Context(), chi.URLParam(r, "projectID"), userIDFromContext(r.Context()))
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"member": isMember})
}

func (s *Server) handleGroupMembership(w http.ResponseWriter, r *http.Request) {
	isMember, err := s.users.IsMemberOfGroup(r.Context(), chi.URLParam(r, "groupID"), userIDFromContext(r.Context()))
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"member": isMember})
}

func toUserResponse(user *models.User) userResponse {
	resp := userResponse{
		ID:               user.ID,
		CurrentProjectID: user.CurrentProjectID,
	}
	if user.Profile != nil {
		resp.Username = user.Profile.Username
		resp.Email = user.Profile.Email
	}
	return resp
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates workflow error kinds into HTTP status codes. Internal
// errors are logged and masked; business-rule violations pass their message
// through so callers can tell the kinds apart.
func (s *Server) writeError(r *http.Request, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, common.ErrorValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorEmailTaken),
		errors.Is(err, common.ErrorUsernameTaken),
		errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrorNoProjectSelected):
		status = http.StatusConflict
	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotMember):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), err.Error())
		msg = common.ErrorInternal.Error()
	}

	s.writeJSON(w, status, map[string]string{"error": msg})
}
