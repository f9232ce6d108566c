// Package httpapi exposes the account workflow over a thin JSON HTTP API.
// Its only responsibilities are decoding requests, invoking the services,
// and mapping workflow error kinds to status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"projecthub/internal/logging"
	"projecthub/internal/server/services"
)

type Server struct {
	address   string
	logger    logging.Logger
	auth      *services.AuthService
	users     *services.UserService
	sessions  *services.SessionService
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, auth *services.AuthService, users *services.UserService, sessions *services.SessionService, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		auth:      auth,
		users:     users,
		sessions:  sessions,
		jwtSecret: []byte(secretKey),
	}
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignUp)
		r.Post("/auth/signin", s.handleSignIn)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/users/me", s.handleMe)
			r.Get("/users/lookup", s.handleLookup)
			r.Get("/users/me/project", s.handleCurrentProject)
			r.Put("/users/me/project", s.handleSwitchProject)
			r.Get("/users/me/memberships/projects/{projectID}", s.handleProjectMembership)
			r.Get("/users/me/memberships/groups/{groupID}", s.handleGroupMembership)
		})
	})

	return r
}
