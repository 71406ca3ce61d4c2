// Package httpapi exposes the vote, document, todo and message services
// as a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/logger"
)

// UserHeader carries the caller's user id. Requests without it act as the
// server's default user.
const UserHeader = "X-User-ID"

const shutdownTimeout = 5 * time.Second

// Ports holds the services the API calls. Nil services answer 501.
type Ports struct {
	Vote     driving.VoteService
	Todo     driving.TodoService
	Document driving.DocumentService
	Message  driving.MessageService
	Coach    driving.CoachService
}

// Server is the HTTP API.
type Server struct {
	ports       *Ports
	defaultUser string
	router      chi.Router
}

// ErrNoPorts is returned when NewServer is called without ports.
var ErrNoPorts = errors.New("httpapi: ports are required")

// NewServer creates the API server.
func NewServer(ports *Ports, defaultUser string) (*Server, error) {
	if ports == nil {
		return nil, ErrNoPorts
	}
	s := &Server{ports: ports, defaultUser: defaultUser}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(s.identify)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/vote", func(r chi.Router) {
			r.Get("/", s.listVotes)
			r.Patch("/", s.vote)
		})
		api.Route("/document", func(r chi.Router) {
			r.Get("/", s.getDocumentVersions)
			r.Get("/by-chat", s.getDocumentByChat)
			r.Post("/", s.saveDocument)
			r.Delete("/", s.revertDocument)
		})
		api.Route("/todos", func(r chi.Router) {
			r.Get("/", s.listTodos)
			r.Post("/complete", s.completeTodo)
			r.Post("/edit", s.editTodo)
		})
		api.Route("/messages", func(r chi.Router) {
			r.Get("/", s.listMessages)
			r.Post("/", s.addMessage)
		})
		api.Post("/ask", s.ask)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type userKey struct{}

func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := r.Header.Get(UserHeader)
		if user == "" {
			user = s.defaultUser
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

func userFrom(r *http.Request) string {
	user, _ := r.Context().Value(userKey{}).(string)
	return user
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("http %s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
