// Package httpapi wires the HTTP surface of the social service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/social/internal/service/account"
	"github.com/tinoosan/social/internal/service/message"
)

// Server wires handlers and middleware using Chi.
// It composes read (repo) and write (writer) dependencies through services.
type Server struct {
	accounts account.Service
	messages message.Service
	// ready is probed by /readyz when the store supports it; nil means always ready.
	ready ReadyChecker
	log   *slog.Logger
	rt    *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
// The logger is used by request logging, panic recovery and 5xx reporting.
func New(arepo account.Repo, awriter account.Writer, mrepo message.Repo, mwriter message.Writer, authors message.AccountChecker, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		accounts: account.New(arepo, awriter),
		messages: message.New(mrepo, mwriter, authors),
		log:      logger,
		rt:       r,
	}
	if rc, ok := any(arepo).(ReadyChecker); ok {
		s.ready = rc
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
	// Accounts
	s.rt.With(s.validateCredentials()).Post("/register", s.register)
	s.rt.With(s.validateCredentials()).Post("/login", s.login)
	s.rt.With(s.validateID("account_id")).Get("/accounts/{account_id}/messages", s.listAccountMessages)
	// Messages
	s.rt.With(s.validatePostMessage()).Post("/messages", s.postMessage)
	s.rt.Get("/messages", s.listMessages)
	s.rt.Route("/messages/{message_id}", func(r chi.Router) {
		r.Use(s.validateID("message_id"))
		r.Get("/", s.getMessage)
		r.Delete("/", s.deleteMessage)
		r.With(s.validatePatchMessage()).Patch("/", s.patchMessage)
	})
	// Health and metrics
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Handle("/metrics", metricsHandler())
}
