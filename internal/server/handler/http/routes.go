// Package http provides HTTP routing and middleware configuration
// for the NoteHub service.
package http

import (
	"net/http"

	"github.com/avolkov/notehub/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs and returns an HTTP handler that serves the NoteHub
// API. It applies request logging, mounts the public registration and login
// endpoints, and protects the note and logout endpoints with bearer-token
// authentication.
//
// Routes:
//
//	POST   /api/register      → authHandler.Register
//	POST   /api/login         → authHandler.Login
//	POST   /api/logout        → authHandler.Logout      (authed)
//	GET    /api/notes         → noteHandler.List        (authed)
//	POST   /api/notes         → noteHandler.Create      (authed)
//	PUT    /api/notes/{id}    → noteHandler.Update      (authed)
//	DELETE /api/notes/{id}    → noteHandler.Delete      (authed)
//	GET    /api/notes/watch   → watchHandler.Watch      (authed, WebSocket)
func NewRouter(
	authHandler *AuthHandler,
	noteHandler *NoteHandler,
	watchHandler *WatchHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(authHandler.AuthService))

			r.Post("/logout", authHandler.Logout)

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", noteHandler.List)
				r.Post("/", noteHandler.Create)
				r.Get("/watch", watchHandler.Watch)
				r.Put("/{id}", noteHandler.Update)
				r.Delete("/{id}", noteHandler.Delete)
			})
		})
	})

	return r
}
