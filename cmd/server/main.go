// Package main initializes and starts the NoteHub server, setting up
// configuration, logging, the database connection, repositories, services
// and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/avolkov/notehub/internal/config"
	"github.com/avolkov/notehub/internal/db"
	"github.com/avolkov/notehub/internal/logger"
	"github.com/avolkov/notehub/internal/repository"
	"github.com/avolkov/notehub/internal/server/handler/http"
	"github.com/avolkov/notehub/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Periodically purge expired sessions.
	db.StartSessionCleaner(context.Background(), postgresDB, time.Hour, zapLogger)

	// Initialize repositories for authentication and notes.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	noteRepo := repository.NewPostgresNoteRepository(postgresDB)

	// Initialize business-logic services. The hub fans note snapshots out to
	// live-query subscribers after every mutation.
	hub := service.NewHub()
	authService := service.NewAuthService(authRepo, options.SessionTTL)
	noteService := service.NewNoteService(noteRepo, hub)

	// Create HTTP handlers for auth, note and live-query endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	noteHandler := &http.NoteHandler{NoteService: noteService}
	watchHandler := &http.WatchHandler{
		NoteService: noteService,
		Snapshots:   hub,
		Logger:      zapLogger,
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, noteHandler, watchHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
