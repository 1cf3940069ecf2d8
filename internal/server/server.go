// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the whole
// dependency chain is assembled in one place:
//
//	sqlite.DB → store.Store → services → handlers → routes
//
// Each layer only receives what it needs: services get the typed store,
// handlers get services, and nothing below the handlers knows HTTP exists.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/clipfeed/internal/capture"
	"github.com/sakif/clipfeed/internal/config"
	"github.com/sakif/clipfeed/internal/handler"
	"github.com/sakif/clipfeed/internal/middleware"
	sqliteRepo "github.com/sakif/clipfeed/internal/repository/sqlite"
	"github.com/sakif/clipfeed/internal/service"
	"github.com/sakif/clipfeed/internal/store"
)

// Server represents the HTTP server and all its dependencies. It owns the
// database connection and closes it during graceful shutdown so the WAL is
// flushed and the file lock released.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS — it executes in the order added:
// RequestID (tracing) → RealIP → Recoverer (panics become 500s) → Logger.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Dependency chain ===
	st := store.New(s.db)
	users := service.NewUserService(st, s.logger)
	sessions := service.NewSessionService(st, s.logger)
	content := service.NewContentService(st, users, s.logger)
	feed := service.NewFeedService(content, sessions)

	// The capture device: a configured file or pipe stands in for the
	// camera on a headless daemon. With no source configured, every
	// record attempt reports denied access — same as a user dismissing
	// the permission prompt.
	var device capture.Device
	if s.config.CaptureSource != "" {
		device = capture.FileDevice(s.config.CaptureSource)
	} else {
		device = deniedDevice{}
	}
	captureCtl := capture.NewController(device, os.ReadFile, s.logger)

	authHandler := handler.NewAuthHandler(users, sessions, s.logger)
	contentHandler := handler.NewContentHandler(content, sessions, captureCtl, s.logger)
	feedHandler := handler.NewFeedHandler(feed, content, sessions, s.logger)
	captureHandler := handler.NewCaptureHandler(captureCtl, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/session", authHandler.HandleSession)
		r.Post("/plan", authHandler.HandleSetPlan)

		r.Get("/feed", feedHandler.HandleFeed)
		r.Get("/hashtags/{tag}", feedHandler.HandleHashtag)
		r.Get("/creators/{handle}", feedHandler.HandleCreator)
		r.Get("/sounds/{key}", feedHandler.HandleSound)
		r.Get("/profile", feedHandler.HandleProfile)

		r.Post("/posts", contentHandler.HandlePublish)
		r.Post("/posts/{id}/like", contentHandler.HandleLike)
		r.Post("/posts/{id}/favorite", contentHandler.HandleFavorite)
		r.Get("/saved", contentHandler.HandleSaved)

		r.Get("/capture", captureHandler.HandleState)
		r.Post("/capture/select", captureHandler.HandleSelectFile)
		r.Post("/capture/record/start", captureHandler.HandleStartRecording)
		r.Post("/capture/record/stop", captureHandler.HandleStopRecording)
		r.Post("/capture/clear", captureHandler.HandleClear)
	})
}

// deniedDevice refuses every acquisition. Used when no capture source is
// configured.
type deniedDevice struct{}

func (deniedDevice) Acquire(_ context.Context) (capture.Stream, error) {
	return nil, fmt.Errorf("no capture source configured")
}

// Start starts the HTTP server and handles graceful shutdown:
//  1. Stop accepting new connections on SIGINT/SIGTERM
//  2. Wait up to 30s for in-flight requests
//  3. Close the database
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
