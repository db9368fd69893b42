// Package server wires the application together: store backend selection,
// services, handlers, routes, middleware, and graceful shutdown. It is the
// composition root — nothing else in the codebase constructs cross-layer
// dependencies.
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

	"github.com/tahmid/socialgraph/internal/auth"
	"github.com/tahmid/socialgraph/internal/handler"
	"github.com/tahmid/socialgraph/internal/middleware"
	"github.com/tahmid/socialgraph/internal/repository"
	neo4jRepo "github.com/tahmid/socialgraph/internal/repository/neo4j"
	sqliteRepo "github.com/tahmid/socialgraph/internal/repository/sqlite"
	"github.com/tahmid/socialgraph/internal/service"
)

// Config holds server configuration, read from the environment in main.
//
// Backend selection: when Neo4jURI is set the Neo4j backend is used;
// otherwise the embedded SQLite backend at DBPath. Both implement the same
// repository interfaces, so nothing past this struct knows which one runs.
type Config struct {
	Port int

	DBPath string // SQLite database path, used when Neo4jURI is empty

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	JWTSecret string
}

// Server owns the router, the store connection, and the shutdown sequence.
type Server struct {
	router     *chi.Mux
	config     Config
	logger     *slog.Logger
	store      repository.SocialGraph
	closeStore func(context.Context) error
}

// New assembles the full dependency chain: store → services → handlers →
// routes. Each layer receives only the interfaces it needs.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router:     chi.NewRouter(),
		config:     cfg,
		logger:     logger,
		store:      store,
		closeStore: closeStore,
	}

	if err := s.setupRoutes(); err != nil {
		closeStore(ctx)
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// openStore picks and connects the configured backend. The returned close
// function hides the backends' differing Close signatures.
func openStore(ctx context.Context, cfg Config, logger *slog.Logger) (repository.SocialGraph, func(context.Context) error, error) {
	if cfg.Neo4jURI != "" {
		store, err := neo4jRepo.New(ctx, neo4jRepo.Config{
			URI:      cfg.Neo4jURI,
			Username: cfg.Neo4jUser,
			Password: cfg.Neo4jPassword,
			Database: cfg.Neo4jDatabase,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to neo4j",
			slog.String("uri", cfg.Neo4jURI),
			slog.String("database", cfg.Neo4jDatabase),
		)
		return store, store.Close, nil
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using embedded sqlite store", slog.String("path", cfg.DBPath))
	return db, func(context.Context) error { return db.Close() }, nil
}

// setupRoutes configures middleware and all route handlers.
//
// Public routes: profile lookup and the username availability check —
// the original clients call both before the visitor has a session.
// Everything else needs a verified identity.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	profileService := service.NewProfileService(s.store, s.logger)
	connectionService := service.NewConnectionService(s.store, s.store, s.logger)
	feedService := service.NewFeedService(s.store, s.logger)

	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	connectionHandler := handler.NewConnectionHandler(connectionService, s.logger)
	feedHandler := handler.NewFeedHandler(feedService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Public
		r.Get("/profile/{userID}", profileHandler.HandleGetProfile)
		r.Get("/username-check", profileHandler.HandleUsernameCheck)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Post("/onboarding", profileHandler.HandleOnboarding)
			r.Get("/me", profileHandler.HandleMe)
			r.Put("/profile", profileHandler.HandleUpdateProfile)

			r.Post("/users/{userID}/follow", connectionHandler.HandleFollow)
			r.Delete("/users/{userID}/follow", connectionHandler.HandleUnfollow)
			r.Get("/connections/following", connectionHandler.HandleFollowing)
			r.Get("/connections/followers", connectionHandler.HandleFollowers)
			r.Get("/connections/mutuals/{userID}", connectionHandler.HandleMutuals)
			r.Get("/explore", connectionHandler.HandleExplore)

			r.Get("/feed", feedHandler.HandleFeed)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the store.
func (s *Server) Start() error {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.closeStore(ctx); err != nil {
			s.logger.Error("failed to close store", slog.String("error", err.Error()))
		}
	}()

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
		s.logger.Info("server starting", slog.Int("port", s.config.Port))
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
