package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appRepos "github.com/applytrack/applytrack/internal/app/repositories"
	"github.com/applytrack/applytrack/internal/bootstrap"
	"github.com/applytrack/applytrack/internal/config"
)

// tokenCleanupInterval controls how often expired refresh tokens are
// purged from the database.
const tokenCleanupInterval = time.Hour

// Server represents the application HTTP server
type Server struct {
	config *config.Config
	router *gin.Engine
	dbPool *pgxpool.Pool
	logger zerolog.Logger
	http   *http.Server
}

// NewServer creates and wires a new application server.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, err
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	router := bootstrap.SetupRouter(cfg, deps, dbPool, lgr)

	srv := &Server{
		config: cfg,
		router: router,
		dbPool: dbPool,
		logger: lgr,
	}

	if err := srv.setupStaticFileServing(); err != nil {
		dbPool.Close()
		return nil, err
	}

	return srv, nil
}

// setupStaticFileServing exposes stored avatar files at /uploads.
func (s *Server) setupStaticFileServing() error {
	storagePath := s.config.Server.StoragePath
	if err := os.MkdirAll(storagePath, os.ModePerm); err != nil {
		s.logger.Error().Err(err).Str("path", storagePath).Msg("Failed to create storage directory")
		return err
	}

	absPath, err := filepath.Abs(storagePath)
	if err != nil {
		return err
	}

	s.router.Static("/uploads", absPath)
	s.logger.Info().Str("path", absPath).Msg("Serving uploaded files at /uploads")
	return nil
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go s.runTokenCleanup(cleanupCtx)

	go func() {
		s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting HTTP server")
		serverErrors <- s.http.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case sig := <-shutdown:
		s.logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		return s.Shutdown()
	}

	return nil
}

// runTokenCleanup periodically removes expired and stale revoked
// refresh tokens until the context is cancelled.
func (s *Server) runTokenCleanup(ctx context.Context) {
	tokenRepo := appRepos.NewTokenRepository(s.dbPool)

	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := tokenRepo.CleanupExpiredTokens(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Refresh token cleanup failed")
			}
		}
	}
}

// Shutdown gracefully stops the HTTP server and closes the database pool.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Graceful shutdown failed, forcing close")
			if closeErr := s.http.Close(); closeErr != nil {
				return closeErr
			}
			return err
		}
	}

	if s.dbPool != nil {
		s.dbPool.Close()
	}

	s.logger.Info().Msg("Server stopped")
	return nil
}
