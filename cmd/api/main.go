package main

import (
	"os"

	"github.com/applytrack/applytrack/internal/pkg/logger"
	"github.com/applytrack/applytrack/internal/server"
)

// @title           Apply Track API
// @version         1.0
// @description     Backend service for tracking university applications. Students manage applications and requirement checklists, linked parents follow progress and leave notes.

// @contact.name   Apply Track Team
// @contact.email  support@applytrack.app

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the access token.
func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}
