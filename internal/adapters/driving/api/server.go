// Package api exposes the core services over HTTP using fiber.
package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Server is the HTTP API server.
type Server struct {
	app        *fiber.App
	listenAddr string
}

// NewServer creates the API server and registers all routes.
func NewServer(
	listenAddr string,
	indexService driving.IndexService,
	rankingService driving.RankingService,
	ingestService driving.IngestService,
	statusService driving.StatusService,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "quarry",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	handler := NewHandler(indexService, rankingService, ingestService, statusService)

	app.Get("/health", handler.HandleHealth)

	group := app.Group("/api")
	group.Get("/status", handler.HandleStatus)
	group.Post("/documents/:id/chunk", handler.HandleChunkDocument)
	group.Post("/persona-analyze", handler.HandleAnalyze)
	group.Post("/search", handler.HandleSearch)

	return &Server{app: app, listenAddr: listenAddr}
}

// Listen serves requests until Shutdown is called.
func (s *Server) Listen() error {
	logger.Info("API listening on %s", s.listenAddr)
	return s.app.Listen(s.listenAddr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}
