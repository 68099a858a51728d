package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codewhisper/internal/analyzer"
	"codewhisper/internal/autofix"
	"codewhisper/internal/cache"
	"codewhisper/internal/db"
	"codewhisper/internal/fetcher"
	"codewhisper/internal/gemini"
	"codewhisper/internal/githubapi"
	"codewhisper/internal/handlers"
	"codewhisper/internal/metrics"
	"codewhisper/internal/predictor"
	"codewhisper/internal/responder"
	"codewhisper/internal/stackoverflow"
)

// RegisterRoutes builds the pipeline components from configuration and
// registers all application routes. database may be nil.
func (s *Server) RegisterRoutes(database *db.DB) {
	cfg := s.Cfg

	// Collaborator clients. Credentials are read once here and never from
	// the environment again.
	gh := githubapi.New(cfg.GitHubAPIURL, cfg.GitHubToken)
	ai := gemini.New(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	so := stackoverflow.New(cfg.StackExchangeAPIURL)

	responseCache := cache.New(cfg.RedisURL, cfg.CacheTTL)
	metrics.Init(database)

	assistHandler := handlers.NewAssistHandler(
		cfg,
		analyzer.New(ai),
		fetcher.New(gh),
		predictor.New(gh),
		responder.New(ai),
		autofix.New(ai, cfg.HasGitHubToken()),
		so,
		responseCache,
	)
	healthHandler := handlers.NewHealthHandler(cfg, database)

	s.App.Post("/mcp", assistHandler.Assist)
	s.App.Get("/health", healthHandler.Health)

	// Kubernetes probes
	s.App.Get("/healthz", healthHandler.Liveness)
	s.App.Get("/readyz", healthHandler.Readiness)

	// Prometheus metrics
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
