package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"codewhisper/internal/config"
	"codewhisper/internal/db"
)

// HealthHandler reports service and credential status.
type HealthHandler struct {
	cfg *config.Config
	db  *db.DB
}

// NewHealthHandler creates a health handler. database may be nil.
func NewHealthHandler(cfg *config.Config, database *db.DB) *HealthHandler {
	return &HealthHandler{cfg: cfg, db: database}
}

// Health handles GET /health. Always 200: credential absence is a degraded
// mode, not an outage.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "healthy",
		"gemini":       h.cfg.HasGemini(),
		"github_token": h.cfg.HasGitHubToken(),
		"hf_token":     h.cfg.HFToken != "",
		"now":          time.Now().UTC().Format(time.RFC3339),
	})
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
func (h *HealthHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// The analytics database is optional; readiness only fails when one is
// configured and unreachable.
func (h *HealthHandler) Readiness(c fiber.Ctx) error {
	if h.db != nil {
		if err := h.db.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "error",
				"error":  "database unavailable",
			})
		}
	}
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
