package verify

import (
	"errors"

	"sync-verifier/core/logger"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for verification passes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the verification routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/verify", h.HandleVerify)
	app.Get("/report/latest", h.HandleLatestReport)
}

// HandleVerify runs one verification pass and returns its report.
// Concurrent requests share a single run.
func (h *Handler) HandleVerify(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("verification pass requested")

	report, err := h.service.Run(c.Context())
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleLatestReport returns the most recent finished report.
func (h *Handler) HandleLatestReport(c *fiber.Ctx) error {
	report := h.service.Latest()
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no verification pass has completed yet"})
	}
	return c.JSON(report)
}
