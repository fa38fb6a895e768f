package handlers

import (
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SeedHandler exposes the catalog reseed operation.
type SeedHandler struct {
	service *services.SeedService
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(service *services.SeedService) *SeedHandler {
	return &SeedHandler{service: service}
}

// RegisterRoutes registers the seed route with the Fiber app.
func (h *SeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/seed", h.HandleRunSeed)
}

// HandleRunSeed wipes the catalog and reinserts the seed dataset.
func (h *SeedHandler) HandleRunSeed(c *fiber.Ctx) error {
	products, err := h.service.RunSeed(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}
