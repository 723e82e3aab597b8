package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/escolarhq/escolar-api/internal/service"
	"github.com/escolarhq/escolar-api/internal/utils"
)

// CatalogHandler exposes the academic program catalog.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler builds a catalog handler instance.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("/programs", h.listPrograms)
}

func (h *CatalogHandler) listPrograms(c *fiber.Ctx) error {
	programs, err := h.service.ListPrograms(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "programs retrieved", programs)
}
