package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/service"
	"github.com/escolarhq/escolar-api/internal/utils"
)

// OfferingHandler manages teacher-facing offering administration endpoints.
type OfferingHandler struct {
	service   service.OfferingService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewOfferingHandler builds an offering handler instance.
func NewOfferingHandler(service service.OfferingService, validator *validator.Validate, logger zerolog.Logger) *OfferingHandler {
	return &OfferingHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "offering_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *OfferingHandler) Register(router fiber.Router) {
	router.Get("/offerings", h.list)
	router.Post("/offerings", h.create)
}

func (h *OfferingHandler) list(c *fiber.Ctx) error {
	teacherID := userIDFromContext(c)
	if teacherID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	offerings, err := h.service.ListByTeacher(c.Context(), teacherID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "offerings retrieved", offerings)
}

func (h *OfferingHandler) create(c *fiber.Ctx) error {
	teacherID := userIDFromContext(c)
	if teacherID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var payload dto.OfferingCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	offering, err := h.service.Create(c.Context(), teacherID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "offering created", offering)
}

func (h *OfferingHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
