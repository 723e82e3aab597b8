package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/service"
	"github.com/escolarhq/escolar-api/internal/utils"
)

// GradingHandler manages teacher-facing roster and score endpoints.
type GradingHandler struct {
	service   service.GradingService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewGradingHandler builds a grading handler instance.
func NewGradingHandler(service service.GradingService, validator *validator.Validate, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GradingHandler) Register(router fiber.Router) {
	router.Get("/offerings/:id/roster", h.roster)
	router.Patch("/grades", h.updateScore)
}

func (h *GradingHandler) roster(c *fiber.Ctx) error {
	teacherID := userIDFromContext(c)
	if teacherID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	offeringID := strings.TrimSpace(c.Params("id"))
	if offeringID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "offering id is required")
	}

	roster, err := h.service.LoadRoster(c.Context(), teacherID, offeringID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "roster retrieved", roster)
}

func (h *GradingHandler) updateScore(c *fiber.Ctx) error {
	teacherID := userIDFromContext(c)
	if teacherID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var payload dto.ScoreUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.service.UpdateScore(c.Context(), teacherID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "score updated", record)
}

func (h *GradingHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrOfferingNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "offering not found")
	case errors.Is(err, service.ErrGradeRecordNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "grade record not found")
	case errors.Is(err, service.ErrNotOfferingOwner):
		return utils.SendError(c, fiber.StatusForbidden, "offering belongs to another teacher")
	case errors.Is(err, service.ErrInvalidScore):
		return utils.SendError(c, fiber.StatusBadRequest, "score must be between 0 and 10")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
