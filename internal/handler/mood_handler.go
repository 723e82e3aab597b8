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

// MoodHandler manages the daily mood check-in endpoints.
type MoodHandler struct {
	service service.MoodService
	logger  zerolog.Logger
}

// NewMoodHandler builds a mood handler instance.
func NewMoodHandler(service service.MoodService, logger zerolog.Logger) *MoodHandler {
	return &MoodHandler{
		service: service,
		logger:  logger.With().Str("component", "mood_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *MoodHandler) Register(router fiber.Router) {
	router.Post("/mood", h.record)
	router.Get("/mood/summary", h.summary)
}

func (h *MoodHandler) record(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var payload dto.MoodRecordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	summary, err := h.service.Record(c.Context(), studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "mood recorded", summary)
}

func (h *MoodHandler) summary(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	days, err := parseQueryInt(c, "days")
	if err != nil || days < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "days must be a positive integer")
	}
	if days == 0 {
		days = service.DefaultMoodWindowDays
	}

	summary, err := h.service.Summarize(c.Context(), studentID, days)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "mood summary retrieved", summary)
}

func (h *MoodHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
