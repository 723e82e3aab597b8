package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/models"
	"github.com/escolarhq/escolar-api/internal/repository"
)

// DefaultMoodWindowDays is the summary window used when the caller does not
// ask for a specific one.
const DefaultMoodWindowDays = 30

// MoodService records and summarizes daily well-being entries.
type MoodService interface {
	Record(ctx context.Context, studentID string, payload dto.MoodRecordRequest) (dto.MoodSummaryResponse, error)
	Summarize(ctx context.Context, studentID string, windowDays int) (dto.MoodSummaryResponse, error)
}

type moodService struct {
	moods     repository.MoodRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewMoodService constructs a mood tracking service.
func NewMoodService(moods repository.MoodRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) MoodService {
	return &moodService{
		moods:     moods,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger.With().Str("component", "mood_service").Logger(),
		now:       time.Now,
	}
}

// Record writes today's entry for the student. The calendar date is the
// record identity, so recording twice on one day overwrites instead of
// appending.
func (s *moodService) Record(ctx context.Context, studentID string, payload dto.MoodRecordRequest) (dto.MoodSummaryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MoodSummaryResponse{}, err
	}

	if !models.IsValidMood(payload.Mood) {
		return dto.MoodSummaryResponse{}, fmt.Errorf("unknown mood %q", payload.Mood)
	}

	recordedAt := s.now()
	entry := models.MoodEntry{
		StudentID:  studentID,
		DateKey:    recordedAt.Format(models.MoodDateLayout),
		Mood:       payload.Mood,
		RecordedAt: recordedAt,
	}

	if err := s.moods.Upsert(ctx, &entry); err != nil {
		return dto.MoodSummaryResponse{}, err
	}

	s.invalidateSummary(ctx, studentID)

	return s.Summarize(ctx, studentID, DefaultMoodWindowDays)
}

// Summarize tallies the entries with a calendar day on or after
// today − windowDays. A student with no entries in the window gets
// HasData=false, which is distinct from an all-zero tally.
func (s *moodService) Summarize(ctx context.Context, studentID string, windowDays int) (dto.MoodSummaryResponse, error) {
	if windowDays <= 0 {
		windowDays = DefaultMoodWindowDays
	}

	cacheKey := s.summaryCacheKey(studentID, windowDays)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.MoodSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("student_id", studentID).Msg("mood summary cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read mood summary cache")
		}
	}

	today := s.now()
	sinceKey := today.AddDate(0, 0, -windowDays).Format(models.MoodDateLayout)

	entries, err := s.moods.ListSince(ctx, studentID, sinceKey)
	if err != nil {
		return dto.MoodSummaryResponse{}, err
	}

	response := dto.MoodSummaryResponse{
		HasData:    len(entries) > 0,
		WindowDays: windowDays,
	}

	todayKey := today.Format(models.MoodDateLayout)
	for _, entry := range entries {
		switch entry.Mood {
		case models.MoodGood:
			response.Good++
		case models.MoodFair:
			response.Fair++
		case models.MoodPoor:
			response.Poor++
		}

		if entry.DateKey == todayKey {
			mood := entry.Mood
			response.Today = &mood
		}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store mood summary cache")
			}
		}
	}

	return response, nil
}

func (s *moodService) summaryCacheKey(studentID string, windowDays int) string {
	return fmt.Sprintf("mood:summary:%s:%d", studentID, windowDays)
}

func (s *moodService) invalidateSummary(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}

	key := s.summaryCacheKey(studentID, DefaultMoodWindowDays)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate mood summary cache")
	}
}
