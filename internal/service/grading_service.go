package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/models"
	"github.com/escolarhq/escolar-api/internal/repository"
)

var (
	// ErrInvalidScore indicates the score is outside the accepted 0-10 range.
	ErrInvalidScore = errors.New("score must be between 0 and 10")
	// ErrGradeRecordNotFound indicates no grade record matches the compound
	// (student, offering, course) filter.
	ErrGradeRecordNotFound = errors.New("grade record not found")
	// ErrNotOfferingOwner indicates the offering is taught by another teacher.
	ErrNotOfferingOwner = errors.New("offering is taught by another teacher")
)

// GradingService serves the teacher-side roster and score editing workflow.
type GradingService interface {
	LoadRoster(ctx context.Context, teacherID, offeringID string) (dto.RosterResponse, error)
	UpdateScore(ctx context.Context, teacherID string, payload dto.ScoreUpdateRequest) (dto.GradeRecordResponse, error)
}

type gradingService struct {
	offerings repository.OfferingRepository
	students  repository.StudentRepository
	grades    repository.GradeRepository
	validator *validator.Validate
	notifier  Notifier
	logger    zerolog.Logger
}

// NewGradingService constructs a grading service.
func NewGradingService(
	offerings repository.OfferingRepository,
	students repository.StudentRepository,
	grades repository.GradeRepository,
	validate *validator.Validate,
	notifier Notifier,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		offerings: offerings,
		students:  students,
		grades:    grades,
		validator: validate,
		notifier:  notifier,
		logger:    logger.With().Str("component", "grading_service").Logger(),
	}
}

// LoadRoster joins the offering's enrolled students with their grade records,
// in roster order. Students whose profile has gone missing are skipped rather
// than failing the whole roster.
func (s *gradingService) LoadRoster(ctx context.Context, teacherID, offeringID string) (dto.RosterResponse, error) {
	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RosterResponse{}, ErrOfferingNotFound
		}
		return dto.RosterResponse{}, err
	}

	if offering.TeacherID != teacherID {
		return dto.RosterResponse{}, ErrNotOfferingOwner
	}

	profiles, err := s.students.ListByIDs(ctx, offering.EnrolledStudentIDs)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	profileByID := make(map[string]models.StudentProfile, len(profiles))
	for _, profile := range profiles {
		profileByID[profile.UserID] = profile
	}

	records, err := s.grades.ListByOffering(ctx, offeringID)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	recordByStudent := make(map[string]models.GradeRecord, len(records))
	for _, record := range records {
		recordByStudent[record.StudentID] = record
	}

	response := dto.RosterResponse{
		OfferingID:   offering.ID,
		OfferingName: offering.Name,
		CourseID:     offering.CourseID,
		TermCycle:    offering.TermCycle,
		Entries:      []dto.RosterEntry{},
	}

	for _, studentID := range offering.EnrolledStudentIDs {
		profile, ok := profileByID[studentID]
		if !ok {
			s.logger.Warn().
				Str("student_id", studentID).
				Str("offering_id", offeringID).
				Msg("enrolled student has no profile, skipping roster row")
			continue
		}

		record := recordByStudent[studentID]

		response.Entries = append(response.Entries, dto.RosterEntry{
			StudentID:  studentID,
			Name:       profile.User.DisplayName(),
			Email:      profile.User.Email,
			RecordID:   record.ID,
			Score1:     record.Score1,
			Score2:     record.Score2,
			Score3:     record.Score3,
			Average:    record.Average(),
			EnrolledAt: record.EnrolledAt,
		})
	}

	return response, nil
}

// UpdateScore applies a single-field change to the grade record addressed by
// the (student, offering, course) compound filter. Only the named field is
// touched; there is no optimistic-concurrency check, so the last writer wins.
func (s *gradingService) UpdateScore(ctx context.Context, teacherID string, payload dto.ScoreUpdateRequest) (dto.GradeRecordResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeRecordResponse{}, err
	}

	if payload.Value < 0 || payload.Value > 10 {
		return dto.GradeRecordResponse{}, ErrInvalidScore
	}

	if !models.IsValidScoreField(payload.Field) {
		return dto.GradeRecordResponse{}, fmt.Errorf("unknown score field %q", payload.Field)
	}

	offering, err := s.offerings.GetByID(ctx, payload.OfferingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeRecordResponse{}, ErrOfferingNotFound
		}
		return dto.GradeRecordResponse{}, err
	}

	if offering.TeacherID != teacherID {
		return dto.GradeRecordResponse{}, ErrNotOfferingOwner
	}

	record, err := s.grades.GetByEnrollment(ctx, payload.StudentID, payload.OfferingID, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeRecordResponse{}, ErrGradeRecordNotFound
		}
		return dto.GradeRecordResponse{}, err
	}

	if err := s.grades.UpdateScore(ctx, record.ID, payload.Field, payload.Value); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeRecordResponse{}, ErrGradeRecordNotFound
		}
		return dto.GradeRecordResponse{}, err
	}

	updated, err := s.grades.GetByEnrollment(ctx, payload.StudentID, payload.OfferingID, payload.CourseID)
	if err != nil {
		return dto.GradeRecordResponse{}, err
	}

	s.logger.Info().
		Str("record_id", record.ID).
		Str("field", payload.Field).
		Float64("value", payload.Value).
		Msg("score updated")

	if s.notifier != nil {
		message := fmt.Sprintf("A partial score was updated for one of your courses: %s is now %.1f.", payload.Field, payload.Value)
		if err := s.notifier.Notify(ctx, payload.StudentID, "grade", message); err != nil {
			s.logger.Warn().Err(err).Msg("failed to send grade notification")
		}
	}

	return dto.NewGradeRecordResponse(updated), nil
}
