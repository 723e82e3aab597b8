package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/models"
	"github.com/escolarhq/escolar-api/internal/repository"
)

// ErrCourseNotFound indicates the referenced course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// OfferingService lets teachers open and list their course offerings.
type OfferingService interface {
	Create(ctx context.Context, teacherID string, payload dto.OfferingCreateRequest) (dto.TeacherOfferingResponse, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]dto.TeacherOfferingResponse, error)
}

type offeringService struct {
	offerings repository.OfferingRepository
	catalog   repository.CatalogRepository
	teachers  repository.TeacherRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewOfferingService constructs an offering service.
func NewOfferingService(
	offerings repository.OfferingRepository,
	catalog repository.CatalogRepository,
	teachers repository.TeacherRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) OfferingService {
	return &offeringService{
		offerings: offerings,
		catalog:   catalog,
		teachers:  teachers,
		validator: validate,
		logger:    logger.With().Str("component", "offering_service").Logger(),
	}
}

// Create opens a new offering for a course. The offering inherits the
// course's term level, starts with an empty roster, and is appended to the
// teacher's active offering list.
func (s *offeringService) Create(ctx context.Context, teacherID string, payload dto.OfferingCreateRequest) (dto.TeacherOfferingResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherOfferingResponse{}, err
	}

	course, err := s.catalog.GetCourse(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherOfferingResponse{}, ErrCourseNotFound
		}
		return dto.TeacherOfferingResponse{}, err
	}

	offering := models.Offering{
		ID:        uuid.NewString(),
		CourseID:  course.ID,
		TeacherID: teacherID,
		Name:      payload.Name,
		TermCycle: payload.TermCycle,
		TermLevel: course.TermLevel,
		Schedule: datatypes.NewJSONType(models.Schedule{
			Days:      payload.Days,
			StartTime: payload.StartTime,
			EndTime:   payload.EndTime,
		}),
		EnrolledStudentIDs: datatypes.JSONSlice[string]{},
		Active:             true,
	}

	if err := s.offerings.Create(ctx, &offering); err != nil {
		return dto.TeacherOfferingResponse{}, err
	}

	if err := s.teachers.AppendOffering(ctx, teacherID, offering.ID); err != nil {
		return dto.TeacherOfferingResponse{}, err
	}

	s.logger.Info().
		Str("teacher_id", teacherID).
		Str("offering_id", offering.ID).
		Msg("offering created")

	return dto.NewTeacherOfferingResponse(offering, course.Name), nil
}

// ListByTeacher returns the teacher's offerings with course names resolved.
func (s *offeringService) ListByTeacher(ctx context.Context, teacherID string) ([]dto.TeacherOfferingResponse, error) {
	offerings, err := s.offerings.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	courseNames := make(map[string]string)
	responses := make([]dto.TeacherOfferingResponse, 0, len(offerings))
	for _, offering := range offerings {
		name, ok := courseNames[offering.CourseID]
		if !ok {
			course, err := s.catalog.GetCourse(ctx, offering.CourseID)
			if err == nil {
				name = course.Name
			}
			courseNames[offering.CourseID] = name
		}

		responses = append(responses, dto.NewTeacherOfferingResponse(offering, name))
	}

	return responses, nil
}
