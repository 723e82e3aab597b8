package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/observability"
	"github.com/escolarhq/escolar-api/internal/repository"
)

var (
	// ErrProfileNotFound indicates the student has no profile record.
	ErrProfileNotFound = errors.New("student profile not found")
	// ErrOfferingNotFound indicates the offering does not exist.
	ErrOfferingNotFound = errors.New("offering not found")
	// ErrAlreadyEnrolled indicates the student is already on the roster.
	ErrAlreadyEnrolled = errors.New("already enrolled in offering")
)

// EnrollmentService matches students to eligible offerings and enrolls them.
type EnrollmentService interface {
	ListOfferings(ctx context.Context, studentID string) (dto.OfferingCatalogResponse, error)
	Enroll(ctx context.Context, studentID, offeringID string) (dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	students    repository.StudentRepository
	catalog     repository.CatalogRepository
	offerings   repository.OfferingRepository
	enrollments repository.EnrollmentRepository
	users       repository.UserRepository
	notifier    Notifier
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs an enrollment service.
func NewEnrollmentService(
	students repository.StudentRepository,
	catalog repository.CatalogRepository,
	offerings repository.OfferingRepository,
	enrollments repository.EnrollmentRepository,
	users repository.UserRepository,
	notifier Notifier,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		students:    students,
		catalog:     catalog,
		offerings:   offerings,
		enrollments: enrollments,
		users:       users,
		notifier:    notifier,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		now:         time.Now,
	}
}

// ListOfferings fetches the offerings matching the student's program and term
// level and partitions them into the ones still open to the student and the
// ones the student already joined.
func (s *enrollmentService) ListOfferings(ctx context.Context, studentID string) (dto.OfferingCatalogResponse, error) {
	profile, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OfferingCatalogResponse{}, ErrProfileNotFound
		}
		return dto.OfferingCatalogResponse{}, err
	}

	courses, err := s.catalog.ListCourses(ctx, profile.ProgramID, profile.TermLevel)
	if err != nil {
		return dto.OfferingCatalogResponse{}, err
	}

	courseNames := make(map[string]string, len(courses))
	courseIDs := make([]string, 0, len(courses))
	for _, course := range courses {
		courseNames[course.ID] = course.Name
		courseIDs = append(courseIDs, course.ID)
	}

	offerings, err := s.offerings.ListByCourses(ctx, courseIDs, profile.TermLevel)
	if err != nil {
		return dto.OfferingCatalogResponse{}, err
	}

	catalog := dto.OfferingCatalogResponse{
		Available: []dto.OfferingView{},
		Enrolled:  []dto.OfferingView{},
	}

	teacherNames := make(map[string]string)
	for _, offering := range offerings {
		teacherName, ok := teacherNames[offering.TeacherID]
		if !ok {
			teacherName = s.resolveTeacherName(ctx, offering.TeacherID)
			teacherNames[offering.TeacherID] = teacherName
		}

		courseName, ok := courseNames[offering.CourseID]
		if !ok {
			courseName = "unknown course"
		}

		view := dto.NewOfferingView(offering, courseName, teacherName)
		if offering.HasStudent(studentID) {
			catalog.Enrolled = append(catalog.Enrolled, view)
		} else {
			catalog.Available = append(catalog.Available, view)
		}
	}

	return catalog, nil
}

// Enroll joins the student to the offering. The roster append, the student's
// offering-list append, and the zero-score grade record creation happen in a
// single transaction, so a duplicate enrollment racing this call loses
// cleanly instead of double-writing.
func (s *enrollmentService) Enroll(ctx context.Context, studentID, offeringID string) (dto.EnrollmentResponse, error) {
	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrOfferingNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	if offering.HasStudent(studentID) {
		observability.EnrollmentOutcomes().WithLabelValues("duplicate").Inc()
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	}

	enrolledAt := s.now()
	record, err := s.enrollments.Enroll(ctx, studentID, offeringID, enrolledAt)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEnrollment):
			observability.EnrollmentOutcomes().WithLabelValues("duplicate").Inc()
			return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.EnrollmentResponse{}, ErrProfileNotFound
		default:
			observability.EnrollmentOutcomes().WithLabelValues("error").Inc()
			return dto.EnrollmentResponse{}, err
		}
	}

	observability.EnrollmentOutcomes().WithLabelValues("success").Inc()
	s.logger.Info().
		Str("student_id", studentID).
		Str("offering_id", offeringID).
		Msg("student enrolled")

	if s.notifier != nil {
		message := fmt.Sprintf("You are now enrolled in %s.", offering.Name)
		if err := s.notifier.Notify(ctx, studentID, "enrollment", message); err != nil {
			s.logger.Warn().Err(err).Msg("failed to send enrollment notification")
		}
	}

	return dto.EnrollmentResponse{
		OfferingID:    offering.ID,
		OfferingName:  offering.Name,
		GradeRecordID: record.ID,
		EnrolledAt:    enrolledAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *enrollmentService) resolveTeacherName(ctx context.Context, teacherID string) string {
	if teacherID == "" {
		return "unassigned"
	}

	user, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		return "unassigned"
	}

	return user.DisplayName()
}
