package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/escolarhq/escolar-api/internal/models"
)

func seedEnrollmentFixture(t *testing.T) (*memoryStudentRepo, *memoryCatalogRepo, *memoryOfferingRepo, *memoryEnrollmentRepo, *memoryUserRepo) {
	t.Helper()

	users := newMemoryUserRepo()
	require.NoError(t, users.Create(context.Background(), &models.User{
		ID: "teacher-1", Email: "t@example.com", FirstName: "Laura", LastName: "Mendez", Role: models.RoleTeacher,
	}))

	students := newMemoryStudentRepo()
	require.NoError(t, students.Create(context.Background(), &models.StudentProfile{
		UserID:              "student-1",
		ProgramID:           "prog-1",
		TermLevel:           3,
		EnrolledOfferingIDs: datatypes.JSONSlice[string]{},
	}))

	catalog := newMemoryCatalogRepo()
	require.NoError(t, catalog.CreateCourse(context.Background(), &models.Course{
		ID: "course-1", ProgramID: "prog-1", Name: "Discrete Mathematics", TermLevel: 3,
	}))
	require.NoError(t, catalog.CreateCourse(context.Background(), &models.Course{
		ID: "course-2", ProgramID: "prog-1", Name: "Data Structures", TermLevel: 3,
	}))

	offerings := newMemoryOfferingRepo()
	require.NoError(t, offerings.Create(context.Background(), &models.Offering{
		ID: "off-1", CourseID: "course-1", TeacherID: "teacher-1", Name: "Discrete Math A",
		TermCycle: "2026-B", TermLevel: 3, Active: true,
		EnrolledStudentIDs: datatypes.JSONSlice[string]{},
	}))
	require.NoError(t, offerings.Create(context.Background(), &models.Offering{
		ID: "off-2", CourseID: "course-2", TeacherID: "teacher-1", Name: "Data Structures A",
		TermCycle: "2026-B", TermLevel: 3, Active: true,
		EnrolledStudentIDs: datatypes.JSONSlice[string]{"student-1"},
	}))

	enrollments := newMemoryEnrollmentRepo(offerings, students)
	return students, catalog, offerings, enrollments, users
}

func TestEnrollmentServiceListOfferingsPartitions(t *testing.T) {
	students, catalog, offerings, enrollments, users := seedEnrollmentFixture(t)
	svc := NewEnrollmentService(students, catalog, offerings, enrollments, users, nil, testLogger())

	response, err := svc.ListOfferings(context.Background(), "student-1")
	require.NoError(t, err)

	require.Len(t, response.Available, 1)
	require.Equal(t, "off-1", response.Available[0].ID)
	require.Equal(t, "Discrete Mathematics", response.Available[0].CourseName)
	require.Equal(t, "Laura Mendez", response.Available[0].TeacherName)

	require.Len(t, response.Enrolled, 1)
	require.Equal(t, "off-2", response.Enrolled[0].ID)
	require.Equal(t, 1, response.Enrolled[0].EnrolledCount)
}

func TestEnrollmentServiceListOfferingsUnknownStudent(t *testing.T) {
	students, catalog, offerings, enrollments, users := seedEnrollmentFixture(t)
	svc := NewEnrollmentService(students, catalog, offerings, enrollments, users, nil, testLogger())

	_, err := svc.ListOfferings(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestEnrollmentServiceEnrollSuccess(t *testing.T) {
	students, catalog, offerings, enrollments, users := seedEnrollmentFixture(t)
	notifier := &stubNotifier{}
	svc := NewEnrollmentService(students, catalog, offerings, enrollments, users, notifier, testLogger())

	enrolledAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	svc.(*enrollmentService).now = func() time.Time { return enrolledAt }

	response, err := svc.Enroll(context.Background(), "student-1", "off-1")
	require.NoError(t, err)
	require.Equal(t, "off-1", response.OfferingID)
	require.Equal(t, "Discrete Math A", response.OfferingName)
	require.NotEmpty(t, response.GradeRecordID)
	require.Equal(t, enrolledAt.Format(time.RFC3339), response.EnrolledAt)

	offering, err := offerings.GetByID(context.Background(), "off-1")
	require.NoError(t, err)
	require.True(t, offering.HasStudent("student-1"))
	require.Len(t, offering.EnrolledStudentIDs, 1)

	profile, err := students.GetByID(context.Background(), "student-1")
	require.NoError(t, err)
	require.True(t, profile.IsEnrolledIn("off-1"))

	record := enrollments.records[response.GradeRecordID]
	require.Equal(t, "course-1", record.CourseID)
	require.Zero(t, record.Score1)
	require.Zero(t, record.Score2)
	require.Zero(t, record.Score3)

	require.Len(t, notifier.sent, 1)
	require.Contains(t, notifier.sent[0], "Discrete Math A")
}

func TestEnrollmentServiceEnrollDuplicate(t *testing.T) {
	students, catalog, offerings, enrollments, users := seedEnrollmentFixture(t)
	svc := NewEnrollmentService(students, catalog, offerings, enrollments, users, nil, testLogger())

	_, err := svc.Enroll(context.Background(), "student-1", "off-2")
	require.ErrorIs(t, err, ErrAlreadyEnrolled)

	// No grade record and no second roster entry were written.
	require.Empty(t, enrollments.records)
	offering, err := offerings.GetByID(context.Background(), "off-2")
	require.NoError(t, err)
	require.Len(t, offering.EnrolledStudentIDs, 1)
}

func TestEnrollmentServiceEnrollMissingOffering(t *testing.T) {
	students, catalog, offerings, enrollments, users := seedEnrollmentFixture(t)
	svc := NewEnrollmentService(students, catalog, offerings, enrollments, users, nil, testLogger())

	_, err := svc.Enroll(context.Background(), "student-1", "off-404")
	require.ErrorIs(t, err, ErrOfferingNotFound)
}
