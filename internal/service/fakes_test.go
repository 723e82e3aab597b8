package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/escolarhq/escolar-api/internal/models"
	"github.com/escolarhq/escolar-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type memoryUserRepo struct {
	users map[string]models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]models.User)}
}

func (m *memoryUserRepo) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

type memoryStudentRepo struct {
	profiles map[string]models.StudentProfile
	appends  int
}

func newMemoryStudentRepo() *memoryStudentRepo {
	return &memoryStudentRepo{profiles: make(map[string]models.StudentProfile)}
}

func (m *memoryStudentRepo) GetByID(_ context.Context, userID string) (models.StudentProfile, error) {
	profile, ok := m.profiles[userID]
	if !ok {
		return models.StudentProfile{}, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (m *memoryStudentRepo) ListByIDs(_ context.Context, userIDs []string) ([]models.StudentProfile, error) {
	results := make([]models.StudentProfile, 0, len(userIDs))
	for _, id := range userIDs {
		if profile, ok := m.profiles[id]; ok {
			results = append(results, profile)
		}
	}
	return results, nil
}

func (m *memoryStudentRepo) Create(_ context.Context, profile *models.StudentProfile) error {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	m.profiles[profile.UserID] = *profile
	return nil
}

func (m *memoryStudentRepo) UpdateClinicalData(_ context.Context, userID string, data models.ClinicalData) error {
	profile, ok := m.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	profile.ClinicalData = datatypes.NewJSONType(data)
	m.profiles[userID] = profile
	return nil
}

func (m *memoryStudentRepo) AppendDocument(_ context.Context, userID string, document models.MedicalDocument) error {
	profile, ok := m.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	profile.MedicalDocuments = append(profile.MedicalDocuments, document)
	m.profiles[userID] = profile
	m.appends++
	return nil
}

type memoryTeacherRepo struct {
	profiles map[string]models.TeacherProfile
}

func newMemoryTeacherRepo() *memoryTeacherRepo {
	return &memoryTeacherRepo{profiles: make(map[string]models.TeacherProfile)}
}

func (m *memoryTeacherRepo) GetByID(_ context.Context, userID string) (models.TeacherProfile, error) {
	profile, ok := m.profiles[userID]
	if !ok {
		return models.TeacherProfile{}, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (m *memoryTeacherRepo) Create(_ context.Context, profile *models.TeacherProfile) error {
	m.profiles[profile.UserID] = *profile
	return nil
}

func (m *memoryTeacherRepo) AppendOffering(_ context.Context, userID, offeringID string) error {
	profile, ok := m.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, id := range profile.ActiveOfferingIDs {
		if id == offeringID {
			return nil
		}
	}
	profile.ActiveOfferingIDs = append(profile.ActiveOfferingIDs, offeringID)
	m.profiles[userID] = profile
	return nil
}

type memoryCatalogRepo struct {
	programs map[string]models.Program
	courses  map[string]models.Course
}

func newMemoryCatalogRepo() *memoryCatalogRepo {
	return &memoryCatalogRepo{
		programs: make(map[string]models.Program),
		courses:  make(map[string]models.Course),
	}
}

func (m *memoryCatalogRepo) ListPrograms(_ context.Context) ([]models.Program, error) {
	results := make([]models.Program, 0, len(m.programs))
	for _, program := range m.programs {
		results = append(results, program)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (m *memoryCatalogRepo) GetProgram(_ context.Context, id string) (models.Program, error) {
	program, ok := m.programs[id]
	if !ok {
		return models.Program{}, gorm.ErrRecordNotFound
	}
	return program, nil
}

func (m *memoryCatalogRepo) GetCourse(_ context.Context, id string) (models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (m *memoryCatalogRepo) ListCourses(_ context.Context, programID string, termLevel int) ([]models.Course, error) {
	results := make([]models.Course, 0)
	for _, course := range m.courses {
		if course.ProgramID == programID && course.TermLevel == termLevel {
			results = append(results, course)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryCatalogRepo) CreateProgram(_ context.Context, program *models.Program) error {
	m.programs[program.ID] = *program
	return nil
}

func (m *memoryCatalogRepo) CreateCourse(_ context.Context, course *models.Course) error {
	m.courses[course.ID] = *course
	return nil
}

type memoryOfferingRepo struct {
	offerings map[string]models.Offering
}

func newMemoryOfferingRepo() *memoryOfferingRepo {
	return &memoryOfferingRepo{offerings: make(map[string]models.Offering)}
}

func (m *memoryOfferingRepo) GetByID(_ context.Context, id string) (models.Offering, error) {
	offering, ok := m.offerings[id]
	if !ok {
		return models.Offering{}, gorm.ErrRecordNotFound
	}
	return offering, nil
}

func (m *memoryOfferingRepo) ListByCourses(_ context.Context, courseIDs []string, termLevel int) ([]models.Offering, error) {
	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	results := make([]models.Offering, 0)
	for _, offering := range m.offerings {
		if wanted[offering.CourseID] && offering.TermLevel == termLevel && offering.Active {
			results = append(results, offering)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryOfferingRepo) ListByTeacher(_ context.Context, teacherID string) ([]models.Offering, error) {
	results := make([]models.Offering, 0)
	for _, offering := range m.offerings {
		if offering.TeacherID == teacherID {
			results = append(results, offering)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryOfferingRepo) Create(_ context.Context, offering *models.Offering) error {
	offering.CreatedAt = time.Now()
	offering.UpdatedAt = time.Now()
	m.offerings[offering.ID] = *offering
	return nil
}

// memoryEnrollmentRepo mirrors the transactional write sequence of the real
// repository against the in-memory offering and student fakes.
type memoryEnrollmentRepo struct {
	offerings *memoryOfferingRepo
	students  *memoryStudentRepo
	records   map[string]models.GradeRecord
}

func newMemoryEnrollmentRepo(offerings *memoryOfferingRepo, students *memoryStudentRepo) *memoryEnrollmentRepo {
	return &memoryEnrollmentRepo{
		offerings: offerings,
		students:  students,
		records:   make(map[string]models.GradeRecord),
	}
}

func (m *memoryEnrollmentRepo) Enroll(_ context.Context, studentID, offeringID string, enrolledAt time.Time) (models.GradeRecord, error) {
	offering, ok := m.offerings.offerings[offeringID]
	if !ok {
		return models.GradeRecord{}, gorm.ErrRecordNotFound
	}
	if offering.HasStudent(studentID) {
		return models.GradeRecord{}, repository.ErrDuplicateEnrollment
	}

	profile, ok := m.students.profiles[studentID]
	if !ok {
		return models.GradeRecord{}, gorm.ErrRecordNotFound
	}

	offering.EnrolledStudentIDs = append(offering.EnrolledStudentIDs, studentID)
	m.offerings.offerings[offeringID] = offering

	profile.EnrolledOfferingIDs = append(profile.EnrolledOfferingIDs, offeringID)
	m.students.profiles[studentID] = profile

	record := models.GradeRecord{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		OfferingID: offeringID,
		CourseID:   offering.CourseID,
		EnrolledAt: enrolledAt,
	}
	m.records[record.ID] = record
	return record, nil
}

type memoryGradeRepo struct {
	records map[string]models.GradeRecord
}

func newMemoryGradeRepo() *memoryGradeRepo {
	return &memoryGradeRepo{records: make(map[string]models.GradeRecord)}
}

func (m *memoryGradeRepo) ListByOffering(_ context.Context, offeringID string) ([]models.GradeRecord, error) {
	results := make([]models.GradeRecord, 0)
	for _, record := range m.records {
		if record.OfferingID == offeringID {
			results = append(results, record)
		}
	}
	return results, nil
}

func (m *memoryGradeRepo) ListByStudent(_ context.Context, studentID string) ([]models.GradeRecord, error) {
	results := make([]models.GradeRecord, 0)
	for _, record := range m.records {
		if record.StudentID == studentID {
			results = append(results, record)
		}
	}
	return results, nil
}

func (m *memoryGradeRepo) GetByEnrollment(_ context.Context, studentID, offeringID, courseID string) (models.GradeRecord, error) {
	for _, record := range m.records {
		if record.StudentID == studentID && record.OfferingID == offeringID && record.CourseID == courseID {
			return record, nil
		}
	}
	return models.GradeRecord{}, gorm.ErrRecordNotFound
}

func (m *memoryGradeRepo) UpdateScore(_ context.Context, id, field string, value float64) error {
	record, ok := m.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	switch field {
	case models.ScoreField1:
		record.Score1 = value
	case models.ScoreField2:
		record.Score2 = value
	case models.ScoreField3:
		record.Score3 = value
	default:
		return gorm.ErrRecordNotFound
	}
	m.records[id] = record
	return nil
}

type memoryMoodRepo struct {
	entries map[string]models.MoodEntry
	reads   int
}

func newMemoryMoodRepo() *memoryMoodRepo {
	return &memoryMoodRepo{entries: make(map[string]models.MoodEntry)}
}

func moodKey(studentID, dateKey string) string {
	return studentID + "|" + dateKey
}

func (m *memoryMoodRepo) Upsert(_ context.Context, entry *models.MoodEntry) error {
	m.entries[moodKey(entry.StudentID, entry.DateKey)] = *entry
	return nil
}

func (m *memoryMoodRepo) Get(_ context.Context, studentID, dateKey string) (models.MoodEntry, error) {
	entry, ok := m.entries[moodKey(studentID, dateKey)]
	if !ok {
		return models.MoodEntry{}, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (m *memoryMoodRepo) ListSince(_ context.Context, studentID, sinceDateKey string) ([]models.MoodEntry, error) {
	m.reads++
	results := make([]models.MoodEntry, 0)
	for _, entry := range m.entries {
		if entry.StudentID == studentID && entry.DateKey >= sinceDateKey {
			results = append(results, entry)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].DateKey < results[j].DateKey })
	return results, nil
}

type memoryNotificationRepo struct {
	notifications []models.Notification
	nextID        uint
}

func newMemoryNotificationRepo() *memoryNotificationRepo {
	return &memoryNotificationRepo{nextID: 1}
}

func (m *memoryNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	notification.ID = m.nextID
	notification.CreatedAt = time.Now()
	m.nextID++
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *memoryNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	results := make([]models.Notification, 0)
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].UserID != userID {
			continue
		}
		results = append(results, m.notifications[i])
		if limit > 0 && len(results) == limit {
			break
		}
	}
	return results, nil
}

func (m *memoryNotificationRepo) MarkRead(_ context.Context, id uint, userID string) error {
	for i, notification := range m.notifications {
		if notification.ID == id && notification.UserID == userID {
			m.notifications[i].Read = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubNotifier struct {
	sent []string
}

func (s *stubNotifier) Notify(_ context.Context, userID, kind, message string) error {
	s.sent = append(s.sent, strings.Join([]string{userID, kind, message}, "|"))
	return nil
}

type stubUploader struct {
	uploads []string
	err     error
}

func (s *stubUploader) Upload(_ context.Context, path string, _ io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploads = append(s.uploads, path)
	return "https://cdn.example.com/" + path, nil
}
