package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/models"
	"github.com/escolarhq/escolar-api/internal/repository"
)

var (
	// ErrEmailTaken indicates an account already exists for the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates login failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AccountService handles registration, login and student profile upkeep.
type AccountService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	GetStudentProfile(ctx context.Context, studentID string) (dto.StudentProfileResponse, error)
	UpdateClinicalData(ctx context.Context, studentID string, payload dto.ClinicalDataRequest) (dto.StudentProfileResponse, error)
}

type accountService struct {
	users     repository.UserRepository
	students  repository.StudentRepository
	teachers  repository.TeacherRepository
	validator *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAccountService constructs an account service.
func NewAccountService(
	users repository.UserRepository,
	students repository.StudentRepository,
	teachers repository.TeacherRepository,
	validate *validator.Validate,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &accountService{
		users:     users,
		students:  students,
		teachers:  teachers,
		validator: validate,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "account_service").Logger(),
		now:       time.Now,
	}
}

// Register creates the user and the role-specific profile. The role is fixed
// at creation and never changes afterwards.
func (s *accountService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		ID:             uuid.NewString(),
		Email:          email,
		FirstName:      strings.TrimSpace(payload.FirstName),
		LastName:       strings.TrimSpace(payload.LastName),
		CURP:           strings.ToUpper(strings.TrimSpace(payload.CURP)),
		Contact:        strings.TrimSpace(payload.Contact),
		Role:           payload.Role,
		CredentialHash: credentialHash(email, payload.Identifier),
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	switch payload.Role {
	case models.RoleStudent:
		profile := models.StudentProfile{
			UserID:    user.ID,
			ProgramID: payload.ProgramID,
			TermLevel: payload.TermLevel,
			Tutor: datatypes.NewJSONType(models.TutorContact{
				Name:    strings.TrimSpace(payload.TutorName),
				Contact: user.Contact,
			}),
			ClinicalData: datatypes.NewJSONType(models.ClinicalData{
				Allergies:    []string{},
				Conditions:   []string{},
				Medications:  []string{},
				Disabilities: []string{},
			}),
			MedicalDocuments:    datatypes.JSONSlice[models.MedicalDocument]{},
			EnrolledOfferingIDs: datatypes.JSONSlice[string]{},
		}
		if err := s.students.Create(ctx, &profile); err != nil {
			return dto.AuthResponse{}, err
		}
	case models.RoleTeacher:
		profile := models.TeacherProfile{
			UserID:            user.ID,
			EmployeeRef:       strings.ToUpper(strings.TrimSpace(payload.EmployeeRef)),
			ActiveOfferingIDs: datatypes.JSONSlice[string]{},
		}
		if err := s.teachers.Create(ctx, &profile); err != nil {
			return dto.AuthResponse{}, err
		}
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("account registered")

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

// Login verifies the email/identifier pair and issues a session token.
func (s *accountService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	supplied := credentialHash(email, payload.Identifier)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(user.CredentialHash)) != 1 {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

// GetStudentProfile returns the student's own profile view.
func (s *accountService) GetStudentProfile(ctx context.Context, studentID string) (dto.StudentProfileResponse, error) {
	profile, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentProfileResponse{}, ErrProfileNotFound
		}
		return dto.StudentProfileResponse{}, err
	}

	return dto.NewStudentProfileResponse(profile), nil
}

// UpdateClinicalData replaces the self-reported clinical lists wholesale.
func (s *accountService) UpdateClinicalData(ctx context.Context, studentID string, payload dto.ClinicalDataRequest) (dto.StudentProfileResponse, error) {
	data := models.ClinicalData{
		Allergies:    normalizeList(payload.Allergies),
		Conditions:   normalizeList(payload.Conditions),
		Medications:  normalizeList(payload.Medications),
		Disabilities: normalizeList(payload.Disabilities),
	}

	if err := s.students.UpdateClinicalData(ctx, studentID, data); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentProfileResponse{}, ErrProfileNotFound
		}
		return dto.StudentProfileResponse{}, err
	}

	return s.GetStudentProfile(ctx, studentID)
}

func (s *accountService) issueToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// credentialHash derives the stored login credential. The original product
// used the enrollment number as the password; the email acts as a per-user
// salt here.
func credentialHash(email, identifier string) string {
	sum := sha256.Sum256([]byte(email + ":" + strings.TrimSpace(identifier)))
	return hex.EncodeToString(sum[:])
}

func normalizeList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
