package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/models"
	"github.com/escolarhq/escolar-api/internal/observability"
	"github.com/escolarhq/escolar-api/internal/repository"
)

var (
	// ErrLabelRequired indicates the document name was missing or empty.
	ErrLabelRequired = errors.New("document label is required")
	// ErrDocumentTypeNotAllowed indicates the file is not a PDF or image.
	ErrDocumentTypeNotAllowed = errors.New("document type not allowed")
	// ErrDocumentTooLarge indicates the payload exceeded the configured limit.
	ErrDocumentTooLarge = errors.New("document exceeds maximum allowed size")
	// ErrUploadFailed indicates the object storage collaborator rejected the
	// upload.
	ErrUploadFailed = errors.New("document upload failed")
)

// FileUploader abstracts the object storage collaborator.
type FileUploader interface {
	Upload(ctx context.Context, path string, reader io.Reader) (string, error)
}

// DocumentService handles the append-only medical document list of a student.
// There is deliberately no delete or overwrite operation: once uploaded, a
// document stays on the record.
type DocumentService interface {
	Upload(ctx context.Context, studentID string, file *multipart.FileHeader, label string) (dto.DocumentResponse, error)
	List(ctx context.Context, studentID string) ([]dto.DocumentResponse, error)
}

type documentService struct {
	students  repository.StudentRepository
	uploader  FileUploader
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	maxSize   int64
	tracer    trace.Tracer
	now       func() time.Time
}

// NewDocumentService constructs a document service.
func NewDocumentService(students repository.StudentRepository, uploader FileUploader, maxSizeMB int, logger zerolog.Logger) DocumentService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &documentService{
		students:  students,
		uploader:  uploader,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "document_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		tracer:    otel.Tracer("github.com/escolarhq/escolar-api/internal/service/document"),
		now:       time.Now,
	}
}

// Upload streams the file to object storage under
// {studentID}/{timestamp}_{label}{ext} and appends the resulting document
// record to the student's profile.
func (s *documentService) Upload(ctx context.Context, studentID string, file *multipart.FileHeader, label string) (dto.DocumentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "document.upload")
	defer span.End()

	start := s.now()
	defer func() {
		observability.DocumentUploadLatency().Observe(time.Since(start).Seconds())
	}()

	label = strings.TrimSpace(s.sanitizer.Sanitize(label))
	if label == "" {
		observability.DocumentUploadsRejected().WithLabelValues("label").Inc()
		span.RecordError(ErrLabelRequired)
		span.SetStatus(codes.Error, "validation failed")
		return dto.DocumentResponse{}, ErrLabelRequired
	}

	if file == nil {
		err := errors.New("document file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.DocumentResponse{}, err
	}

	span.SetAttributes(
		attribute.String("document.label", label),
		attribute.String("document.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("document.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		observability.DocumentUploadsRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrDocumentTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.DocumentResponse{}, ErrDocumentTooLarge
	}

	profile, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "profile missing")
			return dto.DocumentResponse{}, ErrProfileNotFound
		}
		return dto.DocumentResponse{}, err
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.DocumentResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.DocumentResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.DocumentUploadsRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrDocumentTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.DocumentResponse{}, ErrDocumentTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("document.detected_mime", mime.String()))
	if !isAllowedDocumentType(mime.String()) {
		observability.DocumentUploadsRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrDocumentTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.DocumentResponse{}, ErrDocumentTypeNotAllowed
	}

	uploadedAt := s.now()
	storagePath := buildStoragePath(studentID, label, file.Filename, uploadedAt)
	span.SetAttributes(attribute.String("document.storage_path", storagePath))

	url, err := s.uploader.Upload(ctx, storagePath, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.DocumentUploadsRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.DocumentResponse{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	document := models.MedicalDocument{
		Label:       label,
		FileName:    file.Filename,
		URL:         url,
		StoragePath: storagePath,
		UploadedAt:  uploadedAt,
		UploadedBy:  profile.User.DisplayName(),
	}

	if err := s.students.AppendDocument(ctx, studentID, document); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.DocumentResponse{}, err
	}

	observability.DocumentUploads().WithLabelValues(mime.String()).Inc()
	span.SetStatus(codes.Ok, "stored")

	s.logger.Info().
		Str("student_id", studentID).
		Str("storage_path", storagePath).
		Msg("medical document uploaded")

	return dto.NewDocumentResponse(document), nil
}

// List returns the student's documents in stored (upload) order.
func (s *documentService) List(ctx context.Context, studentID string) ([]dto.DocumentResponse, error) {
	profile, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return dto.NewDocumentResponseSlice(profile.MedicalDocuments), nil
}

func buildStoragePath(studentID, label, fileName string, uploadedAt time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	slug := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, label)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "document"
	}

	return fmt.Sprintf("%s/%d_%s%s", studentID, uploadedAt.UnixMilli(), slug, ext)
}

func isAllowedDocumentType(mime string) bool {
	lower := strings.ToLower(strings.TrimSpace(mime))
	if strings.HasPrefix(lower, "image/") {
		return true
	}
	return lower == "application/pdf"
}
