package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/models"
	"github.com/escolarhq/escolar-api/internal/repository"
)

// ErrNotificationNotFound indicates the notification does not exist or does
// not belong to the user.
var ErrNotificationNotFound = errors.New("notification not found")

// Notifier is the narrow interface workflows use to surface user-facing
// messages at their boundary.
type Notifier interface {
	Notify(ctx context.Context, userID, kind, message string) error
}

// NotificationService persists notifications and fans them out over NATS so
// other nodes can deliver them.
type NotificationService interface {
	Notifier
	List(ctx context.Context, userID string, limit int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id uint, userID string) error
}

type notificationEvent struct {
	UserID  string    `json:"user_id"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

type notificationService struct {
	repo      repository.NotificationRepository
	nats      *nats.Conn
	subject   string
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewNotificationService constructs a notification service. The NATS
// connection may be nil, in which case events are only persisted locally.
func NewNotificationService(repo repository.NotificationRepository, natsConn *nats.Conn, subject string, logger zerolog.Logger) NotificationService {
	if subject == "" {
		subject = "escolar.notifications"
	}
	return &notificationService{
		repo:      repo,
		nats:      natsConn,
		subject:   subject,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "notification_service").Logger(),
		now:       time.Now,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID, kind, message string) error {
	clean := strings.TrimSpace(s.sanitizer.Sanitize(message))
	if clean == "" {
		return errors.New("notification message empty after sanitization")
	}

	notification := models.Notification{
		UserID:  userID,
		Kind:    kind,
		Message: clean,
	}

	if err := s.repo.Create(ctx, &notification); err != nil {
		return err
	}

	if s.nats != nil {
		event := notificationEvent{
			UserID:  userID,
			Kind:    kind,
			Message: clean,
			SentAt:  s.now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err == nil {
			if err := s.nats.Publish(s.subject, payload); err != nil {
				s.logger.Warn().Err(err).Msg("failed to publish notification event")
			}
		}
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID string, limit int) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	return nil
}
