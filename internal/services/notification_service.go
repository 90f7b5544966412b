package services

import (
	"context"
	"log/slog"

	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/repositories"
	"github.com/google/uuid"
)

const bellLimit = 5

// NotificationService delivers and reads per-user notifications
type NotificationService struct {
	repo   repositories.NotificationRepository
	logger *slog.Logger
}

func NewNotificationService(repo repositories.NotificationRepository, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{repo: repo, logger: logger}
}

// Notify inserts a notification. Failures are logged and swallowed so the
// operation that triggered the notification still succeeds.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, typ models.NotificationType, title, message string, relatedID *uuid.UUID) {
	n := &models.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		s.logger.Warn("failed to create notification",
			slog.String("user_id", userID.String()),
			slog.String("type", string(typ)),
			slog.Any("err", err))
	}
}

func (s *NotificationService) List(ctx context.Context, sess Session, page, limit int) ([]models.Notification, int64, error) {
	items, total, err := s.repo.GetByUserID(ctx, sess.UserID, page, limit)
	if err != nil {
		return nil, 0, storeErr("notifications", err)
	}
	return items, total, nil
}

// Unread returns the newest unread notifications for the bell menu
func (s *NotificationService) Unread(ctx context.Context, sess Session) ([]models.Notification, error) {
	items, err := s.repo.GetUnread(ctx, sess.UserID, bellLimit)
	if err != nil {
		return nil, storeErr("notifications", err)
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, sess Session) (int64, error) {
	n, err := s.repo.GetUnreadCount(ctx, sess.UserID)
	if err != nil {
		return 0, storeErr("notifications", err)
	}
	return n, nil
}

// MarkAsRead marks one of the caller's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, sess Session, id uuid.UUID) error {
	n, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return storeErr("notification", err)
	}
	if n.UserID != sess.UserID {
		return forbiddenf("notification belongs to another user")
	}
	if n.IsRead {
		return nil
	}
	return storeErr("notification", s.repo.MarkAsRead(ctx, id))
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, sess Session) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, sess.UserID)
	if err != nil {
		return 0, storeErr("notifications", err)
	}
	return n, nil
}
