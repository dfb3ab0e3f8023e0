package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/repository"
	"gorm.io/datatypes"
)

type NotificationService struct {
	notifications repository.NotificationRepository
	clk           clock.Clock
	log           *slog.Logger
}

func NewNotificationService(notifications repository.NotificationRepository, clk clock.Clock, log *slog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		clk:           clk,
		log:           log,
	}
}

// Notify appends a notification for userID. payload is stored as JSON and
// may be nil.
func (s *NotificationService) Notify(ctx context.Context, userID int64, kind domain.NotificationKind, message string, payload any) error {
	n := &domain.UserNotification{
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: s.clk.Now(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return storeFailure(s.log, "notification.Notify", err)
		}
		n.Payload = datatypes.JSON(raw)
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return storeFailure(s.log, "notification.Notify", err)
	}
	return nil
}

// notifyQuietly is used for notifications that follow an already committed
// action; failing to record one must not fail the action.
func (s *NotificationService) notifyQuietly(ctx context.Context, userID int64, kind domain.NotificationKind, message string, payload any) {
	if err := s.Notify(ctx, userID, kind, message, payload); err != nil {
		s.log.Warn("notification dropped", "user_id", userID, "kind", kind, "err", err)
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID int64) ([]*domain.UserNotification, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeFailure(s.log, "notification.List", err)
	}
	return notifications, nil
}

// DeleteNotification soft-deletes one of the user's notifications. Another
// user's notification id reads as not found.
func (s *NotificationService) DeleteNotification(ctx context.Context, userID, id int64) error {
	ok, err := s.notifications.SoftDelete(ctx, userID, id)
	if err != nil {
		return storeFailure(s.log, "notification.Delete", err)
	}
	if !ok {
		return domain.ErrNotAuthorized
	}
	return nil
}

// DeleteNotifications soft-deletes all of the user's notifications and
// returns how many were still visible.
func (s *NotificationService) DeleteNotifications(ctx context.Context, userID int64) (int64, error) {
	n, err := s.notifications.SoftDeleteAll(ctx, userID)
	if err != nil {
		return 0, storeFailure(s.log, "notification.DeleteAll", err)
	}
	return n, nil
}
