package postgres

import (
	"context"

	"github.com/dom/kanban-board/internal/domain"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.UserNotification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.UserNotification, error) {
	var notifications []*domain.UserNotification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND NOT is_deleted", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// SoftDelete matches deleted rows too, so a repeated delete still reports
// the notification as found.
func (r *notificationRepository) SoftDelete(ctx context.Context, userID, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.UserNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_deleted", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepository) SoftDeleteAll(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.UserNotification{}).
		Where("user_id = ? AND NOT is_deleted", userID).
		Update("is_deleted", true)
	return res.RowsAffected, res.Error
}
