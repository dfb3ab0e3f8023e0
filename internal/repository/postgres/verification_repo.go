package postgres

import (
	"context"
	"time"

	"github.com/dom/kanban-board/internal/domain"
	"gorm.io/gorm"
)

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *verificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, v *domain.UserVerification) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *verificationRepository) CountSince(ctx context.Context, email string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserVerification{}).
		Where("lower(email) = lower(?) AND created_at >= ?", email, since).
		Count(&count).Error
	return count, err
}

// Latest returns the most recently issued code for email, used or not.
// Older codes never count, even when the newest one is spent.
func (r *verificationRepository) Latest(ctx context.Context, email string) (*domain.UserVerification, error) {
	var v domain.UserVerification
	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		Order("created_at DESC, id DESC").
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *verificationRepository) MarkUsed(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.UserVerification{}).
		Where("id = ? AND NOT is_used", id).
		Update("is_used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
