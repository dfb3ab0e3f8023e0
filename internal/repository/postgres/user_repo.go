package postgres

import (
	"context"

	"github.com/dom/kanban-board/internal/domain"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if isUniqueViolation(err) {
		return domain.ErrEmailExists
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "lower(email) = lower(?)", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetSecurityStamp(ctx context.Context, id int64) (string, error) {
	var stamps []string
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND active", id).
		Pluck("security_stamp", &stamps).Error
	if err != nil {
		return "", err
	}
	if len(stamps) == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return stamps[0], nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash, securityStamp string) error {
	return requireRow(r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":  passwordHash,
			"security_stamp": securityStamp,
		}))
}
