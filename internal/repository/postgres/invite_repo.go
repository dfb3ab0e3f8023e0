package postgres

import (
	"context"
	"time"

	"github.com/dom/kanban-board/internal/domain"
	"gorm.io/gorm"
)

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *inviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, invite *domain.UserInvite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *inviteRepository) GetByID(ctx context.Context, id int64) (*domain.UserInvite, error) {
	var invite domain.UserInvite
	err := r.db.WithContext(ctx).First(&invite, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) HasPending(ctx context.Context, boardID int64, email string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserInvite{}).
		Where("board_id = ? AND lower(email) = lower(?)", boardID, email).
		Where("NOT is_used AND expires_at > ?", now).
		Count(&count).Error
	return count > 0, err
}

func (r *inviteRepository) CountSentSince(ctx context.Context, senderID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserInvite{}).
		Where("sender_user_id = ? AND created_at >= ?", senderID, since).
		Count(&count).Error
	return count, err
}

func (r *inviteRepository) ListPendingForEmail(ctx context.Context, email string, now time.Time) ([]*domain.UserInvite, error) {
	var invites []*domain.UserInvite
	err := r.db.WithContext(ctx).
		Preload("Board").
		Preload("Sender").
		Joins("JOIN boards ON boards.id = user_invites.board_id AND boards.active").
		Where("lower(user_invites.email) = lower(?)", email).
		Where("NOT user_invites.is_used AND user_invites.expires_at > ?", now).
		Order("user_invites.created_at DESC, user_invites.id DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *inviteRepository) Accept(ctx context.Context, inviteID, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := markUsed(tx, inviteID, true); err != nil {
			return err
		}
		var invite domain.UserInvite
		if err := tx.First(&invite, "id = ?", inviteID).Error; err != nil {
			return err
		}
		return upsertMember(tx, invite.BoardID, userID, domain.RoleMember)
	})
}

func (r *inviteRepository) Decline(ctx context.Context, inviteID int64) error {
	return markUsed(r.db.WithContext(ctx), inviteID, false)
}

// markUsed is the single Pending -> Accepted|Declined transition; the
// is_used guard makes a second attempt fail instead of overwriting.
func markUsed(tx *gorm.DB, inviteID int64, accepted bool) error {
	res := tx.Model(&domain.UserInvite{}).
		Where("id = ? AND NOT is_used", inviteID).
		Updates(map[string]interface{}{
			"is_used":     true,
			"is_accepted": accepted,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInviteAlreadyUsed
	}
	return nil
}
