package postgres

import (
	"context"

	"github.com/dom/kanban-board/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *memberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Get(ctx context.Context, boardID, userID int64) (*domain.BoardMember, error) {
	var member domain.BoardMember
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) ActiveRole(ctx context.Context, boardID, userID int64) (domain.Role, error) {
	var roles []string
	err := r.db.WithContext(ctx).
		Model(&domain.BoardMember{}).
		Joins("JOIN boards ON boards.id = board_members.board_id").
		Where("board_members.board_id = ? AND board_members.user_id = ?", boardID, userID).
		Where("board_members.active AND boards.active").
		Pluck("board_members.role_code", &roles).Error
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return domain.Role(roles[0]), nil
}

func (r *memberRepository) ListActive(ctx context.Context, boardID int64) ([]*domain.MemberView, error) {
	var members []*domain.MemberView
	err := r.db.WithContext(ctx).
		Table("board_members").
		Select("users.id AS user_id, users.full_name, users.email, board_members.role_code AS role").
		Joins("JOIN users ON users.id = board_members.user_id").
		Joins("JOIN boards ON boards.id = board_members.board_id").
		Where("board_members.board_id = ? AND board_members.active AND boards.active", boardID).
		Order("board_members.role_code DESC, users.full_name, users.id").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepository) IsActiveMemberEmail(ctx context.Context, boardID int64, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.BoardMember{}).
		Joins("JOIN users ON users.id = board_members.user_id").
		Where("board_members.board_id = ? AND board_members.active", boardID).
		Where("lower(users.email) = lower(?)", email).
		Count(&count).Error
	return count > 0, err
}

func (r *memberRepository) SetRole(ctx context.Context, boardID, userID int64, role domain.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if role != domain.RoleOwner {
			if err := ensureAnotherOwner(tx, boardID, userID); err != nil {
				return err
			}
		}
		return requireRow(tx.Model(&domain.BoardMember{}).
			Where("board_id = ? AND user_id = ? AND active", boardID, userID).
			Update("role_code", role))
	})
}

func (r *memberRepository) Deactivate(ctx context.Context, boardID, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureAnotherOwner(tx, boardID, userID); err != nil {
			return err
		}
		return tx.Model(&domain.BoardMember{}).
			Where("board_id = ? AND user_id = ? AND active", boardID, userID).
			Update("active", false).Error
	})
}

// ensureAnotherOwner locks the board's active owner rows and fails with
// domain.ErrLastOwner if userID is the only one. Non-owners pass.
func ensureAnotherOwner(tx *gorm.DB, boardID, userID int64) error {
	var owners []domain.BoardMember
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("board_id = ? AND role_code = ? AND active", boardID, domain.RoleOwner).
		Find(&owners).Error
	if err != nil {
		return err
	}
	isOwner := false
	for _, o := range owners {
		if o.UserID == userID {
			isOwner = true
		}
	}
	if isOwner && len(owners) == 1 {
		return domain.ErrLastOwner
	}
	return nil
}

// upsertMember activates userID on the board. A membership that is already
// active keeps its role; a new or reactivated one gets role.
func upsertMember(tx *gorm.DB, boardID, userID int64, role domain.Role) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "board_id"}, {Name: "user_id"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "role_code"}, Value: gorm.Expr("CASE WHEN board_members.active THEN board_members.role_code ELSE EXCLUDED.role_code END")},
			{Column: clause.Column{Name: "active"}, Value: true},
		},
	}).Create(&domain.BoardMember{
		BoardID:  boardID,
		UserID:   userID,
		RoleCode: role,
		Active:   true,
	}).Error
}
