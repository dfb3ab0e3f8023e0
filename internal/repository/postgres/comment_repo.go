package postgres

import (
	"context"

	"github.com/dom/kanban-board/internal/domain"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.BoardCardComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.BoardCardComment, error) {
	var comment domain.BoardCardComment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) BoardIDOf(ctx context.Context, commentID int64) (int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.BoardCardComment{}).
		Joins("JOIN board_cards ON board_cards.id = board_card_comments.board_card_id").
		Joins("JOIN board_columns ON board_columns.id = board_cards.board_column_id").
		Joins("JOIN boards ON boards.id = board_columns.board_id").
		Where("board_card_comments.id = ? AND NOT board_card_comments.is_deleted", commentID).
		Where(visibleCardChain).
		Pluck("board_columns.board_id", &ids).Error
	return firstID(ids, err)
}

func (r *commentRepository) ListByCard(ctx context.Context, cardID int64) ([]*domain.BoardCardComment, error) {
	var comments []*domain.BoardCardComment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("board_card_id = ? AND NOT is_deleted", cardID).
		Order("created_at, id").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.BoardCardComment{}).
		Where("id = ? AND NOT is_deleted", id).
		Update("is_deleted", true).Error
}
