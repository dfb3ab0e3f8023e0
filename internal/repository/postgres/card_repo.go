package postgres

import (
	"context"

	"github.com/dom/kanban-board/internal/domain"
	"gorm.io/gorm"
)

const visibleCardChain = "board_cards.active AND board_columns.active AND boards.active AND board_columns.board_id = board_cards.board_id"

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *cardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) visible(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.BoardCard{}).
		Joins("JOIN board_columns ON board_columns.id = board_cards.board_column_id").
		Joins("JOIN boards ON boards.id = board_columns.board_id").
		Where(visibleCardChain)
}

func (r *cardRepository) Create(ctx context.Context, card *domain.BoardCard) error {
	card.Active = true
	return r.db.WithContext(ctx).Create(card).Error
}

// NextOrder is one past the highest order in the column, 0 for an empty one.
func (r *cardRepository) NextOrder(ctx context.Context, columnID int64) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&domain.BoardCard{}).
		Select("COALESCE(MAX(sort_order), -1)").
		Where("board_column_id = ? AND active", columnID).
		Row().Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*domain.BoardCard, error) {
	var card domain.BoardCard
	err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) GetVisible(ctx context.Context, id int64) (*domain.BoardCard, error) {
	var card domain.BoardCard
	err := r.visible(ctx).
		Where("board_cards.id = ?", id).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) BoardIDOf(ctx context.Context, cardID int64) (int64, error) {
	var ids []int64
	err := r.visible(ctx).
		Where("board_cards.id = ?", cardID).
		Pluck("board_columns.board_id", &ids).Error
	return firstID(ids, err)
}

// ListVisible returns the board's cards whose card, column and board are all
// active, grouped by column and ordered by (order, id).
func (r *cardRepository) ListVisible(ctx context.Context, boardID int64) ([]*domain.BoardCard, error) {
	var cards []*domain.BoardCard
	err := r.visible(ctx).
		Where("board_cards.board_id = ?", boardID).
		Order("board_cards.board_column_id, board_cards.sort_order, board_cards.id").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) Update(ctx context.Context, card *domain.BoardCard) error {
	return requireRow(r.db.WithContext(ctx).
		Model(&domain.BoardCard{}).
		Where("id = ? AND active", card.ID).
		Updates(map[string]interface{}{
			"title":           card.Title,
			"description":     card.Description,
			"due_date":        card.DueDate,
			"warning_days":    card.WarningDays,
			"highlight_color": card.HighlightColor,
			"assignee_id":     card.AssigneeID,
		}))
}

func (r *cardRepository) Move(ctx context.Context, cardID, columnID int64, order int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.BoardCard{}).
		Where("id = ? AND active", cardID).
		Updates(map[string]interface{}{
			"board_column_id": columnID,
			"sort_order":      order,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *cardRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.BoardCard{}).
		Where("id = ? AND active", id).
		Update("active", false).Error
}
