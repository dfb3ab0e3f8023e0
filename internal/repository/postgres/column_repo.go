package postgres

import (
	"context"

	"github.com/dom/kanban-board/internal/domain"
	"gorm.io/gorm"
)

type columnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *columnRepository {
	return &columnRepository{db: db}
}

func (r *columnRepository) Create(ctx context.Context, column *domain.BoardColumn) error {
	column.Active = true
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *columnRepository) GetByID(ctx context.Context, id int64) (*domain.BoardColumn, error) {
	var column domain.BoardColumn
	err := r.db.WithContext(ctx).First(&column, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &column, nil
}

func (r *columnRepository) BoardIDOf(ctx context.Context, columnID int64) (int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.BoardColumn{}).
		Joins("JOIN boards ON boards.id = board_columns.board_id").
		Where("board_columns.id = ? AND board_columns.active AND boards.active", columnID).
		Pluck("board_columns.board_id", &ids).Error
	return firstID(ids, err)
}

func (r *columnRepository) ListActive(ctx context.Context, boardID int64) ([]*domain.BoardColumn, error) {
	var columns []*domain.BoardColumn
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND active", boardID).
		Order("id").
		Find(&columns).Error
	if err != nil {
		return nil, err
	}
	return columns, nil
}

func (r *columnRepository) Rename(ctx context.Context, id int64, title string) error {
	return requireRow(r.db.WithContext(ctx).
		Model(&domain.BoardColumn{}).
		Where("id = ? AND active", id).
		Update("title", title))
}

// Deactivate hides the column. Its cards keep their own active flag and are
// filtered out by the read paths instead.
func (r *columnRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.BoardColumn{}).
		Where("id = ? AND active", id).
		Update("active", false).Error
}
