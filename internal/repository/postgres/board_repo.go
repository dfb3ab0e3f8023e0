package postgres

import (
	"context"

	"github.com/dom/kanban-board/internal/domain"
	"gorm.io/gorm"
)

type boardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *boardRepository {
	return &boardRepository{db: db}
}

func (r *boardRepository) CreateWithOwner(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		board.Active = true
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		owner := &domain.BoardMember{
			BoardID:  board.ID,
			UserID:   board.UserID,
			RoleCode: domain.RoleOwner,
			Active:   true,
		}
		return tx.Create(owner).Error
	})
}

func (r *boardRepository) GetActive(ctx context.Context, id int64) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).First(&board, "id = ? AND active", id).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) GetByID(ctx context.Context, id int64) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).First(&board, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) ListForUser(ctx context.Context, userID int64) ([]*domain.BoardSummary, error) {
	var boards []*domain.BoardSummary
	err := r.db.WithContext(ctx).
		Table("boards").
		Select("boards.id, boards.title, board_members.role_code AS role, boards.created_at").
		Joins("JOIN board_members ON board_members.board_id = boards.id").
		Where("board_members.user_id = ? AND board_members.active AND boards.active", userID).
		Order("boards.created_at DESC, boards.id DESC").
		Scan(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *boardRepository) Rename(ctx context.Context, id int64, title string) error {
	return requireRow(r.db.WithContext(ctx).
		Model(&domain.Board{}).
		Where("id = ? AND active", id).
		Update("title", title))
}

// Deactivate is a conditional update, so repeating it is a no-op.
func (r *boardRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Board{}).
		Where("id = ? AND active", id).
		Update("active", false).Error
}
