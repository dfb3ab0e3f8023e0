package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/repository"
)

// BoardService owns boards, their columns and their membership.
type BoardService struct {
	boards        repository.BoardRepository
	members       repository.MemberRepository
	columns       repository.ColumnRepository
	cards         repository.CardRepository
	access        *AccessService
	notifications *NotificationService
	clk           clock.Clock
	log           *slog.Logger
}

func NewBoardService(
	boards repository.BoardRepository,
	members repository.MemberRepository,
	columns repository.ColumnRepository,
	cards repository.CardRepository,
	access *AccessService,
	notifications *NotificationService,
	clk clock.Clock,
	log *slog.Logger,
) *BoardService {
	return &BoardService{
		boards:        boards,
		members:       members,
		columns:       columns,
		cards:         cards,
		access:        access,
		notifications: notifications,
		clk:           clk,
		log:           log,
	}
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", domain.ErrEmptyTitle
	}
	return title, nil
}

// CreateBoard creates the board with userID as its only OWNER.
func (s *BoardService) CreateBoard(ctx context.Context, userID int64, title string) (*domain.Board, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}

	board := &domain.Board{
		UserID:    userID,
		Title:     title,
		CreatedAt: s.clk.Now(),
	}
	if err := s.boards.CreateWithOwner(ctx, board); err != nil {
		return nil, storeFailure(s.log, "board.Create", err)
	}
	return board, nil
}

func (s *BoardService) RenameBoard(ctx context.Context, userID, boardID int64, title string) error {
	title, err := cleanTitle(title)
	if err != nil {
		return err
	}
	if _, err := s.access.RequireMember(ctx, userID, boardID); err != nil {
		return err
	}
	if err := s.boards.Rename(ctx, boardID, title); err != nil {
		return notFoundAs(s.log, "board.Rename", err, domain.ErrNotAuthorized)
	}
	return nil
}

// DeleteBoard soft-deletes the board. Only an owner may do it, and deleting
// an already deleted board succeeds without change.
func (s *BoardService) DeleteBoard(ctx context.Context, userID, boardID int64) error {
	// The oracle hides inactive boards, so the raw membership row decides here.
	member, err := s.members.Get(ctx, boardID, userID)
	if err != nil {
		return notFoundAs(s.log, "board.Delete", err, domain.ErrNotAuthorized)
	}
	if !member.Active || !member.RoleCode.CanManage() {
		return domain.ErrNotAuthorized
	}
	if err := s.boards.Deactivate(ctx, boardID); err != nil {
		return storeFailure(s.log, "board.Delete", err)
	}
	return nil
}

func (s *BoardService) GetBoards(ctx context.Context, userID int64) ([]*domain.BoardSummary, error) {
	boards, err := s.boards.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeFailure(s.log, "board.List", err)
	}
	return boards, nil
}

func (s *BoardService) GetBoardTitle(ctx context.Context, userID, boardID int64) (string, error) {
	if _, err := s.access.RequireMember(ctx, userID, boardID); err != nil {
		return "", err
	}
	board, err := s.boards.GetActive(ctx, boardID)
	if err != nil {
		return "", notFoundAs(s.log, "board.Title", err, domain.ErrNotAuthorized)
	}
	return board.Title, nil
}

// GetBoardColumnsCards returns the active columns of the board, each with
// its visible cards in render order.
func (s *BoardService) GetBoardColumnsCards(ctx context.Context, userID, boardID int64) ([]*domain.ColumnWithCards, error) {
	if _, err := s.access.RequireMember(ctx, userID, boardID); err != nil {
		return nil, err
	}

	columns, err := s.columns.ListActive(ctx, boardID)
	if err != nil {
		return nil, storeFailure(s.log, "board.Columns", err)
	}
	cards, err := s.cards.ListVisible(ctx, boardID)
	if err != nil {
		return nil, storeFailure(s.log, "board.Columns", err)
	}

	byColumn := make(map[int64]*domain.ColumnWithCards, len(columns))
	out := make([]*domain.ColumnWithCards, 0, len(columns))
	for _, c := range columns {
		view := &domain.ColumnWithCards{ID: c.ID, Title: c.Title, Cards: []*domain.BoardCard{}}
		byColumn[c.ID] = view
		out = append(out, view)
	}
	for _, card := range cards {
		if view, ok := byColumn[card.BoardColumnID]; ok {
			view.Cards = append(view.Cards, card)
		}
	}
	for _, view := range out {
		domain.SortCards(view.Cards)
	}
	return out, nil
}

func (s *BoardService) GetBoardMembers(ctx context.Context, userID, boardID int64) ([]*domain.MemberView, error) {
	if _, err := s.access.RequireMember(ctx, userID, boardID); err != nil {
		return nil, err
	}
	members, err := s.members.ListActive(ctx, boardID)
	if err != nil {
		return nil, storeFailure(s.log, "board.Members", err)
	}
	return members, nil
}

func (s *BoardService) AddColumn(ctx context.Context, userID, boardID int64, title string) (*domain.BoardColumn, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, userID, boardID); err != nil {
		return nil, err
	}

	column := &domain.BoardColumn{BoardID: boardID, Title: title}
	if err := s.columns.Create(ctx, column); err != nil {
		return nil, storeFailure(s.log, "column.Create", err)
	}
	return column, nil
}

func (s *BoardService) RenameColumn(ctx context.Context, userID, columnID int64, title string) error {
	title, err := cleanTitle(title)
	if err != nil {
		return err
	}
	if _, _, err := s.access.RequireColumnMember(ctx, userID, columnID); err != nil {
		return err
	}
	if err := s.columns.Rename(ctx, columnID, title); err != nil {
		return notFoundAs(s.log, "column.Rename", err, domain.ErrNotAuthorized)
	}
	return nil
}

// DeleteColumn soft-deletes the column. Its cards are hidden by the read
// paths and keep their own active flag. Repeating the delete is a no-op.
func (s *BoardService) DeleteColumn(ctx context.Context, userID, columnID int64) error {
	column, err := s.columns.GetByID(ctx, columnID)
	if err != nil {
		return notFoundAs(s.log, "column.Delete", err, domain.ErrNotAuthorized)
	}
	if _, err := s.access.RequireMember(ctx, userID, column.BoardID); err != nil {
		return err
	}
	if err := s.columns.Deactivate(ctx, columnID); err != nil {
		return storeFailure(s.log, "column.Delete", err)
	}
	return nil
}

func (s *BoardService) PromoteToOwner(ctx context.Context, userID, boardID, targetUserID int64) error {
	if err := s.access.RequireOwner(ctx, userID, boardID); err != nil {
		return err
	}
	if err := s.members.SetRole(ctx, boardID, targetUserID, domain.RoleOwner); err != nil {
		return notFoundAs(s.log, "member.Promote", err, domain.ErrNotAuthorized)
	}
	return nil
}

// RemoveMember deactivates targetUserID's membership. The last owner of a
// board cannot be removed.
func (s *BoardService) RemoveMember(ctx context.Context, userID, boardID, targetUserID int64) error {
	if err := s.access.RequireOwner(ctx, userID, boardID); err != nil {
		return err
	}
	target, err := s.members.Get(ctx, boardID, targetUserID)
	if err != nil {
		return notFoundAs(s.log, "member.Remove", err, domain.ErrNotAuthorized)
	}
	if !target.Active {
		return domain.ErrNotAuthorized
	}
	if err := s.members.Deactivate(ctx, boardID, targetUserID); err != nil {
		return storeFailure(s.log, "member.Remove", err)
	}

	if targetUserID != userID {
		title, _ := s.boardTitle(ctx, boardID)
		s.notifications.notifyQuietly(ctx, targetUserID, domain.NotificationMemberRemoved,
			fmt.Sprintf("You were removed from the board %q", title),
			map[string]int64{"boardId": boardID})
	}
	return nil
}

// LeaveBoard ends the caller's own membership. The last owner cannot leave.
func (s *BoardService) LeaveBoard(ctx context.Context, userID, boardID int64) error {
	if _, err := s.access.RequireMember(ctx, userID, boardID); err != nil {
		return err
	}
	if err := s.members.Deactivate(ctx, boardID, userID); err != nil {
		return storeFailure(s.log, "member.Leave", err)
	}
	return nil
}

func (s *BoardService) boardTitle(ctx context.Context, boardID int64) (string, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return "", err
	}
	return board.Title, nil
}
