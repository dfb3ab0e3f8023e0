package service

import (
	"context"
	"log/slog"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/repository"
)

// AccessService answers membership questions for board-scoped resources.
//
// Column, card and comment ids are always resolved up to their owning board
// through active rows before membership is checked; a board id supplied
// alongside a resource id is never trusted. Misses are answers, not errors:
// they come back as false, and only store failures are returned as errors.
type AccessService struct {
	members  repository.MemberRepository
	columns  repository.ColumnRepository
	cards    repository.CardRepository
	comments repository.CommentRepository
	log      *slog.Logger
}

func NewAccessService(
	members repository.MemberRepository,
	columns repository.ColumnRepository,
	cards repository.CardRepository,
	comments repository.CommentRepository,
	log *slog.Logger,
) *AccessService {
	return &AccessService{
		members:  members,
		columns:  columns,
		cards:    cards,
		comments: comments,
		log:      log,
	}
}

// RoleOf returns the role of userID on an active board where the
// membership is active.
func (a *AccessService) RoleOf(ctx context.Context, userID, boardID int64) (domain.Role, bool, error) {
	role, err := a.members.ActiveRole(ctx, boardID, userID)
	if err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return role, true, nil
}

func (a *AccessService) IsActiveMember(ctx context.Context, userID, boardID int64) (bool, error) {
	_, ok, err := a.RoleOf(ctx, userID, boardID)
	return ok, err
}

func (a *AccessService) IsOwner(ctx context.Context, userID, boardID int64) (bool, error) {
	role, ok, err := a.RoleOf(ctx, userID, boardID)
	return ok && role == domain.RoleOwner, err
}

func (a *AccessService) ColumnBoard(ctx context.Context, columnID int64) (int64, bool, error) {
	return resolved(a.columns.BoardIDOf(ctx, columnID))
}

func (a *AccessService) CardBoard(ctx context.Context, cardID int64) (int64, bool, error) {
	return resolved(a.cards.BoardIDOf(ctx, cardID))
}

func (a *AccessService) CommentBoard(ctx context.Context, commentID int64) (int64, bool, error) {
	return resolved(a.comments.BoardIDOf(ctx, commentID))
}

func resolved(boardID int64, err error) (int64, bool, error) {
	if err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return boardID, true, nil
}

// RequireMember returns the caller's role, or domain.ErrNotAuthorized.
func (a *AccessService) RequireMember(ctx context.Context, userID, boardID int64) (domain.Role, error) {
	role, ok, err := a.RoleOf(ctx, userID, boardID)
	if err != nil {
		return "", storeFailure(a.log, "access.RequireMember", err)
	}
	if !ok {
		return "", domain.ErrNotAuthorized
	}
	return role, nil
}

func (a *AccessService) RequireOwner(ctx context.Context, userID, boardID int64) error {
	role, err := a.RequireMember(ctx, userID, boardID)
	if err != nil {
		return err
	}
	if !role.CanManage() {
		return domain.ErrNotAuthorized
	}
	return nil
}

// RequireColumnMember resolves the column to its board and checks membership.
func (a *AccessService) RequireColumnMember(ctx context.Context, userID, columnID int64) (int64, domain.Role, error) {
	return a.requireResolved(ctx, userID, "access.RequireColumnMember", func() (int64, bool, error) {
		return a.ColumnBoard(ctx, columnID)
	})
}

// RequireCardMember resolves card -> column -> board and checks membership.
func (a *AccessService) RequireCardMember(ctx context.Context, userID, cardID int64) (int64, domain.Role, error) {
	return a.requireResolved(ctx, userID, "access.RequireCardMember", func() (int64, bool, error) {
		return a.CardBoard(ctx, cardID)
	})
}

// RequireCommentMember resolves comment -> card -> column -> board and checks membership.
func (a *AccessService) RequireCommentMember(ctx context.Context, userID, commentID int64) (int64, domain.Role, error) {
	return a.requireResolved(ctx, userID, "access.RequireCommentMember", func() (int64, bool, error) {
		return a.CommentBoard(ctx, commentID)
	})
}

func (a *AccessService) requireResolved(ctx context.Context, userID int64, op string, resolve func() (int64, bool, error)) (int64, domain.Role, error) {
	boardID, ok, err := resolve()
	if err != nil {
		return 0, "", storeFailure(a.log, op, err)
	}
	if !ok {
		return 0, "", domain.ErrNotAuthorized
	}
	role, err := a.RequireMember(ctx, userID, boardID)
	if err != nil {
		return 0, "", err
	}
	return boardID, role, nil
}
