package repository

import (
	"context"
	"time"

	"github.com/dom/kanban-board/internal/domain"
)

// Lookups that miss return gorm.ErrRecordNotFound. Reads never return
// soft-deleted rows unless the method name says otherwise (GetByID).

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetSecurityStamp(ctx context.Context, id int64) (string, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash, securityStamp string) error
}

type BoardRepository interface {
	// CreateWithOwner inserts the board and its creator's OWNER membership in
	// one transaction.
	CreateWithOwner(ctx context.Context, board *domain.Board) error
	GetActive(ctx context.Context, id int64) (*domain.Board, error)
	GetByID(ctx context.Context, id int64) (*domain.Board, error)
	ListForUser(ctx context.Context, userID int64) ([]*domain.BoardSummary, error)
	Rename(ctx context.Context, id int64, title string) error
	Deactivate(ctx context.Context, id int64) error
}

type MemberRepository interface {
	Get(ctx context.Context, boardID, userID int64) (*domain.BoardMember, error)
	// ActiveRole returns the role of an active member of an active board.
	ActiveRole(ctx context.Context, boardID, userID int64) (domain.Role, error)
	ListActive(ctx context.Context, boardID int64) ([]*domain.MemberView, error)
	IsActiveMemberEmail(ctx context.Context, boardID int64, email string) (bool, error)
	SetRole(ctx context.Context, boardID, userID int64, role domain.Role) error
	// Deactivate refuses with domain.ErrLastOwner when it would leave the
	// board without an active owner.
	Deactivate(ctx context.Context, boardID, userID int64) error
}

type ColumnRepository interface {
	Create(ctx context.Context, column *domain.BoardColumn) error
	GetByID(ctx context.Context, id int64) (*domain.BoardColumn, error)
	// BoardIDOf resolves an active column of an active board to its board.
	BoardIDOf(ctx context.Context, columnID int64) (int64, error)
	ListActive(ctx context.Context, boardID int64) ([]*domain.BoardColumn, error)
	Rename(ctx context.Context, id int64, title string) error
	Deactivate(ctx context.Context, id int64) error
}

type CardRepository interface {
	Create(ctx context.Context, card *domain.BoardCard) error
	NextOrder(ctx context.Context, columnID int64) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.BoardCard, error)
	// GetVisible returns the card only when it and every ancestor are active.
	GetVisible(ctx context.Context, id int64) (*domain.BoardCard, error)
	// BoardIDOf resolves card -> column -> board through active rows only.
	BoardIDOf(ctx context.Context, cardID int64) (int64, error)
	ListVisible(ctx context.Context, boardID int64) ([]*domain.BoardCard, error)
	Update(ctx context.Context, card *domain.BoardCard) error
	// Move sets column and order on an active card. Returns false when the
	// card is already inactive.
	Move(ctx context.Context, cardID, columnID int64, order int) (bool, error)
	Deactivate(ctx context.Context, id int64) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.BoardCardComment) error
	GetByID(ctx context.Context, id int64) (*domain.BoardCardComment, error)
	// BoardIDOf resolves comment -> card -> column -> board.
	BoardIDOf(ctx context.Context, commentID int64) (int64, error)
	ListByCard(ctx context.Context, cardID int64) ([]*domain.BoardCardComment, error)
	SoftDelete(ctx context.Context, id int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.UserNotification) error
	ListByUser(ctx context.Context, userID int64) ([]*domain.UserNotification, error)
	// SoftDelete returns false when no notification with that id belongs to the user.
	SoftDelete(ctx context.Context, userID, id int64) (bool, error)
	SoftDeleteAll(ctx context.Context, userID int64) (int64, error)
}

type InviteRepository interface {
	Create(ctx context.Context, invite *domain.UserInvite) error
	GetByID(ctx context.Context, id int64) (*domain.UserInvite, error)
	HasPending(ctx context.Context, boardID int64, email string, now time.Time) (bool, error)
	CountSentSince(ctx context.Context, senderID int64, since time.Time) (int64, error)
	ListPendingForEmail(ctx context.Context, email string, now time.Time) ([]*domain.UserInvite, error)
	// Accept marks the invite used and accepted and grants MEM membership in
	// one transaction. Returns domain.ErrInviteAlreadyUsed if it was used.
	Accept(ctx context.Context, inviteID, userID int64) error
	// Decline marks the invite used. Returns domain.ErrInviteAlreadyUsed if it was used.
	Decline(ctx context.Context, inviteID int64) error
}

type VerificationRepository interface {
	Create(ctx context.Context, v *domain.UserVerification) error
	CountSince(ctx context.Context, email string, since time.Time) (int64, error)
	// Latest returns the newest code issued for email whatever its state.
	Latest(ctx context.Context, email string) (*domain.UserVerification, error)
	// MarkUsed returns false when the code was already used.
	MarkUsed(ctx context.Context, id int64) (bool, error)
}

type Repositories struct {
	User         UserRepository
	Board        BoardRepository
	Member       MemberRepository
	Column       ColumnRepository
	Card         CardRepository
	Comment      CommentRepository
	Notification NotificationRepository
	Invite       InviteRepository
	Verification VerificationRepository
}
