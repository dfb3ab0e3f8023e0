package service

import (
	"log/slog"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/config"
	"github.com/dom/kanban-board/internal/mail"
	"github.com/dom/kanban-board/internal/repository"
)

// Mailer hands a message off for delivery without waiting for it.
type Mailer interface {
	Dispatch(msg mail.Message)
}

type Services struct {
	Session      *SessionGuard
	Access       *AccessService
	Auth         *AuthService
	Verification *VerificationService
	Board        *BoardService
	Card         *CardService
	Invite       *InviteService
	Comment      *CommentService
	Notification *NotificationService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, clk clock.Clock, mailer Mailer, log *slog.Logger) *Services {
	guard := NewSessionGuard(repos.User, cfg.SessionStampTTL, clk, log)
	access := NewAccessService(repos.Member, repos.Column, repos.Card, repos.Comment, log)
	notifications := NewNotificationService(repos.Notification, clk, log)
	verification := NewVerificationService(repos.Verification, mailer, cfg, clk, log)

	return &Services{
		Session:      guard,
		Access:       access,
		Auth:         NewAuthService(repos.User, verification, guard, BcryptHasher{}, cfg, clk, log),
		Verification: verification,
		Board:        NewBoardService(repos.Board, repos.Member, repos.Column, repos.Card, access, notifications, clk, log),
		Card:         NewCardService(repos.Card, repos.Column, repos.Member, access, clk, log),
		Invite:       NewInviteService(repos.Invite, repos.Member, repos.User, repos.Board, access, notifications, mailer, cfg, clk, log),
		Comment:      NewCommentService(repos.Comment, repos.Card, access, notifications, clk, log),
		Notification: notifications,
	}
}
