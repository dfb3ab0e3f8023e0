package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/config"
	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/mail"
	"github.com/dom/kanban-board/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

const (
	inviteAudience = "invite"

	// InviteLinkPath is the web client page that opens an invitation. The
	// page loads GET /api/v1/invites/token/{token} and, once the invitee is
	// signed in, works it with POST on the same path.
	InviteLinkPath = "/invites/token/"
)

// InviteService runs the invitation workflow: Pending -> Accepted|Declined,
// with Expired derived from ExpiresAt at read time.
type InviteService struct {
	invites       repository.InviteRepository
	members       repository.MemberRepository
	users         repository.UserRepository
	boards        repository.BoardRepository
	access        *AccessService
	notifications *NotificationService
	mailer        Mailer
	cfg           *config.Config
	clk           clock.Clock
	log           *slog.Logger
}

func NewInviteService(
	invites repository.InviteRepository,
	members repository.MemberRepository,
	users repository.UserRepository,
	boards repository.BoardRepository,
	access *AccessService,
	notifications *NotificationService,
	mailer Mailer,
	cfg *config.Config,
	clk clock.Clock,
	log *slog.Logger,
) *InviteService {
	return &InviteService{
		invites:       invites,
		members:       members,
		users:         users,
		boards:        boards,
		access:        access,
		notifications: notifications,
		mailer:        mailer,
		cfg:           cfg,
		clk:           clk,
		log:           log,
	}
}

// Invite creates a pending invite for email on boardID. The sender must be
// an active member. Each sender may send cfg.InvitesPerDay invites in any
// 24 hour window, and a (board, email) pair has at most one pending invite.
func (s *InviteService) Invite(ctx context.Context, senderID, boardID int64, rawEmail string) (*domain.UserInvite, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, senderID, boardID); err != nil {
		return nil, err
	}

	member, err := s.members.IsActiveMemberEmail(ctx, boardID, email)
	if err != nil {
		return nil, storeFailure(s.log, "invite.Create", err)
	}
	if member {
		return nil, domain.ErrAlreadyMember
	}

	now := s.clk.Now()
	sent, err := s.invites.CountSentSince(ctx, senderID, now.Add(-rateWindow))
	if err != nil {
		return nil, storeFailure(s.log, "invite.Create", err)
	}
	if sent >= int64(s.cfg.InvitesPerDay) {
		return nil, domain.ErrRateLimited
	}

	pending, err := s.invites.HasPending(ctx, boardID, email, now)
	if err != nil {
		return nil, storeFailure(s.log, "invite.Create", err)
	}
	if pending {
		return nil, domain.ErrDuplicateInvite
	}

	invite := &domain.UserInvite{
		BoardID:      boardID,
		SenderUserID: senderID,
		Email:        email,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.cfg.InviteTTL),
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, storeFailure(s.log, "invite.Create", err)
	}

	s.announce(ctx, invite)
	return invite, nil
}

// announce mails the invitee and, if they already have an account, leaves
// them a notification. Both happen after the invite row is committed and
// failures are only logged.
func (s *InviteService) announce(ctx context.Context, invite *domain.UserInvite) {
	log := s.log.With("invite_id", invite.ID, "board_id", invite.BoardID)

	board, err := s.boards.GetByID(ctx, invite.BoardID)
	if err != nil {
		log.Error("load board for invite", "err", err)
		return
	}
	sender, err := s.users.GetByID(ctx, invite.SenderUserID)
	if err != nil {
		log.Error("load sender for invite", "err", err)
		return
	}

	token, err := s.InviteToken(invite)
	if err != nil {
		log.Error("sign invite token", "err", err)
		return
	}
	msg, err := mail.InviteMessage(invite.Email, mail.InviteData{
		SenderName: sender.FullName,
		BoardTitle: board.Title,
		AcceptURL:  s.InviteLink(token),
		ExpiresAt:  invite.ExpiresAt,
	})
	if err != nil {
		log.Error("render invite mail", "err", err)
	} else {
		s.mailer.Dispatch(msg)
	}

	invitee, err := s.users.GetByEmail(ctx, invite.Email)
	switch {
	case err == nil:
		s.notifications.notifyQuietly(ctx, invitee.ID, domain.NotificationInviteReceived,
			fmt.Sprintf("%s invited you to %q", sender.FullName, board.Title),
			map[string]int64{"boardId": board.ID, "inviteId": invite.ID})
	case !isNotFound(err):
		log.Warn("look up invitee", "err", err)
	}
}

// WorkInvite accepts or declines an invite on behalf of userID, who must own
// the invited email address. Accepting grants MEM membership in the same
// transaction that marks the invite used. A second call fails with
// domain.ErrInviteAlreadyUsed.
func (s *InviteService) WorkInvite(ctx context.Context, inviteID, userID int64, accept bool) error {
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return notFoundAs(s.log, "invite.Work", err, domain.ErrNotAuthorized)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(s.log, "invite.Work", err, domain.ErrNotAuthorized)
	}
	if !user.Active || !strings.EqualFold(invite.Email, user.Email) {
		return domain.ErrNotAuthorized
	}

	switch invite.Status(s.clk.Now()) {
	case domain.InviteStatusAccepted, domain.InviteStatusDeclined:
		return domain.ErrInviteAlreadyUsed
	case domain.InviteStatusExpired:
		return domain.ErrInviteExpired
	}

	if !accept {
		if err := s.invites.Decline(ctx, inviteID); err != nil {
			return storeFailure(s.log, "invite.Decline", err)
		}
		return nil
	}

	board, err := s.boards.GetActive(ctx, invite.BoardID)
	if err != nil {
		return notFoundAs(s.log, "invite.Accept", err, domain.ErrNotAuthorized)
	}
	if err := s.invites.Accept(ctx, inviteID, userID); err != nil {
		return storeFailure(s.log, "invite.Accept", err)
	}

	s.notifications.notifyQuietly(ctx, invite.SenderUserID, domain.NotificationInviteAccepted,
		fmt.Sprintf("%s joined %q", user.FullName, board.Title),
		map[string]int64{"boardId": board.ID, "userId": userID})
	return nil
}

// WorkInviteByToken verifies a signed invite token and works the invite it names.
func (s *InviteService) WorkInviteByToken(ctx context.Context, token string, userID int64, accept bool) error {
	inviteID, err := s.ParseInviteToken(token)
	if err != nil {
		return err
	}
	return s.WorkInvite(ctx, inviteID, userID, accept)
}

// PreviewInvite describes the invite named by a signed token. The token is
// the only credential; it is enough to learn the board title and sender.
func (s *InviteService) PreviewInvite(ctx context.Context, token string) (*domain.InvitePreview, error) {
	inviteID, err := s.ParseInviteToken(token)
	if err != nil {
		return nil, err
	}
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, notFoundAs(s.log, "invite.Preview", err, domain.ErrInvalidInviteToken)
	}
	board, err := s.boards.GetByID(ctx, invite.BoardID)
	if err != nil {
		return nil, notFoundAs(s.log, "invite.Preview", err, domain.ErrInvalidInviteToken)
	}
	sender, err := s.users.GetByID(ctx, invite.SenderUserID)
	if err != nil {
		return nil, notFoundAs(s.log, "invite.Preview", err, domain.ErrInvalidInviteToken)
	}
	return &domain.InvitePreview{
		BoardTitle: board.Title,
		SenderName: sender.FullName,
		Email:      invite.Email,
		ExpiresAt:  invite.ExpiresAt,
		Status:     invite.Status(s.clk.Now()),
	}, nil
}

// InviteLink is the web client URL mailed to the invitee.
func (s *InviteService) InviteLink(token string) string {
	return s.cfg.BaseURL + InviteLinkPath + token
}

// PendingInvites lists the unexpired, unused invites addressed to userID's email.
func (s *InviteService) PendingInvites(ctx context.Context, userID int64) ([]*domain.UserInvite, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(s.log, "invite.Pending", err, domain.ErrNotAuthorized)
	}
	invites, err := s.invites.ListPendingForEmail(ctx, user.Email, s.clk.Now())
	if err != nil {
		return nil, storeFailure(s.log, "invite.Pending", err)
	}
	return invites, nil
}

// InviteToken signs the invite id with the same secret as access tokens but
// a distinct audience, so neither can stand in for the other.
func (s *InviteService) InviteToken(invite *domain.UserInvite) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(invite.ID, 10),
		Audience:  jwt.ClaimStrings{inviteAudience},
		IssuedAt:  jwt.NewNumericDate(invite.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(invite.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *InviteService) ParseInviteToken(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithAudience(inviteAudience),
		jwt.WithTimeFunc(s.clk.Now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, domain.ErrInviteExpired
		}
		return 0, domain.ErrInvalidInviteToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidInviteToken
	}
	return id, nil
}
