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

type CommentService struct {
	comments      repository.CommentRepository
	cards         repository.CardRepository
	access        *AccessService
	notifications *NotificationService
	clk           clock.Clock
	log           *slog.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	cards repository.CardRepository,
	access *AccessService,
	notifications *NotificationService,
	clk clock.Clock,
	log *slog.Logger,
) *CommentService {
	return &CommentService{
		comments:      comments,
		cards:         cards,
		access:        access,
		notifications: notifications,
		clk:           clk,
		log:           log,
	}
}

// AddComment appends a comment to a visible card and notifies the card's
// assignee unless they wrote it.
func (s *CommentService) AddComment(ctx context.Context, userID, cardID int64, message string) (*domain.BoardCardComment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrMessageRequired
	}
	boardID, _, err := s.access.RequireCardMember(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	card, err := s.cards.GetVisible(ctx, cardID)
	if err != nil {
		return nil, notFoundAs(s.log, "comment.Add", err, domain.ErrNotAuthorized)
	}

	comment := &domain.BoardCardComment{
		BoardCardID: cardID,
		UserID:      userID,
		Message:     message,
		CreatedAt:   s.clk.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeFailure(s.log, "comment.Add", err)
	}

	if card.AssigneeID != nil && *card.AssigneeID != userID {
		s.notifications.notifyQuietly(ctx, *card.AssigneeID, domain.NotificationCardComment,
			fmt.Sprintf("New comment on %q", card.Title),
			map[string]int64{"boardId": boardID, "cardId": cardID, "commentId": comment.ID})
	}
	return comment, nil
}

func (s *CommentService) GetComments(ctx context.Context, userID, cardID int64) ([]*domain.BoardCardComment, error) {
	if _, _, err := s.access.RequireCardMember(ctx, userID, cardID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByCard(ctx, cardID)
	if err != nil {
		return nil, storeFailure(s.log, "comment.List", err)
	}
	return comments, nil
}

// DeleteComment soft-deletes a comment. Its author and board owners may do so.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	_, role, err := s.access.RequireCommentMember(ctx, userID, commentID)
	if err != nil {
		return err
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return notFoundAs(s.log, "comment.Delete", err, domain.ErrNotAuthorized)
	}
	if comment.UserID != userID && !role.CanManage() {
		return domain.ErrNotAuthorized
	}
	if err := s.comments.SoftDelete(ctx, commentID); err != nil {
		return storeFailure(s.log, "comment.Delete", err)
	}
	return nil
}
