package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/repository"
)

// CardService creates, edits and moves cards.
//
// Card order is sparse: a move writes the requested column and order on the
// card alone and never renumbers its siblings, so two cards may share an
// order. Readers break ties by card id (domain.SortCards).
type CardService struct {
	cards   repository.CardRepository
	columns repository.ColumnRepository
	members repository.MemberRepository
	access  *AccessService
	clk     clock.Clock
	log     *slog.Logger
}

func NewCardService(
	cards repository.CardRepository,
	columns repository.ColumnRepository,
	members repository.MemberRepository,
	access *AccessService,
	clk clock.Clock,
	log *slog.Logger,
) *CardService {
	return &CardService{
		cards:   cards,
		columns: columns,
		members: members,
		access:  access,
		clk:     clk,
		log:     log,
	}
}

type CardFields struct {
	Title          string
	Description    string
	DueDate        *time.Time
	WarningDays    int
	HighlightColor string
	AssigneeID     *int64
}

type AddCardInput struct {
	BoardID  int64
	ColumnID int64
	CardFields
}

func (s *CardService) validate(ctx context.Context, boardID int64, f *CardFields) error {
	title, err := cleanTitle(f.Title)
	if err != nil {
		return err
	}
	f.Title = title
	f.Description = strings.TrimSpace(f.Description)
	if f.WarningDays < 0 {
		return domain.ErrInvalidWarningDays
	}
	if f.AssigneeID != nil {
		if _, err := s.members.ActiveRole(ctx, boardID, *f.AssigneeID); err != nil {
			return notFoundAs(s.log, "card.validate", err, domain.ErrAssigneeNotMember)
		}
	}
	return nil
}

// requireColumnIn checks that columnID is an active column of boardID.
func (s *CardService) requireColumnIn(ctx context.Context, boardID, columnID int64) error {
	owner, ok, err := s.access.ColumnBoard(ctx, columnID)
	if err != nil {
		return storeFailure(s.log, "card.requireColumnIn", err)
	}
	if !ok || owner != boardID {
		return domain.ErrColumnNotInBoard
	}
	return nil
}

// AddCard appends a card at the end of the column.
func (s *CardService) AddCard(ctx context.Context, userID int64, input AddCardInput) (*domain.BoardCard, error) {
	if _, err := s.access.RequireMember(ctx, userID, input.BoardID); err != nil {
		return nil, err
	}
	if err := s.requireColumnIn(ctx, input.BoardID, input.ColumnID); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input.BoardID, &input.CardFields); err != nil {
		return nil, err
	}

	order, err := s.cards.NextOrder(ctx, input.ColumnID)
	if err != nil {
		return nil, storeFailure(s.log, "card.Add", err)
	}

	card := &domain.BoardCard{
		BoardID:        input.BoardID,
		BoardColumnID:  input.ColumnID,
		Title:          input.Title,
		Description:    input.Description,
		CreatedBy:      userID,
		CreatedAt:      s.clk.Now(),
		Order:          order,
		DueDate:        input.DueDate,
		WarningDays:    input.WarningDays,
		HighlightColor: input.HighlightColor,
		AssigneeID:     input.AssigneeID,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, storeFailure(s.log, "card.Add", err)
	}
	return card, nil
}

func (s *CardService) GetCard(ctx context.Context, userID, cardID int64) (*domain.BoardCard, error) {
	if _, _, err := s.access.RequireCardMember(ctx, userID, cardID); err != nil {
		return nil, err
	}
	card, err := s.cards.GetVisible(ctx, cardID)
	if err != nil {
		return nil, notFoundAs(s.log, "card.Get", err, domain.ErrNotAuthorized)
	}
	return card, nil
}

// UpdateCard replaces every mutable field of the card.
func (s *CardService) UpdateCard(ctx context.Context, userID, cardID int64, fields CardFields) (*domain.BoardCard, error) {
	boardID, _, err := s.access.RequireCardMember(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, boardID, &fields); err != nil {
		return nil, err
	}

	card, err := s.cards.GetVisible(ctx, cardID)
	if err != nil {
		return nil, notFoundAs(s.log, "card.Update", err, domain.ErrNotAuthorized)
	}
	card.Title = fields.Title
	card.Description = fields.Description
	card.DueDate = fields.DueDate
	card.WarningDays = fields.WarningDays
	card.HighlightColor = fields.HighlightColor
	card.AssigneeID = fields.AssigneeID

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, notFoundAs(s.log, "card.Update", err, domain.ErrNotAuthorized)
	}
	return card, nil
}

// MoveCard sets the card's column and order in one write. Reorders within a
// column and moves across columns take the same path. The target column must
// belong to the card's board.
func (s *CardService) MoveCard(ctx context.Context, userID, cardID, columnID int64, order int) error {
	boardID, _, err := s.access.RequireCardMember(ctx, userID, cardID)
	if err != nil {
		return err
	}
	if order < 0 {
		return domain.ErrInvalidOrder
	}
	if err := s.requireColumnIn(ctx, boardID, columnID); err != nil {
		return err
	}

	// A card deleted since the check is left alone.
	if _, err := s.cards.Move(ctx, cardID, columnID, order); err != nil {
		return storeFailure(s.log, "card.Move", err)
	}
	return nil
}

// DeleteCard soft-deletes the card. Deleting an already deleted card
// succeeds without change.
func (s *CardService) DeleteCard(ctx context.Context, userID, cardID int64) error {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return notFoundAs(s.log, "card.Delete", err, domain.ErrNotAuthorized)
	}
	// Resolve through the column rather than the card's own board id.
	column, err := s.columns.GetByID(ctx, card.BoardColumnID)
	if err != nil {
		return notFoundAs(s.log, "card.Delete", err, domain.ErrNotAuthorized)
	}
	if _, err := s.access.RequireMember(ctx, userID, column.BoardID); err != nil {
		return err
	}
	if err := s.cards.Deactivate(ctx, cardID); err != nil {
		return storeFailure(s.log, "card.Delete", err)
	}
	return nil
}
