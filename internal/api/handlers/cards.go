package handlers

import (
	"net/http"
	"time"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/service"
)

type CardHandler struct {
	cards    *service.CardService
	comments *service.CommentService
	clk      clock.Clock
}

func NewCardHandler(cards *service.CardService, comments *service.CommentService, clk clock.Clock) *CardHandler {
	return &CardHandler{cards: cards, comments: comments, clk: clk}
}

// CardView is a card with its due state at response time.
type CardView struct {
	*domain.BoardCard
	DueState domain.DueState `json:"dueState"`
}

func cardView(card *domain.BoardCard, now time.Time) *CardView {
	return &CardView{BoardCard: card, DueState: card.DueState(now)}
}

func cardViews(cards []*domain.BoardCard, now time.Time) []*CardView {
	out := make([]*CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardView(c, now))
	}
	return out
}

type CardRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	DueDate        *time.Time `json:"dueDate"`
	WarningDays    int        `json:"warningDays"`
	HighlightColor string     `json:"highlightColor"`
	AssigneeID     *int64     `json:"assigneeId"`
}

func (req CardRequest) fields() service.CardFields {
	return service.CardFields{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		WarningDays:    req.WarningDays,
		HighlightColor: req.HighlightColor,
		AssigneeID:     req.AssigneeID,
	}
}

type CreateCardRequest struct {
	BoardID  int64 `json:"boardId"`
	ColumnID int64 `json:"columnId"`
	CardRequest
}

type MoveCardRequest struct {
	ColumnID int64 `json:"columnId"`
	Order    int   `json:"order"`
}

type CommentRequest struct {
	Message string `json:"message"`
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	card, err := h.cards.AddCard(r.Context(), caller(r), service.AddCardInput{
		BoardID:    req.BoardID,
		ColumnID:   req.ColumnID,
		CardFields: req.fields(),
	})
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, cardView(card, h.clk.Now()), nil)
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		fail(w, err)
		return
	}
	card, err := h.cards.GetCard(r.Context(), caller(r), cardID)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, cardView(card, h.clk.Now()), nil)
}

func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		fail(w, err)
		return
	}
	var req CardRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	card, err := h.cards.UpdateCard(r.Context(), caller(r), cardID, req.fields())
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, cardView(card, h.clk.Now()), nil)
}

func (h *CardHandler) Move(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		fail(w, err)
		return
	}
	var req MoveCardRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	ok(w, h.cards.MoveCard(r.Context(), caller(r), cardID, req.ColumnID, req.Order))
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, h.cards.DeleteCard(r.Context(), caller(r), cardID))
}

func (h *CardHandler) Comments(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		fail(w, err)
		return
	}
	comments, err := h.comments.GetComments(r.Context(), caller(r), cardID)
	respond(w, http.StatusOK, comments, err)
}

func (h *CardHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		fail(w, err)
		return
	}
	var req CommentRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	comment, err := h.comments.AddComment(r.Context(), caller(r), cardID, req.Message)
	respond(w, http.StatusCreated, comment, err)
}

func (h *CardHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "commentID")
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, h.comments.DeleteComment(r.Context(), caller(r), commentID))
}
