package handlers

import (
	"net/http"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/service"
)

type BoardHandler struct {
	boards *service.BoardService
	clk    clock.Clock
}

func NewBoardHandler(boards *service.BoardService, clk clock.Clock) *BoardHandler {
	return &BoardHandler{boards: boards, clk: clk}
}

type TitleRequest struct {
	Title string `json:"title"`
}

type BoardTitleResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type ColumnResponse struct {
	ID    int64       `json:"id"`
	Title string      `json:"title"`
	Cards []*CardView `json:"cards"`
}

func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.GetBoards(r.Context(), caller(r))
	respond(w, http.StatusOK, boards, err)
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TitleRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	board, err := h.boards.CreateBoard(r.Context(), caller(r), req.Title)
	respond(w, http.StatusCreated, board, err)
}

func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		fail(w, err)
		return
	}
	title, err := h.boards.GetBoardTitle(r.Context(), caller(r), boardID)
	respond(w, http.StatusOK, BoardTitleResponse{ID: boardID, Title: title}, err)
}

func (h *BoardHandler) Rename(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		fail(w, err)
		return
	}
	var req TitleRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	ok(w, h.boards.RenameBoard(r.Context(), caller(r), boardID, req.Title))
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, h.boards.DeleteBoard(r.Context(), caller(r), boardID))
}

// Columns returns the board view: active columns with their visible cards.
func (h *BoardHandler) Columns(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		fail(w, err)
		return
	}
	columns, err := h.boards.GetBoardColumnsCards(r.Context(), caller(r), boardID)
	if err != nil {
		fail(w, err)
		return
	}

	now := h.clk.Now()
	out := make([]ColumnResponse, 0, len(columns))
	for _, c := range columns {
		out = append(out, ColumnResponse{ID: c.ID, Title: c.Title, Cards: cardViews(c.Cards, now)})
	}
	respond(w, http.StatusOK, out, nil)
}

func (h *BoardHandler) AddColumn(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		fail(w, err)
		return
	}
	var req TitleRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	column, err := h.boards.AddColumn(r.Context(), caller(r), boardID, req.Title)
	respond(w, http.StatusCreated, column, err)
}

func (h *BoardHandler) RenameColumn(w http.ResponseWriter, r *http.Request) {
	columnID, err := pathID(r, "columnID")
	if err != nil {
		fail(w, err)
		return
	}
	var req TitleRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	ok(w, h.boards.RenameColumn(r.Context(), caller(r), columnID, req.Title))
}

func (h *BoardHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	columnID, err := pathID(r, "columnID")
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, h.boards.DeleteColumn(r.Context(), caller(r), columnID))
}

func (h *BoardHandler) Members(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		fail(w, err)
		return
	}
	members, err := h.boards.GetBoardMembers(r.Context(), caller(r), boardID)
	respond(w, http.StatusOK, members, err)
}

func (h *BoardHandler) Promote(w http.ResponseWriter, r *http.Request) {
	boardID, userID, err := memberPath(r)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, h.boards.PromoteToOwner(r.Context(), caller(r), boardID, userID))
}

func (h *BoardHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	boardID, userID, err := memberPath(r)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, h.boards.RemoveMember(r.Context(), caller(r), boardID, userID))
}

func (h *BoardHandler) Leave(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, h.boards.LeaveBoard(r.Context(), caller(r), boardID))
}

func memberPath(r *http.Request) (int64, int64, error) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		return 0, 0, err
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		return 0, 0, err
	}
	return boardID, userID, nil
}
