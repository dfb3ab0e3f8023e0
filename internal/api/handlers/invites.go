package handlers

import (
	"net/http"

	"github.com/dom/kanban-board/internal/service"
	"github.com/go-chi/chi/v5"
)

type InviteHandler struct {
	invites *service.InviteService
}

func NewInviteHandler(invites *service.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

type InviteRequest struct {
	Email string `json:"email"`
}

type WorkInviteRequest struct {
	Accept bool `json:"accept"`
}

func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		fail(w, err)
		return
	}
	var req InviteRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	invite, err := h.invites.Invite(r.Context(), caller(r), boardID, req.Email)
	respond(w, http.StatusCreated, invite, err)
}

func (h *InviteHandler) Pending(w http.ResponseWriter, r *http.Request) {
	invites, err := h.invites.PendingInvites(r.Context(), caller(r))
	respond(w, http.StatusOK, invites, err)
}

func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.work(w, r, true)
}

func (h *InviteHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.work(w, r, false)
}

func (h *InviteHandler) work(w http.ResponseWriter, r *http.Request, accept bool) {
	inviteID, err := pathID(r, "inviteID")
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, h.invites.WorkInvite(r.Context(), inviteID, caller(r), accept))
}

// Preview shows an invitation link's target to a visitor who may not have
// signed in yet.
func (h *InviteHandler) Preview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.invites.PreviewInvite(r.Context(), chi.URLParam(r, "token"))
	respond(w, http.StatusOK, preview, err)
}

// WorkByToken accepts or declines the invite named by a signed token from
// an invitation email.
func (h *InviteHandler) WorkByToken(w http.ResponseWriter, r *http.Request) {
	var req WorkInviteRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	ok(w, h.invites.WorkInviteByToken(r.Context(), chi.URLParam(r, "token"), caller(r), req.Accept))
}
