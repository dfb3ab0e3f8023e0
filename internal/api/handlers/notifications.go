package handlers

import (
	"net/http"

	"github.com/dom/kanban-board/internal/service"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notifications.GetNotifications(r.Context(), caller(r))
	respond(w, http.StatusOK, notifications, err)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "notificationID")
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, h.notifications.DeleteNotification(r.Context(), caller(r), id))
}

func (h *NotificationHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.DeleteNotifications(r.Context(), caller(r))
	respond(w, http.StatusOK, DeletedResponse{Deleted: n}, err)
}
