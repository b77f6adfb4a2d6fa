package handlers

import (
	"net/http"

	"github.com/pyjuan91/Limira/internal/comment"
	"github.com/pyjuan91/Limira/internal/message"
	"github.com/pyjuan91/Limira/internal/notification"
)

// CollabHandler serves comments, messages and notifications.
type CollabHandler struct {
	comments      *comment.Service
	messages      *message.Service
	notifications *notification.Service
}

func NewCollabHandler(comments *comment.Service, messages *message.Service, notifications *notification.Service) *CollabHandler {
	return &CollabHandler{comments: comments, messages: messages, notifications: notifications}
}

func (h *CollabHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "disclosure_id")
	if !ok {
		return
	}
	list, err := h.comments.List(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CollabHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "disclosure_id")
	if !ok {
		return
	}
	var req comment.CreateRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.comments.Create(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CollabHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "comment_id")
	if !ok {
		return
	}
	var req comment.UpdateRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.comments.Update(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CollabHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "comment_id")
	if !ok {
		return
	}
	if err := h.comments.Delete(r.Context(), caller(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollabHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := h.messages.List(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CollabHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req message.CreateRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.messages.Create(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *CollabHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "message_id")
	if !ok {
		return
	}
	var req message.UpdateRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.messages.Update(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *CollabHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "message_id")
	if !ok {
		return
	}
	if err := h.messages.Delete(r.Context(), caller(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollabHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unread := r.URL.Query().Get("unread") == "true"
	list, err := h.notifications.List(r.Context(), caller(r), unread)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CollabHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	n, err := h.notifications.MarkRead(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
