package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/seawatts/nugget-sub007/internal/api/middleware"
	"github.com/seawatts/nugget-sub007/internal/metrics"
	"github.com/seawatts/nugget-sub007/internal/models"
)

// CreateThreadRequest represents the thread creation request.
type CreateThreadRequest struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body"` // first message, required
}

// ThreadResponse represents a chat thread.
type ThreadResponse struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// MessageResponse represents a chat message in API responses.
type MessageResponse struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Body      string `json:"body"`
	Timestamp int64  `json:"ts"`
}

// ThreadMessagesResponse represents the get thread messages response.
type ThreadMessagesResponse struct {
	Thread   ThreadResponse    `json:"thread"`
	Messages []MessageResponse `json:"messages"`
	HasMore  bool              `json:"has_more"`
}

// PostMessageRequest represents the post message request.
type PostMessageRequest struct {
	Body string `json:"body"`
}

// CreateThread starts a discussion thread about a child, seeded with its
// first message.
func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	childID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid child ID format")
		return
	}
	if err := h.guard.Authorize(r.Context(), principal, childID); err != nil {
		h.DomainError(w, err)
		return
	}

	var req CreateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Body == "" {
		h.Error(w, http.StatusBadRequest, "body is required")
		return
	}
	if len(req.Body) > 4096 {
		h.Error(w, http.StatusUnprocessableEntity, "body too long (max 4096 bytes)")
		return
	}

	thread, err := h.pg.CreateChatThread(r.Context(), childID, principal.CaregiverID, sanitizeName(req.Title))
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create thread")
		return
	}

	msg := &models.ChatMessage{
		ThreadID: thread.ID.String(),
		AuthorID: principal.CaregiverID.String(),
		Body:     req.Body,
	}
	if err := h.redis.AddMessage(r.Context(), msg); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	metrics.MessagesPosted.Inc()

	h.JSON(w, http.StatusCreated, ThreadResponse{
		ID:    thread.ID.String(),
		Title: thread.Title,
	})
}

// PostMessage appends a message to an existing thread.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid thread ID format")
		return
	}

	thread, err := h.pg.GetChatThread(r.Context(), threadID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if thread == nil {
		h.Error(w, http.StatusNotFound, "thread not found")
		return
	}
	if err := h.guard.Authorize(r.Context(), principal, thread.ChildID); err != nil {
		h.DomainError(w, err)
		return
	}

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Body == "" {
		h.Error(w, http.StatusBadRequest, "body is required")
		return
	}
	if len(req.Body) > 4096 {
		h.Error(w, http.StatusUnprocessableEntity, "body too long (max 4096 bytes)")
		return
	}

	msg := &models.ChatMessage{
		ThreadID: thread.ID.String(),
		AuthorID: principal.CaregiverID.String(),
		Body:     req.Body,
	}
	if err := h.redis.AddMessage(r.Context(), msg); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	metrics.MessagesPosted.Inc()

	h.JSON(w, http.StatusCreated, MessageResponse{
		ID:        msg.ID,
		AuthorID:  msg.AuthorID,
		Body:      msg.Body,
		Timestamp: msg.Timestamp,
	})
}

// GetThreadMessages returns messages in a thread, newest first, with
// before-cursor pagination.
func (h *Handler) GetThreadMessages(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid thread ID format")
		return
	}

	thread, err := h.pg.GetChatThread(r.Context(), threadID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if thread == nil {
		h.Error(w, http.StatusNotFound, "thread not found")
		return
	}
	if err := h.guard.Authorize(r.Context(), principal, thread.ChildID); err != nil {
		h.DomainError(w, err)
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > 200 {
		limit = 200
	}

	var before int64 = 0
	if beforeStr := r.URL.Query().Get("before"); beforeStr != "" {
		if b, err := strconv.ParseInt(beforeStr, 10, 64); err == nil {
			before = b
		}
	}

	// Fetch +1 for the has_more check
	messages, err := h.redis.GetThreadMessages(r.Context(), thread.ID.String(), limit+1, before)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}

	msgResponses := make([]MessageResponse, len(messages))
	for i, msg := range messages {
		msgResponses[i] = MessageResponse{
			ID:        msg.ID,
			AuthorID:  msg.AuthorID,
			Body:      msg.Body,
			Timestamp: msg.Timestamp,
		}
	}

	h.JSON(w, http.StatusOK, ThreadMessagesResponse{
		Thread: ThreadResponse{
			ID:    thread.ID.String(),
			Title: thread.Title,
		},
		Messages: msgResponses,
		HasMore:  hasMore,
	})
}
