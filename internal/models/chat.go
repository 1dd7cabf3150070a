package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatThread is a per-child discussion thread. The thread row lives in the
// primary store; its messages live in Redis.
type ChatThread struct {
	ID        uuid.UUID `json:"id"`
	ChildID   uuid.UUID `json:"child_id"`
	CreatedBy uuid.UUID `json:"created_by"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is a message stored in a thread's Redis sorted set.
type ChatMessage struct {
	ID        string `json:"id"` // ULID
	ThreadID  string `json:"thread_id"`
	AuthorID  string `json:"author_id"`
	Body      string `json:"body"`
	Timestamp int64  `json:"ts"` // Unix ms
}
