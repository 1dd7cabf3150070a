package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a logged care event (feeding, sleep, diaper change...).
// StartAt may be null for drafts that were saved before a time was picked;
// such rows never appear in the timeline. Scheduled activities are planned
// future events and are likewise excluded from the historical feed.
type Activity struct {
	ID        uuid.UUID  `json:"id"`
	ChildID   uuid.UUID  `json:"child_id"`
	ActorID   uuid.UUID  `json:"actor_id"`
	Type      string     `json:"type"` // e.g. "feeding", "sleep", "diaper"
	StartAt   *time.Time `json:"start_at,omitempty"`
	EndAt     *time.Time `json:"end_at,omitempty"`
	Scheduled bool       `json:"scheduled"`
	Details   string     `json:"details,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
