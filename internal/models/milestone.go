package models

import (
	"time"

	"github.com/google/uuid"
)

// Milestone is a developmental milestone tracked for a child. AchievedAt is
// null while the milestone is still pending/expected; only achieved
// milestones are timeline-eligible.
type Milestone struct {
	ID         uuid.UUID  `json:"id"`
	ChildID    uuid.UUID  `json:"child_id"`
	Title      string     `json:"title"`
	Category   string     `json:"category"` // e.g. "motor", "language", "social"
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
