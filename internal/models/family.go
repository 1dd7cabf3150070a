package models

import (
	"time"

	"github.com/google/uuid"
)

// Family is the authorization boundary. Every child and caregiver belongs
// to exactly one family.
type Family struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
