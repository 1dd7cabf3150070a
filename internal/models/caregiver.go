package models

import (
	"time"

	"github.com/google/uuid"
)

// Caregiver is a registered member of a family (parent, grandparent,
// nanny...). It is the principal attached to authenticated requests.
type Caregiver struct {
	ID           uuid.UUID `json:"id"`
	FamilyID     uuid.UUID `json:"family_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
