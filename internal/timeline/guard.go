package timeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/seawatts/nugget-sub007/internal/models"
)

// Principal is the resolved identity of the requesting caregiver,
// threaded explicitly through the request instead of read from ambient
// session state.
type Principal struct {
	CaregiverID uuid.UUID
	FamilyID    uuid.UUID
}

// childLookup is the single store read the guard needs.
type childLookup interface {
	GetChildInFamily(ctx context.Context, childID, familyID uuid.UUID) (*models.Child, error)
}

// Guard enforces the family-scope authorization boundary. It runs once,
// before any source fetch; sources trust it and do not re-check scope.
type Guard struct {
	store childLookup
}

// NewGuard creates a Guard over the given store.
func NewGuard(s childLookup) *Guard {
	return &Guard{store: s}
}

// Authorize confirms the principal's family owns the child. A missing
// child and a child owned by another family fail identically with
// ErrAuthorizationDenied, so existence never leaks across families.
func (g *Guard) Authorize(ctx context.Context, principal *Principal, childID uuid.UUID) error {
	if principal == nil || principal.FamilyID == uuid.Nil {
		return ErrAuthenticationRequired
	}

	child, err := g.store.GetChildInFamily(ctx, childID, principal.FamilyID)
	if err != nil {
		return fmt.Errorf("child lookup: %w", err)
	}
	if child == nil {
		return ErrAuthorizationDenied
	}
	return nil
}
