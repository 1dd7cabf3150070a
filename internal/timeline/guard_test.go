package timeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/seawatts/nugget-sub007/internal/models"
)

type fakeChildLookup struct {
	child   *models.Child
	err     error
	queries int
}

func (f *fakeChildLookup) GetChildInFamily(_ context.Context, childID, familyID uuid.UUID) (*models.Child, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	if f.child != nil && f.child.ID == childID && f.child.FamilyID == familyID {
		return f.child, nil
	}
	return nil, nil
}

func TestGuardNoPrincipal(t *testing.T) {
	lookup := &fakeChildLookup{}
	g := NewGuard(lookup)

	err := g.Authorize(context.Background(), nil, uuid.New())
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
	if lookup.queries != 0 {
		t.Fatalf("no store query should run without a principal, got %d", lookup.queries)
	}
}

func TestGuardNoFamilyScope(t *testing.T) {
	g := NewGuard(&fakeChildLookup{})

	err := g.Authorize(context.Background(), &Principal{CaregiverID: uuid.New()}, uuid.New())
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestGuardDeniesOtherFamily(t *testing.T) {
	ownerFamily := uuid.New()
	child := &models.Child{ID: uuid.New(), FamilyID: ownerFamily}
	g := NewGuard(&fakeChildLookup{child: child})

	// Wrong family is denied the same way a nonexistent child is.
	err := g.Authorize(context.Background(), &Principal{CaregiverID: uuid.New(), FamilyID: uuid.New()}, child.ID)
	if !errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("expected ErrAuthorizationDenied for foreign family, got %v", err)
	}

	err = g.Authorize(context.Background(), &Principal{CaregiverID: uuid.New(), FamilyID: ownerFamily}, uuid.New())
	if !errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("expected ErrAuthorizationDenied for missing child, got %v", err)
	}
}

func TestGuardAllowsOwningFamily(t *testing.T) {
	familyID := uuid.New()
	child := &models.Child{ID: uuid.New(), FamilyID: familyID}
	g := NewGuard(&fakeChildLookup{child: child})

	err := g.Authorize(context.Background(), &Principal{CaregiverID: uuid.New(), FamilyID: familyID}, child.ID)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
}

func TestGuardPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	g := NewGuard(&fakeChildLookup{err: storeErr})

	err := g.Authorize(context.Background(), &Principal{CaregiverID: uuid.New(), FamilyID: uuid.New()}, uuid.New())
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("store failure must not read as a denial")
	}
}
