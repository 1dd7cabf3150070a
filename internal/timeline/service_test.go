package timeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/seawatts/nugget-sub007/internal/models"
)

func TestServiceDeniesBeforeFetching(t *testing.T) {
	familyID := uuid.New()
	child := &models.Child{ID: uuid.New(), FamilyID: familyID}

	source := &fakeSource{kind: KindActivity, items: []Item{mkItem(KindActivity, "a1", at(10))}}
	svc := NewService(
		NewGuard(&fakeChildLookup{child: child}),
		newTestAggregator(Options{}, source),
	)

	// Authenticated, but for a different family.
	_, err := svc.Timeline(context.Background(), &Principal{CaregiverID: uuid.New(), FamilyID: uuid.New()}, RawQuery{ChildID: child.ID.String()})
	if !errors.Is(err, ErrAuthorizationDenied) {
		t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
	}
	if source.calls != 0 {
		t.Fatalf("denied request must not touch sources, got %d fetches", source.calls)
	}

	// No principal at all.
	_, err = svc.Timeline(context.Background(), nil, RawQuery{ChildID: child.ID.String()})
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
	if source.calls != 0 {
		t.Fatalf("unauthenticated request must not touch sources")
	}
}

func TestServiceValidatesBeforeAuthorizing(t *testing.T) {
	lookup := &fakeChildLookup{}
	svc := NewService(NewGuard(lookup), newTestAggregator(Options{}))

	_, err := svc.Timeline(context.Background(), &Principal{CaregiverID: uuid.New(), FamilyID: uuid.New()}, RawQuery{ChildID: "nope"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if lookup.queries != 0 {
		t.Fatalf("invalid input must fail before the guard runs")
	}
}

func TestServiceHappyPath(t *testing.T) {
	familyID := uuid.New()
	child := &models.Child{ID: uuid.New(), FamilyID: familyID}

	source := &fakeSource{kind: KindActivity, items: []Item{
		mkItem(KindActivity, "a1", at(10)),
		mkItem(KindActivity, "a2", at(5)),
	}}
	svc := NewService(
		NewGuard(&fakeChildLookup{child: child}),
		newTestAggregator(Options{}, source),
	)

	page, err := svc.Timeline(context.Background(), &Principal{CaregiverID: uuid.New(), FamilyID: familyID}, RawQuery{ChildID: child.ID.String()})
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items: want=2 got=%d", len(page.Items))
	}
	if page.NextCursor != nil {
		t.Fatalf("short page must not carry a cursor")
	}
}
