package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseQueryDefaults(t *testing.T) {
	childID := uuid.New()

	q, err := ParseQuery(RawQuery{ChildID: childID.String()})
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if q.ChildID != childID {
		t.Fatalf("child id: want=%s got=%s", childID, q.ChildID)
	}
	if q.Limit != DefaultLimit {
		t.Fatalf("limit: want=%d got=%d", DefaultLimit, q.Limit)
	}
	if q.Cursor != nil {
		t.Fatalf("cursor: want=nil got=%v", q.Cursor)
	}
	if q.Kinds != nil {
		t.Fatalf("kinds: want=nil got=%v", q.Kinds)
	}
}

func TestParseQueryChildIDRequired(t *testing.T) {
	cases := []struct {
		name    string
		childID string
	}{
		{"empty", ""},
		{"not a uuid", "abc123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseQuery(RawQuery{ChildID: tc.childID})
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != "childId" {
				t.Fatalf("field: want=childId got=%s", vErr.Field)
			}
		})
	}
}

func TestParseQueryCursor(t *testing.T) {
	childID := uuid.New().String()

	q, err := ParseQuery(RawQuery{ChildID: childID, Cursor: "2024-03-01T10:30:00Z"})
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	if q.Cursor == nil || !q.Cursor.Equal(want) {
		t.Fatalf("cursor: want=%v got=%v", want, q.Cursor)
	}

	_, err = ParseQuery(RawQuery{ChildID: childID, Cursor: "yesterday"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for bad cursor, got %v", err)
	}
}

func TestParseQueryLimitClamping(t *testing.T) {
	childID := uuid.New().String()

	cases := []struct {
		raw  string
		want int
	}{
		{"", DefaultLimit},
		{"1", 1},
		{"50", 50},
		{"100", 100},
		{"101", 100},
		{"0", 1},
		{"-5", 1},
	}
	for _, tc := range cases {
		q, err := ParseQuery(RawQuery{ChildID: childID, Limit: tc.raw})
		if err != nil {
			t.Fatalf("ParseQuery(limit=%q): %v", tc.raw, err)
		}
		if q.Limit != tc.want {
			t.Fatalf("limit=%q: want=%d got=%d", tc.raw, tc.want, q.Limit)
		}
	}

	_, err := ParseQuery(RawQuery{ChildID: childID, Limit: "lots"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for non-integer limit, got %v", err)
	}
}

func TestParseQueryKinds(t *testing.T) {
	childID := uuid.New().String()

	q, err := ParseQuery(RawQuery{ChildID: childID, Kinds: []string{"milestone", "activity", "milestone"}})
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if len(q.Kinds) != 2 {
		t.Fatalf("kinds deduped: want=2 got=%d (%v)", len(q.Kinds), q.Kinds)
	}
	if !q.WantsKind(KindMilestone) || !q.WantsKind(KindActivity) {
		t.Fatalf("missing requested kinds: %v", q.Kinds)
	}
	if q.WantsKind(KindChat) {
		t.Fatalf("chat should be filtered out")
	}

	_, err = ParseQuery(RawQuery{ChildID: childID, Kinds: []string{"photo"}})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for unknown kind, got %v", err)
	}
	if vErr.Field != "itemKinds" {
		t.Fatalf("field: want=itemKinds got=%s", vErr.Field)
	}
}

func TestParseQueryEmptyFiltersMeanNoFilter(t *testing.T) {
	q, err := ParseQuery(RawQuery{
		ChildID:       uuid.New().String(),
		ActivityTypes: []string{},
		ActorIDs:      []string{},
	})
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if q.ActivityTypes != nil {
		t.Fatalf("empty activity types should normalize to nil, got %v", q.ActivityTypes)
	}
	if q.ActorIDs != nil {
		t.Fatalf("empty actor ids should normalize to nil, got %v", q.ActorIDs)
	}
	// No kind filter at all means every kind is wanted.
	for _, k := range Kinds {
		if !q.WantsKind(k) {
			t.Fatalf("kind %s should be enabled by default", k)
		}
	}
}
