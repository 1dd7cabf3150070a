package timeline

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size when the caller does not supply one.
	DefaultLimit = 30
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// RawQuery is unvalidated caller input, as it arrives off the wire.
type RawQuery struct {
	ChildID       string
	Cursor        string
	Limit         string
	Kinds         []string
	ActivityTypes []string
	ActorIDs      []string
}

// Query is a validated, bounded timeline request descriptor.
type Query struct {
	ChildID uuid.UUID

	// Cursor is an exclusive upper bound: only items strictly older than
	// it are returned. Nil means "from the top of the feed". Items that
	// share the exact boundary timestamp across a page break are skipped;
	// the cursor is a plain timestamp, not a (timestamp, id) pair.
	Cursor *time.Time

	// Limit is clamped to [1, MaxLimit].
	Limit int

	// Kinds is the normalized, deduplicated kind filter. Nil means all.
	Kinds []Kind

	// ActivityTypes and ActorIDs narrow the activity source only. Empty
	// slices are normalized to nil ("no filter").
	ActivityTypes []string
	ActorIDs      []string
}

// ParseQuery validates and normalizes raw caller input. It has no side
// effects.
func ParseQuery(raw RawQuery) (Query, error) {
	q := Query{Limit: DefaultLimit}

	if raw.ChildID == "" {
		return Query{}, &ValidationError{Field: "childId", Reason: "required"}
	}
	childID, err := uuid.Parse(raw.ChildID)
	if err != nil {
		return Query{}, &ValidationError{Field: "childId", Reason: "must be a UUID"}
	}
	q.ChildID = childID

	if raw.Cursor != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw.Cursor)
		if err != nil {
			return Query{}, &ValidationError{Field: "cursor", Reason: "must be an ISO-8601 instant"}
		}
		q.Cursor = &ts
	}

	if raw.Limit != "" {
		n, err := strconv.Atoi(raw.Limit)
		if err != nil {
			return Query{}, &ValidationError{Field: "limit", Reason: "must be an integer"}
		}
		q.Limit = clampLimit(n)
	}

	if len(raw.Kinds) > 0 {
		seen := make(map[Kind]bool, len(raw.Kinds))
		for _, k := range raw.Kinds {
			kind := Kind(k)
			if !ValidKind(kind) {
				return Query{}, &ValidationError{Field: "itemKinds", Reason: "unknown kind " + strconv.Quote(k)}
			}
			if seen[kind] {
				continue
			}
			seen[kind] = true
			q.Kinds = append(q.Kinds, kind)
		}
	}

	if len(raw.ActivityTypes) > 0 {
		q.ActivityTypes = raw.ActivityTypes
	}
	if len(raw.ActorIDs) > 0 {
		q.ActorIDs = raw.ActorIDs
	}

	return q, nil
}

// WantsKind reports whether the query includes the given kind.
func (q *Query) WantsKind(k Kind) bool {
	if len(q.Kinds) == 0 {
		return true
	}
	for _, kind := range q.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func clampLimit(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
