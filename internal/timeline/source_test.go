package timeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/seawatts/nugget-sub007/internal/models"
	"github.com/seawatts/nugget-sub007/internal/store"
)

type fakeActivityLister struct {
	activities []models.Activity
	gotChild   uuid.UUID
	gotQuery   store.ActivityQuery
}

func (f *fakeActivityLister) ListActivities(_ context.Context, childID uuid.UUID, q store.ActivityQuery) ([]models.Activity, error) {
	f.gotChild = childID
	f.gotQuery = q
	return f.activities, nil
}

func TestActivitySourcePassesFiltersThrough(t *testing.T) {
	lister := &fakeActivityLister{}
	src := NewActivitySource(lister)

	childID := uuid.New()
	cursor := at(100)
	q := Query{
		ChildID:       childID,
		Cursor:        &cursor,
		ActivityTypes: []string{"feeding", "sleep"},
		ActorIDs:      []string{"actor-1"},
	}

	if _, err := src.Fetch(context.Background(), q, 90); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if lister.gotChild != childID {
		t.Fatalf("child scope: want=%s got=%s", childID, lister.gotChild)
	}
	if lister.gotQuery.Before == nil || !lister.gotQuery.Before.Equal(cursor) {
		t.Fatalf("cursor bound: want=%v got=%v", cursor, lister.gotQuery.Before)
	}
	if lister.gotQuery.Limit != 90 {
		t.Fatalf("limit: want=90 got=%d", lister.gotQuery.Limit)
	}
	if len(lister.gotQuery.Types) != 2 || len(lister.gotQuery.ActorIDs) != 1 {
		t.Fatalf("filters not passed through: %+v", lister.gotQuery)
	}
}

func TestActivitySourceDropsRowsWithoutStart(t *testing.T) {
	start := at(10)
	lister := &fakeActivityLister{activities: []models.Activity{
		{ID: uuid.New(), ChildID: uuid.New(), ActorID: uuid.New(), Type: "feeding", StartAt: &start},
		{ID: uuid.New(), ChildID: uuid.New(), ActorID: uuid.New(), Type: "diaper"}, // no start
	}}
	src := NewActivitySource(lister)

	items, err := src.Fetch(context.Background(), Query{ChildID: uuid.New()}, 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items: want=1 got=%d", len(items))
	}
	if items[0].Activity.Type != "feeding" {
		t.Fatalf("surviving item: want=feeding got=%s", items[0].Activity.Type)
	}
}

type fakeThreadLister struct {
	threads []models.ChatThread
}

func (f *fakeThreadLister) ListChatThreads(_ context.Context, childID uuid.UUID, before *time.Time, limit int) ([]models.ChatThread, error) {
	var out []models.ChatThread
	for _, t := range f.threads {
		if t.ChildID != childID {
			continue
		}
		if before != nil && !t.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeMessageReader struct {
	first map[string]*models.ChatMessage
	err   error
}

func (f *fakeMessageReader) FirstMessage(_ context.Context, threadID string) (*models.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.first[threadID], nil
}

func TestChatSourceRepresentsThreadByFirstMessage(t *testing.T) {
	childID := uuid.New()
	withMsg := models.ChatThread{ID: uuid.New(), ChildID: childID, CreatedAt: at(10)}
	empty := models.ChatThread{ID: uuid.New(), ChildID: childID, CreatedAt: at(20)}

	src := NewChatSource(
		&fakeThreadLister{threads: []models.ChatThread{empty, withMsg}},
		&fakeMessageReader{first: map[string]*models.ChatMessage{
			withMsg.ID.String(): {ID: "01A", ThreadID: withMsg.ID.String(), Body: "hello", Timestamp: at(12).UnixMilli()},
		}},
	)

	items, err := src.Fetch(context.Background(), Query{ChildID: childID}, 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("empty thread must yield nothing: got %d items", len(items))
	}
	if items[0].ID != withMsg.ID.String() {
		t.Fatalf("item id: want=%s got=%s", withMsg.ID, items[0].ID)
	}
	if !items[0].Timestamp.Equal(at(12)) {
		t.Fatalf("anchor should be the message instant: want=%v got=%v", at(12), items[0].Timestamp)
	}
}

func TestChatSourceHonorsCursorOnAnchor(t *testing.T) {
	childID := uuid.New()
	// Thread created before the cursor, but its first message landed at
	// the cursor instant. The exclusive bound must apply to the anchor.
	thread := models.ChatThread{ID: uuid.New(), ChildID: childID, CreatedAt: at(5)}
	cursor := at(12)

	src := NewChatSource(
		&fakeThreadLister{threads: []models.ChatThread{thread}},
		&fakeMessageReader{first: map[string]*models.ChatMessage{
			thread.ID.String(): {ID: "01B", ThreadID: thread.ID.String(), Body: "hey", Timestamp: cursor.UnixMilli()},
		}},
	)

	items, err := src.Fetch(context.Background(), Query{ChildID: childID, Cursor: &cursor}, 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("anchor at the cursor must be excluded, got %v", items)
	}
}

func TestChatSourcePropagatesMessageError(t *testing.T) {
	childID := uuid.New()
	thread := models.ChatThread{ID: uuid.New(), ChildID: childID, CreatedAt: at(5)}
	boom := errors.New("redis down")

	src := NewChatSource(
		&fakeThreadLister{threads: []models.ChatThread{thread}},
		&fakeMessageReader{err: boom},
	)

	_, err := src.Fetch(context.Background(), Query{ChildID: childID}, 10)
	if !errors.Is(err, boom) {
		t.Fatalf("expected message read error, got %v", err)
	}
}
