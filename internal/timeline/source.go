package timeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/seawatts/nugget-sub007/internal/models"
	"github.com/seawatts/nugget-sub007/internal/store"
)

// Source is one record kind's read-only query surface. Fetch returns up
// to limit normalized items strictly older than the query cursor, newest
// first. Every implementation filters by child id even though the guard
// has already run; the scope filter is defense in depth, not a second
// authorization layer.
type Source interface {
	Kind() Kind
	Fetch(ctx context.Context, q Query, limit int) ([]Item, error)
}

// chatFanout bounds the per-thread first-message lookups issued by one
// chat fetch.
const chatFanout = 8

type activityLister interface {
	ListActivities(ctx context.Context, childID uuid.UUID, q store.ActivityQuery) ([]models.Activity, error)
}

type milestoneLister interface {
	ListAchievedMilestones(ctx context.Context, childID uuid.UUID, before *time.Time, limit int) ([]models.Milestone, error)
}

type threadLister interface {
	ListChatThreads(ctx context.Context, childID uuid.UUID, before *time.Time, limit int) ([]models.ChatThread, error)
}

type messageReader interface {
	FirstMessage(ctx context.Context, threadID string) (*models.ChatMessage, error)
}

// ActivitySource reads already-occurred activities. Scheduled entries
// never appear in the historical feed.
type ActivitySource struct {
	store activityLister
}

// NewActivitySource creates the activity record source.
func NewActivitySource(s activityLister) *ActivitySource {
	return &ActivitySource{store: s}
}

func (s *ActivitySource) Kind() Kind { return KindActivity }

func (s *ActivitySource) Fetch(ctx context.Context, q Query, limit int) ([]Item, error) {
	activities, err := s.store.ListActivities(ctx, q.ChildID, store.ActivityQuery{
		Before:   q.Cursor,
		Limit:    limit,
		Types:    q.ActivityTypes,
		ActorIDs: q.ActorIDs,
	})
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(activities))
	for _, a := range activities {
		if item, ok := itemFromActivity(a); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// MilestoneSource reads achieved milestones. Pending milestones are not
// timeline-eligible.
type MilestoneSource struct {
	store milestoneLister
}

// NewMilestoneSource creates the milestone record source.
func NewMilestoneSource(s milestoneLister) *MilestoneSource {
	return &MilestoneSource{store: s}
}

func (s *MilestoneSource) Kind() Kind { return KindMilestone }

func (s *MilestoneSource) Fetch(ctx context.Context, q Query, limit int) ([]Item, error) {
	milestones, err := s.store.ListAchievedMilestones(ctx, q.ChildID, q.Cursor, limit)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(milestones))
	for _, m := range milestones {
		if item, ok := itemFromMilestone(m); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// ChatSource pages threads by creation instant, then fetches each
// candidate thread's oldest message as its feed representative. Threads
// with no messages yield nothing.
type ChatSource struct {
	threads  threadLister
	messages messageReader
}

// NewChatSource creates the chat record source.
func NewChatSource(threads threadLister, messages messageReader) *ChatSource {
	return &ChatSource{threads: threads, messages: messages}
}

func (s *ChatSource) Kind() Kind { return KindChat }

func (s *ChatSource) Fetch(ctx context.Context, q Query, limit int) ([]Item, error) {
	threads, err := s.threads.ListChatThreads(ctx, q.ChildID, q.Cursor, limit)
	if err != nil {
		return nil, err
	}

	// One first-message lookup per candidate thread, bounded fan-out.
	// Results land in a fixed slot per thread so candidate order is kept.
	found := make([]*models.ChatMessage, len(threads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(chatFanout)
	for i, t := range threads {
		g.Go(func() error {
			msg, err := s.messages.FirstMessage(gctx, t.ID.String())
			if err != nil {
				return err
			}
			found[i] = msg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(threads))
	for i, t := range threads {
		item, ok := itemFromThread(t, found[i])
		if !ok {
			continue
		}
		// The anchor is the first message's instant, which can differ
		// from the thread's creation instant the cursor paged on. Keep
		// the exclusive bound honest on the anchor too.
		if q.Cursor != nil && !item.Timestamp.Before(*q.Cursor) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
