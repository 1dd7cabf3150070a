package timeline

import (
	"time"

	"github.com/seawatts/nugget-sub007/internal/metrics"
	"github.com/seawatts/nugget-sub007/internal/models"
)

// Kind discriminates the three item variants in the merged feed.
type Kind string

const (
	KindActivity  Kind = "activity"
	KindChat      Kind = "chat"
	KindMilestone Kind = "milestone"
)

// Kinds lists every feed kind in tie-break order.
var Kinds = []Kind{KindActivity, KindChat, KindMilestone}

// ValidKind reports whether k names a feed kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindActivity, KindChat, KindMilestone:
		return true
	}
	return false
}

// kindRank orders kinds for deterministic tie-breaking when timestamps
// are equal across sources.
func kindRank(k Kind) int {
	switch k {
	case KindActivity:
		return 0
	case KindChat:
		return 1
	default:
		return 2
	}
}

// Item is one entry in the merged feed: a tagged union over the three
// record shapes. Exactly one payload pointer is set, matching Kind.
// Timestamp is the anchor instant that positions the item in the feed.
// Items are request-scoped values built fresh from store reads; they are
// never cached or mutated.
type Item struct {
	Kind      Kind       `json:"kind"`
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Activity  *Activity  `json:"activity,omitempty"`
	Milestone *Milestone `json:"milestone,omitempty"`
	Chat      *Chat      `json:"chat,omitempty"`
}

// Activity is the feed payload for a logged activity. The anchor is the
// activity's start instant.
type Activity struct {
	ActorID string     `json:"actor_id"`
	Type    string     `json:"type"`
	StartAt time.Time  `json:"start_at"`
	EndAt   *time.Time `json:"end_at,omitempty"`
	Details string     `json:"details,omitempty"`
}

// Milestone is the feed payload for an achieved milestone. The anchor is
// the achieved instant.
type Milestone struct {
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	AchievedAt time.Time `json:"achieved_at"`
}

// Chat is the feed payload for a thread, represented by its first
// message. The anchor is the message's creation instant, not the
// thread's.
type Chat struct {
	Title     string    `json:"title,omitempty"`
	MessageID string    `json:"message_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}

// itemFromActivity normalizes an activity row. Rows without a usable
// start instant are dropped: they never reach the feed with a fallback
// timestamp.
func itemFromActivity(a models.Activity) (Item, bool) {
	if a.StartAt == nil || a.StartAt.IsZero() {
		metrics.MalformedRecordsDropped.WithLabelValues(string(KindActivity)).Inc()
		return Item{}, false
	}
	return Item{
		Kind:      KindActivity,
		ID:        a.ID.String(),
		Timestamp: *a.StartAt,
		Activity: &Activity{
			ActorID: a.ActorID.String(),
			Type:    a.Type,
			StartAt: *a.StartAt,
			EndAt:   a.EndAt,
			Details: a.Details,
		},
	}, true
}

// itemFromMilestone normalizes a milestone row. Pending milestones
// (null achieved instant) are dropped.
func itemFromMilestone(m models.Milestone) (Item, bool) {
	if m.AchievedAt == nil || m.AchievedAt.IsZero() {
		metrics.MalformedRecordsDropped.WithLabelValues(string(KindMilestone)).Inc()
		return Item{}, false
	}
	return Item{
		Kind:      KindMilestone,
		ID:        m.ID.String(),
		Timestamp: *m.AchievedAt,
		Milestone: &Milestone{
			Title:      m.Title,
			Category:   m.Category,
			AchievedAt: *m.AchievedAt,
		},
	}, true
}

// itemFromThread normalizes a thread paired with its first message. A
// thread without messages, or whose message carries no usable timestamp,
// yields no item.
func itemFromThread(t models.ChatThread, msg *models.ChatMessage) (Item, bool) {
	if msg == nil {
		return Item{}, false
	}
	if msg.Timestamp <= 0 {
		metrics.MalformedRecordsDropped.WithLabelValues(string(KindChat)).Inc()
		return Item{}, false
	}
	return Item{
		Kind:      KindChat,
		ID:        t.ID.String(),
		Timestamp: time.UnixMilli(msg.Timestamp).UTC(),
		Chat: &Chat{
			Title:     t.Title,
			MessageID: msg.ID,
			AuthorID:  msg.AuthorID,
			Body:      msg.Body,
			SentAt:    time.UnixMilli(msg.Timestamp).UTC(),
		},
	}, true
}
