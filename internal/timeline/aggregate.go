package timeline

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seawatts/nugget-sub007/internal/metrics"
)

// Options tunes the aggregator. Zero values fall back to the defaults.
type Options struct {
	// OverfetchMultiplier scales the per-source fetch size. Taking only
	// `limit` rows from each source before merging could produce a wrong
	// head when one source dominates the true top of the feed, so each
	// source is asked for limit*multiplier rows and the merge is
	// truncated afterwards. This is a correctness-preserving heuristic,
	// not a proof: a source holding more than the overfetch size of rows
	// above the true page boundary can still shadow another source's
	// rows.
	OverfetchMultiplier int

	// OverfetchCap bounds the per-source fetch size regardless of the
	// requested limit.
	OverfetchCap int

	// SourceTimeout bounds each source fetch. The chat source does two
	// round trips per call and is the expected long pole.
	SourceTimeout time.Duration
}

const (
	defaultOverfetchMultiplier = 3
	defaultOverfetchCap        = 1000
	defaultSourceTimeout       = 5 * time.Second
)

// Page is one timeline response. NextCursor is nil when the feed is
// exhausted.
type Page struct {
	Items      []Item  `json:"items"`
	NextCursor *string `json:"next_cursor"`
}

// Aggregator merges the record sources into a single reverse-
// chronological feed. It holds no per-request state; one call is one
// pass.
type Aggregator struct {
	sources []Source
	logger  zerolog.Logger
	opts    Options
}

// NewAggregator creates an Aggregator over the given sources.
func NewAggregator(logger zerolog.Logger, opts Options, sources ...Source) *Aggregator {
	if opts.OverfetchMultiplier < 1 {
		opts.OverfetchMultiplier = defaultOverfetchMultiplier
	}
	if opts.OverfetchCap < 1 {
		opts.OverfetchCap = defaultOverfetchCap
	}
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = defaultSourceTimeout
	}
	return &Aggregator{sources: sources, logger: logger, opts: opts}
}

// Fetch fans out to every source the query enables, merges the results
// by anchor timestamp and returns one page. Query must come from
// ParseQuery and the caller must have passed the Guard. Cancelling ctx
// aborts every in-flight source fetch.
func (a *Aggregator) Fetch(ctx context.Context, q Query) (*Page, error) {
	metrics.TimelineRequests.Inc()

	overfetch := q.Limit * a.opts.OverfetchMultiplier
	if overfetch > a.opts.OverfetchCap {
		overfetch = a.opts.OverfetchCap
	}

	enabled := make([]Source, 0, len(a.sources))
	for _, src := range a.sources {
		if q.WantsKind(src.Kind()) {
			enabled = append(enabled, src)
		}
	}

	// Fan out: each source writes its own slot, no shared mutable state.
	results := make([][]Item, len(enabled))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range enabled {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, a.opts.SourceTimeout)
			defer cancel()

			start := time.Now()
			items, err := src.Fetch(fetchCtx, q, overfetch)
			metrics.TimelineSourceDuration.WithLabelValues(string(src.Kind())).Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.TimelineSourceErrors.WithLabelValues(string(src.Kind())).Inc()
				return &SourceFetchError{Kind: src.Kind(), Err: err}
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]Item, 0, overfetch)
	for _, items := range results {
		merged = append(merged, items...)
	}

	// Newest first; ties broken by kind then id so pages are
	// deterministic.
	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Timestamp.Equal(merged[j].Timestamp) {
			return merged[i].Timestamp.After(merged[j].Timestamp)
		}
		if merged[i].Kind != merged[j].Kind {
			return kindRank(merged[i].Kind) < kindRank(merged[j].Kind)
		}
		return merged[i].ID < merged[j].ID
	})

	if len(merged) > q.Limit {
		merged = merged[:q.Limit]
	}

	page := &Page{Items: merged}
	// A full page means more data may remain; a short page is the end of
	// the feed.
	if len(merged) == q.Limit {
		cursor := merged[len(merged)-1].Timestamp.UTC().Format(time.RFC3339Nano)
		page.NextCursor = &cursor
	}

	a.logger.Debug().
		Str("child_id", q.ChildID.String()).
		Int("items", len(merged)).
		Int("overfetch", overfetch).
		Bool("has_more", page.NextCursor != nil).
		Msg("timeline page assembled")

	return page, nil
}
