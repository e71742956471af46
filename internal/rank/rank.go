// Package rank drives the expanding-window selection strategy: try the
// narrowest freshness window first and only widen when it cannot fill the
// target count. Narrow windows make fresher, more tightly curated digests;
// wide ones are a fallback, not a default.
package rank

import (
	"context"
	"log"
	"sort"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/freshness"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/merge"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/scoring"
)

// Selector runs filter -> merge -> score over an expanding sequence of
// freshness windows until the target count is met.
type Selector struct {
	windows []int
	merger  *merge.Engine
	scorer  *scoring.Engine
}

// New creates a selector over the given window sequence (hours, ascending).
func New(windows []int, merger *merge.Engine, scorer *scoring.Engine) *Selector {
	if len(windows) == 0 {
		windows = []int{24, 72, 120}
	}
	return &Selector{windows: windows, merger: merger, scorer: scorer}
}

// Select returns the top stories from the raw batch, at most target items,
// ordered by final score descending (stable). The first window that yields
// at least target scored items wins; the last window returns whatever it
// produced. Running out of volume is not a failure.
func (s *Selector) Select(ctx context.Context, raw []news.RawItem, target int) []news.ScoredItem {
	var selected []news.ScoredItem

	for i, hours := range s.windows {
		log.Printf("Trying freshness window: %d hours", hours)

		fresh := freshness.Filter(raw, hours)
		if len(fresh) == 0 {
			log.Printf("No fresh news within %dh", hours)
			continue
		}

		scored := s.mergeAndScore(ctx, fresh)
		if len(scored) >= target {
			log.Printf("Found %d items within %dh window, stopping search", len(scored), hours)
			selected = scored
			break
		}

		log.Printf("Only %d items within %dh window, expanding search", len(scored), hours)
		if i == len(s.windows)-1 {
			selected = scored
		}
	}

	return rankAndSlice(selected, target)
}

// SelectAll is the freshness-bypass mode used for backfill and testing:
// every raw item is treated as fresh and the merge/score pass runs once
// over the full set.
func (s *Selector) SelectAll(ctx context.Context, raw []news.RawItem, target int) []news.ScoredItem {
	if len(raw) == 0 {
		return nil
	}

	items := make([]news.RawItem, len(raw))
	copy(items, raw)
	for i := range items {
		if items[i].HasTimestamp() {
			items[i].PublishedAt = freshness.Normalize(items[i].PublishedAt)
		}
	}

	return rankAndSlice(s.mergeAndScore(ctx, items), target)
}

func (s *Selector) mergeAndScore(ctx context.Context, items []news.RawItem) []news.ScoredItem {
	merged := s.merger.Merge(items)
	scored, _ := s.scorer.Score(ctx, merged)
	return scored
}

// rankAndSlice orders by final score descending, ties keeping their
// relative order, and takes the first target entries.
func rankAndSlice(items []news.ScoredItem, target int) []news.ScoredItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].FinalScore > items[j].FinalScore
	})
	if target > 0 && len(items) > target {
		items = items[:target]
	}
	return items
}
