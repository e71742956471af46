// Package merge collapses near-duplicate raw items into one record per
// story. Clustering is greedy single-link against a fixed seed: the newest
// unclustered item seeds a cluster and every remaining item whose title is
// similar enough to the seed joins it. Membership is always tested against
// the original seed, not against members added later; two items similar to
// the seed but not to each other still merge. That approximation is
// intentional and must not be tightened to transitive closure without
// revisiting the pipeline's behavior.
package merge

import (
	"log"
	"sort"
	"strings"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/config"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
)

const DefaultSimilarityThreshold = 0.7

// Engine clusters raw items by title similarity and picks a canonical
// representative per cluster by source authority.
type Engine struct {
	sources   config.Sources
	threshold float64
}

// New creates a merge engine. A non-positive threshold falls back to the
// default.
func New(sources config.Sources, threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Engine{sources: sources, threshold: threshold}
}

// Merge clusters the items and returns one merged record per cluster.
// Clusters partition the input: every item lands in exactly one cluster.
func (e *Engine) Merge(items []news.RawItem) []news.MergedItem {
	if len(items) == 0 {
		return nil
	}

	// Newest first, so the most recent report seeds each cluster.
	queue := make([]news.RawItem, len(items))
	copy(queue, items)
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].PublishedAt.After(queue[j].PublishedAt)
	})

	var merged []news.MergedItem
	for len(queue) > 0 {
		seed := queue[0]
		group := []news.RawItem{seed}

		remaining := queue[:0:0]
		for _, item := range queue[1:] {
			if Ratio(seed.Title, item.Title) > e.threshold {
				group = append(group, item)
			} else {
				remaining = append(remaining, item)
			}
		}
		queue = remaining

		merged = append(merged, e.buildMerged(group))
	}

	log.Printf("Merge complete: %d clusters from %d items", len(merged), len(items))
	return merged
}

func (e *Engine) buildMerged(group []news.RawItem) news.MergedItem {
	best := group[0]
	bestPrio := e.SourcePriority(best.Source, best.Link)
	for _, item := range group[1:] {
		p := e.SourcePriority(item.Source, item.Link)
		if p < bestPrio || (p == bestPrio && item.PublishedAt.After(best.PublishedAt)) {
			best = item
			bestPrio = p
		}
	}

	maxTime := group[0].PublishedAt
	for _, item := range group[1:] {
		if item.PublishedAt.After(maxTime) {
			maxTime = item.PublishedAt
		}
	}

	m := news.MergedItem{
		Title:         best.Title,
		Link:          best.Link,
		Source:        best.Source,
		PublishedAt:   maxTime,
		OriginalItems: group,
	}

	seenSource := make(map[string]struct{}, len(group))
	seenLink := make(map[string]struct{}, len(group))
	for _, item := range group {
		if _, dup := seenSource[item.Source]; !dup {
			seenSource[item.Source] = struct{}{}
			m.Sources = append(m.Sources, item.Source)
		}
		if _, dup := seenLink[item.Link]; !dup {
			seenLink[item.Link] = struct{}{}
			m.Links = append(m.Links, item.Link)
		}
		m.Summaries = append(m.Summaries, item.Summary)
		m.Contents = append(m.Contents, item.Content)
	}

	return m
}

// SourcePriority ranks a source's authority; lower is better.
// 1 = tier-1 official, 2..N+1 = the configured priority outlets in order,
// N+2 = tier-2 media, N+3 = everything else.
func (e *Engine) SourcePriority(sourceName, link string) int {
	if config.MatchesFeeds(e.sources.Tier1, sourceName, link) {
		return 1
	}

	s := strings.ToLower(sourceName)
	l := strings.ToLower(link)
	for i, outlet := range e.sources.PriorityOutlets {
		outlet = strings.ToLower(outlet)
		if strings.Contains(s, outlet) || strings.Contains(l, outlet+".") {
			return 2 + i
		}
	}

	base := 2 + len(e.sources.PriorityOutlets)
	if config.MatchesFeeds(e.sources.Tier2, sourceName, link) {
		return base
	}
	return base + 1
}
