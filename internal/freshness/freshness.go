// Package freshness selects the recent slice of a raw item batch using a
// self-relative clock: the cutoff is anchored to the newest publish time
// actually observed in the batch, never to the host clock. Feeds are often
// frozen at an earlier date than the machine running the digest, so wall
// time cannot be trusted as a reference point.
package freshness

import (
	"log"
	"time"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
)

// Filter returns the items whose publish time is within the given number of
// hours of the newest item in the batch. Timestamps are normalized to naive
// instants first; items without a timestamp are dropped, they cannot be
// freshness-tested. Output timestamps are canonicalized.
func Filter(items []news.RawItem, hours int) []news.RawItem {
	if len(items) == 0 {
		return nil
	}

	valid := make([]news.RawItem, 0, len(items))
	for _, item := range items {
		if !item.HasTimestamp() {
			continue
		}
		item.PublishedAt = Normalize(item.PublishedAt)
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return nil
	}

	maxTime := valid[0].PublishedAt
	for _, item := range valid[1:] {
		if item.PublishedAt.After(maxTime) {
			maxTime = item.PublishedAt
		}
	}
	cutoff := maxTime.Add(-time.Duration(hours) * time.Hour)

	fresh := make([]news.RawItem, 0, len(valid))
	for _, item := range valid {
		if !item.PublishedAt.Before(cutoff) {
			fresh = append(fresh, item)
		}
	}

	log.Printf("Freshness: newest item %s, %dh window (cutoff %s): %d of %d kept",
		maxTime.Format(time.DateTime), hours, cutoff.Format(time.DateTime), len(fresh), len(items))
	return fresh
}

// Normalize strips the timezone from a timestamp without converting it:
// the wall-clock fields are kept as-is and rebound to UTC. Discarding the
// offset rather than converting avoids mixing instants from feeds that
// report in different zones with different conventions.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
