// Package digest assembles the final markdown digest from per-story
// summaries and archives it.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/database"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
)

// AssembleBody renders the ranked summaries into a markdown digest body.
func AssembleBody(summaries []news.Summary) string {
	if len(summaries) == 0 {
		return "No digest content available for this run."
	}

	var sections []string
	for i, s := range summaries {
		section := fmt.Sprintf("## %d. %s\n\n%s", i+1, s.Title, s.Summary)
		if len(s.KeyChanges) > 0 {
			var bullets []string
			for _, change := range s.KeyChanges {
				bullets = append(bullets, "- "+change)
			}
			section += "\n\n**Key changes:**\n" + strings.Join(bullets, "\n")
		}
		if s.URL != "" {
			name := s.SourceName
			if name == "" {
				name = "source"
			}
			section += fmt.Sprintf("\n\nSource: [%s](%s)", name, s.URL)
		}
		if s.PublishDate != "" {
			section += "\nPublished: " + s.PublishDate
		}
		sections = append(sections, section)
	}

	return strings.Join(sections, "\n\n---\n\n")
}

// Archive stores the digest body and its ranked items under today's run
// date and returns the digest row ID.
func Archive(db *database.DB, runDate string, body string, summaries []news.Summary, scored []news.ScoredItem, delivered bool) (int64, error) {
	digestID, err := db.InsertDigest(runDate, body, len(summaries), delivered)
	if err != nil {
		return 0, err
	}

	// Scored items and summaries share rank order; stores score detail
	// for the items that made the digest.
	for i, s := range summaries {
		item := database.DigestItem{
			DigestID:   digestID,
			Position:   i + 1,
			Title:      s.Title,
			KeyChanges: s.KeyChanges,
		}
		if s.URL != "" {
			item.URL = &s.URL
		}
		if s.SourceName != "" {
			item.Source = &s.SourceName
		}
		if s.Summary != "" {
			summary := s.Summary
			item.Summary = &summary
		}
		if s.PublishDate != "" {
			item.PublishDate = &s.PublishDate
		}
		if i < len(scored) {
			item.RuleScore = scored[i].RuleScore
			item.AIScore = scored[i].AIScore
			item.FinalScore = scored[i].FinalScore
		}
		if _, err := db.InsertDigestItem(item); err != nil {
			return digestID, err
		}
	}

	return digestID, nil
}

// RunDate formats a time as the archive's run-date key.
func RunDate(t time.Time) string {
	return t.Format("2006-01-02")
}
