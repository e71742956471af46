package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
)

const summaryPrompt = `You are an AI news feed editor extracting high-value information for product managers and developers.

Input news:
Title: %s
Sources: %s
Content summaries:
%s
Full article text (may be empty):
%s

Respond with ONLY this JSON:
{
    "title": "Factual title",
    "summary": "One objective paragraph",
    "key_changes": ["Change 1", "Change 2", "Change 3"],
    "source_name": "Source Name",
    "url": "Original URL"
}

Requirements:
1. Title: [Company/Product] + [Action/Event]. No marketing fluff. Factual.
2. Summary: one paragraph, objective, focused on WHAT happened.
3. key_changes: specific changes only (model name, API change, price change,
   parameter change, feature name). If none found, return an empty list.`

// fallbackSummaryLen bounds the raw RSS text used when the oracle fails.
const fallbackSummaryLen = 200

// Summarizer produces structured summaries for merged items. Oracle
// failures yield a deterministic fallback built from the item's RSS text;
// the fallback carries no key changes, which downstream consumers read as
// a lower-confidence marker.
type Summarizer struct {
	provider  Provider
	maxTokens int
}

// NewSummarizer creates a summarizer.
func NewSummarizer(provider Provider, maxTokens int) *Summarizer {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Summarizer{provider: provider, maxTokens: maxTokens}
}

// maxArticleTextLen bounds the fetched article text included in a prompt.
const maxArticleTextLen = 4000

// Summarize returns a structured summary for the item. fullText is
// optional fetched article body. A non-nil error means the item produced
// nothing usable and should be dropped from the digest; oracle failures do
// not error, they fall back.
func (s *Summarizer) Summarize(ctx context.Context, item news.MergedItem, fullText string) (news.Summary, error) {
	if item.Title == "" {
		return news.Summary{}, fmt.Errorf("item has no title")
	}

	if s.provider == nil {
		return s.fallback(item), nil
	}

	if len(fullText) > maxArticleTextLen {
		fullText = fullText[:maxArticleTextLen] + "..."
	}

	prompt := fmt.Sprintf(summaryPrompt,
		item.Title,
		strings.Join(item.Sources, ", "),
		strings.Join(item.Summaries, "\n"),
		fullText)

	response, err := s.provider.Generate(ctx, prompt, s.maxTokens)
	if err != nil {
		log.Printf("Error generating summary for %q: %v", item.Title, err)
		return s.fallback(item), nil
	}

	parsed := ParseJSONResponse(response)
	if parsed == nil {
		return s.fallback(item), nil
	}

	summary := news.Summary{
		Title:      GetString(parsed, "title", item.Title),
		Summary:    GetString(parsed, "summary", ""),
		KeyChanges: GetStringSlice(parsed, "key_changes"),
		SourceName: GetString(parsed, "source_name", item.Source),
		URL:        GetString(parsed, "url", item.Link),
	}

	// The representative link and source selected at merge time beat
	// whatever the model echoed back.
	if item.Link != "" {
		summary.URL = item.Link
	}
	if item.Source != "" {
		summary.SourceName = item.Source
	}

	if summary.Summary == "" && len(summary.KeyChanges) == 0 {
		return news.Summary{}, fmt.Errorf("summary response had no usable content")
	}
	if !item.PublishedAt.IsZero() {
		summary.PublishDate = item.PublishedAt.Format("2006-01-02")
	}
	return summary, nil
}

// fallback builds the deterministic low-confidence summary from the item's
// own RSS text. KeyChanges stays empty by construction.
func (s *Summarizer) fallback(item news.MergedItem) news.Summary {
	text := ""
	for _, raw := range item.Summaries {
		raw = strings.TrimSpace(raw)
		if raw != "" {
			text = raw
			break
		}
	}
	if len(text) > fallbackSummaryLen {
		text = text[:fallbackSummaryLen] + "..."
	}

	out := news.Summary{
		Title:      item.Title,
		Summary:    text,
		SourceName: item.Source,
		URL:        item.Link,
	}
	if !item.PublishedAt.IsZero() {
		out.PublishDate = item.PublishedAt.Format("2006-01-02")
	}
	return out
}
