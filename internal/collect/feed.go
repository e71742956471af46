package collect

import (
	"log"
	"net/url"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/config"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
)

const maxPerFeed = 20

// FeedParser parses the configured RSS/Atom feeds into raw items.
type FeedParser struct {
	feeds []config.Feed
}

// NewFeedParser creates a new FeedParser.
func NewFeedParser(feeds []config.Feed) *FeedParser {
	return &FeedParser{feeds: feeds}
}

// ParseAll parses all configured feeds. Feeds that fail to parse are
// logged and skipped; one dead feed must not sink the batch.
func (fp *FeedParser) ParseAll() []news.RawItem {
	var all []news.RawItem

	parser := gofeed.NewParser()
	for _, fc := range fp.feeds {
		name := fc.Name
		if name == "" {
			name = extractSourceName(fc.URL)
		}

		items, err := parseFeed(parser, fc.URL, name)
		if err != nil {
			log.Printf("Failed to parse feed %s: %v", fc.URL, err)
			continue
		}
		all = append(all, items...)
		log.Printf("Parsed %d items from %s", len(items), name)
	}

	return all
}

func parseFeed(parser *gofeed.Parser, feedURL, sourceName string) ([]news.RawItem, error) {
	feed, err := parser.ParseURL(feedURL)
	if err != nil {
		return nil, err
	}

	var items []news.RawItem
	for _, entry := range feed.Items {
		if len(items) >= maxPerFeed {
			break
		}
		if item := parseItem(entry, sourceName); item != nil {
			items = append(items, *item)
		}
	}

	return items, nil
}

func parseItem(entry *gofeed.Item, source string) *news.RawItem {
	link := entry.Link
	if link == "" {
		link = entry.GUID
	}
	if link == "" {
		return nil
	}

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return nil
	}

	item := news.RawItem{
		Title:  title,
		Link:   link,
		Source: source,
	}

	switch {
	case entry.PublishedParsed != nil:
		item.PublishedAt = *entry.PublishedParsed
	case entry.UpdatedParsed != nil:
		item.PublishedAt = *entry.UpdatedParsed
	case entry.Published != "":
		// gofeed gave up on the date format; dateparse handles most of
		// the long tail. Items that still fail keep a zero timestamp and
		// are dropped by the freshness filter.
		if t, err := dateparse.ParseAny(entry.Published); err == nil {
			item.PublishedAt = t
		}
	}

	item.Summary = StripHTML(entry.Description)
	if entry.Content != "" {
		item.Content = StripHTML(entry.Content)
	}

	return &item
}

// StripHTML removes tags and decodes the common entities from feed text.
func StripHTML(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			result.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}

	s := result.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")

	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func extractSourceName(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil {
		return feedURL
	}
	host := strings.ToLower(u.Hostname())

	for _, prefix := range []string{"www.", "blog.", "blogs.", "rss.", "feeds."} {
		host = strings.TrimPrefix(host, prefix)
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		name := parts[len(parts)-2]
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return strings.ToUpper(host[:1]) + host[1:]
}
