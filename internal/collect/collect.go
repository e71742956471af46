// Package collect gathers raw news items from the configured RSS feeds
// and, optionally, a NewsAPI search. It is the pipeline's only upstream
// boundary: everything downstream works on the returned batch.
package collect

import (
	"log"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/config"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
)

// Result holds the results of a collection run.
type Result struct {
	TotalFound int
	Sources    map[string]int
}

// Collector orchestrates item collection from RSS feeds and NewsAPI.
type Collector struct {
	feedParser *FeedParser
	newsClient *NewsAPIClient
	newsQuery  string
}

// NewCollector creates a new collector from configuration.
func NewCollector(cfg *config.Config) *Collector {
	c := &Collector{}

	if feeds := cfg.AllFeeds(); len(feeds) > 0 {
		c.feedParser = NewFeedParser(feeds)
	}

	apiCfg := cfg.Sources.APIs.NewsAPI
	if apiCfg.Enabled {
		c.newsClient = NewNewsAPIClient(apiCfg.APIKeyEnv)
		c.newsQuery = apiCfg.Query
		if c.newsQuery == "" {
			c.newsQuery = "artificial intelligence"
		}
	}

	return c
}

// Collect gathers raw items from all configured sources.
func (c *Collector) Collect() ([]news.RawItem, *Result) {
	r := &Result{Sources: make(map[string]int)}
	var items []news.RawItem

	if c.feedParser != nil {
		log.Println("Collecting from RSS feeds...")
		feedItems := c.feedParser.ParseAll()
		items = append(items, feedItems...)
	}

	if c.newsClient != nil && c.newsClient.IsConfigured() {
		log.Println("Collecting from NewsAPI...")
		items = append(items, c.newsClient.Search(c.newsQuery, 7, 100)...)
	}

	for _, item := range items {
		r.Sources[item.Source]++
	}
	r.TotalFound = len(items)

	log.Printf("Collection complete: %d items from %d sources", r.TotalFound, len(r.Sources))
	return items, r
}
