package collect

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/araddon/dateparse"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
)

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPIClient fetches supplementary articles from NewsAPI.
type NewsAPIClient struct {
	apiKey string
	client *http.Client
}

// NewNewsAPIClient creates a new NewsAPI client.
func NewNewsAPIClient(apiKeyEnv string) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey: os.Getenv(apiKeyEnv),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// IsConfigured returns whether the API key is available.
func (c *NewsAPIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// Search searches for articles matching a query within the last daysBack
// days and returns them as raw items.
func (c *NewsAPIClient) Search(query string, daysBack, pageSize int) []news.RawItem {
	if c.apiKey == "" {
		log.Println("NewsAPI not configured, skipping search")
		return nil
	}

	if daysBack <= 0 {
		daysBack = 7
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}

	params := url.Values{
		"q":        {query},
		"from":     {time.Now().AddDate(0, 0, -daysBack).Format("2006-01-02")},
		"to":       {time.Now().Format("2006-01-02")},
		"sortBy":   {"publishedAt"},
		"language": {"en"},
		"pageSize": {fmt.Sprint(pageSize)},
	}

	req, err := http.NewRequest("GET", newsAPIBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("NewsAPI request failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("NewsAPI returned %d", resp.StatusCode)
		return nil
	}

	var result struct {
		Status   string `json:"status"`
		Articles []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
			Description string `json:"description"`
			Content     string `json:"content"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("NewsAPI decode failed: %v", err)
		return nil
	}

	var items []news.RawItem
	for _, a := range result.Articles {
		if a.URL == "" || a.Title == "" {
			continue
		}
		item := news.RawItem{
			Title:   a.Title,
			Link:    a.URL,
			Source:  a.Source.Name,
			Summary: a.Description,
			Content: a.Content,
		}
		if t, err := dateparse.ParseAny(a.PublishedAt); err == nil {
			item.PublishedAt = t
		}
		items = append(items, item)
	}
	return items
}
