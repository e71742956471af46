// Package fetch pulls full article text for the top-ranked stories before
// summarization. RSS blurbs are often a sentence or two; the readability
// extraction gives the summarizer something substantial to work from.
// Every failure is soft: an item without fetched text falls back to its
// feed summaries.
package fetch

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// Result holds the results of a content fetch run.
type Result struct {
	Fetched int
	Failed  int
}

// ContentFetcher fetches full article text via HTTP + readability
// extraction.
type ContentFetcher struct {
	client *http.Client
}

// NewContentFetcher creates a new content fetcher.
func NewContentFetcher(timeout time.Duration) *ContentFetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ContentFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// FetchAll fetches readable text for each URL, keyed by URL. A domain that
// returns an HTTP error is skipped for the rest of the run; sites that
// block one request will block them all.
func (f *ContentFetcher) FetchAll(urls []string) (map[string]string, *Result) {
	result := &Result{}
	texts := make(map[string]string, len(urls))
	failedDomains := make(map[string]struct{})

	for _, articleURL := range urls {
		u, _ := url.Parse(articleURL)
		domain := ""
		if u != nil {
			domain = strings.ToLower(u.Host)
		}

		if _, failed := failedDomains[domain]; failed {
			result.Failed++
			continue
		}

		content, httpErr := f.fetchArticleContent(articleURL)
		if httpErr != nil {
			result.Failed++
			if domain != "" {
				failedDomains[domain] = struct{}{}
			}
			log.Printf("HTTP error for %s, skipping remaining from %s", articleURL, domain)
			continue
		}

		if content != "" {
			texts[articleURL] = content
			result.Fetched++
		} else {
			result.Failed++
			log.Printf("No extractable content from: %s", articleURL)
		}
	}

	log.Printf("Content fetch complete: %d fetched, %d failed", result.Fetched, result.Failed)
	return texts, result
}

func (f *ContentFetcher) fetchArticleContent(articleURL string) (string, error) {
	req, err := http.NewRequest("GET", articleURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "ainews/1.0 (news digest)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil // connection error, not HTTP error
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &httpError{code: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}

	parsedURL, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(string(bodyBytes)), parsedURL)
	if err != nil {
		return "", nil
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) > 100 {
		return text, nil
	}
	return "", nil
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return http.StatusText(e.code)
}
