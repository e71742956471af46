// Package deliver posts the finished digest to a chat webhook as an
// interactive card. Delivery is best-effort: failures are reported to the
// caller for logging but never retried, and a run that fails to deliver
// still counts as complete.
package deliver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
)

var itemEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣"}

// Sender posts digest cards to a webhook.
type Sender struct {
	webhookURL string
	client     *http.Client
}

// NewSender creates a sender. An empty webhook URL disables delivery.
func NewSender(webhookURL string) *Sender {
	return &Sender{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// IsConfigured returns whether a webhook URL is set.
func (s *Sender) IsConfigured() bool {
	return s.webhookURL != ""
}

// Send posts the summaries as one interactive card. Some webhook backends
// report application errors as a non-zero code inside an HTTP 200 body;
// those count as failures too.
func (s *Sender) Send(summaries []news.Summary) error {
	if s.webhookURL == "" {
		log.Println("Webhook URL not set, skipping delivery")
		return nil
	}

	payload := BuildCard(summaries, time.Now())
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling card: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}

	var result struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.Code != 0 {
		return fmt.Errorf("webhook API error %d: %s", result.Code, result.Msg)
	}

	log.Printf("Delivered %d items to webhook", len(summaries))
	return nil
}

// Card is the interactive-card payload shape.
type Card struct {
	MsgType string      `json:"msg_type"`
	Card    CardContent `json:"card"`
}

type CardContent struct {
	Header   CardHeader    `json:"header"`
	Elements []CardElement `json:"elements"`
}

type CardHeader struct {
	Title    CardText `json:"title"`
	Template string   `json:"template"`
}

type CardText struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

type CardElement struct {
	Tag  string    `json:"tag"`
	Text *CardText `json:"text,omitempty"`
}

// BuildCard renders the summaries into an interactive card: a dated
// header, then one markdown block per item with its summary, key changes,
// source link and publish time.
func BuildCard(summaries []news.Summary, now time.Time) Card {
	card := Card{
		MsgType: "interactive",
		Card: CardContent{
			Header: CardHeader{
				Title:    CardText{Tag: "plain_text", Content: "\U0001f916 AI News Digest | " + now.Format("2006-01-02")},
				Template: "blue",
			},
		},
	}

	for i, item := range summaries {
		if i > 0 {
			card.Card.Elements = append(card.Card.Elements, CardElement{Tag: "hr"})
		}

		num := fmt.Sprintf("%d.", i+1)
		if i < len(itemEmojis) {
			num = itemEmojis[i]
		}

		url := item.URL
		if url == "" {
			url = "#"
		}
		sourceName := item.SourceName
		if sourceName == "" {
			sourceName = "Unknown Source"
		}

		content := fmt.Sprintf("**%s %s**\n\n%s", num, item.Title, item.Summary)
		if len(item.KeyChanges) > 0 {
			content += "\n**Key changes:**"
			for _, change := range item.KeyChanges {
				content += "\n- " + change
			}
		}
		content += fmt.Sprintf("\n\nSource: [%s](%s)", sourceName, url)
		if item.PublishDate != "" {
			content += "\nPublished: " + item.PublishDate
		}

		card.Card.Elements = append(card.Card.Elements, CardElement{
			Tag:  "div",
			Text: &CardText{Tag: "lark_md", Content: content},
		})
	}

	return card
}
