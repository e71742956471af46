package rank

import (
	"context"
	"testing"
	"time"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/config"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/merge"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/scoring"
)

func newSelector(t *testing.T, windows []int) *Selector {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	merger := merge.New(cfg.Sources, cfg.Ranking.SimilarityThreshold)
	scorer := scoring.New(cfg, nil)
	return New(windows, merger, scorer)
}

// Three stories that all pass the scoring gates, spaced so each larger
// window picks up exactly one more.
func windowedItems(newest time.Time) []news.RawItem {
	return []news.RawItem{
		{
			Title:       "OpenAI launches new model with 128k context window",
			Source:      "OpenAI",
			Link:        "https://openai.com/blog/new-model",
			PublishedAt: newest,
			Summary:     "The model is available through the API today.",
		},
		{
			Title:       "NVIDIA ships inference GPU benchmark update",
			Source:      "Tech Blog",
			Link:        "https://example.com/nvidia",
			PublishedAt: newest.Add(-48 * time.Hour),
			Summary:     "Throughput improved 2x on the same hardware.",
		},
		{
			Title:       "Anthropic releases model weights and benchmark paper",
			Source:      "Anthropic",
			Link:        "https://www.anthropic.com/news/weights",
			PublishedAt: newest.Add(-100 * time.Hour),
			Summary:     "Token throughput numbers included.",
		},
	}
}

func TestSelectExpandsUntilTargetMet(t *testing.T) {
	s := newSelector(t, []int{24, 72, 120})
	newest := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// 24h holds 1 story, 72h holds 2; the search must stop at 72h and
	// never reach the 120h-only story.
	selected := s.Select(context.Background(), windowedItems(newest), 2)
	if len(selected) != 2 {
		t.Fatalf("expected 2 selected, got %d", len(selected))
	}
	for _, item := range selected {
		if item.Source == "Anthropic" {
			t.Error("story outside the winning window was selected")
		}
	}
}

func TestSelectLastWindowKeepsShortfall(t *testing.T) {
	s := newSelector(t, []int{24, 72, 120})
	newest := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Target above total volume: the widest window returns what it has.
	selected := s.Select(context.Background(), windowedItems(newest), 10)
	if len(selected) != 3 {
		t.Errorf("expected all 3 stories under an unreachable target, got %d", len(selected))
	}
}

func TestSelectOrdersByFinalScore(t *testing.T) {
	s := newSelector(t, []int{24, 72, 120})
	newest := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	selected := s.Select(context.Background(), windowedItems(newest), 2)
	if len(selected) != 2 {
		t.Fatalf("expected 2 selected, got %d", len(selected))
	}
	if selected[0].FinalScore < selected[1].FinalScore {
		t.Errorf("results not in descending score order: %f then %f",
			selected[0].FinalScore, selected[1].FinalScore)
	}
	if selected[0].Source != "OpenAI" {
		t.Errorf("top story = %q, want the tier-1 model release", selected[0].Source)
	}
}

func TestSelectAllBypassesFreshness(t *testing.T) {
	s := newSelector(t, []int{24, 72, 120})
	// Timestamps years in the past; bypass mode must rank them anyway.
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	selected := s.SelectAll(context.Background(), windowedItems(old), 5)
	if len(selected) != 3 {
		t.Errorf("bypass mode should score every item, got %d of 3", len(selected))
	}
}

func TestSelectEmpty(t *testing.T) {
	s := newSelector(t, []int{24, 72, 120})
	if got := s.Select(context.Background(), nil, 5); len(got) != 0 {
		t.Errorf("expected nothing from an empty batch, got %d", len(got))
	}
	if got := s.SelectAll(context.Background(), nil, 5); got != nil {
		t.Errorf("expected nil from an empty bypass batch, got %v", got)
	}
}
