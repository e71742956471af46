package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scoring.ClampMultiplier != 5 {
		t.Errorf("clamp multiplier = %d, want 5", cfg.Scoring.ClampMultiplier)
	}
	if cfg.Scoring.RuleWeight != 0.6 || cfg.Scoring.AIWeight != 0.4 {
		t.Errorf("blend weights = %f/%f, want 0.6/0.4", cfg.Scoring.RuleWeight, cfg.Scoring.AIWeight)
	}
	if cfg.Scoring.AICandidates != 20 {
		t.Errorf("AI candidates = %d, want 20", cfg.Scoring.AICandidates)
	}
	if len(cfg.Ranking.WindowsHours) != 3 || cfg.Ranking.WindowsHours[0] != 24 {
		t.Errorf("windows = %v, want [24 72 120]", cfg.Ranking.WindowsHours)
	}
	if cfg.Ranking.TargetCount != 5 {
		t.Errorf("target count = %d, want 5", cfg.Ranking.TargetCount)
	}
	if cfg.Ranking.SimilarityThreshold != 0.7 {
		t.Errorf("similarity threshold = %f, want 0.7", cfg.Ranking.SimilarityThreshold)
	}
	if len(cfg.Sources.Tier1) == 0 || len(cfg.Sources.Tier2) == 0 {
		t.Error("expected a populated feed catalog")
	}
	if cfg.Delivery.WebhookEnv != "DIGEST_WEBHOOK" {
		t.Errorf("webhook env = %q, want DIGEST_WEBHOOK", cfg.Delivery.WebhookEnv)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
ranking:
  target_count: 10
summarization:
  provider: ollama
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Ranking.TargetCount != 10 {
		t.Errorf("target count = %d, want overridden 10", cfg.Ranking.TargetCount)
	}
	if cfg.Summarization.Provider != "ollama" {
		t.Errorf("provider = %q, want ollama", cfg.Summarization.Provider)
	}
	// Untouched sections keep the embedded defaults.
	if cfg.Scoring.ClampMultiplier != 5 {
		t.Errorf("clamp multiplier = %d, want default 5", cfg.Scoring.ClampMultiplier)
	}
	if len(cfg.Sources.Tier1) == 0 {
		t.Error("override wiped the default feed catalog")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestMatchesFeeds(t *testing.T) {
	feeds := []Feed{
		{Name: "OpenAI", URL: "https://openai.com/blog/rss.xml"},
		{Name: "The Verge", URL: "https://www.theverge.com/ai-artificial-intelligence/rss/index.xml"},
	}

	tests := []struct {
		source string
		link   string
		want   bool
	}{
		{"OpenAI", "", true},
		{"openai blog", "", true},
		{"", "https://openai.com/index/gpt-5", true},
		{"", "https://www.theverge.com/2024/some-article", true},
		{"Random Blog", "https://example.com/x", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := MatchesFeeds(feeds, tt.source, tt.link); got != tt.want {
			t.Errorf("MatchesFeeds(%q, %q) = %v, want %v", tt.source, tt.link, got, tt.want)
		}
	}
}

func TestAllFeeds(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := len(cfg.Sources.Tier1) + len(cfg.Sources.Tier2) + len(cfg.Sources.Tier3)
	if got := len(cfg.AllFeeds()); got != want {
		t.Errorf("AllFeeds() returned %d feeds, want %d", got, want)
	}
}
