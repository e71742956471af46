package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources       Sources       `yaml:"sources"`
	Companies     Companies     `yaml:"companies"`
	Keywords      Keywords      `yaml:"keywords"`
	Scoring       Scoring       `yaml:"scoring"`
	Ranking       Ranking       `yaml:"ranking"`
	Summarization Summarization `yaml:"summarization"`
	Delivery      Delivery      `yaml:"delivery"`
	Output        Output        `yaml:"output"`
	Server        Server        `yaml:"server"`
	Logging       Logging       `yaml:"logging"`
}

// Sources holds the tiered feed catalog. Tier 1 are official vendor blogs,
// tier 2 recognized media, tier 3 cautious sources. PriorityOutlets is an
// ordered list of outlet names slotted between tier 1 and tier 2 when
// picking a cluster representative.
type Sources struct {
	Tier1           []Feed     `yaml:"tier1"`
	Tier2           []Feed     `yaml:"tier2"`
	Tier3           []Feed     `yaml:"tier3"`
	PriorityOutlets []string   `yaml:"priority_outlets"`
	APIs            APIsConfig `yaml:"apis"`
}

type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type APIsConfig struct {
	NewsAPI NewsAPIConfig `yaml:"newsapi"`
}

type NewsAPIConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKeyEnv string `yaml:"api_key_env"`
	Query     string `yaml:"query"`
}

// Companies holds the company watchlists that drive the company-tier bonus.
type Companies struct {
	Tier1 []string `yaml:"tier1"`
	Tier2 []string `yaml:"tier2"`
	Tier3 []string `yaml:"tier3"`
}

// Keywords holds every keyword set used by the rule score. All matching is
// case-insensitive substring matching over title + summaries.
type Keywords struct {
	ModelRelease   []string `yaml:"model_release"`
	ModelUpdate    []string `yaml:"model_update"`
	ProductRelease []string `yaml:"product_release"`
	Partnership    []string `yaml:"partnership"`

	// Event is the event-strength gate: an item matching none of these is
	// rejected outright. A bare mention is not news.
	Event []string `yaml:"event"`

	// MarketingFluff rejects hype wording unless a substantiating signal
	// (percentage, multiplier, dollar figure, or Technical keyword) exists.
	MarketingFluff []string `yaml:"marketing_fluff"`
	Technical      []string `yaml:"technical"`

	// LocalRegion + LocalProgram together reject region-only community
	// program stories.
	LocalRegion  []string `yaml:"local_region"`
	LocalProgram []string `yaml:"local_program"`

	// The three landing-signal groups. An item matching none of the three
	// is rejected unless its link is a tier-1 official domain.
	LandingEntry      []string `yaml:"landing_entry"`
	LandingTechnical  []string `yaml:"landing_technical"`
	LandingCommercial []string `yaml:"landing_commercial"`
}

// Scoring holds the calibration constants of the scoring engine. The clamp
// multiplier and blend weights are tuned values with no derivation, kept
// configurable on purpose.
type Scoring struct {
	TypeModelRelease   int `yaml:"type_model_release"`
	TypeModelUpdate    int `yaml:"type_model_update"`
	TypeProductRelease int `yaml:"type_product_release"`
	TypePartnership    int `yaml:"type_partnership"`

	CompanyTier1   int `yaml:"company_tier1"`
	CompanyTier2   int `yaml:"company_tier2"`
	CompanyTier3   int `yaml:"company_tier3"`
	CompanyUnknown int `yaml:"company_unknown"`

	SourceTier1 int `yaml:"source_tier1"`
	SourceTier2 int `yaml:"source_tier2"`

	TechnicalBonus int `yaml:"technical_bonus"`

	ClampMultiplier int     `yaml:"clamp_multiplier"`
	RuleWeight      float64 `yaml:"rule_weight"`
	AIWeight        float64 `yaml:"ai_weight"`
	AICandidates    int     `yaml:"ai_candidates"`
	NeutralAIScore  int     `yaml:"neutral_ai_score"`
}

type Ranking struct {
	WindowsHours        []int   `yaml:"windows_hours"`
	TargetCount         int     `yaml:"target_count"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

type Summarization struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	OllamaURL   string `yaml:"ollama_url"`
	OpenAIModel string `yaml:"openai_model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	MaxTokens   int    `yaml:"max_tokens"`
	TopN        int    `yaml:"top_n"`
}

type Delivery struct {
	WebhookEnv string `yaml:"webhook_env"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for ainews.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "ainews")
}

// DataDir returns the XDG data directory for ainews.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "ainews")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/ainews/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'ainews init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	return parse(nil)
}

// parse parses YAML bytes into a Config. The embedded default.yaml is
// applied first so a partial user config only overrides what it names.
func parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(DefaultConfigYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing built-in defaults: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if cfg.Scoring.ClampMultiplier <= 0 {
		cfg.Scoring.ClampMultiplier = 5
	}
	if cfg.Scoring.RuleWeight == 0 && cfg.Scoring.AIWeight == 0 {
		cfg.Scoring.RuleWeight = 0.6
		cfg.Scoring.AIWeight = 0.4
	}
	if cfg.Scoring.AICandidates <= 0 {
		cfg.Scoring.AICandidates = 20
	}
	if cfg.Scoring.NeutralAIScore <= 0 {
		cfg.Scoring.NeutralAIScore = 50
	}
	if len(cfg.Ranking.WindowsHours) == 0 {
		cfg.Ranking.WindowsHours = []int{24, 72, 120}
	}
	if cfg.Ranking.TargetCount <= 0 {
		cfg.Ranking.TargetCount = 5
	}
	if cfg.Ranking.SimilarityThreshold <= 0 {
		cfg.Ranking.SimilarityThreshold = 0.7
	}
	if cfg.Summarization.TopN <= 0 {
		cfg.Summarization.TopN = 5
	}
	if cfg.Summarization.MaxTokens <= 0 {
		cfg.Summarization.MaxTokens = 512
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// AllFeeds returns every configured feed across the three tiers.
func (c *Config) AllFeeds() []Feed {
	feeds := make([]Feed, 0, len(c.Sources.Tier1)+len(c.Sources.Tier2)+len(c.Sources.Tier3))
	feeds = append(feeds, c.Sources.Tier1...)
	feeds = append(feeds, c.Sources.Tier2...)
	feeds = append(feeds, c.Sources.Tier3...)
	return feeds
}

// MatchesFeeds reports whether a source name or link matches any feed in
// the list: name substring (case-insensitive) on the source, or same host
// as the feed URL on the link.
func MatchesFeeds(feeds []Feed, sourceName, link string) bool {
	s := strings.ToLower(sourceName)
	for _, f := range feeds {
		if f.Name != "" && strings.Contains(s, strings.ToLower(f.Name)) {
			return true
		}
		if f.URL != "" && feedHostMatches(f.URL, link) {
			return true
		}
	}
	return false
}

// feedHostMatches compares hosts instead of raw URL prefixes so article
// links that do not share the feed path still match their feed's domain.
func feedHostMatches(feedURL, link string) bool {
	fh := hostOf(feedURL)
	lh := hostOf(link)
	if fh == "" || lh == "" {
		return false
	}
	return fh == lh || strings.HasSuffix(lh, "."+fh) || strings.HasSuffix(fh, "."+lh)
}

func hostOf(raw string) string {
	raw = strings.ToLower(raw)
	raw = strings.TrimPrefix(raw, "https://")
	raw = strings.TrimPrefix(raw, "http://")
	if i := strings.IndexAny(raw, "/?"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimPrefix(raw, "www.")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
