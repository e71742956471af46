// Package scoring assigns each merged story a rule score and blends the
// strongest candidates with an external AI importance estimate.
//
// Phase 1 is a pure function of the item's text, source and the configured
// company lists: a set of hard-reject gates followed by additive points,
// clamped to [0,100]. Phase 2 sends only the top candidates to the AI
// oracle, bounding cost and latency; everything past the cutoff keeps an
// AI score of zero and pays a structural penalty in the blend.
package scoring

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/config"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/llm"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
)

// oracleWorkers bounds the concurrent AI scoring calls. Results are
// written by candidate index, so ordering never depends on completion
// order.
const oracleWorkers = 4

var (
	percentRe    = regexp.MustCompile(`\d+(\.\d+)?%`)
	multiplierRe = regexp.MustCompile(`\d+(\.\d+)?x\b`)
	dollarRe     = regexp.MustCompile(`\$\d`)
)

// Result holds the results of a scoring run.
type Result struct {
	Scored   int
	Rejected int
	AIScored int
}

// Engine scores merged items.
type Engine struct {
	cfg    *config.Config
	oracle *llm.ScoreOracle
}

// New creates a scoring engine. A nil oracle disables phase 2 blending
// gracefully: candidates then receive the neutral default.
func New(cfg *config.Config, oracle *llm.ScoreOracle) *Engine {
	return &Engine{cfg: cfg, oracle: oracle}
}

// Score applies both phases and returns the surviving items, AI-scored
// candidates first (in descending rule-score order), then the remainder.
// Final ordering is the ranking stage's job, not this one's.
func (e *Engine) Score(ctx context.Context, items []news.MergedItem) ([]news.ScoredItem, Result) {
	r := Result{}

	survivors := make([]news.ScoredItem, 0, len(items))
	for _, item := range items {
		score, rejected := e.RuleScore(item)
		if rejected {
			r.Rejected++
			continue
		}
		survivors = append(survivors, news.ScoredItem{MergedItem: item, RuleScore: score})
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].RuleScore > survivors[j].RuleScore
	})

	candidates := e.cfg.Scoring.AICandidates
	if candidates > len(survivors) {
		candidates = len(survivors)
	}

	e.scoreCandidates(ctx, survivors[:candidates])
	r.AIScored = candidates

	ruleW := e.cfg.Scoring.RuleWeight
	aiW := e.cfg.Scoring.AIWeight
	for i := range survivors {
		if i < candidates {
			survivors[i].FinalScore = float64(survivors[i].RuleScore)*ruleW + float64(survivors[i].AIScore)*aiW
		} else {
			survivors[i].AIScore = 0
			survivors[i].FinalScore = float64(survivors[i].RuleScore) * ruleW
		}
	}

	r.Scored = len(survivors)
	log.Printf("Scoring complete: %d scored (%d AI-scored), %d rejected", r.Scored, r.AIScored, r.Rejected)
	return survivors, r
}

// scoreCandidates fans the oracle calls out over a small worker pool. The
// calls are independent; results land at their candidate's index.
func (e *Engine) scoreCandidates(ctx context.Context, candidates []news.ScoredItem) {
	if len(candidates) == 0 {
		return
	}

	neutral := e.cfg.Scoring.NeutralAIScore
	if e.oracle == nil {
		for i := range candidates {
			candidates[i].AIScore = neutral
		}
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := oracleWorkers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				item := candidates[i]
				candidates[i].AIScore = e.oracle.Score(ctx, item.Title, strings.Join(item.Summaries, " "))
			}
		}()
	}

	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// RuleScore computes the deterministic phase-1 score for an item. The
// second return is true when a hard-reject gate fired; such items carry a
// zero score and are excluded from further processing.
func (e *Engine) RuleScore(item news.MergedItem) (int, bool) {
	text := strings.ToLower(item.Title + " " + strings.Join(item.Summaries, " "))
	kw := e.cfg.Keywords

	// Gate (a): region-only community program stories.
	if containsAny(text, kw.LocalRegion) && containsAny(text, kw.LocalProgram) {
		return 0, true
	}

	// Gate (b): no event-strength keyword, a bare mention is not news.
	if !containsAny(text, kw.Event) {
		return 0, true
	}

	// Gate (c): marketing fluff without a substantiating signal.
	if containsAny(text, kw.MarketingFluff) && !e.substantiated(text) {
		return 0, true
	}

	// Gate (d): no landing signal in any group. Waived for links on a
	// tier-1 official domain.
	if !containsAny(text, kw.LandingEntry) &&
		!containsAny(text, kw.LandingTechnical) &&
		!containsAny(text, kw.LandingCommercial) &&
		!config.MatchesFeeds(e.cfg.Sources.Tier1, "", item.Link) {
		return 0, true
	}

	sc := e.cfg.Scoring
	points := 0

	// News-type bucket, first match wins by precedence.
	switch {
	case containsAny(text, kw.ModelRelease):
		points += sc.TypeModelRelease
	case containsAny(text, kw.ModelUpdate):
		points += sc.TypeModelUpdate
	case containsAny(text, kw.ProductRelease):
		points += sc.TypeProductRelease
	case containsAny(text, kw.Partnership):
		points += sc.TypePartnership
	}

	// Company tier bonus; stories about unlisted companies are actively
	// suppressed, not merely unboosted.
	switch {
	case containsAny(text, e.cfg.Companies.Tier1):
		points += sc.CompanyTier1
	case containsAny(text, e.cfg.Companies.Tier2):
		points += sc.CompanyTier2
	case containsAny(text, e.cfg.Companies.Tier3):
		points += sc.CompanyTier3
	default:
		points += sc.CompanyUnknown
	}

	// Source tier bonus.
	switch {
	case config.MatchesFeeds(e.cfg.Sources.Tier1, item.Source, item.Link):
		points += sc.SourceTier1
	case config.MatchesFeeds(e.cfg.Sources.Tier2, item.Source, item.Link):
		points += sc.SourceTier2
	}

	// Concrete technical detail bonus.
	if e.substantiated(text) {
		points += sc.TechnicalBonus
	}

	score := points * sc.ClampMultiplier
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, false
}

// substantiated reports whether the text carries a concrete signal: a
// percentage, a multiplier, a dollar figure, or a technical keyword.
func (e *Engine) substantiated(text string) bool {
	return percentRe.MatchString(text) ||
		multiplierRe.MatchString(text) ||
		dollarRe.MatchString(text) ||
		containsAny(text, e.cfg.Keywords.Technical)
}

// containsAny reports whether text contains any keyword, case-insensitive.
// text must already be lowercased.
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
