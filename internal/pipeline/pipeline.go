// Package pipeline orchestrates the 6-step digest run: collect, rank,
// fetch, summarize, deliver, archive.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/collect"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/config"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/database"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/deliver"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/digest"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/fetch"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/llm"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/merge"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/news"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/rank"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/scoring"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	RunDate string
	Steps   []StepResult
}

// Options controls a single pipeline run.
type Options struct {
	// SkipFreshness disables the time-window filter so old items can be
	// ranked, for backfills and testing.
	SkipFreshness bool
	// Target overrides the configured number of stories to select when
	// positive.
	Target int
}

// Pipeline wires the stages together for one digest run.
type Pipeline struct {
	cfg      *config.Config
	db       *database.DB
	provider llm.Provider
}

// New creates a new pipeline.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	summ := cfg.Summarization
	provider := llm.CreateProvider(
		summ.Provider,
		summ.Model,
		summ.OllamaURL,
		summ.OpenAIModel,
		summ.BaseURL,
		summ.APIKeyEnv,
	)
	return &Pipeline{cfg: cfg, db: db, provider: provider}
}

// Run executes the full pipeline. An empty feed harvest ends the run
// cleanly after the collect step.
func (p *Pipeline) Run(ctx context.Context, opts Options) *Result {
	runDate := digest.RunDate(time.Now())
	r := &Result{RunDate: runDate}

	target := p.cfg.Ranking.TargetCount
	if opts.Target > 0 {
		target = opts.Target
	}

	// Step 1: Collect
	log.Println("Step 1/6: Collecting news...")
	raw, collectResult := collect.NewCollector(p.cfg).Collect()
	r.Steps = append(r.Steps, StepResult{
		Name:    "Collect",
		Summary: fmt.Sprintf("Found %d items from %d sources", collectResult.TotalFound, len(collectResult.Sources)),
	})
	if len(raw) == 0 {
		log.Println("No news collected, nothing to do")
		return r
	}

	// Step 2: Rank
	log.Println("Step 2/6: Ranking...")
	scored := p.runRank(ctx, raw, target, opts.SkipFreshness)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Rank",
		Summary: fmt.Sprintf("Selected %d of %d items", len(scored), len(raw)),
	})
	if len(scored) == 0 {
		log.Println("No items survived ranking, nothing to do")
		return r
	}

	// Step 3: Fetch content
	log.Println("Step 3/6: Fetching article content...")
	topN := p.cfg.Summarization.TopN
	if topN > len(scored) {
		topN = len(scored)
	}
	var urls []string
	for _, item := range scored[:topN] {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	contents, fetchResult := fetch.NewContentFetcher(15 * time.Second).FetchAll(urls)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Fetch",
		Summary: fmt.Sprintf("Fetched %d articles, %d failed", fetchResult.Fetched, fetchResult.Failed),
	})

	// Step 4: Summarize
	log.Println("Step 4/6: Summarizing...")
	summaries, kept := p.runSummarize(ctx, scored[:topN], contents)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Summarize",
		Summary: fmt.Sprintf("Summarized %d items, dropped %d", len(summaries), topN-len(summaries)),
	})
	if len(summaries) == 0 {
		log.Println("No usable summaries, nothing to deliver")
		return r
	}

	// Step 5: Deliver
	delivered := false
	log.Println("Step 5/6: Delivering...")
	sender := deliver.NewSender(os.Getenv(p.cfg.Delivery.WebhookEnv))
	if err := sender.Send(summaries); err != nil {
		// Delivery failures are logged, never retried.
		log.Printf("Delivery failed: %v", err)
		r.Steps = append(r.Steps, StepResult{Name: "Deliver", Err: err})
	} else {
		delivered = sender.IsConfigured()
		r.Steps = append(r.Steps, StepResult{
			Name:    "Deliver",
			Summary: fmt.Sprintf("Delivered %d items", len(summaries)),
		})
	}

	// Step 6: Archive
	log.Println("Step 6/6: Archiving digest...")
	body := digest.AssembleBody(summaries)
	if _, err := digest.Archive(p.db, runDate, body, summaries, kept, delivered); err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Archive", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Archive",
		Summary: fmt.Sprintf("Archived digest %s with %d items", runDate, len(summaries)),
	})

	return r
}

func (p *Pipeline) runRank(ctx context.Context, raw []news.RawItem, target int, skipFreshness bool) []news.ScoredItem {
	merger := merge.New(p.cfg.Sources, p.cfg.Ranking.SimilarityThreshold)
	oracle := llm.NewScoreOracle(p.provider, p.cfg.Scoring.NeutralAIScore)
	scorer := scoring.New(p.cfg, oracle)
	selector := rank.New(p.cfg.Ranking.WindowsHours, merger, scorer)

	if skipFreshness {
		return selector.SelectAll(ctx, raw, target)
	}
	return selector.Select(ctx, raw, target)
}

// runSummarize summarizes the top items in rank order. Items whose
// summarization fails outright are dropped; the returned scored slice
// stays aligned with the summaries.
func (p *Pipeline) runSummarize(ctx context.Context, scored []news.ScoredItem, contents map[string]string) ([]news.Summary, []news.ScoredItem) {
	summarizer := llm.NewSummarizer(p.provider, p.cfg.Summarization.MaxTokens)

	var summaries []news.Summary
	var kept []news.ScoredItem
	for _, item := range scored {
		summary, err := summarizer.Summarize(ctx, item.MergedItem, contents[item.Link])
		if err != nil {
			log.Printf("Dropping %q: %v", item.Title, err)
			continue
		}
		summaries = append(summaries, summary)
		kept = append(kept, item)
	}
	return summaries, kept
}

// DryRun reports what a run would do without collecting or delivering.
func (p *Pipeline) DryRun() *Result {
	runDate := digest.RunDate(time.Now())
	r := &Result{RunDate: runDate}

	feeds := p.cfg.AllFeeds()
	r.Steps = append(r.Steps, StepResult{
		Name:    "Collect",
		Summary: fmt.Sprintf("[dry-run] Would poll %d feeds", len(feeds)),
	})
	r.Steps = append(r.Steps, StepResult{
		Name:    "Rank",
		Summary: fmt.Sprintf("[dry-run] Would select top %d via windows %v", p.cfg.Ranking.TargetCount, p.cfg.Ranking.WindowsHours),
	})

	existing, _ := p.db.GetDigest(runDate)
	if existing != nil {
		r.Steps = append(r.Steps, StepResult{
			Name:    "Archive",
			Summary: fmt.Sprintf("[dry-run] Digest already exists for %s", runDate),
		})
	} else {
		r.Steps = append(r.Steps, StepResult{
			Name:    "Archive",
			Summary: fmt.Sprintf("[dry-run] Would archive digest for %s", runDate),
		})
	}

	return r
}
