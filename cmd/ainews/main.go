package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/collect"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/config"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/database"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/pipeline"
	"github.com/yuki-studio/ai-news-daily-notifier/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ainews",
	Short:   "Daily AI news digests",
	Long:    "ainews collects, dedups, scores, and summarizes AI news into a daily digest delivered to a chat webhook.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ainews", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/ainews/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure feeds, the webhook env var, and the LLM provider.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show archive and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Archive:")
		fmt.Printf("  Digests: %d\n", stats.DigestCount)
		fmt.Printf("  Delivered: %d\n", stats.DeliveredCount)
		fmt.Printf("  Stored items: %d\n", stats.ItemCount)
		if stats.LatestRunDate != "" {
			fmt.Printf("  Latest run: %s\n", stats.LatestRunDate)
		} else {
			fmt.Println("  Latest run: never")
		}

		fmt.Println("\nConfiguration:")
		fmt.Printf("  Feeds: %d\n", len(cfg.AllFeeds()))
		fmt.Printf("  Ranking windows: %v hours\n", cfg.Ranking.WindowsHours)
		fmt.Printf("  Target stories: %d\n", cfg.Ranking.TargetCount)
		if os.Getenv(cfg.Delivery.WebhookEnv) != "" {
			fmt.Printf("  Webhook: configured (%s)\n", cfg.Delivery.WebhookEnv)
		} else {
			fmt.Printf("  Webhook: not set (%s)\n", cfg.Delivery.WebhookEnv)
		}
		return nil
	},
}

// --- collect command ---

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect news from configured sources without ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Collecting news from sources...")

		collector := collect.NewCollector(cfg)
		items, result := collector.Collect()

		fmt.Println("\nCollection complete:")
		fmt.Printf("  Total found: %d\n", result.TotalFound)

		if len(result.Sources) > 0 {
			fmt.Println("\nItems by source:")
			// Sort sources by count descending
			type kv struct {
				key string
				val int
			}
			var sorted []kv
			for k, v := range result.Sources {
				sorted = append(sorted, kv{k, v})
			}
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].val > sorted[j].val })
			for _, s := range sorted {
				fmt.Printf("  %s: %d\n", s.key, s.val)
			}
		}

		withTime := 0
		for _, item := range items {
			if item.HasTimestamp() {
				withTime++
			}
		}
		fmt.Printf("\n%d of %d items carry a publish time.\n", withTime, len(items))
		return nil
	},
}

// --- run command ---

var (
	dryRun        bool
	skipFreshness bool
	targetCount   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: collect -> rank -> fetch -> summarize -> deliver -> archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db)
		ctx := context.Background()

		var result *pipeline.Result
		if dryRun {
			result = pipe.DryRun()
		} else {
			result = pipe.Run(ctx, pipeline.Options{
				SkipFreshness: skipFreshness,
				Target:        targetCount,
			})
		}

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/6: %s\n", i+1, step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}

		if !dryRun {
			fmt.Println("\nPipeline complete! Run 'ainews serve' to browse the archive.")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing")
	runCmd.Flags().BoolVar(&skipFreshness, "skip-freshness", false, "Rank all collected items regardless of age")
	runCmd.Flags().IntVar(&targetCount, "target", 0, "Override the number of stories to select")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Printf("Starting server at http://localhost:%d\n", servePort)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, servePort)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "ainews.db")
	return database.Open(dbPath)
}
