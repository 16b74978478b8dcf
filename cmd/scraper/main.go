package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-resume-analyzer/internal/browser"
	"go-resume-analyzer/internal/config"
	"go-resume-analyzer/internal/database"
	"go-resume-analyzer/internal/dedup"
	"go-resume-analyzer/internal/scraper"
	"go-resume-analyzer/internal/scraper/linkedin"
	"go-resume-analyzer/internal/telegram"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	titles := flag.String("titles", "", "comma-separated job titles, e.g. \"Data Scientist, AI Engineer\"")
	location := flag.String("location", "", "location to match (empty matches all)")
	count := flag.Int("count", 5, "number of listings to collect")
	timeFilter := flag.String("time", "", "posted within: 24h, week, month (empty for any time)")
	notify := flag.Bool("notify", false, "send new listings to Telegram")
	archive := flag.Bool("archive", false, "archive the run in Postgres (DATABASE_URL)")
	flag.Parse()

	//load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	criteria, err := scraper.ParseCriteria(*titles, *location, *count)
	if err != nil {
		log.Fatalf("❌ Invalid search: %v", err)
	}
	within, err := scraper.ParsePostedWithin(*timeFilter)
	if err != nil {
		log.Fatalf("❌ Invalid search: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newScraper(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to init scraper: %v", err)
	}

	log.Printf("🚀 Searching %s for %v in %q (%s), want %d", s.Name(), criteria.Titles(), criteria.Location, within.Label(), criteria.Count)
	result, searchErr := s.Search(ctx, criteria, within)
	if searchErr != nil {
		log.Printf("❌ Search failed: %v", searchErr)
		if result == nil {
			os.Exit(1)
		}
		log.Printf("⚠️ Keeping %d listings enriched before the failure", len(result.Listings))
	}
	if result.TimedOut {
		log.Printf("⏱️ Run timeout reached: %d of %d listings", len(result.Listings), criteria.Count)
	}

	if err := scraper.Render(os.Stdout, result.Listings); err != nil {
		log.Printf("⚠️ Failed to print listings: %v", err)
	}
	saveListings(cfg.LogPath, result.Listings)

	if *notify {
		notifyTelegram(cfg, s.Name(), result, searchErr)
	}
	if *archive {
		archiveRun(ctx, cfg, s.Name(), criteria, within, result)
	}

	if searchErr != nil {
		os.Exit(1)
	}
	log.Println("🏁 Execution finished.")
}

func newScraper(cfg *config.Config) (*linkedin.LinkedInScraper, error) {
	opts, err := browser.OptionsFromConfig(cfg.Browser)
	if err != nil {
		return nil, err
	}
	if len(opts.Cookies) > 0 {
		log.Printf("🍪 Loaded %d cookies", len(opts.Cookies))
	}
	launcher, err := browser.NewLauncher(opts)
	if err != nil {
		return nil, err
	}
	debugger := browser.NewScreenshotDebugger(cfg.Browser.ScreenshotDir)
	return linkedin.NewLinkedInScraper(launcher, linkedin.DefaultSelectors(), linkedin.OptionsFromConfig(cfg.Search, debugger)), nil
}

func notifyTelegram(cfg *config.Config, source string, result *scraper.Result, searchErr error) {
	if !cfg.Telegram.Enabled() {
		log.Println("⚠️ -notify set but TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID are missing")
		return
	}
	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("❌ Failed to init Telegram Bot: %v", err)
		return
	}
	log.Println("🤖 Telegram Bot initialized.")

	if searchErr != nil {
		if err := bot.SendError(searchErr); err != nil {
			log.Printf("⚠️ Failed to send error to Telegram: %v", err)
		}
	}

	cache := dedup.NewSeenCache(cfg.CachePath, dedup.DefaultMaxAge)
	unseen := cache.Unseen(result.Listings)
	log.Printf("🔍 Deduplication: %d total -> %d unseen listings", len(result.Listings), len(unseen))

	var sent []string
	for _, l := range unseen {
		if err := bot.SendListing(l, source); err != nil {
			log.Printf("⚠️ Failed to send listing to Telegram: %v", err)
			continue
		}
		sent = append(sent, l.URL)
		//1 second delay to avoid 429
		time.Sleep(1 * time.Second)
	}
	// only what actually went out counts as seen
	cache.Add(sent)

	statusMsg := fmt.Sprintf("✅ %d listings matched, sent %d new.", len(result.Listings), len(sent))
	if result.Empty() {
		statusMsg = scraper.NoMatchesMessage
	}
	if err := bot.SendStatus(statusMsg); err != nil {
		log.Printf("⚠️ Failed to send status to Telegram: %v", err)
	}
}

func archiveRun(ctx context.Context, cfg *config.Config, source string, c scraper.SearchCriteria, within scraper.PostedWithin, result *scraper.Result) {
	if cfg.Database.URL == "" {
		log.Println("⚠️ -archive set but DATABASE_URL is missing")
		return
	}
	// the search context may already be cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	repo, err := database.ConnectDB(ctx, cfg.Database.URL)
	if err != nil {
		log.Printf("❌ DB connection failed: %v", err)
		return
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		log.Printf("❌ %v", err)
		return
	}
	run := database.NewSearchRun(c, within, result)
	if err := repo.ArchiveRun(ctx, source, run, result.Listings); err != nil {
		log.Printf("❌ Failed to archive run: %v", err)
		return
	}
	log.Printf("🗄️ Archived run %s with %d listings", run.ID, len(result.Listings))
}

func saveListings(logDir string, listings []scraper.EnrichedListing) {
	if len(listings) == 0 {
		log.Println("ℹ️ No listings to save.")
		return
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}

	//gen filename: job-search-YYYY-MM-DD.json
	filename := fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(logDir, filename)

	data, err := json.MarshalIndent(listings, "", " ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal listings to JSON: %v", err)
		return
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write logs file: %v", err)
		return
	}

	log.Printf("📁 Results saved to %s", filePath)
}
