package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-resume-analyzer/internal/ai"
	"go-resume-analyzer/internal/analyzer"
	"go-resume-analyzer/internal/browser"
	"go-resume-analyzer/internal/config"
	"go-resume-analyzer/internal/database"
	"go-resume-analyzer/internal/pdf"
	"go-resume-analyzer/internal/scraper/linkedin"
	"go-resume-analyzer/internal/server"
	"go-resume-analyzer/internal/session"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	factory, err := ai.NewFactory(ai.Settings{Provider: cfg.AI.Provider, Model: cfg.AI.Model, BaseURL: cfg.AI.BaseURL})
	if err != nil {
		log.Fatalf("❌ Failed to init AI provider: %v", err)
	}

	browserOpts, err := browser.OptionsFromConfig(cfg.Browser)
	if err != nil {
		log.Fatalf("❌ Failed to init browser: %v", err)
	}
	launcher, err := browser.NewLauncher(browserOpts)
	if err != nil {
		log.Fatalf("❌ Failed to init browser: %v", err)
	}
	debugger := browser.NewScreenshotDebugger(cfg.Browser.ScreenshotDir)
	jobs := linkedin.NewLinkedInScraper(launcher, linkedin.DefaultSelectors(), linkedin.OptionsFromConfig(cfg.Search, debugger))

	sessions := session.NewStore(cfg.Server.SessionTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go pruneSessions(ctx, sessions, time.Hour)

	var archive server.Archive
	if cfg.Database.URL != "" {
		repo, err := database.ConnectDB(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer repo.Close()
		if err := repo.Migrate(ctx); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
		archive = repo
		log.Println("🗄️ Archiving searches to Postgres")
	}

	router := server.NewRouter(server.Deps{
		Config:        cfg.Server,
		Sessions:      sessions,
		Analyzer:      analyzer.New(factory, pdf.ExtractText),
		Scraper:       jobs,
		Reports:       pdf.NewReportGenerator(cfg.Browser.ExecPath),
		Archive:       archive,
		DefaultAPIKey: cfg.AI.SharedAPIKey(),
		SearchBaseURL: cfg.Search.BaseURL,
		MaxCount:      cfg.Search.MaxCount,
	})

	log.Printf("🚀 Server listening on port %s (AI: %s, browser: %s)", cfg.Server.Port, cfg.AI.Provider, cfg.Browser.Driver)
	if err := server.Run(ctx, ":"+cfg.Server.Port, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Println("👋 Server stopped")
}

func pruneSessions(ctx context.Context, store *session.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.Prune()
		}
	}
}
