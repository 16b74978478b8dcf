// Package server exposes resume analysis and job search over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"go-resume-analyzer/internal/analyzer"
	"go-resume-analyzer/internal/config"
	"go-resume-analyzer/internal/models"
	"go-resume-analyzer/internal/pdf"
	"go-resume-analyzer/internal/scraper"
	"go-resume-analyzer/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ReportRenderer turns a session's analyses into a PDF.
type ReportRenderer interface {
	Generate(ctx context.Context, r pdf.Report) ([]byte, error)
}

// Archive stores searches run through the API and serves them back.
// *database.Repository implements it.
type Archive interface {
	ArchiveRun(ctx context.Context, source string, run *models.SearchRun, listings []scraper.EnrichedListing) error
	GetListingByURL(ctx context.Context, url string) (*models.Listing, error)
	RecentListings(ctx context.Context, limit int) ([]models.Listing, error)
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Config   config.ServerConfig
	Sessions *session.Store
	Analyzer *analyzer.Analyzer
	Scraper  scraper.Scraper
	Reports  ReportRenderer
	// Archive is nil when no database is configured; the archive routes
	// are then not registered.
	Archive Archive
	// DefaultAPIKey is used when a summary request carries no key. Empty
	// makes the key mandatory.
	DefaultAPIKey string
	// SearchBaseURL is the job-search page the link generator points at.
	SearchBaseURL string
	MaxCount      int
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(d.Config.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = d.Config.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsCfg))

	if d.Config.MaxUploadMB > 0 {
		r.MaxMultipartMemory = d.Config.MaxUploadMB << 20
	}

	h := &Handler{deps: d}

	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		api.POST("/jobs/search", h.SearchJobs)
		api.POST("/jobs/links", h.SearchLinks)
		if d.Archive != nil {
			api.GET("/jobs/recent", h.RecentJobs)
			api.GET("/jobs/archived", h.ArchivedJob)
		}

		withSession := api.Group("", sessionMiddleware(d.Sessions, d.Config))
		withSession.GET("/session", h.GetSession)
		withSession.DELETE("/session", h.ClearSession)
		withSession.POST("/resume/summary", h.Summary)
		withSession.POST("/resume/strengths", h.Strengths)
		withSession.POST("/resume/weaknesses", h.Weaknesses)
		withSession.POST("/resume/job-titles", h.JobTitles)
		withSession.GET("/resume/report", h.Report)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
