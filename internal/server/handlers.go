package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-resume-analyzer/internal/ai"
	"go-resume-analyzer/internal/analyzer"
	"go-resume-analyzer/internal/database"
	"go-resume-analyzer/internal/models"
	"go-resume-analyzer/internal/pdf"
	"go-resume-analyzer/internal/scraper"
	"go-resume-analyzer/internal/scraper/linkedin"
	"go-resume-analyzer/internal/session"

	"github.com/gin-gonic/gin"
)

var errNotPDF = errors.New("resume must be a .pdf file")

type Handler struct {
	deps Deps
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Resume Analyzer API is running!",
		"status":  "healthy",
	})
}

// ---------------- RESUME ----------------

func (h *Handler) Summary(c *gin.Context) {
	sess := sessionFrom(c)

	fh, err := c.FormFile("resume")
	if err != nil {
		writeError(c, analyzer.ErrMissingInput)
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		writeError(c, errNotPDF)
		return
	}
	file, err := fh.Open()
	if err != nil {
		writeError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	apiKey := c.PostForm("api_key")
	if strings.TrimSpace(apiKey) == "" {
		apiKey = h.deps.DefaultAPIKey
	}

	summary, err := h.deps.Analyzer.Summarize(c.Request.Context(), sess, file, fh.Size, apiKey)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalysisResponse{Kind: "summary", Result: summary})
}

func (h *Handler) Strengths(c *gin.Context) {
	h.followUp(c, "strengths", h.deps.Analyzer.Strengths)
}

func (h *Handler) Weaknesses(c *gin.Context) {
	h.followUp(c, "weaknesses", h.deps.Analyzer.Weaknesses)
}

func (h *Handler) JobTitles(c *gin.Context) {
	h.followUp(c, "job_titles", h.deps.Analyzer.JobTitles)
}

func (h *Handler) followUp(c *gin.Context, kind string, run func(context.Context, *session.Context) (string, error)) {
	out, err := run(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalysisResponse{Kind: kind, Result: out})
}

func (h *Handler) Report(c *gin.Context) {
	report, err := analyzer.Report(sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	report.GeneratedAt = time.Now()

	data, err := h.deps.Reports.Generate(c.Request.Context(), report)
	if err != nil {
		writeError(c, fmt.Errorf("render report: %w", err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="resume-analysis.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// ---------------- SESSION ----------------

func (h *Handler) GetSession(c *gin.Context) {
	sess := sessionFrom(c)
	snap := sess.Snapshot()
	c.JSON(http.StatusOK, SessionResponse{
		ID:            sess.ID,
		HasResume:     snap.HasResume(),
		HasStrengths:  snap.Strengths != "",
		HasWeaknesses: snap.Weaknesses != "",
		HasJobTitles:  snap.JobTitles != "",
	})
}

func (h *Handler) ClearSession(c *gin.Context) {
	h.deps.Sessions.Delete(sessionFrom(c).ID)
	clearSessionCookie(c, h.deps.Config)
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// ---------------- JOBS ----------------

func (h *Handler) SearchJobs(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if h.deps.MaxCount > 0 && req.Count > h.deps.MaxCount {
		writeError(c, fmt.Errorf("%w: at most %d", scraper.ErrInvalidCount, h.deps.MaxCount))
		return
	}

	criteria, err := scraper.ParseCriteria(req.Titles, req.Location, req.Count)
	if err != nil {
		writeError(c, err)
		return
	}
	within, err := scraper.ParsePostedWithin(req.TimeFilter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.deps.Scraper.Search(c.Request.Context(), criteria, within)
	if err != nil {
		log.Printf("❌ %s search failed: %v", h.deps.Scraper.Name(), err)
		if res.Empty() {
			writeError(c, err)
			return
		}
	}
	h.archive(c.Request.Context(), criteria, within, res)

	resp := SearchResponse{
		Status:     "ok",
		Jobs:       res.Listings,
		Candidates: res.Candidates,
		Matched:    res.Matched,
		Skipped:    res.Skipped,
	}
	switch {
	case err != nil:
		resp.Status = "partial"
		resp.Message = err.Error()
	case res.TimedOut:
		resp.Status = "partial"
		resp.Message = "search timed out before the requested count was reached"
	case res.Empty():
		resp.Status = "no_matches"
		resp.Message = scraper.NoMatchesMessage
	}
	if resp.Jobs == nil {
		resp.Jobs = []scraper.EnrichedListing{}
	}
	c.JSON(http.StatusOK, resp)
}

// archive stores a finished search when a database is configured. Failures
// are logged; the caller still gets its listings.
func (h *Handler) archive(ctx context.Context, criteria scraper.SearchCriteria, within scraper.PostedWithin, res *scraper.Result) {
	if h.deps.Archive == nil || res.Empty() {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	run := database.NewSearchRun(criteria, within, res)
	if err := h.deps.Archive.ArchiveRun(ctx, h.deps.Scraper.Name(), run, res.Listings); err != nil {
		log.Printf("❌ Failed to archive run: %v", err)
		return
	}
	log.Printf("🗄️ Archived run %s (%d listings)", run.ID, len(res.Listings))
}

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

func (h *Handler) RecentJobs(c *gin.Context) {
	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRecentLimit)
	}

	listings, err := h.deps.Archive.RecentListings(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	c.JSON(http.StatusOK, gin.H{"jobs": listings})
}

func (h *Handler) ArchivedJob(c *gin.Context) {
	// listings are stored under their canonical URL
	url := linkedin.NewExtractor(linkedin.DefaultSelectors(), h.deps.SearchBaseURL).CanonicalURL(c.Query("url"))
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	listing, err := h.deps.Archive.GetListingByURL(c.Request.Context(), url)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) SearchLinks(c *gin.Context) {
	var req LinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	within, err := scraper.ParsePostedWithin(req.TimeFilter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	links := linkedin.SearchLinks(h.deps.SearchBaseURL, req.Titles, req.Location, within)
	if len(links) == 0 {
		writeError(c, scraper.ErrNoTitles)
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}

// writeError maps domain errors to status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, analyzer.ErrMissingInput),
		errors.Is(err, errNotPDF),
		errors.Is(err, pdf.ErrInvalidPDF),
		errors.Is(err, pdf.ErrNoText),
		errors.Is(err, scraper.ErrNoTitles),
		errors.Is(err, scraper.ErrInvalidCount):
		status = http.StatusBadRequest
	case errors.Is(err, analyzer.ErrNoResume):
		status = http.StatusConflict
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ai.ErrGeneration):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
