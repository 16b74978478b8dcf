package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go-resume-analyzer/internal/models"
	"go-resume-analyzer/internal/scraper"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

var ErrNotFound = errors.New("listing not found")

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers (PgBouncer, Supabase) reject cached prepared
	// statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// Migrate creates the archive tables when they are missing.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// ---------------- RUN OPERATIONS ----------------

// NewSearchRun builds the archive row for a finished run.
func NewSearchRun(c scraper.SearchCriteria, within scraper.PostedWithin, res *scraper.Result) *models.SearchRun {
	run := &models.SearchRun{
		Titles:       c.Titles(),
		Location:     c.Location,
		PostedWithin: string(within),
		Requested:    c.Count,
	}
	if res != nil {
		run.Candidates = res.Candidates
		run.Matched = res.Matched
		run.Skipped = res.Skipped
		run.Enriched = len(res.Listings)
	}
	return run
}

// ArchiveRun stores the run and upserts its listings in one transaction.
func (r *Repository) ArchiveRun(ctx context.Context, source string, run *models.SearchRun, listings []scraper.EnrichedListing) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO search_runs (titles, location, posted_within, requested, candidates, matched, skipped, enriched)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err = tx.QueryRow(ctx, query, run.Titles, run.Location, run.PostedWithin, run.Requested,
		run.Candidates, run.Matched, run.Skipped, run.Enriched).
		Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save search run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, l := range listings {
		batch.Queue(upsertListing, source, l.URL, l.Company, l.Title, l.Location, l.Description, run.ID)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save listings: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ---------------- LISTING OPERATIONS ----------------

// upsertListing keeps the first run that saw a URL and refreshes the rest.
const upsertListing = `
	INSERT INTO listings (source, url, company, title, location, description, first_run_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (url)
	DO UPDATE SET company = EXCLUDED.company, title = EXCLUDED.title, location = EXCLUDED.location,
		description = EXCLUDED.description, last_seen_at = now()`

const listingColumns = `id, source, url, company, title, location, description, first_run_id, first_seen_at, last_seen_at`

func scanListing(row pgx.Row) (*models.Listing, error) {
	var l models.Listing
	err := row.Scan(&l.ID, &l.Source, &l.URL, &l.Company, &l.Title, &l.Location, &l.Description,
		&l.FirstRunID, &l.FirstSeenAt, &l.LastSeenAt)
	return &l, err
}

// GetListingByURL retrieves an archived listing by its canonical URL.
func (r *Repository) GetListingByURL(ctx context.Context, url string) (*models.Listing, error) {
	l, err := scanListing(r.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE url = $1`, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// RecentListings returns the most recently seen listings first.
func (r *Repository) RecentListings(ctx context.Context, limit int) ([]models.Listing, error) {
	rows, err := r.db.Query(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY last_seen_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}
