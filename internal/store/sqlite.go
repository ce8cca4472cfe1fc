package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/amishk599/jobhunter/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Store persists listings and their analyses in SQLite. Each process role
// opens its own Store; SQLite serializes writers.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Stats summarizes the contents of the store.
type Stats struct {
	Listings int
	Analyzed int
	Pending  int
	BySource map[string]int
}

// Open opens (or creates) the SQLite database at path, applies pragmas and
// runs pending migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	version, err := runMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("database ready", "path", path, "schema_version", version)

	return &Store{db: db, logger: logger}, nil
}

// Insert stores a listing unless its URL or fingerprint is already known.
// It returns true only when a new row was created, and writes the assigned id
// back to l.ID.
func (s *Store) Insert(ctx context.Context, l *model.Listing) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO listings (source, url, fingerprint, title, location, content,
			salary_min, salary_max, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		l.Source, l.URL, l.Fingerprint(), l.Title, l.Location, l.Content,
		l.SalaryMin, l.SalaryMax, formatTime(l.PublishedAt), formatTime(createdAt(l)),
	)
	if err != nil {
		return false, fmt.Errorf("inserting listing %s: %w", l.URL, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting listing %s: %w", l.URL, err)
	}
	if n == 0 {
		s.logger.Debug("listing already stored", "url", l.URL)
		return false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("reading id for listing %s: %w", l.URL, err)
	}
	l.ID = id
	return true, nil
}

const listingColumns = `l.id, l.source, l.url, l.fingerprint, l.title, l.location, l.content,
	l.salary_min, l.salary_max, l.published_at, l.created_at`

// Unanalyzed returns every listing that has no analysis yet, oldest first.
func (s *Store) Unanalyzed(ctx context.Context) ([]model.Listing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+listingColumns+`
		FROM listings l
		LEFT JOIN analyses a ON a.listing_id = l.id
		WHERE a.id IS NULL
		ORDER BY l.id`)
	if err != nil {
		return nil, fmt.Errorf("querying unanalyzed listings: %w", err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning unanalyzed listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// SaveAnalysis records an analysis. It returns false, and logs, when the
// listing already has one or the write fails for any other reason.
func (s *Store) SaveAnalysis(ctx context.Context, a model.Analysis) bool {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (listing_id, url, salary_min, salary_max,
			remote, relevance, eu_eligible, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ListingID, a.URL, a.SalaryMin, a.SalaryMax,
		a.Remote, a.Relevance, a.EUEligible, formatTime(a.AnalyzedAt),
	)
	if err != nil {
		s.logger.Error("saving analysis failed", "listing_id", a.ListingID, "url", a.URL, "error", err)
		return false
	}
	return true
}

// ScoredListings returns analyzed listings, most recently analyzed first.
// A limit of zero or less returns all rows.
func (s *Store) ScoredListings(ctx context.Context, limit int) ([]model.ScoredListing, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+listingColumns+`,
			a.id, a.url, a.salary_min, a.salary_max, a.remote, a.relevance, a.eu_eligible, a.analyzed_at
		FROM analyses a
		JOIN listings l ON l.id = a.listing_id
		ORDER BY a.analyzed_at DESC, a.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scored listings: %w", err)
	}
	defer rows.Close()

	var out []model.ScoredListing
	for rows.Next() {
		var (
			r          listingRow
			a          model.Analysis
			analyzedAt string
		)
		dest := append(r.dest(), &a.ID, &a.URL, &a.SalaryMin, &a.SalaryMax,
			&a.Remote, &a.Relevance, &a.EUEligible, &analyzedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning scored listing: %w", err)
		}
		l, err := r.listing()
		if err != nil {
			return nil, err
		}
		a.ListingID = l.ID
		if a.AnalyzedAt, err = parseTime(analyzedAt); err != nil {
			return nil, err
		}
		out = append(out, model.ScoredListing{Listing: l, Analysis: a})
	}
	return out, rows.Err()
}

// Listing returns a single listing by id.
func (s *Store) Listing(ctx context.Context, id int64) (model.Listing, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings l WHERE l.id = ?`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("loading listing %d: %w", id, err)
	}
	return l, nil
}

// AnalysisFor returns the analysis for a listing.
func (s *Store) AnalysisFor(ctx context.Context, listingID int64) (model.Analysis, error) {
	var (
		a          model.Analysis
		analyzedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, listing_id, url, salary_min, salary_max, remote, relevance, eu_eligible, analyzed_at
		FROM analyses WHERE listing_id = ?`, listingID,
	).Scan(&a.ID, &a.ListingID, &a.URL, &a.SalaryMin, &a.SalaryMax,
		&a.Remote, &a.Relevance, &a.EUEligible, &analyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Analysis{}, fmt.Errorf("analysis for listing %d: %w", listingID, ErrNotFound)
	}
	if err != nil {
		return model.Analysis{}, fmt.Errorf("loading analysis for listing %d: %w", listingID, err)
	}
	if a.AnalyzedAt, err = parseTime(analyzedAt); err != nil {
		return model.Analysis{}, err
	}
	return a, nil
}

// Stats counts listings overall, per source, and by analysis state.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{BySource: make(map[string]int)}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(a.id)
		FROM listings l LEFT JOIN analyses a ON a.listing_id = l.id`,
	).Scan(&st.Listings, &st.Analyzed)
	if err != nil {
		return Stats{}, fmt.Errorf("counting listings: %w", err)
	}
	st.Pending = st.Listings - st.Analyzed

	rows, err := s.db.QueryContext(ctx, `SELECT source, COUNT(*) FROM listings GROUP BY source`)
	if err != nil {
		return Stats{}, fmt.Errorf("counting listings by source: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			source string
			n      int
		)
		if err := rows.Scan(&source, &n); err != nil {
			return Stats{}, fmt.Errorf("scanning source count: %w", err)
		}
		st.BySource[source] = n
	}
	return st, rows.Err()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

// listingRow holds the raw column values of a listings row.
type listingRow struct {
	l           model.Listing
	fingerprint string
	publishedAt string
	createdAt   string
}

func (r *listingRow) dest() []any {
	return []any{&r.l.ID, &r.l.Source, &r.l.URL, &r.fingerprint, &r.l.Title, &r.l.Location,
		&r.l.Content, &r.l.SalaryMin, &r.l.SalaryMax, &r.publishedAt, &r.createdAt}
}

func (r *listingRow) listing() (model.Listing, error) {
	var err error
	if r.l.PublishedAt, err = parseTime(r.publishedAt); err != nil {
		return model.Listing{}, err
	}
	if r.l.CreatedAt, err = parseTime(r.createdAt); err != nil {
		return model.Listing{}, err
	}
	return r.l.WithStoredFingerprint(r.fingerprint), nil
}

func scanListing(sc scanner) (model.Listing, error) {
	var r listingRow
	if err := sc.Scan(r.dest()...); err != nil {
		return model.Listing{}, err
	}
	return r.listing()
}

func createdAt(l *model.Listing) time.Time {
	if l.CreatedAt.IsZero() {
		return time.Now()
	}
	return l.CreatedAt
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, err)
	}
	return t, nil
}
