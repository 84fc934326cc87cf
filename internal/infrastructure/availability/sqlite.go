package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/swaplens/backend/internal/domain"
)

// schema holds the three independent availability stores. Community reports
// come from users, crawl listings from the periodic ad/flyer crawl, curated
// rows from manual verification. Each is read by exactly one source tier.
const schema = `
CREATE TABLE IF NOT EXISTS community_reports (
	product_id     TEXT NOT NULL,
	store_name     TEXT NOT NULL,
	price          REAL,
	corroborations INTEGER NOT NULL DEFAULT 0,
	verified_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS crawl_listings (
	product_id   TEXT NOT NULL DEFAULT '',
	product_name TEXT NOT NULL DEFAULT '',
	merchant     TEXT NOT NULL,
	price        REAL,
	captured_at  TIMESTAMP NOT NULL,
	expires_at   TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS curated_availability (
	product_id TEXT NOT NULL,
	store_name TEXT NOT NULL,
	price      REAL
);
CREATE INDEX IF NOT EXISTS idx_community_product ON community_reports (product_id);
CREATE INDEX IF NOT EXISTS idx_crawl_product ON crawl_listings (product_id);
CREATE INDEX IF NOT EXISTS idx_curated_product ON curated_availability (product_id);
`

// Store serves all three availability source interfaces from one sqlite
// database. The aggregator still treats each tier as an independent source:
// a failure in one query contributes nothing to that tier only.
type Store struct {
	db *sql.DB
}

// Open opens (and if necessary bootstraps) the availability database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open availability db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init availability schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init availability schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReportsByProduct returns community reports verified at or after since,
// ordered by corroboration count desc then recency desc.
func (s *Store) ReportsByProduct(ctx context.Context, productID string, since time.Time) ([]domain.CommunityReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, store_name, price, corroborations, verified_at
		 FROM community_reports
		 WHERE product_id = ? AND verified_at >= ?
		 ORDER BY corroborations DESC, verified_at DESC`, productID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var reports []domain.CommunityReport
	for rows.Next() {
		var report domain.CommunityReport
		var price sql.NullFloat64
		if err := rows.Scan(&report.ProductID, &report.StoreName, &price,
			&report.Corroborations, &report.VerifiedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		if price.Valid {
			value := price.Float64
			report.Price = &value
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return reports, nil
}

// ListingsByProduct returns unexpired crawl listings matched by product id
// or by the product name appearing in the listing's captured name, newest
// first. The caller keeps one listing per merchant.
func (s *Store) ListingsByProduct(ctx context.Context, productID, namePattern string, now time.Time) ([]domain.CrawlListing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, merchant, price, captured_at, expires_at
		 FROM crawl_listings
		 WHERE expires_at > ?
		   AND (product_id = ? OR (? != '' AND instr(lower(product_name), lower(?)) > 0))
		 ORDER BY captured_at DESC`, now, productID, namePattern, namePattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var listings []domain.CrawlListing
	for rows.Next() {
		var listing domain.CrawlListing
		var price sql.NullFloat64
		if err := rows.Scan(&listing.ProductID, &listing.Merchant, &price,
			&listing.CapturedAt, &listing.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		if price.Valid {
			value := price.Float64
			listing.Price = &value
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return listings, nil
}

// StoresByProduct returns curated stocking locations ordered alphabetically.
func (s *Store) StoresByProduct(ctx context.Context, productID string) ([]domain.CuratedStore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, store_name, price
		 FROM curated_availability
		 WHERE product_id = ?
		 ORDER BY store_name ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var stores []domain.CuratedStore
	for rows.Next() {
		var store domain.CuratedStore
		var price sql.NullFloat64
		if err := rows.Scan(&store.ProductID, &store.StoreName, &price); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		if price.Valid {
			value := price.Float64
			store.Price = &value
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return stores, nil
}
