package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/swaplens/backend/internal/domain"
)

// schema holds the tables this service reads. The catalog is edited
// out-of-band; the only write path here is the curated-swap write-back.
const schema = `
CREATE TABLE IF NOT EXISTS products (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	brand            TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT '',
	subcategory      TEXT NOT NULL DEFAULT '',
	score            INTEGER,
	swap_origin      TEXT NOT NULL DEFAULT 'none',
	swaps_updated_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS curated_swaps (
	product_id TEXT NOT NULL,
	swap_id    TEXT NOT NULL,
	position   INTEGER NOT NULL,
	PRIMARY KEY (product_id, position)
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products (category);
CREATE INDEX IF NOT EXISTS idx_products_subcategory ON products (subcategory);
`

// Store is the sqlite-backed catalog adapter.
type Store struct {
	db *sql.DB
}

// Open opens (and if necessary bootstraps) the catalog database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle (used by tests and by the
// availability adapter sharing the same file).
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for adapters sharing the database file.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

const productColumns = "id, name, brand, category, subcategory, score, swap_origin, swaps_updated_at"

// GetByID returns one product or domain.ErrProductNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	swaps, err := s.GetCuratedSwaps(ctx, id)
	if err != nil {
		return nil, err
	}
	product.CuratedSwapIDs = swaps
	return product, nil
}

// SearchByName returns products whose name contains the token.
func (s *Store) SearchByName(ctx context.Context, token string, limit int) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+` FROM products
		 WHERE instr(lower(name), lower(?)) > 0
		 ORDER BY length(name) ASC
		 LIMIT ?`, token, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return scanProducts(rows)
}

// ListBySubcategory returns scored products whose subcategory contains the
// given text.
func (s *Store) ListBySubcategory(ctx context.Context, subcategory string, minScore int, excludeID string, limit int) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+` FROM products
		 WHERE score IS NOT NULL AND score >= ?
		   AND id != ?
		   AND instr(lower(subcategory), lower(?)) > 0
		 ORDER BY score DESC, name ASC
		 LIMIT ?`, minScore, excludeID, subcategory, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return scanProducts(rows)
}

// SearchText runs a token search over name and subcategory, ranked by how
// many query tokens a row matches, then by score.
func (s *Store) SearchText(ctx context.Context, query string, minScore int, excludeID string, limit int) ([]domain.Product, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(tokens))
	args := []interface{}{minScore, excludeID}
	for _, token := range tokens {
		conditions = append(conditions,
			"(instr(lower(name), ?) > 0 OR instr(lower(subcategory), ?) > 0)")
		args = append(args, token, token)
	}

	// Over-fetch, then rank by matched-token count in memory: sqlite has no
	// cheap relevance expression for this shape of query.
	q := "SELECT " + productColumns + ` FROM products
		 WHERE score IS NOT NULL AND score >= ? AND id != ?
		   AND (` + strings.Join(conditions, " OR ") + `)
		 ORDER BY score DESC
		 LIMIT ?`
	args = append(args, limit*3)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	rankOf := func(p domain.Product) int {
		text := strings.ToLower(p.Name + " " + p.Subcategory)
		rank := 0
		for _, token := range tokens {
			if strings.Contains(text, token) {
				rank++
			}
		}
		return rank
	}
	sort.SliceStable(products, func(i, j int) bool {
		ri, rj := rankOf(products[i]), rankOf(products[j])
		if ri != rj {
			return ri > rj
		}
		return scoreOf(products[i]) > scoreOf(products[j])
	})

	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// ListByCategory matches category by equality or containment.
func (s *Store) ListByCategory(ctx context.Context, category string, minScore int, excludeID string, limit int) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+` FROM products
		 WHERE score IS NOT NULL AND score >= ?
		   AND id != ?
		   AND (lower(category) = lower(?) OR instr(lower(category), lower(?)) > 0)
		 ORDER BY score DESC, name ASC
		 LIMIT ?`, minScore, excludeID, category, category, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return scanProducts(rows)
}

// GetCuratedSwaps returns the ordered curated-swap list for a product.
func (s *Store) GetCuratedSwaps(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT swap_id FROM curated_swaps WHERE product_id = ? ORDER BY position ASC", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var swapID string
		if err := rows.Scan(&swapID); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		ids = append(ids, swapID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return ids, nil
}

// WriteCuratedSwaps replaces a product's curated-swap list and stamps its
// origin and timestamp. Whole-list replacement keeps concurrent writers
// last-writer-wins rather than interleaved.
func (s *Store) WriteCuratedSwaps(ctx context.Context, id string, swapIDs []string, origin domain.SwapOrigin, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM curated_swaps WHERE product_id = ?", id); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	for i, swapID := range swapIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO curated_swaps (product_id, swap_id, position) VALUES (?, ?, ?)",
			id, swapID, i); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE products SET swap_origin = ?, swaps_updated_at = ? WHERE id = ?",
		string(origin), at, id); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var score sql.NullInt64
	var origin string
	var updatedAt sql.NullTime

	if err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Subcategory,
		&score, &origin, &updatedAt); err != nil {
		return nil, err
	}
	if score.Valid {
		value := int(score.Int64)
		p.Score = &value
	}
	p.SwapOrigin = domain.SwapOrigin(origin)
	if updatedAt.Valid {
		p.SwapsUpdatedAt = updatedAt.Time
	}
	return &p, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return products, nil
}

func scoreOf(p domain.Product) int {
	if p.Score == nil {
		return -1
	}
	return *p.Score
}
