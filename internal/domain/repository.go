package domain

import (
	"context"
	"time"
)

// CatalogStore defines the catalog lookups the resolver consumes. The
// catalog itself is edited out-of-band; this service only reads it, except
// for the curated-swap write-back performed after dynamic discovery.
type CatalogStore interface {
	GetByID(ctx context.Context, id string) (*Product, error)

	// SearchByName returns products whose name contains the given token,
	// case-insensitively. Used by the sibling-name tier.
	SearchByName(ctx context.Context, token string, limit int) ([]Product, error)

	// ListBySubcategory returns scored products whose subcategory contains
	// the given text, with score >= minScore, excluding excludeID.
	ListBySubcategory(ctx context.Context, subcategory string, minScore int, excludeID string, limit int) ([]Product, error)

	// SearchText runs a relevance-ranked text search over name and
	// subcategory, with the same score/exclusion filters.
	SearchText(ctx context.Context, query string, minScore int, excludeID string, limit int) ([]Product, error)

	// ListByCategory matches category by equality or containment, with the
	// same score/exclusion filters.
	ListByCategory(ctx context.Context, category string, minScore int, excludeID string, limit int) ([]Product, error)

	GetCuratedSwaps(ctx context.Context, id string) ([]string, error)
	WriteCuratedSwaps(ctx context.Context, id string, swapIDs []string, origin SwapOrigin, at time.Time) error
}

// CommunitySource serves user-reported availability sightings.
type CommunitySource interface {
	// ReportsByProduct returns reports verified at or after since, ordered
	// by corroboration count desc, then recency desc.
	ReportsByProduct(ctx context.Context, productID string, since time.Time) ([]CommunityReport, error)
}

// CrawlSource serves listings harvested from the periodic ad/flyer crawl.
type CrawlSource interface {
	// ListingsByProduct returns the most recent unexpired listing per
	// distinct merchant, matched by product id or name pattern.
	ListingsByProduct(ctx context.Context, productID, namePattern string, now time.Time) ([]CrawlListing, error)
}

// CuratedAvailabilitySource serves the manually verified store list.
type CuratedAvailabilitySource interface {
	// StoresByProduct returns stores ordered alphabetically by name.
	StoresByProduct(ctx context.Context, productID string) ([]CuratedStore, error)
}

// DiscoveryClient is the live external product search, used only when every
// static tier came up empty. Returned products are already scored by the
// external scoring collaborator; unscored hits are dropped by the client.
type DiscoveryClient interface {
	Search(ctx context.Context, query string, limit int) ([]Product, error)
}

// SwapCache is the write-behind abstraction over curated-swap storage:
// tier 1 reads through Get, dynamic discovery writes back through Populate.
// Populate may persist synchronously or asynchronously; its errors are
// logged, never surfaced.
type SwapCache interface {
	Get(ctx context.Context, productID string) ([]string, error)
	Populate(ctx context.Context, productID string, swapIDs []string) error
}

// CacheRepository defines the interface for caching operations.
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
