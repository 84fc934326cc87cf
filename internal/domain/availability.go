package domain

import "time"

// SourceTier identifies which availability source contributed a record.
// Tiers are listed in fusion priority order.
type SourceTier string

const (
	TierCommunity SourceTier = "community"
	TierCrawl     SourceTier = "crawl"
	TierCurated   SourceTier = "curated"
)

// AvailabilityRecord is one place a product can be obtained. Records exist
// only for the duration of a resolution call. Two records describe the same
// store when their canonical store names are equal.
type AvailabilityRecord struct {
	StoreName      string     `json:"storeName"`
	Tier           SourceTier `json:"sourceTier"`
	Price          *float64   `json:"price,omitempty"`
	Corroborations *int       `json:"corroborationCount,omitempty"`
	AsOf           *time.Time `json:"asOfDate,omitempty"`
	Note           string     `json:"note,omitempty"`
}

// CommunityReport is a user-submitted sighting of a product at a store.
type CommunityReport struct {
	ProductID      string
	StoreName      string
	Price          *float64
	Corroborations int
	VerifiedAt     time.Time
}

// CrawlListing is a product listing harvested from a periodic ad/flyer crawl.
type CrawlListing struct {
	ProductID  string
	Merchant   string
	Price      *float64
	CapturedAt time.Time
	ExpiresAt  time.Time
}

// CuratedStore is a manually verified stocking location.
type CuratedStore struct {
	ProductID string
	StoreName string
	Price     *float64
}
