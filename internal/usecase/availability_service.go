package usecase

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/swaplens/backend/internal/domain"
)

const (
	// defaultAvailabilityCap caps availability records per product.
	defaultAvailabilityCap = 5

	// defaultCommunityFreshness is the rolling window inside which a
	// community report still counts.
	defaultCommunityFreshness = 90 * 24 * time.Hour
)

// AvailabilityConfig holds configuration for the availability aggregator.
type AvailabilityConfig struct {
	Cap                int
	CommunityFreshness time.Duration
}

// AvailabilityService fuses availability from three independent sources.
// Tiers are queried in fixed priority order (community, crawl, curated),
// each only while the running count is below the cap, and a store already
// contributed by an earlier tier is never replaced by a later one.
type AvailabilityService struct {
	community domain.CommunitySource
	crawl     domain.CrawlSource
	curated   domain.CuratedAvailabilitySource
	cap       int
	freshness time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewAvailabilityService creates an aggregator over the three sources.
func NewAvailabilityService(
	community domain.CommunitySource,
	crawl domain.CrawlSource,
	curated domain.CuratedAvailabilitySource,
	config AvailabilityConfig,
	logger *zap.Logger,
) *AvailabilityService {
	cap := config.Cap
	if cap <= 0 {
		cap = defaultAvailabilityCap
	}
	freshness := config.CommunityFreshness
	if freshness <= 0 {
		freshness = defaultCommunityFreshness
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AvailabilityService{
		community: community,
		crawl:     crawl,
		curated:   curated,
		cap:       cap,
		freshness: freshness,
		now:       time.Now,
		logger:    logger,
	}
}

// Aggregate returns a deduplicated, capped availability list for a product.
// A source failure contributes zero records from that source and is never
// fatal: Aggregate always returns (possibly empty) without error.
func (s *AvailabilityService) Aggregate(ctx context.Context, product *domain.Product) []domain.AvailabilityRecord {
	records := make([]domain.AvailabilityRecord, 0, s.cap)
	seen := make(map[string]bool, s.cap)

	records = s.appendCommunity(ctx, product.ID, records, seen)
	if len(records) < s.cap {
		records = s.appendCrawl(ctx, product, records, seen)
	}
	if len(records) < s.cap {
		records = s.appendCurated(ctx, product.ID, records, seen)
	}

	return records
}

func (s *AvailabilityService) appendCommunity(ctx context.Context, productID string, records []domain.AvailabilityRecord, seen map[string]bool) []domain.AvailabilityRecord {
	since := s.now().Add(-s.freshness)
	reports, err := s.community.ReportsByProduct(ctx, productID, since)
	if err != nil {
		s.logger.Warn("community availability unavailable",
			zap.String("product_id", productID), zap.Error(err))
		return records
	}

	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Corroborations != reports[j].Corroborations {
			return reports[i].Corroborations > reports[j].Corroborations
		}
		return reports[i].VerifiedAt.After(reports[j].VerifiedAt)
	})

	for _, report := range reports {
		if len(records) == s.cap {
			break
		}
		key := CanonicalStoreName(report.StoreName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		corroborations := report.Corroborations
		verifiedAt := report.VerifiedAt
		records = append(records, domain.AvailabilityRecord{
			StoreName:      report.StoreName,
			Tier:           domain.TierCommunity,
			Price:          report.Price,
			Corroborations: &corroborations,
			AsOf:           &verifiedAt,
		})
	}
	return records
}

func (s *AvailabilityService) appendCrawl(ctx context.Context, product *domain.Product, records []domain.AvailabilityRecord, seen map[string]bool) []domain.AvailabilityRecord {
	listings, err := s.crawl.ListingsByProduct(ctx, product.ID, product.Name, s.now())
	if err != nil {
		s.logger.Warn("crawl availability unavailable",
			zap.String("product_id", product.ID), zap.Error(err))
		return records
	}

	// Keep only the most recent listing per merchant.
	latest := make(map[string]domain.CrawlListing, len(listings))
	order := make([]string, 0, len(listings))
	for _, listing := range listings {
		key := CanonicalStoreName(listing.Merchant)
		if key == "" {
			continue
		}
		prior, ok := latest[key]
		if !ok {
			order = append(order, key)
			latest[key] = listing
			continue
		}
		if listing.CapturedAt.After(prior.CapturedAt) {
			latest[key] = listing
		}
	}

	for _, key := range order {
		if len(records) == s.cap {
			break
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		listing := latest[key]
		capturedAt := listing.CapturedAt
		records = append(records, domain.AvailabilityRecord{
			StoreName: listing.Merchant,
			Tier:      domain.TierCrawl,
			Price:     listing.Price,
			AsOf:      &capturedAt,
			Note:      "price as of " + capturedAt.Format("Jan 2, 2006"),
		})
	}
	return records
}

func (s *AvailabilityService) appendCurated(ctx context.Context, productID string, records []domain.AvailabilityRecord, seen map[string]bool) []domain.AvailabilityRecord {
	stores, err := s.curated.StoresByProduct(ctx, productID)
	if err != nil {
		s.logger.Warn("curated availability unavailable",
			zap.String("product_id", productID), zap.Error(err))
		return records
	}

	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].StoreName < stores[j].StoreName
	})

	for _, store := range stores {
		if len(records) == s.cap {
			break
		}
		key := CanonicalStoreName(store.StoreName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, domain.AvailabilityRecord{
			StoreName: store.StoreName,
			Tier:      domain.TierCurated,
			Price:     store.Price,
		})
	}
	return records
}
