package usecase

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/swaplens/backend/internal/domain"
)

const (
	// defaultSwapLimit caps how many swap candidates a resolution returns.
	defaultSwapLimit = 5

	// minScoreFloor is the lowest acceptable candidate score for the
	// type-classified tier. The effective threshold is the original
	// product's own score when that is higher.
	minScoreFloor = 40

	// siblingSearchLimit bounds the sibling-name catalog search.
	siblingSearchLimit = 10

	// tierFetchFactor over-fetches type-tier queries so post-filtering
	// still fills the limit.
	tierFetchFactor = 4
)

// ResolverConfig holds configuration for the candidate resolver.
type ResolverConfig struct {
	Limit int
}

// ResolverService runs the swap-candidate waterfall: curated list, sibling
// curated lists, type-classified catalog matching, then dynamic discovery.
// The first tier producing a non-empty filtered result short-circuits the
// rest. An empty result is preferred over a loosely matched one: no tier
// widens its filter to avoid returning nothing.
type ResolverService struct {
	catalog    domain.CatalogStore
	swapCache  domain.SwapCache
	discovery  domain.DiscoveryClient
	classifier *Classifier
	limit      int
	logger     *zap.Logger
}

// NewResolverService creates a resolver with the given collaborators.
func NewResolverService(
	catalog domain.CatalogStore,
	swapCache domain.SwapCache,
	discovery domain.DiscoveryClient,
	config ResolverConfig,
	logger *zap.Logger,
) *ResolverService {
	limit := config.Limit
	if limit <= 0 {
		limit = defaultSwapLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ResolverService{
		catalog:    catalog,
		swapCache:  swapCache,
		discovery:  discovery,
		classifier: NewClassifier(),
		limit:      limit,
		logger:     logger,
	}
}

// Resolve returns up to the configured limit of swap candidates for the
// product. Every returned candidate has a present score and an identifier
// different from the input. Backing-store failures inside a tier are
// non-fatal: the tier contributes nothing and the next one runs.
func (s *ResolverService) Resolve(ctx context.Context, product *domain.Product) ([]domain.Product, error) {
	if product == nil || product.ID == "" {
		return nil, domain.ErrInvalidRequest
	}

	if swaps := s.curatedDirect(ctx, product); len(swaps) > 0 {
		s.logger.Debug("resolved via curated list",
			zap.String("product_id", product.ID), zap.Int("count", len(swaps)))
		return swaps, nil
	}

	if swaps := s.siblingCurated(ctx, product); len(swaps) > 0 {
		s.logger.Debug("resolved via sibling curated list",
			zap.String("product_id", product.ID), zap.Int("count", len(swaps)))
		return swaps, nil
	}

	if swaps := s.typeClassified(ctx, product); len(swaps) > 0 {
		s.logger.Debug("resolved via type classification",
			zap.String("product_id", product.ID), zap.Int("count", len(swaps)))
		return swaps, nil
	}

	return s.dynamicDiscovery(ctx, product), nil
}

// curatedDirect resolves the product's own curated-swap list, keeping only
// entries that exist in the catalog with a present score.
func (s *ResolverService) curatedDirect(ctx context.Context, product *domain.Product) []domain.Product {
	ids, err := s.swapCache.Get(ctx, product.ID)
	if err != nil {
		s.logger.Warn("curated tier unavailable",
			zap.String("product_id", product.ID), zap.Error(err))
		return nil
	}
	return s.resolveIDs(ctx, ids, product.ID)
}

// siblingCurated compensates for duplicate catalog rows for the same
// real-world product: it finds other rows sharing the name's longest
// canonical token and tries their curated lists, most specific name match
// first (most shared tokens, then shorter name).
func (s *ResolverService) siblingCurated(ctx context.Context, product *domain.Product) []domain.Product {
	token := longestToken(product.Name)
	if token == "" {
		return nil
	}

	siblings, err := s.catalog.SearchByName(ctx, token, siblingSearchLimit)
	if err != nil {
		s.logger.Warn("sibling tier unavailable",
			zap.String("product_id", product.ID), zap.Error(err))
		return nil
	}

	ownTokens := canonicalNameTokens(product.Name)
	ranked := make([]domain.Product, 0, len(siblings))
	for _, sib := range siblings {
		if sib.ID == product.ID {
			continue
		}
		ranked = append(ranked, sib)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		si := sharedTokenCount(ownTokens, canonicalNameTokens(ranked[i].Name))
		sj := sharedTokenCount(ownTokens, canonicalNameTokens(ranked[j].Name))
		if si != sj {
			return si > sj
		}
		return len(ranked[i].Name) < len(ranked[j].Name)
	})

	for _, sib := range ranked {
		ids, err := s.catalog.GetCuratedSwaps(ctx, sib.ID)
		if err != nil {
			s.logger.Warn("sibling curated list unavailable",
				zap.String("sibling_id", sib.ID), zap.Error(err))
			continue
		}
		if len(ids) == 0 {
			continue
		}
		if swaps := s.resolveIDs(ctx, ids, product.ID); len(swaps) > 0 {
			return swaps
		}
	}
	return nil
}

// typeClassified classifies the product's text blob and runs three
// narrowing catalog searches: subcategory containment, the type's fallback
// phrase, then category match. All use threshold = max(original score, 40)
// and are filtered to candidates of the same type.
func (s *ResolverService) typeClassified(ctx context.Context, product *domain.Product) []domain.Product {
	blob := strings.TrimSpace(product.Name + " " + product.Subcategory + " " + product.Category)
	ptype, ok := s.classifier.Classify(blob)
	if !ok {
		return nil
	}

	threshold := minScoreFloor
	if product.Score != nil && *product.Score > threshold {
		threshold = *product.Score
	}
	fetch := s.limit * tierFetchFactor

	if product.Subcategory != "" {
		found, err := s.catalog.ListBySubcategory(ctx, product.Subcategory, threshold, product.ID, fetch)
		if err != nil {
			s.logger.Warn("subcategory search unavailable",
				zap.String("product_id", product.ID), zap.Error(err))
		} else if swaps := s.filterByType(found, ptype, product.ID); len(swaps) > 0 {
			return swaps
		}
	}

	found, err := s.catalog.SearchText(ctx, ptype.FallbackQuery, threshold, product.ID, fetch)
	if err != nil {
		s.logger.Warn("text search unavailable",
			zap.String("product_id", product.ID), zap.Error(err))
	} else if swaps := s.filterByType(found, ptype, product.ID); len(swaps) > 0 {
		return swaps
	}

	if product.Category != "" {
		found, err := s.catalog.ListByCategory(ctx, product.Category, threshold, product.ID, fetch)
		if err != nil {
			s.logger.Warn("category search unavailable",
				zap.String("product_id", product.ID), zap.Error(err))
		} else if swaps := s.filterByType(found, ptype, product.ID); len(swaps) > 0 {
			return swaps
		}
	}

	return nil
}

// dynamicDiscovery is the last-resort tier: one live external search per
// resolution. On success the result is written back onto the product's
// curated-swap list so the next resolution is satisfied by the first tier.
// Failure degrades to an empty result; it is logged, never surfaced.
func (s *ResolverService) dynamicDiscovery(ctx context.Context, product *domain.Product) []domain.Product {
	query := product.Name
	blob := strings.TrimSpace(product.Name + " " + product.Subcategory + " " + product.Category)
	if ptype, ok := s.classifier.Classify(blob); ok {
		query = ptype.FallbackQuery
	} else if tokens := canonicalNameTokens(product.Name); len(tokens) > 0 {
		query = strings.Join(tokens, " ")
	}

	found, err := s.discovery.Search(ctx, query, s.limit)
	if err != nil {
		s.logger.Warn("dynamic discovery failed, returning no swaps",
			zap.String("product_id", product.ID), zap.Error(err))
		return nil
	}

	swaps := make([]domain.Product, 0, s.limit)
	for _, candidate := range found {
		if candidate.ID == product.ID || !candidate.HasScore() {
			continue
		}
		swaps = append(swaps, candidate)
		if len(swaps) == s.limit {
			break
		}
	}
	if len(swaps) == 0 {
		s.logger.Warn("dynamic discovery returned no usable swaps",
			zap.String("product_id", product.ID))
		return nil
	}

	ids := make([]string, len(swaps))
	for i, swap := range swaps {
		ids[i] = swap.ID
	}
	// Concurrent first-time resolutions may race here; last writer wins.
	// The cache is an optimization, not a correctness dependency.
	if err := s.swapCache.Populate(ctx, product.ID, ids); err != nil {
		s.logger.Warn("discovery cache write-back failed",
			zap.String("product_id", product.ID), zap.Error(err))
	}

	return swaps
}

// resolveIDs resolves curated-swap identifiers against the catalog, keeping
// entries that exist with a present score and are not the product itself.
func (s *ResolverService) resolveIDs(ctx context.Context, ids []string, excludeID string) []domain.Product {
	swaps := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if id == excludeID {
			continue
		}
		found, err := s.catalog.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if !found.HasScore() {
			continue
		}
		swaps = append(swaps, *found)
		if len(swaps) == s.limit {
			break
		}
	}
	return swaps
}

// filterByType keeps candidates that belong to the product type, carry a
// score, and are not the original, capped at the resolver limit.
func (s *ResolverService) filterByType(candidates []domain.Product, ptype *domain.ProductType, excludeID string) []domain.Product {
	swaps := make([]domain.Product, 0, s.limit)
	for _, candidate := range candidates {
		if candidate.ID == excludeID || !candidate.HasScore() {
			continue
		}
		blob := candidate.Name + " " + candidate.Subcategory
		if !MatchesType(blob, ptype) {
			continue
		}
		swaps = append(swaps, candidate)
		if len(swaps) == s.limit {
			break
		}
	}
	return swaps
}
