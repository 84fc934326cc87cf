package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/swaplens/backend/internal/domain"
)

const (
	// defaultResultTTL is how long a full swap result stays cached.
	defaultResultTTL = 15 * time.Minute

	// aggregateConcurrency bounds the per-candidate availability fan-out.
	aggregateConcurrency = 4
)

// Rating bands for the 0-100 score.
const (
	RatingExcellent = "excellent"
	RatingGood      = "good"
	RatingMediocre  = "mediocre"
	RatingPoor      = "poor"
	RatingUnrated   = "unrated"
)

// SwapServiceConfig holds configuration for the swap service.
type SwapServiceConfig struct {
	ResultTTL time.Duration
}

// SwapService orchestrates one resolution request: catalog lookup, candidate
// resolution, per-candidate availability aggregation, and enrichment.
// Flow: check cache -> resolve -> aggregate + enrich -> cache -> return.
type SwapService struct {
	catalog      domain.CatalogStore
	resolver     *ResolverService
	availability *AvailabilityService
	classifier   *Classifier
	cache        domain.CacheRepository
	resultTTL    time.Duration
	logger       *zap.Logger
}

// NewSwapService creates a swap service with dependencies.
func NewSwapService(
	catalog domain.CatalogStore,
	resolver *ResolverService,
	availability *AvailabilityService,
	cache domain.CacheRepository,
	config SwapServiceConfig,
	logger *zap.Logger,
) *SwapService {
	resultTTL := config.ResultTTL
	if resultTTL <= 0 {
		resultTTL = defaultResultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SwapService{
		catalog:      catalog,
		resolver:     resolver,
		availability: availability,
		classifier:   NewClassifier(),
		cache:        cache,
		resultTTL:    resultTTL,
		logger:       logger,
	}
}

// GetSwaps resolves swap alternatives for a product identifier. An unknown
// identifier returns domain.ErrProductNotFound; every other failure mode
// degrades to a smaller (possibly empty) swap list. An empty list is a
// valid outcome, not an error.
func (s *SwapService) GetSwaps(ctx context.Context, productID string) (*domain.SwapResult, error) {
	if productID == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := fmt.Sprintf("swaps:%s", productID)
	if cached := s.getFromCache(ctx, cacheKey); cached != nil {
		cached.Source = "cache"
		return cached, nil
	}

	original, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	candidates, err := s.resolver.Resolve(ctx, original)
	if err != nil {
		return nil, err
	}

	originalAvailability := s.availability.Aggregate(ctx, original)

	swaps := make([]domain.SwapCandidate, len(candidates))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(aggregateConcurrency)
	for i := range candidates {
		group.Go(func() error {
			candidate := candidates[i]
			availability := s.availability.Aggregate(groupCtx, &candidate)
			swaps[i] = s.enrich(original, candidate, availability, originalAvailability)
			return nil
		})
	}
	// Aggregation never returns an error; the group exists for the bound
	// and the wait.
	_ = group.Wait()

	result := &domain.SwapResult{
		Original: domain.RatedProduct{
			Product:      *original,
			Rating:       RatingBand(original.Score),
			Availability: originalAvailability,
		},
		Swaps:                swaps,
		HomemadeAlternatives: s.homemadeAlternatives(original),
		Source:               "live",
	}

	if err := s.cache.Set(ctx, cacheKey, result, s.resultTTL); err != nil {
		s.logger.Warn("failed to cache swap result",
			zap.String("product_id", productID), zap.Error(err))
	}

	return result, nil
}

// enrich attaches score delta, savings estimate, rating band, and the
// availability list to one surviving candidate.
func (s *SwapService) enrich(
	original *domain.Product,
	candidate domain.Product,
	availability []domain.AvailabilityRecord,
	originalAvailability []domain.AvailabilityRecord,
) domain.SwapCandidate {
	improvement := 0
	if candidate.Score != nil && original.Score != nil {
		improvement = *candidate.Score - *original.Score
	} else if candidate.Score != nil {
		improvement = *candidate.Score
	}

	return domain.SwapCandidate{
		Product:          candidate,
		ScoreImprovement: improvement,
		SavingsPotential: savingsPotential(originalAvailability, availability),
		Rating:           RatingBand(candidate.Score),
		Availability:     availability,
	}
}

// homemadeAlternatives returns the classified type's homemade suggestions,
// empty when the product has no classifiable type.
func (s *SwapService) homemadeAlternatives(product *domain.Product) []string {
	blob := strings.TrimSpace(product.Name + " " + product.Subcategory + " " + product.Category)
	ptype, ok := s.classifier.Classify(blob)
	if !ok {
		return nil
	}
	return ptype.Homemade
}

// RatingBand maps a score onto its human-readable band.
func RatingBand(score *int) string {
	switch {
	case score == nil:
		return RatingUnrated
	case *score >= 75:
		return RatingExcellent
	case *score >= 50:
		return RatingGood
	case *score >= 25:
		return RatingMediocre
	default:
		return RatingPoor
	}
}

// savingsPotential estimates savings as the gap between the cheapest known
// price of the original and of the candidate. Nil when either side has no
// price at all.
func savingsPotential(original, candidate []domain.AvailabilityRecord) *float64 {
	originalMin := minPrice(original)
	candidateMin := minPrice(candidate)
	if originalMin == nil || candidateMin == nil {
		return nil
	}
	savings := *originalMin - *candidateMin
	return &savings
}

func minPrice(records []domain.AvailabilityRecord) *float64 {
	var min *float64
	for _, record := range records {
		if record.Price == nil {
			continue
		}
		if min == nil || *record.Price < *min {
			price := *record.Price
			min = &price
		}
	}
	return min
}

func (s *SwapService) getFromCache(ctx context.Context, key string) *domain.SwapResult {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	result, ok := value.(*domain.SwapResult)
	if !ok {
		return nil
	}
	// Shallow copy so the cached entry's Source marker stays untouched.
	copied := *result
	return &copied
}
