package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/swaplens/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	setCalled int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string]interface{})}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// routedCommunitySource serves different reports per product id.
type routedCommunitySource struct {
	byProduct map[string][]domain.CommunityReport
}

func (m *routedCommunitySource) ReportsByProduct(ctx context.Context, productID string, since time.Time) ([]domain.CommunityReport, error) {
	return m.byProduct[productID], nil
}

type emptyCrawlSource struct{}

func (emptyCrawlSource) ListingsByProduct(ctx context.Context, productID, namePattern string, now time.Time) ([]domain.CrawlListing, error) {
	return nil, nil
}

type emptyCuratedSource struct{}

func (emptyCuratedSource) StoresByProduct(ctx context.Context, productID string) ([]domain.CuratedStore, error) {
	return nil, nil
}

type swapServiceFixture struct {
	catalog   *MockCatalogStore
	discovery *MockDiscoveryClient
	cache     *MockCacheRepository
	service   *SwapService
}

func newSwapServiceFixture(community domain.CommunitySource) *swapServiceFixture {
	catalog := NewMockCatalogStore()
	discovery := &MockDiscoveryClient{}
	cacheRepo := NewMockCacheRepository()
	if community == nil {
		community = &routedCommunitySource{byProduct: map[string][]domain.CommunityReport{}}
	}

	resolver := newTestResolver(catalog, discovery)
	availability := NewAvailabilityService(community, emptyCrawlSource{}, emptyCuratedSource{}, AvailabilityConfig{}, nil)
	service := NewSwapService(catalog, resolver, availability, cacheRepo, SwapServiceConfig{}, nil)

	return &swapServiceFixture{
		catalog:   catalog,
		discovery: discovery,
		cache:     cacheRepo,
		service:   service,
	}
}

func TestGetSwapsErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown identifier surfaces not found", func(t *testing.T) {
		fixture := newSwapServiceFixture(nil)
		_, err := fixture.service.GetSwaps(ctx, "missing")
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("empty identifier is invalid", func(t *testing.T) {
		fixture := newSwapServiceFixture(nil)
		_, err := fixture.service.GetSwaps(ctx, "")
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})
}

func TestGetSwapsEnrichment(t *testing.T) {
	ctx := context.Background()

	community := &routedCommunitySource{byProduct: map[string][]domain.CommunityReport{
		"C": {{StoreName: "Kroger", Price: floatPtr(4.5), Corroborations: 2, VerifiedAt: time.Now()}},
		"D": {{StoreName: "Sprouts", Price: floatPtr(3.0), Corroborations: 1, VerifiedAt: time.Now()}},
	}}
	fixture := newSwapServiceFixture(community)
	fixture.catalog.add(domain.Product{ID: "C", Name: "Lay's Potato Chips", Subcategory: "chips", Score: intPtr(30)})
	fixture.catalog.add(domain.Product{ID: "D", Name: "Kettle Brand Potato Chips", Subcategory: "chips", Score: intPtr(75)})

	result, err := fixture.service.GetSwaps(ctx, "C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("original is annotated symmetrically", func(t *testing.T) {
		if result.Original.Product.ID != "C" {
			t.Errorf("original = %s, want C", result.Original.Product.ID)
		}
		if result.Original.Rating != RatingMediocre {
			t.Errorf("original rating = %s, want %s", result.Original.Rating, RatingMediocre)
		}
		if len(result.Original.Availability) != 1 || result.Original.Availability[0].StoreName != "Kroger" {
			t.Errorf("original availability = %v, want [Kroger]", result.Original.Availability)
		}
	})

	t.Run("candidate carries delta, savings, rating, availability", func(t *testing.T) {
		if len(result.Swaps) != 1 {
			t.Fatalf("swaps = %d, want 1", len(result.Swaps))
		}
		swap := result.Swaps[0]
		if swap.Product.ID != "D" {
			t.Fatalf("swap = %s, want D", swap.Product.ID)
		}
		if swap.ScoreImprovement != 45 {
			t.Errorf("score improvement = %d, want 45", swap.ScoreImprovement)
		}
		if swap.SavingsPotential == nil || math.Abs(*swap.SavingsPotential-1.5) > 1e-9 {
			t.Errorf("savings = %v, want 1.5", swap.SavingsPotential)
		}
		if swap.Rating != RatingExcellent {
			t.Errorf("rating = %s, want %s", swap.Rating, RatingExcellent)
		}
		if len(swap.Availability) != 1 || swap.Availability[0].StoreName != "Sprouts" {
			t.Errorf("availability = %v, want [Sprouts]", swap.Availability)
		}
	})

	t.Run("homemade alternatives come from the classified type", func(t *testing.T) {
		if len(result.HomemadeAlternatives) == 0 {
			t.Error("expected homemade alternatives for a chips product")
		}
	})

	t.Run("live results are marked live", func(t *testing.T) {
		if result.Source != "live" {
			t.Errorf("source = %s, want live", result.Source)
		}
	})
}

func TestGetSwapsCaching(t *testing.T) {
	ctx := context.Background()

	fixture := newSwapServiceFixture(nil)
	fixture.catalog.add(domain.Product{ID: "A", Name: "Sugar Bomb Cereal", CuratedSwapIDs: []string{"B"}})
	fixture.catalog.add(domain.Product{ID: "B", Name: "Plain Oat Cereal", Score: intPtr(80)})

	first, err := fixture.service.GetSwaps(ctx, "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Source != "live" {
		t.Fatalf("first source = %s, want live", first.Source)
	}
	callsAfterFirst := fixture.catalog.getByIDCalls

	second, err := fixture.service.GetSwaps(ctx, "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Source != "cache" {
		t.Errorf("second source = %s, want cache", second.Source)
	}
	if fixture.catalog.getByIDCalls != callsAfterFirst {
		t.Errorf("catalog queried again on cache hit")
	}
	if len(second.Swaps) != 1 || second.Swaps[0].Product.ID != "B" {
		t.Errorf("cached swaps = %v, want [B]", second.Swaps)
	}

	t.Run("cache write failure does not fail the request", func(t *testing.T) {
		failing := newSwapServiceFixture(nil)
		failing.catalog.add(domain.Product{ID: "A", Name: "Sugar Bomb Cereal", CuratedSwapIDs: []string{"B"}})
		failing.catalog.add(domain.Product{ID: "B", Name: "Plain Oat Cereal", Score: intPtr(80)})
		failing.cache.setError = errors.New("cache down")

		result, err := failing.service.GetSwaps(ctx, "A")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Swaps) != 1 {
			t.Errorf("swaps = %d, want 1", len(result.Swaps))
		}
	})
}

func TestGetSwapsEmptyIsValid(t *testing.T) {
	ctx := context.Background()

	fixture := newSwapServiceFixture(nil)
	fixture.catalog.add(domain.Product{ID: "E", Name: "Zzyzx Elixir", Score: intPtr(10)})

	result, err := fixture.service.GetSwaps(ctx, "E")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Swaps) != 0 {
		t.Errorf("swaps = %v, want empty", result.Swaps)
	}
	if fixture.discovery.calls != 1 {
		t.Errorf("discovery calls = %d, want 1", fixture.discovery.calls)
	}
}

func TestRatingBand(t *testing.T) {
	tests := []struct {
		score *int
		want  string
	}{
		{nil, RatingUnrated},
		{intPtr(100), RatingExcellent},
		{intPtr(75), RatingExcellent},
		{intPtr(74), RatingGood},
		{intPtr(50), RatingGood},
		{intPtr(49), RatingMediocre},
		{intPtr(25), RatingMediocre},
		{intPtr(24), RatingPoor},
		{intPtr(0), RatingPoor},
	}
	for _, tt := range tests {
		if got := RatingBand(tt.score); got != tt.want {
			t.Errorf("RatingBand(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
