package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swaplens/backend/config"
	"github.com/swaplens/backend/internal/domain"
	"github.com/swaplens/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}
}

// stubCatalog is a minimal in-memory domain.CatalogStore for routing tests.
type stubCatalog struct {
	products map[string]*domain.Product
	curated  map[string][]string
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		products: make(map[string]*domain.Product),
		curated:  make(map[string][]string),
	}
}

func (s *stubCatalog) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *stubCatalog) SearchByName(ctx context.Context, token string, limit int) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubCatalog) ListBySubcategory(ctx context.Context, subcategory string, minScore int, excludeID string, limit int) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubCatalog) SearchText(ctx context.Context, query string, minScore int, excludeID string, limit int) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubCatalog) ListByCategory(ctx context.Context, category string, minScore int, excludeID string, limit int) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubCatalog) GetCuratedSwaps(ctx context.Context, id string) ([]string, error) {
	return s.curated[id], nil
}

func (s *stubCatalog) WriteCuratedSwaps(ctx context.Context, id string, swapIDs []string, origin domain.SwapOrigin, at time.Time) error {
	s.curated[id] = swapIDs
	return nil
}

type stubDiscovery struct{}

func (stubDiscovery) Search(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	return nil, nil
}

type stubCommunity struct{}

func (stubCommunity) ReportsByProduct(ctx context.Context, productID string, since time.Time) ([]domain.CommunityReport, error) {
	return nil, nil
}

type stubCrawl struct{}

func (stubCrawl) ListingsByProduct(ctx context.Context, productID, namePattern string, now time.Time) ([]domain.CrawlListing, error) {
	return nil, nil
}

type stubCuratedAvailability struct{}

func (stubCuratedAvailability) StoresByProduct(ctx context.Context, productID string) ([]domain.CuratedStore, error) {
	return nil, nil
}

type stubCache struct{}

func (stubCache) Get(ctx context.Context, key string) (interface{}, error) {
	return nil, domain.ErrCacheMiss
}

func (stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (stubCache) Delete(ctx context.Context, key string) error { return nil }

func (stubCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func setupFullRouter(catalog *stubCatalog) *gin.Engine {
	swapCache := usecase.NewCatalogSwapCache(catalog, false, nil)
	resolver := usecase.NewResolverService(catalog, swapCache, stubDiscovery{}, usecase.ResolverConfig{}, nil)
	availability := usecase.NewAvailabilityService(stubCommunity{}, stubCrawl{}, stubCuratedAvailability{}, usecase.AvailabilityConfig{}, nil)
	swapService := usecase.NewSwapService(catalog, resolver, availability, stubCache{}, usecase.SwapServiceConfig{}, nil)

	return SetupRouter(testConfig(), NewHandler(swapService))
}

func TestHealthCheck(t *testing.T) {
	router := setupFullRouter(newStubCatalog())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}

func TestGetSwapsEndpoint(t *testing.T) {
	score := func(v int) *int { return &v }

	t.Run("returns swaps for a known product", func(t *testing.T) {
		catalog := newStubCatalog()
		catalog.products["A"] = &domain.Product{ID: "A", Name: "Sugar Bomb Cereal"}
		catalog.products["B"] = &domain.Product{ID: "B", Name: "Plain Oat Cereal", Score: score(80)}
		catalog.curated["A"] = []string{"B"}
		router := setupFullRouter(catalog)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/A/swaps", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
		}

		var result domain.SwapResult
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if result.Original.Product.ID != "A" {
			t.Errorf("original = %s, want A", result.Original.Product.ID)
		}
		if len(result.Swaps) != 1 || result.Swaps[0].Product.ID != "B" {
			t.Errorf("swaps = %v, want [B]", result.Swaps)
		}
	})

	t.Run("returns 404 for an unknown product", func(t *testing.T) {
		router := setupFullRouter(newStubCatalog())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/nope/swaps", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("returns 503 when the service is not wired", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/A/swaps", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})
}
