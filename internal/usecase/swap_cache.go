package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/swaplens/backend/internal/domain"
)

// CatalogSwapCache implements domain.SwapCache over the catalog's
// curated-swap columns. Get is a plain read-through; Populate stamps the
// list with origin=dynamic and the current time, either synchronously or
// fire-and-forget. Writes are idempotent-enough that no lock is needed:
// readers re-validate through the resolver waterfall rather than trusting
// the cache blindly.
type CatalogSwapCache struct {
	catalog      domain.CatalogStore
	asynchronous bool
	now          func() time.Time
	logger       *zap.Logger
}

// NewCatalogSwapCache creates the write-behind cache. With asynchronous set,
// Populate returns immediately and persists in the background.
func NewCatalogSwapCache(catalog domain.CatalogStore, asynchronous bool, logger *zap.Logger) *CatalogSwapCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogSwapCache{
		catalog:      catalog,
		asynchronous: asynchronous,
		now:          time.Now,
		logger:       logger,
	}
}

// Get returns the product's current curated-swap list.
func (c *CatalogSwapCache) Get(ctx context.Context, productID string) ([]string, error) {
	return c.catalog.GetCuratedSwaps(ctx, productID)
}

// Populate writes discovered swap identifiers back onto the product.
func (c *CatalogSwapCache) Populate(ctx context.Context, productID string, swapIDs []string) error {
	if !c.asynchronous {
		return c.catalog.WriteCuratedSwaps(ctx, productID, swapIDs, domain.SwapOriginDynamic, c.now())
	}

	go func() {
		// Detached from the request context: the write should outlive
		// the response it was triggered by.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.catalog.WriteCuratedSwaps(ctx, productID, swapIDs, domain.SwapOriginDynamic, c.now()); err != nil {
			c.logger.Warn("async swap cache write failed",
				zap.String("product_id", productID), zap.Error(err))
		}
	}()
	return nil
}
