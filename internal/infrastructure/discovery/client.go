package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/swaplens/backend/internal/domain"
)

const defaultTimeout = 3 * time.Second

// Client talks to the external discovery service: a free-text product
// search plus the scoring endpoint used to rate each hit before it is
// returned. Used only as the resolver's last resort, so every call carries
// an explicit timeout and is attempted exactly once per resolution. The
// caller's fallback is "no swaps", not a retry.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	timeout     time.Duration
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new discovery client. A zero timeout falls back to 3s.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// The upstream allows 600 requests per hour; burst covers the scoring
	// calls that follow one search.
	limiter := rate.NewLimiter(rate.Limit(600.0/3600.0), 10)

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      apiKey,
		baseURL:     baseURL,
		timeout:     timeout,
		rateLimiter: limiter,
	}
}

// SetDebug enables request/response logging.
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// Search runs one free-text product search and scores each hit. Hits the
// scoring collaborator cannot rate are dropped. Timeouts and upstream
// errors come back as ErrDiscoveryTimeout / ErrDiscoveryFailure.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrDiscoveryFailure, err)
	}

	endpoint := fmt.Sprintf("%s/v1/products/search", c.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("limit", fmt.Sprintf("%d", limit))
	params.Add("api_key", c.apiKey)

	body, err := c.get(ctx, fmt.Sprintf("%s?%s", endpoint, params.Encode()))
	if err != nil {
		return nil, err
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrDiscoveryFailure, err)
	}

	if c.debug {
		fmt.Fprintf(os.Stderr, "[DISCOVERY] query=%q hits=%d\n", query, len(searchResp.Products))
	}

	products := make([]domain.Product, 0, len(searchResp.Products))
	for _, hit := range searchResp.Products {
		score, err := c.scoreProduct(ctx, hit.ID)
		if err != nil {
			if c.debug {
				fmt.Fprintf(os.Stderr, "[DISCOVERY] dropping unscored hit %s: %v\n", hit.ID, err)
			}
			continue
		}
		products = append(products, mapProduct(hit, score))
	}

	return products, nil
}

// scoreProduct asks the scoring collaborator for a product's score.
func (c *Client) scoreProduct(ctx context.Context, productID string) (int, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: rate limiter: %v", domain.ErrDiscoveryFailure, err)
	}

	endpoint := fmt.Sprintf("%s/v1/products/%s/score", c.baseURL, url.PathEscape(productID))
	params := url.Values{}
	params.Add("api_key", c.apiKey)

	body, err := c.get(ctx, fmt.Sprintf("%s?%s", endpoint, params.Encode()))
	if err != nil {
		return 0, err
	}

	var scoreResp scoreResponse
	if err := json.Unmarshal(body, &scoreResp); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", domain.ErrDiscoveryFailure, err)
	}
	if !scoreResp.Rated {
		return 0, fmt.Errorf("%w: product %s not rated", domain.ErrDiscoveryFailure, productID)
	}
	if scoreResp.Score < 0 || scoreResp.Score > 100 {
		return 0, fmt.Errorf("%w: score %d out of range", domain.ErrDiscoveryFailure, scoreResp.Score)
	}

	return scoreResp.Score, nil
}

// get executes one GET and reads the body. No retries.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrDiscoveryFailure, err)
	}
	req.Header.Set("User-Agent", "SwapLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrDiscoveryTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDiscoveryFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrDiscoveryFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrDiscoveryFailure, resp.StatusCode)
	}

	return body, nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
