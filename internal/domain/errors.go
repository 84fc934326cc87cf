package domain

import "errors"

var (
	// ErrProductNotFound is returned when an identifier is absent from the
	// catalog. This is the only resolution error surfaced to callers.
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrSourceUnavailable is returned when a backing store call fails.
	// Callers catch it at tier boundaries and treat the tier as empty.
	ErrSourceUnavailable = errors.New("backing source unavailable")

	// ErrDiscoveryTimeout is returned when the external discovery service
	// does not answer within the deadline.
	ErrDiscoveryTimeout = errors.New("discovery request timed out")

	// ErrDiscoveryFailure is returned when the discovery service answers
	// with an error.
	ErrDiscoveryFailure = errors.New("discovery request failed")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)
