package domain

import (
	"fmt"
	"time"
)

// SwapOrigin records how a product's curated-swap list was populated.
type SwapOrigin string

const (
	// SwapOriginNone means the list was assigned editorially (or is empty).
	SwapOriginNone SwapOrigin = "none"

	// SwapOriginDynamic means the list was written back by dynamic discovery.
	SwapOriginDynamic SwapOrigin = "dynamic"
)

// Product represents a catalog product identified by its external code
// (typically a barcode). Score is nil when the scoring collaborator has not
// rated the product yet.
type Product struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Brand          string     `json:"brand,omitempty"`
	Category       string     `json:"category,omitempty"`
	Subcategory    string     `json:"subcategory,omitempty"`
	Score          *int       `json:"score,omitempty"`
	CuratedSwapIDs []string   `json:"curatedSwapIds,omitempty"`
	SwapOrigin     SwapOrigin `json:"swapOrigin,omitempty"`
	SwapsUpdatedAt time.Time  `json:"swapsUpdatedAt,omitempty"`
}

// HasScore reports whether the product carries a score.
func (p *Product) HasScore() bool {
	return p.Score != nil
}

// Validate checks the score range invariant. A nil score is valid.
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: product id is empty", ErrInvalidRequest)
	}
	if p.Score != nil && (*p.Score < 0 || *p.Score > 100) {
		return fmt.Errorf("%w: score %d out of range [0,100]", ErrInvalidRequest, *p.Score)
	}
	return nil
}

// SwapCandidate is one resolved alternative for a product. Candidates are
// computed per request and never persisted.
type SwapCandidate struct {
	Product          Product              `json:"product"`
	ScoreImprovement int                  `json:"scoreImprovement"`
	SavingsPotential *float64             `json:"savingsPotential,omitempty"`
	Rating           string               `json:"rating"`
	Availability     []AvailabilityRecord `json:"availability"`
}

// RatedProduct is the original product annotated for symmetrical display
// alongside its swaps.
type RatedProduct struct {
	Product      Product              `json:"product"`
	Rating       string               `json:"rating"`
	Availability []AvailabilityRecord `json:"availability"`
}

// SwapResult is the full produced surface for one resolution request.
type SwapResult struct {
	Original             RatedProduct    `json:"original"`
	Swaps                []SwapCandidate `json:"swaps"`
	HomemadeAlternatives []string        `json:"homemadeAlternatives"`
	Source               string          `json:"source"` // "live" or "cache"
}
