package discovery

import "github.com/swaplens/backend/internal/domain"

// searchResponse is the discovery service's search payload.
type searchResponse struct {
	Products []productHit `json:"products"`
	Total    int          `json:"total"`
}

// productHit is one search result before scoring.
type productHit struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

// scoreResponse is the scoring collaborator's payload.
type scoreResponse struct {
	Score int  `json:"score"`
	Rated bool `json:"rated"`
}

// mapProduct converts a scored discovery hit to the domain product model.
func mapProduct(hit productHit, score int) domain.Product {
	return domain.Product{
		ID:          hit.ID,
		Name:        hit.Name,
		Brand:       hit.Brand,
		Category:    hit.Category,
		Subcategory: hit.Subcategory,
		Score:       &score,
	}
}
