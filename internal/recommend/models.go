package recommend

import "github.com/mekanapp/mekan-backend/internal/places"

// Query is the normalized recommendation request. Category and atmosphere
// hold the already-split filter sets; empty fields mean "no filter".
type Query struct {
	Category   []string `json:"category"`
	Atmosphere []string `json:"atmosphere"`
	Context    string   `json:"context,omitempty"`
	Price      string   `json:"price,omitempty"`
}

func (q *Query) HasFilters() bool {
	if q == nil {
		return false
	}
	return len(q.Category) > 0 || len(q.Atmosphere) > 0 || q.Context != "" || q.Price != ""
}

// Result is one ranked recommendation, a projection of the place plus its
// resolved score
type Result struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Location         string   `json:"location"`
	Score            float64  `json:"score"`
	PriceLevel       string   `json:"price_level"`
	AverageRating    float64  `json:"average_rating"`
	Photos           []string `json:"photos"`
	ShortDescription string   `json:"short_description"`
	Categories       []string `json:"categories"`
	Tags             []string `json:"tags"`
}

// Response pairs the normalized query with the ranked results
type Response struct {
	Query   *Query    `json:"query"`
	Results []*Result `json:"results"`
	Count   int       `json:"count"`
}

func resultFromPlace(place *places.Place, score float64) *Result {
	location := place.City
	if location == "" {
		location = place.Address
	}

	priceLevel := place.PriceLevel
	if priceLevel == "" {
		priceLevel = "₺₺"
	}

	photos := place.Photos
	if photos == nil {
		photos = []string{}
	}

	return &Result{
		ID:               place.ID,
		Name:             place.Name,
		Location:         location,
		Score:            score,
		PriceLevel:       priceLevel,
		AverageRating:    place.AverageRating,
		Photos:           photos,
		ShortDescription: place.ShortDescription,
		Categories:       place.Categories,
		Tags:             place.Tags,
	}
}
