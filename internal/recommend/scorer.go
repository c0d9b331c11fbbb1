package recommend

import (
	"strings"

	"github.com/mekanapp/mekan-backend/internal/places"
	"github.com/mekanapp/mekan-backend/internal/taste"
)

// Blend weights for the four scoring dimensions
const (
	categoryWeight   = 0.4
	atmosphereWeight = 0.3
	contextWeight    = 0.2
	priceWeight      = 0.1

	neutralScore = 0.5
)

var priceLevels = []string{"₺", "₺₺", "₺₺₺"}

// Score blends four dimension sub-scores into a 0..1 relevance score for a
// place against a query. The profile stands in for missing query filters.
// Pure and deterministic.
func Score(place *places.Place, query *Query, profile *taste.Profile) float64 {
	score := categoryMatch(place, query, profile)*categoryWeight +
		atmosphereMatch(place, query, profile)*atmosphereWeight +
		contextMatch(place, query, profile)*contextWeight +
		priceMatch(place, query)*priceWeight

	if score > 1.0 {
		return 1.0
	}
	if score < 0.0 {
		return 0.0
	}
	return score
}

// setOverlap scores a query set against a place set: full containment 1.0,
// any intersection 0.5, otherwise 0.0
func setOverlap(querySet []string, placeSet []string) float64 {
	members := make(map[string]bool, len(placeSet))
	for _, item := range placeSet {
		members[item] = true
	}

	matched := 0
	for _, item := range querySet {
		if members[item] {
			matched++
		}
	}

	switch {
	case matched == len(querySet):
		return 1.0
	case matched > 0:
		return 0.5
	default:
		return 0.0
	}
}

func categoryMatch(place *places.Place, query *Query, profile *taste.Profile) float64 {
	if query != nil && len(query.Category) > 0 {
		return setOverlap(query.Category, place.Categories)
	}

	if profile != nil && !profile.CategoryWeights.IsEmpty() {
		return setOverlap(profile.CategoryWeights.TopKeys(2), place.Categories)
	}

	return neutralScore
}

func atmosphereMatch(place *places.Place, query *Query, profile *taste.Profile) float64 {
	if query != nil && len(query.Atmosphere) > 0 {
		return setOverlap(query.Atmosphere, place.Tags)
	}

	if profile != nil && !profile.AtmosphereWeights.IsEmpty() {
		return setOverlap(profile.AtmosphereWeights.TopKeys(2), place.Tags)
	}

	return neutralScore
}

func contextMatch(place *places.Place, query *Query, profile *taste.Profile) float64 {
	if query != nil && query.Context != "" {
		contextKey := taste.CanonicalContext(query.Context)
		if contextPresent(place.Categories, contextKey) {
			if profile != nil && !profile.ContextWeights.IsEmpty() {
				if weight, ok := profile.ContextWeights.Get(contextKey); ok {
					return weight
				}
				return neutralScore
			}
			return 1.0
		}
		return 0.0
	}

	if profile != nil && !profile.ContextWeights.IsEmpty() {
		top := profile.ContextWeights[0]
		if contextPresent(place.Categories, top.Key) {
			return top.Weight
		}
		return 0.0
	}

	return neutralScore
}

// contextPresent checks the canonical context key against the place's raw
// categories. Catalogs label the friend context "dost", so "arkadaş" also
// matches a place carrying "dost".
func contextPresent(placeCategories []string, contextKey string) bool {
	hasDost := false
	for _, category := range placeCategories {
		if category == contextKey {
			return true
		}
		if category == "dost" {
			hasDost = true
		}
	}
	return hasDost && contextKey == "arkadaş"
}

func priceMatch(place *places.Place, query *Query) float64 {
	if query == nil || query.Price == "" {
		return neutralScore
	}

	queryIdx := priceIndex(strings.ReplaceAll(query.Price, "$", "₺"))
	placeIdx := priceIndex(place.PriceLevel)

	diff := queryIdx - placeIdx
	if diff < 0 {
		diff = -diff
	}

	switch diff {
	case 0:
		return 1.0
	case 1:
		return 0.5
	default:
		return 0.0
	}
}

// priceIndex maps a price symbol to its tier; unknown or empty symbols land
// on the middle tier
func priceIndex(price string) int {
	for i, level := range priceLevels {
		if price == level {
			return i
		}
	}
	return 1
}
