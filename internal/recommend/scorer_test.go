package recommend

import (
	"math"
	"testing"

	"github.com/mekanapp/mekan-backend/internal/places"
	"github.com/mekanapp/mekan-backend/internal/taste"
)

func place(categories, tags []string, price string) *places.Place {
	return &places.Place{
		Categories: categories,
		Tags:       tags,
		PriceLevel: price,
	}
}

func TestCategoryMatchSubset(t *testing.T) {
	p := place([]string{"coffee", "bar"}, nil, "")
	query := &Query{Category: []string{"coffee"}}

	if got := categoryMatch(p, query, nil); got != 1.0 {
		t.Errorf("category sub-score = %v, want 1.0", got)
	}
}

func TestCategoryMatchIntersection(t *testing.T) {
	p := place([]string{"coffee"}, nil, "")
	query := &Query{Category: []string{"coffee", "wine"}}

	if got := categoryMatch(p, query, nil); got != 0.5 {
		t.Errorf("category sub-score = %v, want 0.5", got)
	}
}

func TestCategoryMatchDisjoint(t *testing.T) {
	p := place([]string{"bar"}, nil, "")
	query := &Query{Category: []string{"coffee"}}

	if got := categoryMatch(p, query, nil); got != 0.0 {
		t.Errorf("category sub-score = %v, want 0.0", got)
	}
}

func TestCategoryMatchProfileFallback(t *testing.T) {
	profile := &taste.Profile{
		CategoryWeights: taste.WeightMap{
			{Key: "coffee", Weight: 0.6},
			{Key: "brunch", Weight: 0.3},
			{Key: "bar", Weight: 0.1},
		},
	}

	// Top-2 profile keys act as the query set
	full := place([]string{"coffee", "brunch", "restoran"}, nil, "")
	if got := categoryMatch(full, &Query{}, profile); got != 1.0 {
		t.Errorf("full containment = %v, want 1.0", got)
	}

	partial := place([]string{"coffee"}, nil, "")
	if got := categoryMatch(partial, &Query{}, profile); got != 0.5 {
		t.Errorf("partial containment = %v, want 0.5", got)
	}
}

func TestCategoryMatchNeutral(t *testing.T) {
	p := place([]string{"bar"}, nil, "")

	if got := categoryMatch(p, &Query{}, nil); got != neutralScore {
		t.Errorf("neutral sub-score = %v, want %v", got, neutralScore)
	}
}

func TestContextMatchSynonym(t *testing.T) {
	// "friends" resolves to arkadaş, which a "dost"-labeled place carries
	p := place([]string{"coffee", "dost"}, nil, "")
	query := &Query{Context: "friends"}

	if got := contextMatch(p, query, nil); got != 1.0 {
		t.Errorf("context sub-score = %v, want 1.0 without a profile", got)
	}
}

func TestContextMatchProfileWeight(t *testing.T) {
	p := place([]string{"arkadaş"}, nil, "")
	query := &Query{Context: "friends"}
	profile := &taste.Profile{
		ContextWeights: taste.WeightMap{{Key: "arkadaş", Weight: 0.7}},
	}

	if got := contextMatch(p, query, profile); got != 0.7 {
		t.Errorf("context sub-score = %v, want the profile weight 0.7", got)
	}
}

func TestContextMatchAbsent(t *testing.T) {
	p := place([]string{"coffee"}, nil, "")
	query := &Query{Context: "solo"}

	if got := contextMatch(p, query, nil); got != 0.0 {
		t.Errorf("context sub-score = %v, want 0.0", got)
	}
}

func TestContextMatchTopProfileFallback(t *testing.T) {
	profile := &taste.Profile{
		ContextWeights: taste.WeightMap{
			{Key: "tek", Weight: 0.8},
			{Key: "aile", Weight: 0.2},
		},
	}

	hit := place([]string{"tek"}, nil, "")
	if got := contextMatch(hit, &Query{}, profile); got != 0.8 {
		t.Errorf("fallback hit = %v, want 0.8", got)
	}

	miss := place([]string{"aile"}, nil, "")
	if got := contextMatch(miss, &Query{}, profile); got != 0.0 {
		t.Errorf("fallback miss = %v, want 0.0", got)
	}
}

func TestPriceMatch(t *testing.T) {
	cases := []struct {
		name       string
		placePrice string
		queryPrice string
		want       float64
	}{
		{"same tier", "₺₺", "₺₺", 1.0},
		{"adjacent tier", "₺", "₺₺", 0.5},
		{"two tiers apart", "₺", "₺₺₺", 0.0},
		{"dollar symbols normalize", "₺₺", "$$", 1.0},
		{"unknown defaults to mid", "", "₺₺", 1.0},
		{"no query price is neutral", "₺₺₺", "", neutralScore},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := place(nil, nil, tc.placePrice)
			query := &Query{Price: tc.queryPrice}
			if got := priceMatch(p, query); got != tc.want {
				t.Errorf("price sub-score = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScoreBlendsWeights(t *testing.T) {
	p := place([]string{"coffee"}, []string{"sessiz"}, "₺₺")
	query := &Query{
		Category:   []string{"coffee"},
		Atmosphere: []string{"sessiz"},
		Price:      "₺₺",
	}

	// 1.0*0.4 + 1.0*0.3 + 0.5*0.2 + 1.0*0.1
	want := 0.9
	if got := Score(p, query, nil); math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScoreNeutralEverything(t *testing.T) {
	p := place([]string{"bar"}, []string{"canlı"}, "₺")

	if got := Score(p, &Query{}, nil); math.Abs(got-neutralScore) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, neutralScore)
	}
}

func TestScoreDeterministic(t *testing.T) {
	p := place([]string{"coffee", "dost"}, []string{"sessiz"}, "₺₺")
	query := &Query{Category: []string{"coffee"}, Context: "friends", Price: "₺"}
	profile := &taste.Profile{
		CategoryWeights:   taste.WeightMap{{Key: "coffee", Weight: 1.0}},
		AtmosphereWeights: taste.WeightMap{{Key: "sessiz", Weight: 1.0}},
		ContextWeights:    taste.WeightMap{{Key: "arkadaş", Weight: 0.6}},
	}

	first := Score(p, query, profile)
	second := Score(p, query, profile)
	if first != second {
		t.Errorf("Score not deterministic: %v vs %v", first, second)
	}
}
