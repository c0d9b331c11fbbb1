package taste

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/mekanapp/mekan-backend/internal/places"
)

func testPlace(id int64, categories, tags []string) *places.Place {
	return &places.Place{
		ID:         id,
		Categories: categories,
		Tags:       tags,
	}
}

func swipe(placeID int64, kind string) *places.Interaction {
	return &places.Interaction{
		UserID:    1,
		PlaceID:   placeID,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

func review(placeID int64, rating int, atmosphereTags, contextTags []string) *places.Interaction {
	return &places.Interaction{
		UserID:         1,
		PlaceID:        placeID,
		Kind:           places.KindReview,
		Rating:         &rating,
		AtmosphereTags: atmosphereTags,
		ContextTags:    contextTags,
		Timestamp:      time.Now(),
	}
}

func attrsFor(ps ...*places.Place) map[int64]*places.Place {
	attrs := make(map[int64]*places.Place, len(ps))
	for _, p := range ps {
		attrs[p.ID] = p
	}
	return attrs
}

func TestBuildBelowMinimum(t *testing.T) {
	interactions := []*places.Interaction{
		swipe(1, places.KindSwipeLike),
		swipe(2, places.KindSwipeLike),
		swipe(3, places.KindSwipeLike),
		swipe(4, places.KindSwipeLike),
	}

	if _, err := Build(1, interactions, nil, 5); err != ErrInsufficientData {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestBuildCategoryDistribution(t *testing.T) {
	attrs := attrsFor(
		testPlace(1, []string{"coffee"}, nil),
		testPlace(2, []string{"coffee"}, nil),
		testPlace(3, []string{"coffee"}, nil),
		testPlace(4, []string{"bar"}, nil),
		testPlace(5, []string{"bar"}, nil),
	)
	interactions := []*places.Interaction{
		swipe(1, places.KindSwipeLike),
		swipe(2, places.KindSwipeLike),
		swipe(3, places.KindSwipeLike),
		swipe(4, places.KindSwipeLike),
		swipe(5, places.KindSwipeLike),
	}

	profile, err := Build(1, interactions, attrs, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got, _ := profile.CategoryWeights.Get("coffee"); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("coffee weight = %v, want 0.6", got)
	}
	if got, _ := profile.CategoryWeights.Get("bar"); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("bar weight = %v, want 0.4", got)
	}
}

func TestBuildDislikesClampToZero(t *testing.T) {
	attrs := attrsFor(
		testPlace(1, []string{"coffee"}, nil),
		testPlace(2, []string{"bar"}, nil),
		testPlace(3, []string{"bar"}, nil),
	)
	interactions := []*places.Interaction{
		swipe(1, places.KindSwipeLike),
		swipe(2, places.KindSwipeDislike),
		swipe(3, places.KindSwipeDislike),
	}

	profile, err := Build(1, interactions, attrs, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, ok := profile.CategoryWeights.Get("bar"); ok {
		t.Error("negatively scored category should be dropped")
	}
	if got, _ := profile.CategoryWeights.Get("coffee"); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("coffee weight = %v, want 1.0", got)
	}
}

func TestBuildWeightsInvariants(t *testing.T) {
	attrs := attrsFor(
		testPlace(1, []string{"coffee", "brunch"}, []string{"sessiz"}),
		testPlace(2, []string{"bar"}, []string{"canlı"}),
		testPlace(3, []string{"coffee"}, []string{"sessiz"}),
		testPlace(4, []string{"restoran"}, nil),
		testPlace(5, []string{"brunch"}, []string{"bahçeli"}),
	)
	interactions := []*places.Interaction{
		swipe(1, places.KindSwipeLike),
		swipe(2, places.KindSwipeSave),
		swipe(3, places.KindSwipeLike),
		swipe(4, places.KindSwipeDislike),
		swipe(5, places.KindSwipeLike),
	}

	profile, err := Build(1, interactions, attrs, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for name, weights := range map[string]WeightMap{
		"category":   profile.CategoryWeights,
		"atmosphere": profile.AtmosphereWeights,
	} {
		var sum float64
		for i, entry := range weights {
			if entry.Weight < 0 {
				t.Errorf("%s weight for %q is negative", name, entry.Key)
			}
			if i > 0 && weights[i-1].Weight < entry.Weight {
				t.Errorf("%s weights not sorted descending at %d", name, i)
			}
			sum += entry.Weight
		}
		if !weights.IsEmpty() && math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("%s weights sum to %v, want 1.0", name, sum)
		}
	}
}

func TestBuildCapsEntries(t *testing.T) {
	categories := []string{
		"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l",
	}

	attrs := make(map[int64]*places.Place)
	var interactions []*places.Interaction
	for i, category := range categories {
		id := int64(i + 1)
		attrs[id] = testPlace(id, []string{category}, nil)
		interactions = append(interactions, swipe(id, places.KindSwipeLike))
	}

	profile, err := Build(1, interactions, attrs, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(profile.CategoryWeights) != MaxWeightEntries {
		t.Errorf("kept %d categories, want %d", len(profile.CategoryWeights), MaxWeightEntries)
	}
}

func TestBuildReviewWeights(t *testing.T) {
	attrs := attrsFor(
		testPlace(1, []string{"coffee"}, nil),
		testPlace(2, []string{"bar"}, nil),
		testPlace(3, []string{"brunch"}, nil),
	)
	interactions := []*places.Interaction{
		review(1, 5, nil, nil),
		review(2, 1, nil, nil),
		review(3, 3, nil, nil),
	}

	profile, err := Build(1, interactions, attrs, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Positive raw scores are 1.2 (coffee) and 0.5 (brunch); bar's -1.2 drops
	if _, ok := profile.CategoryWeights.Get("bar"); ok {
		t.Error("panned category should be dropped")
	}
	if got, _ := profile.CategoryWeights.Get("coffee"); math.Abs(got-1.2/1.7) > 1e-9 {
		t.Errorf("coffee weight = %v, want %v", got, 1.2/1.7)
	}
	if got, _ := profile.CategoryWeights.Get("brunch"); math.Abs(got-0.5/1.7) > 1e-9 {
		t.Errorf("brunch weight = %v, want %v", got, 0.5/1.7)
	}
}

func TestBuildReviewAtmosphereDiscount(t *testing.T) {
	attrs := attrsFor(
		testPlace(1, []string{"coffee"}, []string{"sessiz"}),
	)
	interactions := []*places.Interaction{
		review(1, 5, []string{"bahçeli"}, nil),
		swipe(1, places.KindSwipeLike),
		swipe(1, places.KindSwipeLike),
	}

	profile, err := Build(1, interactions, attrs, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// sessiz: 1.2 + 1.0 + 1.0 from place tags, bahçeli: 1.2 * 0.8 from the review
	sessiz, _ := profile.AtmosphereWeights.Get("sessiz")
	bahceli, _ := profile.AtmosphereWeights.Get("bahçeli")
	if math.Abs(bahceli/sessiz-0.96/3.2) > 1e-9 {
		t.Errorf("atmosphere ratio = %v, want %v", bahceli/sessiz, 0.96/3.2)
	}
}

func TestBuildContextSignals(t *testing.T) {
	attrs := attrsFor(
		testPlace(1, []string{"coffee", "dost"}, nil),
		testPlace(2, []string{"coffee"}, nil),
		testPlace(3, []string{"coffee"}, nil),
	)
	interactions := []*places.Interaction{
		swipe(1, places.KindSwipeLike),
		swipe(2, places.KindSwipeLike),
		review(3, 5, nil, []string{"solo"}),
	}

	profile, err := Build(1, interactions, attrs, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// "dost" category lands on the canonical "arkadaş" key at half weight;
	// the review's "solo" context normalizes to "tek" at full weight
	arkadas, ok := profile.ContextWeights.Get("arkadaş")
	if !ok {
		t.Fatal("expected arkadaş context from dost category")
	}
	tek, ok := profile.ContextWeights.Get("tek")
	if !ok {
		t.Fatal("expected tek context from solo review tag")
	}
	if math.Abs(arkadas/tek-0.5/1.2) > 1e-9 {
		t.Errorf("context ratio = %v, want %v", arkadas/tek, 0.5/1.2)
	}
}

func TestBuildStyleLabel(t *testing.T) {
	attrs := attrsFor(
		testPlace(1, []string{"kafe"}, []string{"sessiz"}),
		testPlace(2, []string{"kafe"}, []string{"sessiz"}),
		testPlace(3, []string{"brunch"}, nil),
	)
	interactions := []*places.Interaction{
		swipe(1, places.KindSwipeLike),
		swipe(2, places.KindSwipeLike),
		swipe(3, places.KindSwipeLike),
	}

	profile, err := Build(1, interactions, attrs, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if profile.StyleLabel != "Kahve + Brunch + Sessiz" {
		t.Errorf("style label = %q, want %q", profile.StyleLabel, "Kahve + Brunch + Sessiz")
	}
}

func TestBuildStyleLabelPlaceholder(t *testing.T) {
	attrs := attrsFor(
		testPlace(1, []string{"bar"}, nil),
		testPlace(2, []string{"bar"}, nil),
		testPlace(3, []string{"bar"}, nil),
	)
	interactions := []*places.Interaction{
		swipe(1, places.KindSwipeDislike),
		swipe(2, places.KindSwipeDislike),
		swipe(3, places.KindSwipeDislike),
	}

	profile, err := Build(1, interactions, attrs, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if profile.StyleLabel != "Henüz profil oluşturulamadı" {
		t.Errorf("style label = %q, want placeholder", profile.StyleLabel)
	}
}

func TestBuildDeterministic(t *testing.T) {
	attrs := attrsFor(
		testPlace(1, []string{"coffee", "brunch"}, []string{"sessiz", "bahçeli"}),
		testPlace(2, []string{"bar"}, []string{"canlı"}),
		testPlace(3, []string{"coffee"}, []string{"sessiz"}),
	)
	interactions := []*places.Interaction{
		swipe(1, places.KindSwipeLike),
		swipe(2, places.KindSwipeSave),
		review(3, 4, []string{"sakin"}, []string{"friends"}),
	}

	first, err := Build(1, interactions, attrs, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(1, interactions, attrs, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a, _ := json.Marshal(first.CategoryWeights)
	b, _ := json.Marshal(second.CategoryWeights)
	if string(a) != string(b) {
		t.Errorf("category weights differ across runs: %s vs %s", a, b)
	}
}

func TestWeightMapJSONKeepsOrder(t *testing.T) {
	weights := WeightMap{
		{Key: "coffee", Weight: 0.6},
		{Key: "bar", Weight: 0.4},
	}

	data, err := json.Marshal(weights)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"coffee":0.6,"bar":0.4}` {
		t.Errorf("marshaled = %s", data)
	}
}

func TestShouldRecalculate(t *testing.T) {
	cases := []struct {
		name       string
		count      int
		hasProfile bool
		want       bool
	}{
		{"below minimum", 4, false, false},
		{"at minimum without profile", 5, false, true},
		{"at minimum with profile off step", 5, true, false},
		{"above minimum without profile", 7, false, true},
		{"on step with profile", 10, true, true},
		{"off step with profile", 11, true, false},
		{"second step", 20, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldRecalculate(tc.count, tc.hasProfile, 5, 10); got != tc.want {
				t.Errorf("ShouldRecalculate(%d, %v) = %v, want %v", tc.count, tc.hasProfile, got, tc.want)
			}
		})
	}
}

func TestCanonicalContext(t *testing.T) {
	cases := map[string]string{
		"friends":  "arkadaş",
		"dost":     "arkadaş",
		"solo":     "tek",
		"work":     "is",
		"Family":   "aile",
		"romantik": "romantik",
	}

	for token, want := range cases {
		if got := CanonicalContext(token); got != want {
			t.Errorf("CanonicalContext(%q) = %q, want %q", token, got, want)
		}
	}
}
