package recommend

import (
	"context"
	"testing"

	"github.com/mekanapp/mekan-backend/internal/places"
	"github.com/mekanapp/mekan-backend/internal/taste"
)

type fakePlaceRepo struct {
	places.Repository
	candidates []*places.Place
}

func (f *fakePlaceRepo) ListCandidates(_ context.Context, _ int64, _ bool) ([]*places.Place, error) {
	return f.candidates, nil
}

type fakeProfiles struct {
	profile *taste.Profile
}

func (f *fakeProfiles) GetProfile(_ context.Context, _ int64) (*taste.Profile, error) {
	if f.profile == nil {
		return nil, taste.ErrProfileNotFound
	}
	return f.profile, nil
}

func newTestService(candidates []*places.Place, profile *taste.Profile) Service {
	return NewService(
		&fakePlaceRepo{candidates: candidates},
		&fakeProfiles{profile: profile},
		nil, 10, 50,
	)
}

func TestRescaleScores(t *testing.T) {
	scored := []*Result{
		{Score: 0.4},
		{Score: 0.98},
		{Score: 0.2},
	}

	rescaleScores(scored)

	want := []float64{0.388, 0.95, 0.194}
	for i, result := range scored {
		if result.Score != want[i] {
			t.Errorf("score[%d] = %v, want %v", i, result.Score, want[i])
		}
	}
}

func TestRescaleScoresLeavesLowDistribution(t *testing.T) {
	scored := []*Result{
		{Score: 0.9},
		{Score: 0.4},
	}

	rescaleScores(scored)

	if scored[0].Score != 0.9 || scored[1].Score != 0.4 {
		t.Errorf("scores changed without exceeding the ceiling: %v, %v", scored[0].Score, scored[1].Score)
	}
}

func TestRecommendPopularityMode(t *testing.T) {
	candidates := []*places.Place{
		{ID: 1, Name: "Unreviewed", ReviewCount: 0},
		{ID: 2, Name: "Solid", AverageRating: 4.0, ReviewCount: 50},
		{ID: 3, Name: "Beloved", AverageRating: 5.0, ReviewCount: 10},
	}

	response, err := newTestService(candidates, nil).Recommend(context.Background(), 1, nil, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if response.Count != 2 {
		t.Fatalf("count = %d, want 2 (unreviewed places excluded)", response.Count)
	}

	// Beloved: min(1, 5/5 + 0.1) = 1.0; Solid: min(1, 4/5 + 0.3) = 1.0.
	// Both hit the cap, so the ceiling rescale pulls them to 0.95 and the
	// rating sort decides the order.
	if response.Results[0].ID != 3 {
		t.Errorf("top result = %d, want the higher-rated place", response.Results[0].ID)
	}
	for _, result := range response.Results {
		if result.Score != 0.95 {
			t.Errorf("score for %q = %v, want 0.95", result.Name, result.Score)
		}
	}
}

func TestRecommendPopularityFormula(t *testing.T) {
	candidates := []*places.Place{
		{ID: 1, AverageRating: 3.0, ReviewCount: 20},
	}

	response, err := newTestService(candidates, nil).Recommend(context.Background(), 1, nil, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// 3/5 + min(0.3, 20/100) = 0.8
	if got := response.Results[0].Score; got != 0.8 {
		t.Errorf("score = %v, want 0.8", got)
	}
}

func TestRecommendFilteredMode(t *testing.T) {
	candidates := []*places.Place{
		{ID: 1, Name: "Kafeka", Categories: places.StringList{"coffee"}, PriceLevel: "₺₺"},
		{ID: 2, Name: "Bar Bar", Categories: places.StringList{"bar"}, PriceLevel: "₺₺₺"},
	}

	query := &Query{Category: []string{"coffee"}}
	response, err := newTestService(candidates, nil).Recommend(context.Background(), 1, query, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if response.Count != 2 {
		t.Fatalf("count = %d, want 2", response.Count)
	}
	if response.Results[0].ID != 1 {
		t.Errorf("top result = %d, want the category match", response.Results[0].ID)
	}
	if response.Results[0].Score <= response.Results[1].Score {
		t.Errorf("scores not ranked: %v <= %v", response.Results[0].Score, response.Results[1].Score)
	}
}

func TestRecommendRatingBonus(t *testing.T) {
	candidates := []*places.Place{
		{ID: 1, Categories: places.StringList{"coffee"}, AverageRating: 5.0, ReviewCount: 3},
		{ID: 2, Categories: places.StringList{"coffee"}},
	}

	query := &Query{Category: []string{"coffee"}}
	response, err := newTestService(candidates, nil).Recommend(context.Background(), 1, query, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// Identical match sub-scores; the (rating/5)*0.2 bonus breaks the tie
	if response.Results[0].ID != 1 {
		t.Errorf("top result = %d, want the rated place", response.Results[0].ID)
	}
}

func TestRecommendProfileTriggersFilteredMode(t *testing.T) {
	profile := &taste.Profile{
		UserID:          1,
		CategoryWeights: taste.WeightMap{{Key: "coffee", Weight: 1.0}},
	}
	candidates := []*places.Place{
		{ID: 1, Categories: places.StringList{"coffee"}},
		{ID: 2, Categories: places.StringList{"bar"}, AverageRating: 5.0, ReviewCount: 99},
	}

	response, err := newTestService(candidates, profile).Recommend(context.Background(), 1, nil, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// With a profile the scorer ranks by taste, not popularity
	if response.Results[0].ID != 1 {
		t.Errorf("top result = %d, want the profile match", response.Results[0].ID)
	}
}

func TestRecommendLimits(t *testing.T) {
	var candidates []*places.Place
	for i := 1; i <= 60; i++ {
		candidates = append(candidates, &places.Place{
			ID:            int64(i),
			AverageRating: 4.0,
			ReviewCount:   i,
		})
	}
	svc := newTestService(candidates, nil)

	response, err := svc.Recommend(context.Background(), 1, nil, 100)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if response.Count != 50 {
		t.Errorf("count = %d, want the hard cap 50", response.Count)
	}

	response, err = svc.Recommend(context.Background(), 1, nil, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if response.Count != 10 {
		t.Errorf("count = %d, want the default 10", response.Count)
	}
}

func TestRecommendNormalizesQuery(t *testing.T) {
	response, err := newTestService(nil, nil).Recommend(context.Background(), 1, &Query{
		Category: []string{" coffee ", "", "bar"},
	}, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(response.Query.Category) != 2 || response.Query.Category[0] != "coffee" {
		t.Errorf("normalized category = %v", response.Query.Category)
	}
	if response.Query.Atmosphere == nil {
		t.Error("atmosphere should echo as an empty list, not null")
	}
}
