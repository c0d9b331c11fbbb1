package social

import (
	"context"
	"math"
	"testing"

	"github.com/mekanapp/mekan-backend/internal/places"
)

type fakeRepo struct {
	friends []int64
	likes   int
	visits  int
	reviews int
	stored  []*Match
}

func (f *fakeRepo) GetFriendIDs(_ context.Context, _ int64) ([]int64, error) {
	return f.friends, nil
}

func (f *fakeRepo) CountFriendEngagement(_ context.Context, _ []int64, _ int64) (int, int, int, error) {
	return f.likes, f.visits, f.reviews, nil
}

func (f *fakeRepo) UpsertMatch(_ context.Context, match *Match) error {
	f.stored = append(f.stored, match)
	return nil
}

func (f *fakeRepo) ListTopMatches(_ context.Context, _ int64, limit int) ([]*Match, error) {
	if len(f.stored) > limit {
		return f.stored[:limit], nil
	}
	return f.stored, nil
}

type fakePlaceRepo struct {
	places.Repository
	known map[int64]*places.Place
}

func (f *fakePlaceRepo) GetPlace(_ context.Context, id int64) (*places.Place, error) {
	place, ok := f.known[id]
	if !ok {
		return nil, places.ErrPlaceNotFound
	}
	return place, nil
}

func (f *fakePlaceRepo) GetPlacesByIDs(_ context.Context, ids []int64) (map[int64]*places.Place, error) {
	result := make(map[int64]*places.Place, len(ids))
	for _, id := range ids {
		if place, ok := f.known[id]; ok {
			result[id] = place
		}
	}
	return result, nil
}

func catalogWith(ids ...int64) *fakePlaceRepo {
	known := make(map[int64]*places.Place, len(ids))
	for _, id := range ids {
		known[id] = &places.Place{ID: id}
	}
	return &fakePlaceRepo{known: known}
}

func TestComputeMatchNoFriends(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, catalogWith(1))

	match, err := svc.ComputeMatch(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("ComputeMatch: %v", err)
	}
	if match != nil {
		t.Fatalf("expected nil match without friends, got %+v", match)
	}
	if len(repo.stored) != 0 {
		t.Error("nothing should be stored without friends")
	}
}

func TestComputeMatchUnknownPlace(t *testing.T) {
	svc := NewService(&fakeRepo{friends: []int64{2}}, catalogWith())

	if _, err := svc.ComputeMatch(context.Background(), 1, 99); err != places.ErrPlaceNotFound {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestComputeMatchScore(t *testing.T) {
	repo := &fakeRepo{
		friends: []int64{2, 3, 4, 5},
		likes:   2,
		visits:  1,
		reviews: 1,
	}
	svc := NewService(repo, catalogWith(7))

	match, err := svc.ComputeMatch(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("ComputeMatch: %v", err)
	}

	// (2*0.5 + 1*0.3 + 1*0.2) / 4 = 0.375
	if math.Abs(match.MatchScore-0.375) > 1e-9 {
		t.Errorf("score = %v, want 0.375", match.MatchScore)
	}
	if len(repo.stored) != 1 {
		t.Fatalf("stored %d matches, want 1", len(repo.stored))
	}
	if match.FriendLikes != 2 || match.FriendVisits != 1 || match.FriendReviews != 1 {
		t.Errorf("counts = %d/%d/%d", match.FriendLikes, match.FriendVisits, match.FriendReviews)
	}
}

func TestComputeMatchScoreCapped(t *testing.T) {
	repo := &fakeRepo{
		friends: []int64{2},
		likes:   5,
		visits:  5,
		reviews: 5,
	}
	svc := NewService(repo, catalogWith(7))

	match, err := svc.ComputeMatch(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("ComputeMatch: %v", err)
	}
	if match.MatchScore != 1.0 {
		t.Errorf("score = %v, want the 1.0 cap", match.MatchScore)
	}
}

func TestListMatchesResolvesPlaces(t *testing.T) {
	repo := &fakeRepo{
		stored: []*Match{
			{UserID: 1, PlaceID: 7, MatchScore: 0.8, FriendLikes: 3},
			{UserID: 1, PlaceID: 8, MatchScore: 0.4},
		},
	}
	svc := NewService(repo, catalogWith(7, 8))

	ranked, err := svc.ListMatches(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("got %d matches, want 2", len(ranked))
	}
	if ranked[0].Place.ID != 7 || ranked[0].Score != 0.8 || ranked[0].FriendLikes != 3 {
		t.Errorf("first match = %+v", ranked[0])
	}
}
