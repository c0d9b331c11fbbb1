package social

import (
	"context"

	"github.com/mekanapp/mekan-backend/internal/places"
)

// Engagement weights per signal type
const (
	likeWeight   = 0.5
	visitWeight  = 0.3
	reviewWeight = 0.2
)

type Service interface {
	// ComputeMatch recomputes and stores the friend-engagement match for
	// one place. Returns (nil, nil) when the user has no accepted
	// friendships; nothing is stored in that case.
	ComputeMatch(ctx context.Context, userID, placeID int64) (*Match, error)

	// ListMatches returns the strongest stored matches with their places
	ListMatches(ctx context.Context, userID int64, limit int) ([]*RankedMatch, error)
}

type service struct {
	repo      Repository
	placeRepo places.Repository
}

func NewService(repo Repository, placeRepo places.Repository) Service {
	return &service{repo: repo, placeRepo: placeRepo}
}

func (s *service) ComputeMatch(ctx context.Context, userID, placeID int64) (*Match, error) {
	if _, err := s.placeRepo.GetPlace(ctx, placeID); err != nil {
		return nil, err
	}

	friendIDs, err := s.repo.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return nil, nil
	}

	likes, visits, reviews, err := s.repo.CountFriendEngagement(ctx, friendIDs, placeID)
	if err != nil {
		return nil, err
	}

	match := &Match{
		UserID:        userID,
		PlaceID:       placeID,
		FriendLikes:   likes,
		FriendVisits:  visits,
		FriendReviews: reviews,
		MatchScore:    matchScore(likes, visits, reviews, len(friendIDs)),
	}

	if err := s.repo.UpsertMatch(ctx, match); err != nil {
		return nil, err
	}

	RecordMatchComputed(match.MatchScore)

	return match, nil
}

func matchScore(likes, visits, reviews, friendCount int) float64 {
	weighted := float64(likes)*likeWeight +
		float64(visits)*visitWeight +
		float64(reviews)*reviewWeight

	score := weighted / float64(friendCount)
	if score > 1.0 {
		return 1.0
	}
	return score
}

func (s *service) ListMatches(ctx context.Context, userID int64, limit int) ([]*RankedMatch, error) {
	matches, err := s.repo.ListTopMatches(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	placeIDs := make([]int64, 0, len(matches))
	for _, match := range matches {
		placeIDs = append(placeIDs, match.PlaceID)
	}

	attrs, err := s.placeRepo.GetPlacesByIDs(ctx, placeIDs)
	if err != nil {
		return nil, err
	}

	ranked := make([]*RankedMatch, 0, len(matches))
	for _, match := range matches {
		place, ok := attrs[match.PlaceID]
		if !ok {
			continue
		}
		ranked = append(ranked, &RankedMatch{
			Place:         place,
			Score:         match.MatchScore,
			FriendLikes:   match.FriendLikes,
			FriendVisits:  match.FriendVisits,
			FriendReviews: match.FriendReviews,
		})
	}

	return ranked, nil
}
