package taste

import (
	"context"
	"log"

	"github.com/mekanapp/mekan-backend/internal/places"
)

type Service interface {
	// GetProfile returns the stored profile, ErrProfileNotFound when the
	// user has none yet
	GetProfile(ctx context.Context, userID int64) (*Profile, error)

	// GetProfileStatus returns the client view: the profile when there is
	// one, the progress toward the minimum otherwise
	GetProfileStatus(ctx context.Context, userID int64) (*ProfileStatus, error)

	// Recalculate rebuilds the profile from the full interaction history.
	// ErrInsufficientData when the user is below the minimum; the stored
	// profile, if any, is left untouched in that case.
	Recalculate(ctx context.Context, userID int64) (*Profile, error)

	// RefreshAfterInteraction applies the recompute trigger policy after a
	// swipe or review. Errors are logged, never surfaced to the caller.
	RefreshAfterInteraction(ctx context.Context, userID int64)
}

type service struct {
	repo            Repository
	placeRepo       places.Repository
	minInteractions int
	recalcStep      int
}

func NewService(repo Repository, placeRepo places.Repository, minInteractions, recalcStep int) Service {
	return &service{
		repo:            repo,
		placeRepo:       placeRepo,
		minInteractions: minInteractions,
		recalcStep:      recalcStep,
	}
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) GetProfileStatus(ctx context.Context, userID int64) (*ProfileStatus, error) {
	count, err := s.placeRepo.CountUserInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &ProfileStatus{
		InteractionCount: count,
		MinInteractions:  s.minInteractions,
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err == ErrProfileNotFound && count >= s.minInteractions {
		// Enough history but never computed; build it on demand
		profile, err = s.Recalculate(ctx, userID)
	}
	if err == ErrProfileNotFound || err == ErrInsufficientData {
		return status, nil
	}
	if err != nil {
		return nil, err
	}

	status.HasEnoughData = true
	status.StyleLabel = profile.StyleLabel
	status.CategoryWeights = profile.CategoryWeights
	status.AtmosphereWeights = profile.AtmosphereWeights
	status.ContextWeights = profile.ContextWeights
	status.UpdatedAt = &profile.UpdatedAt

	return status, nil
}

func (s *service) Recalculate(ctx context.Context, userID int64) (*Profile, error) {
	interactions, err := s.placeRepo.GetUserInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}

	placeIDs := make([]int64, 0, len(interactions))
	seen := make(map[int64]bool, len(interactions))
	for _, interaction := range interactions {
		if !seen[interaction.PlaceID] {
			seen[interaction.PlaceID] = true
			placeIDs = append(placeIDs, interaction.PlaceID)
		}
	}

	attrs, err := s.placeRepo.GetPlacesByIDs(ctx, placeIDs)
	if err != nil {
		return nil, err
	}

	profile, err := Build(userID, interactions, attrs, s.minInteractions)
	if err != nil {
		if err == ErrInsufficientData {
			RecordInsufficientData()
		}
		return nil, err
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	RecordProfileBuilt()

	return profile, nil
}

func (s *service) RefreshAfterInteraction(ctx context.Context, userID int64) {
	count, err := s.placeRepo.CountUserInteractions(ctx, userID)
	if err != nil {
		log.Printf("taste refresh: counting interactions for user %d: %v", userID, err)
		return
	}

	hasProfile := true
	if _, err := s.repo.GetProfile(ctx, userID); err == ErrProfileNotFound {
		hasProfile = false
	} else if err != nil {
		log.Printf("taste refresh: loading profile for user %d: %v", userID, err)
		return
	}

	if !ShouldRecalculate(count, hasProfile, s.minInteractions, s.recalcStep) {
		return
	}

	if _, err := s.Recalculate(ctx, userID); err != nil && err != ErrInsufficientData {
		log.Printf("taste refresh: rebuilding profile for user %d: %v", userID, err)
	}
}
