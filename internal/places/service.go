package places

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPlaceNotFound = errors.New("place not found")
	ErrInvalidAction = errors.New("action must be like, dislike or save")
)

// ProfileRefresher re-derives a user's taste profile when the caller-side
// trigger policy says so. Satisfied by the taste service.
type ProfileRefresher interface {
	RefreshAfterInteraction(ctx context.Context, userID int64)
}

// CacheInvalidator drops cached recommendations after a new interaction.
// Satisfied by the recommendation cache.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID int64)
}

type Service interface {
	GetPlace(ctx context.Context, id int64) (*Place, error)
	Discover(ctx context.Context, userID int64, filters *DiscoverFilters) ([]*Place, error)
	Swipe(ctx context.Context, userID int64, dto *SwipeRequest) (*SwipeResult, error)
	AddReview(ctx context.Context, userID, placeID int64, dto *ReviewRequest) (*Review, error)
	Preferences(ctx context.Context, userID int64, action string) ([]*Place, error)
}

type service struct {
	repo      Repository
	refresher ProfileRefresher
	cache     CacheInvalidator
}

func NewService(repo Repository, refresher ProfileRefresher, cache CacheInvalidator) Service {
	return &service{
		repo:      repo,
		refresher: refresher,
		cache:     cache,
	}
}

func (s *service) GetPlace(ctx context.Context, id int64) (*Place, error) {
	return s.repo.GetPlace(ctx, id)
}

func (s *service) Discover(ctx context.Context, userID int64, filters *DiscoverFilters) ([]*Place, error) {
	candidates, err := s.repo.ListCandidates(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	if filters == nil {
		return limitPlaces(candidates, discoverPageSize), nil
	}

	matched := make([]*Place, 0, len(candidates))
	for _, place := range candidates {
		if !filters.matches(place) {
			continue
		}
		matched = append(matched, place)
	}

	return limitPlaces(matched, discoverPageSize), nil
}

const discoverPageSize = 20

func limitPlaces(places []*Place, n int) []*Place {
	if len(places) > n {
		return places[:n]
	}
	return places
}

func (s *service) Swipe(ctx context.Context, userID int64, dto *SwipeRequest) (*SwipeResult, error) {
	switch dto.Action {
	case ActionLike, ActionDislike, ActionSave:
	default:
		return nil, ErrInvalidAction
	}

	if _, err := s.repo.GetPlace(ctx, dto.PlaceID); err != nil {
		return nil, err
	}

	swipe := &Swipe{
		UserID:  userID,
		PlaceID: dto.PlaceID,
		Action:  dto.Action,
	}

	created, err := s.repo.UpsertSwipe(ctx, swipe)
	if err != nil {
		return nil, err
	}

	s.trackBehavior(ctx, userID, dto.PlaceID, "swipe_"+dto.Action, dto.SessionID)
	s.afterInteraction(ctx, userID)

	RecordSwipe(dto.Action)

	return &SwipeResult{Action: dto.Action, Created: created}, nil
}

func (s *service) AddReview(ctx context.Context, userID, placeID int64, dto *ReviewRequest) (*Review, error) {
	if _, err := s.repo.GetPlace(ctx, placeID); err != nil {
		return nil, err
	}

	review := &Review{
		UserID:         userID,
		PlaceID:        placeID,
		Rating:         dto.Rating,
		Comment:        dto.Comment,
		AtmosphereTags: dto.AtmosphereTags,
		SuitableFor:    dto.SuitableFor,
	}

	if _, err := s.repo.UpsertReview(ctx, review); err != nil {
		return nil, err
	}

	s.trackBehavior(ctx, userID, placeID, KindReview, dto.SessionID)
	s.afterInteraction(ctx, userID)

	RecordReview()

	return review, nil
}

func (s *service) Preferences(ctx context.Context, userID int64, action string) ([]*Place, error) {
	return s.repo.ListPreferences(ctx, userID, action)
}

// trackBehavior records the event with a bit of request context; failures
// are logged, not surfaced
func (s *service) trackBehavior(ctx context.Context, userID, placeID int64, actionType, sessionID string) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := time.Now()
	behaviorContext, _ := json.Marshal(map[string]string{
		"time_of_day": now.Format("15:04"),
		"day_of_week": strings.ToLower(now.Weekday().String()),
	})

	behavior := &UserBehavior{
		UserID:     userID,
		PlaceID:    placeID,
		ActionType: actionType,
		Context:    behaviorContext,
		SessionID:  sessionID,
	}

	if err := s.repo.RecordBehavior(ctx, behavior); err != nil {
		log.Printf("behavior tracking failed for user %d: %v", userID, err)
	}
}

// afterInteraction runs the caller-side side effects of a new interaction:
// recommendation cache invalidation and the taste recompute trigger
func (s *service) afterInteraction(ctx context.Context, userID int64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	if s.refresher != nil {
		s.refresher.RefreshAfterInteraction(ctx, userID)
	}
}
