package recommend

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/mekanapp/mekan-backend/internal/places"
	"github.com/mekanapp/mekan-backend/internal/taste"
)

// Scores above this ceiling are rescaled so the top result lands exactly on it
const maxDisplayScore = 0.95

const (
	modeFiltered   = "filtered"
	modePopularity = "popularity"
)

// ProfileSource resolves a user's taste profile; taste.ErrProfileNotFound
// means the scorer runs without one. Satisfied by the taste service.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID int64) (*taste.Profile, error)
}

type Service interface {
	Recommend(ctx context.Context, userID int64, query *Query, limit int) (*Response, error)
}

type service struct {
	placeRepo    places.Repository
	profiles     ProfileSource
	cache        *Cache
	defaultLimit int
	maxLimit     int
}

func NewService(placeRepo places.Repository, profiles ProfileSource, cache *Cache, defaultLimit, maxLimit int) Service {
	return &service{
		placeRepo:    placeRepo,
		profiles:     profiles,
		cache:        cache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (s *service) Recommend(ctx context.Context, userID int64, query *Query, limit int) (*Response, error) {
	query = normalizeQuery(query)

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	if s.cache != nil {
		if response, ok := s.cache.Get(ctx, userID, query, limit); ok {
			RecordCacheHit()
			return response, nil
		}
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err == taste.ErrProfileNotFound {
		profile = nil
	} else if err != nil {
		return nil, err
	}

	candidates, err := s.placeRepo.ListCandidates(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	var scored []*Result
	mode := modePopularity
	if query.HasFilters() || profile != nil {
		mode = modeFiltered
		scored = scoreFiltered(candidates, query, profile)
	} else {
		scored = scorePopularity(candidates)
	}

	rescaleScores(scored)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	response := &Response{
		Query:   query,
		Results: scored,
		Count:   len(scored),
	}

	best := 0.0
	if len(scored) > 0 {
		best = scored[0].Score
	}
	RecordServed(mode, best)

	if s.cache != nil {
		s.cache.Set(ctx, userID, query, limit, response)
	}

	return response, nil
}

// scoreFiltered runs the match scorer over every candidate, adds the rating
// bonus and drops places with no signal at all
func scoreFiltered(candidates []*places.Place, query *Query, profile *taste.Profile) []*Result {
	scored := make([]*Result, 0, len(candidates))
	for _, place := range candidates {
		score := Score(place, query, profile)
		score += (place.AverageRating / 5) * 0.2
		if score > 1.0 {
			score = 1.0
		}
		if score <= 0 {
			continue
		}
		scored = append(scored, resultFromPlace(place, score))
	}
	return scored
}

// scorePopularity ranks reviewed places by rating then review volume
func scorePopularity(candidates []*places.Place) []*Result {
	reviewed := make([]*places.Place, 0, len(candidates))
	for _, place := range candidates {
		if place.ReviewCount > 0 {
			reviewed = append(reviewed, place)
		}
	}

	sort.SliceStable(reviewed, func(i, j int) bool {
		if reviewed[i].AverageRating != reviewed[j].AverageRating {
			return reviewed[i].AverageRating > reviewed[j].AverageRating
		}
		return reviewed[i].ReviewCount > reviewed[j].ReviewCount
	})

	scored := make([]*Result, 0, len(reviewed))
	for _, place := range reviewed {
		score := place.AverageRating/5 + math.Min(0.3, float64(place.ReviewCount)/100)
		if score > 1.0 {
			score = 1.0
		}
		scored = append(scored, resultFromPlace(place, score))
	}
	return scored
}

// rescaleScores pulls the distribution down so the best score is exactly the
// display ceiling when anything exceeds it, then rounds to 3 decimals
func rescaleScores(scored []*Result) {
	var max float64
	for _, result := range scored {
		if result.Score > max {
			max = result.Score
		}
	}

	factor := 1.0
	if max > maxDisplayScore {
		factor = maxDisplayScore / max
	}

	for _, result := range scored {
		result.Score = math.Round(result.Score*factor*1000) / 1000
	}
}

// normalizeQuery trims filter tokens and guarantees non-nil sets so the
// echoed query always serializes as lists
func normalizeQuery(query *Query) *Query {
	if query == nil {
		query = &Query{}
	}

	normalized := &Query{
		Category:   cleanTokens(query.Category),
		Atmosphere: cleanTokens(query.Atmosphere),
		Context:    strings.TrimSpace(query.Context),
		Price:      strings.TrimSpace(query.Price),
	}

	return normalized
}

func cleanTokens(tokens []string) []string {
	cleaned := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token != "" {
			cleaned = append(cleaned, token)
		}
	}
	return cleaned
}
