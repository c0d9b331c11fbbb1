package graph

import (
	"context"
	"log"

	"github.com/mekanapp/mekan-backend/internal/places"
)

// Edge strengths per relation source
const (
	similarStrength        = 0.8
	sameCategoryStrength   = 0.6
	sameAtmosphereStrength = 0.7

	// co_liked strength is count/10, capped at 1.0
	coLikeDivisor = 10.0

	connectionLimit = 10
)

type Service interface {
	// BuildEdges derives and upserts the place's outgoing edges from all
	// four relation sources. Idempotent; a place with no similar names,
	// categories, tags or likers yields zero edges and no error.
	BuildEdges(ctx context.Context, placeID int64) error

	// GetConnections returns the place's strongest outgoing edges with
	// their target places resolved
	GetConnections(ctx context.Context, placeID int64) ([]*Connection, error)

	// ContextualRecommendations walks the graph outward from the user's
	// liked places, filtered by the request context
	ContextualRecommendations(ctx context.Context, userID int64, reqContext *RequestContext) ([]*Recommendation, error)

	// RefreshAll rebuilds edges for every place in the catalog
	RefreshAll(ctx context.Context) error
}

type service struct {
	repo      Repository
	placeRepo places.Repository
}

func NewService(repo Repository, placeRepo places.Repository) Service {
	return &service{repo: repo, placeRepo: placeRepo}
}

func (s *service) BuildEdges(ctx context.Context, placeID int64) error {
	place, err := s.placeRepo.GetPlace(ctx, placeID)
	if err != nil {
		return err
	}

	if err := s.buildSimilarEdges(ctx, place); err != nil {
		return err
	}
	if err := s.buildOverlapEdges(ctx, place); err != nil {
		return err
	}
	if err := s.buildCoLikedEdges(ctx, place); err != nil {
		return err
	}

	RecordGraphBuild()

	return nil
}

// buildSimilarEdges resolves the curated similar-places names; names with no
// catalog match are skipped
func (s *service) buildSimilarEdges(ctx context.Context, place *places.Place) error {
	for _, name := range place.SimilarPlaces {
		similar, err := s.placeRepo.GetPlaceByName(ctx, name)
		if err == places.ErrPlaceNotFound {
			continue
		}
		if err != nil {
			return err
		}

		edge := &Edge{
			FromPlaceID: place.ID,
			ToPlaceID:   similar.ID,
			Relation:    RelationSimilar,
			Strength:    similarStrength,
		}
		if err := s.repo.UpsertEdge(ctx, edge); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) buildOverlapEdges(ctx context.Context, place *places.Place) error {
	if len(place.Categories) > 0 {
		ids, err := s.repo.FindByCategoryOverlap(ctx, place.ID, place.Categories)
		if err != nil {
			return err
		}
		if err := s.upsertRelated(ctx, place.ID, ids, RelationSameCategory, sameCategoryStrength); err != nil {
			return err
		}
	}

	if len(place.Tags) > 0 {
		ids, err := s.repo.FindByTagOverlap(ctx, place.ID, place.Tags)
		if err != nil {
			return err
		}
		if err := s.upsertRelated(ctx, place.ID, ids, RelationSameAtmosphere, sameAtmosphereStrength); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) upsertRelated(ctx context.Context, fromID int64, toIDs []int64, relation string, strength float64) error {
	for _, toID := range toIDs {
		edge := &Edge{
			FromPlaceID: fromID,
			ToPlaceID:   toID,
			Relation:    relation,
			Strength:    strength,
		}
		if err := s.repo.UpsertEdge(ctx, edge); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) buildCoLikedEdges(ctx context.Context, place *places.Place) error {
	coLikes, err := s.repo.FindCoLiked(ctx, place.ID)
	if err != nil {
		return err
	}

	for _, coLike := range coLikes {
		strength := float64(coLike.Count) / coLikeDivisor
		if strength > 1.0 {
			strength = 1.0
		}

		edge := &Edge{
			FromPlaceID: place.ID,
			ToPlaceID:   coLike.PlaceID,
			Relation:    RelationCoLiked,
			Strength:    strength,
			CoLikeCount: coLike.Count,
		}
		if err := s.repo.UpsertEdge(ctx, edge); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) GetConnections(ctx context.Context, placeID int64) ([]*Connection, error) {
	if _, err := s.placeRepo.GetPlace(ctx, placeID); err != nil {
		return nil, err
	}

	edges, err := s.repo.ListEdges(ctx, placeID, connectionLimit)
	if err != nil {
		return nil, err
	}

	targetIDs := make([]int64, 0, len(edges))
	for _, edge := range edges {
		targetIDs = append(targetIDs, edge.ToPlaceID)
	}

	attrs, err := s.placeRepo.GetPlacesByIDs(ctx, targetIDs)
	if err != nil {
		return nil, err
	}

	connections := make([]*Connection, 0, len(edges))
	for _, edge := range edges {
		place, ok := attrs[edge.ToPlaceID]
		if !ok {
			continue
		}
		connections = append(connections, &Connection{
			Place:        place,
			Relation:     edge.Relation,
			Strength:     edge.Strength,
			CoLikeCount:  edge.CoLikeCount,
			CoVisitCount: edge.CoVisitCount,
		})
	}

	return connections, nil
}

func (s *service) RefreshAll(ctx context.Context) error {
	ids, err := s.repo.ListAllPlaceIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.BuildEdges(ctx, id); err != nil {
			log.Printf("graph refresh: building edges for place %d: %v", id, err)
		}
	}

	return nil
}
