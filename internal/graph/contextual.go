package graph

import (
	"context"
	"fmt"
	"sort"
)

const (
	contextualSourceLimit = 5
	contextualEdgeLimit   = 3
	contextualMinStrength = 0.5
	contextualResultLimit = 10
)

// ContextualRecommendations walks outgoing edges from the user's most recent
// liked places. Swiped places never come back; a purpose narrows results to
// places marked suitable for it.
func (s *service) ContextualRecommendations(ctx context.Context, userID int64, reqContext *RequestContext) ([]*Recommendation, error) {
	likedIDs, err := s.placeRepo.GetLikedPlaceIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(likedIDs) == 0 {
		return []*Recommendation{}, nil
	}
	if len(likedIDs) > contextualSourceLimit {
		likedIDs = likedIDs[:contextualSourceLimit]
	}

	swipedIDs, err := s.placeRepo.GetSwipedPlaceIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	swiped := make(map[int64]bool, len(swipedIDs))
	for _, id := range swipedIDs {
		swiped[id] = true
	}

	type candidate struct {
		edge   *Edge
		fromID int64
	}

	var candidates []candidate
	resolve := make(map[int64]bool)
	for _, likedID := range likedIDs {
		edges, err := s.repo.ListStrongEdges(ctx, likedID, contextualMinStrength, contextualEdgeLimit)
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			if swiped[edge.ToPlaceID] {
				continue
			}
			candidates = append(candidates, candidate{edge: edge, fromID: likedID})
			resolve[edge.ToPlaceID] = true
			resolve[likedID] = true
		}
	}

	resolveIDs := make([]int64, 0, len(resolve))
	for id := range resolve {
		resolveIDs = append(resolveIDs, id)
	}
	attrs, err := s.placeRepo.GetPlacesByIDs(ctx, resolveIDs)
	if err != nil {
		return nil, err
	}

	recommendations := make([]*Recommendation, 0, len(candidates))
	for _, c := range candidates {
		target, ok := attrs[c.edge.ToPlaceID]
		if !ok {
			continue
		}
		if reqContext != nil && reqContext.Purpose != "" && !target.UseCases[reqContext.Purpose] {
			continue
		}

		reason := "Benzer mekan"
		if source, ok := attrs[c.fromID]; ok {
			reason = fmt.Sprintf("%s ile benzer", source.Name)
		}

		recommendations = append(recommendations, &Recommendation{
			Place:    target,
			Score:    c.edge.Strength,
			Reason:   reason,
			Relation: c.edge.Relation,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	if len(recommendations) > contextualResultLimit {
		recommendations = recommendations[:contextualResultLimit]
	}

	return recommendations, nil
}
