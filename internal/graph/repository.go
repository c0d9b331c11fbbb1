package graph

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const relatedPlaceLimit = 5

type Repository interface {
	// UpsertEdge writes the edge keyed by (from, to, relation); repeated
	// calls with the same inputs converge instead of accumulating rows
	UpsertEdge(ctx context.Context, edge *Edge) error

	// ListEdges returns a place's outgoing edges, strongest first
	ListEdges(ctx context.Context, fromPlaceID int64, limit int) ([]*Edge, error)

	// ListStrongEdges returns outgoing edges at or above the strength floor
	ListStrongEdges(ctx context.Context, fromPlaceID int64, minStrength float64, limit int) ([]*Edge, error)

	// FindByCategoryOverlap returns up to 5 other places sharing a category
	FindByCategoryOverlap(ctx context.Context, placeID int64, categories []string) ([]int64, error)

	// FindByTagOverlap returns up to 5 other places sharing an atmosphere tag
	FindByTagOverlap(ctx context.Context, placeID int64, tags []string) ([]int64, error)

	// FindCoLiked returns the top 5 places liked by the same users who
	// liked this one, ranked by shared-like count
	FindCoLiked(ctx context.Context, placeID int64) ([]*CoLike, error)

	// ListAllPlaceIDs feeds the full-catalog refresh
	ListAllPlaceIDs(ctx context.Context) ([]int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) UpsertEdge(ctx context.Context, edge *Edge) error {
	query := `
		INSERT INTO place_graph_edges (from_place_id, to_place_id, relation, strength, co_like_count, co_visit_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (from_place_id, to_place_id, relation)
		DO UPDATE SET
			strength = $4, co_like_count = $5, co_visit_count = $6,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, updated_at
	`

	return r.db.QueryRowxContext(
		ctx, query,
		edge.FromPlaceID, edge.ToPlaceID, edge.Relation,
		edge.Strength, edge.CoLikeCount, edge.CoVisitCount,
	).Scan(&edge.ID, &edge.UpdatedAt)
}

func (r *postgresRepository) ListEdges(ctx context.Context, fromPlaceID int64, limit int) ([]*Edge, error) {
	var edges []*Edge
	query := `
		SELECT id, from_place_id, to_place_id, relation, strength,
		       co_like_count, co_visit_count, updated_at
		FROM place_graph_edges
		WHERE from_place_id = $1
		ORDER BY strength DESC
		LIMIT $2
	`

	err := r.db.SelectContext(ctx, &edges, query, fromPlaceID, limit)
	return edges, err
}

func (r *postgresRepository) ListStrongEdges(ctx context.Context, fromPlaceID int64, minStrength float64, limit int) ([]*Edge, error) {
	var edges []*Edge
	query := `
		SELECT id, from_place_id, to_place_id, relation, strength,
		       co_like_count, co_visit_count, updated_at
		FROM place_graph_edges
		WHERE from_place_id = $1 AND strength >= $2
		ORDER BY strength DESC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &edges, query, fromPlaceID, minStrength, limit)
	return edges, err
}

func (r *postgresRepository) FindByCategoryOverlap(ctx context.Context, placeID int64, categories []string) ([]int64, error) {
	var ids []int64
	query := `
		SELECT id FROM places
		WHERE id <> $1 AND categories ?| $2
		ORDER BY id
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &ids, query, placeID, pq.Array(categories), relatedPlaceLimit)
	return ids, err
}

func (r *postgresRepository) FindByTagOverlap(ctx context.Context, placeID int64, tags []string) ([]int64, error) {
	var ids []int64
	query := `
		SELECT id FROM places
		WHERE id <> $1 AND tags ?| $2
		ORDER BY id
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &ids, query, placeID, pq.Array(tags), relatedPlaceLimit)
	return ids, err
}

func (r *postgresRepository) FindCoLiked(ctx context.Context, placeID int64) ([]*CoLike, error) {
	var coLikes []*CoLike
	query := `
		SELECT other.place_id, COUNT(*) AS co_like_count
		FROM place_swipes own
		JOIN place_swipes other
		  ON other.user_id = own.user_id
		 AND other.place_id <> own.place_id
		 AND other.action = 'like'
		WHERE own.place_id = $1 AND own.action = 'like'
		GROUP BY other.place_id
		ORDER BY co_like_count DESC, other.place_id
		LIMIT $2
	`

	err := r.db.SelectContext(ctx, &coLikes, query, placeID, relatedPlaceLimit)
	return coLikes, err
}

func (r *postgresRepository) ListAllPlaceIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM places ORDER BY id`)
	return ids, err
}
