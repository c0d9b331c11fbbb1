package places

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	// Catalog
	GetPlace(ctx context.Context, id int64) (*Place, error)
	GetPlaceByName(ctx context.Context, name string) (*Place, error)
	GetPlacesByIDs(ctx context.Context, ids []int64) (map[int64]*Place, error)
	ListCandidates(ctx context.Context, userID int64, includeSwiped bool) ([]*Place, error)

	// Swipes
	UpsertSwipe(ctx context.Context, swipe *Swipe) (bool, error)
	GetSwipedPlaceIDs(ctx context.Context, userID int64) ([]int64, error)
	GetLikedPlaceIDs(ctx context.Context, userID int64) ([]int64, error)
	ListPreferences(ctx context.Context, userID int64, action string) ([]*Place, error)

	// Reviews
	UpsertReview(ctx context.Context, review *Review) (bool, error)

	// Interaction history (swipes + reviews unified)
	GetUserInteractions(ctx context.Context, userID int64) ([]*Interaction, error)
	CountUserInteractions(ctx context.Context, userID int64) (int, error)

	// Behavior tracking
	RecordBehavior(ctx context.Context, behavior *UserBehavior) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// placeColumns joins review aggregates onto the catalog row
const placeColumns = `
	p.id, p.name, p.description, p.short_description, p.address, p.city,
	p.categories, p.tags, p.price_level, p.photos, p.similar_places,
	p.use_cases, p.latitude, p.longitude, p.created_at, p.updated_at,
	COALESCE(r.average_rating, 0) AS average_rating,
	COALESCE(r.review_count, 0) AS review_count
`

const placeJoin = `
	FROM places p
	LEFT JOIN (
		SELECT place_id,
		       AVG(rating)::float AS average_rating,
		       COUNT(*) AS review_count
		FROM visits
		GROUP BY place_id
	) r ON r.place_id = p.id
`

// Catalog methods

func (r *postgresRepository) GetPlace(ctx context.Context, id int64) (*Place, error) {
	var place Place
	query := `SELECT ` + placeColumns + placeJoin + ` WHERE p.id = $1`

	err := r.db.GetContext(ctx, &place, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrPlaceNotFound
	}
	if err != nil {
		return nil, err
	}

	return &place, nil
}

func (r *postgresRepository) GetPlaceByName(ctx context.Context, name string) (*Place, error) {
	var place Place
	query := `SELECT ` + placeColumns + placeJoin + ` WHERE p.name = $1`

	err := r.db.GetContext(ctx, &place, query, name)
	if err == sql.ErrNoRows {
		return nil, ErrPlaceNotFound
	}
	if err != nil {
		return nil, err
	}

	return &place, nil
}

func (r *postgresRepository) GetPlacesByIDs(ctx context.Context, ids []int64) (map[int64]*Place, error) {
	result := make(map[int64]*Place, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + placeColumns + placeJoin + ` WHERE p.id = ANY($1)`

	var rows []*Place
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	for _, place := range rows {
		result[place.ID] = place
	}

	return result, nil
}

func (r *postgresRepository) ListCandidates(ctx context.Context, userID int64, includeSwiped bool) ([]*Place, error) {
	query := `SELECT ` + placeColumns + placeJoin
	var args []interface{}
	if !includeSwiped {
		query += ` WHERE p.id NOT IN (SELECT place_id FROM place_swipes WHERE user_id = $1)`
		args = append(args, userID)
	}
	query += ` ORDER BY p.created_at DESC`

	var candidates []*Place
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, err
	}

	return candidates, nil
}

// Swipe methods

func (r *postgresRepository) UpsertSwipe(ctx context.Context, swipe *Swipe) (bool, error) {
	query := `
		INSERT INTO place_swipes (user_id, place_id, action)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, place_id)
		DO UPDATE SET action = $3, updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at, (created_at = updated_at) AS inserted
	`

	var inserted bool
	err := r.db.QueryRowxContext(ctx, query, swipe.UserID, swipe.PlaceID, swipe.Action).
		Scan(&swipe.ID, &swipe.CreatedAt, &swipe.UpdatedAt, &inserted)

	return inserted, err
}

func (r *postgresRepository) GetSwipedPlaceIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	query := `SELECT place_id FROM place_swipes WHERE user_id = $1`

	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *postgresRepository) GetLikedPlaceIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	query := `
		SELECT place_id FROM place_swipes
		WHERE user_id = $1 AND action = 'like'
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *postgresRepository) ListPreferences(ctx context.Context, userID int64, action string) ([]*Place, error) {
	query := `SELECT ` + placeColumns + placeJoin + `
	JOIN place_swipes s ON s.place_id = p.id
	WHERE s.user_id = $1`

	args := []interface{}{userID}
	if action != "" {
		query += ` AND s.action = $2`
		args = append(args, action)
	}
	query += ` ORDER BY s.updated_at DESC`

	var result []*Place
	if err := r.db.SelectContext(ctx, &result, query, args...); err != nil {
		return nil, err
	}

	return result, nil
}

// Review methods

func (r *postgresRepository) UpsertReview(ctx context.Context, review *Review) (bool, error) {
	query := `
		INSERT INTO visits (user_id, place_id, rating, comment, atmosphere_tags, suitable_for)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, place_id)
		DO UPDATE SET
			rating = $3, comment = $4, atmosphere_tags = $5,
			suitable_for = $6, updated_at = CURRENT_TIMESTAMP
		RETURNING id, visited_at, updated_at, (visited_at = updated_at) AS inserted
	`

	var inserted bool
	err := r.db.QueryRowxContext(
		ctx, query,
		review.UserID, review.PlaceID, review.Rating,
		review.Comment, review.AtmosphereTags, review.SuitableFor,
	).Scan(&review.ID, &review.VisitedAt, &review.UpdatedAt, &inserted)

	return inserted, err
}

// Interaction history

func (r *postgresRepository) GetUserInteractions(ctx context.Context, userID int64) ([]*Interaction, error) {
	query := `
		SELECT user_id, place_id, 'swipe_' || action AS kind,
		       NULL::int AS rating,
		       '[]'::jsonb AS atmosphere_tags, '[]'::jsonb AS context_tags,
		       created_at AS ts
		FROM place_swipes WHERE user_id = $1
		UNION ALL
		SELECT user_id, place_id, 'review' AS kind,
		       rating, atmosphere_tags, suitable_for AS context_tags,
		       visited_at AS ts
		FROM visits WHERE user_id = $1
		ORDER BY ts
	`

	var interactions []*Interaction
	if err := r.db.SelectContext(ctx, &interactions, query, userID); err != nil {
		return nil, err
	}

	return interactions, nil
}

func (r *postgresRepository) CountUserInteractions(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `
		SELECT (SELECT COUNT(*) FROM place_swipes WHERE user_id = $1)
		     + (SELECT COUNT(*) FROM visits WHERE user_id = $1)
	`

	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

// Behavior tracking

func (r *postgresRepository) RecordBehavior(ctx context.Context, behavior *UserBehavior) error {
	query := `
		INSERT INTO user_behaviors (user_id, place_id, action_type, context, session_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	context := behavior.Context
	if context == nil {
		context = []byte("{}")
	}

	return r.db.QueryRowxContext(
		ctx, query,
		behavior.UserID, behavior.PlaceID, behavior.ActionType,
		context, behavior.SessionID,
	).Scan(&behavior.ID, &behavior.CreatedAt)
}
