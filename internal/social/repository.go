package social

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	// GetFriendIDs returns the ids on the other side of the user's accepted
	// friendships, whichever side the user sits on
	GetFriendIDs(ctx context.Context, userID int64) ([]int64, error)

	// CountFriendEngagement counts likes, visit events and review events on
	// the place among the given friends
	CountFriendEngagement(ctx context.Context, friendIDs []int64, placeID int64) (likes, visits, reviews int, err error)

	UpsertMatch(ctx context.Context, match *Match) error

	// ListTopMatches returns the user's stored matches with a positive
	// score, strongest first
	ListTopMatches(ctx context.Context, userID int64, limit int) ([]*Match, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	query := `
		SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
		FROM friendships
		WHERE (user1_id = $1 OR user2_id = $1) AND status = 'accepted'
	`

	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *postgresRepository) CountFriendEngagement(ctx context.Context, friendIDs []int64, placeID int64) (int, int, int, error) {
	var counts struct {
		Likes   int `db:"likes"`
		Visits  int `db:"visits"`
		Reviews int `db:"reviews"`
	}
	query := `
		SELECT
			(SELECT COUNT(*) FROM place_swipes
			 WHERE place_id = $2 AND action = 'like' AND user_id = ANY($1)) AS likes,
			(SELECT COUNT(*) FROM user_behaviors
			 WHERE place_id = $2 AND action_type = 'visit' AND user_id = ANY($1)) AS visits,
			(SELECT COUNT(*) FROM user_behaviors
			 WHERE place_id = $2 AND action_type = 'review' AND user_id = ANY($1)) AS reviews
	`

	err := r.db.GetContext(ctx, &counts, query, pq.Array(friendIDs), placeID)
	return counts.Likes, counts.Visits, counts.Reviews, err
}

func (r *postgresRepository) UpsertMatch(ctx context.Context, match *Match) error {
	query := `
		INSERT INTO social_matches (user_id, place_id, friend_likes, friend_visits, friend_reviews, match_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, place_id)
		DO UPDATE SET
			friend_likes = $3, friend_visits = $4, friend_reviews = $5,
			match_score = $6, updated_at = CURRENT_TIMESTAMP
		RETURNING id, updated_at
	`

	return r.db.QueryRowxContext(
		ctx, query,
		match.UserID, match.PlaceID, match.FriendLikes,
		match.FriendVisits, match.FriendReviews, match.MatchScore,
	).Scan(&match.ID, &match.UpdatedAt)
}

func (r *postgresRepository) ListTopMatches(ctx context.Context, userID int64, limit int) ([]*Match, error) {
	var matches []*Match
	query := `
		SELECT id, user_id, place_id, friend_likes, friend_visits, friend_reviews,
		       match_score, updated_at
		FROM social_matches
		WHERE user_id = $1 AND match_score > 0
		ORDER BY match_score DESC
		LIMIT $2
	`

	err := r.db.SelectContext(ctx, &matches, query, userID, limit)
	return matches, err
}
