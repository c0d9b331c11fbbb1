package social

import (
	"time"

	"github.com/mekanapp/mekan-backend/internal/places"
)

// Match is the friend-engagement affinity between a user and a place,
// unique per (user, place) and recomputed on demand
type Match struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	PlaceID       int64     `json:"place_id" db:"place_id"`
	FriendLikes   int       `json:"friend_likes" db:"friend_likes"`
	FriendVisits  int       `json:"friend_visits" db:"friend_visits"`
	FriendReviews int       `json:"friend_reviews" db:"friend_reviews"`
	MatchScore    float64   `json:"match_score" db:"match_score"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// RankedMatch is one entry of the social feed: the place plus its match
type RankedMatch struct {
	Place         *places.Place `json:"place"`
	Score         float64       `json:"score"`
	FriendLikes   int           `json:"friend_likes"`
	FriendVisits  int           `json:"friend_visits"`
	FriendReviews int           `json:"friend_reviews"`
}
