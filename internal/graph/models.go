package graph

import (
	"time"

	"github.com/mekanapp/mekan-backend/internal/places"
)

// Edge relation types
const (
	RelationSimilar        = "similar"
	RelationSameCategory   = "same_category"
	RelationSameAtmosphere = "same_atmosphere"
	RelationCoLiked        = "co_liked"
)

// Edge is one weighted directed relation between two places, unique per
// (from, to, relation)
type Edge struct {
	ID           int64     `json:"id" db:"id"`
	FromPlaceID  int64     `json:"from_place_id" db:"from_place_id"`
	ToPlaceID    int64     `json:"to_place_id" db:"to_place_id"`
	Relation     string    `json:"relation" db:"relation"`
	Strength     float64   `json:"strength" db:"strength"`
	CoLikeCount  int       `json:"co_like_count" db:"co_like_count"`
	CoVisitCount int       `json:"co_visit_count" db:"co_visit_count"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Connection is an outgoing edge with its target place resolved
type Connection struct {
	Place        *places.Place `json:"place"`
	Relation     string        `json:"relation"`
	Strength     float64       `json:"strength"`
	CoLikeCount  int           `json:"co_like_count"`
	CoVisitCount int           `json:"co_visit_count"`
}

// CoLike is a co-liked place with its shared-liker count
type CoLike struct {
	PlaceID int64 `db:"place_id"`
	Count   int   `db:"co_like_count"`
}

// Recommendation is one contextual suggestion reached through the graph
type Recommendation struct {
	Place    *places.Place `json:"place"`
	Score    float64       `json:"score"`
	Reason   string        `json:"reason"`
	Relation string        `json:"relation"`
}

// RequestContext is the caller's situation for contextual recommendations
type RequestContext struct {
	TimeOfDay string `json:"time_of_day,omitempty"`
	DayOfWeek string `json:"day_of_week,omitempty"`
	Location  string `json:"location,omitempty"`
	Purpose   string `json:"purpose,omitempty"`
}
