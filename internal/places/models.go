package places

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Swipe actions
const (
	ActionLike    = "like"
	ActionDislike = "dislike"
	ActionSave    = "save"
)

// Interaction kinds as stored in behavior events and fed to the taste builder
const (
	KindSwipeLike    = "swipe_like"
	KindSwipeDislike = "swipe_dislike"
	KindSwipeSave    = "swipe_save"
	KindReview       = "review"
	KindVisit        = "visit"
)

// StringList is a JSONB-backed string slice
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// BoolMap is a JSONB-backed map of purpose flags, e.g. {"work": true}
type BoolMap map[string]bool

func (m BoolMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *BoolMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into BoolMap", src)
	}
}

// Place is a venue from the catalog. Categories double as social-context
// markers (e.g. "dost", "aile") the way the catalog has always tagged them.
type Place struct {
	ID               int64      `json:"id" db:"id"`
	Name             string     `json:"name" db:"name"`
	Description      string     `json:"description" db:"description"`
	ShortDescription string     `json:"short_description" db:"short_description"`
	Address          string     `json:"address" db:"address"`
	City             string     `json:"city" db:"city"`
	Categories       StringList `json:"categories" db:"categories"`
	Tags             StringList `json:"tags" db:"tags"`
	PriceLevel       string     `json:"price_level" db:"price_level"`
	Photos           StringList `json:"photos" db:"photos"`
	SimilarPlaces    StringList `json:"similar_places" db:"similar_places"`
	UseCases         BoolMap    `json:"use_cases" db:"use_cases"`
	Latitude         *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64   `json:"longitude,omitempty" db:"longitude"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`

	// Aggregates joined from reviews
	AverageRating float64 `json:"average_rating" db:"average_rating"`
	ReviewCount   int     `json:"review_count" db:"review_count"`
}

// Swipe is one like/dislike/save signal, unique per (user, place)
type Swipe struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	PlaceID   int64     `json:"place_id" db:"place_id"`
	Action    string    `json:"action" db:"action"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Review is a visit write-up, unique per (user, place); only review edits
// mutate an existing interaction
type Review struct {
	ID             int64      `json:"id" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	PlaceID        int64      `json:"place_id" db:"place_id"`
	Rating         *int       `json:"rating,omitempty" db:"rating"`
	Comment        string     `json:"comment" db:"comment"`
	AtmosphereTags StringList `json:"atmosphere_tags" db:"atmosphere_tags"`
	SuitableFor    StringList `json:"suitable_for" db:"suitable_for"`
	VisitedAt      time.Time  `json:"visited_at" db:"visited_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Interaction is the unified signal the taste builder consumes: swipes and
// reviews projected into one shape
type Interaction struct {
	UserID         int64      `json:"user_id" db:"user_id"`
	PlaceID        int64      `json:"place_id" db:"place_id"`
	Kind           string     `json:"kind" db:"kind"`
	Rating         *int       `json:"rating,omitempty" db:"rating"`
	AtmosphereTags StringList `json:"atmosphere_tags" db:"atmosphere_tags"`
	ContextTags    StringList `json:"context_tags" db:"context_tags"`
	Timestamp      time.Time  `json:"timestamp" db:"ts"`
}

// UserBehavior is a tracked behavior event (swipe, visit, review)
type UserBehavior struct {
	ID         int64           `json:"id" db:"id"`
	UserID     int64           `json:"user_id" db:"user_id"`
	PlaceID    int64           `json:"place_id" db:"place_id"`
	ActionType string          `json:"action_type" db:"action_type"`
	Context    json.RawMessage `json:"context,omitempty" db:"context"`
	SessionID  string          `json:"session_id" db:"session_id"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
