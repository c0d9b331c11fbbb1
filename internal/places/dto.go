// internal/places/dto.go
package places

import "strings"

// DTOs for API requests/responses

type SwipeRequest struct {
	PlaceID   int64  `json:"place_id" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=like dislike save"`
	SessionID string `json:"session_id,omitempty"`
}

type SwipeResult struct {
	Action  string `json:"action"`
	Created bool   `json:"created"`
}

type ReviewRequest struct {
	Rating         *int       `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment        string     `json:"comment,omitempty" validate:"omitempty,max=2000"`
	AtmosphereTags StringList `json:"atmosphere_tags,omitempty"`
	SuitableFor    StringList `json:"suitable_for,omitempty"`
	SessionID      string     `json:"session_id,omitempty"`
}

type DiscoverFilters struct {
	Category    string `json:"category"`
	Atmosphere  string `json:"atmosphere"`
	SuitableFor string `json:"suitable_for"`
	PriceLevel  string `json:"price_level"`
	City        string `json:"city"`
}

func (f *DiscoverFilters) matches(place *Place) bool {
	if f.PriceLevel != "" && place.PriceLevel != f.PriceLevel {
		return false
	}
	if f.City != "" && !strings.Contains(strings.ToLower(place.City), strings.ToLower(f.City)) {
		return false
	}
	if f.Category != "" && !contains(place.Categories, f.Category) {
		return false
	}
	if f.Atmosphere != "" && !contains(place.Tags, f.Atmosphere) {
		return false
	}
	if f.SuitableFor != "" && !contains(place.Categories, f.SuitableFor) {
		return false
	}
	return true
}

func contains(list StringList, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
