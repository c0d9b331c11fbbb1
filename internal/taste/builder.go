package taste

import (
	"errors"
	"strings"
	"time"

	"github.com/mekanapp/mekan-backend/internal/places"
)

var ErrInsufficientData = errors.New("insufficient interaction data")

// Signal weights per interaction kind; reviews weigh by rating
const (
	weightLike       = 1.0
	weightSave       = 0.7
	weightDislike    = -1.0
	weightRaveReview = 1.2  // rating >= 4
	weightPanReview  = -1.2 // rating <= 2
	weightMehReview  = 0.5  // middling or missing rating

	// Secondary-source discounts
	reviewAtmosphereFactor = 0.8
	categoryContextFactor  = 0.5
)

// displayLabels maps raw category keys to presentation names for the style label
var displayLabels = map[string]string{
	"kafe":       "Kahve",
	"coffee":     "Kahve",
	"restoran":   "Restoran",
	"restaurant": "Restoran",
	"bar":        "Bar",
	"brunch":     "Brunch",
	"tatlı":      "Tatlı",
	"dessert":    "Tatlı",
}

// Build derives a taste profile from a user's full interaction history.
// attrs resolves each interaction's place; interactions whose place is
// unknown contribute nothing. Returns ErrInsufficientData below the minimum.
// Pure: no I/O, deterministic for identical inputs.
func Build(userID int64, interactions []*places.Interaction, attrs map[int64]*places.Place, minInteractions int) (*Profile, error) {
	if len(interactions) < minInteractions {
		return nil, ErrInsufficientData
	}

	categoryScores := make(map[string]float64)
	atmosphereScores := make(map[string]float64)
	contextScores := make(map[string]float64)

	for _, interaction := range interactions {
		weight := interactionWeight(interaction)

		place := attrs[interaction.PlaceID]
		if place != nil {
			for _, category := range place.Categories {
				categoryScores[category] += weight

				if IsContextCategory(category) {
					contextScores[CanonicalContext(category)] += weight * categoryContextFactor
				}
			}

			for _, tag := range place.Tags {
				atmosphereScores[tag] += weight
			}
		}

		if interaction.Kind == places.KindReview {
			for _, tag := range interaction.AtmosphereTags {
				atmosphereScores[tag] += weight * reviewAtmosphereFactor
			}
			for _, context := range interaction.ContextTags {
				contextScores[CanonicalContext(context)] += weight
			}
		}
	}

	profile := &Profile{
		UserID:            userID,
		CategoryWeights:   normalizeScores(categoryScores),
		AtmosphereWeights: normalizeScores(atmosphereScores),
		ContextWeights:    normalizeScores(contextScores),
		UpdatedAt:         time.Now(),
	}
	profile.StyleLabel = buildStyleLabel(profile.CategoryWeights, profile.AtmosphereWeights)

	return profile, nil
}

func interactionWeight(interaction *places.Interaction) float64 {
	switch interaction.Kind {
	case places.KindSwipeLike:
		return weightLike
	case places.KindSwipeSave:
		return weightSave
	case places.KindSwipeDislike:
		return weightDislike
	case places.KindReview:
		if interaction.Rating == nil {
			return weightMehReview
		}
		switch {
		case *interaction.Rating >= 4:
			return weightRaveReview
		case *interaction.Rating <= 2:
			return weightPanReview
		default:
			return weightMehReview
		}
	default:
		return weightLike
	}
}

// normalizeScores clamps negative totals to zero and scales the rest to sum
// to 1.0, keeping the top MaxWeightEntries. An all-negative tally yields an
// empty map.
func normalizeScores(scores map[string]float64) WeightMap {
	var total float64
	for _, score := range scores {
		if score > 0 {
			total += score
		}
	}
	if total == 0 {
		return WeightMap{}
	}

	normalized := make(WeightMap, 0, len(scores))
	for key, score := range scores {
		if score <= 0 {
			continue
		}
		normalized = append(normalized, WeightEntry{Key: key, Weight: score / total})
	}
	normalized.sortDesc()

	if len(normalized) > MaxWeightEntries {
		normalized = normalized[:MaxWeightEntries]
	}

	return normalized
}

// buildStyleLabel joins the top-2 category names and the top atmosphere,
// e.g. "Kahve + Brunch + Sessiz"
func buildStyleLabel(categories, atmospheres WeightMap) string {
	if categories.IsEmpty() && atmospheres.IsEmpty() {
		return "Henüz profil oluşturulamadı"
	}

	var parts []string
	for _, key := range categories.TopKeys(2) {
		parts = append(parts, displayLabel(key))
	}
	for _, key := range atmospheres.TopKeys(1) {
		parts = append(parts, titleCase(key))
	}

	return strings.Join(parts, " + ")
}

func displayLabel(key string) string {
	if label, ok := displayLabels[key]; ok {
		return label
	}
	return titleCase(key)
}

func titleCase(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, word := range words {
		runes := []rune(word)
		words[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	return strings.Join(words, " ")
}

// ShouldRecalculate is the caller-side recompute trigger: rebuild whenever
// the interaction count crosses a multiple of step, or the first time the
// minimum is reached and no profile exists yet.
func ShouldRecalculate(interactionCount int, hasProfile bool, minInteractions, step int) bool {
	if interactionCount < minInteractions {
		return false
	}
	if !hasProfile {
		return true
	}
	return interactionCount%step == 0
}
