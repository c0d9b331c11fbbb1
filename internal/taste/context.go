package taste

import "strings"

// Social-context vocabulary. Catalog categories and free-text query tokens
// both collapse onto the canonical keys; "dost" and "arkadaş" are the same
// context.

// contextSynonyms maps query tokens and legacy labels to canonical keys
var contextSynonyms = map[string]string{
	"friends": "arkadaş",
	"arkadaş": "arkadaş",
	"dost":    "arkadaş",
	"sevgili": "sevgili",
	"partner": "sevgili",
	"aile":    "aile",
	"family":  "aile",
	"tek":     "tek",
	"solo":    "tek",
	"is":      "is",
	"work":    "is",
}

// contextCategories are catalog categories that carry context meaning
var contextCategories = []string{"dost", "arkadaş", "sevgili", "aile", "tek", "is"}

// CanonicalContext resolves a context token to its canonical key; unknown
// tokens pass through lowercased
func CanonicalContext(token string) string {
	lower := strings.ToLower(token)
	if canonical, ok := contextSynonyms[lower]; ok {
		return canonical
	}
	return lower
}

// IsContextCategory reports whether a catalog category carries context meaning
func IsContextCategory(category string) bool {
	for _, c := range contextCategories {
		if c == category {
			return true
		}
	}
	return false
}
