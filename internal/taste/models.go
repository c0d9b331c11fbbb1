package taste

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// MaxWeightEntries caps every weight map; only the strongest signals are kept
const MaxWeightEntries = 10

// WeightEntry is one weighted preference key
type WeightEntry struct {
	Key    string
	Weight float64
}

// WeightMap is an ordered weight distribution: non-negative values summing
// to 1.0, sorted descending, at most MaxWeightEntries entries. It serializes
// as a JSON object whose keys keep that order.
type WeightMap []WeightEntry

func (m WeightMap) IsEmpty() bool {
	return len(m) == 0
}

// Get returns the weight for a key
func (m WeightMap) Get(key string) (float64, bool) {
	for _, entry := range m {
		if entry.Key == key {
			return entry.Weight, true
		}
	}
	return 0, false
}

// TopKeys returns the n highest-weighted keys
func (m WeightMap) TopKeys(n int) []string {
	if n > len(m) {
		n = len(m)
	}
	keys := make([]string, 0, n)
	for _, entry := range m[:n] {
		keys = append(keys, entry.Key)
	}
	return keys
}

// sortDesc orders entries by weight descending, then key ascending so
// equal-weight output is deterministic
func (m WeightMap) sortDesc() {
	sort.SliceStable(m, func(i, j int) bool {
		if m[i].Weight != m[j].Weight {
			return m[i].Weight > m[j].Weight
		}
		return m[i].Key < m[j].Key
	})
}

func (m WeightMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(entry.Weight)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *WeightMap) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	entries := make(WeightMap, 0, len(raw))
	for key, weight := range raw {
		entries = append(entries, WeightEntry{Key: key, Weight: weight})
	}
	entries.sortDesc()

	*m = entries
	return nil
}

func (m WeightMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *WeightMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return m.UnmarshalJSON(v)
	case string:
		return m.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into WeightMap", src)
	}
}

// Profile is a user's derived taste profile, one row per user
type Profile struct {
	UserID            int64     `json:"user_id" db:"user_id"`
	CategoryWeights   WeightMap `json:"category_weights" db:"category_weights"`
	AtmosphereWeights WeightMap `json:"atmosphere_weights" db:"atmosphere_weights"`
	ContextWeights    WeightMap `json:"context_weights" db:"context_weights"`
	StyleLabel        string    `json:"style_label" db:"style_label"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileStatus is the taste-profile view returned to clients
type ProfileStatus struct {
	HasEnoughData     bool       `json:"has_enough_data"`
	InteractionCount  int        `json:"interaction_count"`
	MinInteractions   int        `json:"min_interactions"`
	StyleLabel        string     `json:"style_label,omitempty"`
	CategoryWeights   WeightMap  `json:"category_weights,omitempty"`
	AtmosphereWeights WeightMap  `json:"atmosphere_weights,omitempty"`
	ContextWeights    WeightMap  `json:"context_weights,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}
