// Package candidate holds the scored-candidate map every extraction method returns.
package candidate

import (
	"sort"
	"strings"
)

// Candidate is a scored keyword candidate.
type Candidate struct {
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
	Frequency int     `json:"frequency"`
}

// Map holds candidates keyed by their lower-cased text.
type Map map[string]Candidate

// Key returns the map key for text.
func Key(text string) string {
	return strings.ToLower(text)
}

// Put stores c under its key, replacing any previous entry.
func (m Map) Put(c Candidate) {
	m[Key(c.Text)] = c
}

// Keys returns the map keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sorted returns the candidates by descending score, ties broken by key.
func (m Map) Sorted() []Candidate {
	out := make([]Candidate, 0, len(m))
	for _, k := range m.Keys() {
		out = append(out, m[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
