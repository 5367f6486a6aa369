package entities

import "math"

// Mention is one occurrence of a named entity.
type Mention struct {
	Text     string  `json:"text"`
	Category string  `json:"category"`
	Span     Span    `json:"span"`
	Sentence int     `json:"sentence"`
	Score    float64 `json:"score"`
}

// Entity groups the mentions sharing a case-insensitive text.
type Entity struct {
	Text     string    `json:"text"`
	Category string    `json:"category"`
	Mentions []Mention `json:"mentions"`
}

// Confidence is the average mention score plus 0.1 per repeated mention
// (at most 0.5), capped at 1.
func (e *Entity) Confidence() float64 {
	n := len(e.Mentions)
	if n == 0 {
		return 0
	}
	total := 0.0
	for _, m := range e.Mentions {
		total += m.Score
	}
	avg := total / float64(n)
	return math.Min(1, avg+math.Min(0.5, float64(n-1)*0.1))
}

// Score is the sum of the mention scores.
func (e *Entity) Score() float64 {
	total := 0.0
	for _, m := range e.Mentions {
		total += m.Score
	}
	return total
}
