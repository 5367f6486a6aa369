// Package tfidf weights 1-3 word n-grams of a single document.
//
// The document is its own reference corpus, so the smoothed inverse document
// frequency is ln((1+1)/(1+1)) + 1 = 1 for every term and the weight reduces
// to L2-normalized sublinear term frequency.
package tfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/athapong/aio-keywords/pkg/keywords/candidate"
	"github.com/athapong/aio-keywords/pkg/keywords/text"
	"github.com/athapong/aio-keywords/pkg/keywords/validate"
)

// Config tunes term weighting.
type Config struct {
	MaxNGram int `yaml:"max_ngram"`
	MaxTerms int `yaml:"max_terms"`
}

// DefaultConfig returns the default term weighting configuration.
func DefaultConfig() Config {
	return Config{MaxNGram: 3, MaxTerms: 50}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxNGram < 1 {
		return errors.Errorf("max_ngram must be at least 1, got %d", c.MaxNGram)
	}
	if c.MaxTerms < 1 {
		return errors.Errorf("max_terms must be at least 1, got %d", c.MaxTerms)
	}
	return nil
}

// Validator accepts or rejects a candidate term.
type Validator interface {
	IsValid(phrase string) bool
}

// Scorer weights document terms.
type Scorer struct {
	cfg Config
}

// New creates a scorer.
func New(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg}, nil
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Weights returns the weight of every n-gram of s, stopwords removed.
func (s *Scorer) Weights(doc string) map[string]float64 {
	var tokens []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(doc), -1) {
		if !validate.Stopwords.Contains(tok) {
			tokens = append(tokens, tok)
		}
	}

	counts := make(map[string]int)
	for n := 1; n <= s.cfg.MaxNGram; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			counts[strings.Join(tokens[i:i+n], " ")]++
		}
	}

	const idf = 1.0
	weights := make(map[string]float64, len(counts))
	norm := 0.0
	for term, c := range counts {
		w := (1 + math.Log(float64(c))) * idf
		weights[term] = w
		norm += w * w
	}
	if norm == 0 {
		return weights
	}
	norm = math.Sqrt(norm)
	for term := range weights {
		weights[term] /= norm
	}
	return weights
}

// Extract returns up to MaxTerms of the highest weighted terms that v accepts
// and that literally occur in doc.
func (s *Scorer) Extract(doc string, v Validator) candidate.Map {
	weights := s.Weights(doc)
	terms := make([]string, 0, len(weights))
	for term := range weights {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if weights[terms[i]] != weights[terms[j]] {
			return weights[terms[i]] > weights[terms[j]]
		}
		return terms[i] < terms[j]
	})

	counter := text.NewCounter(doc)
	out := make(candidate.Map)
	for _, term := range terms {
		if len(out) >= s.cfg.MaxTerms {
			break
		}
		if !v.IsValid(term) {
			continue
		}
		freq := counter.Count(term)
		if freq == 0 {
			continue
		}
		out[term] = candidate.Candidate{Text: term, Score: weights[term], Frequency: freq}
	}
	return out
}
