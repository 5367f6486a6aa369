// Package keywords extracts ranked keywords, entities and relationships from
// a single document by combining phrase ranking, term weighting and named
// entity recognition.
package keywords

import (
	"math"
	"time"

	"github.com/athapong/aio-keywords/pkg/keywords/candidate"
	"github.com/athapong/aio-keywords/pkg/keywords/entities"
)

// KeywordType classifies a keyword.
type KeywordType string

const (
	TypeEntity  KeywordType = "entity"
	TypeConcept KeywordType = "concept"
	TypeTerm    KeywordType = "term"
)

// Priority orders keyword types; lower comes first.
func (t KeywordType) Priority() int {
	switch t {
	case TypeEntity:
		return 0
	case TypeConcept:
		return 1
	default:
		return 2
	}
}

// SourceHybrid is the source reported for every keyword.
const SourceHybrid = "hybrid"

const (
	DefaultMaxKeywords = 20
	DefaultMinScore    = 0.05
)

// ExtractRequest is a single-document extraction request.
type ExtractRequest struct {
	Content     string  `json:"content"`
	MaxKeywords int     `json:"max_keywords"`
	MinScore    float64 `json:"min_score"`
}

// NewExtractRequest returns a request for content with default limits.
func NewExtractRequest(content string) ExtractRequest {
	return ExtractRequest{
		Content:     content,
		MaxKeywords: DefaultMaxKeywords,
		MinScore:    DefaultMinScore,
	}
}

// normalized replaces a non-positive MaxKeywords with the default and clamps
// MinScore into [0, 1].
func (r ExtractRequest) normalized() ExtractRequest {
	if r.MaxKeywords <= 0 {
		r.MaxKeywords = DefaultMaxKeywords
	}
	switch {
	case math.IsNaN(r.MinScore):
		r.MinScore = DefaultMinScore
	case r.MinScore < 0:
		r.MinScore = 0
	case r.MinScore > 1:
		r.MinScore = 1
	}
	return r
}

// KeywordResult is one ranked keyword.
type KeywordResult struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
	// Frequency is the literal, whole-word, case-insensitive occurrence
	// count in the normalized input.
	Frequency    int         `json:"frequency"`
	Length       int         `json:"length"`
	Source       string      `json:"source"`
	Type         KeywordType `json:"type"`
	RelatedTerms []string    `json:"related_terms"`
}

// EntityReport summarises an aggregated entity.
type EntityReport struct {
	Text       string  `json:"text"`
	Category   string  `json:"category"`
	Mentions   int     `json:"mentions"`
	Confidence float64 `json:"confidence"`
}

// Method names an extraction method.
type Method string

const (
	MethodPhrases  Method = "phrases"
	MethodTerms    Method = "terms"
	MethodEntities Method = "entities"
)

// MethodOutcome is the typed result of one extraction method. A failed
// method has a nil Candidates map and a non-nil Err.
type MethodOutcome struct {
	Method     Method        `json:"method"`
	Candidates candidate.Map `json:"-"`
	Count      int           `json:"count"`
	Err        error         `json:"-"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Failed reports whether the method failed.
func (o MethodOutcome) Failed() bool {
	return o.Err != nil
}

// Report is the full result of an extraction call.
type Report struct {
	Keywords      []KeywordResult                  `json:"keywords"`
	Entities      []EntityReport                   `json:"entities"`
	Relationships []*entities.RelationshipEvidence `json:"relationships"`
	Outcomes      []MethodOutcome                  `json:"outcomes"`
}

func emptyReport() *Report {
	return &Report{
		Keywords:      []KeywordResult{},
		Entities:      []EntityReport{},
		Relationships: []*entities.RelationshipEvidence{},
		Outcomes:      []MethodOutcome{},
	}
}
