// Package rake ranks multi-word candidate phrases by the degree and
// frequency of their words in the co-occurrence graph of a single text.
package rake

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/athapong/aio-keywords/pkg/keywords/candidate"
	"github.com/athapong/aio-keywords/pkg/keywords/text"
	"github.com/athapong/aio-keywords/pkg/keywords/validate"
)

// Config tunes phrase scoring.
type Config struct {
	// MinScore is the absolute floor applied before scaling.
	MinScore float64 `yaml:"min_score"`
	// ChunkSize is the input size, in bytes, above which text is chunked.
	ChunkSize               int     `yaml:"chunk_size"`
	TwoWordBoost            float64 `yaml:"two_word_boost"`
	LongPhrasePenalty       float64 `yaml:"long_phrase_penalty"`
	SingleOccurrencePenalty float64 `yaml:"single_occurrence_penalty"`
	ScaleMin                float64 `yaml:"scale_min"`
	ScaleMax                float64 `yaml:"scale_max"`
}

// DefaultConfig returns the default phrase scoring configuration.
func DefaultConfig() Config {
	return Config{
		MinScore:                0.5,
		ChunkSize:               50000,
		TwoWordBoost:            1.15,
		LongPhrasePenalty:       0.85,
		SingleOccurrencePenalty: 0.5,
		ScaleMin:                1,
		ScaleMax:                10,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.MinScore < 0:
		return errors.Errorf("min_score must not be negative, got %v", c.MinScore)
	case c.ChunkSize < 1:
		return errors.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	case c.TwoWordBoost <= 0 || c.LongPhrasePenalty <= 0 || c.SingleOccurrencePenalty <= 0:
		return errors.New("score multipliers must be positive")
	case c.ScaleMax <= c.ScaleMin:
		return errors.Errorf("scale_max (%v) must be greater than scale_min (%v)", c.ScaleMax, c.ScaleMin)
	}
	return nil
}

// Validator accepts or rejects a candidate phrase.
type Validator interface {
	IsValid(phrase string) bool
}

// Generator extracts ranked phrase candidates.
type Generator struct {
	cfg Config
}

// New creates a generator.
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Extract returns the candidates of text accepted by v, keyed by lower-cased
// phrase, with scores scaled into [ScaleMin, ScaleMax].
func (g *Generator) Extract(s string, v Validator) candidate.Map {
	var merged candidate.Map
	if len(s) <= g.cfg.ChunkSize {
		merged = g.extractChunk(s, v)
	} else {
		merged = make(candidate.Map)
		for _, chunk := range SplitChunks(s, g.cfg.ChunkSize) {
			for key, c := range g.extractChunk(chunk, v) {
				prev, ok := merged[key]
				if !ok {
					merged[key] = c
					continue
				}
				prev.Frequency += c.Frequency
				prev.Score = math.Max(prev.Score, c.Score)
				merged[key] = prev
			}
		}
	}
	g.scale(merged)
	return merged
}

func (g *Generator) extractChunk(s string, v Validator) candidate.Map {
	phrases := splitPhrases(s)

	wordFreq := make(map[string]int)
	wordDegree := make(map[string]int)
	for _, p := range phrases {
		for _, w := range p.words {
			wordFreq[w]++
			wordDegree[w] += len(p.words)
		}
	}

	counter := text.NewCounter(s)
	out := make(candidate.Map)
	seen := make(map[string]bool)
	for _, p := range phrases {
		key := strings.Join(p.words, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		if !v.IsValid(p.surface) {
			continue
		}

		raw := 0.0
		for _, w := range p.words {
			raw += float64(wordDegree[w]) / float64(wordFreq[w])
		}

		freq := counter.Count(key)
		score := raw * math.Log1p(float64(freq))
		switch n := len(p.words); {
		case n == 2:
			score *= g.cfg.TwoWordBoost
		case n > 3:
			score *= g.cfg.LongPhrasePenalty
		}
		if freq == 1 {
			score *= g.cfg.SingleOccurrencePenalty
		}
		if score < g.cfg.MinScore {
			continue
		}
		out[key] = candidate.Candidate{Text: p.surface, Score: score, Frequency: freq}
	}
	return out
}

// scale min-max normalizes scores into [ScaleMin, ScaleMax]. Identical
// scores are left untouched.
func (g *Generator) scale(m candidate.Map) {
	if len(m) == 0 {
		return
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range m {
		lo = math.Min(lo, c.Score)
		hi = math.Max(hi, c.Score)
	}
	if hi == lo {
		return
	}
	for key, c := range m {
		c.Score = g.cfg.ScaleMin + (c.Score-lo)/(hi-lo)*(g.cfg.ScaleMax-g.cfg.ScaleMin)
		m[key] = c
	}
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]+`)

type phrase struct {
	words   []string // lower-cased
	surface string
}

// splitPhrases breaks s into runs of content words. Stopwords, punctuation
// and tokens containing digits end a run.
func splitPhrases(s string) []phrase {
	var (
		phrases []phrase
		words   []string
		surface []string
	)
	flush := func() {
		if len(words) > 0 {
			phrases = append(phrases, phrase{words: words, surface: strings.Join(surface, " ")})
		}
		words, surface = nil, nil
	}

	for _, tok := range tokenPattern.FindAllString(s, -1) {
		lower := strings.ToLower(tok)
		if !isWord(tok) || validate.Stopwords.Contains(lower) {
			flush()
			continue
		}
		words = append(words, lower)
		surface = append(surface, tok)
	}
	flush()
	return phrases
}

func isWord(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	if !unicode.IsLetter(r) {
		return false
	}
	return strings.IndexFunc(tok, unicode.IsDigit) < 0
}

// SplitChunks splits s into pieces of at most size bytes, preferring to cut
// after sentence punctuation in the second half of a piece, then at
// whitespace, then at any rune boundary.
func SplitChunks(s string, size int) []string {
	if size < 1 {
		return []string{s}
	}
	var chunks []string
	rest := s
	for len(rest) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(rest[cut]) {
			cut--
		}
		window := rest[:cut]
		half := cut / 2

		if i := lastSentenceEnd(window[half:]); i >= 0 {
			cut = half + i + 1
		} else if i := strings.LastIndexFunc(window[half:], unicode.IsSpace); i >= 0 {
			cut = half + i
		}
		if cut == 0 {
			_, n := utf8.DecodeRuneInString(rest)
			cut = n
		}

		if chunk := strings.TrimSpace(rest[:cut]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		rest = strings.TrimLeftFunc(rest[cut:], unicode.IsSpace)
	}
	if chunk := strings.TrimSpace(rest); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func lastSentenceEnd(s string) int {
	best := -1
	for _, p := range []string{". ", "! ", "? "} {
		if i := strings.LastIndex(s, p); i > best {
			best = i
		}
	}
	return best
}
