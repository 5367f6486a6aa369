// Package entities turns tagged entity mentions into scored keyword
// candidates and records which entities appear together in a sentence.
package entities

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"

	"github.com/athapong/aio-keywords/pkg/keywords/candidate"
	"github.com/athapong/aio-keywords/pkg/keywords/text"
	"github.com/athapong/aio-keywords/pkg/nlp"
)

// Config configures the recognizer.
type Config struct {
	// Categories are the entity labels kept as keywords.
	Categories     []string `yaml:"categories"`
	MultiWordScore float64  `yaml:"multi_word_score"`
}

// DefaultConfig returns the default recognizer configuration.
func DefaultConfig() Config {
	return Config{
		Categories: []string{
			nlp.EntityOrg, nlp.EntityPerson, nlp.EntityProduct,
			nlp.EntityGPE, nlp.EntityLoc, nlp.EntityWorkOfArt,
		},
		MultiWordScore: 1.1,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if len(c.Categories) == 0 {
		return errors.New("at least one entity category is required")
	}
	if c.MultiWordScore <= 0 {
		return errors.Errorf("multi_word_score must be positive, got %v", c.MultiWordScore)
	}
	return nil
}

const singleWordScore = 1.0

// Result is the outcome of one recognition call. It shares nothing with
// other calls.
type Result struct {
	// Document is the analysed input.
	Document   *nlp.Document
	Candidates candidate.Map
	// Entities is keyed by lower-cased entity text.
	Entities map[string]*Entity
	Evidence *Accumulator
	// CoOccurrences links entity keys seen in the same sentence, both ways.
	CoOccurrences map[string]mapset.Set[string]
}

// SortedEntities returns the entities ordered by key.
func (r *Result) SortedEntities() []*Entity {
	keys := make([]string, 0, len(r.Entities))
	for k := range r.Entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Entity, len(keys))
	for i, k := range keys {
		out[i] = r.Entities[k]
	}
	return out
}

// Recognizer extracts entity candidates from an analysed document.
type Recognizer struct {
	cfg        Config
	categories mapset.Set[string]
}

// New creates a recognizer.
func New(cfg Config) (*Recognizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Recognizer{
		cfg:        cfg,
		categories: mapset.NewSet[string](cfg.Categories...),
	}, nil
}

// Extract collects entity mentions of the allowed categories from doc,
// scores them and records relationship evidence for every pair of distinct
// entities in a sentence.
func (r *Recognizer) Extract(doc *nlp.Document) *Result {
	res := &Result{
		Evidence:      NewAccumulator(),
		Candidates:    make(candidate.Map),
		Entities:      make(map[string]*Entity),
		CoOccurrences: make(map[string]mapset.Set[string]),
	}
	if doc == nil {
		return res
	}
	res.Document = doc

	mentions := r.mentions(doc)
	for _, m := range mentions {
		key := candidate.Key(m.Text)
		e, ok := res.Entities[key]
		if !ok {
			e = &Entity{Text: m.Text, Category: m.Category}
			res.Entities[key] = e
		}
		e.Mentions = append(e.Mentions, m)
	}

	counter := text.NewCounter(doc.Text)
	for key, e := range res.Entities {
		res.Candidates[key] = candidate.Candidate{
			Text:      e.Text,
			Score:     e.Score(),
			Frequency: counter.Count(e.Text),
		}
	}

	r.relate(doc, mentions, res)
	return res
}

func (r *Recognizer) mentions(doc *nlp.Document) []Mention {
	var out []Mention
	tokens := doc.Tokens
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if tok.Entity == "" || !r.categories.Contains(tok.Entity) {
			i++
			continue
		}
		j := i + 1
		for j < len(tokens) && tokens[j].Entity == tok.Entity && !tokens[j].EntityBegin && tokens[j].Sentence == tok.Sentence {
			j++
		}

		surface := spanText(doc, i, j)
		if surface != "" {
			score := singleWordScore
			if len(strings.Fields(surface)) > 1 {
				score = r.cfg.MultiWordScore
			}
			out = append(out, Mention{
				Text:     surface,
				Category: tok.Entity,
				Span:     Span{Start: i, End: j},
				Sentence: tok.Sentence,
				Score:    score,
			})
		}
		i = j
	}
	return out
}

func spanText(doc *nlp.Document, start, end int) string {
	first, last := doc.Tokens[start], doc.Tokens[end-1]
	if first.Start < last.End && last.End <= len(doc.Text) {
		return text.Normalize(doc.Text[first.Start:last.End])
	}
	words := make([]string, 0, end-start)
	for _, tok := range doc.Tokens[start:end] {
		words = append(words, tok.Text)
	}
	return text.Normalize(strings.Join(words, " "))
}

func (r *Recognizer) relate(doc *nlp.Document, mentions []Mention, res *Result) {
	for i := 0; i < len(mentions); i++ {
		for j := i + 1; j < len(mentions) && mentions[j].Sentence == mentions[i].Sentence; j++ {
			a, b := mentions[i], mentions[j]
			keyA, keyB := candidate.Key(a.Text), candidate.Key(b.Text)
			if keyA == keyB {
				continue
			}

			res.Evidence.Add(res.Entities[keyA].Text, res.Entities[keyB].Text, Context{
				Sentence:      doc.SentenceText(a.Sentence),
				SentenceIndex: a.Sentence,
				SpanA:         a.Span,
				SpanB:         b.Span,
				HeadA:         head(doc, a.Span),
				HeadB:         head(doc, b.Span),
			})
			link(res.CoOccurrences, keyA, keyB)
			link(res.CoOccurrences, keyB, keyA)
		}
	}
}

// head describes the last token of span, the head of a noun phrase in English.
func head(doc *nlp.Document, span Span) string {
	tok := doc.Tokens[span.End-1]
	return tok.Dep + ":" + tok.Text
}

func link(links map[string]mapset.Set[string], from, to string) {
	set, ok := links[from]
	if !ok {
		set = mapset.NewSet[string]()
		links[from] = set
	}
	set.Add(to)
}
