package keywords

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/athapong/aio-keywords/pkg/keywords/candidate"
	"github.com/athapong/aio-keywords/pkg/keywords/entities"
)

// Entry is one merged keyword before deduplication.
type Entry struct {
	Keyword   string
	Score     float64
	Frequency int
	Type      KeywordType
	Related   mapset.Set[string]
}

// CombineInput holds the outputs of the extraction methods. Failed methods
// contribute nil maps.
type CombineInput struct {
	Phrases  candidate.Map
	Terms    candidate.Map
	Entities candidate.Map
	// CoOccurrences links entity keys seen in the same sentence.
	CoOccurrences map[string]mapset.Set[string]
	Evidence      []*entities.RelationshipEvidence
}

// Combined is the merged keyword map keyed by lower-cased keyword.
type Combined struct {
	entries map[string]*Entry
}

// Combine merges entities, phrase candidates and terms into one typed map.
// Entities go first and an inserted key is never overwritten.
func Combine(cfg CombinerConfig, in CombineInput, minScore float64) *Combined {
	c := &Combined{entries: make(map[string]*Entry)}

	for _, key := range in.Entities.Keys() {
		e := in.Entities[key]
		c.insert(key, e, TypeEntity, e.Score*cfg.EntityBoost)
	}
	for _, key := range sortedKeys(in.CoOccurrences) {
		for _, other := range sortedSet(in.CoOccurrences[key]) {
			c.link(key, other)
		}
	}
	for _, ev := range in.Evidence {
		if ev.Confidence >= cfg.RelationMinConfidence {
			c.link(candidate.Key(ev.TermA), candidate.Key(ev.TermB))
		}
	}

	entityKeys := in.Entities.Keys()
	for _, key := range in.Phrases.Keys() {
		if _, exists := c.entries[key]; exists {
			continue
		}
		p := in.Phrases[key]
		c.insert(key, p, TypeConcept, p.Score)
		for _, ek := range entityKeys {
			if _, ok := c.entries[ek]; ok && overlaps(key, ek) {
				c.link(key, ek)
			}
		}
	}

	for _, key := range in.Terms.Keys() {
		t := in.Terms[key]
		if _, exists := c.entries[key]; exists || t.Score <= minScore {
			continue
		}
		existing := c.keys()
		c.insert(key, t, TypeTerm, t.Score*cfg.TermWeight)
		for _, other := range existing {
			if overlaps(key, other) {
				c.link(key, other)
			}
		}
	}
	return c
}

func (c *Combined) insert(key string, cand candidate.Candidate, typ KeywordType, score float64) {
	c.entries[key] = &Entry{
		Keyword:   cand.Text,
		Score:     score,
		Frequency: cand.Frequency,
		Type:      typ,
		Related:   mapset.NewThreadUnsafeSet[string](),
	}
}

// link relates two present, distinct entries in both directions.
func (c *Combined) link(a, b string) {
	ea, okA := c.entries[a]
	eb, okB := c.entries[b]
	if !okA || !okB || a == b {
		return
	}
	ea.Related.Add(eb.Keyword)
	eb.Related.Add(ea.Keyword)
}

func (c *Combined) keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the entry for keyword, matched case-insensitively.
func (c *Combined) Get(keyword string) (*Entry, bool) {
	e, ok := c.entries[candidate.Key(keyword)]
	return e, ok
}

// Len returns the number of entries.
func (c *Combined) Len() int {
	return len(c.entries)
}

// Select returns up to n entries ordered by type priority, then descending
// score, then keyword. n <= 0 selects every entry.
func (c *Combined) Select(n int) []*Entry {
	out := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if pa, pb := a.Type.Priority(), b.Type.Priority(); pa != pb {
			return pa < pb
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return candidate.Key(a.Keyword) < candidate.Key(b.Keyword)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func overlaps(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func sortedKeys(m map[string]mapset.Set[string]) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(s mapset.Set[string]) []string {
	if s == nil {
		return nil
	}
	out := s.ToSlice()
	sort.Strings(out)
	return out
}
