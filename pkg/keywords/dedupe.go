package keywords

import (
	"sort"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/kljensen/snowball/english"
)

// Deduplicate walks ranked entries in order and drops single-word,
// non-entity entries that share a stem with an entry already kept. It
// returns at most limit results (all when limit <= 0).
func Deduplicate(ranked []*Entry, limit int) []KeywordResult {
	emitted := mapset.NewThreadUnsafeSet[string]()
	out := make([]KeywordResult, 0, len(ranked))
	for _, e := range ranked {
		if limit > 0 && len(out) >= limit {
			break
		}
		words := strings.Fields(e.Keyword)
		stems := Stems(e.Keyword)
		if len(words) == 1 && e.Type != TypeEntity && emitted.ContainsAny(stems...) {
			continue
		}
		emitted.Append(stems...)
		out = append(out, toResult(e, len(words)))
	}
	return out
}

// Stems returns the Porter2 stems of the words of s.
func Stems(s string) []string {
	var stems []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if w == "" {
			continue
		}
		stems = append(stems, english.Stem(w, false))
	}
	return stems
}

func toResult(e *Entry, length int) KeywordResult {
	related := e.Related.ToSlice()
	sort.Strings(related)
	return KeywordResult{
		Keyword:      e.Keyword,
		Score:        e.Score,
		Frequency:    e.Frequency,
		Length:       length,
		Source:       SourceHybrid,
		Type:         e.Type,
		RelatedTerms: related,
	}
}
