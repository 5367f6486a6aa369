package nlp

import "strings"

// LexiconTagger tags phrases with the part-of-speech each word received in
// an analysed document, so candidate phrases are judged by their in-context
// tags rather than by re-tagging them in isolation. Words the document never
// contained are delegated to a fallback tagger when one is set.
type LexiconTagger struct {
	lexicon  map[string]string
	fallback Tagger
}

type posCount struct {
	pos   string
	count int
}

// NewLexiconTagger builds a tagger from doc. For words tagged differently
// across the document the most frequent tag wins, ties going to the first seen.
func NewLexiconTagger(doc *Document, fallback Tagger) *LexiconTagger {
	t := &LexiconTagger{
		lexicon:  make(map[string]string),
		fallback: fallback,
	}
	if doc == nil {
		return t
	}

	counts := make(map[string][]posCount)
	for _, tok := range doc.Tokens {
		if tok.POS == POSPunct || tok.Text == "" {
			continue
		}
		key := strings.ToLower(tok.Text)
		seen := counts[key]
		found := false
		for i := range seen {
			if seen[i].pos == tok.POS {
				seen[i].count++
				found = true
				break
			}
		}
		if !found {
			seen = append(seen, posCount{pos: tok.POS, count: 1})
		}
		counts[key] = seen
	}

	for word, seen := range counts {
		best := seen[0]
		for _, c := range seen[1:] {
			if c.count > best.count {
				best = c
			}
		}
		t.lexicon[word] = best.pos
	}
	return t
}

// Len returns the number of known words.
func (t *LexiconTagger) Len() int {
	return len(t.lexicon)
}

// Tag implements Tagger.
func (t *LexiconTagger) Tag(text string) ([]Token, error) {
	words := strings.Fields(text)
	tokens := make([]Token, 0, len(words))
	cursor := 0
	for _, word := range words {
		pos, ok := t.lexicon[strings.ToLower(word)]
		if !ok {
			if t.fallback != nil {
				return t.fallback.Tag(text)
			}
			pos = POSOther
		}
		start, end := locate(text, word, cursor)
		cursor = end
		tokens = append(tokens, Token{Text: word, POS: pos, Start: start, End: end})
	}
	AssignRoles(tokens)
	return tokens, nil
}
