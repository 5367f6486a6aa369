// Package nlptest provides a deterministic, rule-based nlp.Engine for tests.
package nlptest

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/athapong/aio-keywords/pkg/nlp"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)

// Engine tags words from a lexicon and labels configured entity names.
// Unknown capitalised words are proper nouns, unknown lower-case words
// nouns, except for -ly adverbs and -ed verbs.
type Engine struct {
	Lexicon  map[string]string
	Entities map[string]string
	// Err, when set, is returned by Analyze and Tag.
	Err error
	// Panic, when set, makes Analyze panic with this value.
	Panic interface{}
}

// New returns an engine with the default lexicon and the given entities
// (surface form -> category).
func New(entities map[string]string) *Engine {
	lex := make(map[string]string, len(defaultLexicon))
	for word, pos := range defaultLexicon {
		lex[word] = pos
	}
	if entities == nil {
		entities = map[string]string{}
	}
	return &Engine{Lexicon: lex, Entities: entities}
}

// Analyze implements nlp.Engine.
func (e *Engine) Analyze(text string) (*nlp.Document, error) {
	if e.Panic != nil {
		panic(e.Panic)
	}
	if e.Err != nil {
		return nil, e.Err
	}

	doc := &nlp.Document{Text: text}
	sentenceStart := true
	sentence := 0
	for _, loc := range tokenPattern.FindAllStringIndex(text, -1) {
		word := text[loc[0]:loc[1]]
		doc.Tokens = append(doc.Tokens, nlp.Token{
			Text:     word,
			POS:      e.pos(word, sentenceStart),
			Sentence: sentence,
			Start:    loc[0],
			End:      loc[1],
		})
		sentenceStart = false
		if word == "." || word == "!" || word == "?" {
			sentence++
			sentenceStart = true
		}
	}

	doc.Sentences = buildSentences(text, doc.Tokens)
	e.labelEntities(doc.Tokens)

	start := 0
	for i := 1; i <= len(doc.Tokens); i++ {
		if i == len(doc.Tokens) || doc.Tokens[i].Sentence != doc.Tokens[start].Sentence {
			nlp.AssignRoles(doc.Tokens[start:i])
			start = i
		}
	}
	return doc, nil
}

// Tag implements nlp.Tagger.
func (e *Engine) Tag(text string) ([]nlp.Token, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	doc, err := e.Analyze(text)
	if err != nil {
		return nil, err
	}
	for i := range doc.Tokens {
		doc.Tokens[i].Entity = ""
		doc.Tokens[i].EntityBegin = false
	}
	return doc.Tokens, nil
}

func (e *Engine) pos(word string, sentenceStart bool) string {
	if pos, ok := e.Lexicon[strings.ToLower(word)]; ok {
		if !sentenceStart && isCapitalised(word) && (pos == nlp.POSNoun || pos == nlp.POSAdj) {
			return nlp.POSPropn
		}
		return pos
	}
	r, _ := utf8.DecodeRuneInString(word)
	switch {
	case unicode.IsDigit(r):
		return nlp.POSNum
	case !unicode.IsLetter(r):
		return nlp.POSPunct
	case isCapitalised(word):
		return nlp.POSPropn
	case strings.HasSuffix(word, "ly"):
		return nlp.POSAdv
	case strings.HasSuffix(word, "ed"):
		return nlp.POSVerb
	}
	return nlp.POSNoun
}

func isCapitalised(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

func buildSentences(text string, tokens []nlp.Token) []nlp.Sentence {
	var sentences []nlp.Sentence
	for i, tok := range tokens {
		if i == 0 || tok.Sentence != tokens[i-1].Sentence {
			sentences = append(sentences, nlp.Sentence{Index: tok.Sentence, Start: tok.Start})
		}
		last := &sentences[len(sentences)-1]
		last.End = tok.End
	}
	for i := range sentences {
		sentences[i].Text = text[sentences[i].Start:sentences[i].End]
	}
	return sentences
}

func (e *Engine) labelEntities(tokens []nlp.Token) {
	names := make([]string, 0, len(e.Entities))
	for name := range e.Entities {
		names = append(names, name)
	}
	// Longest names first so "Satya Nadella" wins over "Satya".
	sort.Slice(names, func(i, j int) bool {
		wi, wj := len(strings.Fields(names[i])), len(strings.Fields(names[j]))
		if wi != wj {
			return wi > wj
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		words := strings.Fields(name)
		for i := 0; i+len(words) <= len(tokens); i++ {
			if !matches(tokens[i:i+len(words)], words) {
				continue
			}
			for j := range words {
				tokens[i+j].Entity = e.Entities[name]
				tokens[i+j].EntityBegin = j == 0
			}
		}
	}
}

func matches(span []nlp.Token, words []string) bool {
	for j, w := range words {
		if span[j].Text != w || span[j].Entity != "" || span[j].Sentence != span[0].Sentence {
			return false
		}
	}
	return true
}

var defaultLexicon = map[string]string{
	// Determiners and pronouns
	"the": nlp.POSDet, "a": nlp.POSDet, "an": nlp.POSDet, "this": nlp.POSDet, "that": nlp.POSDet,
	"these": nlp.POSDet, "those": nlp.POSDet, "every": nlp.POSDet, "each": nlp.POSDet, "some": nlp.POSDet,
	"it": nlp.POSPron, "they": nlp.POSPron, "we": nlp.POSPron, "he": nlp.POSPron, "she": nlp.POSPron,
	"its": nlp.POSPron, "their": nlp.POSPron, "our": nlp.POSPron, "his": nlp.POSPron, "her": nlp.POSPron,

	// Prepositions and conjunctions
	"in": nlp.POSAdp, "on": nlp.POSAdp, "at": nlp.POSAdp, "of": nlp.POSAdp, "for": nlp.POSAdp,
	"with": nlp.POSAdp, "by": nlp.POSAdp, "from": nlp.POSAdp, "into": nlp.POSAdp, "across": nlp.POSAdp,
	"to": nlp.POSPart, "and": nlp.POSCconj, "or": nlp.POSCconj, "but": nlp.POSCconj,

	// Auxiliaries and verbs
	"is": nlp.POSAux, "are": nlp.POSAux, "was": nlp.POSAux, "were": nlp.POSAux, "be": nlp.POSAux,
	"has": nlp.POSAux, "have": nlp.POSAux, "can": nlp.POSAux, "will": nlp.POSAux,
	"builds": nlp.POSVerb, "build": nlp.POSVerb, "runs": nlp.POSVerb, "run": nlp.POSVerb,
	"uses": nlp.POSVerb, "use": nlp.POSVerb, "helps": nlp.POSVerb, "help": nlp.POSVerb,
	"rely": nlp.POSVerb, "relies": nlp.POSVerb, "keeps": nlp.POSVerb, "keep": nlp.POSVerb,
	"collect": nlp.POSVerb, "collects": nlp.POSVerb, "stores": nlp.POSVerb, "store": nlp.POSVerb,
	"makes": nlp.POSVerb, "make": nlp.POSVerb, "provides": nlp.POSVerb, "supports": nlp.POSVerb,
	"understand": nlp.POSVerb, "improves": nlp.POSVerb, "reduces": nlp.POSVerb, "powers": nlp.POSVerb,
	"said": nlp.POSVerb, "announced": nlp.POSVerb, "discussed": nlp.POSVerb, "launched": nlp.POSVerb,
	"acquired": nlp.POSVerb, "released": nlp.POSVerb, "opened": nlp.POSVerb, "leads": nlp.POSVerb,
	"visited": nlp.POSVerb, "met": nlp.POSVerb, "works": nlp.POSVerb, "train": nlp.POSVerb,

	// Adjectives
	"new": nlp.POSAdj, "large": nlp.POSAdj, "modern": nlp.POSAdj, "distributed": nlp.POSAdj,
	"scalable": nlp.POSAdj, "open": nlp.POSAdj, "fast": nlp.POSAdj, "secure": nlp.POSAdj,
	"neural": nlp.POSAdj, "columnar": nlp.POSAdj, "renewable": nlp.POSAdj, "public": nlp.POSAdj,
	"global": nlp.POSAdj, "deep": nlp.POSAdj, "natural": nlp.POSAdj, "many": nlp.POSAdj,

	// Adverbs
	"also": nlp.POSAdv, "quickly": nlp.POSAdv, "very": nlp.POSAdv, "not": nlp.POSPart,
}
