// Package validate decides whether a candidate string is an acceptable
// keyword phrase. Rules are evaluated in a fixed, versioned order and the
// first rule that accepts or rejects decides.
package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/athapong/aio-keywords/pkg/nlp"
)

// RulesVersion identifies the current rule list. Bump it whenever a rule is
// added, removed, reordered or changes meaning.
const RulesVersion = 3

// DefaultMaxWords is the default maximum phrase length in words.
const DefaultMaxWords = 4

// Config configures a Validator.
type Config struct {
	MaxWords int `yaml:"max_words"`
}

// DefaultConfig returns the default validator configuration.
func DefaultConfig() Config {
	return Config{MaxWords: DefaultMaxWords}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxWords < 1 {
		return errors.Errorf("max_words must be at least 1, got %d", c.MaxWords)
	}
	return nil
}

type decision int

const (
	next decision = iota
	accept
	reject
)

// Rule is a named predicate in the validation chain.
type Rule struct {
	Name  string
	check func(v *Validator, p phrase) decision
}

type phrase struct {
	text  string
	words []string
}

// Verdict is the result of checking a phrase. Rule names the rule that
// decided; it is empty when every rule passed.
type Verdict struct {
	Valid bool
	Rule  string
}

var rules = []Rule{
	{Name: "allow_list", check: checkAllowList},
	{Name: "max_words", check: checkMaxWords},
	{Name: "stopword_edges", check: checkStopwordEdges},
	{Name: "characters", check: checkCharacters},
	{Name: "question_or_connector", check: checkQuestionOrConnector},
	{Name: "pos_pattern", check: checkPOSPattern},
}

// Validator checks candidate phrases. It is safe for concurrent use as
// long as its tagger is.
type Validator struct {
	cfg    Config
	tagger nlp.Tagger
}

// New creates a validator. A nil tagger disables the part-of-speech rule.
func New(cfg Config, tagger nlp.Tagger) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Validator{cfg: cfg, tagger: tagger}, nil
}

// WithTagger returns a copy of v that tags phrases with tagger.
func (v *Validator) WithTagger(tagger nlp.Tagger) *Validator {
	c := *v
	c.tagger = tagger
	return &c
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

// Check evaluates text against the rule list.
func (v *Validator) Check(text string) Verdict {
	p := phrase{text: strings.TrimSpace(text)}
	p.words = strings.Fields(p.text)
	if len(p.words) == 0 {
		return Verdict{Valid: false, Rule: "empty"}
	}

	for _, r := range rules {
		switch r.check(v, p) {
		case accept:
			return Verdict{Valid: true, Rule: r.Name}
		case reject:
			return Verdict{Valid: false, Rule: r.Name}
		}
	}
	return Verdict{Valid: true}
}

// IsValid reports whether text is an acceptable keyword phrase.
func (v *Validator) IsValid(text string) bool {
	return v.Check(text).Valid
}

func checkAllowList(_ *Validator, p phrase) decision {
	if AllowList.Contains(p.text) {
		return accept
	}
	return next
}

func checkMaxWords(v *Validator, p phrase) decision {
	if len(p.words) > v.cfg.MaxWords {
		return reject
	}
	return next
}

func checkStopwordEdges(_ *Validator, p phrase) decision {
	if isStopword(p.words[0]) || isStopword(p.words[len(p.words)-1]) {
		return reject
	}
	return next
}

var urlPattern = regexp.MustCompile(`(?i)(https?://|www\.|\.(com|org|net|io|dev)\b)`)

func checkCharacters(_ *Validator, p phrase) decision {
	if urlPattern.MatchString(p.text) {
		return reject
	}
	for _, r := range p.text {
		if r == ' ' || r == '-' || unicode.IsLetter(r) {
			continue
		}
		// digits, brackets and any other symbol
		return reject
	}
	return next
}

func checkQuestionOrConnector(_ *Validator, p phrase) decision {
	if QuestionWords.Contains(strings.ToLower(p.words[0])) {
		return reject
	}
	if len(p.words) < 3 {
		return next
	}
	for _, w := range p.words[1 : len(p.words)-1] {
		if Connectors.Contains(strings.ToLower(w)) {
			return reject
		}
	}
	return next
}

var allowedPatterns = map[string]bool{
	"NOUN":           true,
	"PROPN":          true,
	"ADJ NOUN":       true,
	"NOUN NOUN":      true,
	"PROPN NOUN":     true,
	"ADJ ADJ NOUN":   true,
	"ADJ NOUN NOUN":  true,
	"NOUN NOUN NOUN": true,
}

func checkPOSPattern(v *Validator, p phrase) decision {
	if v.tagger == nil {
		return next
	}
	tokens, err := v.tagger.Tag(p.text)
	if err != nil {
		return reject
	}

	tags := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.POS {
		case nlp.POSPunct:
			continue
		case nlp.POSVerb, nlp.POSAux:
			return reject
		}
		tags = append(tags, tok.POS)
	}
	if !allowedPatterns[strings.Join(tags, " ")] {
		return reject
	}
	return next
}
