package nlp

import (
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	processingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "nlp_processing_duration_seconds",
			Help: "Time spent analysing text with the NLP engine",
		},
		[]string{"operation"},
	)

	entityCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlp_entities_extracted_total",
			Help: "Number of entity tokens tagged",
		},
		[]string{"entity_type"},
	)
)

func init() {
	prometheus.MustRegister(processingDuration)
	prometheus.MustRegister(entityCount)
}

// ProseEngine implements Engine and Tagger on top of prose.
type ProseEngine struct {
	gazetteer *Gazetteer
	logger    *logrus.Logger
}

// ProseOption configures a ProseEngine.
type ProseOption func(*ProseEngine)

// WithGazetteer replaces the default gazetteer. A nil gazetteer disables it.
func WithGazetteer(g *Gazetteer) ProseOption {
	return func(e *ProseEngine) {
		e.gazetteer = g
	}
}

// WithProseLogger sets the logger used by the engine.
func WithProseLogger(logger *logrus.Logger) ProseOption {
	return func(e *ProseEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewProseEngine creates a new prose-backed engine
func NewProseEngine(opts ...ProseOption) *ProseEngine {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	e := &ProseEngine{
		gazetteer: DefaultGazetteer(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze implements Engine
func (e *ProseEngine) Analyze(text string) (*Document, error) {
	timer := prometheus.NewTimer(processingDuration.WithLabelValues("analyze"))
	defer timer.ObserveDuration()

	doc, err := prose.NewDocument(text)
	if err != nil {
		e.logger.WithError(err).Error("Failed to create prose document")
		return nil, errors.Wrap(err, "prose analysis failed")
	}

	out := &Document{
		Text:      text,
		Sentences: alignSentences(text, doc.Sentences()),
	}
	out.Tokens = convertTokens(text, doc.Tokens())
	assignSentences(out.Tokens, out.Sentences)
	fixEntityBoundaries(out.Tokens)

	if e.gazetteer != nil {
		e.gazetteer.Apply(out.Tokens)
	}
	extendPersonNames(out.Tokens)
	labelOrganisationSuffixes(out.Tokens)

	forEachSentence(out.Tokens, AssignRoles)

	for _, tok := range out.Tokens {
		if tok.EntityBegin {
			entityCount.WithLabelValues(tok.Entity).Inc()
		}
	}

	e.logger.WithFields(logrus.Fields{
		"content_length":  len(text),
		"tokens_count":    len(out.Tokens),
		"sentences_count": len(out.Sentences),
	}).Debug("NLP analysis completed")

	return out, nil
}

// Tag implements Tagger. Segmentation and entity extraction are skipped.
func (e *ProseEngine) Tag(text string) ([]Token, error) {
	timer := prometheus.NewTimer(processingDuration.WithLabelValues("tag"))
	defer timer.ObserveDuration()

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, errors.Wrap(err, "prose tagging failed")
	}

	tokens := convertTokens(text, doc.Tokens())
	for i := range tokens {
		tokens[i].Entity = ""
		tokens[i].EntityBegin = false
	}
	AssignRoles(tokens)
	return tokens, nil
}

func convertTokens(text string, src []prose.Token) []Token {
	tokens := make([]Token, 0, len(src))
	cursor := 0
	for _, pt := range src {
		start, end := locate(text, pt.Text, cursor)
		if end > cursor {
			cursor = end
		}
		entity, begin := parseIOB(pt.Label)
		tokens = append(tokens, Token{
			Text:        pt.Text,
			Tag:         pt.Tag,
			POS:         UniversalPOS(pt.Tag),
			Entity:      entity,
			EntityBegin: begin,
			Start:       start,
			End:         end,
		})
	}
	return tokens
}

func alignSentences(text string, src []prose.Sentence) []Sentence {
	sentences := make([]Sentence, 0, len(src))
	cursor := 0
	for _, s := range src {
		body := strings.TrimSpace(s.Text)
		if body == "" {
			continue
		}
		start, end := locate(text, body, cursor)
		if end > cursor {
			cursor = end
		}
		sentences = append(sentences, Sentence{
			Index: len(sentences),
			Text:  body,
			Start: start,
			End:   end,
		})
	}
	if len(sentences) == 0 && strings.TrimSpace(text) != "" {
		sentences = append(sentences, Sentence{Text: strings.TrimSpace(text), Start: 0, End: len(text)})
	}
	return sentences
}

// locate finds needle in text at or after cursor. A token the engine
// rewrote (and therefore cannot be found) gets an empty span at cursor.
func locate(text, needle string, cursor int) (int, int) {
	if cursor > len(text) {
		cursor = len(text)
	}
	idx := strings.Index(text[cursor:], needle)
	if idx < 0 || needle == "" {
		return cursor, cursor
	}
	start := cursor + idx
	return start, start + len(needle)
}

func assignSentences(tokens []Token, sentences []Sentence) {
	idx := 0
	for i := range tokens {
		for idx+1 < len(sentences) && tokens[i].Start >= sentences[idx+1].Start {
			idx++
		}
		tokens[i].Sentence = idx
	}
}

func parseIOB(label string) (string, bool) {
	switch {
	case label == "" || label == "O":
		return "", false
	case strings.HasPrefix(label, "B-"):
		return label[2:], true
	case strings.HasPrefix(label, "I-"):
		return label[2:], false
	default:
		return label, true
	}
}

// fixEntityBoundaries makes sure every mention starts with a begin marker,
// including continuation tokens that cross a sentence boundary.
func fixEntityBoundaries(tokens []Token) {
	for i := range tokens {
		if tokens[i].Entity == "" || tokens[i].EntityBegin {
			continue
		}
		if i == 0 || tokens[i-1].Entity != tokens[i].Entity || tokens[i-1].Sentence != tokens[i].Sentence {
			tokens[i].EntityBegin = true
		}
	}
}

func forEachSentence(tokens []Token, fn func([]Token)) {
	start := 0
	for i := 1; i <= len(tokens); i++ {
		if i == len(tokens) || tokens[i].Sentence != tokens[start].Sentence {
			fn(tokens[start:i])
			start = i
		}
	}
}
