package keywords

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-keywords/pkg/keywords/candidate"
	"github.com/athapong/aio-keywords/pkg/keywords/entities"
	"github.com/athapong/aio-keywords/pkg/keywords/rake"
	"github.com/athapong/aio-keywords/pkg/keywords/text"
	"github.com/athapong/aio-keywords/pkg/keywords/tfidf"
	"github.com/athapong/aio-keywords/pkg/keywords/validate"
	"github.com/athapong/aio-keywords/pkg/metrics"
	"github.com/athapong/aio-keywords/pkg/nlp"
)

// ContentExtractor turns markup into plain body text.
type ContentExtractor interface {
	Extract(markup string) (string, error)
}

// Extractor runs hybrid keyword extraction. It holds only configuration and
// collaborators, so one Extractor can serve concurrent calls.
type Extractor struct {
	cfg        Config
	engine     nlp.Engine
	validator  *validate.Validator
	phrases    *rake.Generator
	terms      *tfidf.Scorer
	recognizer *entities.Recognizer
	content    ContentExtractor
	logger     *logrus.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithContentExtractor replaces the HTML content extractor.
func WithContentExtractor(c ContentExtractor) Option {
	return func(e *Extractor) {
		if c != nil {
			e.content = c
		}
	}
}

// New creates an Extractor. Configuration problems are reported here as a
// *ConfigError and never during extraction.
func New(cfg Config, engine nlp.Engine, opts ...Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if engine == nil {
		return nil, &ConfigError{Section: "engine", Err: errors.New("an NLP engine is required")}
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	e := &Extractor{cfg: cfg, engine: engine, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	if e.content == nil {
		e.content = text.NewContentExtractor(
			text.WithLogger(e.logger),
			text.WithMinParagraphLength(cfg.Input.MinParagraphChars),
			text.WithMinContentLength(cfg.Input.MinContentChars),
		)
	}

	var err error
	if e.validator, err = validate.New(cfg.Validator, nil); err != nil {
		return nil, &ConfigError{Section: "validator", Err: err}
	}
	if e.phrases, err = rake.New(cfg.Phrases); err != nil {
		return nil, &ConfigError{Section: "phrases", Err: err}
	}
	if e.terms, err = tfidf.New(cfg.Terms); err != nil {
		return nil, &ConfigError{Section: "terms", Err: err}
	}
	if e.recognizer, err = entities.New(cfg.Entities); err != nil {
		return nil, &ConfigError{Section: "entities", Err: err}
	}
	return e, nil
}

// Extract returns the ranked keywords of req.Content. It never fails: any
// error is logged and an empty list returned.
func (e *Extractor) Extract(req ExtractRequest) []KeywordResult {
	report, err := e.ExtractReport(req)
	if err != nil {
		e.logger.WithError(err).WithField("content_length", len(req.Content)).Error("Keyword extraction failed")
		return []KeywordResult{}
	}
	return report.Keywords
}

// ExtractReport returns the ranked keywords together with the aggregated
// entities, relationship evidence and per-method outcomes. A failing method
// contributes nothing; a failure escaping every method guard is returned
// wrapping ErrUnhandledExtraction.
func (e *Extractor) ExtractReport(req ExtractRequest) (report *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = errors.Wrap(ErrUnhandledExtraction, fmt.Sprint(r))
		}
	}()

	start := time.Now()
	req = req.normalized()

	content := req.Content
	if text.LooksLikeMarkup(content) {
		extracted, cerr := e.content.Extract(content)
		if cerr != nil {
			e.logger.WithError(cerr).Warn("Content extraction failed, using raw input")
		} else {
			content = extracted
		}
	}

	normalized := text.Normalize(content)
	if text.MeaningfulLength(normalized) < e.cfg.Input.MinMeaningfulChars {
		metrics.ShortContent.Inc()
		e.logger.WithField("content_length", utf8.RuneCountInString(normalized)).Debug("Input too short for keyword extraction")
		return emptyReport(), nil
	}

	var recognized *entities.Result
	entityOutcome := e.runMethod(MethodEntities, func() (candidate.Map, error) {
		doc, aerr := e.engine.Analyze(normalized)
		if aerr != nil {
			return nil, errors.Wrap(aerr, "text analysis failed")
		}
		recognized = e.recognizer.Extract(doc)
		return recognized.Candidates, nil
	})

	validator := e.validator.WithTagger(e.tagger(recognized))
	phraseOutcome := e.runMethod(MethodPhrases, func() (candidate.Map, error) {
		return e.phrases.Extract(normalized, validator), nil
	})
	termOutcome := e.runMethod(MethodTerms, func() (candidate.Map, error) {
		return e.terms.Extract(normalized, validator), nil
	})

	in := CombineInput{
		Phrases:  phraseOutcome.Candidates,
		Terms:    termOutcome.Candidates,
		Entities: entityOutcome.Candidates,
	}
	report = emptyReport()
	if recognized != nil {
		in.CoOccurrences = recognized.CoOccurrences
		in.Evidence = recognized.Evidence.All()
		report.Relationships = in.Evidence
		for _, ent := range recognized.SortedEntities() {
			report.Entities = append(report.Entities, EntityReport{
				Text:       ent.Text,
				Category:   ent.Category,
				Mentions:   len(ent.Mentions),
				Confidence: ent.Confidence(),
			})
		}
	}

	combined := Combine(e.cfg.Combiner, in, req.MinScore)
	ranked := make([]*Entry, 0, combined.Len())
	for _, entry := range combined.Select(0) {
		// Only keywords that literally occur in the normalized input survive.
		if entry.Frequency >= 1 {
			ranked = append(ranked, entry)
		}
	}

	report.Keywords = Deduplicate(ranked, req.MaxKeywords)
	report.Outcomes = []MethodOutcome{entityOutcome, phraseOutcome, termOutcome}
	for _, kw := range report.Keywords {
		metrics.KeywordResults.WithLabelValues(string(kw.Type)).Inc()
	}

	e.logger.WithFields(logrus.Fields{
		"content_length": utf8.RuneCountInString(normalized),
		"entities":       entityOutcome.Count,
		"phrases":        phraseOutcome.Count,
		"terms":          termOutcome.Count,
		"keywords":       len(report.Keywords),
		"duration":       time.Since(start).String(),
	}).Debug("Keyword extraction completed")

	return report, nil
}

// tagger tags candidate phrases with the tags their words received in the
// analysed document, falling back to the engine for unseen words.
func (e *Extractor) tagger(recognized *entities.Result) nlp.Tagger {
	fallback, _ := e.engine.(nlp.Tagger)
	var doc *nlp.Document
	if recognized != nil {
		doc = recognized.Document
	}
	return nlp.NewLexiconTagger(doc, fallback)
}

// runMethod runs one extraction method, turning errors and panics into a
// failed outcome.
func (e *Extractor) runMethod(method Method, fn func() (candidate.Map, error)) (outcome MethodOutcome) {
	outcome.Method = method
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			outcome.Candidates = nil
			outcome.Err = errors.Errorf("%s extraction panicked: %v", method, r)
		}
		outcome.Duration = time.Since(start)
		metrics.ExtractionDuration.WithLabelValues(string(method)).Observe(outcome.Duration.Seconds())

		if outcome.Err != nil {
			outcome.Candidates = nil
			outcome.Error = outcome.Err.Error()
			metrics.MethodFailures.WithLabelValues(string(method)).Inc()
			e.logger.WithError(outcome.Err).WithField("method", method).Error("Extraction method failed")
			return
		}
		outcome.Count = len(outcome.Candidates)
	}()

	outcome.Candidates, outcome.Err = fn()
	return outcome
}
