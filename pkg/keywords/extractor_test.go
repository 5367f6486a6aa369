package keywords

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/aio-keywords/pkg/keywords/rake"
	"github.com/athapong/aio-keywords/pkg/keywords/text"
	"github.com/athapong/aio-keywords/pkg/nlp"
	"github.com/athapong/aio-keywords/pkg/nlp/nlptest"
)

const scenario = "Microsoft CEO Satya Nadella discussed Azure. Microsoft builds Azure in Seattle."

const article = "Telemetry data helps engineers understand distributed systems. " +
	"The platform keeps telemetry data in a columnar database. " +
	"Columnar storage reduces query latency for analytics workloads. " +
	"Engineers rely on telemetry data and columnar storage for capacity planning."

func scenarioEngine() *nlptest.Engine {
	return nlptest.New(map[string]string{
		"Microsoft":     nlp.EntityOrg,
		"Satya Nadella": nlp.EntityPerson,
		"Azure":         nlp.EntityProduct,
		"Seattle":       nlp.EntityGPE,
	})
}

func newExtractor(t *testing.T, engine nlp.Engine, opts ...Option) (*Extractor, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	e, err := New(DefaultConfig(), engine, append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	return e, hook
}

func find(results []KeywordResult, keyword string) (KeywordResult, bool) {
	for _, r := range results {
		if strings.EqualFold(r.Keyword, keyword) {
			return r, true
		}
	}
	return KeywordResult{}, false
}

func TestExtractShortInput(t *testing.T) {
	e, _ := newExtractor(t, scenarioEngine())

	for _, in := range []string{"", "ab", "   ", "<p>hi</p>", "a.b.c.d.e"} {
		got := e.Extract(NewExtractRequest(in))
		assert.NotNil(t, got, in)
		assert.Empty(t, got, in)
	}
}

func TestExtractEntityRelationships(t *testing.T) {
	e, _ := newExtractor(t, scenarioEngine())
	got := e.Extract(NewExtractRequest(scenario))

	ms, ok := find(got, "Microsoft")
	require.True(t, ok)
	assert.Equal(t, TypeEntity, ms.Type)
	assert.Contains(t, ms.RelatedTerms, "Satya Nadella")

	sn, ok := find(got, "Satya Nadella")
	require.True(t, ok)
	assert.Equal(t, TypeEntity, sn.Type)
	assert.Equal(t, 2, sn.Length)
	assert.Contains(t, sn.RelatedTerms, "Microsoft")

	azure, ok := find(got, "Azure")
	require.True(t, ok)
	assert.Equal(t, 2, azure.Frequency)
	assert.Equal(t, SourceHybrid, azure.Source)
}

func TestExtractEntityRelationshipsWithProseEngine(t *testing.T) {
	e, _ := newExtractor(t, nlp.NewProseEngine())
	got := e.Extract(NewExtractRequest(scenario))

	sn, ok := find(got, "Satya Nadella")
	require.True(t, ok, "full name is kept as one entity")
	assert.Equal(t, TypeEntity, sn.Type)
	assert.Equal(t, 2, sn.Length)
	assert.Contains(t, sn.RelatedTerms, "Azure")

	azure, ok := find(got, "Azure")
	require.True(t, ok)
	assert.Equal(t, TypeEntity, azure.Type)
	assert.Equal(t, 2, azure.Frequency)
	assert.Contains(t, azure.RelatedTerms, "Satya Nadella")

	ms, ok := find(got, "Microsoft")
	require.True(t, ok)
	assert.Equal(t, TypeEntity, ms.Type)

	for _, part := range []string{"Satya", "Nadella"} {
		_, ok := find(got, part)
		assert.False(t, ok, part)
	}
}

func TestExtractReport(t *testing.T) {
	e, _ := newExtractor(t, scenarioEngine())
	report, err := e.ExtractReport(NewExtractRequest(scenario))
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 3)
	for _, o := range report.Outcomes {
		assert.False(t, o.Failed(), o.Method)
	}

	var names []string
	for _, ent := range report.Entities {
		names = append(names, ent.Text)
		assert.LessOrEqual(t, ent.Confidence, 1.0)
	}
	assert.Equal(t, []string{"Azure", "Microsoft", "Satya Nadella", "Seattle"}, names)

	require.NotEmpty(t, report.Relationships)
	for _, ev := range report.Relationships {
		assert.LessOrEqual(t, ev.TermA, ev.TermB)
		assert.NotEmpty(t, ev.Contexts)
	}
}

func TestExtractInvariants(t *testing.T) {
	e, _ := newExtractor(t, scenarioEngine())
	inputs := []string{
		scenario,
		article,
		"<html><body><nav>Home</nav><article><p>" + article + "</p></article></body></html>",
	}

	for _, in := range inputs {
		req := NewExtractRequest(in)
		got := e.Extract(req)
		require.NotEmpty(t, got)
		assert.LessOrEqual(t, len(got), req.MaxKeywords)

		haystack := strings.ToLower(text.Normalize(in))
		seen := map[string]bool{}
		lastPriority := 0
		for _, r := range got {
			assert.Contains(t, haystack, strings.ToLower(r.Keyword))
			assert.GreaterOrEqual(t, r.Frequency, 1)
			assert.False(t, seen[strings.ToLower(r.Keyword)], "duplicate keyword %q", r.Keyword)
			seen[strings.ToLower(r.Keyword)] = true

			assert.GreaterOrEqual(t, r.Type.Priority(), lastPriority, "type priority violated at %q", r.Keyword)
			lastPriority = r.Type.Priority()
		}

		assert.Equal(t, got, e.Extract(req), "extraction must be deterministic")
	}
}

func TestExtractHTMLSkipsChrome(t *testing.T) {
	e, _ := newExtractor(t, scenarioEngine())
	got := e.Extract(NewExtractRequest("<html><body><nav><p>Pricing plans for enterprise customers</p></nav><article><p>" + article + "</p></article></body></html>"))

	_, ok := find(got, "telemetry data")
	assert.True(t, ok)
	for _, r := range got {
		assert.NotContains(t, strings.ToLower(r.Keyword), "pricing")
	}
}

func TestExtractMaxKeywords(t *testing.T) {
	e, _ := newExtractor(t, scenarioEngine())

	all := e.Extract(ExtractRequest{Content: article, MaxKeywords: 1000, MinScore: DefaultMinScore})
	require.Greater(t, len(all), 5)

	five := e.Extract(ExtractRequest{Content: article, MaxKeywords: 5, MinScore: DefaultMinScore})
	require.Len(t, five, 5)
	assert.Equal(t, all[:5], five)

	few := e.Extract(ExtractRequest{Content: scenario, MaxKeywords: 1000})
	assert.Len(t, e.Extract(ExtractRequest{Content: scenario, MaxKeywords: 5}), min(5, len(few)))
}

func TestExtractLargeDocumentMergesChunks(t *testing.T) {
	paragraph := "Engineers rely on telemetry data for capacity planning. " +
		"The platform keeps telemetry data in a columnar database. "
	doc := strings.Repeat(paragraph, 60000/len(paragraph)+1)
	require.Greater(t, len(doc), 60000)

	e, _ := newExtractor(t, nlptest.New(nil))
	got := e.Extract(NewExtractRequest(doc))

	want := 0
	for _, chunk := range rake.SplitChunks(doc, DefaultConfig().Phrases.ChunkSize) {
		want += text.CountOccurrences(chunk, "telemetry data")
	}

	td, ok := find(got, "telemetry data")
	require.True(t, ok)
	assert.Equal(t, TypeConcept, td.Type)
	assert.Equal(t, want, td.Frequency)
}

// analyzeFails fails document analysis but still tags phrases.
type analyzeFails struct {
	*nlptest.Engine
}

func (analyzeFails) Analyze(string) (*nlp.Document, error) {
	return nil, errors.New("model unavailable")
}

func TestExtractDegradesWhenAMethodFails(t *testing.T) {
	e, hook := newExtractor(t, analyzeFails{nlptest.New(nil)})
	report, err := e.ExtractReport(NewExtractRequest(article))
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 3)
	entityOutcome := report.Outcomes[0]
	assert.Equal(t, MethodEntities, entityOutcome.Method)
	assert.True(t, entityOutcome.Failed())
	assert.Contains(t, entityOutcome.Error, "model unavailable")
	assert.False(t, report.Outcomes[1].Failed())
	assert.False(t, report.Outcomes[2].Failed())

	td, ok := find(report.Keywords, "telemetry data")
	require.True(t, ok)
	assert.Equal(t, TypeConcept, td.Type)
	assert.Empty(t, report.Entities)

	var logged bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Data["method"] == MethodEntities {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestExtractRecoversMethodPanics(t *testing.T) {
	engine := scenarioEngine()
	engine.Panic = "tagger exploded"
	e, _ := newExtractor(t, engine)

	report, err := e.ExtractReport(NewExtractRequest(scenario))
	require.NoError(t, err)
	assert.Empty(t, report.Keywords)
	for _, o := range report.Outcomes {
		assert.True(t, o.Failed(), o.Method)
		assert.Contains(t, o.Error, "panicked")
	}
}

type panickingContent struct{}

func (panickingContent) Extract(string) (string, error) {
	panic("parser bug")
}

type failingContent struct{}

func (failingContent) Extract(string) (string, error) {
	return "", errors.New("broken markup")
}

func TestExtractUnhandledFailure(t *testing.T) {
	e, hook := newExtractor(t, scenarioEngine(), WithContentExtractor(panickingContent{}))
	req := NewExtractRequest("<p>" + scenario + "</p>")

	report, err := e.ExtractReport(req)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrUnhandledExtraction))
	assert.Contains(t, err.Error(), "parser bug")

	got := e.Extract(req)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestExtractFallsBackToRawContent(t *testing.T) {
	e, hook := newExtractor(t, scenarioEngine(), WithContentExtractor(failingContent{}))
	got := e.Extract(NewExtractRequest("<p>" + scenario + "</p>"))

	_, ok := find(got, "Microsoft")
	assert.True(t, ok)
	var warned bool
	for _, entry := range hook.AllEntries() {
		warned = warned || entry.Level == logrus.WarnLevel
	}
	assert.True(t, warned)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Validator.MaxWords = -1

	_, err := New(cfg, scenarioEngine())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "validator", cerr.Section)

	_, err = New(DefaultConfig(), nil)
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "engine", cerr.Section)
}

func TestConfigValidateSections(t *testing.T) {
	tests := []struct {
		section string
		mutate  func(*Config)
	}{
		{"phrases", func(c *Config) { c.Phrases.ChunkSize = 0 }},
		{"terms", func(c *Config) { c.Terms.MaxNGram = 0 }},
		{"entities", func(c *Config) { c.Entities.Categories = nil }},
		{"combiner", func(c *Config) { c.Combiner.RelationMinConfidence = 2 }},
		{"input", func(c *Config) { c.Input.MinMeaningfulChars = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.section, cerr.Section)
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("validator:\n  max_words: 2\ncombiner:\n  entity_boost: 1.5\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Validator.MaxWords)
	assert.Equal(t, 1.5, cfg.Combiner.EntityBoost)
	assert.Equal(t, 0.8, cfg.Combiner.TermWeight, "unset fields keep their defaults")
	assert.Equal(t, DefaultConfig().Phrases, cfg.Phrases)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("validator:\n  max_words: 0\n"), 0o644))
	_, err = LoadConfig(invalid)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	malformed := filepath.Join(dir, "malformed.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("validator: [unterminated"), 0o644))
	_, err = LoadConfig(malformed)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidConfig))
}

func TestRequestNormalization(t *testing.T) {
	tests := []struct {
		in   ExtractRequest
		want ExtractRequest
	}{
		{ExtractRequest{}, ExtractRequest{MaxKeywords: 20, MinScore: 0}},
		{ExtractRequest{MaxKeywords: -4, MinScore: -1}, ExtractRequest{MaxKeywords: 20, MinScore: 0}},
		{ExtractRequest{MaxKeywords: 3, MinScore: 7}, ExtractRequest{MaxKeywords: 3, MinScore: 1}},
		{ExtractRequest{MaxKeywords: 5, MinScore: 0.3}, ExtractRequest{MaxKeywords: 5, MinScore: 0.3}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.normalized())
	}

	req := NewExtractRequest("x")
	assert.Equal(t, DefaultMaxKeywords, req.MaxKeywords)
	assert.Equal(t, DefaultMinScore, req.MinScore)
}
