package rake

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/aio-keywords/pkg/keywords/text"
)

type acceptAll struct{}

func (acceptAll) IsValid(string) bool { return true }

type rejectPhrases map[string]bool

func (r rejectPhrases) IsValid(p string) bool { return !r[p] }

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(DefaultConfig())
	require.NoError(t, err)
	return g
}

func TestExtractScoresDegreeOverFrequency(t *testing.T) {
	g := newGenerator(t)
	got := g.Extract("telemetry data. telemetry data. storage.", acceptAll{})

	require.Len(t, got, 1, "single-occurrence 'storage' falls below the floor")
	c := got["telemetry data"]
	assert.Equal(t, "telemetry data", c.Text)
	assert.Equal(t, 2, c.Frequency)
	assert.InDelta(t, 4*math.Log(3)*1.15, c.Score, 1e-9)
}

func TestExtractScalesScores(t *testing.T) {
	g := newGenerator(t)
	got := g.Extract("telemetry data. telemetry data. columnar storage engine. columnar storage engine.", acceptAll{})

	require.Len(t, got, 2)
	assert.InDelta(t, 1.0, got["telemetry data"].Score, 1e-9)
	assert.InDelta(t, 10.0, got["columnar storage engine"].Score, 1e-9)
}

func TestExtractLongPhrasePenalty(t *testing.T) {
	g := newGenerator(t)
	got := g.extractChunk("alpha beta gamma delta. alpha beta gamma delta.", acceptAll{})

	require.Contains(t, got, "alpha beta gamma delta")
	assert.InDelta(t, 16*math.Log(3)*0.85, got["alpha beta gamma delta"].Score, 1e-9)
}

func TestExtractSingleOccurrencePenalty(t *testing.T) {
	g := newGenerator(t)
	got := g.extractChunk("distributed consensus protocol", acceptAll{})

	require.Contains(t, got, "distributed consensus protocol")
	assert.InDelta(t, 9*math.Log(2)*0.5, got["distributed consensus protocol"].Score, 1e-9)
	assert.Equal(t, 1, got["distributed consensus protocol"].Frequency)
}

func TestExtractUsesValidator(t *testing.T) {
	g := newGenerator(t)
	got := g.Extract("telemetry data. telemetry data. columnar storage. columnar storage.",
		rejectPhrases{"columnar storage": true})

	assert.Contains(t, got, "telemetry data")
	assert.NotContains(t, got, "columnar storage")
}

func TestExtractEmpty(t *testing.T) {
	g := newGenerator(t)
	assert.Empty(t, g.Extract("", acceptAll{}))
	assert.Empty(t, g.Extract("the and of 42 !!", acceptAll{}))
}

func TestSplitPhrases(t *testing.T) {
	phrases := splitPhrases("The 3 engineers rely on Telemetry-data pipelines! x86 builds")

	var surfaces []string
	for _, p := range phrases {
		surfaces = append(surfaces, p.surface)
	}
	assert.Equal(t, []string{"engineers rely", "Telemetry-data pipelines", "builds"}, surfaces)
	assert.Equal(t, []string{"telemetry-data", "pipelines"}, phrases[1].words)
}

func TestChunkMergeSumsFrequency(t *testing.T) {
	paragraph := "Engineers rely on telemetry data for capacity planning. " +
		"The platform keeps telemetry data in a columnar database. "
	doc := strings.Repeat(paragraph, 60000/len(paragraph)+1)
	require.Greater(t, len(doc), 60000)

	g := newGenerator(t)
	got := g.Extract(doc, acceptAll{})

	chunks := SplitChunks(doc, DefaultConfig().ChunkSize)
	require.Len(t, chunks, 2)
	want := 0
	for _, chunk := range chunks {
		want += text.CountOccurrences(chunk, "telemetry data")
	}

	require.Contains(t, got, "telemetry data")
	assert.Equal(t, want, got["telemetry data"].Frequency)
	assert.Equal(t, text.CountOccurrences(doc, "telemetry data"), got["telemetry data"].Frequency)
	for _, c := range got {
		assert.GreaterOrEqual(t, c.Score, 1.0)
		assert.LessOrEqual(t, c.Score, 10.0)
	}
}

func TestSplitChunks(t *testing.T) {
	s := "First sentence here. Second sentence follows. Third one ends it."
	chunks := SplitChunks(s, 30)

	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 30)
	}
	assert.Equal(t, strings.Fields(s), strings.Fields(strings.Join(chunks, " ")))
	assert.Equal(t, "First sentence here.", chunks[0])

	assert.Equal(t, []string{"short"}, SplitChunks("short", 30))
	assert.Empty(t, SplitChunks("", 30))
}

func TestSplitChunksRespectsRuneBoundaries(t *testing.T) {
	s := strings.Repeat("é", 10)
	chunks := SplitChunks(s, 5)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, len(c), 5)
	}
	assert.Equal(t, s, strings.Join(chunks, ""))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.MinScore = -1 },
		func(c *Config) { c.ChunkSize = 0 },
		func(c *Config) { c.TwoWordBoost = 0 },
		func(c *Config) { c.ScaleMax = c.ScaleMin },
	}
	for _, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate())
		_, err := New(cfg)
		assert.Error(t, err)
	}
}
