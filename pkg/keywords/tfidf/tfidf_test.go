package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type acceptAll struct{}

func (acceptAll) IsValid(string) bool { return true }

type singleWords struct{}

func (singleWords) IsValid(p string) bool {
	for _, r := range p {
		if r == ' ' {
			return false
		}
	}
	return true
}

func newScorer(t *testing.T, cfg Config) *Scorer {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestWeightsSublinearAndNormalized(t *testing.T) {
	s := newScorer(t, Config{MaxNGram: 1, MaxTerms: 10})
	w := s.Weights("cache cache cache miss")

	raw := 1 + math.Log(3)
	norm := math.Sqrt(raw*raw + 1)
	assert.InDelta(t, raw/norm, w["cache"], 1e-9)
	assert.InDelta(t, 1/norm, w["miss"], 1e-9)

	total := 0.0
	for _, v := range w {
		total += v * v
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestWeightsDropStopwordsAndShortTokens(t *testing.T) {
	s := newScorer(t, DefaultConfig())
	w := s.Weights("The cache of a b system")

	assert.Contains(t, w, "cache")
	assert.Contains(t, w, "cache system")
	assert.NotContains(t, w, "the")
	assert.NotContains(t, w, "of")
	assert.NotContains(t, w, "b")
}

func TestExtractRequiresLiteralOccurrence(t *testing.T) {
	s := newScorer(t, DefaultConfig())
	got := s.Extract("Telemetry data for capacity planning. Telemetry data again.", acceptAll{})

	assert.Equal(t, 2, got["telemetry data"].Frequency)
	// "data capacity" only exists once the stopword is removed.
	assert.NotContains(t, got, "data capacity")
	for _, c := range got {
		assert.Greater(t, c.Frequency, 0)
		assert.Greater(t, c.Score, 0.0)
	}
}

func TestExtractAppliesValidatorAndLimit(t *testing.T) {
	s := newScorer(t, Config{MaxNGram: 3, MaxTerms: 2})
	got := s.Extract("alpha alpha alpha beta beta gamma delta", singleWords{})

	require.Len(t, got, 2)
	assert.Contains(t, got, "alpha")
	assert.Contains(t, got, "beta")
}

func TestExtractEmpty(t *testing.T) {
	s := newScorer(t, DefaultConfig())
	assert.Empty(t, s.Extract("", acceptAll{}))
	assert.Empty(t, s.Extract("a of the", acceptAll{}))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{MaxNGram: 0, MaxTerms: 1}.Validate())
	assert.Error(t, Config{MaxNGram: 1, MaxTerms: 0}.Validate())
}
