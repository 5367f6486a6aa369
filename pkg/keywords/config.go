package keywords

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/athapong/aio-keywords/pkg/keywords/entities"
	"github.com/athapong/aio-keywords/pkg/keywords/rake"
	"github.com/athapong/aio-keywords/pkg/keywords/tfidf"
	"github.com/athapong/aio-keywords/pkg/keywords/validate"
)

// CombinerConfig weights the extractor outputs when they are merged.
type CombinerConfig struct {
	EntityBoost float64 `yaml:"entity_boost"`
	TermWeight  float64 `yaml:"term_weight"`
	// RelationMinConfidence is the evidence confidence needed to link two entities.
	RelationMinConfidence float64 `yaml:"relation_min_confidence"`
}

// Validate checks the configuration.
func (c CombinerConfig) Validate() error {
	if c.EntityBoost <= 0 || c.TermWeight <= 0 {
		return errors.New("entity_boost and term_weight must be positive")
	}
	if c.RelationMinConfidence < 0 || c.RelationMinConfidence > 1 {
		return errors.Errorf("relation_min_confidence must be within [0, 1], got %v", c.RelationMinConfidence)
	}
	return nil
}

// InputConfig bounds the input accepted for extraction.
type InputConfig struct {
	// MinMeaningfulChars is the number of letters and digits below which
	// input yields no keywords.
	MinMeaningfulChars int `yaml:"min_meaningful_chars"`
	MinParagraphChars  int `yaml:"min_paragraph_chars"`
	MinContentChars    int `yaml:"min_content_chars"`
}

// Validate checks the configuration.
func (c InputConfig) Validate() error {
	if c.MinMeaningfulChars < 0 || c.MinParagraphChars < 0 || c.MinContentChars < 0 {
		return errors.New("input limits must not be negative")
	}
	return nil
}

// Config configures an Extractor.
type Config struct {
	Validator validate.Config `yaml:"validator"`
	Phrases   rake.Config     `yaml:"phrases"`
	Terms     tfidf.Config    `yaml:"terms"`
	Entities  entities.Config `yaml:"entities"`
	Combiner  CombinerConfig  `yaml:"combiner"`
	Input     InputConfig     `yaml:"input"`
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		Validator: validate.DefaultConfig(),
		Phrases:   rake.DefaultConfig(),
		Terms:     tfidf.DefaultConfig(),
		Entities:  entities.DefaultConfig(),
		Combiner: CombinerConfig{
			EntityBoost:           1.2,
			TermWeight:            0.8,
			RelationMinConfidence: 0.5,
		},
		Input: InputConfig{
			MinMeaningfulChars: 10,
			MinParagraphChars:  20,
			MinContentChars:    100,
		},
	}
}

// Validate checks every section and returns the first *ConfigError found.
func (c Config) Validate() error {
	sections := []struct {
		name     string
		validate func() error
	}{
		{"validator", c.Validator.Validate},
		{"phrases", c.Phrases.Validate},
		{"terms", c.Terms.Validate},
		{"entities", c.Entities.Validate},
		{"combiner", c.Combiner.Validate},
		{"input", c.Input.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return &ConfigError{Section: s.name, Err: err}
		}
	}
	return nil
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Section: "file", Err: errors.Wrapf(err, "failed to parse %s", path)}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
