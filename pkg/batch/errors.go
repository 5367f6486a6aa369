package batch

import "github.com/pkg/errors"

var (
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")
	ErrExtractorRequired  = errors.New("extractor is required")
	ErrInvalidPoolSize    = errors.New("pool size must be greater than zero")
)
