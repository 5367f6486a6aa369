package keywords

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfig is matched by every configuration error.
	ErrInvalidConfig = errors.New("invalid keyword extraction configuration")
	// ErrUnhandledExtraction wraps a failure that escaped every method guard.
	ErrUnhandledExtraction = errors.New("unhandled keyword extraction failure")
)

// ConfigError reports a malformed configuration section. It is returned at
// construction time only.
type ConfigError struct {
	Section string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s configuration: %v", e.Section, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidConfig) true for every ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
