package engine

import (
	"fmt"

	"github.com/roach88/beaconreg/internal/align"
)

// Config controls a registration run. It is recorded with every persisted
// run so the run can be reproduced.
type Config struct {
	// Threshold is the minimum number of agreeing beacon pairs for a link.
	Threshold int `json:"threshold"`

	// Strategy selects how a pair's rotation is chosen.
	Strategy align.Strategy `json:"strategy"`

	// Workers bounds concurrent pair searches; 0 means GOMAXPROCS.
	// It never affects the result.
	Workers int `json:"workers"`

	// Reference is the scanner whose frame is the global frame.
	Reference int `json:"reference"`
}

// DefaultConfig returns threshold 12, strategy "first", automatic workers
// and scanner 0 as the reference.
func DefaultConfig() Config {
	return Config{
		Threshold: align.DefaultThreshold,
		Strategy:  align.StrategyFirst,
		Workers:   0,
		Reference: 0,
	}
}

// Validate checks the config without regard to any particular input.
// The reference is range-checked by Register once the scanner count is known.
func (c Config) Validate() error {
	if c.Threshold < 1 {
		return invalidConfig("threshold must be at least 1, got %d", c.Threshold)
	}
	if _, err := align.ParseStrategy(string(c.Strategy)); err != nil {
		return invalidConfig("%v", err)
	}
	if c.Workers < 0 {
		return invalidConfig("workers must not be negative, got %d", c.Workers)
	}
	if c.Reference < 0 {
		return invalidConfig("reference must not be negative, got %d", c.Reference)
	}
	return nil
}

func invalidConfig(format string, args ...any) *RegistrationError {
	return &RegistrationError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf(format, args...),
	}
}
