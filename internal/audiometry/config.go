// Package audiometry implements the ascending-then-confirm staircase used to
// estimate hearing thresholds across a fixed list of test frequencies.
//
// The procedure is a pure transition function over State; Estimator wraps it
// and forwards the resulting effects to a tone device. Nothing in this package
// depends on wall-clock time.
package audiometry

import (
	"errors"
	"fmt"
)

const (
	// StartingLevel is the level every frequency begins at, in dB HL.
	StartingLevel = 0
	// MinLevel and MaxLevel bound every presented and recorded level.
	MinLevel = -10
	MaxLevel = 80
	// StepDown is applied after the first "heard" response at a frequency.
	StepDown = 5
	// StepUp is applied after each "not heard" response while ascending.
	StepUp = 10
)

// TestFrequencies are the standard audiometric frequencies in Hz, tested in order.
var TestFrequencies = []int{125, 250, 500, 1000, 2000, 4000, 8000}

// Config holds the staircase parameters
type Config struct {
	Frequencies   []int
	StartingLevel int
	MinLevel      int
	MaxLevel      int
	StepDown      int
	StepUp        int
}

// DefaultConfig returns the standard staircase parameters
func DefaultConfig() Config {
	return Config{
		Frequencies:   append([]int(nil), TestFrequencies...),
		StartingLevel: StartingLevel,
		MinLevel:      MinLevel,
		MaxLevel:      MaxLevel,
		StepDown:      StepDown,
		StepUp:        StepUp,
	}
}

// Validate rejects parameter sets the staircase cannot run with
func (c Config) Validate() error {
	if len(c.Frequencies) == 0 {
		return errors.New("at least one test frequency is required")
	}
	for i, f := range c.Frequencies {
		if f <= 0 {
			return fmt.Errorf("frequency %d Hz must be positive", f)
		}
		if i > 0 && f <= c.Frequencies[i-1] {
			return fmt.Errorf("frequencies must be strictly ascending: %d Hz follows %d Hz", f, c.Frequencies[i-1])
		}
	}
	if c.MinLevel >= c.MaxLevel {
		return fmt.Errorf("min level %d must be below max level %d", c.MinLevel, c.MaxLevel)
	}
	if c.StartingLevel < c.MinLevel || c.StartingLevel > c.MaxLevel {
		return fmt.Errorf("starting level %d outside [%d, %d]", c.StartingLevel, c.MinLevel, c.MaxLevel)
	}
	if c.StepDown <= 0 || c.StepUp <= 0 {
		return errors.New("step sizes must be positive")
	}
	return nil
}

func (c Config) clamp(level int) int {
	return max(c.MinLevel, min(c.MaxLevel, level))
}
