package quad

import (
	"fmt"
	"math"
)

// Detection selects how rectangles are validated against piece ownership.
type Detection int

const (
	// DetectCells accepts any filled rectangle of occupied cells.
	DetectCells Detection = iota
	// DetectEntities additionally requires every piece touching the rectangle
	// to lie entirely inside it.
	DetectEntities
)

func (d Detection) String() string {
	switch d {
	case DetectCells:
		return "cells"
	case DetectEntities:
		return "entities"
	}
	return fmt.Sprintf("detection(%d)", int(d))
}

// ParseDetection converts "cells" or "entities" to a Detection.
func ParseDetection(s string) (Detection, error) {
	switch s {
	case "cells":
		return DetectCells, nil
	case "entities":
		return DetectEntities, nil
	}
	return 0, fmt.Errorf("unknown detection %q: %w", s, ErrInvalidConfig)
}

// Config holds the tracker settings.
type Config struct {
	// PulseInterval is the age at which a quad expires.
	PulseInterval int
	// MinimumRectangleArea is the smallest accepted width*height. Without an
	// explicit MinimumSide it must be a perfect square.
	MinimumRectangleArea int
	// MinimumSide is the smallest accepted width and height.
	// Zero derives it as sqrt(MinimumRectangleArea).
	MinimumSide int
	Detection   Detection
	Scoring     Policy
	Bonus       BonusRule
}

// DefaultConfig returns the entity-aware 3×3 configuration with a 4 turn pulse.
func DefaultConfig() Config {
	return Config{
		PulseInterval:        4,
		MinimumRectangleArea: 9,
		Detection:            DetectEntities,
		Scoring:              PolicyTiered,
		Bonus:                DefaultBonusRule(),
	}
}

// MinSide returns the effective minimum rectangle side.
func (c Config) MinSide() int {
	if c.MinimumSide > 0 {
		return c.MinimumSide
	}
	return int(math.Ceil(math.Sqrt(float64(c.MinimumRectangleArea))))
}

// Validate checks that the configuration can drive a tracker.
func (c Config) Validate() error {
	if c.PulseInterval < 1 {
		return fmt.Errorf("pulse interval %d: %w", c.PulseInterval, ErrInvalidConfig)
	}
	if c.MinimumRectangleArea < 1 {
		return fmt.Errorf("minimum rectangle area %d: %w", c.MinimumRectangleArea, ErrInvalidConfig)
	}
	if c.MinimumSide < 0 {
		return fmt.Errorf("minimum side %d: %w", c.MinimumSide, ErrInvalidConfig)
	}
	if side := c.MinSide(); c.MinimumSide == 0 && side*side != c.MinimumRectangleArea {
		return fmt.Errorf("minimum rectangle area %d is not a square, set minimum side: %w",
			c.MinimumRectangleArea, ErrInvalidConfig)
	}
	if c.Detection != DetectCells && c.Detection != DetectEntities {
		return fmt.Errorf("detection %d: %w", c.Detection, ErrInvalidConfig)
	}
	if c.Scoring != PolicyTiered && c.Scoring != PolicyContinuous {
		return fmt.Errorf("scoring policy %d: %w", c.Scoring, ErrInvalidConfig)
	}
	return c.Bonus.Validate()
}
