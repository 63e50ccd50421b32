package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/udisondev/quadpulse/internal/quad"
)

// DefaultMode is the preset used when Engine.Mode is empty.
const DefaultMode = "entities3x3"

// presets are the three supported detection variants.
var presets = map[string]quad.Config{
	"cells2x2": {
		PulseInterval:        4,
		MinimumRectangleArea: 4,
		Detection:            quad.DetectCells,
		Scoring:              quad.PolicyTiered,
		Bonus:                quad.DefaultBonusRule(),
	},
	"cells3x3": {
		PulseInterval:        4,
		MinimumRectangleArea: 9,
		Detection:            quad.DetectCells,
		Scoring:              quad.PolicyTiered,
		Bonus:                quad.DefaultBonusRule(),
	},
	"entities3x3": quad.DefaultConfig(),
}

// Preset returns the engine configuration of a named preset.
func Preset(name string) (quad.Config, error) {
	cfg, ok := presets[name]
	if !ok {
		return quad.Config{}, fmt.Errorf("unknown mode %q (want one of %s): %w",
			name, strings.Join(PresetNames(), ", "), quad.ErrInvalidConfig)
	}
	cfg.Bonus.Tiers = slices.Clone(cfg.Bonus.Tiers)
	return cfg, nil
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// BonusTier is one simultaneous clear multiplier step.
type BonusTier struct {
	Count      int     `yaml:"count"`
	Multiplier float64 `yaml:"multiplier"`
}

// Engine holds the board size and the quad engine settings. Zero fields
// fall back to the selected preset.
type Engine struct {
	Mode   string `yaml:"mode"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	PulseInterval        int    `yaml:"pulse_interval"`
	MinimumRectangleArea int    `yaml:"minimum_rectangle_area"`
	MinimumSide          int    `yaml:"minimum_side"` // 0 = sqrt(area), area must be a square
	Detection            string `yaml:"detection"`    // cells | entities
	Scoring              string `yaml:"scoring"`      // tiered | continuous

	SimultaneousBonus []BonusTier `yaml:"simultaneous_bonus"`
}

// DefaultEngine returns the 12x9 board with the entity-aware preset.
func DefaultEngine() Engine {
	return Engine{
		Mode:   DefaultMode,
		Width:  12,
		Height: 9,
	}
}

// QuadConfig resolves the preset and overrides into a validated quad.Config.
func (e Engine) QuadConfig() (quad.Config, error) {
	mode := e.Mode
	if mode == "" {
		mode = DefaultMode
	}
	cfg, err := Preset(mode)
	if err != nil {
		return quad.Config{}, err
	}

	if e.PulseInterval != 0 {
		cfg.PulseInterval = e.PulseInterval
	}
	if e.MinimumRectangleArea != 0 {
		cfg.MinimumRectangleArea = e.MinimumRectangleArea
	}
	if e.MinimumSide != 0 {
		cfg.MinimumSide = e.MinimumSide
	}
	if e.Detection != "" {
		if cfg.Detection, err = quad.ParseDetection(e.Detection); err != nil {
			return quad.Config{}, err
		}
	}
	if e.Scoring != "" {
		if cfg.Scoring, err = quad.ParsePolicy(e.Scoring); err != nil {
			return quad.Config{}, err
		}
	}
	if len(e.SimultaneousBonus) > 0 {
		tiers := make([]quad.BonusTier, 0, len(e.SimultaneousBonus))
		for _, t := range e.SimultaneousBonus {
			tiers = append(tiers, quad.BonusTier{Count: t.Count, Multiplier: t.Multiplier})
		}
		cfg.Bonus = quad.BonusRule{Tiers: tiers}
	}

	if err := cfg.Validate(); err != nil {
		return quad.Config{}, fmt.Errorf("engine config: %w", err)
	}
	return cfg, nil
}

// Validate checks the board size and the resolved engine settings.
func (e Engine) Validate() error {
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Errorf("board size %dx%d: %w", e.Width, e.Height, quad.ErrInvalidConfig)
	}
	_, err := e.QuadConfig()
	return err
}
