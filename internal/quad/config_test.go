package quad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMinSide(t *testing.T) {
	tests := []struct {
		area, side, want int
	}{
		{area: 9, want: 3},
		{area: 4, want: 2},
		{area: 6, want: 3},
		{area: 1, want: 1},
		{area: 9, side: 2, want: 2},
	}

	for _, tt := range tests {
		cfg := Config{MinimumRectangleArea: tt.area, MinimumSide: tt.side}
		assert.Equal(t, tt.want, cfg.MinSide(), "area=%d side=%d", tt.area, tt.side)
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	for name, cfg := range presets {
		assert.NoError(t, cfg.Validate(), name)
	}

	broken := map[string]func(*Config){
		"zero pulse":      func(c *Config) { c.PulseInterval = 0 },
		"zero area":       func(c *Config) { c.MinimumRectangleArea = 0 },
		"negative side":   func(c *Config) { c.MinimumSide = -1 },
		"non-square area": func(c *Config) { c.MinimumRectangleArea = 6 },
		"bad detection":   func(c *Config) { c.Detection = Detection(9) },
		"bad policy":      func(c *Config) { c.Scoring = Policy(9) },
		"bonus for one":   func(c *Config) { c.Bonus.Tiers = []BonusTier{{Count: 1, Multiplier: 2}} },
		"zero multiplier": func(c *Config) { c.Bonus.Tiers = []BonusTier{{Count: 2, Multiplier: 0}} },
	}
	for name, mutate := range broken {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, name)
	}
}

func TestConfigNonSquareAreaWithSide(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detection = DetectCells
	cfg.MinimumRectangleArea = 6
	cfg.MinimumSide = 2
	require.NoError(t, cfg.Validate())

	g := newFakeGrid(6, 4)
	g.placeRect(t, RectAt(0, 0, 2, 3))
	assert.Equal(t, []Rect{RectAt(0, 0, 2, 3)}, detect(cfg, g))
}

func TestParseDetection(t *testing.T) {
	d, err := ParseDetection("cells")
	assert.NoError(t, err)
	assert.Equal(t, DetectCells, d)

	d, err = ParseDetection("entities")
	assert.NoError(t, err)
	assert.Equal(t, DetectEntities, d)
	assert.Equal(t, "entities", d.String())

	_, err = ParseDetection("pixels")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
