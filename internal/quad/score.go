package quad

import (
	"fmt"
	"math"
	"slices"
)

// Policy selects how a single quad is scored.
type Policy int

const (
	// PolicyTiered awards fixed points for 2×2, 3×3 and 4×4 quads and
	// 1000 + (size-16)*100 otherwise.
	PolicyTiered Policy = iota
	// PolicyContinuous awards size²*10, ×1.5 for squares, never less than size*25.
	PolicyContinuous
)

func (p Policy) String() string {
	switch p {
	case PolicyTiered:
		return "tiered"
	case PolicyContinuous:
		return "continuous"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy converts "tiered" or "continuous" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "tiered":
		return PolicyTiered, nil
	case "continuous":
		return PolicyContinuous, nil
	}
	return 0, fmt.Errorf("unknown scoring policy %q: %w", s, ErrInvalidConfig)
}

// Score returns the points for a width×height quad.
func (p Policy) Score(width, height int) int {
	size := width * height

	if p == PolicyContinuous {
		base := size * size * 10
		if width == height {
			base = base * 3 / 2
		}
		return max(base, size*25)
	}

	switch {
	case width == 2 && height == 2:
		return 100
	case width == 3 && height == 3:
		return 300
	case width == 4 && height == 4:
		return 600
	}
	return 1000 + (size-16)*100
}

// ScoreQuad returns the points for q.
func (p Policy) ScoreQuad(q *Quad) int {
	return p.Score(q.Width(), q.Height())
}

// BonusTier applies Multiplier when at least Count quads clear in one turn.
type BonusTier struct {
	Count      int
	Multiplier float64
}

// BonusRule is the simultaneous-clear multiplier table.
type BonusRule struct {
	Tiers []BonusTier
}

// DefaultBonusRule returns ×1.5 for two clears and ×2.0 for three or more.
func DefaultBonusRule() BonusRule {
	return BonusRule{Tiers: []BonusTier{
		{Count: 2, Multiplier: 1.5},
		{Count: 3, Multiplier: 2.0},
	}}
}

// Validate rejects tiers below two clears or with non-positive multipliers.
func (b BonusRule) Validate() error {
	for _, t := range b.Tiers {
		if t.Count < 2 {
			return fmt.Errorf("bonus tier count %d: %w", t.Count, ErrInvalidConfig)
		}
		if t.Multiplier <= 0 {
			return fmt.Errorf("bonus tier multiplier %v: %w", t.Multiplier, ErrInvalidConfig)
		}
	}
	return nil
}

// Multiplier returns the multiplier for n simultaneous clears: the tier with
// the highest Count not above n, or 1 when none applies.
func (b BonusRule) Multiplier(n int) float64 {
	best := 0
	mult := 1.0
	for _, t := range b.Tiers {
		if t.Count <= n && t.Count > best {
			best, mult = t.Count, t.Multiplier
		}
	}
	return mult
}

// Apply scales the summed score of n simultaneous clears, rounding to the
// nearest integer.
func (b BonusRule) Apply(sum, n int) int {
	if n < 2 {
		return sum
	}
	return int(math.Round(float64(sum) * b.Multiplier(n)))
}

// sortedTiers returns the tiers ordered by Count.
func (b BonusRule) sortedTiers() []BonusTier {
	tiers := slices.Clone(b.Tiers)
	slices.SortFunc(tiers, func(a, c BonusTier) int { return a.Count - c.Count })
	return tiers
}

func (b BonusRule) String() string {
	s := ""
	for i, t := range b.sortedTiers() {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d:x%g", t.Count, t.Multiplier)
	}
	return s
}
