package quad

import (
	"log/slog"

	"github.com/zyedidia/generic/mapset"
)

// Detector runs region finding and rectangle extraction over a grid.
type Detector struct {
	extractor *Extractor
}

// NewDetector creates a detector for cfg.
func NewDetector(cfg Config) *Detector {
	return &Detector{extractor: NewExtractor(cfg)}
}

// Detect returns the quads formed by occupied cells outside claimed. Regions
// are processed in scan order and claimed is left untouched.
func (d *Detector) Detect(g Grid, claimed mapset.Set[Coord]) []*Quad {
	used := mapset.New[Coord]()
	claimed.Each(used.Put)

	var found []*Quad
	for _, region := range FindRegions(g, claimed) {
		quads := d.extractor.Extract(g, region, used)
		if len(quads) > 0 {
			slog.Debug("region yielded quads",
				"bounds", region.Bounds(),
				"cells", len(region),
				"quads", len(quads))
		}
		found = append(found, quads...)
	}

	return found
}
