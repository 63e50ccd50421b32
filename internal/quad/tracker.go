package quad

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// View is the presentation snapshot of a tracked quad.
type View struct {
	Bounds         Rect
	Size           int
	Age            int
	RemainingTurns int
	CreatedAtTurn  int
	Center         Coord
}

// Clear describes one quad removed by expiry, with its score before bonus.
type Clear struct {
	Bounds Rect
	Score  int
}

// TurnResult is what a turn (or a manual pulse) produced.
type TurnResult struct {
	Turn       int
	ScoreDelta int
	Cleared    []Clear
	Active     []View
	// Skipped is set when the call was rejected because another one was
	// still in progress. Nothing changed in that case.
	Skipped bool
}

// Tracker owns the set of tracked quads. Tracked quads never share a cell.
//
// Per turn every quad ages by one, newly formed rectangles are detected among
// unclaimed cells and merged into neighbouring quads where the union stays a
// filled rectangle, and quads reaching the pulse interval are cleared through
// the ClearSink for score.
//
// Not safe for concurrent use: callers serialize access. Recursive calls made
// while a turn is processed (for example from the ClearSink) are rejected.
type Tracker struct {
	cfg      Config
	grid     Grid
	sink     ClearSink
	detector *Detector

	quads      []*Quad
	turn       int
	processing bool
}

// NewTracker creates a tracker reading grid and freeing cells through sink.
func NewTracker(cfg Config, grid Grid, sink ClearSink) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new tracker: %w", err)
	}
	if grid == nil || sink == nil {
		return nil, fmt.Errorf("new tracker: grid and sink are required: %w", ErrInvalidConfig)
	}

	return &Tracker{
		cfg:      cfg,
		grid:     grid,
		sink:     sink,
		detector: NewDetector(cfg),
	}, nil
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config { return t.cfg }

// Turn returns the global turn counter.
func (t *Tracker) Turn() int { return t.turn }

// PulseInterval returns the age at which quads expire.
func (t *Tracker) PulseInterval() int { return t.cfg.PulseInterval }

// Quads returns the tracked quads in tracking order.
func (t *Tracker) Quads() []*Quad { return slices.Clone(t.quads) }

// AdvanceTurn processes one game turn: ages tracked quads, detects and merges
// new quads, expires quads whose age reached the pulse interval and, if any
// expired, detects again so freed space is accounted for within the turn.
//
// The returned error is non-nil only when the ClearSink failed; the expired
// quads are still removed and scored in that case.
func (t *Tracker) AdvanceTurn() (TurnResult, error) {
	if !t.begin("advance turn") {
		return TurnResult{Turn: t.turn, Skipped: true}, nil
	}
	defer t.end()

	t.turn++
	for _, q := range t.quads {
		q.age++
	}

	t.reconcile()

	var expired []*Quad
	for _, q := range t.quads {
		if q.age >= t.cfg.PulseInterval {
			expired = append(expired, q)
		}
	}

	return t.finish(expired)
}

// PulseNow clears every tracked quad immediately regardless of age, scoring
// them as one simultaneous clear. The turn counter is not advanced.
func (t *Tracker) PulseNow() (TurnResult, error) {
	if !t.begin("pulse") {
		return TurnResult{Turn: t.turn, Skipped: true}, nil
	}
	defer t.end()

	return t.finish(slices.Clone(t.quads))
}

// ClearAll drops every tracked quad and resets the turn counter.
// The grid itself is left untouched. Calls made while a turn is processed
// are ignored.
func (t *Tracker) ClearAll() {
	if t.processing {
		slog.Warn("turn in progress, ignoring clear all", "turn", t.turn)
		return
	}
	t.quads = nil
	t.turn = 0
	slog.Debug("all quads cleared")
}

// Views returns the presentation snapshot of all tracked quads.
func (t *Tracker) Views() []View {
	views := make([]View, 0, len(t.quads))
	for _, q := range t.quads {
		views = append(views, View{
			Bounds:         q.bounds,
			Size:           q.Size(),
			Age:            q.age,
			RemainingTurns: t.cfg.PulseInterval - q.age,
			CreatedAtTurn:  q.createdAt,
			Center:         q.bounds.Center(),
		})
	}
	return views
}

func (t *Tracker) begin(op string) bool {
	if t.processing {
		slog.Warn("turn already in progress, ignoring call", "op", op, "turn", t.turn)
		return false
	}
	t.processing = true
	return true
}

func (t *Tracker) end() { t.processing = false }

// finish expires the given quads, re-detects when anything was freed and
// builds the turn result.
func (t *Tracker) finish(expired []*Quad) (TurnResult, error) {
	res := TurnResult{Turn: t.turn}

	var err error
	if len(expired) > 0 {
		res.Cleared, res.ScoreDelta, err = t.expire(expired)
		t.reconcile()
	}

	t.mustHoldInvariants()
	res.Active = t.Views()

	slog.Debug("turn processed",
		"turn", t.turn,
		"active", len(res.Active),
		"cleared", len(res.Cleared),
		"score", res.ScoreDelta)

	return res, err
}

// expire scores, frees and untracks the given quads.
func (t *Tracker) expire(expired []*Quad) ([]Clear, int, error) {
	cleared := make([]Clear, 0, len(expired))
	sum := 0
	var errs []error

	for _, q := range expired {
		pts := t.cfg.Scoring.ScoreQuad(q)
		sum += pts
		cleared = append(cleared, Clear{Bounds: q.bounds, Score: pts})

		t.remove(q)
		if err := t.sink.FreeCells(q.Cells()); err != nil {
			errs = append(errs, fmt.Errorf("free cells of %s: %w", q.bounds, err))
		}

		slog.Debug("quad expired", "bounds", q.bounds, "age", q.age, "score", pts)
	}

	delta := t.cfg.Bonus.Apply(sum, len(expired))
	if len(expired) > 1 {
		slog.Debug("simultaneous clear bonus",
			"quads", len(expired),
			"multiplier", t.cfg.Bonus.Multiplier(len(expired)),
			"score", delta)
	}

	return cleared, delta, errors.Join(errs...)
}

// reconcile detects quads among unclaimed cells and folds each candidate
// into the tracked set in detection order.
func (t *Tracker) reconcile() {
	claimed := mapset.New[Coord]()
	for _, q := range t.quads {
		q.cells.Each(claimed.Put)
	}

	for _, c := range t.detector.Detect(t.grid, claimed) {
		t.absorb(c)
	}
}

// absorb reconciles candidate c against the tracked quads: ignore it when
// already tracked, merge it with overlapping or adjacent quads when the union
// grows into a filled rectangle, or track it as a new quad.
func (t *Tracker) absorb(c *Quad) {
	for _, q := range t.quads {
		if q.bounds == c.bounds {
			return
		}
	}

	merged := c
	var absorbed []*Quad
	for progress := true; progress; {
		progress = false
		for _, q := range t.quads {
			if slices.Contains(absorbed, q) {
				continue
			}
			if !merged.Overlaps(q) && !merged.AdjacentTo(q) {
				continue
			}
			m, ok := merged.MergeWith(q, t.turn)
			if !ok {
				continue
			}
			merged = m
			absorbed = append(absorbed, q)
			progress = true
		}
	}

	absorbedSize := 0
	for _, q := range absorbed {
		absorbedSize += q.Size()
	}

	if len(absorbed) > 0 && merged.Size() > absorbedSize {
		for _, q := range absorbed {
			t.remove(q)
		}
		t.quads = append(t.quads, merged)
		slog.Debug("quads merged",
			"bounds", merged.bounds,
			"absorbed", len(absorbed),
			"age", merged.age)
		return
	}

	for _, q := range t.quads {
		if c.SubsetOf(q) {
			return
		}
		if c.Overlaps(q) {
			slog.Warn("detected quad overlaps tracked quad, dropping",
				"candidate", c.bounds, "tracked", q.bounds)
			return
		}
	}

	c.age = 0
	c.createdAt = t.turn
	t.quads = append(t.quads, c)
	slog.Debug("quad tracked", "bounds", c.bounds, "turn", t.turn)
}

func (t *Tracker) remove(q *Quad) {
	t.quads = slices.DeleteFunc(t.quads, func(o *Quad) bool { return o == q })
}
