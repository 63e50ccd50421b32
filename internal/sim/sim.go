// Package sim plays random games against the quad engine to compare pulse
// and scoring settings.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/quadpulse/internal/board"
	"github.com/udisondev/quadpulse/internal/quad"
)

// Result is the outcome of one simulated game.
type Result struct {
	Seed        int64
	Turns       int
	Score       int
	Clears      int
	MaxQuadSize int
	GameOver    bool
	// Simultaneous counts turns by the number of quads they cleared.
	Simultaneous map[int]int
}

// Play runs one game: each turn a random catalog shape is dropped at a random
// origin where it fits, then the turn is advanced. The game stops when
// nothing fits anymore or after maxTurns. Invariants are checked every turn.
func Play(cfg quad.Config, width, height int, seed int64, maxTurns int) (Result, error) {
	b, err := board.New(width, height)
	if err != nil {
		return Result{}, fmt.Errorf("play seed %d: %w", seed, err)
	}
	tr, err := quad.NewTracker(cfg, b, b)
	if err != nil {
		return Result{}, fmt.Errorf("play seed %d: %w", seed, err)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
	shapes := board.Shapes()
	var ids board.PieceIDs
	res := Result{Seed: seed, Simultaneous: make(map[int]int)}

	for res.Turns < maxTurns {
		cells, ok := pick(rng, b, shapes)
		if !ok {
			res.GameOver = true
			break
		}
		if err := b.Place(ids.Next(), cells); err != nil {
			return res, fmt.Errorf("play seed %d turn %d: %w", seed, res.Turns+1, err)
		}

		turn, err := tr.AdvanceTurn()
		if err != nil {
			return res, fmt.Errorf("play seed %d turn %d: %w", seed, turn.Turn, err)
		}
		if err := tr.CheckInvariants(); err != nil {
			return res, fmt.Errorf("play seed %d turn %d: %w", seed, turn.Turn, err)
		}

		res.Turns = turn.Turn
		res.Score += turn.ScoreDelta
		if n := len(turn.Cleared); n > 0 {
			res.Clears += n
			res.Simultaneous[n]++
		}
		for _, v := range turn.Active {
			res.MaxQuadSize = max(res.MaxQuadSize, v.Size)
		}
	}

	slog.Debug("game simulated",
		"seed", seed,
		"turns", res.Turns,
		"score", res.Score,
		"clears", res.Clears,
		"game_over", res.GameOver)
	return res, nil
}

// pick chooses a shape in random order and a random origin where it fits.
func pick(rng *rand.Rand, b *board.Board, shapes []board.Shape) ([]quad.Coord, bool) {
	for _, i := range rng.Perm(len(shapes)) {
		var fits [][]quad.Coord
		for y := range b.Height() {
			for x := range b.Width() {
				if cells := shapes[i].At(x, y); b.Fits(cells) {
					fits = append(fits, cells)
				}
			}
		}
		if len(fits) > 0 {
			return fits[rng.IntN(len(fits))], true
		}
	}
	return nil, false
}

// BatchConfig describes a batch of games.
type BatchConfig struct {
	Engine        quad.Config
	Width, Height int
	Games         int
	Workers       int
	Seed          int64 // games use seeds Seed..Seed+Games-1
	MaxTurns      int
}

// Summary aggregates a batch.
type Summary struct {
	Games        int
	GameOvers    int
	MeanScore    float64
	MaxScore     int
	MeanTurns    float64
	TotalClears  int
	MaxQuadSize  int
	Simultaneous map[int]int
}

// RunBatch plays bc.Games games on at most bc.Workers goroutines. The summary
// depends only on the seeds, not on the number of workers.
func RunBatch(ctx context.Context, bc BatchConfig) (Summary, error) {
	if bc.Games <= 0 || bc.Workers <= 0 || bc.MaxTurns <= 0 {
		return Summary{}, fmt.Errorf("run batch: games, workers and max turns must be positive: %w", quad.ErrInvalidConfig)
	}

	results := make([]Result, bc.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bc.Workers)
	for i := range bc.Games {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Play(bc.Engine, bc.Width, bc.Height, bc.Seed+int64(i), bc.MaxTurns)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("run batch: %w", err)
	}

	sum := Summarize(results)
	slog.Info("batch finished",
		"games", sum.Games,
		"mean_score", sum.MeanScore,
		"max_score", sum.MaxScore,
		"mean_turns", sum.MeanTurns,
		"clears", sum.TotalClears)
	return sum, nil
}

// Summarize aggregates game results.
func Summarize(results []Result) Summary {
	sum := Summary{Games: len(results), Simultaneous: make(map[int]int)}
	if len(results) == 0 {
		return sum
	}

	var score, turns int
	for _, r := range results {
		score += r.Score
		turns += r.Turns
		sum.MaxScore = max(sum.MaxScore, r.Score)
		sum.MaxQuadSize = max(sum.MaxQuadSize, r.MaxQuadSize)
		sum.TotalClears += r.Clears
		if r.GameOver {
			sum.GameOvers++
		}
		for n, c := range r.Simultaneous {
			sum.Simultaneous[n] += c
		}
	}
	sum.MeanScore = float64(score) / float64(len(results))
	sum.MeanTurns = float64(turns) / float64(len(results))
	return sum
}
