package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/udisondev/quadpulse/internal/config"
	"github.com/udisondev/quadpulse/internal/sim"
)

const ConfigPath = "config/quadsim.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	_ = godotenv.Load()

	cfgPath := ConfigPath
	if p := os.Getenv("QUADPULSE_SIM_CONFIG"); p != "" {
		cfgPath = p
	}

	fs := flag.NewFlagSet("quadsim", flag.ContinueOnError)
	fs.StringVar(&cfgPath, "config", cfgPath, "path to the simulation config")
	mode := fs.String("mode", "", "preset override (cells2x2, cells3x3, entities3x3)")
	games := fs.Int("games", 0, "number of games (overrides config)")
	workers := fs.Int("workers", 0, "parallel workers (overrides config)")
	seed := fs.Int64("seed", 0, "first seed (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *mode != "" {
		cfg.Engine.Mode = *mode
	}
	if *games > 0 {
		cfg.Games = *games
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	engine, err := cfg.Engine.QuadConfig()
	if err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	slog.Info("simulation starting",
		"mode", cfg.Engine.Mode,
		"games", cfg.Games,
		"workers", cfg.Workers,
		"seed", cfg.Seed,
		"pulse_interval", engine.PulseInterval,
		"scoring", engine.Scoring)

	sum, err := sim.RunBatch(ctx, sim.BatchConfig{
		Engine:   engine,
		Width:    cfg.Engine.Width,
		Height:   cfg.Engine.Height,
		Games:    cfg.Games,
		Workers:  cfg.Workers,
		Seed:     cfg.Seed,
		MaxTurns: cfg.MaxTurns,
	})
	if err != nil {
		return err
	}

	sizes := make([]int, 0, len(sum.Simultaneous))
	for n := range sum.Simultaneous {
		sizes = append(sizes, n)
	}
	slices.Sort(sizes)
	for _, n := range sizes {
		slog.Info("simultaneous clears", "quads", n, "turns", sum.Simultaneous[n])
	}

	slog.Info("simulation summary",
		"games", sum.Games,
		"game_overs", sum.GameOvers,
		"mean_score", fmt.Sprintf("%.1f", sum.MeanScore),
		"max_score", sum.MaxScore,
		"mean_turns", fmt.Sprintf("%.1f", sum.MeanTurns),
		"clears", sum.TotalClears,
		"largest_quad", sum.MaxQuadSize)
	return nil
}
