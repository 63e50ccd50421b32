package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/quadpulse/internal/config"
	"github.com/udisondev/quadpulse/internal/httpserver"
	"github.com/udisondev/quadpulse/internal/session"
)

const ConfigPath = "config/quadserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional
	_ = godotenv.Load()

	cfgPath := ConfigPath
	if p := os.Getenv("QUADPULSE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	engine, err := cfg.Engine.QuadConfig()
	if err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	slog.Info("quadserver starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"board", fmt.Sprintf("%dx%d", cfg.Engine.Width, cfg.Engine.Height),
		"pulse_interval", engine.PulseInterval,
		"min_area", engine.MinimumRectangleArea,
		"detection", engine.Detection,
		"scoring", engine.Scoring,
		"bonus", engine.Bonus)

	sessions, err := session.NewManager(cfg.Engine, cfg.MaxSessions)
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}
	srv := httpserver.New(cfg, sessions)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting http server", "addr", cfg.Addr())
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
