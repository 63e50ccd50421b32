package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the HTTP game server.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	LogLevel string `yaml:"log_level"` // debug | info | warn | error

	// Sessions
	MaxSessions int `yaml:"max_sessions"`

	// Timeouts
	RequestTimeout  time.Duration `yaml:"request_timeout"`  // per-request deadline (default: 10s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // graceful shutdown (default: 5s)

	Engine Engine `yaml:"engine"`
}

// Addr returns the listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.Port)
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		BindAddress:     "0.0.0.0",
		Port:            8080,
		LogLevel:        "info",
		MaxSessions:     1000,
		RequestTimeout:  10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		Engine:          DefaultEngine(),
	}
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.MaxSessions <= 0 {
		return cfg, fmt.Errorf("config %s: max_sessions must be positive", path)
	}
	if err := cfg.Engine.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Simulation holds the settings of a simulation batch.
type Simulation struct {
	LogLevel string `yaml:"log_level"`

	Games    int   `yaml:"games"`
	Workers  int   `yaml:"workers"`
	Seed     int64 `yaml:"seed"`
	MaxTurns int   `yaml:"max_turns"`

	Engine Engine `yaml:"engine"`
}

// DefaultSimulation returns a batch of 100 games on 4 workers.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel: "info",
		Games:    100,
		Workers:  4,
		Seed:     1,
		MaxTurns: 500,
		Engine:   DefaultEngine(),
	}
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Games <= 0 || cfg.Workers <= 0 || cfg.MaxTurns <= 0 {
		return cfg, fmt.Errorf("config %s: games, workers and max_turns must be positive", path)
	}
	if err := cfg.Engine.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func load(path string, cfg any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ParseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
