package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/quadpulse/internal/config"
	"github.com/udisondev/quadpulse/internal/quad"
)

// Manager manages all running sessions.
// Thread-safe: uses RWMutex for the session map.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg           quad.Config
	width, height int
	maxSessions   int
}

// NewManager creates a session manager creating games from engine.
func NewManager(engine config.Engine, maxSessions int) (*Manager, error) {
	cfg, err := engine.QuadConfig()
	if err != nil {
		return nil, fmt.Errorf("new session manager: %w", err)
	}
	if engine.Width <= 0 || engine.Height <= 0 {
		return nil, fmt.Errorf("new session manager: board %dx%d: %w",
			engine.Width, engine.Height, quad.ErrInvalidConfig)
	}

	return &Manager{
		sessions:    make(map[string]*Session),
		cfg:         cfg,
		width:       engine.Width,
		height:      engine.Height,
		maxSessions: maxSessions,
	}, nil
}

// Create starts a new session.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("limit %d: %w", m.maxSessions, ErrTooManySessions)
	}

	s, err := New(uuid.NewString(), m.width, m.height, m.cfg)
	if err != nil {
		return nil, err
	}
	m.sessions[s.ID()] = s

	slog.Info("session created", "session", s.ID(), "sessions", len(m.sessions))
	return s, nil
}

// Get returns a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Remove ends a session.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	delete(m.sessions, id)

	slog.Info("session removed", "session", id, "sessions", len(m.sessions))
	return nil
}

// Count returns the number of running sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
