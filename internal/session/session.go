// Package session runs games: one session owns a board, the quad tracker
// reading it and the running score.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/quadpulse/internal/board"
	"github.com/udisondev/quadpulse/internal/quad"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
	ErrUnknownShape    = errors.New("unknown shape")
	ErrGameOver        = errors.New("game over")
)

// Outcome is the result of one player action.
type Outcome struct {
	Turn     quad.TurnResult
	Score    int
	GameOver bool
}

// State is a snapshot of a session for presentation.
type State struct {
	ID            string
	Turn          int
	Score         int
	GameOver      bool
	PulseInterval int
	Width         int
	Height        int
	Rows          [][]int
	Quads         []quad.View
}

// Session is one game. All methods serialize on the session mutex, which is
// the only mutual exclusion the tracker gets.
type Session struct {
	id string

	mu      sync.Mutex
	board   *board.Board
	tracker *quad.Tracker
	pieces  board.PieceIDs
	shapes  []board.Shape
	score   int
	over    bool
}

// New creates a session with an empty width×height board.
func New(id string, width, height int, cfg quad.Config) (*Session, error) {
	b, err := board.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	tr, err := quad.NewTracker(cfg, b, b)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	return &Session{
		id:      id,
		board:   b,
		tracker: tr,
		shapes:  board.Shapes(),
	}, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Place drops a catalog shape with its origin at (x, y) and advances one turn.
func (s *Session) Place(shape string, x, y int) (Outcome, error) {
	sh, ok := board.ShapeByName(shape)
	if !ok {
		return Outcome{}, fmt.Errorf("%q: %w", shape, ErrUnknownShape)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.place(sh.At(x, y))
}

// PlaceCells drops a free-form piece covering cells and advances one turn.
func (s *Session) PlaceCells(cells []quad.Coord) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.place(cells)
}

// Advance passes a turn without placing anything.
func (s *Session) Advance() (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return s.outcome(quad.TurnResult{Turn: s.tracker.Turn()}), ErrGameOver
	}
	return s.apply(s.tracker.AdvanceTurn())
}

// Pulse clears every tracked quad now. The turn counter does not move.
func (s *Session) Pulse() (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return s.outcome(quad.TurnResult{Turn: s.tracker.Turn()}), ErrGameOver
	}
	return s.apply(s.tracker.PulseNow())
}

// Reset starts a new game on the same session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.board.Clear()
	s.tracker.ClearAll()
	s.score = 0
	s.over = false
	slog.Info("session reset", "session", s.id)
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		ID:            s.id,
		Turn:          s.tracker.Turn(),
		Score:         s.score,
		GameOver:      s.over,
		PulseInterval: s.tracker.PulseInterval(),
		Width:         s.board.Width(),
		Height:        s.board.Height(),
		Rows:          s.board.Rows(),
		Quads:         s.tracker.Views(),
	}
}

func (s *Session) place(cells []quad.Coord) (Outcome, error) {
	if s.over {
		return s.outcome(quad.TurnResult{Turn: s.tracker.Turn()}), ErrGameOver
	}

	if err := s.board.Place(s.pieces.Next(), cells); err != nil {
		return Outcome{}, err
	}
	return s.apply(s.tracker.AdvanceTurn())
}

func (s *Session) apply(res quad.TurnResult, err error) (Outcome, error) {
	s.score += res.ScoreDelta
	if !s.board.CanPlaceAnywhere(s.shapes) {
		s.over = true
		slog.Info("game over", "session", s.id, "turn", res.Turn, "score", s.score)
	}

	if len(res.Cleared) > 0 {
		slog.Debug("quads cleared",
			"session", s.id,
			"turn", res.Turn,
			"cleared", len(res.Cleared),
			"delta", res.ScoreDelta,
			"score", s.score)
	}

	if err != nil {
		return s.outcome(res), fmt.Errorf("session %s turn %d: %w", s.id, res.Turn, err)
	}
	return s.outcome(res), nil
}

func (s *Session) outcome(res quad.TurnResult) Outcome {
	return Outcome{Turn: res, Score: s.score, GameOver: s.over}
}
