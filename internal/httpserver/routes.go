package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/udisondev/quadpulse/internal/board"
	"github.com/udisondev/quadpulse/internal/quad"
	"github.com/udisondev/quadpulse/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

type coordJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type rectJSON struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type quadJSON struct {
	rectJSON
	Size           int       `json:"size"`
	Age            int       `json:"age"`
	RemainingTurns int       `json:"remaining_turns"`
	CreatedAtTurn  int       `json:"created_at_turn"`
	Center         coordJSON `json:"center"`
}

type clearJSON struct {
	rectJSON
	Score int `json:"score"`
}

// gameResponse is the body of GET /games/{id} and POST /games.
type gameResponse struct {
	ID            string     `json:"id"`
	Turn          int        `json:"turn"`
	Score         int        `json:"score"`
	GameOver      bool       `json:"game_over"`
	PulseInterval int        `json:"pulse_interval"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	Board         [][]int    `json:"board"` // owner ids, bottom row first, -1 for empty
	Quads         []quadJSON `json:"quads"`
}

// turnResponse is the body of every action that runs a turn or a pulse.
type turnResponse struct {
	Turn       int         `json:"turn"`
	ScoreDelta int         `json:"score_delta"`
	Score      int         `json:"score"`
	GameOver   bool        `json:"game_over"`
	Skipped    bool        `json:"skipped,omitempty"`
	Cleared    []clearJSON `json:"cleared"`
	Quads      []quadJSON  `json:"quads"`
}

// placeRequest is the body of POST /games/{id}/pieces: either a catalog
// shape with an origin, or explicit cells.
type placeRequest struct {
	Shape string      `json:"shape"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Cells []coordJSON `json:"cells"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.sessions.Count()})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGameResponse(sess.State()))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toGameResponse(sess.State()))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Remove(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_json"})
		return
	}

	var out session.Outcome
	var err error
	switch {
	case len(req.Cells) > 0:
		cells := make([]quad.Coord, len(req.Cells))
		for i, c := range req.Cells {
			cells[i] = quad.Coord{X: c.X, Y: c.Y}
		}
		out, err = sess.PlaceCells(cells)
	case req.Shape != "":
		out, err = sess.Place(req.Shape, req.X, req.Y)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "shape_or_cells_required"})
		return
	}
	s.writeOutcome(w, out, err)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	out, err := sess.Advance()
	s.writeOutcome(w, out, err)
}

func (s *Server) handlePulse(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	out, err := sess.Pulse()
	s.writeOutcome(w, out, err)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, toGameResponse(sess.State()))
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) writeOutcome(w http.ResponseWriter, out session.Outcome, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTurnResponse(out))
}

// writeError maps domain errors to status codes and stable error codes.
func writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		status, code = http.StatusNotFound, "session_not_found"
	case errors.Is(err, session.ErrTooManySessions):
		status, code = http.StatusTooManyRequests, "too_many_sessions"
	case errors.Is(err, session.ErrUnknownShape):
		status, code = http.StatusBadRequest, "unknown_shape"
	case errors.Is(err, quad.ErrInvalidCoordinate):
		status, code = http.StatusBadRequest, "invalid_coordinate"
	case errors.Is(err, board.ErrInvalidPiece):
		status, code = http.StatusBadRequest, "invalid_piece"
	case errors.Is(err, board.ErrCellOccupied):
		status, code = http.StatusConflict, "cell_occupied"
	case errors.Is(err, session.ErrGameOver):
		status, code = http.StatusConflict, "game_over"
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

func toRectJSON(r quad.Rect) rectJSON {
	return rectJSON{X: r.MinX, Y: r.MinY, Width: r.Width(), Height: r.Height()}
}

func toQuadsJSON(views []quad.View) []quadJSON {
	out := make([]quadJSON, 0, len(views))
	for _, v := range views {
		out = append(out, quadJSON{
			rectJSON:       toRectJSON(v.Bounds),
			Size:           v.Size,
			Age:            v.Age,
			RemainingTurns: v.RemainingTurns,
			CreatedAtTurn:  v.CreatedAtTurn,
			Center:         coordJSON{X: v.Center.X, Y: v.Center.Y},
		})
	}
	return out
}

func toGameResponse(st session.State) gameResponse {
	return gameResponse{
		ID:            st.ID,
		Turn:          st.Turn,
		Score:         st.Score,
		GameOver:      st.GameOver,
		PulseInterval: st.PulseInterval,
		Width:         st.Width,
		Height:        st.Height,
		Board:         st.Rows,
		Quads:         toQuadsJSON(st.Quads),
	}
}

func toTurnResponse(out session.Outcome) turnResponse {
	cleared := make([]clearJSON, 0, len(out.Turn.Cleared))
	for _, c := range out.Turn.Cleared {
		cleared = append(cleared, clearJSON{rectJSON: toRectJSON(c.Bounds), Score: c.Score})
	}
	return turnResponse{
		Turn:       out.Turn.Turn,
		ScoreDelta: out.Turn.ScoreDelta,
		Score:      out.Score,
		GameOver:   out.GameOver,
		Skipped:    out.Turn.Skipped,
		Cleared:    cleared,
		Quads:      toQuadsJSON(out.Turn.Active),
	}
}
