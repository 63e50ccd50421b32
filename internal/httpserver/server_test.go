package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/quadpulse/internal/config"
	"github.com/udisondev/quadpulse/internal/session"
	"github.com/udisondev/quadpulse/internal/testutil"
)

func newTestServer(t *testing.T, maxSessions int) *Server {
	t.Helper()
	cfg := config.DefaultServer()
	cfg.MaxSessions = maxSessions

	mgr, err := session.NewManager(cfg.Engine, cfg.MaxSessions)
	require.NoError(t, err)
	return New(cfg, mgr)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func createGame(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/games", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[gameResponse](t, rec).ID
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, 5)
	rec := do(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"ok":true,"sessions":0}`, rec.Body.String())
}

func TestServer_CreateAndGetGame(t *testing.T) {
	s := newTestServer(t, 5)
	id := createGame(t, s)

	rec := do(t, s, http.MethodGet, "/games/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	g := decode[gameResponse](t, rec)
	assert.Equal(t, id, g.ID)
	assert.Equal(t, 12, g.Width)
	assert.Equal(t, 9, g.Height)
	assert.Equal(t, 4, g.PulseInterval)
	assert.Len(t, g.Board, 9)
	assert.Empty(t, g.Quads)
}

func TestServer_PlaceAndPulse(t *testing.T) {
	s := newTestServer(t, 5)
	id := createGame(t, s)

	body := `{"cells":[` +
		`{"x":0,"y":0},{"x":1,"y":0},{"x":2,"y":0},` +
		`{"x":0,"y":1},{"x":1,"y":1},{"x":2,"y":1},` +
		`{"x":0,"y":2},{"x":1,"y":2},{"x":2,"y":2}]}`
	rec := do(t, s, http.MethodPost, "/games/"+id+"/pieces", body)
	require.Equal(t, http.StatusOK, rec.Code)

	turn := decode[turnResponse](t, rec)
	assert.Equal(t, 1, turn.Turn)
	require.Len(t, turn.Quads, 1)
	q := turn.Quads[0]
	assert.Equal(t, rectJSON{X: 0, Y: 0, Width: 3, Height: 3}, q.rectJSON)
	assert.Equal(t, 4, q.RemainingTurns)
	assert.Equal(t, coordJSON{X: 1, Y: 1}, q.Center)

	rec = do(t, s, http.MethodPost, "/games/"+id+"/pulse", "")
	require.Equal(t, http.StatusOK, rec.Code)
	turn = decode[turnResponse](t, rec)
	assert.Equal(t, 300, turn.ScoreDelta)
	assert.Equal(t, 300, turn.Score)
	assert.Equal(t, []clearJSON{{rectJSON: rectJSON{Width: 3, Height: 3}, Score: 300}}, turn.Cleared)
}

func TestServer_TurnsAndReset(t *testing.T) {
	s := newTestServer(t, 5)
	id := createGame(t, s)

	rec := do(t, s, http.MethodPost, "/games/"+id+"/pieces", `{"shape":"T","x":4,"y":4}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, "/games/"+id+"/turns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[turnResponse](t, rec).Turn)

	rec = do(t, s, http.MethodPost, "/games/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	g := decode[gameResponse](t, rec)
	assert.Zero(t, g.Turn)
	for _, row := range g.Board {
		for _, owner := range row {
			assert.Equal(t, -1, owner)
		}
	}
}

func TestServer_Errors(t *testing.T) {
	s := newTestServer(t, 5)
	id := createGame(t, s)
	rec := do(t, s, http.MethodPost, "/games/"+id+"/pieces", `{"shape":"O","x":0,"y":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown game", http.MethodGet, "/games/nope", "", http.StatusNotFound, "session_not_found"},
		{"bad json", http.MethodPost, "/games/" + id + "/pieces", `{"shape":`, http.StatusBadRequest, "bad_json"},
		{"empty piece", http.MethodPost, "/games/" + id + "/pieces", `{}`, http.StatusBadRequest, "shape_or_cells_required"},
		{"unknown shape", http.MethodPost, "/games/" + id + "/pieces", `{"shape":"J"}`, http.StatusBadRequest, "unknown_shape"},
		{"off board", http.MethodPost, "/games/" + id + "/pieces", `{"shape":"I","x":10,"y":0}`, http.StatusBadRequest, "invalid_coordinate"},
		{"occupied", http.MethodPost, "/games/" + id + "/pieces", `{"shape":"1x1","x":1,"y":1}`, http.StatusConflict, "cell_occupied"},
		{"unknown route", http.MethodGet, "/nothing", "", http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode[errorResponse](t, rec).Error)
		})
	}
}

func TestServer_DeleteGame(t *testing.T) {
	s := newTestServer(t, 5)
	id := createGame(t, s)

	rec := do(t, s, http.MethodDelete, "/games/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, "/games/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_SessionLimit(t *testing.T) {
	s := newTestServer(t, 1)
	createGame(t, s)

	rec := do(t, s, http.MethodPost, "/games", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too_many_sessions", decode[errorResponse](t, rec).Error)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := newTestServer(t, 5)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := testutil.ContextWithCancel(t)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ln.Addr(), s.Addr())

	cancel()
	assert.NoError(t, <-done)
}

func TestServer_Run(t *testing.T) {
	cfg := config.DefaultServer()
	cfg.BindAddress = "127.0.0.1"
	cfg.Port = 0
	mgr, err := session.NewManager(cfg.Engine, cfg.MaxSessions)
	require.NoError(t, err)
	s := New(cfg, mgr)

	ctx, cancel := testutil.ContextWithCancel(t)
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	testutil.WaitFor(t, func() bool { return s.Addr() != nil }, 5*time.Second)

	resp, err := http.Post("http://"+s.Addr().String()+"/games", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, mgr.Count())

	cancel()
	assert.NoError(t, <-done)
}
