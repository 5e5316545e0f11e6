package app_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/roguesweeper/internal/app"
	"github.com/vancomm/roguesweeper/internal/config"
	"github.com/vancomm/roguesweeper/internal/game"
	"github.com/vancomm/roguesweeper/internal/memstore"
)

type client struct {
	t    *testing.T
	http *http.Client
	base string
}

func newServer(t *testing.T) (*httptest.Server, *memstore.Store) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	t.Setenv("COOKIES_SECURE", "0")
	cookies, err := config.NewCookies(config.NewJWTFromKey(key, time.Hour))
	require.NoError(t, err)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	store := memstore.New()
	a := app.New(slog.New(slog.NewTextHandler(io.Discard, nil)), app.Deps{
		Stores:    app.Stores{Sessions: store, Profiles: store, Scores: store, Accounts: store},
		Cookies:   cookies,
		WebSocket: ws,
		RateLimit: config.RateLimit{Requests: 100, Window: time.Second},
	})
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, http: &http.Client{Jar: jar}, base: srv.URL}
}

func (c *client) do(method, path string, form url.Values, out any) int {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestGameFlow(t *testing.T) {
	srv, _ := newServer(t)
	c := newClient(t, srv)

	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/game/session", nil, &errBody))

	var view game.View
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/game/start", nil, &view))
	assert.Equal(t, game.Active, view.Status)
	assert.Equal(t, 1, view.Level)
	assert.Equal(t, 1, view.CluesRemaining)
	assert.False(t, view.Board.Initialized)
	sessionID := view.SessionID

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/game/start", nil, &view))
	assert.Equal(t, sessionID, view.SessionID)

	form := url.Values{"row": {"4"}, "col": {"4"}, "action": {"reveal"}}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/game/action", form, &view))
	assert.True(t, view.Board.Initialized)
	assert.Positive(t, view.Board.RevealedCount)

	form = url.Values{"row": {"40"}, "col": {"4"}, "action": {"reveal"}}
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/game/action", form, &errBody))
	form = url.Values{"row": {"1"}, "col": {"1"}, "action": {"dig"}}
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/game/action", form, &errBody))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/game/next-level", url.Values{"confirm": {"false"}}, &errBody))

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/game/abandon", nil, &view))
	assert.Equal(t, game.Abandoned, view.Status)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/game/abandon", nil, &errBody))

	var top []game.RankedScore
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/leaderboard?limit=500", nil, &top))
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, game.OutcomeAbandoned, top[0].Outcome)

	var stats game.Stats
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/stats", nil, &stats))
	assert.Equal(t, 1, stats.Player.GamesPlayed)
	require.NotNil(t, stats.BestScore)
	assert.Equal(t, 1, stats.BestRank)
	assert.Len(t, stats.RecentScores, 1)
}

func TestRegisterKeepsGuestProgress(t *testing.T) {
	srv, store := newServer(t)
	c := newClient(t, srv)

	var view game.View
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/game/start", nil, &view))

	var status struct {
		LoggedIn bool `json:"logged_in"`
		Player   struct {
			PlayerID int64 `json:"player_id"`
			IsGuest  bool  `json:"is_guest"`
		} `json:"player"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/status", nil, &status))
	assert.False(t, status.LoggedIn)
	assert.True(t, status.Player.IsGuest)
	guestID := status.Player.PlayerID

	creds := url.Values{"username": {"alice"}, "password": {"hunter22"}}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/register", creds, &status))
	assert.True(t, status.LoggedIn)
	assert.Equal(t, guestID, status.Player.PlayerID)

	var resumed game.View
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/game/session", nil, &resumed))
	assert.Equal(t, view.SessionID, resumed.SessionID)

	other := newClient(t, srv)
	var errBody map[string]string
	assert.Equal(t, http.StatusConflict, other.do(http.MethodPost, "/register", creds, &errBody))
	assert.Equal(t, http.StatusUnauthorized, other.do(http.MethodPost, "/login",
		url.Values{"username": {"alice"}, "password": {"wrong"}}, &errBody))
	require.Equal(t, http.StatusOK, other.do(http.MethodPost, "/login", creds, &status))
	assert.Equal(t, guestID, status.Player.PlayerID)

	long := url.Values{"username": {"bob"}, "password": {strings.Repeat("x", 73)}}
	assert.Equal(t, http.StatusBadRequest, other.do(http.MethodPost, "/register", long, &errBody))

	p, err := store.FetchPlayerByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, p.IsGuest)
}

func TestWebSocket(t *testing.T) {
	srv, _ := newServer(t)
	c := newClient(t, srv)

	var view game.View
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/game/start", nil, &view))

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	header := http.Header{}
	for _, cookie := range c.http.Jar.Cookies(u) {
		header.Add("Cookie", cookie.String())
	}
	conn, _, err := websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(srv.URL, "http")+"/api/game/connect", header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("g")))
	var got game.View
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, view.SessionID, got.SessionID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("x 1 2\no 4 4")))
	var reply map[string]any
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Contains(t, reply["error"], "unknown command")
	require.NoError(t, conn.ReadJSON(&got))
	assert.True(t, got.Board.Initialized)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("a")))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, game.Abandoned, got.Status)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newServer(t)
	c := newClient(t, srv)

	var health map[string]string
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil, &health))
	assert.Equal(t, "ok", health["status"])

	res, err := c.http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "roguesweeper_runs_started_total")
}
