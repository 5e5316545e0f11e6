package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/roguesweeper/internal/game"
	"github.com/vancomm/roguesweeper/internal/memstore"
	"github.com/vancomm/roguesweeper/internal/mines"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{game.ErrSessionNotFound, http.StatusNotFound},
		{game.ErrGameOver, http.StatusConflict},
		{game.ErrUsernameTaken, http.StatusConflict},
		{game.ErrInvalidTarget, http.StatusBadRequest},
		{game.ErrOutOfBounds, http.StatusBadRequest},
		{game.ErrNoCluesRemaining, http.StatusBadRequest},
		{game.ErrNotWon, http.StatusBadRequest},
		{game.ErrConfirmRequired, http.StatusBadRequest},
		{fmt.Errorf("%w: bad row", game.ErrInvalidInput), http.StatusBadRequest},
		{ErrNotAuthenticated, http.StatusUnauthorized},
		{mines.ErrInvalidPlacement, http.StatusInternalServerError},
		{&game.StorageError{Op: "save session", Err: errors.New("boom")}, http.StatusInternalServerError},
	}
	for _, test := range tests {
		t.Run(test.err.Error(), func(t *testing.T) {
			assert.Equal(t, test.want, statusOf(test.err))
		})
	}
}

func TestSendErrorIncludesSessionOnStorageFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	view := &game.View{SessionID: "abc", Status: game.Active}

	rec := httptest.NewRecorder()
	err := errors.Join(&game.StorageError{Op: "save session", Err: errors.New("boom")})
	sendError(rec, logger, err, view)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Error   string     `json:"error"`
		Session *game.View `json:"session"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "storage failure", body.Error)
	require.NotNil(t, body.Session)
	assert.Equal(t, "abc", body.Session.SessionID)

	rec = httptest.NewRecorder()
	sendError(rec, logger, game.ErrGameOver, view)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"game is over"}`, rec.Body.String())
}

func TestExecuteRejectsMalformedCommands(t *testing.T) {
	g := &GameHandler{}
	for _, line := range []string{"", "z", "o 1", "o a b", "t", "g 1"} {
		_, err := g.execute(context.Background(), 1, line)
		assert.ErrorIs(t, err, game.ErrInvalidInput, "line %q", line)
	}
}

func TestAuthErrorsAreJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := NewAuth(logger, memstore.New(), nil)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		body    string
		want    int
	}{
		{"register without password", a.Register, "username=alice", http.StatusBadRequest},
		{"register short name", a.Register, "username=al&password=secret", http.StatusBadRequest},
		{"login long password", a.Login, "username=alice&password=" + strings.Repeat("x", 73), http.StatusBadRequest},
		{"login unknown player", a.Login, "username=nobody&password=secret", http.StatusUnauthorized},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(test.body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			test.handler(rec, req)

			assert.Equal(t, test.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}
