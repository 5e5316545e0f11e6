package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/roguesweeper/internal/game"
)

type wsCommand string

const (
	wsGet     wsCommand = "g"
	wsReveal  wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsClue    wsCommand = "h"
	wsNext    wsCommand = "n"
	wsTime    wsCommand = "t"
	wsAbandon wsCommand = "a"
)

var commandNargs = map[wsCommand]int{
	wsGet:     0,
	wsReveal:  2,
	wsFlag:    2,
	wsChord:   2,
	wsClue:    2,
	wsNext:    0,
	wsTime:    1,
	wsAbandon: 0,
}

var boardCommands = map[wsCommand]game.Kind{
	wsReveal: game.Reveal,
	wsFlag:   game.Flag,
	wsChord:  game.Chord,
	wsClue:   game.Clue,
}

func parseInts(args []string) ([]int, error) {
	res := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d must be an int", game.ErrInvalidInput, i+1)
		}
		res[i] = n
	}
	return res, nil
}

// execute runs one command line against the player's run.
func (g *GameHandler) execute(ctx context.Context, playerID int64, line string) (game.View, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return game.View{}, fmt.Errorf("%w: empty command", game.ErrInvalidInput)
	}
	cmd := wsCommand(parts[0])
	nargs, ok := commandNargs[cmd]
	if !ok {
		return game.View{}, fmt.Errorf("%w: unknown command %q", game.ErrInvalidInput, cmd)
	}
	if nargs != len(parts)-1 {
		return game.View{}, fmt.Errorf("%w: %q takes %d arguments", game.ErrInvalidInput, cmd, nargs)
	}
	args, err := parseInts(parts[1:])
	if err != nil {
		return game.View{}, err
	}

	if kind, ok := boardCommands[cmd]; ok {
		return g.manager.Action(ctx, playerID, args[0], args[1], kind)
	}
	switch cmd {
	case wsGet:
		return g.manager.Status(ctx, playerID)
	case wsNext:
		return g.manager.AdvanceLevel(ctx, playerID, true)
	case wsTime:
		return g.manager.SyncTime(ctx, playerID, args[0])
	case wsAbandon:
		return g.manager.Abandon(ctx, playerID)
	}
	return game.View{}, game.ErrInvalidInput
}

type wsError struct {
	Error   string     `json:"error"`
	Command string     `json:"command"`
	Session *game.View `json:"session,omitempty"`
}

func (g *GameHandler) wsRunLoop(ctx context.Context, conn *websocket.Conn, playerID int64) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			view, err := g.execute(ctx, playerID, line)
			if err == nil {
				err = conn.WriteJSON(view)
			} else {
				reply := wsError{Error: err.Error(), Command: strings.TrimSpace(line)}
				var storageErr *game.StorageError
				if errors.As(err, &storageErr) {
					reply.Error, reply.Session = "storage failure", &view
				} else if statusOf(err) == http.StatusInternalServerError {
					g.logger.Error("websocket command failed",
						slog.Int64("player_id", playerID), slog.Any("error", err))
					reply.Error = "internal error"
				}
				err = conn.WriteJSON(reply)
			}
			if err != nil {
				return fmt.Errorf("unable to write json: %w", err)
			}
		}
	}
}

func (g *GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		sendError(w, g.logger, err, nil)
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("unable to upgrade connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	g.logger.Debug("websocket connected", slog.Int64("player_id", id))
	err = g.wsRunLoop(r.Context(), conn, id)
	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		g.logger.Warn("websocket closed", slog.Int64("player_id", id), slog.Any("error", err))
		return
	}
	g.logger.Debug("websocket disconnected", slog.Int64("player_id", id))
}
