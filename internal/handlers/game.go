package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/vancomm/roguesweeper/internal/config"
	"github.com/vancomm/roguesweeper/internal/game"
)

type GameHandler struct {
	logger  *slog.Logger
	manager *game.Manager
	ws      *config.WebSocket
	dec     *schema.Decoder
}

func NewGameHandler(
	logger *slog.Logger,
	manager *game.Manager,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		logger:  logger,
		manager: manager,
		ws:      ws,
		dec:     newDecoder(),
	}
}

// serve decodes dto, resolves the player and runs op.
func serve[D any](g *GameHandler, op func(r *http.Request, playerID int64, dto D) (game.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := playerID(r)
		if err != nil {
			sendError(w, g.logger, err, nil)
			return
		}
		var dto D
		if err := decode(g.dec, r, &dto); err != nil {
			sendError(w, g.logger, err, nil)
			return
		}
		view, err := op(r, id, dto)
		sendView(w, g.logger, view, err)
	}
}

func (g *GameHandler) Start() http.HandlerFunc {
	return serve(g, func(r *http.Request, id int64, dto StartDTO) (game.View, error) {
		return g.manager.Start(r.Context(), id, dto.ForceNew)
	})
}

func (g *GameHandler) Session() http.HandlerFunc {
	return serve(g, func(r *http.Request, id int64, _ struct{}) (game.View, error) {
		return g.manager.Status(r.Context(), id)
	})
}

func (g *GameHandler) Action() http.HandlerFunc {
	return serve(g, func(r *http.Request, id int64, dto ActionDTO) (game.View, error) {
		kind, err := dto.Kind()
		if err != nil {
			return game.View{}, err
		}
		return g.manager.Action(r.Context(), id, dto.Row, dto.Col, kind)
	})
}

func (g *GameHandler) NextLevel() http.HandlerFunc {
	return serve(g, func(r *http.Request, id int64, dto NextLevelDTO) (game.View, error) {
		return g.manager.AdvanceLevel(r.Context(), id, dto.Confirm)
	})
}

func (g *GameHandler) UpdateTime() http.HandlerFunc {
	return serve(g, func(r *http.Request, id int64, dto UpdateTimeDTO) (game.View, error) {
		return g.manager.SyncTime(r.Context(), id, dto.TimeElapsed)
	})
}

func (g *GameHandler) Abandon() http.HandlerFunc {
	return serve(g, func(r *http.Request, id int64, _ struct{}) (game.View, error) {
		return g.manager.Abandon(r.Context(), id)
	})
}

func (g *GameHandler) SaveProgress() http.HandlerFunc {
	return serve(g, func(r *http.Request, id int64, _ struct{}) (game.View, error) {
		return g.manager.SaveProgress(r.Context(), id)
	})
}

func (g *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	var dto LeaderboardDTO
	if err := decode(g.dec, r, &dto); err != nil {
		sendError(w, g.logger, err, nil)
		return
	}
	scores, err := g.manager.Leaderboard(r.Context(), dto.Limit)
	if err != nil {
		sendError(w, g.logger, err, nil)
		return
	}
	if scores == nil {
		scores = []game.RankedScore{}
	}
	sendJSONOrLog(w, g.logger, scores)
}

func (g *GameHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		sendError(w, g.logger, err, nil)
		return
	}
	stats, err := g.manager.Stats(r.Context(), id)
	if err != nil {
		sendError(w, g.logger, err, nil)
		return
	}
	sendJSONOrLog(w, g.logger, stats)
}
