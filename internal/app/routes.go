package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/roguesweeper/internal/handlers"
	"github.com/vancomm/roguesweeper/internal/middleware"
)

func (a *App) loadRoutes() {
	var (
		base    = a.deps.BasePath
		cookies = a.deps.Cookies
		game    = handlers.NewGameHandler(a.logger, a.manager, a.deps.WebSocket)
		auth    = handlers.NewAuth(a.logger, a.deps.Stores.Accounts, cookies)

		identify = middleware.Auth(a.logger, cookies)
		guest    = middleware.Guest(a.logger, cookies, a.deps.Stores.Accounts)
		limit    = middleware.RateLimit(a.logger, a.deps.Redis, a.deps.RateLimit)
	)

	read := func(h http.HandlerFunc) http.Handler {
		return middleware.Wrap(h, guest, identify)
	}
	write := func(h http.HandlerFunc) http.Handler {
		return middleware.Wrap(h, limit, guest, identify)
	}

	a.router.Handle("POST "+base+"/api/game/start", write(game.Start()))
	a.router.Handle("GET "+base+"/api/game/session", read(game.Session()))
	a.router.Handle("POST "+base+"/api/game/action", write(game.Action()))
	a.router.Handle("POST "+base+"/api/game/next-level", write(game.NextLevel()))
	a.router.Handle("POST "+base+"/api/game/update-time", write(game.UpdateTime()))
	a.router.Handle("POST "+base+"/api/game/abandon", write(game.Abandon()))
	a.router.Handle("POST "+base+"/api/game/save-progress", write(game.SaveProgress()))
	a.router.Handle("GET "+base+"/api/game/connect", read(game.Connect))
	a.router.Handle("GET "+base+"/api/stats", read(game.Stats))
	a.router.HandleFunc("GET "+base+"/api/leaderboard", game.Leaderboard)

	a.router.Handle("POST "+base+"/register", middleware.Wrap(http.HandlerFunc(auth.Register), limit, identify))
	a.router.Handle("POST "+base+"/login", middleware.Wrap(http.HandlerFunc(auth.Login), limit, identify))
	a.router.HandleFunc("POST "+base+"/logout", auth.Logout)
	a.router.Handle("GET "+base+"/status", middleware.Wrap(http.HandlerFunc(auth.Status), identify))

	a.router.Handle("GET /metrics", promhttp.Handler())
	a.router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.SendJSON(w, map[string]string{"status": "ok"})
	})
}
