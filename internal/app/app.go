package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/roguesweeper/internal/config"
	"github.com/vancomm/roguesweeper/internal/game"
	"github.com/vancomm/roguesweeper/internal/middleware"
)

type Stores struct {
	Sessions game.SessionStore
	Profiles game.Profiles
	Scores   game.Scores
	Accounts game.Accounts
}

type Deps struct {
	Stores    Stores
	Cookies   *config.Cookies
	WebSocket *config.WebSocket
	Game      *config.Game
	// Redis may be nil, which turns rate limiting off.
	Redis     *redis.Client
	RateLimit config.RateLimit
	BasePath  string
}

type App struct {
	logger  *slog.Logger
	router  *http.ServeMux
	deps    Deps
	manager *game.Manager
}

func New(logger *slog.Logger, deps Deps) *App {
	opts := game.Options{}
	if deps.Game != nil {
		opts.Progression = deps.Game.Progression
		slack := deps.Game.TimeSlack
		opts.TimeSlack = &slack
	}
	a := &App{
		logger: logger,
		router: http.NewServeMux(),
		deps:   deps,
		manager: game.NewManager(
			logger.With(slog.String("component", "game")),
			deps.Stores.Sessions,
			deps.Stores.Profiles,
			deps.Stores.Scores,
			opts,
		),
	}
	a.loadRoutes()
	return a
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.logger),
		middleware.Cors(),
	)
}

const shutdownTimeout = 30 * time.Second

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (a *App) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	})
	return g.Wait()
}
