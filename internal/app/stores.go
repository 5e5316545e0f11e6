package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vancomm/roguesweeper/internal/config"
	"github.com/vancomm/roguesweeper/internal/database"
	"github.com/vancomm/roguesweeper/internal/kvstore"
	"github.com/vancomm/roguesweeper/internal/memstore"
	"github.com/vancomm/roguesweeper/internal/middleware"
	"github.com/vancomm/roguesweeper/internal/repository"
)

// openStores wires the backends chosen by cfg. The returned func releases
// every connection opened.
func openStores(ctx context.Context, logger *slog.Logger, cfg *config.Store) (Stores, func(), error) {
	var (
		stores  Stores
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Durable {
		db, err := database.ConnectAndMigrate(ctx)
		if err != nil {
			return stores, nil, fmt.Errorf("unable to connect to db: %w", err)
		}
		closers = append(closers, db.Close)
		repo := repository.New(db)
		stores = Stores{Sessions: repo, Profiles: repo, Scores: repo, Accounts: repo}
		logger.Info("using postgres for players and scores")
	} else {
		mem := memstore.New()
		stores = Stores{Sessions: mem, Profiles: mem, Scores: mem, Accounts: mem}
		logger.Warn("no database configured, players and scores are kept in memory")
	}

	switch cfg.Sessions {
	case config.BackendSQLite:
		db, err := sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			closeAll()
			return stores, nil, fmt.Errorf("unable to open sqlite db: %w", err)
		}
		closers = append(closers, func() { db.Close() })
		kv, err := kvstore.New(ctx, db, "game_session")
		if err != nil {
			closeAll()
			return stores, nil, fmt.Errorf("unable to create session table: %w", err)
		}
		sessions := kvstore.Sessions{Store: kv}
		if n, err := sessions.Purge(ctx); err != nil {
			logger.Warn("unable to purge finished runs", slog.Any("error", err))
		} else if n > 0 {
			logger.Info("purged finished runs", slog.Int("count", n))
		}
		stores.Sessions = sessions
		logger.Info("using sqlite for sessions", slog.String("path", cfg.SQLitePath))
	case config.BackendMemory:
		if _, ok := stores.Sessions.(*memstore.Store); !ok {
			stores.Sessions = memstore.New()
		}
	}
	return stores, closeAll, nil
}

// Load reads the whole configuration from the environment and opens every
// backend it names.
func Load(ctx context.Context, logger *slog.Logger) (Deps, func(), error) {
	var deps Deps

	jwt, err := config.NewJWT()
	if err != nil {
		return deps, nil, err
	}
	if deps.Cookies, err = config.NewCookies(jwt); err != nil {
		return deps, nil, err
	}
	if deps.WebSocket, err = config.NewWebSocket(); err != nil {
		return deps, nil, err
	}
	if deps.Game, err = config.NewGame(); err != nil {
		return deps, nil, err
	}
	rl, err := config.NewRateLimit()
	if err != nil {
		return deps, nil, err
	}
	deps.RateLimit = *rl
	redisOpts, err := config.NewRedisOptions()
	if err != nil {
		return deps, nil, err
	}
	storeCfg, err := config.NewStore()
	if err != nil {
		return deps, nil, err
	}
	deps.BasePath = config.BasePath()

	stores, closeStores, err := openStores(ctx, logger, storeCfg)
	if err != nil {
		return deps, nil, err
	}
	deps.Stores = stores

	deps.Redis = middleware.NewRedisClient(ctx, logger, redisOpts)
	cleanup := func() {
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				logger.Warn("unable to close redis client", slog.Any("error", err))
			}
		}
		closeStores()
	}
	return deps, cleanup, nil
}
