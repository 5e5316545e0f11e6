package config

import (
	"fmt"
	"os"
)

type SessionBackend string

const (
	BackendPostgres SessionBackend = "postgres"
	BackendSQLite   SessionBackend = "sqlite"
	BackendMemory   SessionBackend = "memory"
)

type Store struct {
	Sessions   SessionBackend
	SQLitePath string
	// Durable is set when profiles and scores live in Postgres.
	Durable bool
}

func NewStore() (*Store, error) {
	cfg := &Store{
		Durable:    HasDatabase(),
		SQLitePath: "roguesweeper.db",
	}
	if path, ok := os.LookupEnv("SQLITE_PATH"); ok {
		cfg.SQLitePath = path
	}

	backend, ok := os.LookupEnv("SESSION_STORE")
	switch {
	case !ok && cfg.Durable:
		cfg.Sessions = BackendPostgres
	case !ok:
		cfg.Sessions = BackendMemory
	default:
		cfg.Sessions = SessionBackend(backend)
	}

	switch cfg.Sessions {
	case BackendPostgres:
		if !cfg.Durable {
			return nil, fmt.Errorf("SESSION_STORE=postgres needs DATABASE_URL or POSTGRES_* set")
		}
	case BackendSQLite:
		// player ids from the in-memory store restart at 1, so saved runs
		// would be handed to whichever guest gets the id next
		if !cfg.Durable {
			return nil, fmt.Errorf("SESSION_STORE=sqlite needs DATABASE_URL or POSTGRES_* set")
		}
	case BackendMemory:
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", backend)
	}
	return cfg, nil
}
