// Package kvstore is a gob-encoded key-value table on top of database/sql,
// used to keep runs on a single node without Postgres.
package kvstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"strconv"
	"sync"

	"github.com/vancomm/roguesweeper/internal/game"
)

type Store struct {
	mu   sync.Mutex
	name string
	db   *sql.DB
}

var (
	ErrBadName  = errors.New("bad name for store")
	ErrNotFound = errors.New("value not found")
)

func isLetters(s string) bool {
	for _, c := range s {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_') {
			return false
		}
	}
	return s != ""
}

// New creates the table name in db if it is missing. name is spliced into
// the queries, so only Latin letters and underscores are accepted.
func New(ctx context.Context, db *sql.DB, name string) (*Store, error) {
	if !isLetters(name) {
		return nil, ErrBadName
	}
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+name+` (
	key		TEXT PRIMARY KEY,
	value	BLOB
);`)
	if err != nil {
		return nil, err
	}
	return &Store{name: name, db: db}, nil
}

// Get decodes the value under key into value, which must be a pointer or
// nil. A missing key yields ErrNotFound.
func (s *Store) Get(ctx context.Context, key string, value any) error {
	var v []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM `+s.name+` WHERE key = ?;`, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil || value == nil {
		return err
	}
	return gob.NewDecoder(bytes.NewReader(v)).Decode(value)
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO `+s.name+` (key, value)
VALUES (?, ?)
ON CONFLICT(key)
DO UPDATE SET value = excluded.value;`,
		key, buf.Bytes())
	return err
}

// Delete removes key without checking that it existed.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM `+s.name+` WHERE key = ?;`, key)
	return err
}

func (s *Store) Count(ctx context.Context) (count int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT count(*) FROM `+s.name+`;`).Scan(&count)
	return
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM `+s.name+`;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Sessions keeps one run per player in a Store.
type Sessions struct {
	Store *Store
}

func sessionKey(playerID int64) string {
	return strconv.FormatInt(playerID, 10)
}

func (s Sessions) LoadSession(ctx context.Context, playerID int64) (*game.Session, error) {
	var session game.Session
	err := s.Store.Get(ctx, sessionKey(playerID), &session)
	if errors.Is(err, ErrNotFound) {
		return nil, game.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s Sessions) SaveSession(ctx context.Context, session *game.Session) error {
	return s.Store.Set(ctx, sessionKey(session.PlayerID), session)
}

// Purge drops runs that can no longer continue and reports how many were
// removed.
func (s Sessions) Purge(ctx context.Context) (int, error) {
	keys, err := s.Store.Keys(ctx)
	if err != nil {
		return 0, err
	}
	var purged int
	for _, key := range keys {
		var session game.Session
		if err := s.Store.Get(ctx, key, &session); err != nil {
			return purged, err
		}
		if session.Status != game.Abandoned {
			continue
		}
		if err := s.Store.Delete(ctx, key); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
