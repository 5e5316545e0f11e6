package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/roguesweeper/internal/game"
)

func (q *Queries) LoadSession(ctx context.Context, playerID int64) (*game.Session, error) {
	var state []byte
	err := q.db.QueryRow(ctx,
		`SELECT state FROM game_session WHERE player_id = $1`, playerID,
	).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return game.DecodeSession(state)
}

// SaveSession keeps the full run state as gob alongside the columns needed
// to inspect runs from SQL.
func (q *Queries) SaveSession(ctx context.Context, s *game.Session) error {
	state, err := s.Bytes()
	if err != nil {
		return err
	}
	_, err = q.db.Exec(ctx,
		`INSERT INTO game_session (
			player_id, session_id, status, level, score, state, started_at, updated_at
		)
		VALUES (
			@player_id, @session_id, @status, @level, @score, @state, @started_at, @updated_at
		)
		ON CONFLICT (player_id) DO UPDATE SET
			session_id = excluded.session_id,
			status = excluded.status,
			level = excluded.level,
			score = excluded.score,
			state = excluded.state,
			started_at = excluded.started_at,
			updated_at = excluded.updated_at`,
		pgx.NamedArgs{
			"player_id":  s.PlayerID,
			"session_id": s.SessionID,
			"status":     string(s.Status),
			"level":      s.Level,
			"score":      s.Score,
			"state":      state,
			"started_at": s.StartedAt,
			"updated_at": s.UpdatedAt,
		},
	)
	return err
}
