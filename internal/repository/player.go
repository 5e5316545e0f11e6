package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/roguesweeper/internal/game"
)

const playerColumns = `player_id, username, password_hash, is_guest, high_score,
	games_played, levels_cleared, current_level, created_at, updated_at`

func collectPlayer(rows pgx.Rows, err error) (*game.Player, error) {
	if err != nil {
		return nil, err
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[game.Player])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrPlayerNotFound
	}
	return p, err
}

func usernameTaken(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return game.ErrUsernameTaken
	}
	return err
}

const guestNameAttempts = 3

func (q *Queries) CreateGuest(ctx context.Context) (p *game.Player, err error) {
	for range guestNameAttempts {
		p, err = collectPlayer(q.db.Query(ctx,
			`INSERT INTO player (username, is_guest)
			VALUES (@username, true)
			RETURNING `+playerColumns,
			pgx.NamedArgs{"username": game.GuestName()},
		))
		if err = usernameTaken(err); !errors.Is(err, game.ErrUsernameTaken) {
			break
		}
	}
	return p, err
}

func (q *Queries) RegisterPlayer(
	ctx context.Context, guestID int64, username string, passwordHash []byte,
) (*game.Player, error) {
	args := pgx.NamedArgs{
		"player_id":     guestID,
		"username":      username,
		"password_hash": passwordHash,
	}
	p, err := collectPlayer(q.db.Query(ctx,
		`UPDATE player
		SET username = @username, password_hash = @password_hash,
			is_guest = false, updated_at = now()
		WHERE player_id = @player_id AND is_guest
		RETURNING `+playerColumns,
		args,
	))
	if errors.Is(err, game.ErrPlayerNotFound) {
		p, err = collectPlayer(q.db.Query(ctx,
			`INSERT INTO player (username, password_hash, is_guest)
			VALUES (@username, @password_hash, false)
			RETURNING `+playerColumns,
			args,
		))
	}
	return p, usernameTaken(err)
}

func (q *Queries) FetchPlayer(ctx context.Context, playerID int64) (*game.Player, error) {
	return collectPlayer(q.db.Query(ctx,
		`SELECT `+playerColumns+` FROM player WHERE player_id = $1`, playerID,
	))
}

func (q *Queries) FetchPlayerByUsername(ctx context.Context, username string) (*game.Player, error) {
	return collectPlayer(q.db.Query(ctx,
		`SELECT `+playerColumns+` FROM player WHERE username = $1`, username,
	))
}

func (q *Queries) updatePlayer(ctx context.Context, set string, args pgx.NamedArgs) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE player SET `+set+`, updated_at = now() WHERE player_id = @player_id`,
		args,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return game.ErrPlayerNotFound
	}
	return nil
}

func (q *Queries) RecordRunStarted(ctx context.Context, playerID int64) error {
	return q.updatePlayer(ctx,
		"games_played = games_played + 1, current_level = 1",
		pgx.NamedArgs{"player_id": playerID},
	)
}

func (q *Queries) RecordLevelCleared(ctx context.Context, playerID int64) error {
	return q.updatePlayer(ctx,
		"levels_cleared = levels_cleared + 1",
		pgx.NamedArgs{"player_id": playerID},
	)
}

func (q *Queries) SaveProgress(ctx context.Context, playerID int64, level, score int) error {
	return q.updatePlayer(ctx,
		"current_level = @level, high_score = GREATEST(high_score, @score)",
		pgx.NamedArgs{"player_id": playerID, "level": level, "score": score},
	)
}
