package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/roguesweeper/internal/game"
)

const scoreColumns = `score_id, player_id, player_name, level_reached, final_score,
	time_taken, cells_revealed, clues_used, outcome, completed_at`

// scoreOrder must agree with game.CompareScores
const scoreOrder = `final_score DESC, level_reached DESC, time_taken ASC,
	completed_at ASC, score_id ASC`

func (q *Queries) AppendScore(ctx context.Context, s *game.Score) error {
	return q.db.QueryRow(ctx,
		`INSERT INTO score (
			player_id, player_name, level_reached, final_score,
			time_taken, cells_revealed, clues_used, outcome, completed_at
		)
		VALUES (
			@player_id, @player_name, @level_reached, @final_score,
			@time_taken, @cells_revealed, @clues_used, @outcome, @completed_at
		)
		RETURNING score_id`,
		pgx.NamedArgs{
			"player_id":      s.PlayerID,
			"player_name":    s.PlayerName,
			"level_reached":  s.LevelReached,
			"final_score":    s.FinalScore,
			"time_taken":     s.TimeTaken,
			"cells_revealed": s.CellsRevealed,
			"clues_used":     s.CluesUsed,
			"outcome":        string(s.Outcome),
			"completed_at":   s.CompletedAt,
		},
	).Scan(&s.ScoreID)
}

func (q *Queries) TopScores(ctx context.Context, limit int) ([]game.RankedScore, error) {
	rows, err := q.db.Query(ctx,
		`SELECT row_number() OVER (ORDER BY `+scoreOrder+`) AS rank, `+scoreColumns+`
		FROM score
		ORDER BY `+scoreOrder+`
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[game.RankedScore])
}

func (q *Queries) BestScore(ctx context.Context, playerID int64) (*game.Score, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+scoreColumns+` FROM score
		WHERE player_id = $1
		ORDER BY `+scoreOrder+`
		LIMIT 1`,
		playerID,
	)
	if err != nil {
		return nil, err
	}
	s, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[game.Score])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (q *Queries) RecentScores(ctx context.Context, playerID int64, limit int) ([]game.Score, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+scoreColumns+` FROM score
		WHERE player_id = $1
		ORDER BY completed_at DESC, score_id DESC
		LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[game.Score])
}

// ScoreRank counts the entries ordered before s.
func (q *Queries) ScoreRank(ctx context.Context, s *game.Score) (int, error) {
	var rank int
	err := q.db.QueryRow(ctx,
		`SELECT count(*) + 1 FROM score
		WHERE (-final_score, -level_reached, time_taken, completed_at, score_id)
			< (-@final_score::int, -@level_reached::int, @time_taken::int, @completed_at::timestamptz, @score_id::bigint)`,
		pgx.NamedArgs{
			"final_score":   s.FinalScore,
			"level_reached": s.LevelReached,
			"time_taken":    s.TimeTaken,
			"completed_at":  s.CompletedAt,
			"score_id":      s.ScoreID,
		},
	).Scan(&rank)
	return rank, err
}
