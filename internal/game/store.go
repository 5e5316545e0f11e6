package game

import (
	"cmp"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Player struct {
	PlayerID      int64     `db:"player_id" json:"player_id"`
	Username      string    `db:"username" json:"username"`
	PasswordHash  []byte    `db:"password_hash" json:"-"`
	IsGuest       bool      `db:"is_guest" json:"is_guest"`
	HighScore     int       `db:"high_score" json:"high_score"`
	GamesPlayed   int       `db:"games_played" json:"total_games_played"`
	LevelsCleared int       `db:"levels_cleared" json:"total_games_won"`
	CurrentLevel  int       `db:"current_level" json:"current_level"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Outcome string

const (
	OutcomeLost      Outcome = "lost"
	OutcomeAbandoned Outcome = "abandoned"
)

// Score is one leaderboard entry. Entries are only ever appended.
type Score struct {
	ScoreID       int64     `db:"score_id" json:"score_id"`
	PlayerID      int64     `db:"player_id" json:"player_id"`
	PlayerName    string    `db:"player_name" json:"player_name"`
	LevelReached  int       `db:"level_reached" json:"level_reached"`
	FinalScore    int       `db:"final_score" json:"final_score"`
	TimeTaken     int       `db:"time_taken" json:"time_taken"`
	CellsRevealed int       `db:"cells_revealed" json:"cells_revealed"`
	CluesUsed     int       `db:"clues_used" json:"clues_used"`
	Outcome       Outcome   `db:"outcome" json:"outcome"`
	CompletedAt   time.Time `db:"completed_at" json:"completed_at"`
}

type RankedScore struct {
	Rank int `db:"rank" json:"rank"`
	Score
}

// CompareScores orders entries best first: higher score, then deeper level,
// then faster run, then earlier completion.
func CompareScores(a, b *Score) int {
	if c := cmp.Compare(b.FinalScore, a.FinalScore); c != 0 {
		return c
	}
	if c := cmp.Compare(b.LevelReached, a.LevelReached); c != 0 {
		return c
	}
	if c := cmp.Compare(a.TimeTaken, b.TimeTaken); c != 0 {
		return c
	}
	if c := a.CompletedAt.Compare(b.CompletedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ScoreID, b.ScoreID)
}

type Stats struct {
	Player       *Player `json:"player"`
	BestScore    *Score  `json:"best_score"`
	BestRank     int     `json:"best_rank"`
	RecentScores []Score `json:"recent_scores"`
}

// SessionStore keeps the current run of every player, keyed by player.
// LoadSession returns ErrSessionNotFound when the player has none.
type SessionStore interface {
	LoadSession(ctx context.Context, playerID int64) (*Session, error)
	SaveSession(ctx context.Context, s *Session) error
}

// Profiles is the durable player profile.
type Profiles interface {
	FetchPlayer(ctx context.Context, playerID int64) (*Player, error)
	RecordRunStarted(ctx context.Context, playerID int64) error
	RecordLevelCleared(ctx context.Context, playerID int64) error
	// SaveProgress stores level as the current level and raises the high
	// score to score when it is higher.
	SaveProgress(ctx context.Context, playerID int64, level, score int) error
}

// Scores is the append-only leaderboard log. Rank is computed on read.
type Scores interface {
	AppendScore(ctx context.Context, s *Score) error
	TopScores(ctx context.Context, limit int) ([]RankedScore, error)
	// BestScore returns nil without an error when the player has no entries.
	BestScore(ctx context.Context, playerID int64) (*Score, error)
	RecentScores(ctx context.Context, playerID int64, limit int) ([]Score, error)
	// ScoreRank is the 1-based leaderboard position of s, 0 if s is unknown.
	ScoreRank(ctx context.Context, s *Score) (int, error)
}

// Accounts creates and looks up players for the identity layer.
type Accounts interface {
	CreateGuest(ctx context.Context) (*Player, error)
	// RegisterPlayer turns the guest guestID into a registered player, or
	// creates a new one when guestID is 0.
	RegisterPlayer(ctx context.Context, guestID int64, username string, passwordHash []byte) (*Player, error)
	FetchPlayerByUsername(ctx context.Context, username string) (*Player, error)
}

func GuestName() string {
	return "Guest-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
