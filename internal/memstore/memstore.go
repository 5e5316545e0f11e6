// Package memstore keeps players, runs and the leaderboard in process
// memory. Nothing survives a restart.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/vancomm/roguesweeper/internal/game"
	"github.com/vancomm/roguesweeper/internal/tree234"
)

type Store struct {
	mu sync.RWMutex

	now func() time.Time

	players    map[int64]*game.Player
	byUsername map[string]int64
	nextPlayer int64

	sessions map[int64][]byte

	board     *tree234.Tree[game.Score]
	byPlayer  map[int64][]*game.Score
	nextScore int64
}

func New() *Store {
	return &Store{
		now:        time.Now,
		players:    make(map[int64]*game.Player),
		byUsername: make(map[string]int64),
		sessions:   make(map[int64][]byte),
		board:      tree234.New(game.CompareScores),
		byPlayer:   make(map[int64][]*game.Score),
	}
}

// sessions are kept encoded so callers never share a board with the store

func (s *Store) LoadSession(_ context.Context, playerID int64) (*game.Session, error) {
	s.mu.RLock()
	buf, ok := s.sessions[playerID]
	s.mu.RUnlock()
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	return game.DecodeSession(buf)
}

func (s *Store) SaveSession(_ context.Context, session *game.Session) error {
	buf, err := session.Bytes()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.PlayerID] = buf
	return nil
}

func (s *Store) addPlayer(username string, hash []byte, guest bool) *game.Player {
	s.nextPlayer++
	now := s.now()
	p := &game.Player{
		PlayerID:     s.nextPlayer,
		Username:     username,
		PasswordHash: hash,
		IsGuest:      guest,
		CurrentLevel: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.players[p.PlayerID] = p
	s.byUsername[username] = p.PlayerID
	return p
}

func (s *Store) CreateGuest(_ context.Context) (*game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := game.GuestName()
	for _, taken := s.byUsername[name]; taken; _, taken = s.byUsername[name] {
		name = game.GuestName()
	}
	p := *s.addPlayer(name, nil, true)
	return &p, nil
}

func (s *Store) RegisterPlayer(_ context.Context, guestID int64, username string, passwordHash []byte) (*game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[username]; taken {
		return nil, game.ErrUsernameTaken
	}
	guest, ok := s.players[guestID]
	if !ok || !guest.IsGuest {
		p := *s.addPlayer(username, passwordHash, false)
		return &p, nil
	}
	delete(s.byUsername, guest.Username)
	guest.Username = username
	guest.PasswordHash = passwordHash
	guest.IsGuest = false
	guest.UpdatedAt = s.now()
	s.byUsername[username] = guest.PlayerID
	p := *guest
	return &p, nil
}

func (s *Store) FetchPlayer(_ context.Context, playerID int64) (*game.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[playerID]
	if !ok {
		return nil, game.ErrPlayerNotFound
	}
	res := *p
	return &res, nil
}

func (s *Store) FetchPlayerByUsername(ctx context.Context, username string) (*game.Player, error) {
	s.mu.RLock()
	id, ok := s.byUsername[username]
	s.mu.RUnlock()
	if !ok {
		return nil, game.ErrPlayerNotFound
	}
	return s.FetchPlayer(ctx, id)
}

func (s *Store) update(playerID int64, fn func(p *game.Player)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[playerID]
	if !ok {
		return game.ErrPlayerNotFound
	}
	fn(p)
	p.UpdatedAt = s.now()
	return nil
}

func (s *Store) RecordRunStarted(_ context.Context, playerID int64) error {
	return s.update(playerID, func(p *game.Player) {
		p.GamesPlayed++
		p.CurrentLevel = 1
	})
}

func (s *Store) RecordLevelCleared(_ context.Context, playerID int64) error {
	return s.update(playerID, func(p *game.Player) {
		p.LevelsCleared++
	})
}

func (s *Store) SaveProgress(_ context.Context, playerID int64, level, score int) error {
	return s.update(playerID, func(p *game.Player) {
		p.CurrentLevel = level
		p.HighScore = max(p.HighScore, score)
	})
}

func (s *Store) AppendScore(_ context.Context, score *game.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextScore++
	e := *score
	e.ScoreID = s.nextScore
	score.ScoreID = e.ScoreID
	s.board.Add(&e)
	s.byPlayer[e.PlayerID] = append(s.byPlayer[e.PlayerID], &e)
	return nil
}

func (s *Store) TopScores(_ context.Context, limit int) ([]game.RankedScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	top := s.board.Slice(0, limit)
	res := make([]game.RankedScore, len(top))
	for i, e := range top {
		res[i] = game.RankedScore{Rank: i + 1, Score: *e}
	}
	return res, nil
}

func (s *Store) ScoreRank(_ context.Context, score *game.Score) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, i := s.board.Find(score, tree234.Eq); i >= 0 {
		return i + 1, nil
	}
	return 0, nil
}

func (s *Store) BestScore(_ context.Context, playerID int64) (*game.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.byPlayer[playerID]
	if len(entries) == 0 {
		return nil, nil
	}
	best := *slices.MinFunc(entries, game.CompareScores)
	return &best, nil
}

func (s *Store) RecentScores(_ context.Context, playerID int64, limit int) ([]game.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.byPlayer[playerID]
	res := make([]game.Score, 0, min(limit, len(entries)))
	for i := len(entries) - 1; i >= 0 && len(res) < limit; i-- {
		res = append(res, *entries[i])
	}
	return res, nil
}
