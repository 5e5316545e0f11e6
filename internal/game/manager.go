package game

import (
	"context"
	"errors"
	"hash/maphash"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/roguesweeper/internal/audit"
	"github.com/vancomm/roguesweeper/internal/levels"
	"github.com/vancomm/roguesweeper/internal/metrics"
	"github.com/vancomm/roguesweeper/internal/mines"
	"github.com/vancomm/roguesweeper/internal/scoring"
)

type Kind string

const (
	Reveal Kind = "reveal"
	Flag   Kind = "flag"
	Chord  Kind = "chord"
	Clue   Kind = "clue"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Reveal, Flag, Chord, Clue:
		return k, nil
	}
	return "", ErrInvalidInput
}

const (
	defaultTimeSlack = 2 * time.Second
	defaultMaxCached = 10_000
)

type Options struct {
	Progression levels.Progression
	// TimeSlack is how far a reported time may run ahead of the wall clock
	// since the previous sync. Nil means the default; zero allows no slack.
	TimeSlack *time.Duration
	// MaxCached bounds the live runs kept in memory between requests.
	MaxCached int
	Now       func() time.Time
	NewRand   func() *rand.Rand
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// entry holds one player's run. Its mutex serialises every change to the
// run; readers share it.
type entry struct {
	mu      sync.RWMutex
	loaded  bool
	session *Session

	refs int // guarded by Manager.mu
}

type Manager struct {
	logger   *slog.Logger
	sessions SessionStore
	profiles Profiles
	scores   Scores
	opts     Options

	mu    sync.Mutex
	arena map[int64]*entry
}

func NewManager(
	logger *slog.Logger,
	sessions SessionStore,
	profiles Profiles,
	scores Scores,
	opts Options,
) *Manager {
	if opts.Progression == (levels.Progression{}) {
		opts.Progression = levels.Default
	}
	if opts.TimeSlack == nil {
		slack := defaultTimeSlack
		opts.TimeSlack = &slack
	}
	if opts.MaxCached <= 0 {
		opts.MaxCached = defaultMaxCached
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRand == nil {
		opts.NewRand = createRand
	}
	return &Manager{
		logger:   logger,
		sessions: sessions,
		profiles: profiles,
		scores:   scores,
		opts:     opts,
		arena:    make(map[int64]*entry),
	}
}

// acquire pins the player's entry until the matching release.
func (m *Manager) acquire(playerID int64) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.arena[playerID]
	if !ok {
		e = &entry{}
		m.arena[playerID] = e
	}
	e.refs++
	return e
}

func (e *entry) dirty() bool {
	return e.session != nil && e.session.dirty
}

// release unpins e. Entries without a live run are dropped once nobody holds
// them; live ones stay cached until the arena grows past MaxCached. A run
// whose last save failed is never dropped, the store does not have it.
// Unpinned entries are only read here, under m.mu.
func (m *Manager) release(playerID int64, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 && !e.dirty() && (e.session == nil || !e.session.Status.Live()) {
		delete(m.arena, playerID)
	}
	if len(m.arena) <= m.opts.MaxCached {
		return
	}
	for id, other := range m.arena {
		if other.refs == 0 && !other.dirty() {
			delete(m.arena, id)
		}
	}
}

// load fills e from the session store once. The caller holds e.mu for
// writing.
func (m *Manager) load(ctx context.Context, e *entry, playerID int64) error {
	if e.loaded {
		return nil
	}
	s, err := m.sessions.LoadSession(ctx, playerID)
	if errors.Is(err, ErrSessionNotFound) {
		s, err = nil, nil
	}
	if err != nil {
		return m.storageFailed("load session", err)
	}
	e.session, e.loaded = s, true
	return nil
}

// write runs fn with the player's run locked for writing.
func (m *Manager) write(ctx context.Context, playerID int64, fn func(e *entry) (View, error)) (View, error) {
	e := m.acquire(playerID)
	defer m.release(playerID, e)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := m.load(ctx, e, playerID); err != nil {
		return View{}, err
	}
	return fn(e)
}

// read runs fn with the player's run locked for reading, loading it first
// when needed.
func (m *Manager) read(ctx context.Context, playerID int64, fn func(s *Session) (View, error)) (View, error) {
	e := m.acquire(playerID)
	defer m.release(playerID, e)

	e.mu.RLock()
	if e.loaded {
		defer e.mu.RUnlock()
		return fn(e.session)
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := m.load(ctx, e, playerID); err != nil {
		return View{}, err
	}
	return fn(e.session)
}

func (m *Manager) storageFailed(op string, err error) error {
	if err == nil {
		return nil
	}
	metrics.StorageErrors.WithLabelValues(op).Inc()
	m.logger.Error("store operation failed", slog.String("op", op), slog.Any("error", err))
	return storageError(op, err)
}

// enterLevel puts a fresh board for level into s.
func (m *Manager) enterLevel(s *Session, level int) error {
	cfg := m.opts.Progression.Config(level)
	board, err := mines.NewBoard(cfg.Rows, cfg.Cols, cfg.Mines)
	if err != nil {
		m.logger.Error("level generator produced an unplayable board",
			slog.Any("config", cfg), slog.Any("error", err))
		return err
	}
	s.Level = cfg.Level
	s.Board = board
	s.CluesTotal = cfg.Clues
	s.CluesRemaining = cfg.Clues
	s.ElapsedSeconds = 0
	s.Status = Active
	s.SyncedAt = m.opts.Now()
	return nil
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	s.UpdatedAt = m.opts.Now()
	err := m.sessions.SaveSession(ctx, s)
	s.dirty = err != nil
	return m.storageFailed("save session", err)
}

// Start returns the player's live run, or begins a new one at level 1 when
// there is none or forceNew is set. A live run replaced by forceNew is
// dropped without a leaderboard entry.
func (m *Manager) Start(ctx context.Context, playerID int64, forceNew bool) (View, error) {
	return m.write(ctx, playerID, func(e *entry) (View, error) {
		if old := e.session; old != nil && old.Status.Live() {
			if !forceNew {
				return old.View(), nil
			}
			m.logger.Info("discarding live run",
				slog.Int64("player_id", playerID),
				slog.String("session_id", old.SessionID.String()),
				slog.Int("level", old.Level))
		}

		now := m.opts.Now()
		s := &Session{
			SessionID: uuid.New(),
			PlayerID:  playerID,
			StartedAt: now,
		}
		if err := m.enterLevel(s, 1); err != nil {
			return View{}, err
		}
		e.session = s
		metrics.RunsStarted.Inc()
		m.logger.Debug("run started",
			slog.Int64("player_id", playerID), slog.String("session_id", s.SessionID.String()))

		err := errors.Join(
			m.save(ctx, s),
			m.storageFailed("record run", m.profiles.RecordRunStarted(ctx, playerID)),
		)
		return s.View(), err
	})
}

// Status projects the player's run. A lost run stays visible until a new one
// starts; an abandoned one does not.
func (m *Manager) Status(ctx context.Context, playerID int64) (View, error) {
	return m.read(ctx, playerID, func(s *Session) (View, error) {
		if s == nil || s.Status == Abandoned {
			return View{}, ErrSessionNotFound
		}
		return s.View(), nil
	})
}

// playable reports why a board action may not apply to s, if it may not.
func playable(s *Session) error {
	if s == nil || s.Status == Abandoned {
		return ErrSessionNotFound
	}
	if s.Board.GameOver || s.Status != Active {
		return ErrGameOver
	}
	return nil
}

// Action applies a reveal, flag or chord to the player's board. Clues are
// routed to Clue.
func (m *Manager) Action(ctx context.Context, playerID int64, row, col int, kind Kind) (View, error) {
	if kind == Clue {
		return m.Clue(ctx, playerID, row, col)
	}
	return m.write(ctx, playerID, func(e *entry) (View, error) {
		s := e.session
		if err := playable(s); err != nil {
			return View{}, err
		}
		if !s.Board.InBounds(row, col) {
			return View{}, ErrOutOfBounds
		}

		var err error
		switch kind {
		case Reveal:
			// flags come off through an explicit toggle, never implicitly
			if s.Board.Cell(row, col).Mark == mines.Flagged {
				return View{}, ErrInvalidTarget
			}
			err = s.Board.Reveal(row, col, m.opts.NewRand())
		case Flag:
			err = s.Board.ToggleFlag(row, col)
		case Chord:
			err = s.Board.Chord(row, col)
		default:
			return View{}, ErrInvalidInput
		}
		if err != nil {
			var ae mines.AssertionError
			if errors.As(err, &ae) {
				m.logger.Error("board invariant violated",
					slog.Int64("player_id", playerID), slog.Any("error", err))
			}
			return View{}, err
		}

		metrics.Actions.WithLabelValues(string(kind)).Inc()
		return m.settle(ctx, s)
	})
}

// Clue spends one clue on the cell at row, col.
func (m *Manager) Clue(ctx context.Context, playerID int64, row, col int) (View, error) {
	return m.write(ctx, playerID, func(e *entry) (View, error) {
		s := e.session
		if err := playable(s); err != nil {
			return View{}, err
		}
		if !s.Board.InBounds(row, col) {
			return View{}, ErrOutOfBounds
		}
		if s.CluesRemaining == 0 {
			return View{}, ErrNoCluesRemaining
		}
		if err := s.Board.Probe(row, col, m.opts.NewRand()); err != nil {
			return View{}, err
		}
		s.CluesRemaining--

		metrics.Actions.WithLabelValues(string(Clue)).Inc()
		return m.settle(ctx, s)
	})
}

// settle books the outcome of a board change and persists the run.
func (m *Manager) settle(ctx context.Context, s *Session) (View, error) {
	var errs []error
	switch {
	case s.Board.Won:
		used := s.CluesUsed()
		points := scoring.ForLevel(scoring.Input{
			Rows:           s.Board.Rows,
			Cols:           s.Board.Cols,
			Mines:          s.Board.MineCount,
			ElapsedSeconds: s.ElapsedSeconds,
			CluesUsed:      used,
		})
		s.Score += points
		s.LastLevelScore = points
		s.Status = LevelComplete

		metrics.LevelsCleared.WithLabelValues(strconv.Itoa(s.Level)).Inc()
		audit.Log.WithFields(logrus.Fields{
			"player_id": s.PlayerID, "session_id": s.SessionID.String(),
			"level": s.Level, "points": points, "score": s.Score,
			"elapsed": s.ElapsedSeconds, "clues_used": used,
		}).Info("level cleared")

		errs = append(errs, m.storageFailed("record level",
			m.profiles.RecordLevelCleared(ctx, s.PlayerID)))
	case s.Board.Lost():
		s.Status = Lost
		errs = append(errs, m.finish(ctx, s, OutcomeLost))
	}
	errs = append(errs, m.save(ctx, s))
	return s.View(), errors.Join(errs...)
}

// finish writes the leaderboard entry for a run that just ended. It runs
// exactly once per run, under the run's lock.
func (m *Manager) finish(ctx context.Context, s *Session, outcome Outcome) error {
	name := "player " + strconv.FormatInt(s.PlayerID, 10)
	if p, err := m.profiles.FetchPlayer(ctx, s.PlayerID); err == nil {
		name = p.Username
	} else {
		m.logger.Warn("unable to fetch player name",
			slog.Int64("player_id", s.PlayerID), slog.Any("error", err))
	}

	entry := &Score{
		PlayerID:      s.PlayerID,
		PlayerName:    name,
		LevelReached:  s.Level,
		FinalScore:    s.Score,
		TimeTaken:     s.RunSeconds(),
		CellsRevealed: s.RunCells(),
		CluesUsed:     s.RunClues(),
		Outcome:       outcome,
		CompletedAt:   m.opts.Now(),
	}

	metrics.RunsEnded.WithLabelValues(string(outcome)).Inc()
	audit.Log.WithFields(logrus.Fields{
		"player_id": s.PlayerID, "session_id": s.SessionID.String(),
		"outcome": outcome, "level": s.Level, "score": s.Score,
		"time": entry.TimeTaken,
	}).Info("run ended")

	return errors.Join(
		m.storageFailed("append score", m.scores.AppendScore(ctx, entry)),
		m.storageFailed("save progress", m.profiles.SaveProgress(ctx, s.PlayerID, s.Level, s.Score)),
	)
}

// AdvanceLevel moves a cleared run on to the next level. Score carries over;
// the level timer and the clue grant start afresh.
func (m *Manager) AdvanceLevel(ctx context.Context, playerID int64, confirm bool) (View, error) {
	return m.write(ctx, playerID, func(e *entry) (View, error) {
		s := e.session
		if s == nil || !s.Status.Live() {
			return View{}, ErrSessionNotFound
		}
		if !confirm {
			return View{}, ErrConfirmRequired
		}
		if s.Status != LevelComplete || !s.Board.Won {
			return View{}, ErrNotWon
		}

		next := *s
		next.FinishedSeconds += s.ElapsedSeconds
		next.FinishedCells += s.Board.RevealedCount()
		next.FinishedClues += s.CluesUsed()
		if err := m.enterLevel(&next, s.Level+1); err != nil {
			return View{}, err
		}
		*s = next

		err := errors.Join(
			m.save(ctx, s),
			m.storageFailed("save progress", m.profiles.SaveProgress(ctx, playerID, s.Level, s.Score)),
		)
		return s.View(), err
	})
}

// Abandon ends a live run and records it on the leaderboard.
func (m *Manager) Abandon(ctx context.Context, playerID int64) (View, error) {
	return m.write(ctx, playerID, func(e *entry) (View, error) {
		s := e.session
		if s == nil || !s.Status.Live() {
			return View{}, ErrSessionNotFound
		}
		s.Status = Abandoned
		err := errors.Join(
			m.finish(ctx, s, OutcomeAbandoned),
			m.save(ctx, s),
		)
		return s.View(), err
	})
}

// SyncTime takes the client's level timer. The recorded time never goes
// down, and it may not run ahead of the wall clock since the last sync by
// more than the configured slack.
func (m *Manager) SyncTime(ctx context.Context, playerID int64, seconds int) (View, error) {
	if seconds < 0 {
		return View{}, ErrInvalidInput
	}
	return m.write(ctx, playerID, func(e *entry) (View, error) {
		s := e.session
		if err := playable(s); err != nil {
			return View{}, err
		}

		now := m.opts.Now()
		since := max(now.Sub(s.SyncedAt), 0) + *m.opts.TimeSlack
		limit := s.ElapsedSeconds + int(math.Ceil(since.Seconds()))
		if seconds > limit {
			m.logger.Debug("clamping reported time",
				slog.Int64("player_id", playerID),
				slog.Int("reported", seconds), slog.Int("limit", limit))
			seconds = limit
		}
		if seconds > s.ElapsedSeconds {
			s.ElapsedSeconds = seconds
		}
		s.SyncedAt = now

		return s.View(), m.save(ctx, s)
	})
}

// SaveProgress copies the run's level and score to the player's profile
// without ending the run.
func (m *Manager) SaveProgress(ctx context.Context, playerID int64) (View, error) {
	return m.read(ctx, playerID, func(s *Session) (View, error) {
		if s == nil || !s.Status.Live() {
			return View{}, ErrSessionNotFound
		}
		err := m.profiles.SaveProgress(ctx, playerID, s.Level, s.Score)
		return s.View(), m.storageFailed("save progress", err)
	})
}

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// Leaderboard lists the best runs. A non-positive limit means the default;
// anything above the maximum is cut down to it.
func (m *Manager) Leaderboard(ctx context.Context, limit int) ([]RankedScore, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	limit = min(limit, MaxLeaderboardLimit)
	scores, err := m.scores.TopScores(ctx, limit)
	if err != nil {
		return nil, m.storageFailed("top scores", err)
	}
	return scores, nil
}

const recentRuns = 5

func (m *Manager) Stats(ctx context.Context, playerID int64) (*Stats, error) {
	player, err := m.profiles.FetchPlayer(ctx, playerID)
	if errors.Is(err, ErrPlayerNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, m.storageFailed("fetch player", err)
	}
	best, err := m.scores.BestScore(ctx, playerID)
	if err != nil {
		return nil, m.storageFailed("best score", err)
	}
	var rank int
	if best != nil {
		if rank, err = m.scores.ScoreRank(ctx, best); err != nil {
			return nil, m.storageFailed("score rank", err)
		}
	}
	recent, err := m.scores.RecentScores(ctx, playerID, recentRuns)
	if err != nil {
		return nil, m.storageFailed("recent scores", err)
	}
	if recent == nil {
		recent = []Score{}
	}
	return &Stats{
		Player:       player,
		BestScore:    best,
		BestRank:     rank,
		RecentScores: recent,
	}, nil
}
