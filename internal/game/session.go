package game

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/google/uuid"
	"github.com/vancomm/roguesweeper/internal/mines"
)

type Status string

const (
	Active        Status = "active"
	LevelComplete Status = "level_complete"
	Lost          Status = "lost"
	Abandoned     Status = "abandoned"
)

// Live reports whether the run can still continue.
func (s Status) Live() bool {
	return s == Active || s == LevelComplete
}

// Session is one run: a sequence of levels owned by a single player.
type Session struct {
	SessionID      uuid.UUID
	PlayerID       int64
	Status         Status
	Level          int
	Score          int
	LastLevelScore int
	CluesRemaining int
	CluesTotal     int
	ElapsedSeconds int

	// totals of the levels already left behind
	FinishedSeconds int
	FinishedCells   int
	FinishedClues   int

	Board     *mines.Board
	StartedAt time.Time
	UpdatedAt time.Time
	SyncedAt  time.Time

	// set while the last save of this run failed
	dirty bool
}

func DecodeSession(buf []byte) (*Session, error) {
	var s Session
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s Session) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Session) CluesUsed() int {
	return s.CluesTotal - s.CluesRemaining
}

// RunSeconds is the time spent over the whole run so far.
func (s *Session) RunSeconds() int {
	return s.FinishedSeconds + s.ElapsedSeconds
}

func (s *Session) RunCells() int {
	n := s.Board.RevealedCount()
	if s.Board.Lost() {
		n-- // the mine that ended the run
	}
	return s.FinishedCells + n
}

func (s *Session) RunClues() int {
	return s.FinishedClues + s.CluesUsed()
}

type View struct {
	SessionID      string          `json:"session_id"`
	Status         Status          `json:"status"`
	Level          int             `json:"level_number"`
	Score          int             `json:"score"`
	LastLevelScore int             `json:"last_level_score"`
	CluesRemaining int             `json:"clues_remaining"`
	CluesTotal     int             `json:"clues_total"`
	TimeElapsed    int             `json:"time_elapsed"`
	RunTime        int             `json:"run_time"`
	Board          mines.BoardView `json:"board"`
}

func (s *Session) View() View {
	return View{
		SessionID:      s.SessionID.String(),
		Status:         s.Status,
		Level:          s.Level,
		Score:          s.Score,
		LastLevelScore: s.LastLevelScore,
		CluesRemaining: s.CluesRemaining,
		CluesTotal:     s.CluesTotal,
		TimeElapsed:    s.ElapsedSeconds,
		RunTime:        s.RunSeconds(),
		Board:          s.Board.View(),
	}
}
