package game

import (
	"errors"
	"fmt"

	"github.com/vancomm/roguesweeper/internal/mines"
)

var (
	ErrSessionNotFound  = errors.New("no active session")
	ErrGameOver         = errors.New("game is over")
	ErrInvalidTarget    = mines.ErrInvalidTarget
	ErrOutOfBounds      = mines.ErrOutOfBounds
	ErrInvalidPlacement = mines.ErrInvalidPlacement
	ErrNoCluesRemaining = errors.New("no clues remaining")
	ErrNotWon           = errors.New("level is not cleared yet")
	ErrConfirmRequired  = errors.New("advancing to the next level must be confirmed")
	ErrInvalidInput     = errors.New("invalid input")

	ErrPlayerNotFound = errors.New("player not found")
	ErrUsernameTaken  = errors.New("username taken")
)

// StorageError reports a failed read or write against a store. Game state
// mutated before the failure stays applied.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
