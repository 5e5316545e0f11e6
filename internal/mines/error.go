package mines

import "errors"

// AssertionError marks a broken engine invariant. It is never caused by
// player input.
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}

var (
	ErrInvalidPlacement = AssertionError{"not enough room to keep the first move safe"}
	ErrInvalidSize      = errors.New("board dimensions must be positive")
	ErrOutOfBounds      = errors.New("cell is out of bounds")
	ErrInvalidTarget    = errors.New("cell cannot accept this action")
)
