package mines

import "math/rand/v2"

func (b *Board) ToggleFlag(row, col int) error {
	if !b.InBounds(row, col) {
		return ErrOutOfBounds
	}
	if b.GameOver {
		return nil
	}
	c := &b.Cells[b.index(row, col)]
	switch {
	case c.Revealed, c.Mark == FlaggedImmune:
		return ErrInvalidTarget
	case c.Mark == Flagged:
		c.Mark = None
	default:
		c.Mark = Flagged
	}
	return nil
}

// Chord reveals every unmarked hidden neighbour of a revealed number once the
// marks around it match the number. Any other situation leaves the board
// untouched without an error.
func (b *Board) Chord(row, col int) error {
	if !b.InBounds(row, col) {
		return ErrOutOfBounds
	}
	if b.GameOver {
		return nil
	}
	i := b.index(row, col)
	c := b.Cells[i]
	if !c.Revealed || c.Mine || c.Adjacent == 0 {
		return nil
	}

	marked := 0
	hidden := make([]int, 0, 8)
	for _, j := range b.neighbours(i) {
		n := b.Cells[j]
		switch {
		case n.Mark != None:
			marked++
		case !n.Revealed:
			hidden = append(hidden, j)
		}
	}
	if marked != int(c.Adjacent) {
		return nil
	}

	for _, j := range hidden {
		// an earlier neighbour's flood fill may already have opened it
		if b.Cells[j].Revealed {
			continue
		}
		b.open(j)
		if b.GameOver {
			break
		}
	}
	return nil
}

// Probe discloses a single cell on behalf of a clue: a mine becomes
// FlaggedImmune, a safe cell is revealed exactly as Reveal would. A removable
// flag on a safe cell is cleared first.
func (b *Board) Probe(row, col int, r *rand.Rand) error {
	if !b.InBounds(row, col) {
		return ErrOutOfBounds
	}
	i := b.index(row, col)
	if b.GameOver || b.Cells[i].Revealed || b.Cells[i].Mark == FlaggedImmune {
		return ErrInvalidTarget
	}
	if !b.MinesPlaced {
		if err := b.PlaceMines(row, col, r); err != nil {
			return err
		}
	}
	c := &b.Cells[i]
	if c.Mine {
		c.Mark = FlaggedImmune
		return nil
	}
	c.Mark = None
	b.open(i)
	return nil
}
