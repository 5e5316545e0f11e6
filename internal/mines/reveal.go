package mines

import "math/rand/v2"

// Reveal opens the cell at row, col. The first reveal on a fresh board
// places the mines around it. Revealed and marked cells are left alone, as
// is everything once the game is over.
func (b *Board) Reveal(row, col int, r *rand.Rand) error {
	if !b.InBounds(row, col) {
		return ErrOutOfBounds
	}
	if b.GameOver {
		return nil
	}
	i := b.index(row, col)
	if b.Cells[i].Revealed || b.Cells[i].Mark != None {
		return nil
	}
	if !b.MinesPlaced {
		if err := b.PlaceMines(row, col, r); err != nil {
			return err
		}
	}
	b.open(i)
	return nil
}

// open reveals cell i, which must be hidden and unmarked, and evaluates the
// outcome.
func (b *Board) open(i int) {
	if b.Cells[i].Mine {
		b.Cells[i].Revealed = true
		b.GameOver = true
		b.Won = false
		return
	}
	b.floodFill(i)
	b.checkWin()
}

// floodFill reveals start and, through zero-count cells, the whole connected
// zero region plus its numbered border. Marked cells are never entered.
func (b *Board) floodFill(start int) {
	b.Cells[start].Revealed = true
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.Cells[i].Adjacent != 0 {
			continue
		}
		for _, j := range b.neighbours(i) {
			n := &b.Cells[j]
			if n.Revealed || n.Mine || n.Mark != None {
				continue
			}
			n.Revealed = true
			stack = append(stack, j)
		}
	}
}

func (b *Board) checkWin() {
	if b.GameOver {
		return
	}
	if b.RevealedCount() == b.SafeCells() {
		b.Won = true
		b.GameOver = true
	}
}
