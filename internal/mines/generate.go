package mines

import (
	"math/rand/v2"
)

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// PlaceMines scatters the board's mines uniformly among every cell outside
// the 3x3 block centred on the origin, then fills in adjacency counts.
func (b *Board) PlaceMines(originRow, originCol int, r *rand.Rand) error {
	if b.MinesPlaced {
		return AssertionError{"mines already placed"}
	}
	if !b.InBounds(originRow, originCol) {
		return ErrOutOfBounds
	}
	if b.MineCount >= b.Rows*b.Cols-9 {
		return ErrInvalidPlacement
	}

	candidates := make([]int, 0, b.Rows*b.Cols)
	for row := range b.Rows {
		for col := range b.Cols {
			if absDiff(originRow, row) > 1 || absDiff(originCol, col) > 1 {
				candidates = append(candidates, b.index(row, col))
			}
		}
	}

	k := len(candidates)
	for range b.MineCount {
		i := r.IntN(k)
		b.Cells[candidates[i]].Mine = true
		k--
		candidates[i] = candidates[k]
	}

	b.countAdjacent()
	b.MinesPlaced = true

	Log.Debug("placed mines",
		"rows", b.Rows, "cols", b.Cols, "mines", b.MineCount,
		"origin_row", originRow, "origin_col", originCol,
	)
	return nil
}

func (b *Board) countAdjacent() {
	for i := range b.Cells {
		var n uint8
		for _, j := range b.neighbours(i) {
			if b.Cells[j].Mine {
				n++
			}
		}
		b.Cells[i].Adjacent = n
	}
}
