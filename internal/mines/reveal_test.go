package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevealMine(t *testing.T) {
	b := boardWithMines(t, 5, 5, [2]int{0, 0})
	require.NoError(t, b.Reveal(0, 0, nil))

	assert.True(t, b.GameOver)
	assert.False(t, b.Won)
	assert.True(t, b.Lost())
	assert.True(t, b.Cell(0, 0).Revealed)
	assert.Equal(t, 1, b.RevealedCount())
}

func TestRevealFloodFillStopsAtBorder(t *testing.T) {
	// a wall of mines down the middle column
	b := boardWithMines(t, 5, 5,
		[2]int{0, 2}, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2}, [2]int{4, 2},
	)

	require.NoError(t, b.Reveal(2, 0, nil))
	for row := range 5 {
		assert.True(t, b.Cell(row, 0).Revealed)
		assert.True(t, b.Cell(row, 1).Revealed)
		assert.False(t, b.Cell(row, 3).Revealed)
		assert.False(t, b.Cell(row, 4).Revealed)
	}
	assert.False(t, b.GameOver)

	require.NoError(t, b.Reveal(2, 4, nil))
	assert.Equal(t, 20, b.RevealedCount())
	assert.True(t, b.Won)
	assert.True(t, b.GameOver)
	assert.False(t, b.Lost())
}

func TestRevealNumberDoesNotSpread(t *testing.T) {
	b := boardWithMines(t, 5, 5, [2]int{0, 0})
	require.NoError(t, b.Reveal(1, 1, nil))
	assert.Equal(t, 1, b.RevealedCount())
	assert.Equal(t, uint8(1), b.Cell(1, 1).Adjacent)
}

// expectedRegion is a straightforward recursive flood fill used as a
// reference for the iterative one.
func expectedRegion(b *Board, row, col int, seen map[int]bool) {
	i := b.index(row, col)
	if seen[i] {
		return
	}
	seen[i] = true
	if b.Cells[i].Adjacent != 0 {
		return
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if b.InBounds(row+dr, col+dc) && !b.Cell(row+dr, col+dc).Mine {
				expectedRegion(b, row+dr, col+dc, seen)
			}
		}
	}
}

func TestRevealFloodFillMatchesReference(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(7, 8))
	for range 200 {
		b, err := NewBoard(16, 16, 40)
		require.NoError(t, err)
		row, col := r.IntN(16), r.IntN(16)
		require.NoError(t, b.Reveal(row, col, r))

		want := map[int]bool{}
		expectedRegion(b, row, col, want)
		for i, c := range b.Cells {
			if c.Revealed != want[i] {
				t.Fatalf("cell %d:%d revealed=%v, want %v\n%s",
					i/b.Cols, i%b.Cols, c.Revealed, want[i], b)
			}
		}
	}
}

func TestRevealSkipsMarkedCells(t *testing.T) {
	b := boardWithMines(t, 5, 5, [2]int{0, 0})
	b.Cells[b.index(4, 4)].Mark = Flagged
	b.Cells[b.index(0, 4)].Mark = FlaggedImmune // not a mine, but marks still stop the fill

	before := clone(b)
	require.NoError(t, b.Reveal(4, 4, nil))
	assert.Equal(t, before, b, "flagged cell must not be revealed")

	require.NoError(t, b.Reveal(0, 4, nil))
	assert.Equal(t, before, b, "immune cell must not be revealed")

	require.NoError(t, b.Reveal(2, 2, nil))
	assert.False(t, b.Cell(4, 4).Revealed)
	assert.False(t, b.Cell(0, 4).Revealed)
	assert.False(t, b.Won)
}

func TestRevealIsIdempotent(t *testing.T) {
	b := boardWithMines(t, 5, 5, [2]int{0, 0})
	require.NoError(t, b.Reveal(1, 1, nil))
	before := clone(b)
	require.NoError(t, b.Reveal(1, 1, nil))
	assert.Equal(t, before, b)
}

func TestRevealAfterGameOver(t *testing.T) {
	b := boardWithMines(t, 5, 5, [2]int{0, 0})
	require.NoError(t, b.Reveal(0, 0, nil))
	before := clone(b)
	require.NoError(t, b.Reveal(4, 4, nil))
	assert.Equal(t, before, b)
}

func TestRevealOutOfBounds(t *testing.T) {
	b := boardWithMines(t, 5, 5, [2]int{0, 0})
	assert.ErrorIs(t, b.Reveal(-1, 0, nil), ErrOutOfBounds)
	assert.ErrorIs(t, b.Reveal(0, 5, nil), ErrOutOfBounds)
}

func TestBoardBytes(t *testing.T) {
	b := boardWithMines(t, 6, 7, [2]int{0, 0}, [2]int{5, 6})
	require.NoError(t, b.Reveal(3, 3, nil))
	b.Cells[b.index(0, 0)].Mark = Flagged

	buf, err := b.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeBoard(buf)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}
