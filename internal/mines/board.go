package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"
	"strings"
)

var Log *slog.Logger = slog.Default()

type Mark uint8

const (
	None Mark = iota
	Flagged
	// FlaggedImmune is set by a clue on a mine and can never be removed.
	FlaggedImmune
)

type Cell struct {
	Mine     bool
	Revealed bool
	Mark     Mark
	Adjacent uint8
}

// Board is a single level's grid. Mines are not placed until the first
// reveal fixes a safe origin. Once GameOver is set the board no longer
// changes.
type Board struct {
	Rows, Cols, MineCount int
	Cells                 []Cell
	MinesPlaced           bool
	GameOver, Won         bool
}

func NewBoard(rows, cols, mineCount int) (*Board, error) {
	if rows <= 0 || cols <= 0 || mineCount < 0 {
		return nil, ErrInvalidSize
	}
	if mineCount >= rows*cols-9 {
		return nil, ErrInvalidPlacement
	}
	b := &Board{
		Rows:      rows,
		Cols:      cols,
		MineCount: mineCount,
		Cells:     make([]Cell, rows*cols),
	}
	return b, nil
}

func DecodeBoard(buf []byte) (*Board, error) {
	var b Board
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&b); err != nil {
		return nil, err
	}
	if len(b.Cells) != b.Rows*b.Cols {
		return nil, fmt.Errorf("decoded board has %d cells, want %d", len(b.Cells), b.Rows*b.Cols)
	}
	return &b, nil
}

func (b Board) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.Rows && 0 <= col && col < b.Cols
}

func (b *Board) index(row, col int) int {
	return row*b.Cols + col
}

// Cell returns a copy of the cell at row, col. It panics when out of bounds.
func (b *Board) Cell(row, col int) Cell {
	return b.Cells[b.index(row, col)]
}

// neighbours lists the indices of the up to 8 cells around i.
func (b *Board) neighbours(i int) []int {
	row, col := i/b.Cols, i%b.Cols
	ns := make([]int, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if b.InBounds(row+dr, col+dc) {
				ns = append(ns, b.index(row+dr, col+dc))
			}
		}
	}
	return ns
}

func (b *Board) FlagsCount() (n int) {
	for _, c := range b.Cells {
		if c.Mark != None {
			n++
		}
	}
	return
}

func (b *Board) RevealedCount() (n int) {
	for _, c := range b.Cells {
		if c.Revealed {
			n++
		}
	}
	return
}

func (b *Board) SafeCells() int {
	return b.Rows*b.Cols - b.MineCount
}

// Lost reports a mine-hit terminal state.
func (b *Board) Lost() bool {
	return b.GameOver && !b.Won
}

// Board implements [fmt.Stringer]. Mines are shown regardless of visibility,
// so the output must never reach a player.
func (b Board) String() string {
	var sb strings.Builder
	for row := range b.Rows {
		for col := range b.Cols {
			c := b.Cells[b.index(row, col)]
			switch {
			case c.Mark == FlaggedImmune:
				sb.WriteString("!")
			case c.Mark == Flagged:
				sb.WriteString("F")
			case c.Mine && c.Revealed:
				sb.WriteString("X")
			case c.Mine:
				sb.WriteString("*")
			case c.Revealed:
				fmt.Fprintf(&sb, "%d", c.Adjacent)
			default:
				sb.WriteString(".")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
