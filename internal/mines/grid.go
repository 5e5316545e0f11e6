package mines

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type CellKind uint8

const (
	Hidden CellKind = iota
	ShownFlagged
	ShownImmune
	ShownMine
	ShownMineHit
	ShownNumber
)

// CellView is what a player may know about one cell. Count is only
// meaningful for ShownNumber.
type CellView struct {
	Kind  CellKind
	Count uint8
}

// CellView implements [fmt.Stringer]
func (v CellView) String() string {
	switch v.Kind {
	case ShownFlagged:
		return "flagged"
	case ShownImmune:
		return "flagged_immune"
	case ShownMine:
		return "mine"
	case ShownMineHit:
		return "mine_hit"
	case ShownNumber:
		return strconv.Itoa(int(v.Count))
	default:
		return "hidden"
	}
}

// CellView implements [json.Marshaler]: numbers go out as JSON numbers,
// everything else as a string.
func (v CellView) MarshalJSON() ([]byte, error) {
	if v.Kind == ShownNumber {
		return []byte(strconv.Itoa(int(v.Count))), nil
	}
	return json.Marshal(v.String())
}

func (v *CellView) UnmarshalJSON(data []byte) error {
	var n uint8
	if err := json.Unmarshal(data, &n); err == nil {
		*v = CellView{Kind: ShownNumber, Count: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "hidden":
		*v = CellView{Kind: Hidden}
	case "flagged":
		*v = CellView{Kind: ShownFlagged}
	case "flagged_immune":
		*v = CellView{Kind: ShownImmune}
	case "mine":
		*v = CellView{Kind: ShownMine}
	case "mine_hit":
		*v = CellView{Kind: ShownMineHit}
	default:
		return fmt.Errorf("unknown cell state %q", s)
	}
	return nil
}

type BoardView struct {
	Rows          int          `json:"rows"`
	Cols          int          `json:"cols"`
	Cells         [][]CellView `json:"cells"`
	MinesCount    int          `json:"mines_count"`
	FlagsCount    int          `json:"flags_count"`
	RevealedCount int          `json:"revealed_count"`
	GameOver      bool         `json:"game_over"`
	Won           bool         `json:"won"`
	Initialized   bool         `json:"initialized"`
}

func (b *Board) cellView(c Cell) CellView {
	switch {
	case c.Revealed && c.Mine:
		return CellView{Kind: ShownMineHit}
	case c.Revealed:
		return CellView{Kind: ShownNumber, Count: c.Adjacent}
	case c.Mark == FlaggedImmune:
		return CellView{Kind: ShownImmune}
	case c.Mark == Flagged:
		return CellView{Kind: ShownFlagged}
	case b.GameOver && c.Mine:
		return CellView{Kind: ShownMine}
	default:
		return CellView{Kind: Hidden}
	}
}

// View projects the board for the player. Mine positions leave the server
// only for revealed cells or once the game is over.
func (b *Board) View() BoardView {
	cells := make([][]CellView, b.Rows)
	for row := range b.Rows {
		cells[row] = make([]CellView, b.Cols)
		for col := range b.Cols {
			cells[row][col] = b.cellView(b.Cells[b.index(row, col)])
		}
	}
	return BoardView{
		Rows:          b.Rows,
		Cols:          b.Cols,
		Cells:         cells,
		MinesCount:    b.MineCount,
		FlagsCount:    b.FlagsCount(),
		RevealedCount: b.RevealedCount(),
		GameOver:      b.GameOver,
		Won:           b.Won,
		Initialized:   b.MinesPlaced,
	}
}
