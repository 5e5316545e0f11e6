// Package scoring turns a cleared level into points.
package scoring

const (
	pointsPerCell     = 2
	pointsPerMine     = 25
	pointsPerSecond   = 3
	penaltyPerClue    = 150
	parSecondsPerCell = 1
)

type Input struct {
	Rows, Cols     int
	Mines          int
	ElapsedSeconds int
	CluesUsed      int
}

type Breakdown struct {
	Board     int `json:"board"`
	Mines     int `json:"mines"`
	TimeBonus int `json:"time_bonus"`
	Clues     int `json:"clues"`
	Total     int `json:"total"`
}

// Score breaks the level score into its parts. On a board of fixed size
// every extra mine raises the density and the score with it.
func Score(in Input) Breakdown {
	cells := max(in.Rows, 0) * max(in.Cols, 0)

	var b Breakdown
	b.Board = cells * pointsPerCell
	b.Mines = max(in.Mines, 0) * pointsPerMine
	par := cells * parSecondsPerCell
	b.TimeBonus = pointsPerSecond * max(0, par-max(in.ElapsedSeconds, 0))
	b.Clues = -penaltyPerClue * max(in.CluesUsed, 0)
	b.Total = max(0, b.Board+b.Mines+b.TimeBonus+b.Clues)
	return b
}

// ForLevel is the total awarded for clearing a level.
func ForLevel(in Input) int {
	return Score(in).Total
}
