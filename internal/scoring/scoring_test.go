package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var base = Input{Rows: 8, Cols: 8, Mines: 10, ElapsedSeconds: 30, CluesUsed: 0}

func TestScoreLevelOne(t *testing.T) {
	b := Score(base)
	assert.Equal(t, Breakdown{
		Board:     128,
		Mines:     250,
		TimeBonus: 102,
		Clues:     0,
		Total:     480,
	}, b)
	assert.Equal(t, 480, ForLevel(base))
}

func TestScoreMonotonic(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *Input)
		cmp    func(t assert.TestingT, e1, e2 interface{}, msgAndArgs ...interface{}) bool
	}{
		{"more rows", func(in *Input) { in.Rows++ }, assert.GreaterOrEqual},
		{"more cols", func(in *Input) { in.Cols++ }, assert.GreaterOrEqual},
		{"more mines", func(in *Input) { in.Mines++ }, assert.GreaterOrEqual},
		{"more time", func(in *Input) { in.ElapsedSeconds++ }, assert.LessOrEqual},
		{"more clues", func(in *Input) { in.CluesUsed++ }, assert.LessOrEqual},
	}
	starts := []Input{
		base,
		{Rows: 8, Cols: 8, Mines: 10, ElapsedSeconds: 500, CluesUsed: 5},
		{Rows: 30, Cols: 30, Mines: 180, ElapsedSeconds: 0, CluesUsed: 1},
		{Rows: 1, Cols: 1, Mines: 0, ElapsedSeconds: 0, CluesUsed: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, start := range starts {
				in := start
				for range 100 {
					prev := ForLevel(in)
					test.modify(&in)
					test.cmp(t, ForLevel(in), prev, "input %+v", in)
				}
			}
		})
	}
}

func TestScoreFloor(t *testing.T) {
	in := Input{Rows: 8, Cols: 8, Mines: 10, ElapsedSeconds: 10_000, CluesUsed: 50}
	assert.Zero(t, ForLevel(in))

	in = Input{Rows: -1, Cols: 8, Mines: -5, ElapsedSeconds: -10, CluesUsed: -2}
	assert.Zero(t, ForLevel(in))
}

func TestScoreDenserBoard(t *testing.T) {
	// same grid, more mines, the par time used up and one clue spent
	in := Input{Rows: 8, Cols: 8, Mines: 16, ElapsedSeconds: 64, CluesUsed: 1}
	assert.Equal(t, Breakdown{
		Board:     128,
		Mines:     400,
		TimeBonus: 0,
		Clues:     -150,
		Total:     378,
	}, Score(in))
	assert.Greater(t, ForLevel(Input{Rows: 8, Cols: 8, Mines: 16}), ForLevel(Input{Rows: 8, Cols: 8, Mines: 10}))
}
