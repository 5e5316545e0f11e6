package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLevelOne(t *testing.T) {
	c := Default.Config(1)
	assert.Equal(t, Config{Level: 1, Rows: 8, Cols: 8, Mines: 10, Clues: 1}, c)
}

func TestConfigClampsLevel(t *testing.T) {
	assert.Equal(t, Default.Config(1), Default.Config(0))
	assert.Equal(t, Default.Config(1), Default.Config(-3))
}

func TestConfigMonotonicAndInBand(t *testing.T) {
	require.NoError(t, Default.Validate())

	prev := Default.Config(1)
	for level := 1; level <= 200; level++ {
		c := Default.Config(level)
		cells := c.Rows * c.Cols
		density := float64(c.Mines) / float64(cells)

		assert.GreaterOrEqual(t, density, MinDensity, "level %d", level)
		assert.LessOrEqual(t, density, MaxDensity, "level %d", level)
		assert.Less(t, c.Mines, cells-9, "level %d leaves no safe zone", level)
		assert.GreaterOrEqual(t, c.Rows, prev.Rows, "level %d", level)
		assert.GreaterOrEqual(t, c.Cols, prev.Cols, "level %d", level)
		assert.GreaterOrEqual(t, c.Mines, prev.Mines, "level %d", level)
		assert.LessOrEqual(t, c.Rows, Default.MaxSide)
		prev = c
	}
}

func TestCluesForLevel(t *testing.T) {
	tests := []struct {
		level, clues int
	}{
		{1, 1}, {5, 1},
		{6, 2}, {7, 2}, {10, 2},
		{11, 3}, {15, 3},
		{16, 4}, {20, 4},
		{21, 5}, {100, 5},
		{0, 1},
	}
	for _, test := range tests {
		assert.Equal(t, test.clues, CluesForLevel(test.level), "level %d", test.level)
		if test.level >= 1 {
			assert.Equal(t, test.clues, Default.Config(test.level).Clues)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Progression)
	}{
		{"small base", func(p *Progression) { p.BaseSide = 3 }},
		{"max below base", func(p *Progression) { p.MaxSide = 6 }},
		{"no growth interval", func(p *Progression) { p.GrowEvery = 0 }},
		{"sparse", func(p *Progression) { p.BaseDensity = 0.05 }},
		{"dense cap", func(p *Progression) { p.DensityCap = 0.3 }},
		{"negative step", func(p *Progression) { p.DensityStep = -0.01 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := Default
			test.modify(&p)
			assert.Error(t, p.Validate())
		})
	}
}
