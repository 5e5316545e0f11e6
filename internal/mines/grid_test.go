package mines

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewHidesMines(t *testing.T) {
	b := boardWithMines(t, 4, 4, [2]int{0, 0}, [2]int{3, 3})
	v := b.View()

	assert.Equal(t, 4, v.Rows)
	assert.Equal(t, 4, v.Cols)
	assert.Equal(t, 2, v.MinesCount)
	for _, row := range v.Cells {
		for _, c := range row {
			assert.Equal(t, Hidden, c.Kind)
		}
	}
}

func TestViewCellStates(t *testing.T) {
	b := boardWithMines(t, 4, 4, [2]int{0, 0}, [2]int{3, 3}, [2]int{0, 3})
	require.NoError(t, b.Reveal(1, 1, nil))
	require.NoError(t, b.ToggleFlag(0, 3))
	require.NoError(t, b.Probe(3, 3, nil))

	v := b.View()
	assert.Equal(t, CellView{Kind: ShownNumber, Count: 1}, v.Cells[1][1])
	assert.Equal(t, CellView{Kind: ShownFlagged}, v.Cells[0][3])
	assert.Equal(t, CellView{Kind: ShownImmune}, v.Cells[3][3])
	assert.Equal(t, CellView{Kind: Hidden}, v.Cells[0][0])
	assert.Equal(t, 2, v.FlagsCount)
	assert.False(t, v.GameOver)
	assert.True(t, v.Initialized)
}

func TestViewAfterLoss(t *testing.T) {
	b := boardWithMines(t, 4, 4, [2]int{0, 0}, [2]int{3, 3}, [2]int{0, 3})
	require.NoError(t, b.ToggleFlag(0, 3))
	require.NoError(t, b.Reveal(0, 0, nil))

	v := b.View()
	assert.True(t, v.GameOver)
	assert.False(t, v.Won)
	assert.Equal(t, CellView{Kind: ShownMineHit}, v.Cells[0][0])
	assert.Equal(t, CellView{Kind: ShownMine}, v.Cells[3][3])
	assert.Equal(t, CellView{Kind: ShownFlagged}, v.Cells[0][3])
	assert.Equal(t, CellView{Kind: Hidden}, v.Cells[1][1])
}

func TestCellViewJSON(t *testing.T) {
	row := []CellView{
		{Kind: Hidden},
		{Kind: ShownNumber, Count: 0},
		{Kind: ShownNumber, Count: 3},
		{Kind: ShownFlagged},
		{Kind: ShownImmune},
		{Kind: ShownMine},
		{Kind: ShownMineHit},
	}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t,
		`["hidden",0,3,"flagged","flagged_immune","mine","mine_hit"]`,
		string(data),
	)

	var decoded []CellView
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, row, decoded)

	var bad CellView
	assert.Error(t, json.Unmarshal([]byte(`"boom"`), &bad))
}
