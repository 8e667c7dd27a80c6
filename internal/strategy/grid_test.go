package strategy

import (
	"testing"

	"grid-backtest-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGridScenario(t *testing.T) {
	grid, err := BuildGrid(100, 200, 0.02, 0.03, 1000)
	require.NoError(t, err)

	require.Len(t, grid.Levels, 50)
	assert.InDelta(t, 100.0, grid.Levels[0].BuyPrice, 1e-9, "first buy level sits on the lower bound")
	assert.InDelta(t, 103.0, grid.Levels[0].SellPrice, 1e-9, "first sell is the buy price plus the profit markup")
	assert.InDelta(t, 2.0, grid.Step, 1e-9)
	assert.InDelta(t, 20.0, grid.PositionSize, 1e-9)

	for i, level := range grid.Levels {
		assert.Equal(t, i, level.Index)
		assert.Equal(t, models.LevelUnarmed, level.State)
		assert.InDelta(t, level.BuyPrice*1.03, level.SellPrice, 1e-9)
	}
}

func TestBuildGridLevelCountIndependentOfWidth(t *testing.T) {
	// With a fixed step percentage the count reduces to floor(1/pct),
	// whatever the range width.
	cases := []struct {
		lower, upper float64
	}{
		{100, 200},
		{0, 50},
		{10, 110},
		{1000, 1012.5},
	}
	for _, tc := range cases {
		grid, err := BuildGrid(tc.lower, tc.upper, 0.02, 0.03, 1000)
		require.NoError(t, err)
		assert.Len(t, grid.Levels, 50, "range [%v, %v]", tc.lower, tc.upper)
	}
}

func TestBuildGridPositionSizingSumsToDeposit(t *testing.T) {
	deposit := 1234.56
	grid, err := BuildGrid(80, 120, 0.02, 0.03, deposit)
	require.NoError(t, err)

	var total float64
	for range grid.Levels {
		total += grid.PositionSize
	}
	assert.InDelta(t, deposit, total, 1e-9)
}

func TestBuildGridZeroLevelsFails(t *testing.T) {
	_, err := BuildGrid(200, 100, 0.02, 0.03, 1000)
	assert.Error(t, err, "inverted range has no levels")

	_, err = BuildGrid(100, 200, 1.5, 0.03, 1000)
	assert.Error(t, err, "step percentage >= 1 has no levels")
}
