package strategy

import (
	"testing"

	"grid-backtest-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotsWithRSI(rsi float64) []models.IndicatorSnapshot {
	// Three snapshots; only the last Bollinger/ATR values matter, the RSI is
	// averaged over all of them.
	return []models.IndicatorSnapshot{
		{RSI: rsi, BollingerMid: 150, BollingerTop: 158, BollingerBot: 142, ATR: 4},
		{RSI: rsi, BollingerMid: 150, BollingerTop: 159, BollingerBot: 141, ATR: 4.5},
		{RSI: rsi, BollingerMid: 150, BollingerTop: 160, BollingerBot: 140, ATR: 5},
	}
}

func TestCalculateRangeNeutral(t *testing.T) {
	rng, err := CalculateRange(snapshotsWithRSI(50), 150, 1, 0.03, 0.06)
	require.NoError(t, err)

	// close=150, ATR=5: base band [140, 160]; pulled by half the distance to
	// the Bollinger bands (5 each side); decay multiplier 1.01.
	assert.InDelta(t, 135.0/1.01, rng.Lower, 1e-9)
	assert.InDelta(t, 165.0*1.01, rng.Upper, 1e-9)
	assert.InDelta(t, rng.Lower*0.97, rng.StopLoss, 1e-9)
	assert.InDelta(t, rng.Upper*1.06, rng.TakeProfit, 1e-9)
}

func TestCalculateRangeOversoldWidensAsymmetrically(t *testing.T) {
	neutral, err := CalculateRange(snapshotsWithRSI(50), 150, 1, 0.03, 0.06)
	require.NoError(t, err)
	oversold, err := CalculateRange(snapshotsWithRSI(25), 150, 1, 0.03, 0.06)
	require.NoError(t, err)

	// One extra ATR on the downside, two on the upside, both before the
	// decay multiplier is applied.
	atr, m := 5.0, 1.01
	assert.InDelta(t, neutral.Lower-atr/m, oversold.Lower, 1e-9)
	assert.InDelta(t, neutral.Upper+2*atr*m, oversold.Upper, 1e-9)
}

func TestCalculateRangeOverboughtMirrors(t *testing.T) {
	neutral, err := CalculateRange(snapshotsWithRSI(50), 150, 1, 0.03, 0.06)
	require.NoError(t, err)
	overbought, err := CalculateRange(snapshotsWithRSI(75), 150, 1, 0.03, 0.06)
	require.NoError(t, err)

	atr, m := 5.0, 1.01
	assert.InDelta(t, neutral.Lower-2*atr/m, overbought.Lower, 1e-9)
	assert.InDelta(t, neutral.Upper+atr*m, overbought.Upper, 1e-9)
}

func TestCalculateRangeTimeDecayWidens(t *testing.T) {
	oneWeek, err := CalculateRange(snapshotsWithRSI(50), 150, 1, 0.03, 0.06)
	require.NoError(t, err)
	tenWeeks, err := CalculateRange(snapshotsWithRSI(50), 150, 10, 0.03, 0.06)
	require.NoError(t, err)

	assert.Less(t, tenWeeks.Lower, oneWeek.Lower)
	assert.Greater(t, tenWeeks.Upper, oneWeek.Upper)
}

func TestCalculateRangeClampsWeeks(t *testing.T) {
	clamped, err := CalculateRange(snapshotsWithRSI(50), 150, 0, 0.03, 0.06)
	require.NoError(t, err)
	oneWeek, err := CalculateRange(snapshotsWithRSI(50), 150, 1, 0.03, 0.06)
	require.NoError(t, err)

	assert.Equal(t, oneWeek, clamped)
}

func TestCalculateRangeRequiresSnapshots(t *testing.T) {
	_, err := CalculateRange(nil, 150, 1, 0.03, 0.06)
	assert.Error(t, err)
}
