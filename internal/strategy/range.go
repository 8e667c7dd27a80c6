package strategy

import (
	"errors"

	"grid-backtest-go/internal/models"
)

// Thresholds and multipliers of the range calculation.
const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
	bandPullback  = 0.5
	weeklyDecay   = 0.01
)

// TradingRange is the price band the grid is built on, plus the
// simulation-wide stop-loss and take-profit thresholds derived from it.
// Computed exactly once, on the first bar of the strategy window.
type TradingRange struct {
	Lower      float64
	Upper      float64
	StopLoss   float64
	TakeProfit float64
}

// CalculateRange derives the trading range from the warm-up indicator
// snapshots, the close of the first strategy bar and the length of the test
// window in weeks.
//
// The base band is close ± 2·ATR, widened asymmetrically when the mean RSI
// signals an oversold or overbought warm-up, pulled toward the latest
// Bollinger band, then scaled by a time-decay multiplier so longer windows
// get a proportionally wider range.
func CalculateRange(snapshots []models.IndicatorSnapshot, closePrice float64, weeksElapsed int, stopPct, takePct float64) (TradingRange, error) {
	if len(snapshots) == 0 {
		return TradingRange{}, errors.New("no indicator snapshots")
	}
	if weeksElapsed < 1 {
		weeksElapsed = 1
	}

	var rsiSum float64
	for _, s := range snapshots {
		rsiSum += s.RSI
	}
	meanRSI := rsiSum / float64(len(snapshots))

	latest := snapshots[len(snapshots)-1]
	atr := latest.ATR

	lower := closePrice - 2*atr
	upper := closePrice + 2*atr

	switch {
	case meanRSI < rsiOversold:
		lower -= atr
		upper += 2 * atr
	case meanRSI > rsiOverbought:
		lower -= 2 * atr
		upper += atr
	}

	lower -= (closePrice - latest.BollingerBot) * bandPullback
	upper += (latest.BollingerTop - closePrice) * bandPullback

	multiplier := 1 + weeklyDecay*float64(weeksElapsed)
	upper *= multiplier
	lower /= multiplier

	return TradingRange{
		Lower:      lower,
		Upper:      upper,
		StopLoss:   lower * (1 - stopPct),
		TakeProfit: upper * (1 + takePct),
	}, nil
}
