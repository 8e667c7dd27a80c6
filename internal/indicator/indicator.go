// Package indicator computes the technical indicator snapshots consumed by
// the range calculation: RSI (Wilder's smoothing), Bollinger Bands and ATR,
// all over the same lookback period.
//
// Outputs are aligned to the input bars; a snapshot is emitted only for bars
// where every indicator has a full lookback behind it.
package indicator

import (
	"math"

	"grid-backtest-go/internal/models"
)

// Calculate returns one IndicatorSnapshot per bar starting at index period
// (ATR needs period+1 bars, which dominates the warm-up). Returns nil when
// the input is too short to produce a single snapshot.
func Calculate(bars []models.PriceBar, period int) []models.IndicatorSnapshot {
	if period <= 0 || len(bars) <= period {
		return nil
	}

	rsi := rsiSeries(bars, period)
	mid, top, bot := bollingerSeries(bars, period)
	atr := atrSeries(bars, period)

	snapshots := make([]models.IndicatorSnapshot, 0, len(bars)-period)
	for i := period; i < len(bars); i++ {
		snapshots = append(snapshots, models.IndicatorSnapshot{
			RSI:          rsi[i],
			BollingerMid: mid[i],
			BollingerTop: top[i],
			BollingerBot: bot[i],
			ATR:          atr[i],
		})
	}
	return snapshots
}

// rsiSeries returns the n-period RSI using Wilder's smoothing, aligned to
// bars. Indices before the first full window are zero.
func rsiSeries(bars []models.PriceBar, n int) []float64 {
	out := make([]float64, len(bars))
	var gain, loss float64
	for i := 1; i < len(bars); i++ {
		d := bars[i].Close - bars[i-1].Close
		if i <= n {
			if d > 0 {
				gain += d
			} else {
				loss -= d
			}
			if i == n {
				gain /= float64(n)
				loss /= float64(n)
				out[i] = rsiValue(gain, loss)
			}
		} else {
			if d > 0 {
				gain = (gain*float64(n-1) + d) / float64(n)
				loss = (loss * float64(n-1)) / float64(n)
			} else {
				gain = (gain * float64(n-1)) / float64(n)
				loss = (loss*float64(n-1) - d) / float64(n)
			}
			out[i] = rsiValue(gain, loss)
		}
	}
	return out
}

// rsiValue maps smoothed gain/loss averages to the RSI scale. A lossless
// window saturates at 100, a flat window sits at the 50 midpoint.
func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss != 0:
		rs := avgGain / avgLoss
		return 100.0 - (100.0 / (1.0 + rs))
	case avgGain != 0:
		return 100.0
	default:
		return 50.0
	}
}

// bollingerSeries returns the n-period middle band (SMA of Close) with top
// and bottom bands at two population standard deviations.
func bollingerSeries(bars []models.PriceBar, n int) (mid, top, bot []float64) {
	mid = make([]float64, len(bars))
	top = make([]float64, len(bars))
	bot = make([]float64, len(bars))

	var sum, sumSq float64
	for i := range bars {
		x := bars[i].Close
		sum += x
		sumSq += x * x
		if i >= n {
			y := bars[i-n].Close
			sum -= y
			sumSq -= y * y
		}
		if i >= n-1 {
			mean := sum / float64(n)
			variance := (sumSq / float64(n)) - (mean * mean)
			std := math.Sqrt(math.Max(variance, 0))
			mid[i] = mean
			top[i] = mean + 2*std
			bot[i] = mean - 2*std
		}
	}
	return mid, top, bot
}

// atrSeries returns the n-period Average True Range with Wilder's smoothing.
// The first value appears at index n as the mean of the first n true ranges.
func atrSeries(bars []models.PriceBar, n int) []float64 {
	out := make([]float64, len(bars))
	if len(bars) <= n {
		return out
	}

	var trSum float64
	var atr float64
	for i := 1; i < len(bars); i++ {
		tr := trueRange(bars[i], bars[i-1].Close)
		if i <= n {
			trSum += tr
			if i == n {
				atr = trSum / float64(n)
				out[i] = atr
			}
		} else {
			atr = (atr*float64(n-1) + tr) / float64(n)
			out[i] = atr
		}
	}
	return out
}

func trueRange(bar models.PriceBar, prevClose float64) float64 {
	tr := bar.High - bar.Low
	if d := math.Abs(bar.High - prevClose); d > tr {
		tr = d
	}
	if d := math.Abs(bar.Low - prevClose); d > tr {
		tr = d
	}
	return tr
}
