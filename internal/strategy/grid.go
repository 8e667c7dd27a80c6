package strategy

import (
	"fmt"
	"math"

	"grid-backtest-go/internal/models"
)

// Grid is the fixed set of price levels the simulation trades on. Levels are
// created once and keep their prices for the whole run; only their State
// changes.
type Grid struct {
	Levels []*models.GridLevel

	// PositionSize is the cash allocated to each level, fixed at
	// construction time and never recomputed.
	PositionSize float64

	Step float64
}

// BuildGrid lays out evenly spaced buy levels across [lower, upper) and
// pairs each with a sell price at a fixed markup. The level count reduces to
// floor(1/stepPct) regardless of range width.
func BuildGrid(lower, upper, stepPct, profitPct, deposit float64) (*Grid, error) {
	rangeWidth := upper - lower
	step := rangeWidth * stepPct

	levelCount := 0
	if step > 0 {
		levelCount = int(math.Floor(rangeWidth / step))
	}
	if levelCount == 0 {
		return nil, fmt.Errorf("grid has no levels: range width %v, step percentage %v", rangeWidth, stepPct)
	}

	levels := make([]*models.GridLevel, 0, levelCount)
	for i := 0; i < levelCount; i++ {
		buyPrice := lower + float64(i)*step
		levels = append(levels, &models.GridLevel{
			Index:     i,
			BuyPrice:  buyPrice,
			SellPrice: buyPrice * (1 + profitPct),
			State:     models.LevelUnarmed,
		})
	}

	return &Grid{
		Levels:       levels,
		PositionSize: deposit / float64(levelCount),
		Step:         step,
	}, nil
}
