package strategy

import (
	"errors"
	"fmt"

	"grid-backtest-go/internal/models"
)

// ErrNonPositiveClose is returned when a bar carries a close price that
// cannot size an order. The run is aborted rather than propagating NaN/Inf
// through the account state.
var ErrNonPositiveClose = errors.New("bar close is not a positive price")

// Book owns the grid levels and their bracket orders, and mutates the
// account state bar by bar. All state is local to one simulation run; a Book
// is not shared between runs and needs no synchronization.
type Book struct {
	levels       []*models.GridLevel
	positionSize float64
	stopLoss     float64
	takeProfit   float64

	cash     float64
	position float64
	halted   bool
	trades   int

	nextOrderID int64
	eventLog    []string
	fills       []models.Fill
}

// NewBook creates a Book over a freshly built grid. The deposit becomes the
// starting cash balance.
func NewBook(grid *Grid, rng TradingRange, deposit float64) *Book {
	return &Book{
		levels:       grid.Levels,
		positionSize: grid.PositionSize,
		stopLoss:     rng.StopLoss,
		takeProfit:   rng.TakeProfit,
		cash:         deposit,
		nextOrderID:  1,
	}
}

// OnBar processes a single price bar: arms unarmed levels, matches live
// orders against the bar's range, re-arms levels whose take-profit filled,
// and finally checks the halt thresholds. Once halted, bars are ignored.
func (b *Book) OnBar(bar models.PriceBar) error {
	if b.halted {
		return nil
	}
	if bar.Close <= 0 {
		return fmt.Errorf("%w: %v at %s", ErrNonPositiveClose, bar.Close, bar.Timestamp.Format("2006-01-02 15:04:05"))
	}

	b.armLevels(bar)
	b.fillBuys(bar)
	b.activateSells()
	b.fillSells(bar)

	if bar.Close <= b.stopLoss || bar.Close >= b.takeProfit {
		b.halt(bar)
	}
	return nil
}

// armLevels submits the initial bracket for every level still unarmed. The
// level state transition is the only guard against duplicate placement: a
// level leaves Unarmed exactly once.
func (b *Book) armLevels(bar models.PriceBar) {
	quantity := b.positionSize / bar.Close
	for _, level := range b.levels {
		if level.State != models.LevelUnarmed {
			continue
		}
		b.submitBracket(level, quantity)
		level.State = models.LevelBuyPending
		b.logf("New buy order at %v for %v units.", level.BuyPrice, quantity)
		b.logf("New sell order at %v for %v units.", level.SellPrice, quantity)
	}
}

// fillBuys matches live buy legs against the bar. A buy at price p fills
// when low <= p <= high, at p itself.
func (b *Book) fillBuys(bar models.PriceBar) {
	for _, level := range b.levels {
		if level.State != models.LevelBuyPending {
			continue
		}
		order := level.BuyOrder
		if !priceInBar(order.Price, bar) {
			continue
		}
		order.Status = models.OrderFilled
		b.cash -= order.Price * order.Quantity
		b.position += order.Quantity
		b.fills = append(b.fills, models.Fill{
			Timestamp: bar.Timestamp,
			Price:     order.Price,
			Quantity:  order.Quantity,
			Side:      models.Buy,
		})
		level.State = models.LevelHolding
	}
}

// activateSells brings the sell leg live for every level whose buy just
// filled. The sell is only eligible for matching from this point on.
func (b *Book) activateSells() {
	for _, level := range b.levels {
		if level.State == models.LevelHolding {
			level.State = models.LevelSellPending
		}
	}
}

// fillSells matches live sell legs and re-arms each filled level with a
// fresh bracket at the same prices, keeping the grid perpetual.
func (b *Book) fillSells(bar models.PriceBar) {
	for _, level := range b.levels {
		if level.State != models.LevelSellPending {
			continue
		}
		order := level.SellOrder
		if !priceInBar(order.Price, bar) {
			continue
		}
		order.Status = models.OrderFilled
		b.cash += order.Price * order.Quantity
		b.position -= order.Quantity
		b.trades++
		b.fills = append(b.fills, models.Fill{
			Timestamp: bar.Timestamp,
			Price:     order.Price,
			Quantity:  order.Quantity,
			Side:      models.Sell,
		})

		quantity := order.Quantity
		b.submitBracket(level, quantity)
		level.State = models.LevelBuyPending
		b.logf("Buy order at %v executed. New buy order placed at %v for %v units.", level.BuyPrice, level.BuyPrice, quantity)
		b.logf("New sell order placed at %v for %v units.", level.SellPrice, quantity)
	}
}

// submitBracket replaces the level's bracket with a fresh buy leg and a
// linked sell leg of equal quantity.
func (b *Book) submitBracket(level *models.GridLevel, quantity float64) {
	buy := &models.Order{
		ID:       b.nextOrderID,
		Side:     models.Buy,
		Price:    level.BuyPrice,
		Quantity: quantity,
		Kind:     models.StopLimit,
		Status:   models.OrderPending,
	}
	b.nextOrderID++
	sell := &models.Order{
		ID:       b.nextOrderID,
		Side:     models.Sell,
		Price:    level.SellPrice,
		Quantity: quantity,
		Kind:     models.StopLimit,
		Status:   models.OrderPending,
		ParentID: buy.ID,
	}
	b.nextOrderID++
	level.BuyOrder = buy
	level.SellOrder = sell
}

// halt closes any open position at the bar's close, cancels every
// outstanding order and freezes the book. The halted flag is monotonic, so
// the side effects fire exactly once per run.
func (b *Book) halt(bar models.PriceBar) {
	if b.halted {
		return
	}
	b.halted = true

	if b.position > 0 {
		b.cash += b.position * bar.Close
		b.fills = append(b.fills, models.Fill{
			Timestamp: bar.Timestamp,
			Price:     bar.Close,
			Quantity:  b.position,
			Side:      models.Sell,
		})
		b.position = 0
	}

	for _, level := range b.levels {
		if level.BuyOrder != nil && level.BuyOrder.Status == models.OrderPending {
			level.BuyOrder.Status = models.OrderCancelled
		}
		if level.SellOrder != nil && level.SellOrder.Status == models.OrderPending {
			level.SellOrder.Status = models.OrderCancelled
		}
		level.State = models.LevelClosed
	}
}

func priceInBar(price float64, bar models.PriceBar) bool {
	return bar.Low <= price && price <= bar.High
}

func (b *Book) logf(format string, args ...interface{}) {
	b.eventLog = append(b.eventLog, fmt.Sprintf(format, args...))
}

// Cash returns the current cash balance.
func (b *Book) Cash() float64 { return b.cash }

// Position returns the currently held quantity.
func (b *Book) Position() float64 { return b.position }

// Halted reports whether the stop-loss or take-profit threshold was breached.
func (b *Book) Halted() bool { return b.halted }

// TradesExecuted returns the number of completed take-profit fills.
func (b *Book) TradesExecuted() int { return b.trades }

// EventLog returns the append-only order event log in emission order.
func (b *Book) EventLog() []string { return b.eventLog }

// Fills returns every executed order, chronologically.
func (b *Book) Fills() []models.Fill { return b.fills }

// Levels exposes the grid levels for inspection.
func (b *Book) Levels() []*models.GridLevel { return b.levels }
