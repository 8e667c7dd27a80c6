package strategy

import "grid-backtest-go/internal/models"

// Driver iterates the strategy-window bars once, in timestamp order, feeding
// each bar to the Book and tracking portfolio value for the drawdown and
// profit/loss analytics.
type Driver struct {
	book      *Book
	startCash float64

	equity      []float64
	peak        float64
	maxDDPct    float64
	maxDDCash   float64
	lastEquity  float64
	barsHandled int
}

// NewDriver wraps a Book for a run starting with the given cash balance.
func NewDriver(book *Book, startCash float64) *Driver {
	return &Driver{
		book:       book,
		startCash:  startCash,
		peak:       startCash,
		lastEquity: startCash,
	}
}

// Run processes every bar and aggregates the running drawdown. The first
// range/grid computation already consumed the first strategy bar, so callers
// pass the remaining bars here.
func (d *Driver) Run(bars []models.PriceBar) error {
	for _, bar := range bars {
		if err := d.book.OnBar(bar); err != nil {
			return err
		}

		value := d.book.Cash() + d.book.Position()*bar.Close
		d.equity = append(d.equity, value)
		d.lastEquity = value
		d.barsHandled++

		if value > d.peak {
			d.peak = value
		}
		if d.peak > 0 {
			if ddPct := 100 * (d.peak - value) / d.peak; ddPct > d.maxDDPct {
				d.maxDDPct = ddPct
			}
		}
		if ddCash := d.peak - value; ddCash > d.maxDDCash {
			d.maxDDCash = ddCash
		}
	}
	return nil
}

// EquityCurve returns the per-bar portfolio value.
func (d *Driver) EquityCurve() []float64 { return d.equity }

// FinalValue returns the portfolio value after the last processed bar, or
// the starting cash when no bars were processed.
func (d *Driver) FinalValue() float64 { return d.lastEquity }

// ProfitLossPct returns the final profit/loss in percent of starting cash.
func (d *Driver) ProfitLossPct() float64 {
	if d.startCash == 0 {
		return 0
	}
	return 100 * (d.lastEquity - d.startCash) / d.startCash
}

// ProfitLossCash returns the final profit/loss in cash terms.
func (d *Driver) ProfitLossCash() float64 { return d.lastEquity - d.startCash }

// MaxDrawdownPct returns the worst peak-to-trough drop in percent.
func (d *Driver) MaxDrawdownPct() float64 { return d.maxDDPct }

// MaxDrawdownCash returns the worst peak-to-trough drop in cash terms.
func (d *Driver) MaxDrawdownCash() float64 { return d.maxDDCash }
