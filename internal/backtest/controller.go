package backtest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"grid-backtest-go/internal/datasource"
	"grid-backtest-go/internal/indicator"
	"grid-backtest-go/internal/logger"
	"grid-backtest-go/internal/models"
	"grid-backtest-go/internal/report"
	"grid-backtest-go/internal/strategy"

	"github.com/google/uuid"
	"github.com/jxskiss/base62"
)

// BarSource supplies the combined warm-up plus strategy bar series.
type BarSource interface {
	FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]models.PriceBar, error)
}

// PlotRenderer turns the bar series, trade markers and equity curve into a
// chart image. The rendering itself is outside the engine.
type PlotRenderer interface {
	Render(bars []models.PriceBar, fills []models.Fill, equity []float64) ([]byte, error)
}

// Controller sequences a full backtest: indicator snapshots over the warm-up
// window, range and grid from the first strategy bar, the bar-by-bar
// simulation, and result packaging. It is the sole entry point of the core.
//
// A Controller holds no per-run state; independent runs may execute in
// parallel on separate goroutines.
type Controller struct {
	cfg      *models.Config
	source   BarSource
	renderer PlotRenderer
}

// NewController wires a controller from its collaborators.
func NewController(cfg *models.Config, source BarSource, renderer PlotRenderer) *Controller {
	return &Controller{cfg: cfg, source: source, renderer: renderer}
}

// Run executes one backtest over [start, end) for symbol with the given
// deposit and returns the packaged result. No partial result is ever
// returned: any failure aborts the run with one of the taxonomy errors.
func (c *Controller) Run(ctx context.Context, symbol string, start, end time.Time, deposit float64) (*models.BacktestResult, error) {
	if deposit <= 0 {
		return nil, fmt.Errorf("%w: deposit must be positive, got %v", ErrConfiguration, deposit)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end date %s is not after start date %s", ErrConfiguration, end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	warmupStart := start.AddDate(0, 0, -7*c.cfg.WarmupWeeks)
	bars, err := c.source.FetchBars(ctx, symbol, warmupStart, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars for %s between %s and %s", ErrDataSource, symbol, warmupStart.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	warmupBars, testBars := datasource.SplitBars(bars, start)
	if len(testBars) == 0 {
		return nil, fmt.Errorf("%w: no bars in the strategy window", ErrConfiguration)
	}

	snapshots := indicator.Calculate(warmupBars, c.cfg.IndicatorPeriod)
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: warm-up window of %d bars yields no indicator snapshots", ErrConfiguration, len(warmupBars))
	}

	firstBar := testBars[0]
	weeks := weeksElapsed(start, end)
	rng, err := strategy.CalculateRange(snapshots, firstBar.Close, weeks, c.cfg.StopLossPercent, c.cfg.TakeProfitPercent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	grid, err := strategy.BuildGrid(rng.Lower, rng.Upper, c.cfg.StepPercentage, c.cfg.ProfitPercentage, deposit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	logger.S().Infof("Backtest %s: range [%.4f, %.4f], stop %.4f, take %.4f, %d levels",
		symbol, rng.Lower, rng.Upper, rng.StopLoss, rng.TakeProfit, len(grid.Levels))

	book := strategy.NewBook(grid, rng, deposit)
	driver := strategy.NewDriver(book, deposit)

	// The first strategy bar was consumed by the range/grid computation.
	if err := driver.Run(testBars[1:]); err != nil {
		if errors.Is(err, strategy.ErrNonPositiveClose) {
			return nil, fmt.Errorf("%w: %v", ErrNumeric, err)
		}
		return nil, err
	}

	result := &models.BacktestResult{
		RunID:           NewRunID(),
		Symbol:          symbol,
		StartCash:       deposit,
		FinalValue:      driver.FinalValue(),
		ProfitLossPct:   driver.ProfitLossPct(),
		ProfitLossCash:  driver.ProfitLossCash(),
		MaxDrawdownPct:  round2(driver.MaxDrawdownPct()),
		MaxDrawdownCash: round2(driver.MaxDrawdownCash()),
		TotalTrades:     book.TradesExecuted(),
		OrderLog:        report.OrderLogBytes(book.EventLog()),
		Bars:            testBars,
		Fills:           book.Fills(),
		EquityCurve:     driver.EquityCurve(),
	}
	result.Analysis = report.Analysis(result)

	plot, err := c.renderer.Render(testBars, book.Fills(), driver.EquityCurve())
	if err != nil {
		return nil, fmt.Errorf("failed to render plot: %w", err)
	}
	result.Plot = plot

	logger.S().Infof("Backtest %s finished: P/L %.2f%%, %d trades, halted=%v",
		symbol, result.ProfitLossPct, result.TotalTrades, book.Halted())
	return result, nil
}

// NewRunID returns a short, URL-safe identifier for a run, used to name the
// artifact files.
func NewRunID() string {
	u := uuid.New()
	return base62.EncodeToString(u[:])
}

// weeksElapsed is the test-window length in whole weeks, minimum 1.
func weeksElapsed(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	weeks := days / 7
	if weeks < 1 {
		weeks = 1
	}
	return weeks
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
