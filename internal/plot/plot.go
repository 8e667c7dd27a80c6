// Package plot renders the backtest chart artifact: the close-price series
// with buy/sell fill markers, and the equity curve on a secondary axis.
package plot

import (
	"bytes"
	"errors"
	"time"

	"grid-backtest-go/internal/models"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	buyColor  = drawing.Color{R: 0, G: 230, B: 64, A: 255}
	sellColor = drawing.Color{R: 30, G: 80, B: 255, A: 255}
)

// Renderer produces PNG charts. It satisfies the controller's PlotRenderer.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer with the default canvas size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 1280, Height: 720}
}

// Render draws the price series, one marker per fill, and the equity curve.
// The equity curve starts one bar after the series (the first strategy bar
// only seeds the grid), so its x-values are aligned to the trailing bars.
func (r *Renderer) Render(bars []models.PriceBar, fills []models.Fill, equity []float64) ([]byte, error) {
	if len(bars) < 2 {
		return nil, errors.New("not enough bars to plot")
	}

	priceX := make([]time.Time, len(bars))
	priceY := make([]float64, len(bars))
	for i, bar := range bars {
		priceX[i] = bar.Timestamp
		priceY[i] = bar.Close
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "Close",
			XValues: priceX,
			YValues: priceY,
			Style: chart.Style{
				StrokeColor: chart.ColorBlack,
				StrokeWidth: 1.2,
			},
		},
	}

	if marker := fillSeries("Buys", fills, models.Buy, buyColor); marker != nil {
		series = append(series, marker)
	}
	if marker := fillSeries("Sells", fills, models.Sell, sellColor); marker != nil {
		series = append(series, marker)
	}

	if len(equity) > 0 && len(equity) <= len(bars) {
		equityX := make([]time.Time, len(equity))
		offset := len(bars) - len(equity)
		for i := range equity {
			equityX[i] = bars[offset+i].Timestamp
		}
		series = append(series, chart.TimeSeries{
			Name:    "Equity",
			XValues: equityX,
			YValues: equity,
			YAxis:   chart.YAxisSecondary,
			Style: chart.Style{
				StrokeColor: chart.ColorAlternateGray,
				StrokeWidth: 1.0,
			},
		})
	}

	graph := chart.Chart{
		Width:          r.Width,
		Height:         r.Height,
		YAxis:          chart.YAxis{Name: "Price"},
		YAxisSecondary: chart.YAxis{Name: "Equity"},
		Series:         series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fillSeries builds a dot-only series for one side's fills, or nil when
// there are none.
func fillSeries(name string, fills []models.Fill, side models.Side, color drawing.Color) chart.Series {
	var xs []time.Time
	var ys []float64
	for _, f := range fills {
		if f.Side != side {
			continue
		}
		xs = append(xs, f.Timestamp)
		ys = append(ys, f.Price)
	}
	if len(xs) == 0 {
		return nil
	}
	return chart.TimeSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    4,
			DotColor:    color,
		},
	}
}
