// Package report packages a backtest result for its consumers: the fixed
// analysis mapping, the order-log artifact and a console summary table.
package report

import (
	"io"
	"strconv"
	"strings"

	"grid-backtest-go/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Analysis mapping keys. Exact and case-sensitive; downstream consumers key
// on these strings.
const (
	KeyProfitLossPct   = "Profit/Loss (%)"
	KeyProfitLossCash  = "Profit/Loss ($)"
	KeyTotalTrades     = "Total Trades"
	KeyMaxDrawdownPct  = "Max drawdown (%)"
	KeyMaxDrawdownCash = "Max drawdown ($)"
)

// AnalysisKeys lists the mapping keys in presentation order.
var AnalysisKeys = []string{
	KeyProfitLossPct,
	KeyProfitLossCash,
	KeyTotalTrades,
	KeyMaxDrawdownPct,
	KeyMaxDrawdownCash,
}

// Analysis builds the externally visible metrics mapping from a result.
func Analysis(res *models.BacktestResult) map[string]float64 {
	return map[string]float64{
		KeyProfitLossPct:   res.ProfitLossPct,
		KeyProfitLossCash:  res.ProfitLossCash,
		KeyTotalTrades:     float64(res.TotalTrades),
		KeyMaxDrawdownPct:  res.MaxDrawdownPct,
		KeyMaxDrawdownCash: res.MaxDrawdownCash,
	}
}

// OrderLogBytes renders the event log as the newline-delimited order-log
// artifact, one line per event in emission order.
func OrderLogBytes(events []string) []byte {
	if len(events) == 0 {
		return []byte{}
	}
	return []byte(strings.Join(events, "\n") + "\n")
}

// RenderTable writes the analysis mapping as a two-column table.
func RenderTable(w io.Writer, analysis map[string]float64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	for _, key := range AnalysisKeys {
		t.AppendRow(table.Row{key, strconv.FormatFloat(analysis[key], 'f', -1, 64)})
	}
	t.Render()
}
