package report

import (
	"bytes"
	"testing"

	"grid-backtest-go/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisUsesExactKeys(t *testing.T) {
	res := &models.BacktestResult{
		ProfitLossPct:   12.5,
		ProfitLossCash:  125,
		TotalTrades:     7,
		MaxDrawdownPct:  3.21,
		MaxDrawdownCash: 32.1,
	}
	analysis := Analysis(res)

	assert.Len(t, analysis, 5)
	assert.Equal(t, 12.5, analysis["Profit/Loss (%)"])
	assert.Equal(t, 125.0, analysis["Profit/Loss ($)"])
	assert.Equal(t, 7.0, analysis["Total Trades"])
	assert.Equal(t, 3.21, analysis["Max drawdown (%)"])
	assert.Equal(t, 32.1, analysis["Max drawdown ($)"])
}

func TestOrderLogBytes(t *testing.T) {
	events := []string{
		"New buy order at 100 for 1 units.",
		"New sell order at 103 for 1 units.",
	}
	artifact := OrderLogBytes(events)
	assert.Equal(t, []byte("New buy order at 100 for 1 units.\nNew sell order at 103 for 1 units.\n"), artifact)

	assert.Empty(t, OrderLogBytes(nil))
}

func TestRenderTableListsEveryMetric(t *testing.T) {
	res := &models.BacktestResult{ProfitLossPct: 1, TotalTrades: 2}
	var buf bytes.Buffer
	RenderTable(&buf, Analysis(res))

	out := buf.String()
	for _, key := range AnalysisKeys {
		assert.Contains(t, out, key)
	}
}
