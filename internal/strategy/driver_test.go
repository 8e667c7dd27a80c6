package strategy

import (
	"testing"

	"grid-backtest-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverTracksEquityAndDrawdown(t *testing.T) {
	book := singleLevelBook()
	driver := NewDriver(book, 100)

	// Buy fills at 100 on the first bar, the price dips to 90, then the
	// take-profit at 103 fills.
	bars := []models.PriceBar{
		bar(0, 99, 101, 100),
		bar(1, 89, 91, 90),
		bar(2, 102, 104, 103),
	}
	require.NoError(t, driver.Run(bars))

	equity := driver.EquityCurve()
	require.Len(t, equity, 3)
	assert.InDelta(t, 100.0, equity[0], 1e-9, "fully invested at the entry price")
	assert.InDelta(t, 90.0, equity[1], 1e-9)
	assert.InDelta(t, 103.0, equity[2], 1e-9)

	assert.InDelta(t, 10.0, driver.MaxDrawdownPct(), 1e-9, "10% trough against the 100 peak")
	assert.InDelta(t, 10.0, driver.MaxDrawdownCash(), 1e-9)
	assert.InDelta(t, 103.0, driver.FinalValue(), 1e-9)
	assert.InDelta(t, 3.0, driver.ProfitLossPct(), 1e-9)
	assert.InDelta(t, 3.0, driver.ProfitLossCash(), 1e-9)
	assert.Equal(t, 1, book.TradesExecuted())
}

func TestDriverNoBars(t *testing.T) {
	driver := NewDriver(singleLevelBook(), 250)
	require.NoError(t, driver.Run(nil))

	assert.Empty(t, driver.EquityCurve())
	assert.InDelta(t, 250.0, driver.FinalValue(), 1e-9)
	assert.Zero(t, driver.ProfitLossPct())
	assert.Zero(t, driver.MaxDrawdownPct())
}

func TestDriverPropagatesBookErrors(t *testing.T) {
	driver := NewDriver(singleLevelBook(), 100)
	err := driver.Run([]models.PriceBar{bar(0, 0, 0, 0)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonPositiveClose)
}
