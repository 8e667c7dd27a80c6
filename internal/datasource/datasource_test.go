package datasource

import (
	"testing"
	"time"

	"grid-backtest-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyBars(start time.Time, n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	for i := range bars {
		bars[i] = models.PriceBar{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      100, High: 101, Low: 99, Close: 100, Volume: 1,
		}
	}
	return bars
}

func TestSplitBars(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := hourlyBars(start, 48)
	testStart := start.Add(24 * time.Hour)

	warmup, test := SplitBars(bars, testStart)
	require.Len(t, warmup, 24)
	require.Len(t, test, 24)
	assert.True(t, warmup[len(warmup)-1].Timestamp.Before(testStart))
	assert.False(t, test[0].Timestamp.Before(testStart), "a bar on the boundary belongs to the test window")
}

func TestSplitBarsAllWarmup(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := hourlyBars(start, 10)

	warmup, test := SplitBars(bars, start.Add(100*time.Hour))
	assert.Len(t, warmup, 10)
	assert.Empty(t, test)
}

func TestSplitBarsAllTest(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := hourlyBars(start, 10)

	warmup, test := SplitBars(bars, start)
	assert.Empty(t, warmup)
	assert.Len(t, test, 10)
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	key := cacheKey("BTCUSDT", "1h", start, end)
	bars := hourlyBars(start, 48)

	_, ok := cache.Get(key)
	assert.False(t, ok, "cold cache misses")

	require.NoError(t, cache.Put(key, bars))
	got, ok := cache.Get(key)
	require.True(t, ok)
	require.Len(t, got, len(bars))
	assert.True(t, got[0].Timestamp.Equal(bars[0].Timestamp))
	assert.Equal(t, bars[0].Close, got[0].Close)

	_, ok = cache.Get(cacheKey("ETHUSDT", "1h", start, end))
	assert.False(t, ok, "different window keys stay independent")
}
