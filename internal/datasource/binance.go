package datasource

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"grid-backtest-go/internal/logger"
	"grid-backtest-go/internal/models"

	"github.com/adshao/go-binance/v2"
)

// pageLimit is the maximum number of klines Binance returns per request.
const pageLimit = 1000

// Client fetches historical klines from Binance, optionally backed by a
// local cache so repeated runs over the same window skip the network.
type Client struct {
	api      *binance.Client
	cache    *Cache
	interval string
}

// NewClient creates a kline client. API keys may be empty, the kline
// endpoint is public. cache may be nil to disable caching.
func NewClient(apiKey, secretKey, interval string, cache *Cache) *Client {
	return &Client{
		api:      binance.NewClient(apiKey, secretKey),
		cache:    cache,
		interval: interval,
	}
}

// FetchBars returns all bars for symbol in [start, end), ordered by open
// time. The window is fetched page by page; a populated cache short-circuits
// the whole fetch.
func (c *Client) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]models.PriceBar, error) {
	key := cacheKey(symbol, c.interval, start, end)
	if c.cache != nil {
		if bars, ok := c.cache.Get(key); ok {
			logger.S().Infof("Loaded %d cached bars for %s", len(bars), symbol)
			return bars, nil
		}
	}

	var bars []models.PriceBar
	for t := start; t.Before(end); {
		klines, err := c.api.NewKlinesService().
			Symbol(symbol).
			Interval(c.interval).
			StartTime(t.UnixMilli()).
			EndTime(end.UnixMilli()).
			Limit(pageLimit).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("kline request for %s failed: %w", symbol, err)
		}
		if len(klines) == 0 {
			break
		}

		for _, k := range klines {
			bar, err := parseKline(k)
			if err != nil {
				return nil, fmt.Errorf("malformed kline for %s at %d: %w", symbol, k.OpenTime, err)
			}
			bars = append(bars, bar)
		}

		t = time.UnixMilli(klines[len(klines)-1].CloseTime + 1)
		if len(klines) < pageLimit {
			break
		}
		time.Sleep(200 * time.Millisecond) // stay clear of request-weight limits
	}

	if c.cache != nil && len(bars) > 0 {
		if err := c.cache.Put(key, bars); err != nil {
			logger.S().Warnf("Failed to cache bars for %s: %v", symbol, err)
		}
	}
	return bars, nil
}

func parseKline(k *binance.Kline) (models.PriceBar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return models.PriceBar{}, err
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return models.PriceBar{}, err
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return models.PriceBar{}, err
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return models.PriceBar{}, err
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return models.PriceBar{}, err
	}
	return models.PriceBar{
		Timestamp: time.UnixMilli(k.OpenTime),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
	}, nil
}

// SplitBars splits a combined series at testStart: bars strictly before it
// feed the indicator calculation, the rest feed the simulation.
func SplitBars(bars []models.PriceBar, testStart time.Time) (warmup, test []models.PriceBar) {
	for i, bar := range bars {
		if !bar.Timestamp.Before(testStart) {
			return bars[:i], bars[i:]
		}
	}
	return bars, nil
}
