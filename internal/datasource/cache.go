package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grid-backtest-go/internal/models"

	"github.com/dgraph-io/badger/v3"
)

// Cache is a badger-backed store of fetched kline windows, keyed by
// symbol, interval and window bounds. It is a fetch-layer convenience; the
// simulation itself never touches it.
type Cache struct {
	db *badger.DB
}

// OpenCache opens (or creates) a cache at the given directory.
func OpenCache(path string) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	// Badger's own logging would interleave with ours; errors still surface
	// through the returned values.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Get returns the cached bars for key, or ok=false when the window was
// never stored.
func (c *Cache) Get(key string) ([]models.PriceBar, bool) {
	var bars []models.PriceBar
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &bars)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	return bars, true
}

// Put stores a fetched window under key.
func (c *Cache) Put(key string, bars []models.PriceBar) error {
	data, err := json.Marshal(bars)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func cacheKey(symbol, interval string, start, end time.Time) string {
	return fmt.Sprintf("klines/%s/%s/%d-%d", symbol, interval, start.UnixMilli(), end.UnixMilli())
}
