package models

import "time"

// Config holds all tunable parameters of the backtester. Loaded from a JSON
// file; zero values are replaced with defaults by ApplyDefaults.
type Config struct {
	Interval          string    `json:"interval"`           // kline interval, e.g. "1h"
	WarmupWeeks       int       `json:"warmup_weeks"`       // indicator warm-up window length in weeks
	IndicatorPeriod   int       `json:"indicator_period"`   // lookback for RSI/Bollinger/ATR
	StepPercentage    float64   `json:"step_percentage"`    // grid step as a fraction of range width
	ProfitPercentage  float64   `json:"profit_percentage"`  // sell price markup per level
	StopLossPercent   float64   `json:"stop_loss_percent"`  // stop-loss margin below the lower bound
	TakeProfitPercent float64   `json:"take_profit_percent"` // take-profit margin above the upper bound
	CachePath         string    `json:"cache_path"`         // badger kline cache directory, empty disables caching
	LogConfig         LogConfig `json:"log"`
}

// LogConfig controls the operational zap logger.
type LogConfig struct {
	Level      string `json:"level"`       // "debug", "info", "warn", "error"
	Output     string `json:"output"`      // "console", "file", "both"
	File       string `json:"file"`        // log file path
	MaxSize    int    `json:"max_size"`    // max size of a single log file (MB)
	MaxBackups int    `json:"max_backups"` // number of rotated files to keep
	MaxAge     int    `json:"max_age"`     // max age of rotated files (days)
	Compress   bool   `json:"compress"`    // compress rotated files
}

// ApplyDefaults fills unset fields with the standard strategy parameters.
func (c *Config) ApplyDefaults() {
	if c.Interval == "" {
		c.Interval = "1h"
	}
	if c.WarmupWeeks == 0 {
		c.WarmupWeeks = 2
	}
	if c.IndicatorPeriod == 0 {
		c.IndicatorPeriod = 14
	}
	if c.StepPercentage == 0 {
		c.StepPercentage = 0.02
	}
	if c.ProfitPercentage == 0 {
		c.ProfitPercentage = 0.03
	}
	if c.StopLossPercent == 0 {
		c.StopLossPercent = 0.03
	}
	if c.TakeProfitPercent == 0 {
		c.TakeProfitPercent = 0.06
	}
}

// PriceBar is a single OHLCV candle. Bars are immutable once retrieved and
// ordered by strictly increasing timestamp.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// IndicatorSnapshot carries the per-bar indicator values computed over the
// warm-up window. The range calculation consumes the mean RSI across all
// snapshots and only the latest Bollinger/ATR values.
type IndicatorSnapshot struct {
	RSI          float64 `json:"rsi"`
	BollingerMid float64 `json:"bollinger_mid"`
	BollingerTop float64 `json:"bollinger_top"`
	BollingerBot float64 `json:"bollinger_bot"`
	ATR          float64 `json:"atr"`
}

// Fill records an executed order for charting and diagnostics.
type Fill struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
	Side      Side      `json:"side"`
}

// BacktestResult is the immutable outcome of a single run.
type BacktestResult struct {
	RunID           string
	Symbol          string
	StartCash       float64
	FinalValue      float64
	ProfitLossPct   float64
	ProfitLossCash  float64
	MaxDrawdownPct  float64
	MaxDrawdownCash float64
	TotalTrades     int

	// Analysis is the externally visible metrics mapping. Keys are fixed
	// and case-sensitive, see report.AnalysisKeys.
	Analysis map[string]float64

	// Artifacts.
	OrderLog []byte // newline-delimited order events, chronological
	Plot     []byte // rendered PNG chart

	// Inputs to the plot renderer, kept for inspection.
	Bars        []PriceBar
	Fills       []Fill
	EquityCurve []float64
}
