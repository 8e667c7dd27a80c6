package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"grid-backtest-go/internal/backtest"
	"grid-backtest-go/internal/config"
	"grid-backtest-go/internal/datasource"
	"grid-backtest-go/internal/logger"
	"grid-backtest-go/internal/models"
	"grid-backtest-go/internal/plot"
	"grid-backtest-go/internal/report"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the config file")
	symbol := flag.String("symbol", "", "symbol to backtest (e.g., BTCUSDT)")
	startDate := flag.String("start", "", "start date of the test window (YYYY-MM-DD)")
	endDate := flag.String("end", "", "end date of the test window (YYYY-MM-DD)")
	deposit := flag.Float64("deposit", 0, "deposit in quote currency")
	outDir := flag.String("out", ".", "directory for the plot and order-log artifacts")
	flag.Parse()

	// A default logger so config loading itself can be logged; reinitialized
	// from the file below.
	logger.InitLogger(models.LogConfig{Level: "info", Output: "console"})

	if err := godotenv.Load(); err != nil {
		logger.S().Info("No .env file found, reading keys from the environment.")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.S().Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg.LogConfig)
	defer logger.S().Sync()

	if *symbol == "" || *startDate == "" || *endDate == "" {
		logger.S().Fatal("--symbol, --start and --end are required.")
	}
	start, err1 := time.Parse("2006-01-02", *startDate)
	end, err2 := time.Parse("2006-01-02", *endDate)
	if err1 != nil || err2 != nil {
		logger.S().Fatalf("Bad date format, use YYYY-MM-DD. start: %v, end: %v", err1, err2)
	}

	var cache *datasource.Cache
	if cfg.CachePath != "" {
		cache, err = datasource.OpenCache(cfg.CachePath)
		if err != nil {
			logger.S().Fatalf("Failed to open kline cache at %s: %v", cfg.CachePath, err)
		}
		defer cache.Close()
	}

	source := datasource.NewClient(
		os.Getenv("BINANCE_API_KEY"),
		os.Getenv("BINANCE_SECRET_KEY"),
		cfg.Interval,
		cache,
	)
	controller := backtest.NewController(cfg, source, plot.NewRenderer())

	logger.S().Infof("Running backtest for %s from %s to %s with deposit %.2f...", *symbol, *startDate, *endDate, *deposit)
	result, err := controller.Run(context.Background(), *symbol, start, end, *deposit)
	if err != nil {
		switch {
		case errors.Is(err, backtest.ErrDataSource):
			logger.S().Fatalf("Data retrieval failed, check the symbol and date range: %v", err)
		case errors.Is(err, backtest.ErrConfiguration):
			logger.S().Fatalf("Invalid backtest parameters: %v", err)
		default:
			logger.S().Fatalf("Backtest failed: %v", err)
		}
	}

	plotPath := filepath.Join(*outDir, fmt.Sprintf("plot_%s.png", result.RunID))
	ordersPath := filepath.Join(*outDir, fmt.Sprintf("orders_%s.txt", result.RunID))
	if err := os.WriteFile(plotPath, result.Plot, 0644); err != nil {
		logger.S().Fatalf("Failed to write plot artifact: %v", err)
	}
	if err := os.WriteFile(ordersPath, result.OrderLog, 0644); err != nil {
		logger.S().Fatalf("Failed to write order-log artifact: %v", err)
	}

	report.RenderTable(os.Stdout, result.Analysis)
	logger.S().Infof("Artifacts written: %s, %s", plotPath, ordersPath)
	logger.S().Info("Note: results are simulated and order fees are not accounted for.")
}
