package config

import (
	"encoding/json"
	"fmt"
	"os"

	"grid-backtest-go/internal/models"
)

// LoadConfig reads a JSON config file into a Config and fills defaults for
// any parameter the file leaves unset.
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := &models.Config{}
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()

	if cfg.StepPercentage <= 0 || cfg.StepPercentage >= 1 {
		return nil, fmt.Errorf("step_percentage must be in (0, 1), got %v", cfg.StepPercentage)
	}
	if cfg.ProfitPercentage <= 0 {
		return nil, fmt.Errorf("profit_percentage must be positive, got %v", cfg.ProfitPercentage)
	}
	if cfg.WarmupWeeks <= 0 {
		return nil, fmt.Errorf("warmup_weeks must be positive, got %d", cfg.WarmupWeeks)
	}

	return cfg, nil
}
