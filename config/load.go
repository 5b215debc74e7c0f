package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/infrastructure/logger"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/strategy"
)

// AppConfig holds the simulator configuration.
type AppConfig struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Log        logger.Config    `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// SimulationConfig mirrors the input form. Fees are entered as a percentage.
type SimulationConfig struct {
	TargetStartPrice    float64 `yaml:"targetStartPrice"`
	TargetEndPrice      float64 `yaml:"targetEndPrice"`
	GridLowerPriceRange float64 `yaml:"gridLowerPriceRange"`
	GridUpperPriceRange float64 `yaml:"gridUpperPriceRange"`
	TotalGridLevels     int     `yaml:"totalGridLevels"`
	TotalInvestment     float64 `yaml:"totalInvestment"`
	TradingFeesPct      float64 `yaml:"tradingFeesPct"`  // 0.5 表示 0.5%
	TradingStrategy     string  `yaml:"tradingStrategy"` // sequential/random 或表单名称
	Seed                int64   `yaml:"seed"`            // 随机模式种子，0 表示按时间
}

type MetricsConfig struct {
	Addr      string `yaml:"addr"` // 留空则不启动 /metrics
	Namespace string `yaml:"namespace"`
}

// Default returns the values the input form starts with.
func Default() AppConfig {
	return AppConfig{
		Simulation: SimulationConfig{
			TargetStartPrice:    90,
			TargetEndPrice:      110,
			GridLowerPriceRange: 90,
			GridUpperPriceRange: 110,
			TotalGridLevels:     10,
			TotalInvestment:     1000,
			TradingFeesPct:      0.5,
			TradingStrategy:     strategy.SequentialUpDown.Label(),
		},
		Log:     logger.DefaultConfig(),
		Metrics: MetricsConfig{Namespace: "gridsim"},
	}
}

// FeeRate converts the percentage to a fraction (0.5 -> 0.005).
func (s SimulationConfig) FeeRate() float64 {
	return s.TradingFeesPct / 100
}

// Mode parses TradingStrategy.
func (s SimulationConfig) Mode() (strategy.Mode, error) {
	return strategy.ParseMode(s.TradingStrategy)
}

// Load reads YAML config from path on top of Default and validates it.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then applies GRIDSIM_* env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, Validate(cfg)
}

// ApplyEnv overrides strategy, seed, fee and log level from the environment.
func ApplyEnv(cfg *AppConfig) error {
	if v := os.Getenv("GRIDSIM_STRATEGY"); v != "" {
		cfg.Simulation.TradingStrategy = v
	}
	if v := os.Getenv("GRIDSIM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("GRIDSIM_SEED: %w", err)
		}
		cfg.Simulation.Seed = seed
	}
	if v := os.Getenv("GRIDSIM_FEES_PCT"); v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("GRIDSIM_FEES_PCT: %w", err)
		}
		cfg.Simulation.TradingFeesPct = pct
	}
	if v := os.Getenv("GRIDSIM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}
