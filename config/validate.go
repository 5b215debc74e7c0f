package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate ensures the simulation inputs are complete and usable.
func Validate(cfg AppConfig) error {
	s := cfg.Simulation
	fields := []struct {
		name string
		v    float64
	}{
		{"targetStartPrice", s.TargetStartPrice},
		{"targetEndPrice", s.TargetEndPrice},
		{"gridLowerPriceRange", s.GridLowerPriceRange},
		{"gridUpperPriceRange", s.GridUpperPriceRange},
		{"totalInvestment", s.TotalInvestment},
		{"tradingFeesPct", s.TradingFeesPct},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: simulation.%s must be a number", ErrInvalidConfig, f.name)
		}
	}
	if s.TargetStartPrice == 0 {
		return fmt.Errorf("%w: simulation.targetStartPrice must be non-zero", ErrInvalidConfig)
	}
	if s.TotalGridLevels <= 0 {
		return fmt.Errorf("%w: simulation.totalGridLevels must be > 0", ErrInvalidConfig)
	}
	if s.GridUpperPriceRange <= s.GridLowerPriceRange {
		return fmt.Errorf("%w: simulation.gridUpperPriceRange must be > gridLowerPriceRange", ErrInvalidConfig)
	}
	if s.TotalInvestment <= 0 {
		return fmt.Errorf("%w: simulation.totalInvestment must be > 0", ErrInvalidConfig)
	}
	if s.TradingFeesPct < 0 || s.TradingFeesPct >= 100 {
		return fmt.Errorf("%w: simulation.tradingFeesPct must be in [0, 100)", ErrInvalidConfig)
	}
	if _, err := s.Mode(); err != nil {
		return fmt.Errorf("%w: simulation.tradingStrategy %q: %v", ErrInvalidConfig, s.TradingStrategy, err)
	}
	if cfg.Log.Level == "" {
		return fmt.Errorf("%w: log.level is required", ErrInvalidConfig)
	}
	return nil
}
