package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/config"
)

// BuildParams 把配置（手续费为百分比）转换成引擎参数。
func BuildParams(cfg config.SimulationConfig) (Params, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return Params{}, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	p := Params{
		TargetStartPrice: cfg.TargetStartPrice,
		TargetEndPrice:   cfg.TargetEndPrice,
		GridLowerPrice:   cfg.GridLowerPriceRange,
		GridUpperPrice:   cfg.GridUpperPriceRange,
		TotalGridLevels:  cfg.TotalGridLevels,
		TotalInvestment:  cfg.TotalInvestment,
		TradingFeesRate:  cfg.FeeRate(),
		TradingStrategy:  mode,
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// NewRand 固定种子返回可复现的随机源；seed 为 0 时按当前时间。
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RunConfig 组装一次运行：参数、随机源，以及可选的日志/观察者。
func RunConfig(cfg config.SimulationConfig, opts ...Option) (*Result, error) {
	p, err := BuildParams(cfg)
	if err != nil {
		return nil, err
	}
	all := append([]Option{WithRand(NewRand(cfg.Seed))}, opts...)
	return Simulate(p, all...)
}
