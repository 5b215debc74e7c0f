package sim

import (
	"fmt"
	"math"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/strategy"
)

// Params 一次模拟的完整输入，运行期间不可变。
// TradingFeesRate 是小数（0.5% 传 0.005），百分比换算由 config 负责。
type Params struct {
	TargetStartPrice float64
	TargetEndPrice   float64
	GridLowerPrice   float64
	GridUpperPrice   float64
	TotalGridLevels  int
	TotalInvestment  float64
	TradingFeesRate  float64
	TradingStrategy  strategy.Mode
}

// Grid 由参数构造网格。
func (p Params) Grid() (strategy.Grid, error) {
	g, err := strategy.NewGrid(p.GridLowerPrice, p.GridUpperPrice, p.TotalGridLevels)
	if err != nil {
		return strategy.Grid{}, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return g, nil
}

// Validate 只拦截会导致除零或无法运行的输入，业务范围校验在 config。
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"targetStartPrice", p.TargetStartPrice},
		{"targetEndPrice", p.TargetEndPrice},
		{"gridLowerPriceRange", p.GridLowerPrice},
		{"gridUpperPriceRange", p.GridUpperPrice},
		{"totalInvestment", p.TotalInvestment},
		{"tradingFeesRate", p.TradingFeesRate},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidParameter, f.name)
		}
	}
	if p.TotalGridLevels <= 0 {
		return fmt.Errorf("%w: totalGridLevels must be > 0, got %d", ErrInvalidParameter, p.TotalGridLevels)
	}
	if p.TargetStartPrice == 0 {
		return fmt.Errorf("%w: targetStartPrice must be non-zero", ErrInvalidParameter)
	}
	if p.TradingStrategy != strategy.SequentialUpDown && p.TradingStrategy != strategy.RandomUpDown {
		return fmt.Errorf("%w: %v %q", ErrInvalidParameter, strategy.ErrUnknownMode, p.TradingStrategy)
	}
	if _, err := p.Grid(); err != nil {
		return err
	}
	return nil
}
