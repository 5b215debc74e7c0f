package sim

import (
	"fmt"
	"math"
)

// Baseline 买入持有策略的结果，与网格成交无关。
type Baseline struct {
	Units      float64
	Profit     float64
	TotalValue float64
}

// BuyAndHold 在 start 全仓买入、end 卖出，不计手续费。
func BuyAndHold(start, end, investment float64) (Baseline, error) {
	if start == 0 {
		return Baseline{}, fmt.Errorf("%w: targetStartPrice must be non-zero", ErrInvalidParameter)
	}
	units := investment / start
	profit := (end - start) * units
	b := Baseline{
		Units:      units,
		Profit:     profit,
		TotalValue: profit + investment,
	}
	// 起始价极小时 units 会溢出
	for _, v := range []float64{b.Units, b.Profit, b.TotalValue} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Baseline{}, fmt.Errorf("%w: buy-and-hold value is not finite (start=%v)", ErrInvalidParameter, start)
		}
	}
	return b, nil
}
