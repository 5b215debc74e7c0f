package strategy

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGrid 表示网格边界或层数无法构成有效网格。
var ErrInvalidGrid = errors.New("invalid grid")

// Grid 定义 [Lower, Upper] 之间 Levels 个等宽档位。
type Grid struct {
	Lower  float64
	Upper  float64
	Levels int
}

// NewGrid 校验边界与层数。Upper 必须严格大于 Lower。
func NewGrid(lower, upper float64, levels int) (Grid, error) {
	if levels <= 0 {
		return Grid{}, fmt.Errorf("%w: levels must be > 0, got %d", ErrInvalidGrid, levels)
	}
	if math.IsNaN(lower) || math.IsInf(lower, 0) || math.IsNaN(upper) || math.IsInf(upper, 0) {
		return Grid{}, fmt.Errorf("%w: bounds must be finite", ErrInvalidGrid)
	}
	g := Grid{Lower: lower, Upper: upper, Levels: levels}
	if g.Size() <= 0 {
		return Grid{}, fmt.Errorf("%w: grid size must be > 0 (lower=%v upper=%v)", ErrInvalidGrid, lower, upper)
	}
	return g, nil
}

// Size 单个档位的价格宽度。
func (g Grid) Size() float64 {
	return (g.Upper - g.Lower) / float64(g.Levels)
}

// PriceAt 返回档位下沿价格，level 可以越界（用于计算上一档目标价）。
func (g Grid) PriceAt(level int) float64 {
	return g.Lower + float64(level)*g.Size()
}

// TargetSellPrice 买单对应的卖出价：永远是上一档。
func (g Grid) TargetSellPrice(level int) float64 {
	return g.PriceAt(level + 1)
}

// LevelOf 返回 price 所在档位（向上取整），不做截断。
func (g Grid) LevelOf(price float64) int {
	return int(math.Ceil((price - g.Lower) / g.Size()))
}

// Clamp 把越界档位拉回 [0, Levels-1]，第二个返回值表示是否触边。
func (g Grid) Clamp(level int) (int, bool) {
	if level >= g.Levels {
		return g.Levels - 1, true
	}
	if level < 0 {
		return 0, true
	}
	return level, false
}
