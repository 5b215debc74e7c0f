package strategy

import (
	"errors"
	"math/rand"
	"strings"
)

// Mode 选择网格档位的移动方式。
type Mode string

const (
	// SequentialUpDown 顺序上下移动，碰边反弹。
	SequentialUpDown Mode = "sequential"
	// RandomUpDown 每步随机上移或下移一档。
	RandomUpDown Mode = "random"
)

// ErrUnknownMode 未识别的移动方式。
var ErrUnknownMode = errors.New("unknown trading strategy")

// 表单里展示的名称，配置文件同样接受。
const (
	sequentialLabel = "Sequential Movement Up and Down"
	randomLabel     = "Random Movement Up or Down"
)

// ParseMode 接受短名或表单名称（大小写不敏感）。
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential", "sequentialupdown", strings.ToLower(sequentialLabel):
		return SequentialUpDown, nil
	case "random", "randomupdown", strings.ToLower(randomLabel):
		return RandomUpDown, nil
	default:
		return "", ErrUnknownMode
	}
}

// Label 返回展示名称。
func (m Mode) Label() string {
	switch m {
	case SequentialUpDown:
		return sequentialLabel
	case RandomUpDown:
		return randomLabel
	default:
		return string(m)
	}
}

// Walker 在每一步之前移动当前档位。
type Walker interface {
	Next(level int) int
}

// NewWalker 根据 mode 构造 Walker；随机模式必须传入 rng。
func NewWalker(mode Mode, g Grid, rng *rand.Rand) (Walker, error) {
	switch mode {
	case SequentialUpDown:
		return &SequentialWalker{grid: g, dir: 1}, nil
	case RandomUpDown:
		if rng == nil {
			return nil, errors.New("random walker requires a rand source")
		}
		return &RandomWalker{grid: g, rng: rng}, nil
	default:
		return nil, ErrUnknownMode
	}
}

// SequentialWalker 反射边界的顺序游走，方向跨步保留。
type SequentialWalker struct {
	grid Grid
	dir  int
}

func (w *SequentialWalker) Next(level int) int {
	level += w.dir
	if level >= w.grid.Levels {
		w.dir = -1
	} else if level < 0 {
		w.dir = 1
	}
	level, _ = w.grid.Clamp(level)
	return level
}

// Direction 当前方向（+1/-1）。
func (w *SequentialWalker) Direction() int { return w.dir }

// RandomWalker 每步独立抽取 ±1，越界只截断不记方向。
type RandomWalker struct {
	grid Grid
	rng  *rand.Rand
}

func (w *RandomWalker) Next(level int) int {
	dir := 1
	if w.rng.Float64() < 0.5 {
		dir = -1
	}
	level, _ = w.grid.Clamp(level + dir)
	return level
}
