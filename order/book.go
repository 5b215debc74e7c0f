package order

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceDecimals 价格比较与输出统一使用 8 位小数。
const PriceDecimals = 8

// PriceKey 把价格规整成 8 位小数字符串，买卖两侧用同一个 key 做精确匹配。
func PriceKey(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(PriceDecimals)
}

// Book 按目标卖出价索引的未平仓位。
// 同一价格可能挂多笔（同档重复买入），按先进先出匹配。
type Book struct {
	byTarget map[string][]Position
	size     int
}

func NewBook() *Book {
	return &Book{byTarget: make(map[string][]Position)}
}

// Open 登记一笔买单。
func (b *Book) Open(p Position) {
	key := PriceKey(p.TargetSellPrice)
	b.byTarget[key] = append(b.byTarget[key], p)
	b.size++
}

// Match 取出目标价等于 price 的最早一笔仓位。
func (b *Book) Match(price float64) (Position, bool) {
	key := PriceKey(price)
	queue := b.byTarget[key]
	if len(queue) == 0 {
		return Position{}, false
	}
	p := queue[0]
	if len(queue) == 1 {
		delete(b.byTarget, key)
	} else {
		b.byTarget[key] = queue[1:]
	}
	b.size--
	return p, true
}

func (b *Book) Len() int { return b.size }

// List 返回全部未平仓位（拷贝），按 PairNumber 升序。
func (b *Book) List() []Position {
	res := make([]Position, 0, b.size)
	for _, q := range b.byTarget {
		res = append(res, q...)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].PairNumber < res[j].PairNumber })
	return res
}
