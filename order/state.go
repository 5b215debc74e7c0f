package order

// Side 成交方向。
type Side string

const (
	Buy  Side = "Buy"
	Sell Side = "Sell"
)

// Position 未配对的买单，等待价格回到 TargetSellPrice 时卖出。
type Position struct {
	PairNumber      int
	EntryPrice      float64
	EntryFee        float64
	EntryVolume     float64
	TargetSellPrice float64
}
