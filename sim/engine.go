package sim

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/infrastructure/logger"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/order"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/strategy"
)

// MaxSteps 步数硬上限，防止无法追上基准时无限循环。达到上限是正常结束。
const MaxSteps = 1000

// Trade 账本中的一条成交。Buy 携带 TargetSellPrice，Sell 携带 Profit/ProfitExcludingFee。
type Trade struct {
	Step       int
	Level      int
	Side       order.Side
	PairNumber int
	Price      float64
	Fee        float64
	Volume     float64

	TargetSellPrice float64

	Profit             float64
	ProfitExcludingFee float64
}

// Result 一次模拟的输出。
type Result struct {
	Params            Params
	GridSize          float64
	InvestmentPerGrid float64

	GridBotTotalProfit float64
	GridBotTotalValue  float64
	BuyTrades          int
	SellTrades         int
	TotalTrades        int
	Trades             []Trade
	OpenPositions      []order.Position

	BuyAndHoldTotalProfit float64
	BuyAndHoldTotalValue  float64

	Steps          int
	Converged      bool // 网格价值追上了买入持有
	UnmatchedSells int
}

// Observer 接收运行过程中的事件（例如指标采集）。
type Observer interface {
	OnTrade(t Trade)
	OnUnmatchedSell(step int, price float64)
	OnRunDone(r *Result)
}

type options struct {
	rng      *rand.Rand
	log      *logger.Logger
	observer Observer
}

// Option 配置 Simulate。
type Option func(*options)

// WithRand 注入随机源，随机模式下相同种子得到相同结果。
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithLogger 设置运行日志，nil 时保持静默。
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithObserver 注册事件观察者（例如 metrics.Recorder）。
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// Simulate 运行网格机器人，直到总价值追上买入持有或达到 MaxSteps。
// 偶数步买、奇数步卖，与价格无关。
func Simulate(p Params, opts ...Option) (*Result, error) {
	o := options{log: logger.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	grid, err := p.Grid()
	if err != nil {
		return nil, err
	}
	hold, err := BuyAndHold(p.TargetStartPrice, p.TargetEndPrice, p.TotalInvestment)
	if err != nil {
		return nil, err
	}
	rng := o.rng
	if rng == nil && p.TradingStrategy == strategy.RandomUpDown {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	walker, err := strategy.NewWalker(p.TradingStrategy, grid, rng)
	if err != nil {
		return nil, err
	}

	r := &run{
		opts:              o,
		grid:              grid,
		feeRate:           p.TradingFeesRate,
		investmentPerGrid: p.TotalInvestment / float64(p.TotalGridLevels),
		book:              order.NewBook(),
		pair:              1,
		res: &Result{
			Params:                p,
			GridSize:              grid.Size(),
			BuyAndHoldTotalProfit: hold.Profit,
			BuyAndHoldTotalValue:  hold.TotalValue,
		},
	}
	r.res.InvestmentPerGrid = r.investmentPerGrid

	o.log.Debug("run_start",
		zap.String("strategy", string(p.TradingStrategy)),
		zap.Float64("gridSize", grid.Size()),
		zap.Float64("buyAndHoldTotal", hold.TotalValue),
	)

	level := grid.LevelOf(p.TargetStartPrice)
	step := 0
	for r.profit+p.TotalInvestment < hold.TotalValue && step < MaxSteps {
		level = walker.Next(level)
		price := grid.PriceAt(level)
		if step%2 == 0 {
			r.buy(step, level, price, grid.TargetSellPrice(level))
		} else {
			r.sell(step, level, price)
		}
		step++
	}

	res := r.res
	res.Steps = step
	res.GridBotTotalProfit = r.profit
	res.GridBotTotalValue = r.profit + p.TotalInvestment
	res.TotalTrades = res.BuyTrades + res.SellTrades
	res.OpenPositions = r.book.List()
	res.Converged = res.GridBotTotalValue >= hold.TotalValue

	if res.UnmatchedSells > 0 {
		o.log.Warn("unmatched_sells", zap.Int("count", res.UnmatchedSells))
	}
	o.log.LogRun("run_done", map[string]interface{}{
		"strategy":      string(p.TradingStrategy),
		"steps":         res.Steps,
		"converged":     res.Converged,
		"totalTrades":   res.TotalTrades,
		"openPositions": len(res.OpenPositions),
	})
	if o.observer != nil {
		o.observer.OnRunDone(res)
	}
	return res, nil
}

// run 单次模拟的可变状态，不跨调用共享。
type run struct {
	opts              options
	grid              strategy.Grid
	feeRate           float64
	investmentPerGrid float64
	book              *order.Book
	pair              int
	profit            float64
	res               *Result
}

// tradeVolume 按当前档位价格换算成交量。
// price 为 0 时 gridSize/price 为 +Inf，成交量为 0。
func (r *run) tradeVolume(price float64) float64 {
	return r.investmentPerGrid / (r.grid.Size() / price)
}

func (r *run) buy(step, level int, price, target float64) {
	volume := r.tradeVolume(price)
	fee := volume * r.feeRate
	// 扣减的是成交量+手续费而非现金，保持与原始记账口径一致
	r.profit -= volume + fee

	r.book.Open(order.Position{
		PairNumber:      r.pair,
		EntryPrice:      price,
		EntryFee:        fee,
		EntryVolume:     volume,
		TargetSellPrice: target,
	})
	r.record(Trade{
		Step:            step,
		Level:           level,
		Side:            order.Buy,
		PairNumber:      r.pair,
		Price:           price,
		Fee:             fee,
		Volume:          volume,
		TargetSellPrice: target,
	})
	r.res.BuyTrades++
	r.pair++
}

func (r *run) sell(step, level int, price float64) {
	pos, ok := r.book.Match(price)
	if !ok {
		r.res.UnmatchedSells++
		r.opts.log.Debug("unmatched_sell", zap.Int("step", step), zap.String("price", order.PriceKey(price)))
		if r.opts.observer != nil {
			r.opts.observer.OnUnmatchedSell(step, price)
		}
		return
	}
	volume := r.tradeVolume(price)
	gross := volume - pos.EntryVolume
	fee := volume * r.feeRate
	profit := gross - pos.EntryFee - fee
	r.profit += profit

	r.record(Trade{
		Step:               step,
		Level:              level,
		Side:               order.Sell,
		PairNumber:         pos.PairNumber,
		Price:              price,
		Fee:                fee,
		Volume:             volume,
		Profit:             profit,
		ProfitExcludingFee: gross,
	})
	r.res.SellTrades++
}

func (r *run) record(t Trade) {
	r.res.Trades = append(r.res.Trades, t)
	r.opts.log.LogTrade(string(t.Side), map[string]interface{}{
		"step":  t.Step,
		"pair":  t.PairNumber,
		"price": order.PriceKey(t.Price),
	})
	if r.opts.observer != nil {
		r.opts.observer.OnTrade(t)
	}
}
