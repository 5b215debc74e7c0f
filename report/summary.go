// Package report turns a simulation result into the presentation record:
// fixed 8-decimal strings, terminal tables and ledger exports.
package report

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/order"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/sim"
)

// Summary 输出记录。金额/数量字段均为 8 位小数字符串，计数为整数。
type Summary struct {
	GridBot    GridBotSummary    `json:"gridBot"`
	BuyAndHold BuyAndHoldSummary `json:"buyAndHold"`
	Run        RunInfo           `json:"run"`
}

type GridBotSummary struct {
	TotalProfit               string       `json:"totalProfit"`
	TotalInvestmentPlusProfit string       `json:"totalInvestmentPlusProfit"`
	BuyTrades                 int          `json:"buyTrades"`
	SellTrades                int          `json:"sellTrades"`
	TotalTrades               int          `json:"totalTrades"`
	TradeHistory              []TradeEntry `json:"tradeHistory"`
	InvestmentPerGrid         string       `json:"investmentPerGrid"`
}

type BuyAndHoldSummary struct {
	TotalProfit               string `json:"totalProfit"`
	TotalInvestmentPlusProfit string `json:"totalInvestmentPlusProfit"`
}

// RunInfo 运行本身的信息（步数、是否追上基准等）。
type RunInfo struct {
	Strategy       string `json:"strategy"`
	GridSize       string `json:"gridSize"`
	Steps          int    `json:"steps"`
	Converged      bool   `json:"converged"`
	UnmatchedSells int    `json:"unmatchedSells"`
	OpenPositions  int    `json:"openPositions"`
}

// TradeEntry 账本条目。Buy 只有 targetSellPrice，Sell 只有 profit/profitExcludingFee。
type TradeEntry struct {
	Type               string `json:"type"`
	PairNumber         int    `json:"pairNumber"`
	Step               int    `json:"step"`
	Level              int    `json:"level"`
	Price              string `json:"price"`
	Fee                string `json:"fee"`
	Volume             string `json:"volume"`
	TargetSellPrice    string `json:"targetSellPrice,omitempty"`
	Profit             string `json:"profit,omitempty"`
	ProfitExcludingFee string `json:"profitExcludingFee,omitempty"`
}

// Fixed 格式化为恰好 8 位小数的定点字符串。NaN/Inf 原样输出。
func Fixed(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(order.PriceDecimals)
}

// FromResult 在展示边界把浮点结果转换为定点字符串。
func FromResult(res *sim.Result) Summary {
	history := make([]TradeEntry, 0, len(res.Trades))
	for _, t := range res.Trades {
		history = append(history, entryOf(t))
	}
	return Summary{
		GridBot: GridBotSummary{
			TotalProfit:               Fixed(res.GridBotTotalProfit),
			TotalInvestmentPlusProfit: Fixed(res.GridBotTotalValue),
			BuyTrades:                 res.BuyTrades,
			SellTrades:                res.SellTrades,
			TotalTrades:               res.TotalTrades,
			TradeHistory:              history,
			InvestmentPerGrid:         Fixed(res.InvestmentPerGrid),
		},
		BuyAndHold: BuyAndHoldSummary{
			TotalProfit:               Fixed(res.BuyAndHoldTotalProfit),
			TotalInvestmentPlusProfit: Fixed(res.BuyAndHoldTotalValue),
		},
		Run: RunInfo{
			Strategy:       res.Params.TradingStrategy.Label(),
			GridSize:       Fixed(res.GridSize),
			Steps:          res.Steps,
			Converged:      res.Converged,
			UnmatchedSells: res.UnmatchedSells,
			OpenPositions:  len(res.OpenPositions),
		},
	}
}

func entryOf(t sim.Trade) TradeEntry {
	e := TradeEntry{
		Type:       string(t.Side),
		PairNumber: t.PairNumber,
		Step:       t.Step,
		Level:      t.Level,
		Price:      Fixed(t.Price),
		Fee:        Fixed(t.Fee),
		Volume:     Fixed(t.Volume),
	}
	if t.Side == order.Buy {
		e.TargetSellPrice = Fixed(t.TargetSellPrice)
	} else {
		e.Profit = Fixed(t.Profit)
		e.ProfitExcludingFee = Fixed(t.ProfitExcludingFee)
	}
	return e
}
