package posttrade

import (
	"sort"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/order"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/sim"
)

// Pair groups a buy with its matching sell. Sell is nil while the buy is still open.
type Pair struct {
	PairNumber int
	Buy        sim.Trade
	Sell       *sim.Trade
}

// Matched reports whether the buy has been closed by a sell.
func (p Pair) Matched() bool { return p.Sell != nil }

// Stats contains statistics computed over the pairs of one run
type Stats struct {
	TotalPairs     int
	MatchedPairs   int
	OpenPairs      int
	WinningPairs   int
	WinRate        float64 // winning / matched
	RealizedProfit float64 // sum of sell profits, net of fees
	GrossProfit    float64 // sum of profitExcludingFee
	TotalFees      float64 // buy + sell fees of every ledger entry
}

// GroupPairs groups ledger entries by pair number, ordered by pair number.
// Sells without a prior buy are ignored; the engine never emits them.
func GroupPairs(trades []sim.Trade) []Pair {
	byNumber := make(map[int]*Pair)
	for i := range trades {
		t := trades[i]
		switch t.Side {
		case order.Buy:
			byNumber[t.PairNumber] = &Pair{PairNumber: t.PairNumber, Buy: t}
		case order.Sell:
			if p, ok := byNumber[t.PairNumber]; ok && p.Sell == nil {
				p.Sell = &t
			}
		}
	}
	pairs := make([]Pair, 0, len(byNumber))
	for _, p := range byNumber {
		pairs = append(pairs, *p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].PairNumber < pairs[j].PairNumber })
	return pairs
}

// Summarize computes stats over grouped pairs
func Summarize(pairs []Pair) Stats {
	stats := Stats{TotalPairs: len(pairs)}
	for _, p := range pairs {
		stats.TotalFees += p.Buy.Fee
		if !p.Matched() {
			stats.OpenPairs++
			continue
		}
		stats.MatchedPairs++
		stats.TotalFees += p.Sell.Fee
		stats.RealizedProfit += p.Sell.Profit
		stats.GrossProfit += p.Sell.ProfitExcludingFee
		if p.Sell.Profit > 0 {
			stats.WinningPairs++
		}
	}
	if stats.MatchedPairs > 0 {
		stats.WinRate = float64(stats.WinningPairs) / float64(stats.MatchedPairs)
	}
	return stats
}
