package posttrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/order"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/sim"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/strategy"
)

func TestGroupPairs(t *testing.T) {
	trades := []sim.Trade{
		{Side: order.Buy, PairNumber: 1, Price: 92, Fee: 23},
		{Side: order.Sell, PairNumber: 1, Price: 94, Fee: 23.5, Profit: 53.5, ProfitExcludingFee: 100},
		{Side: order.Buy, PairNumber: 2, Price: 96, Fee: 24},
		{Side: order.Buy, PairNumber: 3, Price: 94, Fee: 23.5},
		{Side: order.Sell, PairNumber: 3, Price: 96, Fee: 24, Profit: -47.5, ProfitExcludingFee: 0},
	}
	pairs := GroupPairs(trades)
	require.Len(t, pairs, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{pairs[0].PairNumber, pairs[1].PairNumber, pairs[2].PairNumber})
	assert.True(t, pairs[0].Matched())
	assert.False(t, pairs[1].Matched())
	assert.Equal(t, 96.0, pairs[2].Sell.Price)

	stats := Summarize(pairs)
	assert.Equal(t, 3, stats.TotalPairs)
	assert.Equal(t, 2, stats.MatchedPairs)
	assert.Equal(t, 1, stats.OpenPairs)
	assert.Equal(t, 1, stats.WinningPairs)
	assert.Equal(t, 0.5, stats.WinRate)
	assert.InDelta(t, 6.0, stats.RealizedProfit, 1e-9)
	assert.InDelta(t, 100.0, stats.GrossProfit, 1e-9)
	assert.InDelta(t, 23+23.5+24+23.5+24, stats.TotalFees, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)
	if stats.TotalPairs != 0 || stats.WinRate != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

func TestPairsMatchEngineCounts(t *testing.T) {
	res, err := sim.Simulate(sim.Params{
		TargetStartPrice: 90,
		TargetEndPrice:   110,
		GridLowerPrice:   90,
		GridUpperPrice:   110,
		TotalGridLevels:  10,
		TotalInvestment:  1000,
		TradingFeesRate:  0.005,
		TradingStrategy:  strategy.SequentialUpDown,
	})
	require.NoError(t, err)

	pairs := GroupPairs(res.Trades)
	stats := Summarize(pairs)
	assert.Equal(t, res.BuyTrades, stats.TotalPairs)
	assert.Equal(t, res.SellTrades, stats.MatchedPairs)
	assert.Equal(t, len(res.OpenPositions), stats.OpenPairs)
}
