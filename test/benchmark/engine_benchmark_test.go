package benchmark

import (
	"math/rand"
	"testing"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/order"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/report"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/sim"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/strategy"
)

func defaultParams() sim.Params {
	return sim.Params{
		TargetStartPrice: 90,
		TargetEndPrice:   110,
		GridLowerPrice:   90,
		GridUpperPrice:   110,
		TotalGridLevels:  10,
		TotalInvestment:  1000,
		TradingFeesRate:  0.005,
		TradingStrategy:  strategy.SequentialUpDown,
	}
}

// BenchmarkSimulate 完整跑满 1000 步
func BenchmarkSimulate(b *testing.B) {
	testCases := []struct {
		name string
		mode strategy.Mode
	}{
		{"Sequential", strategy.SequentialUpDown},
		{"Random", strategy.RandomUpDown},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			p := defaultParams()
			p.TradingStrategy = tc.mode
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = sim.Simulate(p, sim.WithRand(rand.New(rand.NewSource(int64(i)))))
			}
		})
	}
}

// BenchmarkBookOpenMatch 挂单簿开仓+按价格撮合
func BenchmarkBookOpenMatch(b *testing.B) {
	book := order.NewBook()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		price := 90 + float64(i%10)*2
		book.Open(order.Position{PairNumber: i, TargetSellPrice: price})
		book.Match(price)
	}
}

// BenchmarkFromResult 结果转换为定点字符串
func BenchmarkFromResult(b *testing.B) {
	res, err := sim.Simulate(defaultParams())
	if err != nil {
		b.Fatalf("simulate: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = report.FromResult(res)
	}
}
