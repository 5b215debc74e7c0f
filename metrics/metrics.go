// Package metrics exposes simulation run statistics to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/sim"
)

// Config 指标命名配置
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Namespace: "gridsim",
		Subsystem: "engine",
	}
}

// Recorder 采集模拟运行指标，实现 sim.Observer。
// 使用独立 registry，多次创建互不冲突。
type Recorder struct {
	registry *prometheus.Registry

	runs           *prometheus.CounterVec
	converged      prometheus.Counter
	steps          prometheus.Histogram
	trades         *prometheus.CounterVec
	tradedVolume   prometheus.Counter
	unmatchedSells prometheus.Counter

	gridBotValue    prometheus.Gauge
	buyAndHoldValue prometheus.Gauge
	openPositions   prometheus.Gauge
}

var _ sim.Observer = (*Recorder)(nil)

// New 创建新的Recorder实例
func New(cfg Config) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "runs_total",
			Help:      "模拟运行次数",
		}, []string{"strategy"}),
		converged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "converged_total",
			Help:      "网格价值追上买入持有的运行次数",
		}),
		steps: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "run_steps",
			Help:      "每次运行的步数",
			Buckets:   prometheus.LinearBuckets(100, 100, sim.MaxSteps/100),
		}),
		trades: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "trades_total",
			Help:      "成交笔数",
		}, []string{"side"}),
		tradedVolume: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "traded_volume_total",
			Help:      "累计成交量",
		}),
		unmatchedSells: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "unmatched_sells_total",
			Help:      "找不到对应买单的卖出步数",
		}),
		gridBotValue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "grid_bot_value",
			Help:      "最近一次运行的网格总价值（投资+收益）",
		}),
		buyAndHoldValue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "buy_and_hold_value",
			Help:      "最近一次运行的买入持有总价值",
		}),
		openPositions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "open_positions",
			Help:      "最近一次运行结束时未配对的买单数",
		}),
	}
}

func (r *Recorder) OnTrade(t sim.Trade) {
	r.trades.WithLabelValues(string(t.Side)).Inc()
	r.tradedVolume.Add(t.Volume)
}

func (r *Recorder) OnUnmatchedSell(step int, price float64) {
	r.unmatchedSells.Inc()
}

func (r *Recorder) OnRunDone(res *sim.Result) {
	r.runs.WithLabelValues(string(res.Params.TradingStrategy)).Inc()
	if res.Converged {
		r.converged.Inc()
	}
	r.steps.Observe(float64(res.Steps))
	r.gridBotValue.Set(res.GridBotTotalValue)
	r.buyAndHoldValue.Set(res.BuyAndHoldTotalValue)
	r.openPositions.Set(float64(len(res.OpenPositions)))
}

// Handler 返回HTTP handler用于暴露指标
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry 返回prometheus registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Serve 先同步监听 addr，端口被占用等错误直接返回。
// 之后的 Serve 错误（ErrServerClosed 除外）交给 onError。
// 返回的 server 由调用方关闭，Addr 为实际监听地址。
func (r *Recorder) Serve(addr string, onError func(error)) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && onError != nil {
			onError(err)
		}
	}()
	return srv, nil
}
