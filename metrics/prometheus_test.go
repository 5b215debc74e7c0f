package metrics

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/order"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/sim"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/strategy"
)

func TestRecorderCountsTrades(t *testing.T) {
	r := New(DefaultConfig())
	r.OnTrade(sim.Trade{Side: order.Buy, Volume: 10})
	r.OnTrade(sim.Trade{Side: order.Buy, Volume: 5})
	r.OnTrade(sim.Trade{Side: order.Sell, Volume: 2})
	r.OnUnmatchedSell(3, 92)

	if got := testutil.ToFloat64(r.trades.WithLabelValues("Buy")); got != 2 {
		t.Errorf("Expected 2 buys, got %f", got)
	}
	if got := testutil.ToFloat64(r.trades.WithLabelValues("Sell")); got != 1 {
		t.Errorf("Expected 1 sell, got %f", got)
	}
	if got := testutil.ToFloat64(r.tradedVolume); got != 17 {
		t.Errorf("Expected traded volume 17, got %f", got)
	}
	if got := testutil.ToFloat64(r.unmatchedSells); got != 1 {
		t.Errorf("Expected 1 unmatched sell, got %f", got)
	}
}

func TestRecorderObservesSimulation(t *testing.T) {
	r := New(DefaultConfig())
	res, err := sim.Simulate(sim.Params{
		TargetStartPrice: 90,
		TargetEndPrice:   110,
		GridLowerPrice:   90,
		GridUpperPrice:   110,
		TotalGridLevels:  10,
		TotalInvestment:  1000,
		TradingFeesRate:  0.005,
		TradingStrategy:  strategy.SequentialUpDown,
	}, sim.WithObserver(r))
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	if got := testutil.ToFloat64(r.runs.WithLabelValues("sequential")); got != 1 {
		t.Errorf("Expected 1 run, got %f", got)
	}
	if got := testutil.ToFloat64(r.unmatchedSells); got != float64(res.UnmatchedSells) {
		t.Errorf("Expected %d unmatched sells, got %f", res.UnmatchedSells, got)
	}
	if got := testutil.ToFloat64(r.openPositions); got != float64(len(res.OpenPositions)) {
		t.Errorf("Expected %d open positions, got %f", len(res.OpenPositions), got)
	}
	if got := testutil.ToFloat64(r.converged); got != 0 {
		t.Errorf("Expected no convergence, got %f", got)
	}
	if n := testutil.CollectAndCount(r.steps); n != 1 {
		t.Errorf("Expected 1 steps histogram, got %d", n)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New(DefaultConfig())
	r.OnUnmatchedSell(1, 90)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "gridsim_engine_unmatched_sells_total 1") {
		t.Fatalf("metrics output missing counter:\n%s", rec.Body.String())
	}
}

func TestRecordersAreIndependent(t *testing.T) {
	a := New(DefaultConfig())
	b := New(DefaultConfig())
	a.OnUnmatchedSell(1, 90)
	if got := testutil.ToFloat64(b.unmatchedSells); got != 0 {
		t.Fatalf("registries should not share state, got %f", got)
	}
}

func TestServeReportsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	r := New(DefaultConfig())
	srv, err := r.Serve(ln.Addr().String(), nil)
	if err == nil {
		srv.Close()
		t.Fatalf("expected bind error on %s", ln.Addr())
	}
	if srv != nil {
		t.Fatalf("expected nil server on bind error")
	}
}

func TestServeExposesMetrics(t *testing.T) {
	r := New(DefaultConfig())
	r.OnUnmatchedSell(1, 90)
	srv, err := r.Serve("127.0.0.1:0", func(err error) { t.Errorf("serve: %v", err) })
	if err != nil {
		t.Fatalf("serve: %v", err)
	}
	defer srv.Close()

	resp, err := http.Get("http://" + srv.Addr + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "gridsim_engine_unmatched_sells_total 1") {
		t.Fatalf("metrics output missing counter:\n%s", body)
	}
}
