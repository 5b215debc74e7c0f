package sim

import (
	"errors"
	"testing"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/config"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/strategy"
)

func TestBuildParams(t *testing.T) {
	p, err := BuildParams(config.Default().Simulation)
	if err != nil {
		t.Fatalf("build params err: %v", err)
	}
	if p.TradingFeesRate != 0.005 {
		t.Fatalf("expected fee rate 0.005, got %v", p.TradingFeesRate)
	}
	if p.TradingStrategy != strategy.SequentialUpDown {
		t.Fatalf("unexpected strategy %q", p.TradingStrategy)
	}
}

func TestBuildParamsRejectsUnknownStrategy(t *testing.T) {
	cfg := config.Default().Simulation
	cfg.TradingStrategy = "hodl"
	if _, err := BuildParams(cfg); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestRunConfigSeeded(t *testing.T) {
	cfg := config.Default().Simulation
	cfg.TradingStrategy = "random"
	cfg.Seed = 99
	a, err := RunConfig(cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := RunConfig(cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if a.Steps != b.Steps || len(a.Trades) != len(b.Trades) || a.GridBotTotalProfit != b.GridBotTotalProfit {
		t.Fatalf("seeded runs differ: %d/%d trades", len(a.Trades), len(b.Trades))
	}
}
