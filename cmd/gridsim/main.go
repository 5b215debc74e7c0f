package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/config"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/infrastructure/logger"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/metrics"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/report"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/sim"
)

// 网格机器人 vs 买入持有 的本地模拟。
// 用法：
//
//	go run ./cmd/gridsim -config configs/config.yaml -strategy random -seed 42 -format json -csv ledger.csv
//	go run ./cmd/gridsim -config configs/config.yaml -watch -metricsAddr :9100
func main() {
	cfgPath := flag.String("config", "", "配置文件路径，留空则使用表单默认值")
	strat := flag.String("strategy", "", "覆盖 tradingStrategy（sequential/random）")
	seed := flag.Int64("seed", 0, "覆盖随机模式种子，0 表示沿用配置")
	format := flag.String("format", "text", "输出格式 text|json")
	csvPath := flag.String("csv", "", "若指定则写入成交账本 CSV")
	maxPairs := flag.Int("maxPairs", 50, "文本报告最多显示的交易对数，0 表示全部")
	watch := flag.Bool("watch", false, "配置文件变化时重新运行")
	metricsAddr := flag.String("metricsAddr", "", "Prometheus metrics 监听地址，留空则沿用配置")
	flag.Parse()

	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	ov := overrides{strategy: *strat, seed: *seed, metricsAddr: *metricsAddr}
	ov.apply(&cfg)

	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	mcfg := metrics.DefaultConfig()
	if cfg.Metrics.Namespace != "" {
		mcfg.Namespace = cfg.Metrics.Namespace
	}
	rec := metrics.New(mcfg)
	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		onErr := func(err error) {
			lg.LogError(err, map[string]interface{}{"stage": "metrics_error"})
		}
		srv, err = rec.Serve(cfg.Metrics.Addr, onErr)
		if err != nil {
			onErr(err)
		} else {
			lg.Info("metrics_listening", zap.String("addr", srv.Addr))
			defer srv.Close()
		}
	}

	out := output{
		format:   *format,
		csvPath:  *csvPath,
		maxPairs: *maxPairs,
		w:        os.Stdout,
	}
	if err := out.validate(); err != nil {
		log.Fatal(err)
	}

	run := func(c config.AppConfig) error {
		res, err := sim.RunConfig(c.Simulation, sim.WithLogger(lg), sim.WithObserver(rec))
		if err != nil {
			return err
		}
		return out.write(res)
	}

	if err := run(cfg); err != nil {
		lg.LogError(err, map[string]interface{}{"stage": "run"})
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}
	if *cfgPath == "" {
		log.Fatal("-watch 需要 -config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		lg.Warn("sd_notify_failed", zap.Error(err))
	} else if ok {
		lg.Info("sd_notify_ready")
	}

	w := config.Watcher{
		Path:     *cfgPath,
		Debounce: 300 * time.Millisecond,
		OnError: func(err error) {
			lg.LogError(err, map[string]interface{}{"stage": "reload"})
		},
	}
	lg.Info("watching_config", zap.String("path", *cfgPath))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Start(gctx, func(next config.AppConfig) {
			ov.apply(&next)
			lg.Info("config_reloaded", zap.String("strategy", next.Simulation.TradingStrategy))
			if err := run(next); err != nil {
				lg.LogError(err, map[string]interface{}{"stage": "run"})
			}
		})
	})
	if srv != nil {
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	err = g.Wait()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err != nil && !errors.Is(err, context.Canceled) {
		lg.LogError(err, map[string]interface{}{"stage": "watch"})
	}
}

func loadConfig(path string) (config.AppConfig, error) {
	if path != "" {
		return config.LoadWithEnvOverrides(path)
	}
	cfg := config.Default()
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, config.Validate(cfg)
}

// overrides 命令行参数优先于配置文件，热加载后重新套用。
type overrides struct {
	strategy    string
	seed        int64
	metricsAddr string
}

func (o overrides) apply(cfg *config.AppConfig) {
	if o.strategy != "" {
		cfg.Simulation.TradingStrategy = o.strategy
	}
	if o.seed != 0 {
		cfg.Simulation.Seed = o.seed
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}
}

type output struct {
	format   string
	csvPath  string
	maxPairs int
	w        io.Writer
}

func (o output) validate() error {
	switch o.format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown -format %q (text|json)", o.format)
	}
}

func (o output) write(res *sim.Result) error {
	var err error
	if o.format == "json" {
		err = report.WriteJSON(o.w, report.FromResult(res))
	} else {
		err = report.RenderText(o.w, res, report.RenderOptions{MaxPairs: o.maxPairs})
	}
	if err != nil {
		return err
	}
	if o.csvPath == "" {
		return nil
	}
	f, err := os.Create(o.csvPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.WriteLedgerCSV(f, report.FromResult(res).GridBot.TradeHistory)
}
