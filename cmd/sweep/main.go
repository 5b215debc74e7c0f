package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/config"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/infrastructure/logger"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/posttrade"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/report"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/sim"
	"github.com/JoshKasap/Grid-Bot-vs-Buy-and-Hold-Strategy-Comparison-App/strategy"
)

type summary struct {
	Levels         int
	Strategy       string
	Seed           int64
	Steps          int
	Converged      bool
	TotalTrades    int
	UnmatchedSells int
	OpenPairs      int
	WinRate        float64
	GridBotValue   float64
	BuyAndHold     float64
}

// 在同一组价格参数下扫描网格层数与移动方式，输出对比汇总。
// 用法：
//
//	go run ./cmd/sweep -config configs/config.yaml -levels 5,10,20,40 -strategies sequential,random -seeds 1,2,3 -out sweep.csv
func main() {
	cfgPath := flag.String("config", "", "配置文件路径，留空则使用表单默认值")
	levelsArg := flag.String("levels", "5,10,20", "网格层数列表，逗号分隔")
	strategiesArg := flag.String("strategies", "sequential,random", "移动方式列表，逗号分隔")
	seedsArg := flag.String("seeds", "1", "随机模式种子列表，逗号分隔")
	outPath := flag.String("out", "", "若指定则写入 CSV 汇总，否则输出到 stdout")
	flag.Parse()

	base := config.Default()
	if *cfgPath != "" {
		var err error
		base, err = config.LoadWithEnvOverrides(*cfgPath)
		if err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
	}
	lg, err := logger.New(base.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	levels, err := parseInts(*levelsArg)
	if err != nil {
		log.Fatalf("解析 -levels 失败: %v", err)
	}
	seeds, err := parseInts(*seedsArg)
	if err != nil {
		log.Fatalf("解析 -seeds 失败: %v", err)
	}
	cases, err := expand(base.Simulation, levels, splitList(*strategiesArg), seeds)
	if err != nil {
		log.Fatalf("解析 -strategies 失败: %v", err)
	}
	if len(cases) == 0 {
		log.Fatal("没有可运行的组合")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	sums, err := sweep(ctx, cases, lg)
	if err != nil {
		log.Fatalf("扫描失败: %v", err)
	}

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("创建 %s 失败: %v", *outPath, err)
		}
		defer f.Close()
		w = f
	}
	if err := writeSummaryCSV(w, sums); err != nil {
		log.Fatalf("写入汇总 CSV 失败: %v", err)
	}
	if *outPath != "" {
		lg.Info("sweep_written", zap.String("path", *outPath), zap.Int("rows", len(sums)))
	}
}

// expand 生成所有组合。顺序模式与种子无关，只跑一次。
// 任何一个无法识别的移动方式都会让整个扫描失败。
func expand(base config.SimulationConfig, levels []int64, strategies []string, seeds []int64) ([]config.SimulationConfig, error) {
	var out []config.SimulationConfig
	for _, lv := range levels {
		for _, s := range strategies {
			c := base
			c.TotalGridLevels = int(lv)
			c.TradingStrategy = s
			mode, err := c.Mode()
			if err != nil {
				return nil, fmt.Errorf("strategy %q: %w", s, err)
			}
			if mode == strategy.SequentialUpDown {
				c.Seed = 0
				out = append(out, c)
				continue
			}
			for _, seed := range seeds {
				c.Seed = seed
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// sweep 按组合顺序逐个运行，ctx 取消时停止。
func sweep(ctx context.Context, cases []config.SimulationConfig, lg *logger.Logger) ([]summary, error) {
	sums := make([]summary, 0, len(cases))
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := sim.RunConfig(c, sim.WithLogger(lg))
		if err != nil {
			return nil, fmt.Errorf("levels=%d strategy=%s: %w", c.TotalGridLevels, c.TradingStrategy, err)
		}
		stats := posttrade.Summarize(posttrade.GroupPairs(res.Trades))
		sums = append(sums, summary{
			Levels:         c.TotalGridLevels,
			Strategy:       string(res.Params.TradingStrategy),
			Seed:           c.Seed,
			Steps:          res.Steps,
			Converged:      res.Converged,
			TotalTrades:    res.TotalTrades,
			UnmatchedSells: res.UnmatchedSells,
			OpenPairs:      stats.OpenPairs,
			WinRate:        stats.WinRate,
			GridBotValue:   res.GridBotTotalValue,
			BuyAndHold:     res.BuyAndHoldTotalValue,
		})
	}
	return sums, nil
}

func parseInts(arg string) ([]int64, error) {
	var out []int64
	for _, p := range splitList(arg) {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func splitList(arg string) []string {
	var out []string
	for _, p := range strings.Split(arg, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeSummaryCSV(w io.Writer, sums []summary) error {
	if len(sums) == 0 {
		return fmt.Errorf("no summary data")
	}
	cw := csv.NewWriter(w)
	header := []string{"levels", "strategy", "seed", "steps", "converged", "totalTrades",
		"unmatchedSells", "openPairs", "winRate", "gridBotTotal", "buyAndHoldTotal"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range sums {
		record := []string{
			fmt.Sprintf("%d", s.Levels),
			s.Strategy,
			fmt.Sprintf("%d", s.Seed),
			fmt.Sprintf("%d", s.Steps),
			strconv.FormatBool(s.Converged),
			fmt.Sprintf("%d", s.TotalTrades),
			fmt.Sprintf("%d", s.UnmatchedSells),
			fmt.Sprintf("%d", s.OpenPairs),
			fmt.Sprintf("%.4f", s.WinRate),
			report.Fixed(s.GridBotValue),
			report.Fixed(s.BuyAndHold),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
